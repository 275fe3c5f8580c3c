package emitter_test

import (
	"bytes"
	"testing"

	"github.com/djoezeke/myyaml/internal/emitter"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func streamStart() *yamlh.Event { return &yamlh.Event{Type: yamlh.STREAM_START_EVENT} }
func streamEnd() *yamlh.Event   { return &yamlh.Event{Type: yamlh.STREAM_END_EVENT} }

func docStart() *yamlh.Event {
	return &yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}
}

func docEnd() *yamlh.Event {
	return &yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}
}

func scalar(value string, style yamlh.YamlScalarStyle) *yamlh.Event {
	return &yamlh.Event{
		Type:            yamlh.SCALAR_EVENT,
		Value:           []byte(value),
		Implicit:        true,
		Quoted_implicit: true,
		Style:           yamlh.YamlStyle(style),
	}
}

func mappingStart(style yamlh.YamlMappingStyle) *yamlh.Event {
	return &yamlh.Event{Type: yamlh.MAPPING_START_EVENT, Implicit: true, Style: yamlh.YamlStyle(style)}
}

func mappingEnd() *yamlh.Event { return &yamlh.Event{Type: yamlh.MAPPING_END_EVENT} }

func sequenceStart(style yamlh.YamlSequenceStyle) *yamlh.Event {
	return &yamlh.Event{Type: yamlh.SEQUENCE_START_EVENT, Implicit: true, Style: yamlh.YamlStyle(style)}
}

func sequenceEnd() *yamlh.Event { return &yamlh.Event{Type: yamlh.SEQUENCE_END_EVENT} }

func emitEvents(t *testing.T, configure func(*emitter.Emitter), events ...*yamlh.Event) string {
	t.Helper()
	var buf bytes.Buffer
	e := emitter.New(&buf)
	if configure != nil {
		configure(e)
	}
	for _, event := range events {
		require.NoError(t, e.Emit(event, event.Type == yamlh.STREAM_END_EVENT))
	}
	require.NoError(t, e.Flush())
	return buf.String()
}

func document(content ...*yamlh.Event) []*yamlh.Event {
	events := []*yamlh.Event{streamStart(), docStart()}
	events = append(events, content...)
	return append(events, docEnd(), streamEnd())
}

func TestEmitBlockMapping(t *testing.T) {
	out := emitEvents(t, nil, document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		scalar("1", yamlh.ANY_SCALAR_STYLE),
		scalar("b", yamlh.ANY_SCALAR_STYLE),
		scalar("2", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
	)...)
	require.Equal(t, "a: 1\nb: 2\n", out)
}

func TestEmitFlowMapping(t *testing.T) {
	out := emitEvents(t, nil, document(
		mappingStart(yamlh.FLOW_MAPPING_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		scalar("1", yamlh.ANY_SCALAR_STYLE),
		scalar("b", yamlh.ANY_SCALAR_STYLE),
		scalar("2", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
	)...)
	require.Equal(t, "{a: 1, b: 2}\n", out)
}

func TestEmitBlockSequence(t *testing.T) {
	out := emitEvents(t, nil, document(
		sequenceStart(yamlh.ANY_SEQUENCE_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		scalar("b", yamlh.ANY_SCALAR_STYLE),
		scalar("c", yamlh.ANY_SCALAR_STYLE),
		sequenceEnd(),
	)...)
	require.Equal(t, "- a\n- b\n- c\n", out)
}

func TestEmitEmptyCollections(t *testing.T) {
	out := emitEvents(t, nil, document(
		sequenceStart(yamlh.ANY_SEQUENCE_STYLE),
		sequenceEnd(),
	)...)
	require.Equal(t, "[]\n", out)

	out = emitEvents(t, nil, document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		mappingEnd(),
	)...)
	require.Equal(t, "{}\n", out)
}

func TestEmitLiteralScalar(t *testing.T) {
	out := emitEvents(t, nil, document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("s", yamlh.ANY_SCALAR_STYLE),
		scalar("line1\nline2", yamlh.LITERAL_SCALAR_STYLE),
		mappingEnd(),
	)...)
	require.Equal(t, "s: |-\n  line1\n  line2\n", out)
}

func TestEmitLiteralScalarClip(t *testing.T) {
	out := emitEvents(t, nil, document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("s", yamlh.ANY_SCALAR_STYLE),
		scalar("line1\nline2\n", yamlh.LITERAL_SCALAR_STYLE),
		mappingEnd(),
	)...)
	require.Equal(t, "s: |\n  line1\n  line2\n", out)
}

func TestEmitPlainUpgradedToSingleQuoted(t *testing.T) {
	out := emitEvents(t, nil, document(
		scalar("- a", yamlh.PLAIN_SCALAR_STYLE),
	)...)
	require.Equal(t, "'- a'\n", out)
}

func TestEmitSpecialCharactersForceDoubleQuotes(t *testing.T) {
	out := emitEvents(t, nil, document(
		scalar("a\x00b", yamlh.PLAIN_SCALAR_STYLE),
	)...)
	require.Equal(t, "\"a\\0b\"\n", out)
}

func TestEmitMultilineSimpleKeyForcedDoubleQuoted(t *testing.T) {
	out := emitEvents(t, nil, document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("k1\nk2", yamlh.ANY_SCALAR_STYLE),
		scalar("v", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
	)...)
	require.Contains(t, out, "\"k1\\nk2\"")
}

func TestEmitCanonicalForcesDoubleQuotes(t *testing.T) {
	out := emitEvents(t, func(e *emitter.Emitter) {
		e.SetCanonical(true)
	}, document(
		scalar("a", yamlh.ANY_SCALAR_STYLE),
	)...)
	require.Contains(t, out, "\"a\"")
}

func TestEmitLineBreakStyles(t *testing.T) {
	events := document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		scalar("1", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
	)

	out := emitEvents(t, func(e *emitter.Emitter) {
		e.SetLineBreak(yamlh.CRLN_BREAK)
	}, events...)
	require.Equal(t, "a: 1\r\n", out)

	out = emitEvents(t, func(e *emitter.Emitter) {
		e.SetLineBreak(yamlh.CR_BREAK)
	}, events...)
	require.Equal(t, "a: 1\r", out)
}

func TestEmitIndentSetting(t *testing.T) {
	events := document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("b", yamlh.ANY_SCALAR_STYLE),
		scalar("1", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
		mappingEnd(),
	)

	out := emitEvents(t, func(e *emitter.Emitter) {
		e.SetIndent(4)
	}, events...)
	require.Equal(t, "a:\n    b: 1\n", out)
}

func TestEmitUnicodeEscaping(t *testing.T) {
	events := document(
		scalar("é", yamlh.DOUBLE_QUOTED_SCALAR_STYLE),
	)

	out := emitEvents(t, nil, events...)
	require.Equal(t, "\"é\"\n", out)

	out = emitEvents(t, func(e *emitter.Emitter) {
		e.SetUnicode(false)
	}, events...)
	require.Equal(t, "\"\\xE9\"\n", out)
}

func TestEmitExplicitDocumentEnd(t *testing.T) {
	out := emitEvents(t, nil,
		streamStart(),
		docStart(),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		&yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT},
		streamEnd(),
	)
	require.Equal(t, "a\n...\n", out)
}

func TestEmitVersionDirective(t *testing.T) {
	out := emitEvents(t, nil,
		streamStart(),
		&yamlh.Event{
			Type:              yamlh.DOCUMENT_START_EVENT,
			Version_directive: &yamlh.VersionDirective{Major: 1, Minor: 2},
		},
		scalar("hello", yamlh.ANY_SCALAR_STYLE),
		docEnd(),
		streamEnd(),
	)
	require.Equal(t, "%YAML 1.2\n---\nhello\n", out)
}

func TestEmitIncompatibleVersionDirective(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	require.NoError(t, e.Emit(streamStart(), false))
	err := e.Emit(&yamlh.Event{
		Type:              yamlh.DOCUMENT_START_EVENT,
		Version_directive: &yamlh.VersionDirective{Major: 2, Minor: 0},
	}, false)
	require.NoError(t, err, "the document start waits for its content event")
	err = e.Emit(scalar("x", yamlh.ANY_SCALAR_STYLE), false)
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.EMITTER_ERROR, yerr.Type)
}

func TestEmitEventOutOfOrder(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	err := e.Emit(scalar("a", yamlh.ANY_SCALAR_STYLE), false)
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.EMITTER_ERROR, yerr.Type)
}

func TestOpenClose(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	require.NoError(t, e.Open())
	for _, event := range []*yamlh.Event{
		docStart(),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		docEnd(),
	} {
		require.NoError(t, e.Emit(event, false))
	}
	require.NoError(t, e.Close())
	require.Equal(t, "a\n", buf.String())
}
