package parserc_test

import (
	"strings"
	"testing"

	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, input string) []yamlh.Event {
	t.Helper()
	parser := parserc.New(nil)
	parser.Input = []byte(input)
	var events []yamlh.Event
	for {
		event, err := parserc.Parse(parser)
		require.NoError(t, err)
		events = append(events, *event)
		if event.Type == yamlh.STREAM_END_EVENT {
			return events
		}
	}
}

func parseError(t *testing.T, input string) error {
	t.Helper()
	parser := parserc.New(nil)
	parser.Input = []byte(input)
	for {
		event, err := parserc.Parse(parser)
		if err != nil {
			return err
		}
		require.NotEqual(t, yamlh.STREAM_END_EVENT, event.Type, "parsed %q to the end without an error", input)
	}
}

func eventTypes(events []yamlh.Event) []yamlh.EventType {
	types := make([]yamlh.EventType, len(events))
	for i := range events {
		types[i] = events[i].Type
	}
	return types
}

func TestParseFlowMapping(t *testing.T) {
	events := parseAll(t, "{a: 1, b: 2}\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.MAPPING_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.MAPPING_END_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))

	require.True(t, events[1].Implicit)
	require.True(t, events[8].Implicit)
	require.Equal(t, yamlh.FLOW_MAPPING_STYLE, events[2].Mapping_style())
	for i, want := range []string{"a", "1", "b", "2"} {
		scalar := events[3+i]
		require.Equal(t, want, string(scalar.Value))
		require.Equal(t, yamlh.PLAIN_SCALAR_STYLE, scalar.Scalar_style())
	}
}

func TestParseEmptyInput(t *testing.T) {
	events := parseAll(t, "")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
}

func TestParseBareDocumentStart(t *testing.T) {
	events := parseAll(t, "---\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
	require.False(t, events[1].Implicit)
	require.Empty(t, events[2].Value)
}

func TestParseVersionDirective(t *testing.T) {
	events := parseAll(t, "%YAML 1.2\n---\nhello\n")
	require.Equal(t, yamlh.DOCUMENT_START_EVENT, events[1].Type)
	require.False(t, events[1].Implicit)
	require.NotNil(t, events[1].Version_directive)
	require.Equal(t, int8(1), events[1].Version_directive.Major)
	require.Equal(t, int8(2), events[1].Version_directive.Minor)

	scalar := events[2]
	require.Equal(t, yamlh.SCALAR_EVENT, scalar.Type)
	require.Equal(t, "hello", string(scalar.Value))
	require.Equal(t, yamlh.PLAIN_SCALAR_STYLE, scalar.Scalar_style())
}

func TestParseIncompatibleVersion(t *testing.T) {
	err := parseError(t, "%YAML 1.3\n---\nx\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.PARSER_ERROR, yerr.Type)
	require.Contains(t, yerr.Problem, "incompatible YAML document")
}

func TestParseDuplicateVersionDirective(t *testing.T) {
	err := parseError(t, "%YAML 1.1\n%YAML 1.1\n---\nx\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.PARSER_ERROR, yerr.Type)
}

func TestParseUndefinedTagHandle(t *testing.T) {
	err := parseError(t, "!e!foo bar\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.PARSER_ERROR, yerr.Type)
	require.Contains(t, yerr.Problem, "undefined tag handle")
}

func TestParseTagHandleExpansion(t *testing.T) {
	events := parseAll(t, "%TAG !e! tag:example.com,2000:\n---\n!e!foo bar\n")
	scalar := events[2]
	require.Equal(t, yamlh.SCALAR_EVENT, scalar.Type)
	require.Equal(t, "tag:example.com,2000:foo", string(scalar.Tag))
	require.Equal(t, "bar", string(scalar.Value))
}

func TestParseSecondaryTagHandle(t *testing.T) {
	events := parseAll(t, "!!str 1\n")
	scalar := events[2]
	require.Equal(t, "tag:yaml.org,2002:str", string(scalar.Tag))
	require.False(t, scalar.Implicit)
}

func TestParseAnchorAndAlias(t *testing.T) {
	events := parseAll(t, "a: &x 1\nb: *x\n")
	var anchored, alias *yamlh.Event
	for i := range events {
		if events[i].Type == yamlh.SCALAR_EVENT && len(events[i].Anchor) > 0 {
			anchored = &events[i]
		}
		if events[i].Type == yamlh.ALIAS_EVENT {
			alias = &events[i]
		}
	}
	require.NotNil(t, anchored)
	require.NotNil(t, alias)
	require.Equal(t, "x", string(anchored.Anchor))
	require.Equal(t, "x", string(alias.Anchor))
}

func TestParseMultipleDocuments(t *testing.T) {
	events := parseAll(t, "one\n---\ntwo\n...\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
	require.True(t, events[1].Implicit)
	require.True(t, events[3].Implicit)
	require.False(t, events[4].Implicit)
	require.False(t, events[6].Implicit)
}

func TestParseBlockSequenceOfMappings(t *testing.T) {
	events := parseAll(t, "- name: apple\n- name: pear\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SEQUENCE_START_EVENT,
		yamlh.MAPPING_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.MAPPING_END_EVENT,
		yamlh.MAPPING_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.MAPPING_END_EVENT,
		yamlh.SEQUENCE_END_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
}

func TestParseNestingLimit(t *testing.T) {
	deep := strings.Repeat("[", 30) + "1" + strings.Repeat("]", 30) + "\n"

	parser := parserc.New(nil)
	parser.Input = []byte(deep)
	var err error
	for err == nil {
		var event *yamlh.Event
		event, err = parserc.Parse(parser)
		if err == nil && event.Type == yamlh.STREAM_END_EVENT {
			break
		}
	}
	require.NoError(t, err, "default nesting limit should allow 30 levels")

	parser2 := parserc.New(nil)
	parser2.Input = []byte(deep)
	parser2.MaxNestingLevel = 10
	for err = nil; err == nil; {
		var event *yamlh.Event
		event, err = parserc.Parse(parser2)
		if err == nil {
			require.NotEqual(t, yamlh.STREAM_END_EVENT, event.Type, "expected the nesting cap to fire")
		}
	}
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.PARSER_ERROR, yerr.Type)
	require.Contains(t, yerr.Problem, "nesting level too deep")
}

func TestParseMarks(t *testing.T) {
	events := parseAll(t, "a: 1\n")
	var scalar *yamlh.Event
	for i := range events {
		if events[i].Type == yamlh.SCALAR_EVENT {
			scalar = &events[i]
			break
		}
	}
	require.NotNil(t, scalar)
	require.Equal(t, 0, scalar.Start_mark.Line)
	require.Equal(t, 0, scalar.Start_mark.Column)
	require.Equal(t, 1, scalar.End_mark.Column)
}
