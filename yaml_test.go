package yaml_test

import (
	"bytes"
	"io"
	"testing"

	yaml "github.com/djoezeke/myyaml"
	"github.com/stretchr/testify/require"
)

func parseEvents(t *testing.T, input string) []yaml.Event {
	t.Helper()
	parser := yaml.NewParser()
	parser.SetInputString([]byte(input))
	var events []yaml.Event
	for {
		event, err := parser.Parse()
		require.NoError(t, err)
		events = append(events, *event)
		if event.Type == yaml.StreamEndEvent {
			return events
		}
	}
}

func emitEvents(t *testing.T, events []yaml.Event) string {
	t.Helper()
	var buf bytes.Buffer
	emitter := yaml.NewEmitter(&buf)
	for i := range events {
		require.NoError(t, emitter.Emit(&events[i]))
	}
	require.NoError(t, emitter.Flush())
	return buf.String()
}

func loadOne(t *testing.T, input string) *yaml.Document {
	t.Helper()
	parser := yaml.NewParser()
	parser.SetInputString([]byte(input))
	doc, err := parser.Load()
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func dumpOne(t *testing.T, doc *yaml.Document) string {
	t.Helper()
	var buf bytes.Buffer
	emitter := yaml.NewEmitter(&buf)
	require.NoError(t, emitter.Dump(doc))
	require.NoError(t, emitter.Close())
	return buf.String()
}

func TestFlowMappingEvents(t *testing.T) {
	events := parseEvents(t, "{a: 1, b: 2}\n")
	types := make([]yaml.EventType, len(events))
	for i := range events {
		types[i] = events[i].Type
	}
	require.Equal(t, []yaml.EventType{
		yaml.StreamStartEvent,
		yaml.DocumentStartEvent,
		yaml.MappingStartEvent,
		yaml.ScalarEvent,
		yaml.ScalarEvent,
		yaml.ScalarEvent,
		yaml.ScalarEvent,
		yaml.MappingEndEvent,
		yaml.DocumentEndEvent,
		yaml.StreamEndEvent,
	}, types)
	require.True(t, events[1].Implicit)
	require.True(t, events[8].Implicit)
}

func TestEventRoundTrip(t *testing.T) {
	inputs := []string{
		"a: 1\nb: 2\n",
		"{a: 1, b: 2}\n",
		"- a\n- b\n- c\n",
		"s: |-\n  line1\n  line2\n",
		"s: |\n  line1\n  line2\n",
		"'quoted'\n",
		"\"double\\tquoted\"\n",
		"nested:\n  - x: 1\n    y: 2\n",
		"a: &x 1\nb: *x\n",
		"%YAML 1.2\n---\nhello\n",
		"one\n---\ntwo\n",
	}
	for _, input := range inputs {
		events := parseEvents(t, input)
		output := emitEvents(t, events)

		reparsed := parseEvents(t, output)
		require.Equal(t, len(events), len(reparsed), "input %q emitted %q", input, output)
		for i := range events {
			require.Equal(t, events[i].Type, reparsed[i].Type, "input %q emitted %q event %d", input, output, i)
			if events[i].Type == yaml.ScalarEvent {
				require.Equal(t, string(events[i].Value), string(reparsed[i].Value), "input %q emitted %q event %d", input, output, i)
			}
		}

		// One round trip reaches a fixed point: emitting the reparsed
		// events reproduces the same bytes.
		require.Equal(t, output, emitEvents(t, reparsed), "input %q", input)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	inputs := []string{
		"a: 1\nb: 2\n",
		"- a\n- b\n- c\n",
		"fruit:\n  - name: apple\n    varieties:\n      - name: macintosh\n",
		"s: |-\n  line1\n  line2\n",
	}
	for _, input := range inputs {
		doc := loadOne(t, input)
		reloaded := loadOne(t, dumpOne(t, doc))

		require.Equal(t, doc.Len(), reloaded.Len(), "input %q", input)
		for id := 1; id <= doc.Len(); id++ {
			a, b := doc.GetNode(id), reloaded.GetNode(id)
			require.Equal(t, a.Kind, b.Kind, "input %q node %d", input, id)
			require.Equal(t, a.Tag, b.Tag, "input %q node %d", input, id)
			require.Equal(t, string(a.Value), string(b.Value), "input %q node %d", input, id)
			require.Equal(t, a.Items, b.Items, "input %q node %d", input, id)
			require.Equal(t, a.Pairs, b.Pairs, "input %q node %d", input, id)
		}
	}
}

func TestDumpGeneratesAnchors(t *testing.T) {
	doc := loadOne(t, "a: &x 1\nb: *x\n")
	out := dumpOne(t, doc)
	require.Equal(t, "a: &id001 1\nb: *id001\n", out)
}

func TestDumpManualDocument(t *testing.T) {
	doc := yaml.NewDocument(nil, nil, true, true)
	root := doc.AddMapping("", yaml.AnyMappingStyle)
	key := doc.AddScalar("", []byte("a"), yaml.AnyScalarStyle)
	value := doc.AddScalar("", []byte("1"), yaml.AnyScalarStyle)
	require.NoError(t, doc.AppendMappingPair(root, key, value))

	require.Equal(t, "a: 1\n", dumpOne(t, doc))
}

func TestDumpSharedNodeByConstruction(t *testing.T) {
	doc := yaml.NewDocument(nil, nil, true, true)
	root := doc.AddMapping("", yaml.AnyMappingStyle)
	shared := doc.AddScalar("", []byte("1"), yaml.AnyScalarStyle)
	for _, k := range []string{"a", "b"} {
		key := doc.AddScalar("", []byte(k), yaml.AnyScalarStyle)
		require.NoError(t, doc.AppendMappingPair(root, key, shared))
	}

	require.Equal(t, "a: &id001 1\nb: *id001\n", dumpOne(t, doc))
}

func TestDumpTaggedScalars(t *testing.T) {
	doc := yaml.NewDocument(nil, nil, true, true)
	doc.AddScalar("!!int", []byte("42"), yaml.AnyScalarStyle)
	require.Equal(t, "42\n", dumpOne(t, doc), "a value resolving to its own tag needs no tag written")

	doc = yaml.NewDocument(nil, nil, true, true)
	doc.AddScalar("!!int", []byte("foo"), yaml.AnyScalarStyle)
	require.Equal(t, "!!int foo\n", dumpOne(t, doc), "a value not resolving to its tag keeps it")
}

func TestDumpMultipleDocuments(t *testing.T) {
	var buf bytes.Buffer
	emitter := yaml.NewEmitter(&buf)
	for _, value := range []string{"one", "two"} {
		doc := yaml.NewDocument(nil, nil, true, true)
		doc.AddScalar("", []byte(value), yaml.AnyScalarStyle)
		require.NoError(t, emitter.Dump(doc))
	}
	require.NoError(t, emitter.Close())

	parser := yaml.NewParser()
	parser.SetInputString(buf.Bytes())

	first, err := parser.Load()
	require.NoError(t, err)
	require.Equal(t, "one", string(first.GetRootNode().Value))

	second, err := parser.Load()
	require.NoError(t, err)
	require.Equal(t, "two", string(second.GetRootNode().Value))

	_, err = parser.Load()
	require.Equal(t, io.EOF, err)
}

func TestLoadVersionDirective(t *testing.T) {
	doc := loadOne(t, "%YAML 1.2\n---\nhello\n")
	require.NotNil(t, doc.Version)
	require.Equal(t, int8(1), doc.Version.Major)
	require.Equal(t, int8(2), doc.Version.Minor)
	require.False(t, doc.StartImplicit)
	require.Equal(t, "hello", string(doc.GetRootNode().Value))
}

func TestLoadEmptyStream(t *testing.T) {
	parser := yaml.NewParser()
	parser.SetInputString(nil)
	_, err := parser.Load()
	require.Equal(t, io.EOF, err)
}

func TestPathLookup(t *testing.T) {
	doc := loadOne(t, "fruit:\n  - name: apple\n    varieties:\n      - name: macintosh\n")
	id := doc.PathLookup("fruit", "0", "varieties", "0", "name")
	require.NotZero(t, id)
	require.Equal(t, "macintosh", string(doc.GetNode(id).Value))
	require.Zero(t, doc.PathLookup("fruit", "1"))
}

func TestParserErrorsAreSticky(t *testing.T) {
	parser := yaml.NewParser()
	parser.SetInputString([]byte("a: &x 1\nb: &x 2\n"))

	_, err := parser.Load()
	require.Error(t, err)
	require.Equal(t, err, parser.Err())

	var yerr *yaml.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yaml.ComposerError, yerr.Type)

	_, again := parser.Load()
	require.Equal(t, err, again)
	_, again = parser.Parse()
	require.Equal(t, err, again)
	_, again = parser.Scan()
	require.Equal(t, err, again)
}

func TestEmitterErrorsAreSticky(t *testing.T) {
	var buf bytes.Buffer
	emitter := yaml.NewEmitter(&buf)

	err := emitter.Emit(&yaml.Event{Type: yaml.ScalarEvent, Value: []byte("x"), Implicit: true})
	require.Error(t, err)
	require.Equal(t, err, emitter.Err())
	require.Equal(t, err, emitter.Flush())

	doc := yaml.NewDocument(nil, nil, true, true)
	doc.AddScalar("", []byte("x"), yaml.AnyScalarStyle)
	require.Equal(t, err, emitter.Dump(doc))
}

func TestScanTokensThroughFacade(t *testing.T) {
	parser := yaml.NewParser()
	parser.SetInputString([]byte("a: 1\n"))
	var values []string
	for {
		token, err := parser.Scan()
		require.NoError(t, err)
		if len(token.Value) > 0 {
			values = append(values, string(token.Value))
		}
		if token.Type == yaml.StreamEndToken {
			break
		}
	}
	require.Equal(t, []string{"a", "1"}, values)
}

func TestUTF16EndToEnd(t *testing.T) {
	for _, encoding := range []yaml.Encoding{yaml.UTF16LEEncoding, yaml.UTF16BEEncoding} {
		doc := yaml.NewDocument(nil, nil, true, true)
		root := doc.AddMapping("", yaml.AnyMappingStyle)
		key := doc.AddScalar("", []byte("a"), yaml.AnyScalarStyle)
		value := doc.AddScalar("", []byte("1"), yaml.AnyScalarStyle)
		require.NoError(t, doc.AppendMappingPair(root, key, value))

		var buf bytes.Buffer
		emitter := yaml.NewEmitter(&buf)
		emitter.SetEncoding(encoding)
		require.NoError(t, emitter.Dump(doc))
		require.NoError(t, emitter.Close())

		parser := yaml.NewParser()
		parser.SetInputString(buf.Bytes())
		reloaded, err := parser.Load()
		require.NoError(t, err)
		root2 := reloaded.GetRootNode()
		require.Equal(t, "a", string(reloaded.GetNode(root2.Pairs[0].Key).Value))
		require.Equal(t, "1", string(reloaded.GetNode(root2.Pairs[0].Value).Value))
	}
}

func TestEmitterOptionsThroughFacade(t *testing.T) {
	events := parseEvents(t, "a:\n  b: 1\n")

	var buf bytes.Buffer
	emitter := yaml.NewEmitter(&buf)
	emitter.SetIndent(4)
	for i := range events {
		require.NoError(t, emitter.Emit(&events[i]))
	}
	require.NoError(t, emitter.Flush())
	require.Equal(t, "a:\n    b: 1\n", buf.String())
}
