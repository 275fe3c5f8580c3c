package parserc_test

import (
	"strings"
	"testing"

	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) []yamlh.YamlToken {
	t.Helper()
	parser := parserc.New(nil)
	parser.Input = []byte(input)
	var tokens []yamlh.YamlToken
	for {
		token, err := parserc.Scan(parser)
		require.NoError(t, err)
		tokens = append(tokens, *token)
		if token.Type == yamlh.STREAM_END_TOKEN {
			return tokens
		}
	}
}

func scanError(t *testing.T, input string) error {
	t.Helper()
	parser := parserc.New(nil)
	parser.Input = []byte(input)
	for {
		token, err := parserc.Scan(parser)
		if err != nil {
			return err
		}
		require.NotEqual(t, yamlh.STREAM_END_TOKEN, token.Type, "scanned %q to the end without an error", input)
	}
}

func tokenTypes(tokens []yamlh.YamlToken) []yamlh.TokenType {
	types := make([]yamlh.TokenType, len(tokens))
	for i := range tokens {
		types[i] = tokens[i].Type
	}
	return types
}

func TestScanBlockMapping(t *testing.T) {
	tokens := scanAll(t, "a: 1\nb: 2\n")
	require.Equal(t, []yamlh.TokenType{
		yamlh.STREAM_START_TOKEN,
		yamlh.BLOCK_MAPPING_START_TOKEN,
		yamlh.KEY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.VALUE_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.KEY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.VALUE_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.BLOCK_END_TOKEN,
		yamlh.STREAM_END_TOKEN,
	}, tokenTypes(tokens))
	require.Equal(t, "a", string(tokens[3].Value))
	require.Equal(t, "1", string(tokens[5].Value))
	require.Equal(t, yamlh.PLAIN_SCALAR_STYLE, tokens[3].Style)
}

func TestScanFlowMapping(t *testing.T) {
	tokens := scanAll(t, "{a: 1}\n")
	require.Equal(t, []yamlh.TokenType{
		yamlh.STREAM_START_TOKEN,
		yamlh.FLOW_MAPPING_START_TOKEN,
		yamlh.KEY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.VALUE_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.FLOW_MAPPING_END_TOKEN,
		yamlh.STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanBlockSequence(t *testing.T) {
	tokens := scanAll(t, "- a\n- b\n- c\n")
	require.Equal(t, []yamlh.TokenType{
		yamlh.STREAM_START_TOKEN,
		yamlh.BLOCK_SEQUENCE_START_TOKEN,
		yamlh.BLOCK_ENTRY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.BLOCK_ENTRY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.BLOCK_ENTRY_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.BLOCK_END_TOKEN,
		yamlh.STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanStreamStartEncoding(t *testing.T) {
	tokens := scanAll(t, "a\n")
	require.Equal(t, yamlh.STREAM_START_TOKEN, tokens[0].Type)
	require.Equal(t, yamlh.UTF8_ENCODING, tokens[0].Encoding)
}

func TestScanDirectives(t *testing.T) {
	tokens := scanAll(t, "%YAML 1.2\n%TAG !e! tag:example.com,2000:\n---\nhello\n")
	require.Equal(t, []yamlh.TokenType{
		yamlh.STREAM_START_TOKEN,
		yamlh.VERSION_DIRECTIVE_TOKEN,
		yamlh.TAG_DIRECTIVE_TOKEN,
		yamlh.DOCUMENT_START_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.STREAM_END_TOKEN,
	}, tokenTypes(tokens))
	require.Equal(t, int8(1), tokens[1].Major)
	require.Equal(t, int8(2), tokens[1].Minor)
	require.Equal(t, "!e!", string(tokens[2].Value))
	require.Equal(t, "tag:example.com,2000:", string(tokens[2].Prefix))
}

func TestScanDocumentEnd(t *testing.T) {
	tokens := scanAll(t, "---\na\n...\n")
	require.Equal(t, []yamlh.TokenType{
		yamlh.STREAM_START_TOKEN,
		yamlh.DOCUMENT_START_TOKEN,
		yamlh.SCALAR_TOKEN,
		yamlh.DOCUMENT_END_TOKEN,
		yamlh.STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanAnchorAndAlias(t *testing.T) {
	tokens := scanAll(t, "a: &x 1\nb: *x\n")
	var anchor, alias *yamlh.YamlToken
	for i := range tokens {
		switch tokens[i].Type {
		case yamlh.ANCHOR_TOKEN:
			anchor = &tokens[i]
		case yamlh.ALIAS_TOKEN:
			alias = &tokens[i]
		}
	}
	require.NotNil(t, anchor)
	require.NotNil(t, alias)
	require.Equal(t, "x", string(anchor.Value))
	require.Equal(t, "x", string(alias.Value))
}

func TestScanTags(t *testing.T) {
	tests := []struct {
		input  string
		handle string
		suffix string
	}{
		{"!!str a\n", "!!", "str"},
		{"!local a\n", "!", "local"},
		{"!<tag:example.com,2000:app/foo> a\n", "", "tag:example.com,2000:app/foo"},
	}
	for _, test := range tests {
		tokens := scanAll(t, test.input)
		require.Equal(t, yamlh.TAG_TOKEN, tokens[1].Type, "input %q", test.input)
		require.Equal(t, test.handle, string(tokens[1].Value), "input %q", test.input)
		require.Equal(t, test.suffix, string(tokens[1].Suffix), "input %q", test.input)
	}
}

func TestScanTagURIEscapes(t *testing.T) {
	tokens := scanAll(t, "!<tag:example.com,2000:%C3%A9> a\n")
	require.Equal(t, yamlh.TAG_TOKEN, tokens[1].Type)
	require.Equal(t, "tag:example.com,2000:\xc3\xa9", string(tokens[1].Suffix))
}

func TestScanBlockScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		style yamlh.YamlScalarStyle
	}{
		{"literal clip", "s: |\n  line1\n  line2\n", "line1\nline2\n", yamlh.LITERAL_SCALAR_STYLE},
		{"literal strip", "s: |-\n  line1\n  line2\n\n", "line1\nline2", yamlh.LITERAL_SCALAR_STYLE},
		{"literal keep", "s: |+\n  line1\n\n", "line1\n\n", yamlh.LITERAL_SCALAR_STYLE},
		{"literal indent indicator", "s: |2\n   line1\n", " line1\n", yamlh.LITERAL_SCALAR_STYLE},
		{"folded", "s: >\n  a\n  b\n", "a b\n", yamlh.FOLDED_SCALAR_STYLE},
		{"folded blank line", "s: >\n  a\n\n  b\n", "a\nb\n", yamlh.FOLDED_SCALAR_STYLE},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens := scanAll(t, test.input)
			scalar := tokens[5]
			require.Equal(t, yamlh.SCALAR_TOKEN, scalar.Type)
			require.Equal(t, test.value, string(scalar.Value))
			require.Equal(t, test.style, scalar.Style)
		})
	}
}

func TestScanFlowScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		style yamlh.YamlScalarStyle
	}{
		{"single quoted", "'a''b'\n", "a'b", yamlh.SINGLE_QUOTED_SCALAR_STYLE},
		{"single quoted fold", "'a\n b'\n", "a b", yamlh.SINGLE_QUOTED_SCALAR_STYLE},
		{"double quoted escapes", `"\t\n\\"` + "\n", "\t\n\\", yamlh.DOUBLE_QUOTED_SCALAR_STYLE},
		{"double quoted hex", `"\x41é\U0001F600"` + "\n", "Aé\U0001F600", yamlh.DOUBLE_QUOTED_SCALAR_STYLE},
		{"double quoted escaped break", "\"a\\\n  b\"\n", "ab", yamlh.DOUBLE_QUOTED_SCALAR_STYLE},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens := scanAll(t, test.input)
			require.Equal(t, yamlh.SCALAR_TOKEN, tokens[1].Type)
			require.Equal(t, test.value, string(tokens[1].Value))
			require.Equal(t, test.style, tokens[1].Style)
		})
	}
}

func TestScanPlainScalarFolding(t *testing.T) {
	tokens := scanAll(t, "a\n b\n\n c\n")
	require.Equal(t, yamlh.SCALAR_TOKEN, tokens[1].Type)
	require.Equal(t, "a b\nc", string(tokens[1].Value))
}

func TestScanBlockScalarZeroIndicator(t *testing.T) {
	err := scanError(t, "s: |0\n  x\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.SCANNER_ERROR, yerr.Type)
}

func TestScanUnterminatedQuotedScalar(t *testing.T) {
	err := scanError(t, "'never closed\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.SCANNER_ERROR, yerr.Type)
}

func TestScanOverlongSimpleKey(t *testing.T) {
	err := scanError(t, strings.Repeat("k", 1025)+": v\n")
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.SCANNER_ERROR, yerr.Type)
}

func TestScanAfterStreamEnd(t *testing.T) {
	parser := parserc.New(nil)
	parser.Input = []byte("a\n")
	for {
		token, err := parserc.Scan(parser)
		require.NoError(t, err)
		if token.Type == yamlh.STREAM_END_TOKEN {
			break
		}
	}
	token, err := parserc.Scan(parser)
	require.NoError(t, err)
	require.Equal(t, yamlh.NO_TOKEN, token.Type)
}
