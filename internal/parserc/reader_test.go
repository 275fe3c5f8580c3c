package parserc_test

import (
	"io"
	"testing"

	"github.com/djoezeke/myyaml/internal/parserc"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

// utf16le encodes s as UTF-16LE, surrogate pairs included, without a BOM.
func utf16le(s string) []byte {
	var out []byte
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, byte(r), byte(r>>8))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
	}
	return out
}

func utf16be(s string) []byte {
	le := utf16le(s)
	for i := 0; i < len(le); i += 2 {
		le[i], le[i+1] = le[i+1], le[i]
	}
	return le
}

func scanBytes(input []byte) ([]yamlh.YamlToken, error) {
	parser := parserc.New(nil)
	parser.Input = input
	var tokens []yamlh.YamlToken
	for {
		token, err := parserc.Scan(parser)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, *token)
		if token.Type == yamlh.STREAM_END_TOKEN {
			return tokens, nil
		}
	}
}

func firstScalar(t *testing.T, tokens []yamlh.YamlToken) *yamlh.YamlToken {
	t.Helper()
	for i := range tokens {
		if tokens[i].Type == yamlh.SCALAR_TOKEN {
			return &tokens[i]
		}
	}
	t.Fatal("no scalar token scanned")
	return nil
}

func readerError(t *testing.T, input []byte) *yamlh.Error {
	t.Helper()
	_, err := scanBytes(input)
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.READER_ERROR, yerr.Type)
	return yerr
}

func TestReadUTF8BOM(t *testing.T) {
	tokens, err := scanBytes([]byte("\xef\xbb\xbfkey: value\n"))
	require.NoError(t, err)
	require.Equal(t, yamlh.UTF8_ENCODING, tokens[0].Encoding)
	require.Equal(t, "key", string(firstScalar(t, tokens).Value))
}

func TestReadUTF16LE(t *testing.T) {
	input := append([]byte{0xFF, 0xFE}, utf16le("a: 1\n")...)
	tokens, err := scanBytes(input)
	require.NoError(t, err)
	require.Equal(t, yamlh.UTF16LE_ENCODING, tokens[0].Encoding)
	require.Equal(t, "a", string(firstScalar(t, tokens).Value))
}

func TestReadUTF16BE(t *testing.T) {
	input := append([]byte{0xFE, 0xFF}, utf16be("a: 1\n")...)
	tokens, err := scanBytes(input)
	require.NoError(t, err)
	require.Equal(t, yamlh.UTF16BE_ENCODING, tokens[0].Encoding)
	require.Equal(t, "a", string(firstScalar(t, tokens).Value))
}

// The same code point above U+FFFF must decode identically from UTF-8
// bytes and from a UTF-16 surrogate pair.
func TestReadSurrogatePair(t *testing.T) {
	const value = "\U0001F600"

	tokens, err := scanBytes([]byte("v: " + value + "\n"))
	require.NoError(t, err)
	fromUTF8 := string(tokens[5].Value)

	input := append([]byte{0xFF, 0xFE}, utf16le("v: "+value+"\n")...)
	tokens, err = scanBytes(input)
	require.NoError(t, err)
	fromUTF16 := string(tokens[5].Value)

	require.Equal(t, value, fromUTF8)
	require.Equal(t, fromUTF8, fromUTF16)
}

func TestReadInvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		problem string
	}{
		{"invalid leading octet", []byte{0xFF, 'a', '\n'}, "invalid leading UTF-8 octet"},
		{"overlong encoding", []byte{0xC0, 0xAF, '\n'}, "invalid length of a UTF-8 sequence"},
		{"surrogate code point", []byte{0xED, 0xA0, 0x80, '\n'}, "invalid Unicode character"},
		{"above U+10FFFF", []byte{0xF4, 0x90, 0x80, 0x80, '\n'}, "invalid Unicode character"},
		{"unfinished sequence at EOF", []byte{'a', 0xC3}, "incomplete UTF-8 octet sequence"},
		{"invalid trailing octet", []byte{0xC3, 0x28, '\n'}, "invalid trailing UTF-8 octet"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			yerr := readerError(t, test.input)
			require.Contains(t, yerr.Problem, test.problem)
		})
	}
}

func TestReadInvalidUTF16(t *testing.T) {
	// An unpaired low surrogate is an error.
	input := append([]byte{0xFF, 0xFE}, 0x00, 0xDC, '\n', 0x00)
	yerr := readerError(t, input)
	require.Contains(t, yerr.Problem, "low surrogate")

	// A high surrogate must be followed by a low surrogate.
	input = append([]byte{0xFF, 0xFE}, 0x3D, 0xD8, 'a', 0x00)
	yerr = readerError(t, input)
	require.Contains(t, yerr.Problem, "low surrogate")

	// A lone high surrogate at EOF is incomplete.
	input = append([]byte{0xFF, 0xFE}, 0x3D, 0xD8)
	yerr = readerError(t, input)
	require.Contains(t, yerr.Problem, "incomplete")
}

func TestReadDisallowedCharacters(t *testing.T) {
	yerr := readerError(t, []byte{'a', 0x01, '\n'})
	require.Contains(t, yerr.Problem, "control characters are not allowed")

	yerr = readerError(t, []byte{'a', 0x0B, '\n'})
	require.Contains(t, yerr.Problem, "control characters are not allowed")
}

func TestReadAllowedControlCharacters(t *testing.T) {
	// Tab, LF and CR are the only characters below 0x20 in the YAML
	// printable set.
	_, err := scanBytes([]byte("a:\tb\r\n"))
	require.NoError(t, err)
}

func TestReadShortReads(t *testing.T) {
	parser := parserc.New(&oneByteReader{data: []byte("key: value\n")})
	var tokens []yamlh.YamlToken
	for {
		token, err := parserc.Scan(parser)
		require.NoError(t, err)
		tokens = append(tokens, *token)
		if token.Type == yamlh.STREAM_END_TOKEN {
			break
		}
	}
	require.Equal(t, "key", string(firstScalar(t, tokens).Value))
}

// oneByteReader delivers one byte per Read call to exercise partial-read
// coalescing.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}
