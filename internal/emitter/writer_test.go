package emitter_test

import (
	"bytes"
	"testing"

	"github.com/djoezeke/myyaml/internal/emitter"
	"github.com/djoezeke/myyaml/internal/yamlh"
	"github.com/stretchr/testify/require"
)

func utf16Bytes(s string, little bool) []byte {
	var out []byte
	put := func(u rune) {
		if little {
			out = append(out, byte(u), byte(u>>8))
		} else {
			out = append(out, byte(u>>8), byte(u))
		}
	}
	for _, r := range s {
		if r <= 0xFFFF {
			put(r)
			continue
		}
		r -= 0x10000
		put(0xD800 + (r >> 10))
		put(0xDC00 + (r & 0x3FF))
	}
	return out
}

func TestWriterUTF8Passthrough(t *testing.T) {
	var buf bytes.Buffer
	w := emitter.NewWriter(&buf)
	_, err := w.Write([]byte("a: 1\n"))
	require.NoError(t, err)
	require.Empty(t, buf.Bytes(), "bytes must stay buffered until flush")
	require.NoError(t, w.Flush())
	require.Equal(t, "a: 1\n", buf.String())
}

func TestWriterUTF16LE(t *testing.T) {
	var buf bytes.Buffer
	w := emitter.NewWriter(&buf)
	w.SetEncoding(yamlh.UTF16LE_ENCODING)
	_, err := w.Write([]byte("a: 1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	want := append([]byte{0xFF, 0xFE}, utf16Bytes("a: 1\n", true)...)
	require.Equal(t, want, buf.Bytes())
}

func TestWriterUTF16BE(t *testing.T) {
	var buf bytes.Buffer
	w := emitter.NewWriter(&buf)
	w.SetEncoding(yamlh.UTF16BE_ENCODING)
	_, err := w.Write([]byte("é\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	want := append([]byte{0xFE, 0xFF}, utf16Bytes("é\n", false)...)
	require.Equal(t, want, buf.Bytes())
}

func TestWriterUTF16SurrogatePairs(t *testing.T) {
	var buf bytes.Buffer
	w := emitter.NewWriter(&buf)
	w.SetEncoding(yamlh.UTF16LE_ENCODING)
	_, err := w.Write([]byte("\U0001F600"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	want := append([]byte{0xFF, 0xFE}, utf16Bytes("\U0001F600", true)...)
	require.Equal(t, want, buf.Bytes())
}

func TestWriterBOMWrittenOnce(t *testing.T) {
	var buf bytes.Buffer
	w := emitter.NewWriter(&buf)
	w.SetEncoding(yamlh.UTF16LE_ENCODING)
	for _, chunk := range []string{"a", "b"} {
		_, err := w.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, w.Flush())
	}
	want := append([]byte{0xFF, 0xFE}, utf16Bytes("ab", true)...)
	require.Equal(t, want, buf.Bytes())
}

// shortWriter accepts one byte fewer than asked, without an error.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return len(p) - 1, nil
}

func TestWriterShortWrite(t *testing.T) {
	w := emitter.NewWriter(shortWriter{})
	_, err := w.Write([]byte("a: 1\n"))
	require.NoError(t, err)
	err = w.Flush()
	require.Error(t, err)
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.WRITER_ERROR, yerr.Type)
	require.Contains(t, yerr.Problem, "short write")
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestWriterSinkError(t *testing.T) {
	w := emitter.NewWriter(errWriter{})
	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	err = w.Flush()
	var yerr *yamlh.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.WRITER_ERROR, yerr.Type)
}

func TestEmitterUTF16Output(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	e.SetEncoding(yamlh.UTF16LE_ENCODING)
	for _, event := range document(
		mappingStart(yamlh.ANY_MAPPING_STYLE),
		scalar("a", yamlh.ANY_SCALAR_STYLE),
		scalar("1", yamlh.ANY_SCALAR_STYLE),
		mappingEnd(),
	) {
		require.NoError(t, e.Emit(event, event.Type == yamlh.STREAM_END_EVENT))
	}
	require.NoError(t, e.Flush())

	want := append([]byte{0xFF, 0xFE}, utf16Bytes("a: 1\n", true)...)
	require.Equal(t, want, buf.Bytes())
}
