package gzip

import (
	"bytes"
	stdgzip "compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func compressGzip(t *testing.T, name string, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := stdgzip.NewWriterLevel(&buf, stdgzip.BestCompression)
	require.NoError(t, err)
	w.Name = name
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// TestHelloGzip checks that a GZIP member of "hello" decodes to
// exactly those five bytes, and that the trailer's CRC-32/ISIZE
// validate.
func TestHelloGzip(t *testing.T) {
	data := compressGzip(t, "hello.txt", []byte("hello"))

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
	require.Equal(t, "hello.txt", r.Name)
}

func TestBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x00, 0x00, 0x08, 0x00, 0, 0, 0, 0, 0, 0}))
	require.ErrorIs(t, err, ErrHeader)
}

func TestMultistream(t *testing.T) {
	a := compressGzip(t, "", []byte("foo"))
	b := compressGzip(t, "", []byte("bar"))
	var combined bytes.Buffer
	combined.Write(a)
	combined.Write(b)

	r, err := NewReader(bytes.NewReader(combined.Bytes()))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "foobar", string(got))
}

func TestMultistreamDisabled(t *testing.T) {
	a := compressGzip(t, "", []byte("foo"))
	b := compressGzip(t, "", []byte("bar"))
	var combined bytes.Buffer
	combined.Write(a)
	combined.Write(b)

	r, err := NewReader(bytes.NewReader(combined.Bytes()))
	require.NoError(t, err)
	r.Multistream(false)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "foo", string(got))
}

func TestOperatingSystemName(t *testing.T) {
	data := compressGzip(t, "", []byte("x"))
	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotEmpty(t, r.OSName)
}
