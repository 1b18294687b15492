package deflate

import "io"

// Decompress reads a single DEFLATE stream from r, starting at r's
// current position, and writes the decoded bytes to w. On success, r
// has been advanced to the byte immediately following the final
// block. DEFLATE does not in general end on a byte boundary, but r is
// read one whole byte at a time, so the unused bits of the final byte
// are discarded and the next byte read from r is the first byte after
// the stream (a gzip trailer, say).
//
// Decompress writes the entire decoded output before returning; there
// is no incremental output and no recovery from a partial decode. If
// it returns a non-nil error, any bytes already written to w must be
// treated as untrusted and discarded.
func Decompress(r io.Reader, w io.Writer) error {
	bits := newBitSource(r)
	dec := newBlockDecoder(bits)
	return dec.run(&ioSinkWriter{w: w})
}

// DecompressToBytes reads a single DEFLATE stream from r and returns
// the fully decoded output as a byte slice. It has the same
// all-or-nothing semantics as Decompress.
func DecompressToBytes(r io.Reader) ([]byte, error) {
	bits := newBitSource(r)
	dec := newBlockDecoder(bits)
	sink := &sliceWriter{}
	if err := dec.run(sink); err != nil {
		return nil, err
	}
	return sink.buf, nil
}

// reader is an io.ReadCloser over the fully decoded contents of a
// DEFLATE stream. The entire stream is decoded eagerly at construction
// time; Read only ever serves bytes out of that already-decoded
// buffer.
type reader struct {
	data []byte
	pos  int64
}

// NewReader decompresses r's DEFLATE stream immediately and returns an
// io.ReadCloser over the result. It is the caller's responsibility to
// call Close on the returned ReadCloser when done (Close is a no-op;
// all work happens in NewReader).
func NewReader(r io.Reader) (io.ReadCloser, error) {
	data, err := DecompressToBytes(r)
	if err != nil {
		return nil, err
	}
	return &reader{data: data}, nil
}

func (r *reader) Read(p []byte) (int, error) {
	if r.pos >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += int64(n)
	return n, nil
}

func (r *reader) Close() error { return nil }
