// Package deflate implements decoding of the DEFLATE compressed data
// format, described in RFC 1951.
//
// The package decompresses a raw DEFLATE bit stream (no zlib or gzip
// envelope) synchronously: Decompress and DecompressToBytes read a
// complete stream and write the complete decoded output before
// returning. There is no incremental/streaming decode and no random
// access into the compressed data; see Decompress, DecompressToBytes
// and NewReader in reader.go for the synchronous entry points.
package deflate

import "errors"

// Sentinel errors for the DEFLATE decoder. Each names a specific way
// the bit stream can fail to conform to RFC 1951; all are fatal to the
// current Decompress call.
var (
	// ErrUnexpectedEnd is returned when the bit stream is exhausted
	// in the middle of a token (a fixed-width field, a Huffman code,
	// or a stored-block byte run).
	ErrUnexpectedEnd = errors.New("deflate: unexpected end of stream")

	// ErrReservedBlockType is returned when a block header declares
	// BTYPE == 3.
	ErrReservedBlockType = errors.New("deflate: reserved block type")

	// ErrCorruptStoredHeader is returned when a stored block's LEN
	// and NLEN fields are not one's complements of each other.
	ErrCorruptStoredHeader = errors.New("deflate: stored block length check failed")

	// ErrOverfullTree is returned when a code-length vector assigns
	// more codes to some length than the canonical construction has
	// room for.
	ErrOverfullTree = errors.New("deflate: over-full Huffman tree")

	// ErrUnderfullTree is returned when a code-length vector leaves
	// unused codes at the longest length (and is not the single
	// documented exception for distance codes).
	ErrUnderfullTree = errors.New("deflate: under-full Huffman tree")

	// ErrNoPriorLength is returned when a dynamic code-length stream
	// opens with a "repeat previous length" symbol (16) before any
	// length has been recorded.
	ErrNoPriorLength = errors.New("deflate: code length 16 with no prior length")

	// ErrRunOverflow is returned when a code-length run (symbols 16,
	// 17, or 18) would produce more entries than HLIT+HDIST declared.
	ErrRunOverflow = errors.New("deflate: code length run overflows declared count")

	// ErrReservedLengthSymbol is returned when the literal/length
	// Huffman code decodes to symbol 286 or 287.
	ErrReservedLengthSymbol = errors.New("deflate: reserved length symbol")

	// ErrReservedDistanceSymbol is returned when the distance
	// Huffman code decodes to symbol 30 or 31.
	ErrReservedDistanceSymbol = errors.New("deflate: reserved distance symbol")

	// ErrLiteralsOnlyViolated is returned when a length/distance
	// symbol appears in a block whose distance code was the single-
	// zero "no distance code" placeholder.
	ErrLiteralsOnlyViolated = errors.New("deflate: length symbol in literals-only block")

	// ErrInvalidDistance is returned when a back-reference distance
	// exceeds the number of bytes the sliding window currently holds.
	ErrInvalidDistance = errors.New("deflate: distance too far back")

	// ErrNegativeCodeLength is returned by newCanonicalCode when a
	// code-length vector contains a negative entry; RFC 1951 code
	// lengths are never negative, so seeing one means the caller
	// built the vector incorrectly.
	ErrNegativeCodeLength = errors.New("deflate: negative code length")
)
