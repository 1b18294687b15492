package deflate

import "sync"

// Fixed Huffman codes for BTYPE=1 blocks (RFC 1951 section 3.2.6).
// These are process-wide constants; canonicalCode is immutable after
// construction, so sharing one pair of tables across every fixed block
// decoded by the process is safe. They are built lazily on first use
// rather than from an init func, since not every program that links
// this package decodes a fixed-Huffman block.
var (
	fixedOnce           sync.Once
	fixedLiteralCode    *canonicalCode
	fixedDistanceCode   *canonicalCode
	fixedTablesBuildErr error
)

func fixedCodes() (*canonicalCode, *canonicalCode, error) {
	fixedOnce.Do(func() {
		lengths := make([]int, 288)
		i := 0
		for ; i < 144; i++ {
			lengths[i] = 8
		}
		for ; i < 256; i++ {
			lengths[i] = 9
		}
		for ; i < 280; i++ {
			lengths[i] = 7
		}
		for ; i < 288; i++ {
			lengths[i] = 8
		}
		fixedLiteralCode, fixedTablesBuildErr = newCanonicalCode(lengths)
		if fixedTablesBuildErr != nil {
			return
		}

		distLengths := make([]int, 32)
		for i := range distLengths {
			distLengths[i] = 5
		}
		fixedDistanceCode, fixedTablesBuildErr = newCanonicalCode(distLengths)
	})
	return fixedLiteralCode, fixedDistanceCode, fixedTablesBuildErr
}
