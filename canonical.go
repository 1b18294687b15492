package deflate

// canonicalCode is an immutable canonical Huffman decoder built from a
// sequence of per-symbol code lengths. Construct-once, decode-many:
// once built it only answers decode queries against a bitSource.
//
// Codes are keyed by a 1-bit-prefixed value: the key for a code c of
// length l is (1<<l)|c. Tagging with the length this way lets codes of
// different lengths share one lookup table even when their bit
// patterns collide numerically (e.g. 0b01 and 0b0001).
type canonicalCode struct {
	codeToSymbol map[uint32]uint16
}

// newCanonicalCode builds a canonicalCode from a code-length vector.
// lengths[s] == 0 means symbol s has no code. The vector must describe
// a complete prefix code (every code of the maximum length accounted
// for): ErrOverfullTree if some length runs out of codes before all
// its symbols are assigned, ErrUnderfullTree if codes remain unused
// after the last length is processed.
//
// If every length is 0, the result has no entries and decode must
// never be called on it.
func newCanonicalCode(lengths []int) (*canonicalCode, error) {
	maxLen := 0
	for _, l := range lengths {
		if l < 0 {
			return nil, ErrNegativeCodeLength
		}
		if l > maxLen {
			maxLen = l
		}
	}
	c := &canonicalCode{codeToSymbol: make(map[uint32]uint16)}
	if maxLen == 0 {
		return c, nil
	}

	nextCode := 0
	for length := 1; length <= maxLen; length++ {
		nextCode <<= 1
		startBit := 1 << uint(length)
		for symbol, l := range lengths {
			if l != length {
				continue
			}
			if nextCode >= startBit {
				return nil, ErrOverfullTree
			}
			c.codeToSymbol[uint32(startBit|nextCode)] = uint16(symbol)
			nextCode++
		}
	}
	if nextCode != 1<<uint(maxLen) {
		return nil, ErrUnderfullTree
	}
	return c, nil
}

// decode reads one Huffman-coded symbol from bits using this code.
// Termination is guaranteed within maxLen bits because construction
// only accepts complete codes.
func (c *canonicalCode) decode(bits *bitSource) (uint16, error) {
	key := uint32(1)
	for {
		bit, err := bits.readUint(1)
		if err != nil {
			return 0, err
		}
		key = key<<1 | bit
		if symbol, ok := c.codeToSymbol[key]; ok {
			return symbol, nil
		}
	}
}

// completeSingleOneDistanceCode repairs the RFC 1951 special case
// where a dynamic distance code-length vector declares exactly one
// symbol of length 1 and nothing longer: it is padded to 32 symbols
// with symbol 31 set to length 1, producing a valid complete code.
// Any stream that actually tries to decode symbol 31 fails later, at
// distance-symbol validation (ErrReservedDistanceSymbol), not here.
func completeSingleOneDistanceCode(lengths []int) []int {
	padded := make([]int, 32)
	copy(padded, lengths)
	padded[31] = 1
	return padded
}
