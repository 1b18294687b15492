package deflate

import (
	"bytes"
	"testing"
)

func TestCanonicalCodeOverfull(t *testing.T) {
	if _, err := newCanonicalCode([]int{1, 1, 1}); err != ErrOverfullTree {
		t.Errorf("got %v, want ErrOverfullTree", err)
	}
}

func TestCanonicalCodeUnderfull(t *testing.T) {
	if _, err := newCanonicalCode([]int{0, 2, 0}); err != ErrUnderfullTree {
		t.Errorf("got %v, want ErrUnderfullTree", err)
	}
}

func TestCanonicalCodeNegativeLength(t *testing.T) {
	if _, err := newCanonicalCode([]int{-1}); err != ErrNegativeCodeLength {
		t.Errorf("got %v, want ErrNegativeCodeLength", err)
	}
}

// TestCanonicalCodeRoundTrip checks the totality/roundtrip invariant:
// for every symbol with a non-zero length, the bits of its assigned
// code (fed MSB-first) decode back to that symbol.
func TestCanonicalCodeRoundTrip(t *testing.T) {
	lengths := []int{3, 3, 3, 3, 1} // A..D share length 3, E is the single 1-bit code
	code, err := newCanonicalCode(lengths)
	if err != nil {
		t.Fatal(err)
	}

	// Per the construction rule (shorter first, ties by symbol index):
	// symbol 4 (E) = 0, symbols 0..3 = 100,101,110,111.
	cases := []struct {
		bits   []int
		symbol uint16
	}{
		{[]int{0}, 4},
		{[]int{1, 0, 0}, 0},
		{[]int{1, 0, 1}, 1},
		{[]int{1, 1, 0}, 2},
		{[]int{1, 1, 1}, 3},
	}
	for _, c := range cases {
		buf := packBitStream(c.bits)
		src := newBitSource(bytes.NewReader(buf))
		sym, err := code.decode(src)
		if err != nil {
			t.Fatalf("decode(%v): %v", c.bits, err)
		}
		if sym != c.symbol {
			t.Errorf("decode(%v) = %d, want %d", c.bits, sym, c.symbol)
		}
	}
}

func TestCanonicalCodeEmpty(t *testing.T) {
	code, err := newCanonicalCode([]int{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(code.codeToSymbol) != 0 {
		t.Errorf("empty code has %d entries, want 0", len(code.codeToSymbol))
	}
}

// packBitStream packs a sequence of 0/1 values, in the order a
// bitSource would read them, into bytes. DEFLATE packs bits LSB-first
// within each byte, so bits[0] lands in bit 0 of the first byte.
func packBitStream(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b == 0 {
			continue
		}
		byteIdx := i / 8
		bitInByte := uint(i % 8)
		out[byteIdx] |= 1 << bitInByte
	}
	return out
}
