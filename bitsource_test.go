package deflate

import (
	"bytes"
	"testing"
)

func TestBitSourceLSBFirst(t *testing.T) {
	// 0x87 = 1000_0111, LSB first: 1,1,1,0,0,0,0,1
	src := newBitSource(bytes.NewReader([]byte{0x87}))
	want := []int{1, 1, 1, 0, 0, 0, 0, 1}
	for i, w := range want {
		bit, err := src.readBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if bit != w {
			t.Errorf("bit %d = %d, want %d", i, bit, w)
		}
	}
}

func TestBitSourceReadUintLittleEndian(t *testing.T) {
	// bits 1,0,1,1 (LSB first in 0x?? byte) -> value 0b1101 = 13
	src := newBitSource(bytes.NewReader([]byte{0x0D}))
	got, err := src.readUint(4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 13 {
		t.Errorf("readUint(4) = %d, want 13", got)
	}
}

func TestBitSourceUnexpectedEnd(t *testing.T) {
	src := newBitSource(bytes.NewReader(nil))
	if _, err := src.readUint(1); err != ErrUnexpectedEnd {
		t.Errorf("got %v, want ErrUnexpectedEnd", err)
	}
}

func TestBitPositionLaw(t *testing.T) {
	src := newBitSource(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF}))
	for k := 0; k < 20; k++ {
		if got, want := src.bitPosition(), uint(k%8); got != want {
			t.Fatalf("after %d reads, bitPosition() = %d, want %d", k, got, want)
		}
		if _, err := src.readUint(1); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAlignToByte(t *testing.T) {
	src := newBitSource(bytes.NewReader([]byte{0xFF, 0x00}))
	if _, err := src.readUint(3); err != nil {
		t.Fatal(err)
	}
	if src.bitPosition() != 3 {
		t.Fatalf("bitPosition = %d, want 3", src.bitPosition())
	}
	src.alignToByte()
	if src.bitPosition() != 0 {
		t.Fatalf("bitPosition after align = %d, want 0", src.bitPosition())
	}
	b, err := src.readUint(8)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x00 {
		t.Fatalf("readUint(8) after align = %#x, want 0x00", b)
	}
}
