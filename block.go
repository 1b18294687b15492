package deflate

// blockDecoder is the DEFLATE state machine: it reads a sequence of
// blocks from a bitSource, building and selecting the two canonical
// Huffman codes a non-stored block needs, and emits decoded bytes to a
// sink while mirroring every emission into its sliding window.
//
// A blockDecoder owns its slidingWindow exclusively; it borrows the
// bitSource and sink for its lifetime. It is not safe for concurrent
// use and is meant to be used for exactly one Decompress call.
type blockDecoder struct {
	bits *bitSource
	win  slidingWindow
}

func newBlockDecoder(bits *bitSource) *blockDecoder {
	return &blockDecoder{bits: bits}
}

// run consumes blocks from d.bits, writing decoded output to sink,
// until a block with BFINAL=1 has been fully consumed.
func (d *blockDecoder) run(sink writer) error {
	for {
		final, err := d.bits.readUint(1)
		if err != nil {
			return err
		}
		btype, err := d.bits.readUint(2)
		if err != nil {
			return err
		}

		switch btype {
		case 0:
			if err := d.storedBlock(sink); err != nil {
				return err
			}
		case 1:
			litLen, dist, err := fixedCodes()
			if err != nil {
				return err
			}
			if err := d.huffmanBlock(litLen, dist, sink); err != nil {
				return err
			}
		case 2:
			litLen, dist, err := d.readDynamicCodes()
			if err != nil {
				return err
			}
			if err := d.huffmanBlock(litLen, dist, sink); err != nil {
				return err
			}
		default:
			return ErrReservedBlockType
		}

		if final == 1 {
			return nil
		}
	}
}

// storedBlock handles BTYPE=0: byte-align, read LEN/NLEN, then copy
// LEN literal bytes straight from the bit stream to the sink.
func (d *blockDecoder) storedBlock(sink writer) error {
	d.bits.alignToByte()

	length, err := d.bits.readUint(16)
	if err != nil {
		return err
	}
	nlength, err := d.bits.readUint(16)
	if err != nil {
		return err
	}
	if length^nlength != 0xFFFF {
		return ErrCorruptStoredHeader
	}

	for i := uint32(0); i < length; i++ {
		b, err := d.bits.readUint(8)
		if err != nil {
			return err
		}
		if err := sink.writeByte(byte(b)); err != nil {
			return err
		}
		d.win.append(byte(b))
	}
	return nil
}

// codeOrder is the fixed permutation RFC 1951 uses to pack the 19
// code-length code lengths compactly: the slots most likely to be used
// (16,17,18,0) come first, so HCLEN can leave off the rarely used tail.
var codeOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// readDynamicCodes reads a BTYPE=2 block header: HLIT/HDIST/HCLEN,
// the 19-slot code-length code, and the run-length-encoded code
// lengths for the literal/length and distance codes, then builds both
// canonical codes.
func (d *blockDecoder) readDynamicCodes() (litLen, dist *canonicalCode, err error) {
	hlit, err := d.bits.readUint(5)
	if err != nil {
		return nil, nil, err
	}
	numLitLen := int(hlit) + 257

	hdist, err := d.bits.readUint(5)
	if err != nil {
		return nil, nil, err
	}
	numDist := int(hdist) + 1

	hclen, err := d.bits.readUint(4)
	if err != nil {
		return nil, nil, err
	}
	numClen := int(hclen) + 4

	var clLengths [19]int
	for i := 0; i < numClen; i++ {
		v, err := d.bits.readUint(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[codeOrder[i]] = int(v)
	}

	clCode, err := newCanonicalCode(clLengths[:])
	if err != nil {
		return nil, nil, err
	}

	total := numLitLen + numDist
	codeLens := make([]int, 0, total)
	for len(codeLens) < total {
		sym, err := clCode.decode(d.bits)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			codeLens = append(codeLens, int(sym))
		case sym == 16:
			if len(codeLens) == 0 {
				return nil, nil, ErrNoPriorLength
			}
			extra, err := d.bits.readUint(2)
			if err != nil {
				return nil, nil, err
			}
			repeat := int(extra) + 3
			if len(codeLens)+repeat > total {
				return nil, nil, ErrRunOverflow
			}
			prev := codeLens[len(codeLens)-1]
			for i := 0; i < repeat; i++ {
				codeLens = append(codeLens, prev)
			}
		case sym == 17:
			extra, err := d.bits.readUint(3)
			if err != nil {
				return nil, nil, err
			}
			repeat := int(extra) + 3
			if len(codeLens)+repeat > total {
				return nil, nil, ErrRunOverflow
			}
			for i := 0; i < repeat; i++ {
				codeLens = append(codeLens, 0)
			}
		case sym == 18:
			extra, err := d.bits.readUint(7)
			if err != nil {
				return nil, nil, err
			}
			repeat := int(extra) + 11
			if len(codeLens)+repeat > total {
				return nil, nil, ErrRunOverflow
			}
			for i := 0; i < repeat; i++ {
				codeLens = append(codeLens, 0)
			}
		default:
			return nil, nil, ErrReservedLengthSymbol
		}
	}

	litLenLengths := codeLens[:numLitLen]
	distLengths := codeLens[numLitLen:]

	litLen, err = newCanonicalCode(litLenLengths)
	if err != nil {
		return nil, nil, err
	}

	dist, err = d.buildDistanceCode(distLengths)
	if err != nil {
		return nil, nil, err
	}
	return litLen, dist, nil
}

// buildDistanceCode implements RFC 1951's three-way special-casing of
// the distance code length vector: an all-zero single entry means "no
// distance code, literals only"; a single length-1 entry with nothing
// else positive is repaired by padding to 32 symbols with symbol 31
// set to length 1; anything else is built normally.
func (d *blockDecoder) buildDistanceCode(lengths []int) (*canonicalCode, error) {
	if len(lengths) == 1 && lengths[0] == 0 {
		return nil, nil
	}

	ones, others := 0, 0
	for _, l := range lengths {
		switch {
		case l == 1:
			ones++
		case l > 1:
			others++
		}
	}
	if ones == 1 && others == 0 {
		lengths = completeSingleOneDistanceCode(lengths)
	}
	return newCanonicalCode(lengths)
}

// huffmanBlock runs the shared literal/length/distance decode loop for
// both fixed and dynamic Huffman blocks. distCode is nil exactly when
// the block is declared literals-only.
func (d *blockDecoder) huffmanBlock(litLenCode, distCode *canonicalCode, sink writer) error {
	for {
		sym, err := litLenCode.decode(d.bits)
		if err != nil {
			return err
		}

		switch {
		case sym < 256:
			if err := sink.writeByte(byte(sym)); err != nil {
				return err
			}
			d.win.append(byte(sym))
		case sym == 256:
			return nil
		case sym <= 285:
			run, err := d.decodeRunLength(sym)
			if err != nil {
				return err
			}
			if distCode == nil {
				return ErrLiteralsOnlyViolated
			}
			dsym, err := distCode.decode(d.bits)
			if err != nil {
				return err
			}
			dist, err := d.decodeDistance(dsym)
			if err != nil {
				return err
			}
			if err := d.win.copyOut(dist, run, sink); err != nil {
				return err
			}
		default:
			return ErrReservedLengthSymbol
		}
	}
}

// decodeRunLength maps a literal/length symbol (257..285) to a run
// length in [3,258], per RFC 1951 section 3.2.5.
func (d *blockDecoder) decodeRunLength(sym uint16) (int, error) {
	switch {
	case sym <= 264:
		return int(sym) - 254, nil
	case sym <= 284:
		extraBits := uint((sym - 261) / 4)
		extra, err := d.bits.readUint(extraBits)
		if err != nil {
			return 0, err
		}
		base := (((int(sym)-265)%4 + 4) << extraBits) + 3
		return base + int(extra), nil
	case sym == 285:
		return 258, nil
	default:
		return 0, ErrReservedLengthSymbol
	}
}

// decodeDistance maps a distance symbol (0..29) to a distance in
// [1,32768], per RFC 1951 section 3.2.5.
func (d *blockDecoder) decodeDistance(sym uint16) (int, error) {
	switch {
	case sym <= 3:
		return int(sym) + 1, nil
	case sym <= 29:
		extraBits := uint(sym)/2 - 1
		extra, err := d.bits.readUint(extraBits)
		if err != nil {
			return 0, err
		}
		base := ((int(sym)%2 + 2) << extraBits) + 1
		return base + int(extra), nil
	default:
		return 0, ErrReservedDistanceSymbol
	}
}
