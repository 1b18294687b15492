// Package gzip parses the GZIP envelope (RFC 1952) around a DEFLATE
// stream. It is a thin external collaborator of the deflate package:
// it owns the magic number, flag byte, header fields, and trailing
// CRC-32/ISIZE validation, and hands the enclosed bit stream to
// deflate.DecompressToBytes for the actual decoding work.
package gzip

import (
	"bufio"
	"errors"
	"hash"
	"hash/crc32"
	"io"
	"time"

	"github.com/coreos/pkg/capnslog"

	"github.com/deflatelib/deflate"
)

var log = capnslog.NewPackageLogger("github.com/deflatelib/deflate", "gzip")

const (
	magic1        = 0x1F
	magic2        = 0x8B
	methodDeflate = 8

	flagText    = 1 << 0
	flagHdrCRC  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
)

// operatingSystems maps the GZIP OS byte (RFC 1952 section 2.3.1.2) to
// a human-readable name; unknown bytes other than 255 get a distinct
// label from the reserved "unknown" value.
var operatingSystems = map[byte]string{
	0:   "FAT",
	1:   "Amiga",
	2:   "VMS",
	3:   "Unix",
	4:   "VM/CMS",
	5:   "Atari TOS",
	6:   "HPFS",
	7:   "Macintosh",
	8:   "Z-System",
	9:   "CP/M",
	10:  "TOPS-20",
	11:  "NTFS",
	12:  "QDOS",
	13:  "Acorn RISCOS",
	255: "Unknown",
}

// Errors returned while parsing the GZIP envelope.
var (
	// ErrHeader is returned when the magic number, compression method,
	// or a reserved flag bit is invalid.
	ErrHeader = errors.New("gzip: invalid header")
	// ErrChecksum is returned when the trailing CRC-32 or ISIZE does
	// not match the decoded output.
	ErrChecksum = errors.New("gzip: invalid checksum")
)

// Header holds the GZIP member metadata exposed to callers, beyond
// what's needed to decode: the fields a diagnostic tool would want to
// print, matching what compress/gzip and coreos-pkg/gzran/gzip expose
// on their own Reader types.
type Header struct {
	ModTime     time.Time
	OS          byte
	OSName      string
	ExtraFlags  byte
	Extra       []byte
	Name        string
	Comment     string
	Text        bool
	HeaderCRC16 bool
}

// Reader reads the concatenation of the uncompressed data of a GZIP
// file, which may itself be a concatenation of multiple GZIP members
// (the "multistream" convention every stock gzip reader honors: an
// archive's worth of .gz files pasted end to end decodes the same as
// gzipping their concatenation).
type Reader struct {
	Header

	r           flateByteReader
	decompBuf   []byte
	decompPos   int
	digest      hash.Hash32
	size        uint32
	multistream bool
	err         error
}

// flateByteReader lets Reader accept either a bufio.Reader or any
// other io.Reader+io.ByteReader (deflate's bit source only needs
// io.Reader; buffering here just avoids one-byte-at-a-time syscalls
// on a raw os.File).
type flateByteReader interface {
	io.Reader
	io.ByteReader
}

func makeByteReader(r io.Reader) flateByteReader {
	if br, ok := r.(flateByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// NewReader parses the first GZIP member's header from r and, per
// deflate's all-or-nothing semantics, decodes that entire member
// eagerly and validates its trailer. Subsequent members (with
// Multistream enabled) are decoded by Read, one whole member at a time,
// when the buffered output of the previous one is exhausted.
func NewReader(r io.Reader) (*Reader, error) {
	z := &Reader{
		r:           makeByteReader(r),
		digest:      crc32.NewIEEE(),
		multistream: true,
	}
	if err := z.readMember(); err != nil {
		return nil, err
	}
	return z, nil
}

// Multistream controls whether Read continues into subsequent GZIP
// members after the current one's trailer validates. It defaults to
// true, matching coreos-pkg/gzran/gzip's Reader.
func (z *Reader) Multistream(ok bool) { z.multistream = ok }

func (z *Reader) readMember() error {
	hdr := make([]byte, 10)
	if _, err := io.ReadFull(z.r, hdr); err != nil {
		return err
	}
	if hdr[0] != magic1 || hdr[1] != magic2 || hdr[2] != methodDeflate {
		return ErrHeader
	}
	flg := hdr[3]
	if flg&0xE0 != 0 {
		return ErrHeader
	}

	z.digest.Reset()
	z.digest.Write(hdr)

	mtime := le32(hdr[4:8])
	z.ModTime = time.Time{}
	if mtime != 0 {
		z.ModTime = time.Unix(int64(mtime), 0).UTC()
	}
	z.ExtraFlags = hdr[8]
	z.OS = hdr[9]
	z.OSName = operatingSystems[z.OS]
	if z.OSName == "" {
		z.OSName = "Really unknown"
	}
	z.Text = flg&flagText != 0
	log.Debugf("gzip header: mtime=%v os=%s flags=%#x", z.ModTime, z.OSName, flg)

	if flg&flagExtra != 0 {
		n, err := z.readUint16()
		if err != nil {
			return err
		}
		extra := make([]byte, n)
		if _, err := io.ReadFull(z.r, extra); err != nil {
			return err
		}
		z.Extra = extra
		z.digest.Write(extra)
	}
	if flg&flagName != 0 {
		s, err := z.readCString()
		if err != nil {
			return err
		}
		z.Name = s
	}
	if flg&flagComment != 0 {
		s, err := z.readCString()
		if err != nil {
			return err
		}
		z.Comment = s
	}
	if flg&flagHdrCRC != 0 {
		z.HeaderCRC16 = true
		// The CRC16 covers everything read so far and nothing after,
		// so it must be computed before the two CRC16 bytes themselves
		// are read off the wire (and they must not be folded into the
		// digest, or the comparison would be checking the digest
		// against itself).
		want := uint16(z.digest.Sum32() & 0xFFFF)
		var b [2]byte
		if _, err := io.ReadFull(z.r, b[:]); err != nil {
			return err
		}
		got := uint16(b[0]) | uint16(b[1])<<8
		if got != want {
			return ErrHeader
		}
	}

	z.digest.Reset()
	buf, err := decompressMember(z.r)
	if err != nil {
		return err
	}
	z.decompBuf = buf
	z.decompPos = 0
	z.digest.Write(buf)
	z.size = uint32(len(buf))

	trailer := make([]byte, 8)
	if _, err := io.ReadFull(z.r, trailer); err != nil {
		return err
	}
	wantCRC, wantSize := le32(trailer[0:4]), le32(trailer[4:8])
	if wantCRC != z.digest.Sum32() || wantSize != z.size {
		return ErrChecksum
	}
	return nil
}

// decompressMember hands the bit stream straight after the header to
// the core decoder. DEFLATE does not end byte-aligned in general, but
// r is the same reader the header was parsed from; deflate
// only pulls whole bytes from it via Read, so any bits left over in a
// partially consumed final byte are simply never requested again —
// there is nothing to realign, unlike a raw bitSource shared across
// calls.
func decompressMember(r io.Reader) ([]byte, error) {
	return deflate.DecompressToBytes(r)
}

func (z *Reader) readUint16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(z.r, b[:]); err != nil {
		return 0, err
	}
	z.digest.Write(b[:])
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (z *Reader) readCString() (string, error) {
	var out []byte
	for {
		b, err := z.r.ReadByte()
		if err != nil {
			return "", err
		}
		z.digest.Write([]byte{b})
		if b == 0 {
			return string(out), nil
		}
		out = append(out, b)
	}
}

func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

// Read serves bytes from the already-decoded member. Once exhausted,
// if Multistream is enabled and another member follows, it is decoded
// and appended to the stream transparently; otherwise Read returns
// io.EOF.
func (z *Reader) Read(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}
	for z.decompPos >= len(z.decompBuf) {
		if !z.multistream {
			return 0, io.EOF
		}
		if err := z.readMember(); err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			z.err = err
			return 0, err
		}
		// A member may legitimately decode to zero bytes; loop back
		// around rather than returning (0, nil) for it.
	}
	n := copy(p, z.decompBuf[z.decompPos:])
	z.decompPos += n
	return n, nil
}

// Close is a no-op: all decoding happens eagerly in NewReader/Read,
// and gzip.Reader does not own the underlying io.Reader.
func (z *Reader) Close() error { return z.err }
