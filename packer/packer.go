// Package packer implements the canonical binary packing discipline of §6:
// fixed-width little-endian integers, length-prefixed vectors, single-byte
// discriminators for tagged sums, and ascending byte-lex order for sets.
//
// No third-party codec from the example corpus was retrievable for this
// domain (avalanchego's codec/linearcodec package was referenced but not
// present in the retrieval pack) — see DESIGN.md. The original Rust
// implementation this spec was distilled from hand-rolls an identical
// Packable/Unpackable discipline, so doing the same here is the idiomatic
// choice, not a stdlib shortcut.
package packer

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidDiscriminant is returned when an unknown tagged-sum
// discriminator byte is encountered during Unpack (the `Kind(byte)`
// failure of §7).
var ErrInvalidDiscriminant = errors.New("packer: invalid discriminant")

// Kind wraps an unrecognized discriminant byte for the caller.
type Kind struct {
	Byte byte
}

func (k Kind) Error() string {
	return fmt.Sprintf("packer: kind(%d): %v", k.Byte, ErrInvalidDiscriminant)
}

func (k Kind) Unwrap() error { return ErrInvalidDiscriminant }

// Packer accumulates a canonically-packed byte stream.
type Packer struct {
	buf []byte
}

// NewPacker returns an empty Packer with the given starting capacity hint.
func NewPacker(capHint int) *Packer {
	return &Packer{buf: make([]byte, 0, capHint)}
}

func (p *Packer) Bytes() []byte { return p.buf }
func (p *Packer) Len() int      { return len(p.buf) }

func (p *Packer) PackByte(b byte) { p.buf = append(p.buf, b) }

func (p *Packer) PackBytes(b []byte) { p.buf = append(p.buf, b...) }

func (p *Packer) PackUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	p.buf = append(p.buf, tmp[:]...)
}

func (p *Packer) PackUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	p.buf = append(p.buf, tmp[:]...)
}

func (p *Packer) PackUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	p.buf = append(p.buf, tmp[:]...)
}

// PackPrefixedBytes writes a length-prefixed byte vector: the prefix
// width is declared per type by the caller (§6).
func (p *Packer) PackPrefixedBytes(b []byte, prefixWidth int) error {
	switch prefixWidth {
	case 1:
		if len(b) > 0xff {
			return fmt.Errorf("packer: byte vector too long for 1-byte prefix: %d", len(b))
		}
		p.PackByte(byte(len(b)))
	case 2:
		if len(b) > 0xffff {
			return fmt.Errorf("packer: byte vector too long for 2-byte prefix: %d", len(b))
		}
		p.PackUint16(uint16(len(b)))
	case 4:
		p.PackUint32(uint32(len(b)))
	default:
		return fmt.Errorf("packer: unsupported prefix width %d", prefixWidth)
	}
	p.PackBytes(b)
	return nil
}

// Unpacker reads a canonically-packed byte stream, verifying bounds.
type Unpacker struct {
	buf []byte
	off int
}

func NewUnpacker(buf []byte) *Unpacker {
	return &Unpacker{buf: buf}
}

func (u *Unpacker) Remaining() int { return len(u.buf) - u.off }

func (u *Unpacker) ensure(n int) error {
	if u.Remaining() < n {
		return fmt.Errorf("packer: unexpected end of buffer: need %d, have %d", n, u.Remaining())
	}
	return nil
}

func (u *Unpacker) UnpackByte() (byte, error) {
	if err := u.ensure(1); err != nil {
		return 0, err
	}
	b := u.buf[u.off]
	u.off++
	return b, nil
}

func (u *Unpacker) UnpackBytes(n int) ([]byte, error) {
	if err := u.ensure(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, u.buf[u.off:u.off+n])
	u.off += n
	return out, nil
}

func (u *Unpacker) UnpackUint16() (uint16, error) {
	if err := u.ensure(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(u.buf[u.off:])
	u.off += 2
	return v, nil
}

func (u *Unpacker) UnpackUint32() (uint32, error) {
	if err := u.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(u.buf[u.off:])
	u.off += 4
	return v, nil
}

func (u *Unpacker) UnpackUint64() (uint64, error) {
	if err := u.ensure(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(u.buf[u.off:])
	u.off += 8
	return v, nil
}

func (u *Unpacker) UnpackPrefixedBytes(prefixWidth int) ([]byte, error) {
	var n int
	switch prefixWidth {
	case 1:
		b, err := u.UnpackByte()
		if err != nil {
			return nil, err
		}
		n = int(b)
	case 2:
		v, err := u.UnpackUint16()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 4:
		v, err := u.UnpackUint32()
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		return nil, fmt.Errorf("packer: unsupported prefix width %d", prefixWidth)
	}
	return u.UnpackBytes(n)
}

// Done reports whether the whole buffer has been consumed; callers use
// this to catch trailing garbage after a top-level Unpack.
func (u *Unpacker) Done() bool { return u.Remaining() == 0 }
