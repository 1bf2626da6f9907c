package bsac

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Editor is a positioned big-endian read/write cursor over a byte buffer.
// All accesses happen at base+position; successful accesses advance the
// position by the number of bytes consumed or produced. The base is fixed
// at construction time, which lets one buffer carry several independent
// coordinate systems (the header editor uses base 0, table editors use the
// header size as base).
//
// Editor never copies the buffer. Writes alter the caller's bytes, and
// slices returned by ReadBytes alias them.
type Editor struct {
	data []byte
	base int
	pos  int
}

// NewEditor wraps data in an editor with the given base offset. The base
// is not validated here; an out-of-range base surfaces as OutOfBounds on
// the first access.
func NewEditor(data []byte, base int) *Editor {
	return &Editor{data: data, base: base}
}

// view returns the n bytes at the current position without advancing.
func (ed *Editor) view(n int) ([]byte, error) {
	at := ed.base + ed.pos
	if at < 0 || n > len(ed.data)-at {
		return nil, Error{
			Kind:   OutOfBounds,
			Issue:  fmt.Sprintf("%d byte(s) at %d+%d, buffer has %d", n, ed.base, ed.pos, len(ed.data)),
			Offset: ed.pos,
		}
	}
	return ed.data[at : at+n], nil
}

// Tell returns the current position, relative to the base.
func (ed *Editor) Tell() int {
	return ed.pos
}

// Seek moves the cursor to an absolute position relative to the base.
// The target is not validated; a bad position surfaces on the next access.
func (ed *Editor) Seek(pos int) {
	ed.pos = pos
}

// Skip advances the cursor by n bytes without touching the buffer.
// Negative distances are rejected; use Seek to move backwards.
func (ed *Editor) Skip(n int) error {
	if n < 0 {
		return Error{
			Kind:   InvalidArgument,
			Issue:  fmt.Sprintf("negative skip distance %d", n),
			Offset: ed.pos,
		}
	}
	ed.pos += n
	return nil
}

// GetUint8 reads one byte.
func (ed *Editor) GetUint8() (uint8, error) {
	b, err := ed.view(1)
	if err != nil {
		return 0, err
	}
	ed.pos++
	return b[0], nil
}

// SetUint8 writes one byte.
func (ed *Editor) SetUint8(v uint8) error {
	b, err := ed.view(1)
	if err != nil {
		return err
	}
	b[0] = v
	ed.pos++
	return nil
}

// GetUint16 reads a big-endian 16-bit unsigned integer.
func (ed *Editor) GetUint16() (uint16, error) {
	b, err := ed.view(2)
	if err != nil {
		return 0, err
	}
	ed.pos += 2
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// SetUint16 writes a big-endian 16-bit unsigned integer.
func (ed *Editor) SetUint16(v uint16) error {
	b, err := ed.view(2)
	if err != nil {
		return err
	}
	b[0], b[1] = byte(v>>8), byte(v)
	ed.pos += 2
	return nil
}

// GetInt16 reads a big-endian 16-bit signed integer.
func (ed *Editor) GetInt16() (int16, error) {
	v, err := ed.GetUint16()
	return int16(v), err
}

// SetInt16 writes a big-endian 16-bit signed integer.
func (ed *Editor) SetInt16(v int16) error {
	return ed.SetUint16(uint16(v))
}

// GetUint32 reads a big-endian 32-bit unsigned integer.
func (ed *Editor) GetUint32() (uint32, error) {
	b, err := ed.view(4)
	if err != nil {
		return 0, err
	}
	ed.pos += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// SetUint32 writes a big-endian 32-bit unsigned integer.
func (ed *Editor) SetUint32(v uint32) error {
	b, err := ed.view(4)
	if err != nil {
		return err
	}
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	ed.pos += 4
	return nil
}

// GetInt32 reads a big-endian 32-bit signed integer.
func (ed *Editor) GetInt32() (int32, error) {
	v, err := ed.GetUint32()
	return int32(v), err
}

// SetInt32 writes a big-endian 32-bit signed integer.
func (ed *Editor) SetInt32(v int32) error {
	return ed.SetUint32(uint32(v))
}

// GetOffset reads an unsigned big-endian integer of 1, 2, 3 or 4 bytes.
// Location tables store glyph offsets with exactly the width the font
// needs, 3-byte entries included.
func (ed *Editor) GetOffset(width int) (uint32, error) {
	switch width {
	case 1:
		v, err := ed.GetUint8()
		return uint32(v), err
	case 2:
		v, err := ed.GetUint16()
		return uint32(v), err
	case 3:
		hi, err := ed.GetUint16()
		if err != nil {
			return 0, err
		}
		lo, err := ed.GetUint8()
		if err != nil {
			return 0, err
		}
		return uint32(hi)<<8 | uint32(lo), nil
	case 4:
		return ed.GetUint32()
	}
	return 0, Error{
		Kind:   InvalidWidth,
		Issue:  fmt.Sprintf("offset width %d", width),
		Offset: ed.pos,
	}
}

// SetOffset writes an unsigned big-endian integer of 1, 2, 3 or 4 bytes.
// Bits of v beyond the chosen width are dropped.
func (ed *Editor) SetOffset(width int, v uint32) error {
	switch width {
	case 1:
		return ed.SetUint8(uint8(v))
	case 2:
		return ed.SetUint16(uint16(v))
	case 3:
		if err := ed.SetUint16(uint16(v >> 8)); err != nil {
			return err
		}
		return ed.SetUint8(uint8(v))
	case 4:
		return ed.SetUint32(v)
	}
	return Error{
		Kind:   InvalidWidth,
		Issue:  fmt.Sprintf("offset width %d", width),
		Offset: ed.pos,
	}
}

// ReadBytes returns the next n bytes as a sub-slice of the buffer, without
// copying. Callers that hold on to the result see later edits.
func (ed *Editor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, Error{
			Kind:   InvalidArgument,
			Issue:  fmt.Sprintf("negative byte count %d", n),
			Offset: ed.pos,
		}
	}
	b, err := ed.view(n)
	if err != nil {
		return nil, err
	}
	ed.pos += n
	return b, nil
}

// WriteBytes copies b into the buffer at the current position.
func (ed *Editor) WriteBytes(b []byte) error {
	dst, err := ed.view(len(b))
	if err != nil {
		return err
	}
	copy(dst, b)
	ed.pos += len(b)
	return nil
}

// ReadString reads n bytes and decodes them as ISO Latin-1, one byte per
// character. Header tags and fingerprints are plain ASCII, which Latin-1
// contains.
func (ed *Editor) ReadString(n int) (string, error) {
	b, err := ed.ReadBytes(n)
	if err != nil {
		return "", err
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// GetArrayOf reads count elements in sequence, using read for each one.
func GetArrayOf[T any](ed *Editor, count int, read func(*Editor) (T, error)) ([]T, error) {
	values := make([]T, count)
	for i := 0; i < count; i++ {
		v, err := read(ed)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// SetArrayOf writes all values in sequence, using write for each one.
func SetArrayOf[T any](ed *Editor, values []T, write func(*Editor, T) error) error {
	for _, v := range values {
		if err := write(ed, v); err != nil {
			return err
		}
	}
	return nil
}
