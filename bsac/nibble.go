package bsac

import "fmt"

// Escape values in packed segment tables travel in a nibble stream: each
// value is a count-and-sign nibble followed by 1…8 magnitude nibbles,
// big-endian. A count nibble n < 8 announces n+1 magnitude nibbles and a
// positive value, n >= 8 announces n-7 magnitude nibbles and a negative
// value. The stream starts on the high nibble of a fresh byte and is
// padded with a zero nibble if it ends mid-byte.

// maxExtraNibbles bounds the magnitude of one escape value to 32 bits,
// which is the widest field any segment format stores.
const maxExtraNibbles = 8

// nibbleReader hands out 4-bit values from the cursor, high nibble first.
type nibbleReader struct {
	ed      *Editor
	cached  byte
	hasHalf bool
}

func newNibbleReader(ed *Editor) *nibbleReader {
	return &nibbleReader{ed: ed}
}

func (nr *nibbleReader) next() (byte, error) {
	if nr.hasHalf {
		nr.hasHalf = false
		return nr.cached & 0x0f, nil
	}
	b, err := nr.ed.GetUint8()
	if err != nil {
		return 0, err
	}
	nr.cached = b
	nr.hasHalf = true
	return b >> 4, nil
}

// readExtras decodes count signed integers from the nibble stream.
func (nr *nibbleReader) readExtras(count int) ([]int64, error) {
	extras := make([]int64, count)
	for i := range extras {
		n, err := nr.next()
		if err != nil {
			return nil, err
		}
		sign := int64(1)
		k := int(n) + 1
		if n >= 8 {
			sign = -1
			k = int(n) - 7
		}
		var acc int64
		for j := 0; j < k; j++ {
			nib, err := nr.next()
			if err != nil {
				return nil, err
			}
			acc = acc<<4 | int64(nib)
		}
		extras[i] = sign * acc
	}
	return extras, nil
}

// nibbleWriter emits 4-bit values through the cursor, buffering half bytes.
type nibbleWriter struct {
	ed      *Editor
	cached  byte
	hasHalf bool
}

func newNibbleWriter(ed *Editor) *nibbleWriter {
	return &nibbleWriter{ed: ed}
}

func (nw *nibbleWriter) put(nib byte) error {
	if nw.hasHalf {
		nw.hasHalf = false
		return nw.ed.SetUint8(nw.cached<<4 | nib&0x0f)
	}
	nw.cached = nib & 0x0f
	nw.hasHalf = true
	return nil
}

// writeExtra appends one signed value to the nibble stream.
func (nw *nibbleWriter) writeExtra(v int64) error {
	k := nibbleCount(v)
	if k > maxExtraNibbles {
		return Error{
			Kind:   InvalidArgument,
			Issue:  fmt.Sprintf("escape value %d exceeds 32 bits", v),
			Offset: nw.ed.Tell(),
		}
	}
	m := uint64(v)
	header := byte(k - 1)
	if v < 0 {
		m = uint64(-v)
		header = byte(k + 7)
	}
	if err := nw.put(header); err != nil {
		return err
	}
	for j := k - 1; j >= 0; j-- {
		if err := nw.put(byte(m >> (4 * j) & 0x0f)); err != nil {
			return err
		}
	}
	return nil
}

// flush pads and writes a pending half byte, if any.
func (nw *nibbleWriter) flush() error {
	if nw.hasHalf {
		nw.hasHalf = false
		return nw.ed.SetUint8(nw.cached << 4)
	}
	return nil
}

// nibbleCount returns the number of magnitude nibbles writeExtra needs
// for v, at least 1.
func nibbleCount(v int64) int {
	m := uint64(v)
	if v < 0 {
		m = uint64(-v)
	}
	k := 1
	for m >>= 4; m != 0; m >>= 4 {
		k++
	}
	return k
}

// extraNibbles returns the stream length of one escape value in nibbles,
// including the count-and-sign nibble.
func extraNibbles(v int64) int {
	return 1 + nibbleCount(v)
}
