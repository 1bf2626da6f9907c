package basegen

import (
	"fmt"

	"github.com/npillmayer/basefont/bsac"
)

// charStrings describes the CharStrings INDEX of a CFF table. Offsets
// are kept exactly as stored, 1-based and offSize bytes wide, so that
// leveled offsets can be written back through the same encoding.
type charStrings struct {
	indexPos   int      // position of the INDEX's count field
	count      int      // number of charstrings
	offSize    int      // byte width of the INDEX's offset entries
	offsets    []uint32 // count+1 offsets, 1-based as stored
	offsetBase int      // position p with p+offsets[i] addressing entry i
	dataEnd    int      // position one past the last entry
}

// findCharStrings locates the CharStrings INDEX inside the CFF table at
// rec: header, then past the Name INDEX, then the CharStrings operator
// of the first top DICT.
func findCharStrings(ed *bsac.Editor, rec tableRecord) (*charStrings, error) {
	base := int(rec.offset)
	ed.Seek(base)
	major, err := ed.GetUint8()
	if err != nil {
		return nil, err
	}
	minor, err := ed.GetUint8()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, errFontFormat(fmt.Sprintf("CFF version %d.%d not supported", major, minor))
	}
	hdrSize, err := ed.GetUint8()
	if err != nil {
		return nil, err
	}
	ed.Seek(base + int(hdrSize))
	if err = skipIndex(ed); err != nil { // Name INDEX
		return nil, err
	}
	dict, err := firstIndexEntry(ed) // Top DICT INDEX
	if err != nil {
		return nil, err
	}
	csOff, err := charStringsOffset(dict)
	if err != nil {
		return nil, err
	}
	cs, err := readCharStringsIndex(ed, base+csOff)
	if err != nil {
		return nil, err
	}
	if cs.dataEnd > base+int(rec.length) {
		return nil, errFontFormat(fmt.Sprintf("CharStrings INDEX ends at %d, past the CFF table at %d",
			cs.dataEnd, base+int(rec.length)))
	}
	return cs, nil
}

func readIndexOffSize(ed *bsac.Editor) (int, error) {
	offSize, err := ed.GetUint8()
	if err != nil {
		return 0, err
	}
	if offSize == 0 || offSize > 4 {
		return 0, errFontFormat(fmt.Sprintf("CFF INDEX offset size is %d", offSize))
	}
	return int(offSize), nil
}

// skipIndex positions the editor past the INDEX it currently points at.
func skipIndex(ed *bsac.Editor) error {
	count, err := ed.GetUint16()
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	offSize, err := readIndexOffSize(ed)
	if err != nil {
		return err
	}
	if err = ed.Skip(int(count) * offSize); err != nil {
		return err
	}
	last, err := ed.GetOffset(offSize)
	if err != nil {
		return err
	}
	return ed.Skip(int(last) - 1)
}

// firstIndexEntry returns the bytes of entry 0 of the INDEX the editor
// currently points at and positions the editor past the INDEX.
func firstIndexEntry(ed *bsac.Editor) ([]byte, error) {
	count, err := ed.GetUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errFontFormat("CFF INDEX is empty")
	}
	offSize, err := readIndexOffSize(ed)
	if err != nil {
		return nil, err
	}
	offsets, err := readOffsets(ed, int(count)+1, offSize)
	if err != nil {
		return nil, err
	}
	if offsets[0] < 1 || offsets[1] < offsets[0] {
		return nil, errFontFormat("CFF INDEX offsets run backwards")
	}
	dataBase := ed.Tell() - 1
	ed.Seek(dataBase + int(offsets[0]))
	entry, err := ed.ReadBytes(int(offsets[1] - offsets[0]))
	if err != nil {
		return nil, err
	}
	ed.Seek(dataBase + int(offsets[count]))
	return entry, nil
}

func readOffsets(ed *bsac.Editor, count, offSize int) ([]uint32, error) {
	return bsac.GetArrayOf(ed, count, func(ed *bsac.Editor) (uint32, error) {
		return ed.GetOffset(offSize)
	})
}

func readCharStringsIndex(ed *bsac.Editor, at int) (*charStrings, error) {
	ed.Seek(at)
	count, err := ed.GetUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errFontFormat("CharStrings INDEX is empty")
	}
	offSize, err := readIndexOffSize(ed)
	if err != nil {
		return nil, err
	}
	offsets, err := readOffsets(ed, int(count)+1, offSize)
	if err != nil {
		return nil, err
	}
	if offsets[0] != 1 {
		return nil, errFontFormat(fmt.Sprintf("CharStrings INDEX starts at offset %d", offsets[0]))
	}
	cs := &charStrings{
		indexPos:   at,
		count:      int(count),
		offSize:    offSize,
		offsets:    offsets,
		offsetBase: ed.Tell() - 1,
	}
	cs.dataEnd = cs.offsetBase + int(offsets[count])
	return cs, nil
}

// charStringsOffset scans a top DICT for the CharStrings operator (17)
// and returns its operand, the INDEX position relative to the start of
// the CFF table.
func charStringsOffset(dict []byte) (int, error) {
	truncated := errFontFormat("CFF top DICT truncated")
	operand, haveOperand := 0, false
	for i := 0; i < len(dict); {
		b0 := int(dict[i])
		switch {
		case b0 == 17:
			if !haveOperand {
				return 0, errFontFormat("CharStrings operator without operand")
			}
			return operand, nil
		case b0 == 12: // two-byte operator
			if i+1 >= len(dict) {
				return 0, truncated
			}
			haveOperand = false
			i += 2
		case b0 <= 21: // other operators clear the operand stack
			haveOperand = false
			i++
		case b0 == 28:
			if i+2 >= len(dict) {
				return 0, truncated
			}
			operand = int(int16(uint16(dict[i+1])<<8 | uint16(dict[i+2])))
			haveOperand = true
			i += 3
		case b0 == 29:
			if i+4 >= len(dict) {
				return 0, truncated
			}
			operand = int(int32(uint32(dict[i+1])<<24 | uint32(dict[i+2])<<16 |
				uint32(dict[i+3])<<8 | uint32(dict[i+4])))
			haveOperand = true
			i += 5
		case b0 == 30: // real number, nibbles until 0xf
			i++
			for {
				if i >= len(dict) {
					return 0, truncated
				}
				b := dict[i]
				i++
				if b>>4 == 0xf || b&0x0f == 0xf {
					break
				}
			}
			haveOperand = false
		case b0 >= 32 && b0 <= 246:
			operand = b0 - 139
			haveOperand = true
			i++
		case b0 >= 247 && b0 <= 250:
			if i+1 >= len(dict) {
				return 0, truncated
			}
			operand = (b0-247)*256 + int(dict[i+1]) + 108
			haveOperand = true
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+1 >= len(dict) {
				return 0, truncated
			}
			operand = -(b0-251)*256 - int(dict[i+1]) - 108
			haveOperand = true
			i += 2
		default: // reserved
			i++
		}
	}
	return 0, errFontFormat("top DICT carries no CharStrings operator")
}
