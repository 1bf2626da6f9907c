package basegen

import (
	"fmt"

	"github.com/npillmayer/basefont/bsac"
)

// Table tags the generator cares about.
var (
	tagCFF  = bsac.T("CFF ")
	tagCmap = bsac.T("cmap")
	tagGlyf = bsac.T("glyf")
	tagHead = bsac.T("head")
	tagHhea = bsac.T("hhea")
	tagHmtx = bsac.T("hmtx")
	tagLoca = bsac.T("loca")
	tagMaxp = bsac.T("maxp")
	tagVhea = bsac.T("vhea")
	tagVmtx = bsac.T("vmtx")
)

func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

// tableRecord is one entry of the font directory.
type tableRecord struct {
	offset uint32
	length uint32
}

// fontDirectory indexes the tables of an SFNT font by tag.
type fontDirectory struct {
	scalerType uint32
	tables     map[bsac.Tag]tableRecord
}

// parseDirectory reads the offset table and the table records of a font.
// size is the total font size, used for bounds checking the records.
func parseDirectory(ed *bsac.Editor, size int) (*fontDirectory, error) {
	scaler, err := ed.GetUint32()
	if err != nil {
		return nil, errFontFormat("offset table")
	}
	if scaler == 0x74746366 { // ttcf
		return nil, errFontFormat("font collections not supported")
	}
	if !(scaler == 0x4f54544f || // OTTO
		scaler == 0x00010000 || // TrueType
		scaler == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", scaler))
	}
	count, err := ed.GetUint16()
	if err != nil {
		return nil, errFontFormat("offset table")
	}
	if err = ed.Skip(6); err != nil { // searchRange, entrySelector, rangeShift
		return nil, errFontFormat("offset table")
	}
	dir := &fontDirectory{
		scalerType: scaler,
		tables:     make(map[bsac.Tag]tableRecord, count),
	}
	for i := 0; i < int(count); i++ {
		b, err := ed.ReadBytes(4)
		if err != nil {
			return nil, errFontFormat("table record entries")
		}
		tag := bsac.MakeTag(b)
		if err = ed.Skip(4); err != nil { // checksum
			return nil, errFontFormat("table record entries")
		}
		off, err := ed.GetUint32()
		if err != nil {
			return nil, errFontFormat("table record entries")
		}
		length, err := ed.GetUint32()
		if err != nil {
			return nil, errFontFormat("table record entries")
		}
		if int64(off)+int64(length) > int64(size) {
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, uint64(off)+uint64(length), size))
		}
		dir.tables[tag] = tableRecord{offset: off, length: length}
		tracer().Debugf("font directory: %s at %d, %d bytes", tag, off, length)
	}
	return dir, nil
}

func (dir *fontDirectory) table(tag bsac.Tag) (tableRecord, bool) {
	rec, ok := dir.tables[tag]
	return rec, ok
}

// isCFF is true for fonts carrying their outlines in a CFF table.
func (dir *fontDirectory) isCFF() bool {
	_, ok := dir.tables[tagCFF]
	return ok
}

// glyphCount reads numGlyphs from maxp.
func (dir *fontDirectory) glyphCount(ed *bsac.Editor) (int, error) {
	rec, ok := dir.table(tagMaxp)
	if !ok {
		return 0, errFontFormat("maxp table missing")
	}
	ed.Seek(int(rec.offset) + 4)
	n, err := ed.GetUint16()
	return int(n), err
}

// locaFormat reads indexToLocFormat from head. 0 announces 16-bit loca
// entries holding halved offsets, 1 announces plain 32-bit entries.
func (dir *fontDirectory) locaFormat(ed *bsac.Editor) (int, error) {
	rec, ok := dir.table(tagHead)
	if !ok {
		return 0, errFontFormat("head table missing")
	}
	ed.Seek(int(rec.offset) + 50)
	format, err := ed.GetInt16()
	if err != nil {
		return 0, err
	}
	if format != 0 && format != 1 {
		return 0, errFontFormat(fmt.Sprintf("indexToLocFormat is %d", format))
	}
	return int(format), nil
}

// metricCount reads the long metric count from an hhea or vhea table.
// numberOfHMetrics and numOfLongVerMetrics share their offset.
func (dir *fontDirectory) metricCount(ed *bsac.Editor, tag bsac.Tag) (int, error) {
	rec, ok := dir.table(tag)
	if !ok {
		return 0, errFontFormat(fmt.Sprintf("%s table missing", tag))
	}
	ed.Seek(int(rec.offset) + 34)
	n, err := ed.GetUint16()
	return int(n), err
}
