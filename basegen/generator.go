package basegen

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/npillmayer/basefont/bsac"
)

// locaBlockSize is the granularity of glyph location leveling. Glyph
// data is streamed back in chunks, and leveling per block keeps every
// chunk of up to 64 glyphs writable into its original place.
const locaBlockSize = 64

// Generate strips a source font down to a base font: side bearings
// zeroed, glyph data zeroed, glyph locations leveled per block, and the
// header prepended. It returns the complete base-font blob together with
// the header record describing it. The input slice is left untouched.
func Generate(font []byte) ([]byte, *bsac.FileInfo, error) {
	payload := make([]byte, len(font))
	copy(payload, font)
	ed := bsac.NewEditor(payload, 0)
	dir, err := parseDirectory(ed, len(payload))
	if err != nil {
		return nil, nil, err
	}
	numGlyphs, err := dir.glyphCount(ed)
	if err != nil {
		return nil, nil, err
	}
	tracer().Debugf("stripping font with %d glyphs, CFF = %v", numGlyphs, dir.isCFF())
	info := &bsac.FileInfo{}
	if err = zeroBearings(ed, dir, info, numGlyphs); err != nil {
		return nil, nil, err
	}
	if dir.isCFF() {
		err = stripCharStrings(ed, dir, info)
	} else {
		err = stripGlyphs(ed, dir, info, numGlyphs)
	}
	if err != nil {
		return nil, nil, err
	}
	if rec, ok := dir.table(tagCmap); ok {
		cm, err := readCmap(ed, rec)
		if err != nil {
			return nil, nil, err
		}
		if cm != nil {
			info.Cmap12 = bsac.Some(cm.cm12)
			info.Cmap4 = bsac.Some(cm.cm4)
			format := bsac.PickSegmentFormat(cm.groups)
			info.CompactCmap = &bsac.CompactCmap{
				Tables: []*bsac.GroupOfSegments{
					bsac.NewSegmentTable(format, cm.groups),
					bsac.NewRunTable(cm.runs),
				},
			}
		}
	}
	sum := sha1.Sum(font)
	info.Fingerprint = bsac.Some(hex.EncodeToString(sum[:]))
	header, err := bsac.EncodeHeader(info)
	if err != nil {
		return nil, nil, err
	}
	blob := make([]byte, 0, len(header)+len(payload))
	blob = append(blob, header...)
	blob = append(blob, payload...)
	// hand back the header as parsing sees it, tag list included
	info, err = bsac.ParseHeader(blob, 0)
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("generated base font: %d header + %d payload bytes", len(header), len(payload))
	return blob, info, nil
}

// zeroBearings clears the side bearings of hmtx and, when the font has
// one, of vmtx. Advances survive so that placeholder text keeps the
// final text's layout.
func zeroBearings(ed *bsac.Editor, dir *fontDirectory, info *bsac.FileInfo, numGlyphs int) error {
	hmtx, ok := dir.table(tagHmtx)
	if !ok {
		return errFontFormat("hmtx table missing")
	}
	hCount, err := dir.metricCount(ed, tagHhea)
	if err != nil {
		return err
	}
	if err = zeroMtx(ed, hmtx.offset, hCount, numGlyphs); err != nil {
		return err
	}
	info.HMtxOffset = bsac.Some(hmtx.offset)
	info.HMetricCount = bsac.Some(uint16(hCount))
	vmtx, ok := dir.table(tagVmtx)
	if !ok {
		return nil
	}
	vCount, err := dir.metricCount(ed, tagVhea)
	if err != nil {
		return err
	}
	if err = zeroMtx(ed, vmtx.offset, vCount, numGlyphs); err != nil {
		return err
	}
	info.VMtxOffset = bsac.Some(vmtx.offset)
	info.VMetricCount = bsac.Some(uint16(vCount))
	return nil
}

func zeroMtx(ed *bsac.Editor, tableStart uint32, metricCount, numGlyphs int) error {
	for gid := 0; gid < numGlyphs; gid++ {
		if err := ed.SetSideBearing(tableStart, metricCount, gid, 0); err != nil {
			return err
		}
	}
	return nil
}

// stripGlyphs zeroes the glyf table and levels loca for a TrueType
// flavored font.
func stripGlyphs(ed *bsac.Editor, dir *fontDirectory, info *bsac.FileInfo, numGlyphs int) error {
	glyf, ok := dir.table(tagGlyf)
	if !ok {
		return errFontFormat("glyf table missing")
	}
	loca, ok := dir.table(tagLoca)
	if !ok {
		return errFontFormat("loca table missing")
	}
	format, err := dir.locaFormat(ed)
	if err != nil {
		return err
	}
	if err = zeroRegion(ed, int(glyf.offset), int(glyf.length)); err != nil {
		return err
	}
	width := 2
	if format == 1 {
		width = 4
	}
	n := int(loca.length) / width
	locations := make([]uint32, n)
	for i := range locations {
		if locations[i], err = ed.GlyphLocation(loca.offset, width, i); err != nil {
			return err
		}
	}
	levelBlocks(locations, true)
	for i, v := range locations {
		if err = ed.SetGlyphLocation(loca.offset, width, i, v); err != nil {
			return err
		}
	}
	info.GlyphDataOffset = bsac.Some(glyf.offset)
	info.GlyphCount = bsac.Some(uint16(numGlyphs))
	info.LocaOffset = bsac.Some(loca.offset)
	info.LocaWidth = bsac.Some(uint8(width))
	info.IsTrueType = bsac.Some(true)
	return nil
}

// stripCharStrings zeroes the CharStrings INDEX data and levels its
// offsets for a CFF flavored font. Unlike loca, INDEX offsets are
// 1-based and must stay positive, so blocks level down to their first
// value.
func stripCharStrings(ed *bsac.Editor, dir *fontDirectory, info *bsac.FileInfo) error {
	cff, ok := dir.table(tagCFF)
	if !ok {
		return errFontFormat("CFF table missing")
	}
	cs, err := findCharStrings(ed, cff)
	if err != nil {
		return err
	}
	dataStart := cs.offsetBase + int(cs.offsets[0])
	if err = zeroRegion(ed, dataStart, cs.dataEnd-dataStart); err != nil {
		return err
	}
	levelBlocks(cs.offsets, false)
	// a leveled block must stay below 64 KiB, the most one glyph-data
	// chunk can carry
	for i := locaBlockSize; i < len(cs.offsets); i += locaBlockSize {
		if gap := cs.offsets[i] - cs.offsets[i-1]; gap >= 65536 {
			return errFontFormat(fmt.Sprintf(
				"CharStrings block at entry %d spans %d bytes, too wide to level", i, gap))
		}
	}
	ed.Seek(cs.indexPos + 3)
	if err = bsac.SetArrayOf(ed, cs.offsets, func(ed *bsac.Editor, v uint32) error {
		return ed.SetOffset(cs.offSize, v)
	}); err != nil {
		return err
	}
	info.GlyphDataOffset = bsac.Some(uint32(cs.offsetBase))
	info.GlyphCount = bsac.Some(uint16(cs.count))
	info.LocaOffset = bsac.Some(uint32(cs.indexPos + 3))
	info.LocaWidth = bsac.Some(uint8(cs.offSize))
	info.IsTrueType = bsac.Some(false)
	return nil
}

// zeroRegion clears length bytes starting at position at.
func zeroRegion(ed *bsac.Editor, at, length int) error {
	ed.Seek(at)
	b, err := ed.ReadBytes(length)
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = 0
	}
	return nil
}

// levelBlocks replaces every block of 64 values by a single one: the
// block's last value when upper is set, its first value otherwise. The
// tail block levels the same way even when shorter.
func levelBlocks(values []uint32, upper bool) {
	for lower := 0; lower < len(values); lower += locaBlockSize {
		next := lower + locaBlockSize
		if next > len(values) {
			next = len(values)
		}
		fill := values[lower]
		if upper {
			fill = values[next-1]
		}
		for i := lower; i < next; i++ {
			values[i] = fill
		}
	}
}
