/*
Package sfnttest synthesizes tiny SFNT font binaries for tests.

The fonts are structurally valid TrueType/CFF files with a handful of
glyphs, a cmap carrying both a format-4 and a format-12 subtable, and
horizontal plus (for TrueType) vertical metrics. They are not meant to
render; they exist so that table-level tooling can be tested without
shipping real font files.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package sfnttest

import "encoding/binary"

// NumGlyphs is the glyph count of the TrueType test font.
const NumGlyphs = 6

// GlyphSizes holds the glyf data size per glyph of the TrueType test
// font. Glyph 4 is empty.
var GlyphSizes = []int{10, 20, 30, 40, 0, 50}

// HMetricCount and VMetricCount are the long-metric counts of the test
// fonts' hhea and vhea tables.
const (
	HMetricCount = 4
	VMetricCount = 2
)

type buffer struct {
	b []byte
}

func (w *buffer) u8(v uint8)     { w.b = append(w.b, v) }
func (w *buffer) u16(v uint16)   { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *buffer) u32(v uint32)   { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *buffer) bytes(p []byte) { w.b = append(w.b, p...) }

func (w *buffer) zeros(n int) {
	w.b = append(w.b, make([]byte, n)...)
}

// TTF returns a TrueType flavored test font. With longLoca the head
// table announces format 1 and loca entries are 32 bits wide, otherwise
// format 0 with halved 16-bit entries.
func TTF(longLoca bool) []byte {
	return assemble(0x00010000, []table{
		{"cmap", cmapTable()},
		{"glyf", glyfTable()},
		{"head", headTable(longLoca)},
		{"hhea", hheaTable(HMetricCount)},
		{"hmtx", hmtxTable(HMetricCount, NumGlyphs)},
		{"loca", locaTable(longLoca)},
		{"maxp", maxpTable(NumGlyphs)},
		{"vhea", vheaTable(VMetricCount)},
		{"vmtx", vmtxTable(VMetricCount, NumGlyphs)},
	})
}

// CFF returns a CFF flavored test font whose CharStrings INDEX holds
// len(charStringSizes) entries of the given byte sizes.
func CFF(charStringSizes []int) []byte {
	n := len(charStringSizes)
	return assemble(0x4f54544f, []table{ // 'OTTO'
		{"CFF ", cffTable(charStringSizes)},
		{"cmap", cmapTable()},
		{"head", headTable(false)},
		{"hhea", hheaTable(HMetricCount)},
		{"hmtx", hmtxTable(HMetricCount, n)},
		{"maxp", maxpCFFTable(n)},
	})
}

type table struct {
	tag  string
	data []byte
}

// assemble lays out a font directory followed by the (4-byte aligned)
// table data. Tables must already be sorted by tag. Checksums are left
// zero.
func assemble(scaler uint32, tables []table) []byte {
	w := &buffer{}
	n := len(tables)
	entrySelector := 0
	for 1<<(entrySelector+1) <= n {
		entrySelector++
	}
	searchRange := 16 << entrySelector
	w.u32(scaler)
	w.u16(uint16(n))
	w.u16(uint16(searchRange))
	w.u16(uint16(entrySelector))
	w.u16(uint16(n*16 - searchRange))
	offset := 12 + n*16
	for _, t := range tables {
		w.bytes([]byte(t.tag))
		w.u32(0) // checksum
		w.u32(uint32(offset))
		w.u32(uint32(len(t.data)))
		offset += (len(t.data) + 3) &^ 3
	}
	for _, t := range tables {
		w.bytes(t.data)
		w.zeros((4-len(t.data)%4)%4)
	}
	return w.b
}

// Format4GlyphIDs is the glyphIdArray of the test fonts' format-4 cmap
// subtable: codepoints 0x41…0x43 map to glyphs 10…12, 0x61…0x63 to
// glyphs 40…42, and the stretch in between to glyph 0.
var Format4GlyphIDs = []uint16{
	10, 11, 12,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	40, 41, 42,
}

// cmapTable builds a cmap with a format-12 subtable holding two groups,
// 0x41…0x43 starting at glyph 10 and 0x61…0x63 starting at glyph 40,
// and the equivalent format-4 subtable: a single segment 0x41…0x63
// addressing Format4GlyphIDs, plus the 0xffff sentinel.
func cmapTable() []byte {
	w := &buffer{}
	w.u16(0) // version
	w.u16(2) // number of encoding records
	w.u16(3)
	w.u16(1)
	w.u32(20) // offset of the format-4 subtable
	w.u16(3)
	w.u16(10)
	w.u32(122) // offset of the format-12 subtable
	// format 4
	w.u16(4)
	w.u16(uint16(32 + 2*len(Format4GlyphIDs))) // length
	w.u16(0)                                   // language
	w.u16(4)                                   // segCount * 2
	w.u16(4)                                   // searchRange
	w.u16(1)                                   // entrySelector
	w.u16(0)                                   // rangeShift
	w.u16(0x63)
	w.u16(0xffff) // endCode
	w.u16(0)      // reservedPad
	w.u16(0x41)
	w.u16(0xffff) // startCode
	w.u16(0)
	w.u16(1) // idDelta
	w.u16(4)
	w.u16(0) // idRangeOffset
	for _, gid := range Format4GlyphIDs {
		w.u16(gid)
	}
	// format 12
	w.u16(12)
	w.u16(0)
	w.u32(40) // length
	w.u32(0)  // language
	w.u32(2)  // nGroups
	w.u32(0x41)
	w.u32(0x43)
	w.u32(10)
	w.u32(0x61)
	w.u32(0x63)
	w.u32(40)
	return w.b
}

func headTable(longLoca bool) []byte {
	w := &buffer{}
	w.u32(0x00010000) // version
	w.u32(0)          // font revision
	w.u32(0)          // checksum adjustment
	w.u32(0x5f0f3cf5) // magic number
	w.u16(0)          // flags
	w.u16(1000)       // unitsPerEm
	w.zeros(16)       // created, modified
	w.zeros(8)        // xMin, yMin, xMax, yMax
	w.u16(0)          // macStyle
	w.u16(8)          // lowestRecPPEM
	w.u16(2)          // fontDirectionHint
	if longLoca {
		w.u16(1)
	} else {
		w.u16(0)
	}
	w.u16(0) // glyphDataFormat
	return w.b
}

func maxpTable(numGlyphs int) []byte {
	w := &buffer{}
	w.u32(0x00010000)
	w.u16(uint16(numGlyphs))
	w.zeros(26)
	return w.b
}

func maxpCFFTable(numGlyphs int) []byte {
	w := &buffer{}
	w.u32(0x00005000)
	w.u16(uint16(numGlyphs))
	return w.b
}

func hheaTable(metricCount int) []byte {
	w := &buffer{}
	w.u32(0x00010000)
	w.u16(800)    // ascender
	w.u16(0xff38) // descender, -200
	w.u16(0)      // line gap
	w.u16(600)    // advance width max
	w.zeros(3 * 2)
	w.u16(1) // caret slope rise
	w.zeros(2 * 2)
	w.zeros(4 * 2) // reserved
	w.u16(0)       // metric data format
	w.u16(uint16(metricCount))
	return w.b
}

func vheaTable(metricCount int) []byte {
	w := &buffer{}
	w.u32(0x00011000)
	w.u16(500)    // vertAscender
	w.u16(0xfe0c) // vertDescender, -500
	w.u16(0)      // line gap
	w.u16(1000)   // advance height max
	w.zeros(3 * 2)
	w.zeros(3 * 2) // caret
	w.zeros(4 * 2) // reserved
	w.u16(0)       // metric data format
	w.u16(uint16(metricCount))
	return w.b
}

// hmtxTable fills long metrics (500+i, 50+i) followed by bare left side
// bearings 54, 55, …
func hmtxTable(metricCount, numGlyphs int) []byte {
	w := &buffer{}
	for i := 0; i < metricCount; i++ {
		w.u16(uint16(500 + i))
		w.u16(uint16(50 + i))
	}
	for i := metricCount; i < numGlyphs; i++ {
		w.u16(uint16(50 + i))
	}
	return w.b
}

// vmtxTable fills long metrics (600+i, 60+i) followed by bare top side
// bearings 62, 63, …
func vmtxTable(metricCount, numGlyphs int) []byte {
	w := &buffer{}
	for i := 0; i < metricCount; i++ {
		w.u16(uint16(600 + i))
		w.u16(uint16(60 + i))
	}
	for i := metricCount; i < numGlyphs; i++ {
		w.u16(uint16(60 + i))
	}
	return w.b
}

func glyfTable() []byte {
	w := &buffer{}
	for i, size := range GlyphSizes {
		for j := 0; j < size; j++ {
			w.u8(uint8(0xa0 + i))
		}
	}
	return w.b
}

func locaTable(longLoca bool) []byte {
	w := &buffer{}
	offset := 0
	put := func(v int) {
		if longLoca {
			w.u32(uint32(v))
		} else {
			w.u16(uint16(v / 2))
		}
	}
	put(0)
	for _, size := range GlyphSizes {
		offset += size
		put(offset)
	}
	return w.b
}

// cffTable builds a minimal CFF structure: header, a Name INDEX, a Top
// DICT INDEX whose single dict holds just the CharStrings operator, empty
// String and Global Subr INDEXes, and the CharStrings INDEX itself.
func cffTable(charStringSizes []int) []byte {
	w := &buffer{}
	w.u8(1)
	w.u8(0)
	w.u8(4) // header size
	w.u8(4) // absolute offset size
	// Name INDEX
	w.u16(1)
	w.u8(1) // offSize
	w.u8(1)
	w.u8(5)
	w.bytes([]byte("Test"))
	// Top DICT INDEX, one dict of six bytes
	w.u16(1)
	w.u8(1)
	w.u8(1)
	w.u8(7)
	dictAt := len(w.b)
	w.u8(29) // int32 operand, patched below
	w.u32(0)
	w.u8(17) // CharStrings operator
	// String INDEX and Global Subr INDEX, both empty
	w.u16(0)
	w.u16(0)
	binary.BigEndian.PutUint32(w.b[dictAt+1:], uint32(len(w.b)))
	// CharStrings INDEX
	total := 0
	for _, size := range charStringSizes {
		total += size
	}
	offSize := 1
	switch {
	case total+1 > 0xffffff:
		offSize = 4
	case total+1 > 0xffff:
		offSize = 3
	case total+1 > 0xff:
		offSize = 2
	}
	w.u16(uint16(len(charStringSizes)))
	w.u8(uint8(offSize))
	putOffset := func(v uint32) {
		for k := offSize - 1; k >= 0; k-- {
			w.u8(uint8(v >> (8 * k)))
		}
	}
	offset := uint32(1)
	putOffset(offset)
	for _, size := range charStringSizes {
		offset += uint32(size)
		putOffset(offset)
	}
	for i, size := range charStringSizes {
		for j := 0; j < size; j++ {
			w.u8(uint8(0xc0 + i%16))
		}
	}
	return w.b
}
