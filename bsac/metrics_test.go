package bsac

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSetSideBearing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// 5 long records of 4 bytes, then bearing-only records of 2 bytes.
	const tableStart = 16
	const metricCount = 5
	b := make([]byte, 64)
	ed := NewEditor(b, 0)
	if err := ed.SetSideBearing(tableStart, metricCount, 3, -7); err != nil {
		t.Fatal(err)
	}
	// Glyph 3 has a long record: bearing sits at 16 + 3*4 + 2 = 30.
	if b[30] != 0xff || b[31] != 0xf9 {
		t.Errorf("expected bearing -7 at offset 30, bytes are % x", b[28:34])
	}
	if err := ed.SetSideBearing(tableStart, metricCount, 7, 0x1234); err != nil {
		t.Fatal(err)
	}
	// Glyph 7 is past the long records: 16 + 5*4 + 2*2 = 40.
	if b[40] != 0x12 || b[41] != 0x34 {
		t.Errorf("expected bearing 0x1234 at offset 40, bytes are % x", b[38:44])
	}
}

func TestGlyphLocationWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	const tableStart = 8
	values := []uint32{0xfe, 0xfedc, 0xfedcba, 0xfedcba98}
	for width := 1; width <= 4; width++ {
		b := make([]byte, tableStart+8*width)
		ed := NewEditor(b, 0)
		v := values[width-1]
		if err := ed.SetGlyphLocation(tableStart, width, 5, v); err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		got, err := ed.GlyphLocation(tableStart, width, 5)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		if got != v {
			t.Errorf("width %d: expected location %#x, have %#x", width, v, got)
		}
		// Neighbors stay untouched.
		if prev, _ := ed.GlyphLocation(tableStart, width, 4); prev != 0 {
			t.Errorf("width %d: expected glyph 4 location to stay 0, is %#x", width, prev)
		}
	}
}

func TestGlyphLocation3ByteEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := make([]byte, 12)
	ed := NewEditor(b, 0)
	if err := ed.SetGlyphLocation(0, 3, 2, 0x123456); err != nil {
		t.Fatal(err)
	}
	if b[6] != 0x12 || b[7] != 0x34 || b[8] != 0x56 {
		t.Errorf("expected entry bytes 12 34 56 at offset 6, have % x", b[6:9])
	}
}

func TestGlyphLocationInvalidWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	ed := NewEditor(make([]byte, 16), 0)
	if _, err := ed.GlyphLocation(0, 5, 0); KindOf(err) != InvalidWidth {
		t.Errorf("expected InvalidWidth, have %v", err)
	}
}
