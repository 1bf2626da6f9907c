package bsac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestReconstructFormat4Merged(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// Two groups merge into one array-mapped segment covering 0x41…0x63,
	// zeros filling the gap, plus the sentinel from the trailing zero run.
	groups := []Segment{
		{Start: 0x41, Length: 3, GID: 10},
		{Start: 0x61, Length: 3, GID: 40},
	}
	table, err := reconstructFormat4(NewEditor(nil, 0), groups, []int{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	wantSegments := []Format4Segment{
		{StartCode: 0x41, EndCode: 0x63, IDDelta: 0, IDRangeOffset: 4},
		{StartCode: 0xffff, EndCode: 0xffff, IDDelta: 1, IDRangeOffset: 0},
	}
	if diff := cmp.Diff(wantSegments, table.Segments); diff != "" {
		t.Errorf("segments differ (-want +got):\n%s", diff)
	}
	if len(table.GlyphIDArray) != 35 {
		t.Fatalf("expected 35 glyph ids, have %d", len(table.GlyphIDArray))
	}
	wantIDs := []uint16{10, 11, 12}
	for i, want := range wantIDs {
		if table.GlyphIDArray[i] != want {
			t.Errorf("expected glyph id %d at %d, have %d", want, i, table.GlyphIDArray[i])
		}
	}
	for i := 3; i < 32; i++ {
		if table.GlyphIDArray[i] != 0 {
			t.Errorf("expected gap at %d to map to glyph 0, has %d", i, table.GlyphIDArray[i])
		}
	}
	for i, want := range []uint16{40, 41, 42} {
		if table.GlyphIDArray[32+i] != want {
			t.Errorf("expected glyph id %d at %d, have %d", want, 32+i, table.GlyphIDArray[32+i])
		}
	}
}

func TestReconstructFormat4Delta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	groups := []Segment{
		{Start: 0x30, Length: 10, GID: 1},
		{Start: 0x100, Length: 3, GID: 50},
	}
	table, err := reconstructFormat4(NewEditor(nil, 0), groups, []int{1, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []Format4Segment{
		{StartCode: 0x30, EndCode: 0x39, IDDelta: 0xffd1},
		{StartCode: 0x100, EndCode: 0x102, IDDelta: 0xff32},
		{StartCode: 0xffff, EndCode: 0xffff, IDDelta: 1},
	}
	if diff := cmp.Diff(want, table.Segments); diff != "" {
		t.Errorf("segments differ (-want +got):\n%s", diff)
	}
	if len(table.GlyphIDArray) != 0 {
		t.Errorf("expected delta segments to use no glyph id array, have %d entries",
			len(table.GlyphIDArray))
	}
	// idDelta arithmetic is modulo 65536: startCode maps to the group's
	// first glyph.
	if gid := (0x30 + uint32(table.Segments[0].IDDelta)) & 0xffff; gid != 1 {
		t.Errorf("expected idDelta to map 0x30 to glyph 1, maps to %d", gid)
	}
}

func TestReconstructFormat4Malformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	groups := []Segment{
		{Start: 0x41, Length: 3, GID: 10},
		{Start: 0x61, Length: 3, GID: 40},
	}
	t.Run("ZeroRunBeforeEnd", func(t *testing.T) {
		_, err := reconstructFormat4(NewEditor(nil, 0), groups, []int{0, 1})
		if KindOf(err) != MalformedSegmentTable {
			t.Errorf("expected MalformedSegmentTable, have %v", err)
		}
	})
	t.Run("RunConsumesTooMany", func(t *testing.T) {
		_, err := reconstructFormat4(NewEditor(nil, 0), groups, []int{3, 0})
		if KindOf(err) != MalformedSegmentTable {
			t.Errorf("expected MalformedSegmentTable, have %v", err)
		}
	})
	t.Run("NegativeRun", func(t *testing.T) {
		_, err := reconstructFormat4(NewEditor(nil, 0), groups, []int{-1, 0})
		if KindOf(err) != MalformedSegmentTable {
			t.Errorf("expected MalformedSegmentTable, have %v", err)
		}
	})
	t.Run("BeyondBasicPlane", func(t *testing.T) {
		wide := []Segment{{Start: 0x10000, Length: 2, GID: 5}}
		_, err := reconstructFormat4(NewEditor(nil, 0), wide, []int{1, 0})
		if KindOf(err) != ReconstructionError {
			t.Errorf("expected ReconstructionError, have %v", err)
		}
	})
}

func TestCompactCmapThroughHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	groups := []Segment{
		{Start: 0x41, Length: 3, GID: 10},
		{Start: 0x61, Length: 3, GID: 40},
	}
	info := &FileInfo{
		Cmap12: Some(Cmap12Descriptor{Offset: 100, NGroups: 2}),
		Cmap4:  Some(Cmap4Descriptor{Offset: 200, Length: 64}),
		CompactCmap: &CompactCmap{Tables: []*GroupOfSegments{
			NewSegmentTable(PickSegmentFormat(groups), groups),
			NewRunTable([]int{2, 0}),
		}},
	}
	b, err := EncodeHeader(info)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseHeader(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompactCmap == nil || got.CompactCmap.Format4 == nil {
		t.Fatal("expected a synthesized format-4 subtable")
	}
	if g := got.CompactCmap.Groups(); g == nil || len(g.Segments) != 2 {
		t.Fatalf("expected 2 character-map groups, have %v", g)
	}
	f4 := got.CompactCmap.Format4
	if f4.Segments[0].StartCode != 0x41 || f4.Segments[0].EndCode != 0x63 {
		t.Errorf("expected merged segment 0x41…0x63, have %#x…%#x",
			f4.Segments[0].StartCode, f4.Segments[0].EndCode)
	}
	if len(f4.GlyphIDArray) != 35 {
		t.Errorf("expected 35 glyph ids, have %d", len(f4.GlyphIDArray))
	}
}

func TestCompactCmapWithoutSubtableLocations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// Without the subtable locations the tables stay raw and the parse
	// records a warning.
	info := &FileInfo{
		CompactCmap: &CompactCmap{Tables: []*GroupOfSegments{
			NewSegmentTable(FormatPlain32, []Segment{{Start: 0x41, Length: 1, GID: 7}}),
			NewRunTable([]int{1, 0}),
		}},
	}
	b, err := EncodeHeader(info)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseHeader(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompactCmap == nil || len(got.CompactCmap.Tables) != 2 {
		t.Fatal("expected both tables to survive raw")
	}
	if got.CompactCmap.Format4 != nil {
		t.Error("expected no synthesized subtable without location tags")
	}
	if len(got.Warnings()) == 0 {
		t.Error("expected a warning about the missing subtable locations")
	}
}
