package bsac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGOSDecodePlain32(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := make([]byte, 3+24)
	b[0] = FormatPlain32
	putU16(b, 1, 2)
	putU32(b, 3, 0x10000)
	putU32(b, 7, 3)
	putU32(b, 11, 0x20000)
	putU32(b, 15, 0xffff0000)
	putU32(b, 19, 1)
	putU32(b, 23, 42)
	g, err := readGOS(NewEditor(b, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := &GroupOfSegments{Format: FormatPlain32, Segments: []Segment{
		{Start: 0x10000, Length: 3, GID: 0x20000},
		{Start: 0xffff0000, Length: 1, GID: 42},
	}}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("decoded table differs (-want +got):\n%s", diff)
	}
}

func TestGOSDecodeRunsWithEscape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// Categories 2,0,1,<escape>,1 with extra value 7 for the escape.
	b := []byte{FormatRuns, 0, 5, 0x87, 0x40, 0x07}
	g, err := readGOS(NewEditor(b, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := &GroupOfSegments{Format: FormatRuns, Runs: []int{2, 0, 1, 7, 1}}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("decoded table differs (-want +got):\n%s", diff)
	}
}

func TestGOSDecodeDeltaByte(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// First group escapes start (0x41) and glyph (10), second group stores
	// plain deltas. Start and glyph columns accumulate.
	b := []byte{FormatDeltaByte, 0, 2, 0xf7, 0x69, 0x14, 0x10, 0xa0}
	g, err := readGOS(NewEditor(b, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := &GroupOfSegments{Format: FormatDeltaByte, Segments: []Segment{
		{Start: 0x41, Length: 2, GID: 10},
		{Start: 0x44, Length: 1, GID: 11},
	}}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("decoded table differs (-want +got):\n%s", diff)
	}
}

func TestGOSDecodeDelta24(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// Record layout is 5+3+16 bits; glyph ids travel verbatim.
	b := []byte{FormatDelta24, 0, 2,
		0xfa, 0x12, 0x34, // start escaped, length 2, gid 0x1234
		0x1f, 0x00, 0x05, // start delta 3, length escaped, gid 5
		0x32, 0x00, 0x00, 0x70, // extras 0x2000 and 7
	}
	g, err := readGOS(NewEditor(b, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := &GroupOfSegments{Format: FormatDelta24, Segments: []Segment{
		{Start: 0x2000, Length: 2, GID: 0x1234},
		{Start: 0x2003, Length: 7, GID: 5},
	}}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("decoded table differs (-want +got):\n%s", diff)
	}
}

func TestGOSDecodeRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	for _, format := range []uint8{FormatRanges, FormatRangesAlt} {
		b := []byte{format, 0, 2, 0xfa, 0x29, 0x12, 0x00}
		g, err := readGOS(NewEditor(b, 0))
		if err != nil {
			t.Fatalf("format %d: %v", format, err)
		}
		want := &GroupOfSegments{Format: format, Ranges: []Range{
			{First: 0x20, NLeft: 2},
			{First: 0x25, NLeft: 3},
		}}
		if diff := cmp.Diff(want, g); diff != "" {
			t.Errorf("format %d differs (-want +got):\n%s", format, diff)
		}
	}
}

func TestGOSRoundTrips(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	segments := []Segment{
		{Start: 0x4e00, Length: 20, GID: 1},
		{Start: 0x4e20, Length: 1, GID: 700},
		{Start: 0x0020, Length: 5, GID: 650}, // start goes down, negative delta
		{Start: 0x0100, Length: 9, GID: 3},
	}
	tables := []*GroupOfSegments{
		NewSegmentTable(FormatPlain32, segments),
		NewSegmentTable(FormatDeltaByte, segments),
		NewSegmentTable(FormatDelta24, segments),
		NewRunTable([]int{1, 1, 4, 2, 0}),
		NewRangeTable(FormatRanges, []Range{{First: 1, NLeft: 0}, {First: 391, NLeft: 2}}),
		NewRangeTable(FormatRangesAlt, []Range{{First: 60000, NLeft: 9}, {First: 2, NLeft: 1}}),
	}
	for _, table := range tables {
		size, err := encodedSize(table)
		if err != nil {
			t.Fatalf("format %d: %v", table.Format, err)
		}
		b := make([]byte, size)
		ed := NewEditor(b, 0)
		if err := writeGOS(ed, table); err != nil {
			t.Fatalf("format %d: %v", table.Format, err)
		}
		if ed.Tell() != size {
			t.Errorf("format %d: expected %d encoded bytes, wrote %d", table.Format, size, ed.Tell())
		}
		got, err := readGOS(NewEditor(b, 0))
		if err != nil {
			t.Fatalf("format %d: %v", table.Format, err)
		}
		if diff := cmp.Diff(table, got); diff != "" {
			t.Errorf("format %d round-trip differs (-want +got):\n%s", table.Format, diff)
		}
	}
}

func TestGOSDelta24RejectsWideGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	table := NewSegmentTable(FormatDelta24, []Segment{{Start: 1, Length: 1, GID: 0x10000}})
	err := writeGOS(NewEditor(make([]byte, 16), 0), table)
	if KindOf(err) != InvalidArgument {
		t.Errorf("expected InvalidArgument for 17-bit glyph id, have %v", err)
	}
}

func TestGOSUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := []byte{9, 0, 0}
	if _, err := readGOS(NewEditor(b, 0)); KindOf(err) != MalformedSegmentTable {
		t.Errorf("expected MalformedSegmentTable for format 9, have %v", err)
	}
}

func TestGOSTruncated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := []byte{FormatPlain32, 0x00, 0x64} // 100 groups announced, none present
	if _, err := readGOS(NewEditor(b, 0)); KindOf(err) != OutOfBounds {
		t.Errorf("expected OutOfBounds for truncated table, have %v", err)
	}
}

func TestPickSegmentFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	dense := []Segment{
		{Start: 0x41, Length: 1, GID: 1},
		{Start: 0x42, Length: 1, GID: 2},
		{Start: 0x43, Length: 1, GID: 3},
	}
	if format := PickSegmentFormat(dense); format != FormatDeltaByte {
		t.Errorf("expected format %d for dense segments, have %d", FormatDeltaByte, format)
	}
	wide := []Segment{{Start: 0, Length: 1, GID: 0x10000}}
	if format := PickSegmentFormat(wide); format == FormatDelta24 {
		t.Errorf("expected 17-bit glyph id to rule out format %d", FormatDelta24)
	}
	// Whatever wins must round-trip.
	for _, segments := range [][]Segment{dense, wide} {
		table := NewSegmentTable(PickSegmentFormat(segments), segments)
		size, err := encodedSize(table)
		if err != nil {
			t.Fatal(err)
		}
		b := make([]byte, size)
		if err := writeGOS(NewEditor(b, 0), table); err != nil {
			t.Fatal(err)
		}
		got, err := readGOS(NewEditor(b, 0))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(table, got); diff != "" {
			t.Errorf("picked format %d does not round-trip (-want +got):\n%s", table.Format, diff)
		}
	}
}
