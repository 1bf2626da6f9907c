package bsac

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// headerBytes builds a header by hand: 4 tags, payloads starting at
// 14+4*8 = 46.
func headerBytes() []byte {
	b := make([]byte, 93)
	copy(b, "BSAC")
	putU32(b, 4, 93) // head size = total length
	putU32(b, 8, 1)  // version
	putU16(b, 12, 4) // tag count
	copy(b[14:], "GLOF")
	putU32(b, 18, 0)
	copy(b[22:], "GLCN")
	putU32(b, 26, 4)
	copy(b[30:], "TYPE")
	putU32(b, 34, 6)
	copy(b[38:], "SHA1")
	putU32(b, 42, 7)
	putU32(b, 46, 0x11223344)
	putU16(b, 50, 0x0102)
	b[52] = 1
	copy(b[53:], strings.Repeat("a", 40))
	return b
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	info, err := ParseHeader(headerBytes(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if info.HeadSize != 93 || info.Version != 1 {
		t.Errorf("expected head size 93 and version 1, have %d and %d",
			info.HeadSize, info.Version)
	}
	if v := info.GlyphDataOffset.Or(0); v != 0x11223344 {
		t.Errorf("expected glyph data offset 0x11223344, have %#x", v)
	}
	if v := info.GlyphCount.Or(0); v != 0x0102 {
		t.Errorf("expected glyph count 0x0102, have %#x", v)
	}
	if v, ok := info.IsTrueType.Unwrap(); !ok || !v {
		t.Errorf("expected TrueType flag to be set")
	}
	if v := info.Fingerprint.Or(""); v != strings.Repeat("a", 40) {
		t.Errorf("unexpected fingerprint %q", v)
	}
	if info.LocaOffset.IsSome() {
		t.Errorf("expected no location offset without its tag")
	}
	wantTags := []Tag{T("GLOF"), T("GLCN"), T("TYPE"), T("SHA1")}
	if diff := cmp.Diff(wantTags, info.Tags()); diff != "" {
		t.Errorf("tag order differs (-want +got):\n%s", diff)
	}
	if !info.HasTag(T("GLCN")) || info.HasTag(T("LCOF")) {
		t.Errorf("tag presence reported wrongly")
	}
	if len(info.Warnings()) != 0 {
		t.Errorf("expected no warnings, have %v", info.Warnings())
	}
}

func TestParseHeaderAtBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := append(make([]byte, 11), headerBytes()...)
	info, err := ParseHeader(b, 11)
	if err != nil {
		t.Fatal(err)
	}
	if v := info.GlyphDataOffset.Or(0); v != 0x11223344 {
		t.Errorf("expected glyph data offset 0x11223344 at base 11, have %#x", v)
	}
}

func TestParseHeaderPayloadOrderFree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	// Payloads need not follow tag-table order: GLOF's payload comes after
	// GLCN's although its tag entry comes first.
	b := make([]byte, 36)
	copy(b, "BSAC")
	putU32(b, 4, 36)
	putU32(b, 8, 1)
	putU16(b, 12, 2)
	copy(b[14:], "GLOF")
	putU32(b, 18, 2)
	copy(b[22:], "GLCN")
	putU32(b, 26, 0)
	putU16(b, 30, 7)
	putU32(b, 32, 0x99)
	info, err := ParseHeader(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := info.GlyphDataOffset.Or(0); v != 0x99 {
		t.Errorf("expected glyph data offset 0x99, have %#x", v)
	}
	if v := info.GlyphCount.Or(0); v != 7 {
		t.Errorf("expected glyph count 7, have %d", v)
	}
}

func TestParseHeaderRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	t.Run("BadMagic", func(t *testing.T) {
		b := headerBytes()
		copy(b, "XXXX")
		if _, err := ParseHeader(b, 0); KindOf(err) != BadMagic {
			t.Errorf("expected BadMagic, have %v", err)
		}
	})
	t.Run("UnsupportedVersion", func(t *testing.T) {
		b := headerBytes()
		putU32(b, 8, 2)
		if _, err := ParseHeader(b, 0); KindOf(err) != UnsupportedVersion {
			t.Errorf("expected UnsupportedVersion, have %v", err)
		}
	})
	t.Run("UnknownTag", func(t *testing.T) {
		b := headerBytes()
		copy(b[30:], "ZZZZ")
		_, err := ParseHeader(b, 0)
		if KindOf(err) != UnknownTag {
			t.Fatalf("expected UnknownTag, have %v", err)
		}
		if e, ok := err.(Error); !ok || e.Tag != T("ZZZZ") {
			t.Errorf("expected the error to carry tag ZZZZ, have %v", err)
		}
	})
	t.Run("Truncated", func(t *testing.T) {
		b := headerBytes()[:20]
		if _, err := ParseHeader(b, 0); KindOf(err) != OutOfBounds {
			t.Errorf("expected OutOfBounds, have %v", err)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		if _, err := ParseHeader(nil, 0); KindOf(err) != OutOfBounds {
			t.Errorf("expected OutOfBounds for empty input, have %v", err)
		}
	})
}

func TestParseHeaderHeadSizeWarning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	b := headerBytes()
	putU32(b, 4, 10) // head size claims to end inside the tag table
	info, err := ParseHeader(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Warnings()) != 1 {
		t.Fatalf("expected one warning, have %v", info.Warnings())
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.bsac")
	defer teardown()
	//
	groups := []Segment{
		{Start: 0x30, Length: 10, GID: 1},
		{Start: 0x41, Length: 26, GID: 11},
		{Start: 0x61, Length: 26, GID: 37},
	}
	info := &FileInfo{
		GlyphDataOffset: Some(uint32(0x1000)),
		GlyphCount:      Some(uint16(500)),
		LocaOffset:      Some(uint32(0x2000)),
		LocaWidth:       Some(uint8(3)),
		HMtxOffset:      Some(uint32(0x3000)),
		HMetricCount:    Some(uint16(250)),
		VMtxOffset:      Some(uint32(0x4000)),
		VMetricCount:    Some(uint16(10)),
		IsTrueType:      Some(false),
		Cmap12:          Some(Cmap12Descriptor{Offset: 0x5000, NGroups: 3}),
		Cmap4:           Some(Cmap4Descriptor{Offset: 0x6000, Length: 120}),
		Charset: Some(CharsetDescriptor{
			Offset: 0x7000,
			Ranges: NewRangeTable(FormatRangesAlt, []Range{{First: 1, NLeft: 404}}),
		}),
		Fingerprint: Some(strings.Repeat("0f", 20)),
		CompactCmap: &CompactCmap{Tables: []*GroupOfSegments{
			NewSegmentTable(PickSegmentFormat(groups), groups),
			NewRunTable([]int{1, 2, 0}),
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
	if got.HeadSize != int32(len(b)) {
		t.Errorf("expected head size %d, have %d", len(b), got.HeadSize)
	}
	if len(got.Tags()) != len(headerTags) {
		t.Errorf("expected all %d tags, have %d", len(headerTags), len(got.Tags()))
	}
	if v := got.GlyphDataOffset.Or(0); v != 0x1000 {
		t.Errorf("glyph data offset: have %#x", v)
	}
	if v := got.GlyphCount.Or(0); v != 500 {
		t.Errorf("glyph count: have %d", v)
	}
	if v := got.LocaOffset.Or(0); v != 0x2000 {
		t.Errorf("location offset: have %#x", v)
	}
	if v := got.LocaWidth.Or(0); v != 3 {
		t.Errorf("location width: have %d", v)
	}
	if v := got.HMtxOffset.Or(0); v != 0x3000 {
		t.Errorf("hmtx offset: have %#x", v)
	}
	if v := got.HMetricCount.Or(0); v != 250 {
		t.Errorf("hmetric count: have %d", v)
	}
	if v := got.VMtxOffset.Or(0); v != 0x4000 {
		t.Errorf("vmtx offset: have %#x", v)
	}
	if v := got.VMetricCount.Or(0); v != 10 {
		t.Errorf("vmetric count: have %d", v)
	}
	if v, ok := got.IsTrueType.Unwrap(); !ok || v {
		t.Errorf("expected CFF flavor, have %v", got.IsTrueType)
	}
	if d := got.Cmap12.Or(Cmap12Descriptor{}); d.Offset != 0x5000 || d.NGroups != 3 {
		t.Errorf("cmap12 descriptor: have %+v", d)
	}
	if d := got.Cmap4.Or(Cmap4Descriptor{}); d.Offset != 0x6000 || d.Length != 120 {
		t.Errorf("cmap4 descriptor: have %+v", d)
	}
	if v := got.Fingerprint.Or(""); v != strings.Repeat("0f", 20) {
		t.Errorf("fingerprint: have %q", v)
	}
	wantCharset, _ := info.Charset.Unwrap()
	gotCharset, _ := got.Charset.Unwrap()
	if gotCharset.Offset != wantCharset.Offset {
		t.Errorf("charset offset: have %#x", gotCharset.Offset)
	}
	if diff := cmp.Diff(wantCharset.Ranges, gotCharset.Ranges); diff != "" {
		t.Errorf("charset ranges differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(info.CompactCmap.Tables, got.CompactCmap.Tables); diff != "" {
		t.Errorf("character-map tables differ (-want +got):\n%s", diff)
	}
	if got.CompactCmap.Format4 == nil {
		t.Error("expected a synthesized format-4 subtable")
	}
}
