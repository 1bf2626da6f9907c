package basefont

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/basefont/basegen"
	"github.com/npillmayer/basefont/bsac"
	"github.com/npillmayer/basefont/internal/sfnttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeBaseFont(t *testing.T) *BaseFont {
	blob, _, err := basegen.Generate(sfnttest.TTF(false))
	if err != nil {
		t.Fatalf("cannot generate test base font: %v", err)
	}
	f, err := ParseBaseFont(blob)
	if err != nil {
		t.Fatalf("ParseBaseFont: %v", err)
	}
	return f
}

func TestParseBaseFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	f := makeBaseFont(t)
	if f.Info == nil {
		t.Fatalf("expected a decoded header record")
	}
	if !f.Info.IsTrueType.MustUnwrap() {
		t.Errorf("expected the TrueType flag to be set")
	}
	if n := f.Info.GlyphCount.MustUnwrap(); n != sfnttest.NumGlyphs {
		t.Errorf("glyph count = %d, want %d", n, sfnttest.NumGlyphs)
	}
	if len(f.Payload()) != len(f.Binary)-int(f.Info.HeadSize) {
		t.Errorf("payload length %d does not match blob minus header", len(f.Payload()))
	}
}

func TestGlyphIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	f := makeBaseFont(t)
	tests := []struct {
		r    rune
		want uint32
	}{
		{'A', 10},
		{'B', 11},
		{'C', 12},
		{'a', 40},
		{'c', 42},
		{'D', 0},     // between the two groups
		{'0', 0},     // before the first group
		{'z', 0},     // after the last group
		{0x10400, 0}, // beyond the basic plane
	}
	for _, tc := range tests {
		if got := f.GlyphIndex(tc.r); got != tc.want {
			t.Errorf("GlyphIndex(%#x) = %d, want %d", tc.r, got, tc.want)
		}
	}
	if cov := f.Coverage(); cov != 6 {
		t.Errorf("Coverage() = %d, want 6", cov)
	}
}

func TestLoadBaseFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	blob, _, err := basegen.Generate(sfnttest.TTF(false))
	if err != nil {
		t.Fatalf("cannot generate test base font: %v", err)
	}
	path := filepath.Join(t.TempDir(), "demo.base")
	if err = os.WriteFile(path, blob, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadBaseFont(path)
	if err != nil {
		t.Fatalf("LoadBaseFont: %v", err)
	}
	if f.Filepath != path {
		t.Errorf("Filepath = %q, want %q", f.Filepath, path)
	}
	if f.Fontname != "demo" {
		t.Errorf("Fontname = %q, want fallback to file name 'demo'", f.Fontname)
	}
}

func TestEditingPassthroughs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	f := makeBaseFont(t)
	loc, err := f.GlyphLocation(3)
	if err != nil {
		t.Fatalf("GlyphLocation: %v", err)
	}
	if loc != 75 { // leveled to the block's last halved value
		t.Errorf("GlyphLocation(3) = %d, want 75", loc)
	}
	if err = f.SetGlyphLocation(3, 99); err != nil {
		t.Fatalf("SetGlyphLocation: %v", err)
	}
	if loc, err = f.GlyphLocation(3); err != nil || loc != 99 {
		t.Errorf("GlyphLocation(3) = %d, %v after patching, want 99", loc, err)
	}
	if err = f.SetSideBearing(1, -7); err != nil {
		t.Fatalf("SetSideBearing: %v", err)
	}
	payload := f.Payload()
	hmtx := int(f.Info.HMtxOffset.MustUnwrap())
	if got := binary.BigEndian.Uint16(payload[hmtx+4+2:]); got != 0xfff9 {
		t.Errorf("bearing bytes = %#04x, want fff9", got)
	}
	if err = f.SetVerticalBearing(5, 3); err != nil {
		t.Fatalf("SetVerticalBearing: %v", err)
	}
	vmtx := int(f.Info.VMtxOffset.MustUnwrap())
	at := vmtx + 4*sfnttest.VMetricCount + 2*(5-sfnttest.VMetricCount)
	if got := binary.BigEndian.Uint16(payload[at:]); got != 3 {
		t.Errorf("vertical bearing = %d, want 3", got)
	}
}

func TestEditingWithoutTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	header, err := bsac.EncodeHeader(&bsac.FileInfo{})
	if err != nil {
		t.Fatal(err)
	}
	f, err := ParseBaseFont(header)
	if err != nil {
		t.Fatalf("ParseBaseFont: %v", err)
	}
	if f.SFNT != nil {
		t.Errorf("expected no SFNT view for an empty payload")
	}
	if _, err = f.GlyphLocation(0); bsac.KindOf(err) != bsac.InvalidArgument {
		t.Errorf("GlyphLocation error = %v, want InvalidArgument", err)
	}
	if err = f.SetSideBearing(0, 1); bsac.KindOf(err) != bsac.InvalidArgument {
		t.Errorf("SetSideBearing error = %v, want InvalidArgument", err)
	}
	if gid := f.GlyphIndex('A'); gid != 0 {
		t.Errorf("GlyphIndex without a character map = %d, want 0", gid)
	}
	if cov := f.Coverage(); cov != 0 {
		t.Errorf("Coverage without a character map = %d, want 0", cov)
	}
}

func TestParseBaseFontRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "basefont")
	defer teardown()
	//
	if _, err := ParseBaseFont([]byte("OTTO this is no base font")); bsac.KindOf(err) != bsac.BadMagic {
		t.Errorf("error = %v, want BadMagic", err)
	}
	if _, err := ParseBaseFont(nil); err == nil {
		t.Errorf("expected empty input to be rejected")
	}
}
