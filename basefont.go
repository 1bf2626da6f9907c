/*
Package basefont handles base fonts: compact renditions of OpenType fonts
for incremental font transfer.

A base font is a regular SFNT stream whose glyph outlines and side
bearings have been stripped, prepended with a small binary header that
records where the stripped data lives. We stick to the following
definitions:

▪︎ The "header" is the prepended metadata block. Package bsac decodes
and encodes it.

▪︎ The "payload" is everything behind the header: the gutted SFNT
stream. Byte positions recorded in the header are relative to the
payload start.

▪︎ A "base font" is header plus payload. Clients render placeholder
text from it immediately and patch arriving glyph data into the payload
as it streams in.

Package basegen produces base fonts from complete OpenType fonts.

# Status

Font collections (*.ttc) are not supported, a base font always wraps a
single font.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package basefont

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/basefont/bsac"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'basefont'
func tracer() tracing.Trace {
	return tracing.Select("basefont")
}

// BaseFont is an in-memory base font: the raw blob, the decoded header
// record, and a best-effort SFNT view of the payload.
type BaseFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data, header included
	Info     *bsac.FileInfo
	SFNT     *sfnt.Font // payload view; nil when the stripped payload defeats parsing
}

// LoadBaseFont loads a base font from a file.
func LoadBaseFont(path string) (*BaseFont, error) {
	bytez, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseBaseFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = path
	if f.Fontname == "" {
		f.Fontname = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// ParseBaseFont decodes a base font from memory. The header must decode
// cleanly. The payload is handed to golang.org/x/image/font/sfnt for a
// convenience view; base fonts are intentionally gutted, so a payload
// that resists parsing merely leaves the view nil.
func ParseBaseFont(data []byte) (*BaseFont, error) {
	f := &BaseFont{Binary: data}
	info, err := bsac.ParseHeader(data, 0)
	if err != nil {
		return nil, err
	}
	f.Info = info
	payload := data[info.HeadSize:]
	sf, err := sfnt.Parse(payload)
	if err != nil {
		tracer().Infof("base font payload resists SFNT parsing: %v", err)
		return f, nil
	}
	f.SFNT = sf
	if name, err := sf.Name(nil, sfnt.NameIDFull); err == nil {
		f.Fontname = name
		tracer().Debugf("loaded and parsed base font %s", name)
	}
	return f, nil
}

// Payload returns the font data behind the header.
func (f *BaseFont) Payload() []byte {
	return f.Binary[f.Info.HeadSize:]
}

// editor returns a byte editor positioned at the payload base, so that
// header-recorded offsets address directly.
func (f *BaseFont) editor() *bsac.Editor {
	return bsac.NewEditor(f.Binary, int(f.Info.HeadSize))
}

func missingTag(tag string, what string) error {
	return bsac.Error{
		Kind:   bsac.InvalidArgument,
		Tag:    bsac.T(tag),
		Issue:  "header carries no " + what,
		Offset: -1,
	}
}

// GlyphIndex returns the glyph id a codepoint maps to, searching the
// compact character map's group list. Codepoints the base font does not
// cover map to glyph 0.
func (f *BaseFont) GlyphIndex(r rune) uint32 {
	groups := f.groups()
	n := len(groups)
	if n == 0 {
		return 0
	}
	c := uint32(r)
	i := sort.Search(n, func(i int) bool {
		return groups[i].Start+groups[i].Length > c
	})
	if i == n || groups[i].Start > c {
		return 0
	}
	return groups[i].GID + (c - groups[i].Start)
}

// Coverage counts the codepoints the compact character map maps.
func (f *BaseFont) Coverage() int {
	total := 0
	for _, g := range f.groups() {
		total += int(g.Length)
	}
	return total
}

func (f *BaseFont) groups() []bsac.Segment {
	if f.Info == nil || f.Info.CompactCmap == nil {
		return nil
	}
	gos := f.Info.CompactCmap.Groups()
	if gos == nil {
		return nil
	}
	return gos.Segments
}

// GlyphLocation reads entry glyphID of the font's glyph location table,
// located through the header record.
func (f *BaseFont) GlyphLocation(glyphID int) (uint32, error) {
	if f.Info.LocaOffset.IsNone() || f.Info.LocaWidth.IsNone() {
		return 0, missingTag("LCOF", "glyph location table")
	}
	start, _ := f.Info.LocaOffset.Unwrap()
	width, _ := f.Info.LocaWidth.Unwrap()
	return f.editor().GlyphLocation(start, int(width), glyphID)
}

// SetGlyphLocation patches entry glyphID of the font's glyph location
// table.
func (f *BaseFont) SetGlyphLocation(glyphID int, location uint32) error {
	if f.Info.LocaOffset.IsNone() || f.Info.LocaWidth.IsNone() {
		return missingTag("LCOF", "glyph location table")
	}
	start, _ := f.Info.LocaOffset.Unwrap()
	width, _ := f.Info.LocaWidth.Unwrap()
	return f.editor().SetGlyphLocation(start, int(width), glyphID, location)
}

// SetSideBearing patches glyphID's left side bearing inside the
// horizontal metrics table.
func (f *BaseFont) SetSideBearing(glyphID int, value int16) error {
	if f.Info.HMtxOffset.IsNone() || f.Info.HMetricCount.IsNone() {
		return missingTag("HMOF", "horizontal metrics")
	}
	start, _ := f.Info.HMtxOffset.Unwrap()
	count, _ := f.Info.HMetricCount.Unwrap()
	return f.editor().SetSideBearing(start, int(count), glyphID, value)
}

// SetVerticalBearing patches glyphID's top side bearing inside the
// vertical metrics table.
func (f *BaseFont) SetVerticalBearing(glyphID int, value int16) error {
	if f.Info.VMtxOffset.IsNone() || f.Info.VMetricCount.IsNone() {
		return missingTag("VMOF", "vertical metrics")
	}
	start, _ := f.Info.VMtxOffset.Unwrap()
	count, _ := f.Info.VMetricCount.Unwrap()
	return f.editor().SetSideBearing(start, int(count), glyphID, value)
}
