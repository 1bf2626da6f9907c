package fontload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a parsed scalable source font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
// If the font carries no usable full name, the file's base name stands in.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		name := filepath.Base(fontfile)
		f.Fontname = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if name, err := f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		f.Fontname = name
	}
	return f, nil
}

// Flavor tells the kind of outlines a font carries, "CFF" or "TrueType".
func (f *ScalableFont) Flavor() string {
	if len(f.Binary) >= 4 && bytes.Equal(f.Binary[:4], []byte("OTTO")) {
		return "CFF"
	}
	return "TrueType"
}

// NumGlyphs returns the glyph count of the font.
func (f *ScalableFont) NumGlyphs() int {
	return f.SFNT.NumGlyphs()
}
