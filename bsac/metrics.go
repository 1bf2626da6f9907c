package bsac

// Accessors for the metrics and location tables the header points at.
// They expect an editor whose base is the font payload start, take table
// offsets as the header reports them, and position the cursor themselves.

// SetSideBearing writes the side bearing of one glyph into a metrics
// table (horizontal or vertical, the layout is the same). The table
// stores metricCount long records of advance plus bearing, 4 bytes each,
// followed by bearing-only records of 2 bytes for the remaining glyphs.
func (ed *Editor) SetSideBearing(tableStart uint32, metricCount, glyphID int, value int16) error {
	if glyphID < metricCount {
		ed.Seek(int(tableStart) + glyphID*4 + 2)
	} else {
		ed.Seek(int(tableStart) + metricCount*4 + (glyphID-metricCount)*2)
	}
	return ed.SetInt16(value)
}

// GlyphLocation reads a glyph's entry from the location table at
// tableStart, whose entries are width bytes wide.
func (ed *Editor) GlyphLocation(tableStart uint32, width, glyphID int) (uint32, error) {
	ed.Seek(int(tableStart) + glyphID*width)
	return ed.GetOffset(width)
}

// SetGlyphLocation writes a glyph's entry into the location table at
// tableStart, whose entries are width bytes wide.
func (ed *Editor) SetGlyphLocation(tableStart uint32, width, glyphID int, value uint32) error {
	ed.Seek(int(tableStart) + glyphID*width)
	return ed.SetOffset(width, value)
}
