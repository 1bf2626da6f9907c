/*
Package basegen produces base fonts from OpenType source fonts.

A base font is a font file stripped of its glyph outlines and side
bearings, prepended with a compact header (package bsac) that records
where the stripped data lives. Clients fetch the small base font first,
render placeholder text immediately, and stream glyph data back into the
reserved holes as it arrives.

Generation works on the raw SFNT byte level rather than through a font
parsing library: tables are located through the font directory and then
patched in place, so every byte the source font carries outside the
stripped regions survives untouched.

For TrueType flavored fonts the glyf table is zeroed and loca is leveled
in blocks of 64 entries, each entry replaced by the block's last original
value. Leveling makes runs of entries identical, which compresses well,
while keeping every block's total size intact so that arriving glyph data
can be written back without relocation. CFF flavored fonts get the same
treatment for the CharStrings INDEX, except that blocks fill downward to
the block's first value, and offsets are rewritten through the INDEX's
own offset size, which caps a block's span at what the encoding can
express.

# Status

Work in progress. CFF2 and variable font tables are not handled; fonts
carrying them pass through with their outlines stripped but their
variation data intact.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package basegen

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'basefont.gen'.
func tracer() tracing.Trace {
	return tracing.Select("basefont.gen")
}
