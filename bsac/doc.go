/*
Package bsac reads and edits compact base-font headers (magic 'BSAC').

A base font is a stripped-down font binary, prefixed with a small header,
that a client can render immediately and later patch glyph-by-glyph as
character data arrives. The header is a table of contents of 4-byte tags,
each locating a short payload that describes where the interesting parts
of the font payload live: glyph data, glyph locations, metrics tables,
and a compressed character map. Intended audience for this package are:

▪︎ the delivery pipeline that fetches base fonts and patches glyph data
into them (it needs the decoded header record and the in-place editing
calls)

▪︎ build tooling that produces base fonts from complete TTF/OTF files
(it needs the header encoder; see the basegen sister package)

▪︎ diagnostic tools that inspect base-font blobs

Package `bsac` does not interpret the font payload beyond the byte
positions the header names. It will not rasterize glyphs, shape text, or
validate the payload as a font; clients needing a font view of the
payload should hand it to a font library (the root package does so).

The compressed character map deserves a word: it is a family of six
bit-packed "group of segments" encodings with a nibble-aligned escape
stream for values that overflow their packed field. Decoding one of
these is cheap and linear, but the bit bookkeeping is easy to get
wrong, so the decoding path is deliberately narrow: every table runs
through the same escape-substitution and cumulative-sum machinery, and
any inconsistency aborts the parse instead of guessing.

# Status

Complete for header format version 1. There is no version 2; should one
appear, ParseHeader is the single place that rejects it.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bsac

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.bsac'
func tracer() tracing.Trace {
	return tracing.Select("font.bsac")
}
