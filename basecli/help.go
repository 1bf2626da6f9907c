package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "header", "tags", "tag":
		pterm.Info.Println("Header")
		pterm.Println(`
	A base font starts with a binary header. After the magic bytes,
	header size, version and tag count comes the tag table:
	+---------+---------------------------+
	| Tag     | Offset of the tag's data  |
	+---------+---------------------------+
	'header' prints the decoded record, 'tags' lists the tag table,
	'tag:<name>' explains a single entry, e.g. tag:GLOF
	`)
	case "cmap", "groups":
		pterm.Info.Println("Compact character map")
		pterm.Println(`
	The header carries the font's format-12 cmap groups in a packed
	encoding, plus a run-length table tying them to the font's
	format-4 segmentation:
	+-----------+-----------+--------------+
	| startCode | length    | startGlyphID |
	+-----------+-----------+--------------+
	'cmap' summarizes the tables, 'cmap:groups' lists every group.
	`)
	case "edit", "loca", "bearing", "vbearing", "write":
		pterm.Info.Println("Editing")
		pterm.Println(`
	Edits patch the payload in memory:
	loca:<glyph>            read a glyph's data location
	loca:<glyph>:<value>    patch a glyph's data location
	bearing:<glyph>:<value> patch a left side bearing
	vbearing:<glyph>:<value> patch a top side bearing
	write:<file>            save the blob (defaults to the loaded file)
	`)
	default:
		pterm.Info.Println("Base font CLI")
		pterm.Println(`
	header     print the decoded header record
	tags       list the header's tag table
	tag:<t>    explain one tag, e.g. tag:GLOF
	cmap       summarize the compact character map
	loca       read or patch glyph data locations
	bearing    patch side bearings (vbearing: vertical)
	write      save the edited blob
	quit       leave (or <ctrl>D)
	help:<cmd> details on a command
	`)
	}
}
