package bsac

import "fmt"

// Format4Segment is one segment of a synthesized format-4 character map:
// codepoints StartCode…EndCode map either through IDDelta (added to the
// codepoint modulo 65536) or, when IDRangeOffset is non-zero, through the
// glyph-id array it points into.
type Format4Segment struct {
	StartCode     uint16
	EndCode       uint16
	IDDelta       uint16
	IDRangeOffset uint16
}

// Format4Table is an in-memory format-4 character-map subtable,
// synthesized from compact segment data. Segments follow the order of the
// run table; a trailing run of length zero becomes the 0xffff sentinel
// segment the format requires.
type Format4Table struct {
	Segments     []Format4Segment
	GlyphIDArray []uint16
}

// CompactCmap is a decoded compact character map: its segment tables in
// file order, plus a synthesized format-4 subtable when the header also
// declared both character-map subtable locations and the second table is
// a run table.
type CompactCmap struct {
	Tables  []*GroupOfSegments
	Format4 *Format4Table
}

// Groups returns the leading table when it carries character-map
// segments, or nil.
func (cc *CompactCmap) Groups() *GroupOfSegments {
	if len(cc.Tables) > 0 && cc.Tables[0].Segments != nil {
		return cc.Tables[0]
	}
	return nil
}

// readCompactCmap decodes the compact character-map payload: a table
// count byte followed by that many segment tables. Reconstruction of the
// format-4 subtable needs the subtable locations from other header tags,
// which is why those tags must precede this one in the tag table.
func readCompactCmap(ed *Editor, info *FileInfo) error {
	count, err := ed.GetUint8()
	if err != nil {
		return err
	}
	tables := make([]*GroupOfSegments, 0, count)
	for i := 0; i < int(count); i++ {
		g, err := readGOS(ed)
		if err != nil {
			return err
		}
		tables = append(tables, g)
	}
	cc := &CompactCmap{Tables: tables}
	if len(tables) == 2 && tables[1].Format == FormatRuns && tables[0].Segments != nil {
		if info.Cmap12.IsSome() && info.Cmap4.IsSome() {
			f4, err := reconstructFormat4(ed, tables[0].Segments, tables[1].Runs)
			if err != nil {
				return err
			}
			cc.Format4 = f4
		} else {
			info.warn(T("CCMP"), ed.Tell(),
				"run table present but subtable locations missing, keeping tables raw")
		}
	}
	info.CompactCmap = cc
	return nil
}

// reconstructFormat4 merges character-map groups back into the format-4
// segments they were split from. Each run table entry tells how many
// groups one format-4 segment became: one group keeps its delta mapping,
// several groups turn into a glyph-id-array segment with zeros filling
// the codepoint gaps between them. A trailing zero entry stands for the
// sentinel segment.
func reconstructFormat4(ed *Editor, groups []Segment, runs []int) (*Format4Table, error) {
	table := &Format4Table{Segments: make([]Format4Segment, 0, len(runs))}
	gi := 0
	for i, v := range runs {
		switch {
		case v < 0:
			return nil, Error{
				Kind:   MalformedSegmentTable,
				Issue:  fmt.Sprintf("negative run length %d", v),
				Offset: ed.Tell(),
			}
		case v == 0:
			if i != len(runs)-1 {
				return nil, Error{
					Kind:   MalformedSegmentTable,
					Issue:  "run of length zero before the final entry",
					Offset: ed.Tell(),
				}
			}
			table.Segments = append(table.Segments, Format4Segment{
				StartCode: 0xffff,
				EndCode:   0xffff,
				IDDelta:   1,
			})
		case gi+v > len(groups):
			return nil, Error{
				Kind:   MalformedSegmentTable,
				Issue:  fmt.Sprintf("run table consumes %d groups, table has %d", gi+v, len(groups)),
				Offset: ed.Tell(),
			}
		case v == 1:
			g := groups[gi]
			gi++
			seg, err := deltaSegment(ed, g)
			if err != nil {
				return nil, err
			}
			table.Segments = append(table.Segments, seg)
		default:
			seg, err := arraySegment(ed, table, groups[gi:gi+v], i, len(runs))
			if err != nil {
				return nil, err
			}
			gi += v
			table.Segments = append(table.Segments, seg)
		}
	}
	return table, nil
}

// deltaSegment turns a single group into a format-4 segment mapping via
// idDelta arithmetic.
func deltaSegment(ed *Editor, g Segment) (Format4Segment, error) {
	start := int64(g.Start)
	end := start + int64(g.Length) - 1
	if err := checkBasicPlane(ed, start, end); err != nil {
		return Format4Segment{}, err
	}
	delta := (int64(g.GID) - start + 0x10000) & 0xffff
	return Format4Segment{
		StartCode: uint16(start),
		EndCode:   uint16(end),
		IDDelta:   uint16(delta),
	}, nil
}

// arraySegment spans several groups with one glyph-id-array segment:
// every codepoint from the first group's start to the last group's end
// gets an entry, zero where no group covers it.
func arraySegment(ed *Editor, table *Format4Table, groups []Segment, entry, total int) (Format4Segment, error) {
	start := int64(groups[0].Start)
	last := groups[len(groups)-1]
	end := int64(last.Start) + int64(last.Length) - 1
	if err := checkBasicPlane(ed, start, end); err != nil {
		return Format4Segment{}, err
	}
	seg := Format4Segment{
		StartCode:     uint16(start),
		EndCode:       uint16(end),
		IDRangeOffset: uint16(2 * (len(table.GlyphIDArray) - entry + total)),
	}
	appended := 0
	g := 0
	for cp := start; cp <= end; cp++ {
		for g < len(groups) && cp >= int64(groups[g].Start)+int64(groups[g].Length) {
			g++
		}
		var gid int64
		if g < len(groups) && cp >= int64(groups[g].Start) {
			gid = int64(groups[g].GID) + cp - int64(groups[g].Start)
			if gid > 0xffff {
				return Format4Segment{}, Error{
					Kind:   ReconstructionError,
					Issue:  fmt.Sprintf("glyph id %d beyond uint16 in merged segment", gid),
					Offset: ed.Tell(),
				}
			}
		}
		table.GlyphIDArray = append(table.GlyphIDArray, uint16(gid))
		appended++
	}
	if expected := int(end - start + 1); appended != expected {
		return Format4Segment{}, Error{
			Kind:   ReconstructionError,
			Issue:  fmt.Sprintf("merged segment produced %d glyph ids, expected %d", appended, expected),
			Offset: ed.Tell(),
		}
	}
	return seg, nil
}

func checkBasicPlane(ed *Editor, start, end int64) error {
	if end < start || end > 0xffff {
		return Error{
			Kind:   ReconstructionError,
			Issue:  fmt.Sprintf("codepoints %#x…%#x do not form a basic-plane segment", start, end),
			Offset: ed.Tell(),
		}
	}
	return nil
}
