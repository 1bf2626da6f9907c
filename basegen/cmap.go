package basegen

import (
	"fmt"

	"github.com/npillmayer/basefont/bsac"
)

// cmapData is everything the header needs to know about a source font's
// character map: the location of the format-12 group array and of the
// complete format-4 subtable, the groups themselves, and the run-length
// table tying the groups to the format-4 segmentation.
type cmapData struct {
	cm12   bsac.Cmap12Descriptor
	cm4    bsac.Cmap4Descriptor
	groups []bsac.Segment
	runs   []int
}

// readCmap inspects the cmap table and collects the format-12 and
// format-4 subtables. Fonts carrying only one of the two yield nil
// without error, the header then simply omits the character map tags.
func readCmap(ed *bsac.Editor, rec tableRecord) (*cmapData, error) {
	base := int(rec.offset)
	ed.Seek(base + 2)
	numTables, err := ed.GetUint16()
	if err != nil {
		return nil, err
	}
	var off4, off12 int
	for i := 0; i < int(numTables); i++ {
		ed.Seek(base + 4 + i*8 + 4)
		subtable, err := ed.GetUint32()
		if err != nil {
			return nil, err
		}
		ed.Seek(base + int(subtable))
		format, err := ed.GetUint16()
		if err != nil {
			return nil, err
		}
		switch {
		case format == 4 && off4 == 0:
			off4 = base + int(subtable)
		case format == 12 && off12 == 0:
			off12 = base + int(subtable)
		}
	}
	if off4 == 0 || off12 == 0 {
		tracer().Infof("cmap carries no format 4 + format 12 pair, header will omit it")
		return nil, nil
	}
	groups, nGroups, err := readGroups(ed, off12)
	if err != nil {
		return nil, err
	}
	starts, ends, length, err := readSegments(ed, off4)
	if err != nil {
		return nil, err
	}
	runs, err := synthesizeRuns(groups, starts, ends)
	if err != nil {
		return nil, err
	}
	return &cmapData{
		cm12:   bsac.Cmap12Descriptor{Offset: uint32(off12 + 16), NGroups: nGroups},
		cm4:    bsac.Cmap4Descriptor{Offset: uint32(off4), Length: length},
		groups: groups,
		runs:   runs,
	}, nil
}

// readGroups reads the sequential map groups of a format-12 subtable at
// position sub.
func readGroups(ed *bsac.Editor, sub int) ([]bsac.Segment, uint32, error) {
	ed.Seek(sub + 12)
	nGroups, err := ed.GetUint32()
	if err != nil {
		return nil, 0, err
	}
	groups := make([]bsac.Segment, 0, nGroups)
	for i := 0; i < int(nGroups); i++ {
		start, err := ed.GetUint32()
		if err != nil {
			return nil, 0, err
		}
		end, err := ed.GetUint32()
		if err != nil {
			return nil, 0, err
		}
		gid, err := ed.GetUint32()
		if err != nil {
			return nil, 0, err
		}
		if end < start {
			return nil, 0, errFontFormat(fmt.Sprintf("cmap group %d runs backwards: %#x…%#x", i, start, end))
		}
		groups = append(groups, bsac.Segment{Start: start, Length: end - start + 1, GID: gid})
	}
	return groups, nGroups, nil
}

// readSegments reads the start and end codes of a format-4 subtable at
// position sub, plus the subtable's total length.
func readSegments(ed *bsac.Editor, sub int) (starts, ends []uint32, length uint32, err error) {
	ed.Seek(sub + 2)
	len16, err := ed.GetUint16()
	if err != nil {
		return nil, nil, 0, err
	}
	ed.Seek(sub + 6)
	segCountX2, err := ed.GetUint16()
	if err != nil {
		return nil, nil, 0, err
	}
	segCount := int(segCountX2) / 2
	ed.Seek(sub + 14)
	ends, err = readCodes(ed, segCount)
	if err != nil {
		return nil, nil, 0, err
	}
	if err = ed.Skip(2); err != nil { // reservedPad
		return nil, nil, 0, err
	}
	starts, err = readCodes(ed, segCount)
	if err != nil {
		return nil, nil, 0, err
	}
	return starts, ends, uint32(len16), nil
}

func readCodes(ed *bsac.Editor, count int) ([]uint32, error) {
	return bsac.GetArrayOf(ed, count, func(ed *bsac.Editor) (uint32, error) {
		c, err := ed.GetUint16()
		return uint32(c), err
	})
}

// synthesizeRuns counts, for every format-4 segment, the format-12
// groups it covers. Every group must nest completely inside one segment,
// otherwise the two subtables describe different character maps and the
// compact encoding cannot tie them together. The 0xffff sentinel segment
// counts as zero. Groups beyond the basic plane are left unconsumed,
// format 4 cannot reach them anyway.
func synthesizeRuns(groups []bsac.Segment, starts, ends []uint32) ([]int, error) {
	runs := make([]int, 0, len(starts))
	gi := 0
	for i := range starts {
		if starts[i] == 0xffff && ends[i] == 0xffff {
			if i != len(starts)-1 {
				return nil, errFontFormat(fmt.Sprintf("cmap sentinel segment at %d of %d", i, len(starts)))
			}
			runs = append(runs, 0)
			continue
		}
		count := 0
		for gi < len(groups) {
			gStart := groups[gi].Start
			gEnd := gStart + groups[gi].Length - 1
			if gStart > ends[i] {
				break
			}
			if gStart < starts[i] || gEnd > ends[i] {
				return nil, errFontFormat(fmt.Sprintf(
					"cmap subtables disagree: group %#x…%#x does not nest in segment %#x…%#x",
					gStart, gEnd, starts[i], ends[i]))
			}
			count++
			gi++
		}
		if count == 0 {
			return nil, errFontFormat(fmt.Sprintf("cmap segment %#x…%#x covers no group", starts[i], ends[i]))
		}
		runs = append(runs, count)
	}
	return runs, nil
}
