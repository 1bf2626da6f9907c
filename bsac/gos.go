package bsac

import "fmt"

// Segment table formats. Every encoded table starts with one of these
// format bytes, followed by a uint16 group count and the packed groups.
// Packed fields that cannot hold their value store the field's escape
// marker instead and push the true value onto a trailing nibble stream;
// fields marked "cumulative" store the difference to the previous group
// and are summed up after escape substitution.
const (
	// FormatDeltaByte packs one byte per group: 3 bits start delta
	// (cumulative), 2 bits length, 3 bits glyph delta (cumulative).
	FormatDeltaByte uint8 = 2
	// FormatDelta24 packs 24 bits per group: 5 bits start delta
	// (cumulative), 3 bits length, 16 bits glyph id (verbatim).
	FormatDelta24 uint8 = 3
	// FormatRuns packs 2-bit run categories, four per byte, high bits
	// first. Categories are absolute, category 3 escapes.
	FormatRuns uint8 = 4
	// FormatPlain32 stores three plain uint32 per group. No escapes.
	FormatPlain32 uint8 = 5
	// FormatRanges packs one byte per range: 5 bits first delta, 3 bits
	// nLeft delta, both cumulative.
	FormatRanges uint8 = 6
	// FormatRangesAlt shares the wire layout of FormatRanges. The two
	// format numbers distinguish charset flavors downstream; this package
	// keeps the distinction but decodes them identically.
	FormatRangesAlt uint8 = 7
)

// Segment is one decoded (start code, length, glyph id) group of a
// character-map table. A segment maps the length consecutive codepoints
// from Start to the glyph ids from GID.
type Segment struct {
	Start  uint32
	Length uint32
	GID    uint32
}

// Range is one decoded (first, nLeft) group of a charset table: a glyph
// run starting at First with NLeft further glyphs following.
type Range struct {
	First uint32
	NLeft uint32
}

// GroupOfSegments is one decoded segment table. Exactly one of Segments,
// Ranges and Runs is populated, keyed by Format.
type GroupOfSegments struct {
	Format   uint8
	Segments []Segment // formats 2, 3, 5
	Ranges   []Range   // formats 6, 7
	Runs     []int     // format 4
}

// Count returns the number of groups in the table.
func (g *GroupOfSegments) Count() int {
	switch g.Format {
	case FormatRuns:
		return len(g.Runs)
	case FormatRanges, FormatRangesAlt:
		return len(g.Ranges)
	}
	return len(g.Segments)
}

// NewSegmentTable wraps segments in a table of the given format, which
// must be one of FormatDeltaByte, FormatDelta24 or FormatPlain32.
func NewSegmentTable(format uint8, segments []Segment) *GroupOfSegments {
	return &GroupOfSegments{Format: format, Segments: segments}
}

// NewRunTable wraps run categories in a FormatRuns table.
func NewRunTable(runs []int) *GroupOfSegments {
	return &GroupOfSegments{Format: FormatRuns, Runs: runs}
}

// NewRangeTable wraps ranges in a table of the given format, which must
// be FormatRanges or FormatRangesAlt.
func NewRangeTable(format uint8, ranges []Range) *GroupOfSegments {
	return &GroupOfSegments{Format: format, Ranges: ranges}
}

// Escaped fields are substituted by position: the decoder remembers the
// (group, field) slot of every escape marker in encounter order, reads
// that many values from the nibble stream, and writes them back into
// their slots before any cumulative summing happens. Field slots follow
// the wire order within a group; range tables use slots 0 and 1 for
// first and nLeft.
const (
	fieldStart = iota
	fieldLength
	fieldGID
)

type fieldRef struct {
	group int
	field int
}

// substituteExtras reads one nibble-stream value per escape reference and
// stores it into the referenced column slot.
func substituteExtras(ed *Editor, refs []fieldRef, cols ...[]int64) error {
	if len(refs) == 0 {
		return nil
	}
	extras, err := newNibbleReader(ed).readExtras(len(refs))
	if err != nil {
		return err
	}
	for i, ref := range refs {
		cols[ref.field][ref.group] = extras[i]
	}
	return nil
}

// accumulate turns a column of deltas into absolute values.
func accumulate(col []int64) {
	for i := 1; i < len(col); i++ {
		col[i] += col[i-1]
	}
}

// readGOS decodes one segment table at the cursor and leaves the cursor
// behind its last byte.
func readGOS(ed *Editor) (*GroupOfSegments, error) {
	format, err := ed.GetUint8()
	if err != nil {
		return nil, err
	}
	count, err := ed.GetUint16()
	if err != nil {
		return nil, err
	}
	n := int(count)
	switch format {
	case FormatPlain32:
		segments, err := GetArrayOf(ed, n, func(ed *Editor) (Segment, error) {
			var s Segment
			var err error
			if s.Start, err = ed.GetUint32(); err != nil {
				return s, err
			}
			if s.Length, err = ed.GetUint32(); err != nil {
				return s, err
			}
			s.GID, err = ed.GetUint32()
			return s, err
		})
		if err != nil {
			return nil, err
		}
		return &GroupOfSegments{Format: format, Segments: segments}, nil
	case FormatDelta24:
		return readDelta24(ed, n)
	case FormatDeltaByte:
		return readDeltaByte(ed, n)
	case FormatRuns:
		return readRuns(ed, n)
	case FormatRanges, FormatRangesAlt:
		return readRanges(ed, format, n)
	}
	return nil, Error{
		Kind:   MalformedSegmentTable,
		Issue:  fmt.Sprintf("unknown segment table format %d", format),
		Offset: ed.Tell(),
	}
}

func readDelta24(ed *Editor, n int) (*GroupOfSegments, error) {
	start := make([]int64, n)
	length := make([]int64, n)
	gid := make([]int64, n)
	var refs []fieldRef
	for i := 0; i < n; i++ {
		v, err := ed.GetOffset(3)
		if err != nil {
			return nil, err
		}
		start[i] = int64(v >> 19 & 0x1f)
		length[i] = int64(v >> 16 & 0x07)
		gid[i] = int64(v & 0xffff)
		if start[i] == 0x1f {
			refs = append(refs, fieldRef{i, fieldStart})
		}
		if length[i] == 0x07 {
			refs = append(refs, fieldRef{i, fieldLength})
		}
	}
	if err := substituteExtras(ed, refs, start, length, gid); err != nil {
		return nil, err
	}
	accumulate(start)
	return segmentTableOf(ed, FormatDelta24, start, length, gid)
}

func readDeltaByte(ed *Editor, n int) (*GroupOfSegments, error) {
	start := make([]int64, n)
	length := make([]int64, n)
	gid := make([]int64, n)
	var refs []fieldRef
	for i := 0; i < n; i++ {
		v, err := ed.GetUint8()
		if err != nil {
			return nil, err
		}
		start[i] = int64(v >> 5 & 0x07)
		length[i] = int64(v >> 3 & 0x03)
		gid[i] = int64(v & 0x07)
		if start[i] == 0x07 {
			refs = append(refs, fieldRef{i, fieldStart})
		}
		if length[i] == 0x03 {
			refs = append(refs, fieldRef{i, fieldLength})
		}
		if gid[i] == 0x07 {
			refs = append(refs, fieldRef{i, fieldGID})
		}
	}
	if err := substituteExtras(ed, refs, start, length, gid); err != nil {
		return nil, err
	}
	accumulate(start)
	accumulate(gid)
	return segmentTableOf(ed, FormatDeltaByte, start, length, gid)
}

func readRuns(ed *Editor, n int) (*GroupOfSegments, error) {
	values := make([]int64, n)
	var refs []fieldRef
	var packed uint8
	for i := 0; i < n; i++ {
		if i%4 == 0 {
			var err error
			if packed, err = ed.GetUint8(); err != nil {
				return nil, err
			}
		}
		values[i] = int64(packed >> (6 - 2*(i%4)) & 0x03)
		if values[i] == 0x03 {
			refs = append(refs, fieldRef{i, fieldStart})
		}
	}
	if err := substituteExtras(ed, refs, values); err != nil {
		return nil, err
	}
	runs := make([]int, n)
	for i, v := range values {
		runs[i] = int(v)
	}
	return &GroupOfSegments{Format: FormatRuns, Runs: runs}, nil
}

func readRanges(ed *Editor, format uint8, n int) (*GroupOfSegments, error) {
	first := make([]int64, n)
	nleft := make([]int64, n)
	var refs []fieldRef
	for i := 0; i < n; i++ {
		v, err := ed.GetUint8()
		if err != nil {
			return nil, err
		}
		first[i] = int64(v >> 3 & 0x1f)
		nleft[i] = int64(v & 0x07)
		if first[i] == 0x1f {
			refs = append(refs, fieldRef{i, fieldStart})
		}
		if nleft[i] == 0x07 {
			refs = append(refs, fieldRef{i, fieldLength})
		}
	}
	if err := substituteExtras(ed, refs, first, nleft); err != nil {
		return nil, err
	}
	accumulate(first)
	accumulate(nleft)
	ranges := make([]Range, n)
	for i := range ranges {
		f, err := checkedUint32(ed, "range first", first[i])
		if err != nil {
			return nil, err
		}
		l, err := checkedUint32(ed, "range nLeft", nleft[i])
		if err != nil {
			return nil, err
		}
		ranges[i] = Range{First: f, NLeft: l}
	}
	return &GroupOfSegments{Format: format, Ranges: ranges}, nil
}

// segmentTableOf converts decoded columns to a segment table, rejecting
// values that no longer fit 32 bits after substitution and summing.
func segmentTableOf(ed *Editor, format uint8, start, length, gid []int64) (*GroupOfSegments, error) {
	segments := make([]Segment, len(start))
	for i := range segments {
		s, err := checkedUint32(ed, "start code", start[i])
		if err != nil {
			return nil, err
		}
		l, err := checkedUint32(ed, "length", length[i])
		if err != nil {
			return nil, err
		}
		g, err := checkedUint32(ed, "glyph id", gid[i])
		if err != nil {
			return nil, err
		}
		segments[i] = Segment{Start: s, Length: l, GID: g}
	}
	return &GroupOfSegments{Format: format, Segments: segments}, nil
}

func checkedUint32(ed *Editor, what string, v int64) (uint32, error) {
	if v < 0 || v > 0xffffffff {
		return 0, Error{
			Kind:   MalformedSegmentTable,
			Issue:  fmt.Sprintf("%s %d out of range", what, v),
			Offset: ed.Tell(),
		}
	}
	return uint32(v), nil
}

// --- Encoding ---------------------------------------------------------

// gosPlan is the encoded form of one table before it hits the buffer:
// the packed group records and the escape values for the nibble stream.
type gosPlan struct {
	body   []byte
	extras []int64
}

// packField returns the stored bits for a field value whose escape marker
// is marker. Values outside 0…marker-1 store the marker and queue the
// true value as an extra.
func packField(v int64, marker int64, extras *[]int64) byte {
	if v < 0 || v >= marker {
		*extras = append(*extras, v)
		return byte(marker)
	}
	return byte(v)
}

func planGOS(g *GroupOfSegments) (gosPlan, error) {
	var plan gosPlan
	switch g.Format {
	case FormatPlain32:
		plan.body = make([]byte, 0, 12*len(g.Segments))
		for _, s := range g.Segments {
			plan.body = appendUint32(plan.body, s.Start)
			plan.body = appendUint32(plan.body, s.Length)
			plan.body = appendUint32(plan.body, s.GID)
		}
	case FormatDelta24:
		plan.body = make([]byte, 0, 3*len(g.Segments))
		prev := int64(0)
		for _, s := range g.Segments {
			if s.GID > 0xffff {
				return plan, Error{
					Kind:  InvalidArgument,
					Issue: fmt.Sprintf("glyph id %d too wide for format %d", s.GID, FormatDelta24),
				}
			}
			sb := packField(int64(s.Start)-prev, 0x1f, &plan.extras)
			prev = int64(s.Start)
			lb := packField(int64(s.Length), 0x07, &plan.extras)
			v := uint32(sb)<<19 | uint32(lb)<<16 | s.GID
			plan.body = append(plan.body, byte(v>>16), byte(v>>8), byte(v))
		}
	case FormatDeltaByte:
		plan.body = make([]byte, 0, len(g.Segments))
		prevS, prevG := int64(0), int64(0)
		for _, s := range g.Segments {
			sb := packField(int64(s.Start)-prevS, 0x07, &plan.extras)
			prevS = int64(s.Start)
			lb := packField(int64(s.Length), 0x03, &plan.extras)
			gb := packField(int64(s.GID)-prevG, 0x07, &plan.extras)
			prevG = int64(s.GID)
			plan.body = append(plan.body, sb<<5|lb<<3|gb)
		}
	case FormatRuns:
		plan.body = make([]byte, 0, (len(g.Runs)+3)/4)
		var packed byte
		for i, v := range g.Runs {
			packed |= packField(int64(v), 0x03, &plan.extras) << (6 - 2*(i%4))
			if i%4 == 3 {
				plan.body = append(plan.body, packed)
				packed = 0
			}
		}
		if len(g.Runs)%4 != 0 {
			plan.body = append(plan.body, packed)
		}
	case FormatRanges, FormatRangesAlt:
		plan.body = make([]byte, 0, len(g.Ranges))
		prevF, prevN := int64(0), int64(0)
		for _, r := range g.Ranges {
			fb := packField(int64(r.First)-prevF, 0x1f, &plan.extras)
			prevF = int64(r.First)
			nb := packField(int64(r.NLeft)-prevN, 0x07, &plan.extras)
			prevN = int64(r.NLeft)
			plan.body = append(plan.body, fb<<3|nb)
		}
	default:
		return plan, Error{
			Kind:  InvalidArgument,
			Issue: fmt.Sprintf("unknown segment table format %d", g.Format),
		}
	}
	return plan, nil
}

// encodedSize returns the exact number of bytes writeGOS will produce
// for the table, format byte and count included.
func encodedSize(g *GroupOfSegments) (int, error) {
	plan, err := planGOS(g)
	if err != nil {
		return 0, err
	}
	nibbles := 0
	for _, x := range plan.extras {
		nibbles += extraNibbles(x)
	}
	return 3 + len(plan.body) + (nibbles+1)/2, nil
}

// writeGOS encodes one table at the cursor.
func writeGOS(ed *Editor, g *GroupOfSegments) error {
	n := g.Count()
	if n > 0xffff {
		return Error{
			Kind:   InvalidArgument,
			Issue:  fmt.Sprintf("%d groups exceed the uint16 count field", n),
			Offset: ed.Tell(),
		}
	}
	plan, err := planGOS(g)
	if err != nil {
		return err
	}
	if err := ed.SetUint8(g.Format); err != nil {
		return err
	}
	if err := ed.SetUint16(uint16(n)); err != nil {
		return err
	}
	if err := ed.WriteBytes(plan.body); err != nil {
		return err
	}
	nw := newNibbleWriter(ed)
	for _, x := range plan.extras {
		if err := nw.writeExtra(x); err != nil {
			return err
		}
	}
	return nw.flush()
}

// PickSegmentFormat returns the format that encodes segments most
// compactly. FormatDelta24 only competes when every glyph id fits its
// 16-bit field.
func PickSegmentFormat(segments []Segment) uint8 {
	best := FormatPlain32
	bestSize, err := encodedSize(&GroupOfSegments{Format: best, Segments: segments})
	if err != nil {
		return best
	}
	for _, format := range []uint8{FormatDeltaByte, FormatDelta24} {
		size, err := encodedSize(&GroupOfSegments{Format: format, Segments: segments})
		if err == nil && size < bestSize {
			best, bestSize = format, size
		}
	}
	return best
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
