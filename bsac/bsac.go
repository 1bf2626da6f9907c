package bsac

// --- Tag -------------------------------------------------------------------

// Tag is a 4-byte ASCII identifier in the header's tag table, stored as a
// big-endian uint32.
type Tag uint32

// MakeTag creates a Tag from b, which should be 4 bytes long.
// If b is shorter or longer, it will be silently extended or cut as
// appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return MakeTag([]byte(t))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// headerTags lists the recognized tags in their canonical table order.
// Subtable locations come before the compact character map, whose
// reconstruction step depends on them.
var headerTags = []Tag{
	T("GLOF"), // uint32 offset of the glyph data block
	T("GLCN"), // uint16 glyph count
	T("LCOF"), // uint32 offset of the glyph location table
	T("LCFM"), // uint8 width of one location entry, 1…4 bytes
	T("HMOF"), // uint32 offset of the horizontal metrics table
	T("HMMC"), // uint16 number of long horizontal metrics
	T("VMOF"), // uint32 offset of the vertical metrics table
	T("VMMC"), // uint16 number of long vertical metrics
	T("TYPE"), // uint8 flag, 1 for TrueType outlines, 0 for CFF
	T("CM12"), // uint32 offset + uint32 group count of the format-12 groups
	T("CM04"), // uint32 offset + uint32 byte length of the format-4 subtable
	T("CCMP"), // compact character map, a set of segment tables
	T("CS02"), // uint32 offset + one range table for the charset
	T("SHA1"), // 40 hex characters fingerprinting the source font
}

// --- FileInfo ----------------------------------------------------------

// Cmap12Descriptor locates the format-12 character-map groups inside the
// font payload: Offset addresses the first (startCode, endCode, startGID)
// triple, relative to the payload start, and NGroups counts the triples.
type Cmap12Descriptor struct {
	Offset  uint32
	NGroups uint32
}

// Cmap4Descriptor locates the format-4 character-map subtable inside the
// font payload, relative to the payload start.
type Cmap4Descriptor struct {
	Offset uint32
	Length uint32
}

// CharsetDescriptor locates the charset of a CFF payload and carries its
// decoded glyph ranges.
type CharsetDescriptor struct {
	Offset uint32
	Ranges *GroupOfSegments
}

// FileInfo is the metadata record a parsed base-font header yields. Every
// field backed by an optional tag reports presence through its Option;
// absent tags leave their field None. HeadSize and Version come from the
// fixed header part and are always set.
type FileInfo struct {
	HeadSize int32
	Version  int32

	GlyphDataOffset Option[uint32]            // GLOF
	GlyphCount      Option[uint16]            // GLCN
	LocaOffset      Option[uint32]            // LCOF
	LocaWidth       Option[uint8]             // LCFM
	HMtxOffset      Option[uint32]            // HMOF
	HMetricCount    Option[uint16]            // HMMC
	VMtxOffset      Option[uint32]            // VMOF
	VMetricCount    Option[uint16]            // VMMC
	IsTrueType      Option[bool]              // TYPE
	Cmap12          Option[Cmap12Descriptor]  // CM12
	Cmap4           Option[Cmap4Descriptor]   // CM04
	Charset         Option[CharsetDescriptor] // CS02
	Fingerprint     Option[string]            // SHA1
	CompactCmap     *CompactCmap              // CCMP, nil when absent

	tags     []Tag
	warnings []Warning
}

// Tags returns the header's tags in the order they appeared in the tag
// table.
func (info *FileInfo) Tags() []Tag {
	return info.tags
}

// HasTag reports whether the header carried the given tag.
func (info *FileInfo) HasTag(tag Tag) bool {
	for _, t := range info.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Warnings returns non-fatal observations collected while parsing.
func (info *FileInfo) Warnings() []Warning {
	return info.warnings
}

func (info *FileInfo) warn(tag Tag, offset int, issue string) {
	w := Warning{Tag: tag, Issue: issue, Offset: offset}
	tracer().Infof("header warning: %s", w)
	info.warnings = append(info.warnings, w)
}
