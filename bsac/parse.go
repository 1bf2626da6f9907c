package bsac

import "fmt"

// Header layout constants.
const (
	// Magic identifies a base-font header.
	Magic = "BSAC"
	// Version is the only header format version this package reads and
	// writes.
	Version = 1

	headerFixedSize = 14 // magic, head size, version, tag count
	tagRecordSize   = 8  // 4 tag bytes plus a uint32 payload offset
	fingerprintLen  = 40 // hex digits of a SHA-1 sum
)

// ParseHeader decodes the base-font header at the start of data and
// returns its metadata record. base shifts the whole coordinate system
// for callers whose buffer carries bytes before the header; most callers
// pass 0.
//
// Parsing is strict: the first violation aborts with an Error and no
// FileInfo is returned. Payloads are visited in tag-table order, so a tag
// whose interpretation depends on another (the compact character map
// needs both subtable locations) has to come after it.
func ParseHeader(data []byte, base int) (*FileInfo, error) {
	ed := NewEditor(data, base)
	magic, err := ed.ReadString(4)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, Error{Kind: BadMagic, Issue: fmt.Sprintf("magic %q", magic), Offset: 0}
	}
	info := &FileInfo{}
	if info.HeadSize, err = ed.GetInt32(); err != nil {
		return nil, err
	}
	if info.Version, err = ed.GetInt32(); err != nil {
		return nil, err
	}
	if info.Version != Version {
		return nil, Error{
			Kind:   UnsupportedVersion,
			Issue:  fmt.Sprintf("header version %d", info.Version),
			Offset: 8,
		}
	}
	count, err := ed.GetUint16()
	if err != nil {
		return nil, err
	}
	dataStart := int(count)*tagRecordSize + headerFixedSize
	if int(info.HeadSize) < dataStart {
		info.warn(0, 4, fmt.Sprintf("head size %d ends before the tag table does (%d)",
			info.HeadSize, dataStart))
	}
	tracer().Debugf("base-font header carries %d tags, payloads start at %d", count, dataStart)
	for i := 0; i < int(count); i++ {
		tagBytes, err := ed.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		tag := MakeTag(tagBytes)
		offset, err := ed.GetUint32()
		if err != nil {
			return nil, err
		}
		mark := ed.Tell()
		ed.Seek(dataStart + int(offset))
		if err := readPayload(ed, tag, info); err != nil {
			return nil, withTag(err, tag)
		}
		info.tags = append(info.tags, tag)
		ed.Seek(mark)
	}
	return info, nil
}

// readPayload decodes the payload of one tag; the cursor sits on the
// payload's first byte.
func readPayload(ed *Editor, tag Tag, info *FileInfo) error {
	switch tag {
	case T("GLOF"):
		v, err := ed.GetUint32()
		if err != nil {
			return err
		}
		info.GlyphDataOffset = Some(v)
	case T("GLCN"):
		v, err := ed.GetUint16()
		if err != nil {
			return err
		}
		info.GlyphCount = Some(v)
	case T("LCOF"):
		v, err := ed.GetUint32()
		if err != nil {
			return err
		}
		info.LocaOffset = Some(v)
	case T("LCFM"):
		v, err := ed.GetUint8()
		if err != nil {
			return err
		}
		if v < 1 || v > 4 {
			info.warn(tag, ed.Tell(), fmt.Sprintf("location entry width %d outside 1…4", v))
		}
		info.LocaWidth = Some(v)
	case T("HMOF"):
		v, err := ed.GetUint32()
		if err != nil {
			return err
		}
		info.HMtxOffset = Some(v)
	case T("HMMC"):
		v, err := ed.GetUint16()
		if err != nil {
			return err
		}
		info.HMetricCount = Some(v)
	case T("VMOF"):
		v, err := ed.GetUint32()
		if err != nil {
			return err
		}
		info.VMtxOffset = Some(v)
	case T("VMMC"):
		v, err := ed.GetUint16()
		if err != nil {
			return err
		}
		info.VMetricCount = Some(v)
	case T("TYPE"):
		v, err := ed.GetUint8()
		if err != nil {
			return err
		}
		info.IsTrueType = Some(v != 0)
	case T("CM12"):
		var d Cmap12Descriptor
		var err error
		if d.Offset, err = ed.GetUint32(); err != nil {
			return err
		}
		if d.NGroups, err = ed.GetUint32(); err != nil {
			return err
		}
		info.Cmap12 = Some(d)
	case T("CM04"):
		var d Cmap4Descriptor
		var err error
		if d.Offset, err = ed.GetUint32(); err != nil {
			return err
		}
		if d.Length, err = ed.GetUint32(); err != nil {
			return err
		}
		info.Cmap4 = Some(d)
	case T("CCMP"):
		return readCompactCmap(ed, info)
	case T("CS02"):
		var d CharsetDescriptor
		var err error
		if d.Offset, err = ed.GetUint32(); err != nil {
			return err
		}
		if d.Ranges, err = readGOS(ed); err != nil {
			return err
		}
		info.Charset = Some(d)
	case T("SHA1"):
		s, err := ed.ReadString(fingerprintLen)
		if err != nil {
			return err
		}
		info.Fingerprint = Some(s)
	default:
		return Error{Kind: UnknownTag, Tag: tag, Issue: "tag not recognized", Offset: ed.Tell()}
	}
	return nil
}
