package bsac

import "fmt"

// EncodeHeader serializes a metadata record into a binary header block.
// The block starts with the magic and carries one tag-table entry per
// populated field, in canonical tag order, so that decoding it yields the
// record back. The head-size field of the block is its total length; a
// font payload can directly follow the returned bytes. A non-zero
// info.HeadSize overrides the computed value, info.Version is ignored and
// the supported version is written.
func EncodeHeader(info *FileInfo) ([]byte, error) {
	tags := make([]Tag, 0, len(headerTags))
	payloads := make([][]byte, 0, len(headerTags))
	payloadSize := 0
	for _, tag := range headerTags {
		p, ok, err := encodePayload(info, tag)
		if err != nil {
			return nil, withTag(err, tag)
		}
		if !ok {
			continue
		}
		tags = append(tags, tag)
		payloads = append(payloads, p)
		payloadSize += len(p)
	}
	size := headerFixedSize + len(tags)*tagRecordSize + payloadSize
	headSize := int32(size)
	if info.HeadSize != 0 {
		headSize = info.HeadSize
	}
	buf := make([]byte, size)
	ed := NewEditor(buf, 0)
	if err := ed.WriteBytes([]byte(Magic)); err != nil {
		return nil, err
	}
	if err := ed.SetInt32(headSize); err != nil {
		return nil, err
	}
	if err := ed.SetInt32(Version); err != nil {
		return nil, err
	}
	if err := ed.SetUint16(uint16(len(tags))); err != nil {
		return nil, err
	}
	offset := uint32(0)
	for i, tag := range tags {
		if err := ed.SetUint32(uint32(tag)); err != nil {
			return nil, err
		}
		if err := ed.SetUint32(offset); err != nil {
			return nil, err
		}
		offset += uint32(len(payloads[i]))
	}
	for _, p := range payloads {
		if err := ed.WriteBytes(p); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("encoded base-font header: %d tags, %d bytes", len(tags), size)
	return buf, nil
}

// encodePayload returns the payload bytes for one tag, or false when the
// corresponding FileInfo field is not populated.
func encodePayload(info *FileInfo, tag Tag) ([]byte, bool, error) {
	switch tag {
	case T("GLOF"):
		if v, ok := info.GlyphDataOffset.Unwrap(); ok {
			return u32Payload(v), true, nil
		}
	case T("GLCN"):
		if v, ok := info.GlyphCount.Unwrap(); ok {
			return u16Payload(v), true, nil
		}
	case T("LCOF"):
		if v, ok := info.LocaOffset.Unwrap(); ok {
			return u32Payload(v), true, nil
		}
	case T("LCFM"):
		if v, ok := info.LocaWidth.Unwrap(); ok {
			return []byte{v}, true, nil
		}
	case T("HMOF"):
		if v, ok := info.HMtxOffset.Unwrap(); ok {
			return u32Payload(v), true, nil
		}
	case T("HMMC"):
		if v, ok := info.HMetricCount.Unwrap(); ok {
			return u16Payload(v), true, nil
		}
	case T("VMOF"):
		if v, ok := info.VMtxOffset.Unwrap(); ok {
			return u32Payload(v), true, nil
		}
	case T("VMMC"):
		if v, ok := info.VMetricCount.Unwrap(); ok {
			return u16Payload(v), true, nil
		}
	case T("TYPE"):
		if v, ok := info.IsTrueType.Unwrap(); ok {
			b := []byte{0}
			if v {
				b[0] = 1
			}
			return b, true, nil
		}
	case T("CM12"):
		if d, ok := info.Cmap12.Unwrap(); ok {
			return append(u32Payload(d.Offset), u32Payload(d.NGroups)...), true, nil
		}
	case T("CM04"):
		if d, ok := info.Cmap4.Unwrap(); ok {
			return append(u32Payload(d.Offset), u32Payload(d.Length)...), true, nil
		}
	case T("CCMP"):
		if info.CompactCmap != nil {
			return encodeCompactCmap(info.CompactCmap)
		}
	case T("CS02"):
		if d, ok := info.Charset.Unwrap(); ok {
			if d.Ranges == nil {
				return nil, false, Error{Kind: InvalidArgument, Issue: "charset without ranges"}
			}
			size, err := encodedSize(d.Ranges)
			if err != nil {
				return nil, false, err
			}
			buf := make([]byte, 4+size)
			ed := NewEditor(buf, 0)
			if err := ed.SetUint32(d.Offset); err != nil {
				return nil, false, err
			}
			if err := writeGOS(ed, d.Ranges); err != nil {
				return nil, false, err
			}
			return buf, true, nil
		}
	case T("SHA1"):
		if s, ok := info.Fingerprint.Unwrap(); ok {
			if len(s) != fingerprintLen {
				return nil, false, Error{
					Kind:  InvalidArgument,
					Issue: fmt.Sprintf("fingerprint has %d characters, want %d", len(s), fingerprintLen),
				}
			}
			return []byte(s), true, nil
		}
	}
	return nil, false, nil
}

// encodeCompactCmap serializes the character-map tables: a count byte
// followed by the encoded tables. The synthesized format-4 view is
// derived data and is not written.
func encodeCompactCmap(cc *CompactCmap) ([]byte, bool, error) {
	if len(cc.Tables) == 0 || len(cc.Tables) > 0xff {
		return nil, false, Error{
			Kind:  InvalidArgument,
			Issue: fmt.Sprintf("%d character-map tables not encodable", len(cc.Tables)),
		}
	}
	size := 1
	for _, g := range cc.Tables {
		s, err := encodedSize(g)
		if err != nil {
			return nil, false, err
		}
		size += s
	}
	buf := make([]byte, size)
	ed := NewEditor(buf, 0)
	if err := ed.SetUint8(uint8(len(cc.Tables))); err != nil {
		return nil, false, err
	}
	for _, g := range cc.Tables {
		if err := writeGOS(ed, g); err != nil {
			return nil, false, err
		}
	}
	return buf, true, nil
}

func u16Payload(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func u32Payload(v uint32) []byte {
	return appendUint32(nil, v)
}
