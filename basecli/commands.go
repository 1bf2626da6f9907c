package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/npillmayer/basefont/bsac"
	"github.com/pterm/pterm"
)

func headerOp(intp *Intp, op *Op) (error, bool) {
	info := intp.font.Info
	pterm.Printf("header size %d, version %d, %d tags\n", info.HeadSize, info.Version, len(info.Tags()))
	if info.IsTrueType.IsSome() {
		flavor := "CFF"
		if info.IsTrueType.Or(false) {
			flavor = "TrueType"
		}
		pterm.Printf("outline flavor     %s\n", flavor)
	}
	if info.GlyphDataOffset.IsSome() {
		pterm.Printf("glyph data      at %d\n", info.GlyphDataOffset.Or(0))
	}
	if info.GlyphCount.IsSome() {
		pterm.Printf("glyph count        %d\n", info.GlyphCount.Or(0))
	}
	if info.LocaOffset.IsSome() {
		pterm.Printf("glyph locations at %d, entries %d byte(s) wide\n",
			info.LocaOffset.Or(0), info.LocaWidth.Or(0))
	}
	if info.HMtxOffset.IsSome() {
		pterm.Printf("hor. metrics    at %d, %d long entries\n",
			info.HMtxOffset.Or(0), info.HMetricCount.Or(0))
	}
	if info.VMtxOffset.IsSome() {
		pterm.Printf("vert. metrics   at %d, %d long entries\n",
			info.VMtxOffset.Or(0), info.VMetricCount.Or(0))
	}
	if info.Fingerprint.IsSome() {
		pterm.Printf("fingerprint        %s\n", info.Fingerprint.Or(""))
	}
	for _, w := range info.Warnings() {
		pterm.Info.Println(w.String())
	}
	return nil, false
}

func tagsOp(intp *Intp, op *Op) (error, bool) {
	for i, tag := range intp.font.Info.Tags() {
		pterm.Printf("%2d: %s\n", i, tag)
	}
	return nil, false
}

func tagOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("which tag? use tag:<name>"), false
	}
	info := intp.font.Info
	tag := bsac.T(arg)
	if !info.HasTag(tag) {
		return fmt.Errorf("header carries no tag %s", tag), false
	}
	switch tag {
	case bsac.T("GLOF"):
		pterm.Printf("glyph data starts at payload offset %d\n", info.GlyphDataOffset.Or(0))
	case bsac.T("GLCN"):
		pterm.Printf("font has %d glyphs\n", info.GlyphCount.Or(0))
	case bsac.T("LCOF"):
		pterm.Printf("glyph location table at payload offset %d\n", info.LocaOffset.Or(0))
	case bsac.T("LCFM"):
		pterm.Printf("location entries are %d byte(s) wide\n", info.LocaWidth.Or(0))
	case bsac.T("HMOF"):
		pterm.Printf("horizontal metrics at payload offset %d\n", info.HMtxOffset.Or(0))
	case bsac.T("HMMC"):
		pterm.Printf("%d long horizontal metrics\n", info.HMetricCount.Or(0))
	case bsac.T("VMOF"):
		pterm.Printf("vertical metrics at payload offset %d\n", info.VMtxOffset.Or(0))
	case bsac.T("VMMC"):
		pterm.Printf("%d long vertical metrics\n", info.VMetricCount.Or(0))
	case bsac.T("TYPE"):
		if info.IsTrueType.Or(false) {
			pterm.Println("TrueType outlines (glyf + loca)")
		} else {
			pterm.Println("CFF outlines (CharStrings INDEX)")
		}
	case bsac.T("CM12"):
		d, _ := info.Cmap12.Unwrap()
		pterm.Printf("format-12 groups at payload offset %d, %d groups\n", d.Offset, d.NGroups)
	case bsac.T("CM04"):
		d, _ := info.Cmap4.Unwrap()
		pterm.Printf("format-4 subtable at payload offset %d, %d bytes\n", d.Offset, d.Length)
	case bsac.T("CCMP"):
		for i, g := range info.CompactCmap.Tables {
			pterm.Printf("table %d: format %d with %d entries\n", i, g.Format, g.Count())
		}
	case bsac.T("CS02"):
		d, _ := info.Charset.Unwrap()
		pterm.Printf("charset at payload offset %d, %d ranges\n", d.Offset, d.Ranges.Count())
	case bsac.T("SHA1"):
		pterm.Printf("source fingerprint %s\n", info.Fingerprint.Or(""))
	}
	return nil, false
}

func cmapOp(intp *Intp, op *Op) (error, bool) {
	cm := intp.font.Info.CompactCmap
	if cm == nil {
		return errors.New("base font carries no compact character map"), false
	}
	for i, g := range cm.Tables {
		pterm.Printf("table %d: format %d with %d entries\n", i, g.Format, g.Count())
	}
	pterm.Printf("%d codepoints map to glyphs\n", intp.font.Coverage())
	if f4 := cm.Format4; f4 != nil {
		pterm.Printf("format-4 view: %d segments, %d glyph ids\n", len(f4.Segments), len(f4.GlyphIDArray))
	}
	if op.arg == "groups" && cm.Groups() != nil {
		for _, g := range cm.Groups().Segments {
			pterm.Printf("  %#06x…%#06x -> glyph %d\n", g.Start, g.Start+g.Length-1, g.GID)
		}
	}
	return nil, false
}

func locaOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("which glyph? use loca:<glyph> or loca:<glyph>:<value>"), false
	}
	gid, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("glyph id not numeric: %v", arg), false
	}
	if op.format == "" {
		v, err := intp.font.GlyphLocation(gid)
		if err != nil {
			return err, false
		}
		pterm.Printf("glyph %d data at %d\n", gid, v)
		return nil, false
	}
	v, err := strconv.ParseUint(op.format, 10, 32)
	if err != nil {
		return fmt.Errorf("location not numeric: %v", op.format), false
	}
	if err = intp.font.SetGlyphLocation(gid, uint32(v)); err != nil {
		return err, false
	}
	intp.dirty = true
	pterm.Printf("glyph %d data now at %d\n", gid, v)
	return nil, false
}

func bearingOp(intp *Intp, op *Op) (error, bool) {
	return patchBearing(intp, op, false)
}

func vbearingOp(intp *Intp, op *Op) (error, bool) {
	return patchBearing(intp, op, true)
}

func patchBearing(intp *Intp, op *Op, vertical bool) (error, bool) {
	arg, ok := op.hasArg()
	if !ok || op.format == "" {
		return errors.New("use bearing:<glyph>:<value>"), false
	}
	gid, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("glyph id not numeric: %v", arg), false
	}
	value, err := strconv.ParseInt(op.format, 10, 16)
	if err != nil {
		return fmt.Errorf("bearing not numeric: %v", op.format), false
	}
	if vertical {
		err = intp.font.SetVerticalBearing(gid, int16(value))
	} else {
		err = intp.font.SetSideBearing(gid, int16(value))
	}
	if err != nil {
		return err, false
	}
	intp.dirty = true
	pterm.Printf("glyph %d bearing now %d\n", gid, value)
	return nil, false
}

func writeOp(intp *Intp, op *Op) (error, bool) {
	path := op.arg
	if path == "" {
		path = intp.font.Filepath
	}
	if path == "" {
		return errors.New("no file to write to, use write:<file>"), false
	}
	if err := os.WriteFile(path, intp.font.Binary, 0644); err != nil {
		return err, false
	}
	intp.dirty = false
	pterm.Printf("%d bytes written to %s\n", len(intp.font.Binary), path)
	return nil, false
}
