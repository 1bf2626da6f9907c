package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"
)

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	path := strings.TrimSpace(args["basefont"].Value)
	if path == "" {
		fatalf("base font path is required")
	}
	f := mustLoadBase(path)
	info := f.Info

	fmt.Printf("Path: %s\n", path)
	fmt.Printf("Header: %d bytes, version %d\n", info.HeadSize, info.Version)
	if info.IsTrueType.IsSome() {
		flavor := "CFF"
		if info.IsTrueType.Or(false) {
			flavor = "TrueType"
		}
		fmt.Printf("Flavor: %s\n", flavor)
	}
	if info.GlyphCount.IsSome() {
		fmt.Printf("Glyphs: %d\n", info.GlyphCount.Or(0))
	}
	if info.GlyphDataOffset.IsSome() {
		fmt.Printf("Glyph data: payload offset %d\n", info.GlyphDataOffset.Or(0))
	}
	if info.LocaOffset.IsSome() {
		fmt.Printf("Locations: payload offset %d, %d byte(s) per entry\n",
			info.LocaOffset.Or(0), info.LocaWidth.Or(0))
	}
	if info.HMtxOffset.IsSome() {
		fmt.Printf("H-metrics: payload offset %d, %d long entries\n",
			info.HMtxOffset.Or(0), info.HMetricCount.Or(0))
	}
	if info.VMtxOffset.IsSome() {
		fmt.Printf("V-metrics: payload offset %d, %d long entries\n",
			info.VMtxOffset.Or(0), info.VMetricCount.Or(0))
	}
	if info.CompactCmap != nil {
		if groups := info.CompactCmap.Groups(); groups != nil {
			fmt.Printf("Coverage: %d codepoints in %d groups\n", f.Coverage(), groups.Count())
		}
	}
	if info.Fingerprint.IsSome() {
		fmt.Printf("Fingerprint: %s\n", info.Fingerprint.Or(""))
	}

	tags := info.Tags()
	fmt.Printf("Tags (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()

	warns := info.Warnings()
	fmt.Printf("Issues: warnings=%d\n", len(warns))
	if mustFlagBool(flags["warnings"], "warnings") {
		for _, w := range warns {
			fmt.Printf("  [warning] %s\n", w)
		}
	}
}
