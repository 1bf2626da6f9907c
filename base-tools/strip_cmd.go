package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/basefont/basegen"
	"github.com/npillmayer/basefont/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
	"github.com/thatisuday/commando"
)

func runStripCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	if mustFlagBool(flags["verbose"], "verbose") {
		tracing.Select("basefont.gen").SetTraceLevel(tracing.LevelInfo)
	}
	font, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		fatalf("cannot read font %s: %v", fontPath, err)
	}
	blob, info, err := basegen.Generate(font.Binary)
	if err != nil {
		fatalf("cannot strip font %s: %v", fontPath, err)
	}
	out, err := flags["output"].GetString()
	if err != nil {
		fatalf("invalid --output flag: %v", err)
	}
	if out == "-" || out == "" {
		out = strings.TrimSuffix(fontPath, filepath.Ext(fontPath)) + ".base"
	}
	if err = os.WriteFile(out, blob, 0644); err != nil {
		fatalf("cannot write base font: %v", err)
	}

	fmt.Printf("Source font: %s (%s, %d glyphs)\n", font.Fontname, font.Flavor(), font.NumGlyphs())
	fmt.Printf("Base font: %s\n", out)
	fmt.Printf("Size: %d bytes (header %d + payload %d)\n",
		len(blob), info.HeadSize, len(blob)-int(info.HeadSize))
	tags := info.Tags()
	fmt.Printf("Tags (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()
}
