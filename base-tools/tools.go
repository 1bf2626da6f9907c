package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/basefont"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

func main() {
	setupTracing()

	commando.
		SetExecutableName("base-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for generating and inspecting base fonts.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("info").
		SetDescription("Print the decoded header record of a base font.").
		SetShortDescription("base font diagnostics").
		AddArgument("basefont", "base font file path", "").
		AddFlag("warnings,w", "print header warnings", commando.Bool, nil).
		SetAction(runInfoCommand)

	commando.
		Register("strip").
		SetDescription("Strip an OpenType font down to a base font.").
		SetShortDescription("generate a base font").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("output,o", "output base font file", commando.String, "-").
		AddFlag("verbose,V", "trace the generator", commando.Bool, nil).
		SetAction(runStripCommand)

	commando.
		Register("verify").
		SetDescription("Check a base font's fingerprint against its source font.").
		SetShortDescription("verify fingerprint").
		AddArgument("basefont", "base font file path", "").
		AddArgument("font", "source OpenType font file path", "").
		SetAction(runVerifyCommand)

	commando.Parse(nil)
}

// setupTracing registers the Go logging adapter. Commands stay quiet by
// default, strip -V raises the generator's level.
func setupTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.basefont":     "Error",
		"trace.basefont.gen": "Error",
		"trace.font.bsac":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func mustLoadBase(path string) *basefont.BaseFont {
	f, err := basefont.LoadBaseFont(path)
	if err != nil {
		fatalf("cannot load base font %s: %v", path, err)
	}
	return f
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "base-tools: "+format+"\n", args...)
	os.Exit(1)
}
