package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/thatisuday/commando"
)

// runVerifyCommand recomputes the SHA-1 digest of a source font and checks it
// against the fingerprint a base font carries in its header.
func runVerifyCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	basePath := args["basefont"].Value
	fontPath := args["font"].Value
	if basePath == "" || fontPath == "" {
		fatalf("verify needs a base font and its source font")
	}
	base := mustLoadBase(basePath)
	if base.Info.Fingerprint.IsNone() {
		fatalf("base font %s carries no fingerprint", basePath)
	}
	want, _ := base.Info.Fingerprint.Unwrap()
	font, err := os.ReadFile(fontPath)
	if err != nil {
		fatalf("cannot read font: %v", err)
	}
	sum := sha1.Sum(font)
	have := hex.EncodeToString(sum[:])
	if have != want {
		fatalf("fingerprint mismatch:\n  base font: %s\n  %s: %s", want, fontPath, have)
	}
	fmt.Printf("Fingerprint: %s\n", want)
	fmt.Printf("%s matches %s\n", fontPath, basePath)
}
