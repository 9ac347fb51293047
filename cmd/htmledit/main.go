// Command htmledit runs scripted edits against an HTML document and prints
// the resulting markup of the editable root.
//
//	htmledit run page.html script.yaml
//
// Settings are read from a configuration file (--config) and from
// RICHEDIT_* environment variables; command line flags override both.
package main

import (
	"os"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
