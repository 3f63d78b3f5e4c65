// Newsvox is a voice-command daemon for a news reader. It parses spoken or
// typed commands, fetches and translates headlines, and reads them aloud.
//
// Usage:
//
//	newsvox serve [--config /path/to/newsvox.yaml] [--stdin]
//	newsvox parse "show me science news"
//	newsvox commands [--format yaml]
//	newsvox console
//	newsvox version
//
// @title       newsvox API
// @version     1.0
// @description Voice-command dispatcher for a news reader.
// @BasePath    /
package main

import (
	"os"

	_ "github.com/nadzzz/newsvox/docs"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
