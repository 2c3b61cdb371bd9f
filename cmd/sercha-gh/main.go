// Command sercha-gh collects Markdown documents from GitHub repositories
// for a search index.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/sercha-gh/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
