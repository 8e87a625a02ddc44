package main

import (
	"embed"
	"os"

	"tinted-terminal/cli"
)

//go:embed static
var staticFiles embed.FS

func main() {
	if err := cli.Execute(staticFiles); err != nil {
		os.Exit(1)
	}
}
