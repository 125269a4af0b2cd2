package main

import (
	"context"
	"fmt"
	"os"

	"astcmp/internal/app"
	"astcmp/internal/cli"
	"astcmp/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "astcmp: %v\n", err)
		os.Exit(1)
	}

	ui.SetVerbose(cfg.Verbose)

	if err := app.New(cfg).Run(context.Background()); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
