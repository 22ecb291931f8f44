// Package main provides the CLI entry point for framesnap.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

// Flag categories
const (
	categoryOutput   = "Output"
	categorySampling = "Sampling"
	categorySource   = "Video Source"
	categorySprite   = "Sprite Sheet"
	categoryDebug    = "Debug"
	categoryLogging  = "Logging"
)

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:        "framesnap",
		Usage:       l10n.T("Extract still frames from videos"),
		Description: l10n.T("framesnap samples frames from a video at computed or explicit timestamps and saves them as images, a sprite sheet and a JSON manifest."),
		Version:     version,
		Commands: []*cli.Command{
			extractCommand(),
			probeCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:        "version",
		Usage:       l10n.T("Show version information"),
		Description: l10n.T("Display the version of framesnap."),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("framesnap version %s", version))
			return nil
		},
	}
}
