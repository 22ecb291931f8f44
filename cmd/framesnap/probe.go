package main

import (
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framesnap/pkg/adapters/chromebrowser"
	"github.com/user/framesnap/pkg/adapters/mp4reader"
	"github.com/user/framesnap/pkg/adapters/smartdecoder"
	"github.com/user/framesnap/pkg/config"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:        "probe",
		Usage:       l10n.T("Show video and decoder information"),
		Description: l10n.T("Read the container of an MP4 video and report its codec, duration and size, and which backends can decode it."),
		ArgsUsage:   "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable")},
		},
		Action: runProbe,
	}
}

// probeReport is what probe prints.
type probeReport struct {
	Locator     string
	Codec       smartdecoder.Codec
	DurationSec float64
	Width       int
	Height      int
	Samples     int
	H264        bool
	ChromePath  string
	ChromeFrom  chromebrowser.PathSource
}

func runProbe(c *cli.Context) error {
	locator := c.Args().First()
	if locator == "" {
		return fmt.Errorf("%s", l10n.T("URL argument is required"))
	}

	cfg := config.Defaults()
	if err := config.ApplyEnv(c.Context, &cfg); err != nil {
		return err
	}

	data, err := newFetcher(cfg).Fetch(c.Context, locator)
	if err != nil {
		return err
	}
	track, err := mp4reader.ReadBytes(data)
	if err != nil {
		return err
	}

	report := probeReport{
		Locator:     locator,
		Codec:       track.Codec,
		DurationSec: track.Duration(),
		Width:       track.Width,
		Height:      track.Height,
		Samples:     len(track.Samples),
		H264:        smartdecoder.IsH264Available(),
	}
	report.ChromePath, report.ChromeFrom = chromebrowser.LocateChrome(c.String("chrome-path"))

	printProbe(c.App.Writer, report)
	return nil
}

func printProbe(w io.Writer, r probeReport) {
	yesNo := func(ok bool) string {
		if ok {
			return l10n.T("available")
		}
		return l10n.T("not available")
	}

	fmt.Fprintf(w, "%s: %s\n", l10n.T("Locator"), r.Locator)
	fmt.Fprintf(w, "%s: %s\n", l10n.T("Codec"), r.Codec)
	fmt.Fprintf(w, "%s: %.3f s\n", l10n.T("Duration"), r.DurationSec)
	fmt.Fprintf(w, "%s: %dx%d\n", l10n.T("Natural Size"), r.Width, r.Height)
	fmt.Fprintf(w, "%s: %d\n", l10n.T("Samples"), r.Samples)
	fmt.Fprintf(w, "%s: %s\n", l10n.T("ffmpeg (H.264)"), yesNo(r.H264))
	if r.ChromePath != "" {
		fmt.Fprintf(w, "%s: %s (%s)\n", l10n.T("Chrome"), r.ChromePath, r.ChromeFrom)
	} else {
		fmt.Fprintf(w, "%s: %s\n", l10n.T("Chrome"), yesNo(false))
	}
	if !r.Codec.Supported() {
		fmt.Fprintln(w, l10n.T("The mp4 backend cannot decode this codec; try --backend chrome."))
	}
}
