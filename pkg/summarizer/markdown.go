package summarizer

import (
	"fmt"
	"math"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if translate != nil {
			f.translate = translate
		}
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Extraction Summary"))

	// Source
	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.tableHeader(&b)
	f.row(&b, "Locator", s.Source.Locator)
	f.row(&b, "Backend", orNA(s.Source.Backend, t))
	f.row(&b, "Duration", formatSeconds(s.Source.DurationSec))
	f.row(&b, "Natural Size", formatSize(s.Source.Width, s.Source.Height, t))
	b.WriteString("\n")

	// Plan
	fmt.Fprintf(&b, "## %s\n\n", t("Sampling Plan"))
	f.tableHeader(&b)
	if s.Plan.Explicit {
		f.row(&b, "Mode", t("Explicit offsets"))
	} else {
		f.row(&b, "Mode", t("Evenly spaced"))
		f.row(&b, "Window", fmt.Sprintf("%s - %s", formatSeconds(s.Plan.StartSec), formatSeconds(s.Plan.EndSec)))
		f.row(&b, "Interval", formatSeconds(s.Plan.IntervalSec))
	}
	f.row(&b, "Planned Frames", fmt.Sprintf("%d", s.Plan.Count))
	f.row(&b, "Frame Size", formatSize(s.Plan.Width, s.Plan.Height, t))
	f.row(&b, "Format", orNA(s.Plan.Format, t))
	b.WriteString("\n")

	// Frames
	fmt.Fprintf(&b, "## %s\n\n", t("Frames"))
	if len(s.Frames) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No frames were extracted."))
	} else {
		fmt.Fprintf(&b, "| # | %s | %s | %s |\n", t("Offset"), t("File"), t("Size"))
		b.WriteString("|---|---|---|---|\n")
		for _, fr := range s.Frames {
			file := fr.File
			if file == "" {
				file = "-"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", fr.Index+1, formatSeconds(fr.OffsetSec), file, formatBytes(int64(fr.Bytes)))
		}
		b.WriteString("\n")
	}

	// Output
	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	f.tableHeader(&b)
	f.row(&b, "Directory", orNA(s.Output.Dir, t))
	if s.Output.Manifest != "" {
		f.row(&b, "Manifest", s.Output.Manifest)
	}
	if s.Output.Sprite != "" {
		f.row(&b, "Sprite", fmt.Sprintf("%s (%dx%d)", s.Output.Sprite, s.Output.SpriteWidth, s.Output.SpriteHeight))
	}
	f.row(&b, "Total Size", formatBytes(s.Output.TotalBytes))
	f.row(&b, "Extraction Time", fmt.Sprintf("%d ms", s.Output.ElapsedMs))
	b.WriteString("\n")

	b.WriteString("---\n\n")
	generated := s.GeneratedAt.Format("2006-01-02 15:04:05")
	if f.version != "" {
		fmt.Fprintf(&b, "%s framesnap %s (%s)\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&b, "%s framesnap (%s)\n", t("Generated by"), generated)
	}

	return b.String()
}

func (f *MarkdownFormatter) tableHeader(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func orNA(s string, t func(string) string) string {
	if s == "" {
		return t("N/A")
	}
	return s
}

func formatSize(w, h int, t func(string) string) string {
	if w <= 0 || h <= 0 {
		return t("N/A")
	}
	return fmt.Sprintf("%dx%d", w, h)
}

// formatSeconds renders seconds with millisecond precision.
func formatSeconds(sec float64) string {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return "-"
	}
	return fmt.Sprintf("%.3f s", sec)
}

// formatBytes formats bytes to a human-readable string.
func formatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
