package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for the summary title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// borderStyle defines the style for the summary borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// infoStyle defines the style for the summary text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))
)

// RunSummary holds the end-of-run counters of one extraction pass.
type RunSummary struct {
	OutputPath string
	Parsed     int
	Retained   int
	Records    int
	Bytes      int
	Digest     string
	CheckOnly  bool
}

// Render returns the styled terminal summary of the run.
func (s *RunSummary) Render() string {
	mode := "generate"
	if s.CheckOnly {
		mode = "check"
	}

	var body strings.Builder
	body.WriteString(infoStyle.Render(fmt.Sprintf("Mode:       %s", mode)) + "\n")
	body.WriteString(infoStyle.Render(fmt.Sprintf("Output:     %s", s.OutputPath)) + "\n")
	body.WriteString(infoStyle.Render(fmt.Sprintf("Parsed:     %s declarations", humanize.Comma(int64(s.Parsed)))) + "\n")
	body.WriteString(infoStyle.Render(fmt.Sprintf("Retained:   %s declarations", humanize.Comma(int64(s.Retained)))) + "\n")
	body.WriteString(infoStyle.Render(fmt.Sprintf("Emitted:    %s records (%s)", humanize.Comma(int64(s.Records)), humanize.Bytes(uint64(s.Bytes)))) + "\n")
	body.WriteString(infoStyle.Render(fmt.Sprintf("Digest:     %s", shortDigest(s.Digest))))

	return titleStyle.Render("mxgen") + "\n" + borderStyle.Render(body.String())
}

func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}

	return digest
}
