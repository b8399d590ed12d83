package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rlch/autocanon/canonical"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	refStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	phraseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// printReport renders the outcome of one run.
func printReport(w io.Writer, kind string, report *canonical.Report) {
	_, _ = fmt.Fprintln(w, renderReport(kind, report))
}

func renderReport(kind string, report *canonical.Report) string {
	var lines []string

	lines = append(lines, headerStyle.Render(fmt.Sprintf(
		"%s: %d examples, %d phrases added, %d adjectives (%s)",
		kind, report.Examples, len(report.Additions), len(report.Adjectives),
		report.Elapsed.Round(time.Millisecond),
	)))

	for _, a := range report.Additions {
		lines = append(lines, fmt.Sprintf("  %s %s + %s %s",
			refStyle.Render(a.Ref.String()),
			categoryStyle.Render(string(a.Category)),
			phraseStyle.Render(a.Phrase),
			faintStyle.Render(fmt.Sprintf("(%d > %.1f)", a.Count, a.Threshold)),
		))
	}

	for _, ref := range report.Adjectives {
		lines = append(lines, fmt.Sprintf("  %s %s",
			refStyle.Render(ref.String()),
			categoryStyle.Render("apv"),
		))
	}

	return strings.Join(lines, "\n")
}
