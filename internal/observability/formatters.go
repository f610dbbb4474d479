// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/report"
	"github.com/a-tejada/cv-converter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecord outputs a human-readable summary of a normalized candidate record.
func (p *Printer) PrintRecord(record *types.CandidateRecord, hasRelevantExperience bool) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", record.CandidateName))
	sb.WriteString(fmt.Sprintf("Position:  %s\n", record.Position))
	if record.Email != "" || record.Phone != "" {
		sb.WriteString(fmt.Sprintf("Contact:   %s\n", strings.Trim(record.Email+" | "+record.Phone, " |")))
	}
	if record.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", record.Location))
	}
	relevant := "no"
	if hasRelevantExperience {
		relevant = "yes"
	}
	sb.WriteString(fmt.Sprintf("Formation Bio experience: %s\n", relevant))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Experiences (%d):\n", len(record.Experiences)))
	count := min(len(record.Experiences), maxItemsToShow)
	for i := 0; i < count; i++ {
		exp := record.Experiences[i]
		sb.WriteString(fmt.Sprintf("  • %s, %s\n", exp.Role, exp.Company))
		if d := formatting.FormatDuration(exp.StartDate, exp.EndDate); d != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", d))
		}
	}
	if len(record.Experiences) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Experiences)-maxItemsToShow))
	}

	if len(record.Education) > 0 || len(record.Certifications) > 0 {
		sb.WriteString(fmt.Sprintf("\nEducation: %d   Certifications: %d\n", len(record.Education), len(record.Certifications)))
	}
	if len(record.TechnicalSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(record.TechnicalSkills, ", ")))
	}

	p.printBox("CANDIDATE RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintViolations outputs any integrity or review findings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		mark := "⚠"
		if v.Severity == "error" {
			mark = "✖"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", v.Details))
		if v.Part != "" {
			sb.WriteString(fmt.Sprintf("  in %s\n", v.Part))
		}
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VIOLATIONS", sb.String())
}

// PrintBatch outputs one line per converted document and the totals.
func (p *Printer) PrintBatch(entries []report.Entry, elapsed time.Duration) {
	var sb strings.Builder
	failed, needsReview := 0, 0

	for _, e := range entries {
		status := e.Status()
		switch status {
		case "failed":
			failed++
			sb.WriteString(fmt.Sprintf("✖ %s: %s\n", e.Source, e.Error))
			continue
		case "warning":
			sb.WriteString(fmt.Sprintf("⚠ %s → %s (%d warnings)\n", e.Source, e.Output, len(e.Warnings)))
		default:
			sb.WriteString(fmt.Sprintf("✔ %s → %s\n", e.Source, e.Output))
		}
		if !e.HasRelevantExperience {
			needsReview++
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Converted: %d   Failed: %d   Needs follow-up: %d\n", len(entries)-failed, failed, needsReview))
	sb.WriteString(fmt.Sprintf("Elapsed:   %s", elapsed.Round(time.Millisecond)))

	p.printBox("BATCH SUMMARY", sb.String())
}
