// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobboard/internal/scheduling"
	"github.com/jonathan/jobboard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	clockLayout    = "15:04"
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSlotPlan outputs the slots a window would generate, marking the
// lunch break where slots were dropped.
func (p *Printer) PrintSlotPlan(window *scheduling.Window, slots []scheduling.Interval) {
	if window == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Date:     %s\n", window.Date.Format(types.DateLayout)))
	sb.WriteString(fmt.Sprintf("Window:   %s-%s (%s)\n",
		window.Start.Format(clockLayout), window.End.Format(clockLayout), window.Start.Location()))
	sb.WriteString(fmt.Sprintf("Length:   %d min\n", window.SlotMinutes))
	sb.WriteString(fmt.Sprintf("Slots:    %d\n", len(slots)))

	if len(slots) > 0 {
		sb.WriteString("\n")
	}
	lunch := scheduling.LunchBreak(window.Date)
	lunchShown := false
	for i, slot := range slots {
		if !lunchShown && !slot.Start.Before(lunch.End) && window.Start.Before(lunch.End) && window.End.After(lunch.Start) {
			sb.WriteString(fmt.Sprintf("  -- lunch %s-%s --\n", lunch.Start.Format(clockLayout), lunch.End.Format(clockLayout)))
			lunchShown = true
		}
		sb.WriteString(fmt.Sprintf("  %2d. %s-%s", i+1, slot.Start.Format(clockLayout), slot.End.Format(clockLayout)))
		if i < len(slots)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SLOT PLAN", sb.String())
}

// PrintImportSummary outputs the slugs created and updated by a job import.
func (p *Printer) PrintImportSummary(created, updated []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Created:  %d\n", len(created)))
	writeList(&sb, created)
	sb.WriteString(fmt.Sprintf("Updated:  %d", len(updated)))
	if len(updated) > 0 {
		sb.WriteString("\n")
		writeList(&sb, updated)
	}

	p.printBox("JOB IMPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintScreeningSummary outputs per-stage scores and the aggregates.
func (p *Printer) PrintScreeningSummary(summary *types.ScreeningSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	for _, stage := range summary.Stages {
		score := "-"
		if stage.Score != nil {
			score = fmt.Sprintf("%d", *stage.Score)
		}
		mark := " "
		if stage.Noted {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-10s %s\n", mark, stage.Stage, score))
	}

	total := "pending"
	if summary.TotalScore != nil {
		total = fmt.Sprintf("%d", *summary.TotalScore)
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:    %s\n", total))
	sb.WriteString(fmt.Sprintf("Overall:  %d (%s)\n", summary.OverallScore, summary.Grade))
	sb.WriteString(fmt.Sprintf("Process:  %s", summary.InterviewProcess))

	p.printBox("SCREENING SUMMARY", sb.String())
}
