// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/atsbuddy/ats-buddy/internal/types"
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

// writeList writes up to maxItemsToShow entries of a bullet list.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs a human-readable summary of an analysis result.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compatibility Score: %d/100\n\n", result.CompatibilityScore))

	writeList(&sb, "Missing Keywords:", result.MissingKeywords)
	writeList(&sb, "Missing Technical Skills:", result.MissingSkills.Technical)
	writeList(&sb, "Missing Soft Skills:", result.MissingSkills.Soft)
	writeList(&sb, "Strengths:", result.Strengths)
	writeList(&sb, "Suggestions:", result.Suggestions)

	p.printBox("COMPATIBILITY ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnhancement outputs a summary of an enhancement result. The enhanced
// text itself is written separately; this box covers the metadata.
func (p *Printer) PrintEnhancement(result *types.EnhancementResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Length: %d -> %d characters\n", result.OriginalLength, result.EnhancedLength))
	if result.Truncated {
		sb.WriteString("WARNING: output may be truncated\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Keywords Added:", result.KeywordsAdded)
	writeList(&sb, "Improvements:", result.ImprovementsMade)

	p.printBox("RESUME ENHANCEMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs pipeline warnings, if any.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("  • %s\n", w))
	}
	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
