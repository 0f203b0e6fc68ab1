// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the show and export commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
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

// PrintDocument outputs a human-readable summary of a draft, one box per section.
func (p *Printer) PrintDocument(doc types.ResumeDocument) {
	p.PrintPersonal(doc)
	if doc.Summary != "" {
		p.printBox("SUMMARY", wrap(doc.Summary, boxWidth-4))
	}
	p.PrintSkills(doc.Skills)
	p.PrintExperience(doc.Experience)
	p.PrintEducation(doc.Education)
}

// PrintPersonal outputs the contact block and the selected template.
func (p *Printer) PrintPersonal(doc types.ResumeDocument) {
	var sb strings.Builder
	pi := doc.Personal

	sb.WriteString(fmt.Sprintf("Name:      %s\n", doc.FullName()))
	if pi.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", pi.Title))
	}
	for _, row := range []struct{ label, value string }{
		{"Email", pi.Email},
		{"Phone", pi.Phone},
		{"Location", pi.Location},
		{"LinkedIn", pi.LinkedIn},
		{"Website", pi.Website},
	} {
		if row.value != "" {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", row.label+":", row.value))
		}
	}
	sb.WriteString(fmt.Sprintf("Template:  %s", doc.Template))

	p.printBox("PERSONAL", sb.String())
}

// PrintSkills outputs the skill list in order.
func (p *Printer) PrintSkills(skills []string) {
	if len(skills) == 0 {
		p.printBox("SKILLS", "(none)")
		return
	}
	p.printBox(fmt.Sprintf("SKILLS (%d)", len(skills)), wrap(strings.Join(skills, ", "), boxWidth-4))
}

// PrintExperience outputs the experience entries with their ids, which the
// edit endpoints address them by.
func (p *Printer) PrintExperience(entries []types.ExperienceEntry) {
	if len(entries) == 0 {
		p.printBox("EXPERIENCE", "(none)")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("• %s\n", orPlaceholder(types.JoinNonEmpty(" at ", e.Title, e.Company))))
		if dates := types.JoinNonEmpty(" – ", e.Start, e.End); dates != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", dates))
		}
		if e.Description != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", truncate(e.Description, 50)))
		}
		sb.WriteString(fmt.Sprintf("  id: %s", e.ID))
		if i < len(entries)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox(fmt.Sprintf("EXPERIENCE (%d)", len(entries)), sb.String())
}

// PrintEducation outputs the education entries. Long lists are cut short.
func (p *Printer) PrintEducation(entries []types.EducationEntry) {
	if len(entries) == 0 {
		p.printBox("EDUCATION", "(none)")
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		sb.WriteString(fmt.Sprintf("• %s\n", orPlaceholder(types.JoinNonEmpty(", ", e.Degree, e.School))))
		if e.Year != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", e.Year))
		}
		sb.WriteString(fmt.Sprintf("  id: %s", e.ID))
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more", len(entries)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("EDUCATION (%d)", len(entries)), sb.String())
}

// PrintExport outputs where an exported file was written and its page size.
func (p *Printer) PrintExport(file *export.File, path string) {
	if file == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s\n", file.Name))
	sb.WriteString(fmt.Sprintf("Path:   %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:   %d bytes\n", len(file.Data)))
	sb.WriteString(fmt.Sprintf("Page:   %.0f × %.0f pt", file.Page.Width, file.Page.Height))

	p.printBox("✅ EXPORT COMPLETE", sb.String())
}

func orPlaceholder(s string) string {
	if s == "" {
		return "(untitled)"
	}
	return s
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
