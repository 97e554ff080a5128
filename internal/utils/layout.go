package utils

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ResourceList builds a per-region listing of resource IDs, one line per
// resource, each followed by its fields.
type ResourceList struct {
	b            strings.Builder
	idStyle      lipgloss.Style
	headingStyle lipgloss.Style
}

// NewResourceList pads resource IDs to idWidth and renders region headings
// with headingStyle.
func NewResourceList(idWidth int, headingStyle lipgloss.Style) *ResourceList {
	return &ResourceList{
		idStyle:      lipgloss.NewStyle().Width(idWidth),
		headingStyle: headingStyle,
	}
}

// Heading writes a heading such as "us-east-1 · 2 deleted · 1 stopped".
// Empty counts are skipped.
func (l *ResourceList) Heading(title string, counts ...string) {
	parts := []string{title}
	for _, c := range counts {
		if c != "" {
			parts = append(parts, c)
		}
	}
	l.b.WriteString(l.headingStyle.Render(strings.Join(parts, " · ")) + "\n")
}

// Entry writes one resource line. Empty fields are skipped.
func (l *ResourceList) Entry(id string, fields ...string) {
	var kept []string
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	fmt.Fprintf(&l.b, "  %s %s\n", l.idStyle.Render(id), strings.Join(kept, "  "))
}

// Entries writes one line per id, each with the same fields.
func (l *ResourceList) Entries(ids []string, fields ...string) {
	for _, id := range ids {
		l.Entry(id, fields...)
	}
}

// Blank writes an empty line.
func (l *ResourceList) Blank() {
	l.b.WriteString("\n")
}

// String returns the accumulated content.
func (l *ResourceList) String() string {
	return l.b.String()
}

// Count formats n with a noun, or returns "" when n is zero.
func Count(n int, noun string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", n, noun)
}
