// Package report prints the analytical summary of a conversion run.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/talifan/adv-reverse2seaf/internal/pipeline"
)

// Status classifies how the produced entities relate to the source count.
type Status string

const (
	StatusOK       Status = "OK"
	StatusMismatch Status = "MISMATCH"
	StatusDerived  Status = "DERIVED"
	StatusNA       Status = "N/A"
)

// Row is one line of the summary table.
type Row struct {
	Name        string
	SourceCount int
	Converted   int
	Status      Status
	Targets     []pipeline.KindCount
}

// Rows classifies each step report, ordered by name.
func Rows(steps []pipeline.StepReport) []Row {
	rows := make([]Row, 0, len(steps))
	for _, step := range steps {
		name := step.Source
		if name == "" {
			name = step.Name
		}
		targets := append([]pipeline.KindCount(nil), step.Produced...)
		sort.Slice(targets, func(i, j int) bool { return targets[i].Kind < targets[j].Kind })
		rows = append(rows, Row{
			Name:        name,
			SourceCount: step.SourceCount,
			Converted:   step.Total(),
			Status:      classify(step),
			Targets:     targets,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func classify(step pipeline.StepReport) Status {
	total := step.Total()
	switch {
	case step.SourceCount == 0 && total == 0:
		return StatusNA
	case step.Source == "" && step.SourceCount == 0:
		return StatusDerived
	}

	match := false
	switch len(step.Produced) {
	case 0:
		match = step.SourceCount == 0
	case 1:
		match = step.SourceCount == total
	default:
		// A source kind feeding several target kinds matches when any one of
		// them has the source count.
		for _, kc := range step.Produced {
			if kc.Count == step.SourceCount {
				match = true
				break
			}
		}
	}
	if match {
		return StatusOK
	}
	return StatusMismatch
}

// ColorEnabled reports whether f is a terminal that should get styled output.
func ColorEnabled(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type styles struct {
	heading, ok, warn, bad lipgloss.Style
	color                  bool
}

func newStyles(color bool) styles {
	return styles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		color:   color,
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return style.Render(text)
}

func (s styles) status(status Status) string {
	text := fmt.Sprintf("%-10s", status)
	switch status {
	case StatusOK:
		return s.render(s.ok, text)
	case StatusMismatch:
		return s.render(s.bad, text)
	default:
		return s.render(s.warn, text)
	}
}

// Summary writes the summary table, skipped step names and discrepancies.
func Summary(w io.Writer, result *pipeline.Result, color bool) {
	st := newStyles(color)
	rows := Rows(result.Steps)

	fmt.Fprintf(w, "\n%s\n", st.render(st.heading, "--- Analytical Summary ---"))
	fmt.Fprintf(w, "\n%s\n", st.render(st.heading, "Overall Conversion Status:"))
	fmt.Fprintf(w, "%-80s %-15s %-18s %-10s\n", "Source/Target Entity Type", "Source Count", "Converted Count", "Status")
	fmt.Fprintf(w, "%-80s %-15s %-18s %-10s\n", strings.Repeat("-", 80), strings.Repeat("-", 15), strings.Repeat("-", 18), strings.Repeat("-", 10))

	var discrepancies []string
	for _, row := range rows {
		fmt.Fprintf(w, "%-80s %-15d %-18d %s\n", row.Name, row.SourceCount, row.Converted, st.status(row.Status))
		for _, target := range row.Targets {
			fmt.Fprintf(w, "%-80s %-15s %-18d\n", "  -> "+target.Kind, "", target.Count)
		}
		if row.Status == StatusMismatch {
			discrepancies = append(discrepancies, fmt.Sprintf("  - Source '%s' (%d found) resulted in %d converted entities.",
				row.Name, row.SourceCount, row.Converted))
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.render(st.heading, "Issues During Conversion:"))
		fmt.Fprintf(w, "\n%s\n", st.render(st.warn, "  Skipped Entities (no converter found):"))
		for _, name := range result.Skipped {
			fmt.Fprintf(w, "    - %s\n", name)
		}
	}

	if len(discrepancies) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.render(st.heading, "Detailed Discrepancies:"))
		for _, line := range discrepancies {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintf(w, "\n%s\n", st.render(st.heading, "--- End of Summary ---"))
}

// Warnings writes one rendered warning per line.
func Warnings(w io.Writer, result *pipeline.Result) {
	for _, line := range result.WarningLines() {
		fmt.Fprintln(w, line)
	}
}
