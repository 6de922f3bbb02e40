// Package report turns an Analysis into a rendered document with a
// deterministic ordering, so repeated runs on unchanged input produce
// byte-identical reports that diff cleanly in CI.
package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/probeworks/gapscan/internal/output"
	"github.com/probeworks/gapscan/pkg/analyzer/gap"
)

// Sort orders every slice in the analysis by file path, then line, then
// column, then category. Called once by Build; exported for callers that
// serialize the Analysis directly.
func Sort(a *gap.Analysis) {
	sort.Slice(a.Findings, func(i, j int) bool {
		fi, fj := a.Findings[i], a.Findings[j]
		if fi.File != fj.File {
			return fi.File < fj.File
		}
		if fi.Line != fj.Line {
			return fi.Line < fj.Line
		}
		if fi.Col != fj.Col {
			return fi.Col < fj.Col
		}
		return fi.Category < fj.Category
	})
	sort.Slice(a.Todos, func(i, j int) bool {
		ti, tj := a.Todos[i], a.Todos[j]
		if ti.File != tj.File {
			return ti.File < tj.File
		}
		return ti.Line < tj.Line
	})
	sort.Slice(a.MissingTodos, func(i, j int) bool {
		mi, mj := a.MissingTodos[i], a.MissingTodos[j]
		if mi.File != mj.File {
			return mi.File < mj.File
		}
		return mi.Line < mj.Line
	})
	sort.Slice(a.Diagnostics, func(i, j int) bool {
		di, dj := a.Diagnostics[i], a.Diagnostics[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Kind != dj.Kind {
			return di.Kind < dj.Kind
		}
		return di.Detail < dj.Detail
	})
}

// Build produces the renderable report. Enhanced mode adds per-finding
// detail text and a severity breakdown; basic mode sticks to counts.
func Build(a *gap.Analysis, enhanced bool) *output.Report {
	Sort(a)

	r := &output.Report{
		Title: "Implementation Gap Report",
		Data:  a,
	}

	r.Sections = append(r.Sections, summarySection(a))
	if enhanced {
		r.Sections = append(r.Sections, severityBreakdown(a))
	}
	if len(a.Findings) > 0 {
		r.Sections = append(r.Sections, findingsTable(a, enhanced))
	}
	if len(a.Todos) > 0 {
		r.Sections = append(r.Sections, todosTable(a))
	}
	if len(a.MissingTodos) > 0 {
		r.Sections = append(r.Sections, missingTodosTable(a))
	}
	if len(a.Diagnostics) > 0 {
		r.Sections = append(r.Sections, diagnosticsTable(a))
	}
	return r
}

func summarySection(a *gap.Analysis) *output.Section {
	content := fmt.Sprintf(
		"Files analyzed: %d\nFindings: %d\nExisting TODOs: %d\nMissing TODOs: %d\nHigh severity: %d",
		a.Summary.FilesAnalyzed,
		a.Summary.TotalFindings,
		a.Summary.TotalTodos,
		a.Summary.TotalMissingTodos,
		a.HighSeverityCount(),
	)
	return &output.Section{
		Title:   "Summary",
		Content: content,
		Data:    a.Summary,
	}
}

func severityBreakdown(a *gap.Analysis) *output.Table {
	rows := make([][]string, 0, 3)
	for _, sev := range []gap.Severity{gap.SeverityHigh, gap.SeverityMedium, gap.SeverityLow} {
		rows = append(rows, []string{
			sev.String(),
			strconv.Itoa(a.Summary.BySeverity[sev.String()]),
		})
	}
	return output.NewTable("Severity Breakdown",
		[]string{"Severity", "Findings"}, rows, nil, a.Summary.BySeverity)
}

func findingsTable(a *gap.Analysis, enhanced bool) *output.Table {
	headers := []string{"File", "Line", "Severity", "Category", "Function"}
	if enhanced {
		headers = append(headers, "Detail")
	}

	rows := make([][]string, 0, len(a.Findings))
	for _, f := range a.Findings {
		row := []string{
			f.File,
			strconv.Itoa(int(f.Line)),
			f.Severity.String(),
			f.Category.String(),
			f.Function,
		}
		if enhanced {
			row = append(row, f.Detail)
		}
		rows = append(rows, row)
	}
	return output.NewTable("Findings", headers, rows, nil, a.Findings)
}

func todosTable(a *gap.Analysis) *output.Table {
	rows := make([][]string, 0, len(a.Todos))
	for _, t := range a.Todos {
		rows = append(rows, []string{
			t.File,
			strconv.Itoa(int(t.Line)),
			t.Description,
			t.IssueRef,
		})
	}
	return output.NewTable("Existing TODOs",
		[]string{"File", "Line", "Description", "Issue"}, rows, nil, a.Todos)
}

func missingTodosTable(a *gap.Analysis) *output.Table {
	rows := make([][]string, 0, len(a.MissingTodos))
	for _, m := range a.MissingTodos {
		rows = append(rows, []string{
			m.File,
			strconv.Itoa(int(m.Line)),
			m.Severity.String(),
			m.Suggested,
			m.Context,
		})
	}
	return output.NewTable("Missing TODOs",
		[]string{"File", "Line", "Severity", "Suggestion", "Context"}, rows, nil, a.MissingTodos)
}

func diagnosticsTable(a *gap.Analysis) *output.Table {
	rows := make([][]string, 0, len(a.Diagnostics))
	for _, d := range a.Diagnostics {
		rows = append(rows, []string{string(d.Kind), d.File, d.Detail})
	}
	return output.NewTable("Diagnostics",
		[]string{"Kind", "File", "Detail"}, rows, nil, a.Diagnostics)
}
