package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/probeworks/gapscan/pkg/analyzer/gap"
)

func sampleAnalysis() *gap.Analysis {
	a := &gap.Analysis{
		Findings: []gap.Finding{
			{Category: gap.CategoryNullReturn, File: "b.go", Line: 10, Col: 2, Severity: gap.SeverityMedium, Detail: "returns nil literal"},
			{Category: gap.CategoryEmptyBlock, File: "a.go", Line: 20, Col: 1, Severity: gap.SeverityMedium, Detail: "empty if statement"},
			{Category: gap.CategoryErrorHandling, File: "a.go", Line: 5, Col: 3, Severity: gap.SeverityHigh, Detail: "empty catch"},
		},
		Todos: []gap.TodoAnnotation{
			{File: "b.go", Line: 4, Description: "later"},
			{File: "a.go", Line: 9, Description: "sooner"},
		},
		Diagnostics: []gap.Diagnostic{
			{Kind: gap.DiagParse, File: "c.go", Detail: "syntax error"},
		},
		Summary: gap.NewSummary(),
	}
	a.Summary.TotalFindings = len(a.Findings)
	a.Summary.TotalTodos = len(a.Todos)
	a.Summary.BySeverity["high"] = 1
	a.Summary.BySeverity["medium"] = 2
	return a
}

func TestSort_FileThenLine(t *testing.T) {
	a := sampleAnalysis()
	Sort(a)

	if a.Findings[0].File != "a.go" || a.Findings[0].Line != 5 {
		t.Errorf("Findings[0] = %s:%d, want a.go:5", a.Findings[0].File, a.Findings[0].Line)
	}
	if a.Findings[1].File != "a.go" || a.Findings[1].Line != 20 {
		t.Errorf("Findings[1] = %s:%d, want a.go:20", a.Findings[1].File, a.Findings[1].Line)
	}
	if a.Findings[2].File != "b.go" {
		t.Errorf("Findings[2].File = %s, want b.go", a.Findings[2].File)
	}
	if a.Todos[0].File != "a.go" {
		t.Errorf("Todos[0].File = %s, want a.go", a.Todos[0].File)
	}
}

func TestBuild_DeterministicMarkdown(t *testing.T) {
	render := func() string {
		doc := Build(sampleAnalysis(), true)
		var buf bytes.Buffer
		if err := doc.RenderMarkdown(&buf); err != nil {
			t.Fatalf("RenderMarkdown: %v", err)
		}
		return buf.String()
	}

	first := render()
	for i := 0; i < 5; i++ {
		if got := render(); got != first {
			t.Fatal("repeated renders are not byte-identical")
		}
	}
}

func TestBuild_EnhancedSections(t *testing.T) {
	doc := Build(sampleAnalysis(), true)
	var buf bytes.Buffer
	if err := doc.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md := buf.String()

	for _, want := range []string{
		"## Summary",
		"## Severity Breakdown",
		"## Findings",
		"## Existing TODOs",
		"## Diagnostics",
		"empty catch",
		"High severity: 1",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("enhanced markdown missing %q", want)
		}
	}
}

func TestBuild_BasicOmitsDetail(t *testing.T) {
	doc := Build(sampleAnalysis(), false)
	var buf bytes.Buffer
	if err := doc.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md := buf.String()

	if strings.Contains(md, "Severity Breakdown") {
		t.Error("basic markdown should not contain severity breakdown")
	}
	if strings.Contains(md, "returns nil literal") {
		t.Error("basic markdown should not contain per-finding detail")
	}
}

func TestBuild_EmptySectionsDropped(t *testing.T) {
	a := &gap.Analysis{Summary: gap.NewSummary()}
	doc := Build(a, false)
	var buf bytes.Buffer
	if err := doc.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md := buf.String()
	if strings.Contains(md, "## Findings") || strings.Contains(md, "## Diagnostics") {
		t.Error("empty analysis should render summary only")
	}
}
