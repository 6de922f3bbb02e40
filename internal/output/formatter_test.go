package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
		"text":     FormatText,
		"":         FormatText,
		"bogus":    FormatText,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestTable_RenderMarkdown(t *testing.T) {
	table := NewTable("Findings",
		[]string{"File", "Line"},
		[][]string{{"a.go", "5"}, {"b.go", "10"}},
		[]string{"Total: 2", ""},
		nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md := buf.String()

	for _, want := range []string{
		"## Findings",
		"| File | Line |",
		"| --- | --- |",
		"| a.go | 5 |",
		"| Total: 2 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTable_RenderDataFallsBackToRows(t *testing.T) {
	table := NewTable("", []string{"K", "V"}, [][]string{{"a", "1"}}, nil, nil)
	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want []map[string]string", table.RenderData())
	}
	if data[0]["K"] != "a" || data[0]["V"] != "1" {
		t.Errorf("RenderData() = %v", data)
	}
}

func TestSection_RenderText(t *testing.T) {
	s := &Section{
		Title:   "Summary",
		Content: "Findings: 3",
		Sections: []Section{
			{Title: "Details", Content: "nested"},
		},
	}
	var buf bytes.Buffer
	if err := s.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Summary\n=======") {
		t.Errorf("missing top-level underline:\n%s", out)
	}
	if !strings.Contains(out, "Details\n-------") {
		t.Errorf("missing nested underline:\n%s", out)
	}
}

func TestFormatter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}

	table := NewTable("T", []string{"A"}, [][]string{{"x"}}, nil, map[string]int{"count": 1})
	if err := f.Output(table); err != nil {
		t.Fatalf("Output: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["count"] != 1 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFormatter_MessageHelpers(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}

	f.Success("scanned %d files", 3)
	f.Warning("skipped %s", "big.go")
	f.Error("no parsers for %s", "x.bin")
	f.Info("report written")

	out := buf.String()
	for _, want := range []string{
		"scanned 3 files",
		"WARNING: skipped big.go",
		"ERROR: no parsers for x.bin",
		"report written",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSeverityColor(t *testing.T) {
	for _, sev := range []string{"high", "medium", "low", "HIGH"} {
		if got := SeverityColor(sev, "label"); !strings.Contains(got, "label") {
			t.Errorf("SeverityColor(%q) lost the text: %q", sev, got)
		}
	}
	if got := SeverityColor("unranked", "label"); got != "label" {
		t.Errorf("unknown severity must pass through, got %q", got)
	}
}

func TestReport_MarkdownComposition(t *testing.T) {
	r := &Report{
		Title: "Implementation Gap Report",
		Sections: []Renderable{
			&Section{Title: "Summary", Content: "ok"},
			NewTable("Findings", []string{"File"}, [][]string{{"a.go"}}, nil, nil),
		},
	}
	var buf bytes.Buffer
	if err := r.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md := buf.String()
	if !strings.HasPrefix(md, "# Implementation Gap Report") {
		t.Errorf("missing title:\n%s", md)
	}
	if !strings.Contains(md, "## Summary") || !strings.Contains(md, "## Findings") {
		t.Errorf("missing sections:\n%s", md)
	}
}
