package gap

import "time"

// Category identifies the kind of implementation gap a Finding reports.
type Category string

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

const (
	CategoryEmptyBlock        Category = "emptyBlock"
	CategoryNullReturn        Category = "nullReturn"
	CategoryErrorHandling     Category = "incompleteErrorHandling"
	CategoryMissingDefault    Category = "missingSwitchDefault"
	CategorySuspiciousPattern Category = "suspiciousPattern"
)

// Severity ranks how urgently a gap should be addressed. It gates the CI
// exit status: any high-severity item fails the run.
type Severity string

// String implements fmt.Stringer.
func (s Severity) String() string { return string(s) }

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight returns a numeric weight for sorting.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Escalate increases severity by one level (max high).
func (s Severity) Escalate() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return s
	}
}

// Reduce decreases severity by one level (min low).
func (s Severity) Reduce() Severity {
	switch s {
	case SeverityHigh:
		return SeverityMedium
	case SeverityMedium:
		return SeverityLow
	default:
		return s
	}
}

// Finding is one detected implementation gap, tied to a source location.
type Finding struct {
	Category      Category `json:"category"`
	File          string   `json:"file"`
	ConstructKind string   `json:"construct_kind"`
	Line          uint32   `json:"line"`
	Col           uint32   `json:"col"`
	Function      string   `json:"function,omitempty"`
	Subject       string   `json:"subject,omitempty"` // switch subject text, for severity heuristics
	Detail        string   `json:"detail"`
	Severity      Severity `json:"severity"`
	ContextHash   string   `json:"context_hash,omitempty"`
}

// TodoAnnotation is a validated TODO comment: the description is non-empty
// after trimming, with any trailing issue reference split out.
type TodoAnnotation struct {
	File        string `json:"file"`
	Line        uint32 `json:"line"`
	Description string `json:"description"`
	IssueRef    string `json:"issue_ref,omitempty"` // "#N"
	Raw         string `json:"raw"`
}

// MissingTodo suggests a TODO for a finding that has no annotation nearby,
// so external tooling can turn the gap into a tracked work item.
type MissingTodo struct {
	File      string   `json:"file"`
	Line      uint32   `json:"line"`
	Suggested string   `json:"suggested_todo"`
	Severity  Severity `json:"severity"`
	Context   string   `json:"context"`
}

// DiagnosticKind classifies a recorded non-fatal problem.
type DiagnosticKind string

const (
	DiagLoad     DiagnosticKind = "load"
	DiagParse    DiagnosticKind = "parse"
	DiagDetector DiagnosticKind = "detector"
)

// Diagnostic records a per-file problem that degraded but did not abort
// the run. All diagnostics surface in the report.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	File   string         `json:"file"`
	Detail string         `json:"detail"`
}

// Summary provides aggregate statistics for an Analysis.
type Summary struct {
	FilesScanned      int            `json:"files_scanned"`
	FilesAnalyzed     int            `json:"files_analyzed"`
	TotalFindings     int            `json:"total_findings"`
	TotalTodos        int            `json:"total_todos"`
	TotalMissingTodos int            `json:"total_missing_todos"`
	ByCategory        map[string]int `json:"by_category"`
	BySeverity        map[string]int `json:"by_severity"`
}

// NewSummary creates an initialized summary.
func NewSummary() Summary {
	return Summary{
		ByCategory: make(map[string]int),
		BySeverity: make(map[string]int),
	}
}

// Analysis is the aggregate result of one run. It is a read-only artifact
// once returned: the report builder sorts and renders it but nothing
// mutates it afterwards.
type Analysis struct {
	Todos        []TodoAnnotation `json:"existing_todos"`
	MissingTodos []MissingTodo    `json:"missing_todos"`
	Findings     []Finding        `json:"findings"`
	Diagnostics  []Diagnostic     `json:"diagnostics,omitempty"`
	Summary      Summary          `json:"summary"`

	// AnalyzedAt is for callers only. It stays out of rendered reports so
	// repeated runs on unchanged input stay byte-identical for diffing.
	AnalyzedAt time.Time `json:"-"`
}

// HighSeverityCount counts high-severity findings plus high-severity
// missing-TODO suggestions. The CLI exits nonzero when this is nonzero.
func (a *Analysis) HighSeverityCount() int {
	n := 0
	for _, f := range a.Findings {
		if f.Severity == SeverityHigh {
			n++
		}
	}
	for _, m := range a.MissingTodos {
		if m.Severity == SeverityHigh {
			n++
		}
	}
	return n
}
