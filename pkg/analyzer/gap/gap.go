// Package gap detects implementation gaps: empty control-flow blocks,
// literal null returns, swallowed errors, defaultless switches, and stub
// vocabulary left in function bodies. It also extracts TODO annotations and
// can suggest TODOs for gaps that have none nearby.
package gap

import (
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/probeworks/gapscan/internal/fileproc"
	"github.com/probeworks/gapscan/pkg/config"
	"github.com/probeworks/gapscan/pkg/parser"
	"github.com/probeworks/gapscan/pkg/scanner"
	"github.com/probeworks/gapscan/pkg/syntax"
)

// todoProximity is how many lines away an existing TODO still covers a
// finding when suggesting missing TODOs.
const todoProximity = 2

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithProgress sets a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) { a.onProgress = fn }
}

// WithWorkers overrides the worker count (default 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

// Analyzer runs the full gap analysis pipeline over a file set.
type Analyzer struct {
	cfg        *config.Config
	scanner    *scanner.Scanner
	classifier *Classifier
	detectors  []Detector
	onProgress func()
	workers    int
}

// New creates an analyzer for one run. The configuration is read once here;
// nothing consults it afterwards.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg: cfg,
		scanner: scanner.New(scanner.Options{
			IncludeDotFiles:    cfg.Loader.IncludeDotFiles,
			IncludeNodeModules: cfg.Loader.IncludeNodeModules,
			MaxFileSize:        cfg.Loader.MaxFileSize,
			ExcludePatterns:    cfg.Loader.ExcludePatterns,
			UseGitignore:       cfg.Loader.Gitignore,
		}),
		classifier: NewClassifier(),
		detectors:  enabledDetectors(cfg.Detectors),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// enabledDetectors builds the detector set from configuration.
func enabledDetectors(dc config.DetectorConfig) []Detector {
	var ds []Detector
	if dc.CheckEmptyBlocks {
		// Empty catches fall back to this detector when the
		// error-handling detector is off.
		ds = append(ds, EmptyBlockDetector{IncludeCatch: !dc.CheckErrorHandling})
	}
	if dc.CheckNullReturns {
		ds = append(ds, NullReturnDetector{})
	}
	if dc.CheckErrorHandling {
		ds = append(ds, ErrorHandlingDetector{})
	}
	if dc.CheckSwitchStatements {
		ds = append(ds, SwitchDefaultDetector{})
	}
	if dc.CheckSuspiciousPatterns {
		ds = append(ds, NewSuspiciousPatternDetector(dc.SuspiciousVocabulary))
	}
	return ds
}

// fileResult is the per-file output merged into the Analysis.
type fileResult struct {
	todos       []TodoAnnotation
	findings    []Finding
	diagnostics []Diagnostic
}

// Scan resolves the file set under root without analyzing it. Callers that
// need the count up front (progress bars) scan first, then AnalyzeFiles.
func (a *Analyzer) Scan(root string) ([]string, []scanner.Warning, error) {
	files, warnings, err := a.scanner.ScanDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, warnings, nil
}

// Analyze scans root and analyzes every discovered file. Only a missing or
// unreadable root is fatal; every per-file problem degrades to a Diagnostic.
func (a *Analyzer) Analyze(root string) (*Analysis, error) {
	files, warnings, err := a.Scan(root)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFiles(root, files, warnings), nil
}

// AnalyzeFiles analyzes an explicit file list. Scan warnings are carried
// into the result as load diagnostics.
func (a *Analyzer) AnalyzeFiles(root string, files []string, warnings []scanner.Warning) *Analysis {
	diagnostics := make([]Diagnostic, 0, len(warnings))
	for _, w := range warnings {
		diagnostics = append(diagnostics, Diagnostic{Kind: DiagLoad, File: w.Path, Detail: w.Reason})
	}

	results := fileproc.MapFilesN(files, a.workers,
		func(psr *parser.Parser, path string) (fileResult, error) {
			return a.analyzeFile(psr, root, path), nil
		},
		a.onProgress, nil)

	analysis := &Analysis{
		Summary:    NewSummary(),
		AnalyzedAt: time.Now().UTC(),
	}
	analysis.Summary.FilesScanned = len(files) + len(warnings)

	for _, r := range results {
		analysis.Todos = append(analysis.Todos, r.todos...)
		analysis.Findings = append(analysis.Findings, r.findings...)
		diagnostics = append(diagnostics, r.diagnostics...)
	}
	analysis.Diagnostics = diagnostics
	analysis.Summary.FilesAnalyzed = len(results)

	if a.cfg.SuggestTodos {
		analysis.MissingTodos = suggestMissingTodos(analysis.Findings, analysis.Todos)
	}

	for _, f := range analysis.Findings {
		analysis.Summary.ByCategory[f.Category.String()]++
		analysis.Summary.BySeverity[f.Severity.String()]++
	}
	analysis.Summary.TotalFindings = len(analysis.Findings)
	analysis.Summary.TotalTodos = len(analysis.Todos)
	analysis.Summary.TotalMissingTodos = len(analysis.MissingTodos)

	return analysis
}

// analyzeFile runs the whole per-file pipeline: load, TODO scan, parse,
// detect, classify. Every failure mode lands in the result's diagnostics.
func (a *Analyzer) analyzeFile(psr *parser.Parser, root, path string) fileResult {
	var res fileResult

	src, warn := a.scanner.Load(root, path)
	if warn != nil {
		res.diagnostics = append(res.diagnostics, Diagnostic{
			Kind: DiagLoad, File: warn.Path, Detail: warn.Reason,
		})
		return res
	}

	// TODO extraction is lexical and survives files the parser rejects.
	res.todos = ExtractTodos(src.Content, src.RelPath)

	if len(a.detectors) == 0 {
		return res
	}

	lang := parser.DetectLanguage(src.Path)
	parsed, err := psr.Parse(src.Content, lang, src.RelPath)
	if err != nil {
		res.diagnostics = append(res.diagnostics, Diagnostic{
			Kind: DiagParse, File: src.RelPath, Detail: err.Error(),
		})
		return res
	}
	defer parsed.Tree.Close()

	tree := syntax.Build(parsed)
	for _, d := range a.detectors {
		findings, derr := runDetector(d, tree)
		if derr != nil {
			res.diagnostics = append(res.diagnostics, Diagnostic{
				Kind: DiagDetector, File: src.RelPath,
				Detail: fmt.Sprintf("%s: %v", d.Name(), derr),
			})
			continue
		}
		res.findings = append(res.findings, findings...)
	}

	for i := range res.findings {
		res.findings[i].Severity = a.classifier.Classify(res.findings[i])
		res.findings[i].ContextHash = contextHash(res.findings[i])
	}
	return res
}

// runDetector isolates one detector pass. A panic on an unexpected tree
// shape becomes an error for this file and detector only.
func runDetector(d Detector, tree *syntax.Tree) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return d.Detect(tree), nil
}

// contextHash is a stable identity for a finding, usable to track it across
// runs when line numbers shift elsewhere in the file.
func contextHash(f Finding) string {
	h := blake3.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", f.File, f.Category, f.Line, f.Detail)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// suggestMissingTodos pairs findings with nearby TODO annotations and emits
// a suggestion for each finding left uncovered.
func suggestMissingTodos(findings []Finding, todos []TodoAnnotation) []MissingTodo {
	byFile := make(map[string][]uint32)
	for _, t := range todos {
		byFile[t.File] = append(byFile[t.File], t.Line)
	}
	for _, lines := range byFile {
		sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	}

	var missing []MissingTodo
	for _, f := range findings {
		if hasNearbyTodo(byFile[f.File], f.Line) {
			continue
		}
		context := f.ConstructKind
		if f.Function != "" {
			context = f.ConstructKind + " in " + f.Function
		}
		missing = append(missing, MissingTodo{
			File:      f.File,
			Line:      f.Line,
			Suggested: "TODO: resolve " + f.Detail,
			Severity:  f.Severity,
			Context:   context,
		})
	}
	return missing
}

// hasNearbyTodo reports whether any TODO line falls within the proximity
// window of line.
func hasNearbyTodo(lines []uint32, line uint32) bool {
	for _, l := range lines {
		if l+todoProximity >= line && l <= line+todoProximity {
			return true
		}
	}
	return false
}
