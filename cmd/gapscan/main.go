package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/probeworks/gapscan/internal/output"
	"github.com/probeworks/gapscan/internal/progress"
	"github.com/probeworks/gapscan/pkg/analyzer/gap"
	"github.com/probeworks/gapscan/pkg/config"
	"github.com/probeworks/gapscan/pkg/report"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "gapscan",
		Usage:   "Static implementation-gap analyzer",
		Version: version,
		Description: `Gapscan finds implementation gaps in a codebase: empty control-flow
blocks, literal null returns, swallowed errors, defaultless switches, and
stub vocabulary left in function bodies. It pairs findings with TODO
annotations and fails CI when high-severity gaps are untracked.

Supports: Go, Rust, Python, TypeScript, JavaScript, Java, C, C++, Ruby`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"GAPSCAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			todosCmd(),
		},
	}

	// High-severity findings exit through cli.Exit inside Run; anything
	// that reaches here is an operational failure.
	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// getPath returns the root path from the first positional arg, defaulting
// to the current directory.
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

// loadConfig builds the run configuration from file and flags. Flags win
// over the config file; the file wins over defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.IsSet("depth") {
		cfg.Depth = config.Depth(c.String("depth"))
	}
	if c.IsSet("suggest-todos") {
		cfg.SuggestTodos = c.Bool("suggest-todos")
	}
	if c.IsSet("enhanced") {
		cfg.Output.Enhanced = c.Bool("enhanced")
	}
	if c.IsSet("include-dotfiles") {
		cfg.Loader.IncludeDotFiles = c.Bool("include-dotfiles")
	}
	if c.IsSet("include-node-modules") {
		cfg.Loader.IncludeNodeModules = c.Bool("include-node-modules")
	}
	if c.IsSet("max-file-size") {
		cfg.Loader.MaxFileSize = c.Int64("max-file-size")
	}
	if c.IsSet("exclude") {
		cfg.Loader.ExcludePatterns = c.StringSlice("exclude")
	}
	if c.IsSet("no-gitignore") {
		cfg.Loader.Gitignore = !c.Bool("no-gitignore")
	}
	for flag, field := range map[string]*bool{
		"check-empty-blocks":        &cfg.Detectors.CheckEmptyBlocks,
		"check-null-returns":        &cfg.Detectors.CheckNullReturns,
		"check-error-handling":      &cfg.Detectors.CheckErrorHandling,
		"check-switch-statements":   &cfg.Detectors.CheckSwitchStatements,
		"check-suspicious-patterns": &cfg.Detectors.CheckSuspiciousPatterns,
	} {
		if c.IsSet(flag) {
			*field = c.Bool(flag)
		}
	}
	if c.IsSet("vocabulary") {
		cfg.Detectors.SuspiciousVocabulary = c.StringSlice("vocabulary")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDepth()
	return cfg, nil
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"scan"},
		Usage:     "Analyze a directory for implementation gaps",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "depth",
				Value: "standard",
				Usage: "Analysis depth: basic, standard, deep",
			},
			&cli.BoolFlag{
				Name:  "enhanced",
				Usage: "Include per-finding detail and severity breakdown",
			},
			&cli.BoolFlag{
				Name:  "suggest-todos",
				Usage: "Suggest TODOs for findings with no annotation nearby",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a markdown report to the given path",
			},
			&cli.BoolFlag{
				Name:  "include-dotfiles",
				Usage: "Include dot-files and dot-directories",
			},
			&cli.BoolFlag{
				Name:  "include-node-modules",
				Usage: "Include dependency directories (node_modules, vendor, ...)",
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Usage: "Skip files larger than this many bytes (0 = no limit)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude paths matching gitignore-syntax patterns",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "Do not honor .gitignore files",
			},
			&cli.BoolFlag{Name: "check-empty-blocks", Value: true, Usage: "Run the empty-block detector"},
			&cli.BoolFlag{Name: "check-null-returns", Value: true, Usage: "Run the null-return detector"},
			&cli.BoolFlag{Name: "check-error-handling", Value: true, Usage: "Run the error-handling detector (owns catch-block findings)"},
			&cli.BoolFlag{Name: "check-switch-statements", Value: true, Usage: "Run the switch-default detector"},
			&cli.BoolFlag{Name: "check-suspicious-patterns", Value: true, Usage: "Run the suspicious-pattern detector"},
			&cli.StringSliceFlag{
				Name:  "vocabulary",
				Usage: "Extra suspicious-pattern vocabulary terms",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	root, err := filepath.Abs(getPath(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: invalid path: %v", err), 1)
	}

	formatter, err := output.NewFormatter(
		output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer formatter.Close()

	files, warnings, err := gap.New(cfg).Scan(root)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if len(files) == 0 && len(warnings) == 0 {
		formatter.Warning("No source files found")
		return nil
	}

	tracker := progress.NewTracker("Analyzing gaps...", len(files))
	analyzer := gap.New(cfg, gap.WithProgress(tracker.Tick))
	analysis := analyzer.AnalyzeFiles(root, files, warnings)
	tracker.FinishSuccess()

	doc := report.Build(analysis, cfg.Output.Enhanced)
	if err := formatter.Output(doc); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	reportPath := cfg.Output.ReportPath
	if c.IsSet("report") {
		reportPath = c.String("report")
	}
	if reportPath != "" {
		if err := writeMarkdownReport(doc, reportPath); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}

	printStatus(formatter, analysis)

	if analysis.HighSeverityCount() > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// printStatus appends a one-line severity tally and a pass/fail verdict
// after the text report. Structured formats stay untouched so their output
// remains machine-parseable.
func printStatus(f *output.Formatter, analysis *gap.Analysis) {
	if f.Format() != output.FormatText {
		return
	}

	parts := make([]string, 0, 3)
	for _, sev := range []gap.Severity{gap.SeverityHigh, gap.SeverityMedium, gap.SeverityLow} {
		label := fmt.Sprintf("%s: %d", sev, analysis.Summary.BySeverity[sev.String()])
		if f.Colored() {
			label = output.SeverityColor(sev.String(), label)
		}
		parts = append(parts, label)
	}
	fmt.Fprintln(f.Writer(), strings.Join(parts, "  "))

	if n := analysis.HighSeverityCount(); n > 0 {
		f.Error("%d high severity item(s) require attention", n)
	} else {
		f.Success("No high severity gaps")
	}
}

func todosCmd() *cli.Command {
	return &cli.Command{
		Name:      "todos",
		Usage:     "List TODO annotations without running gap detectors",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "include-dotfiles",
				Usage: "Include dot-files and dot-directories",
			},
			&cli.BoolFlag{
				Name:  "include-node-modules",
				Usage: "Include dependency directories (node_modules, vendor, ...)",
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Usage: "Skip files larger than this many bytes (0 = no limit)",
			},
		},
		Action: runTodosCmd,
	}
}

func runTodosCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	// TODO listing needs no detector passes.
	cfg.Detectors = config.DetectorConfig{}
	cfg.SuggestTodos = false

	root, err := filepath.Abs(getPath(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: invalid path: %v", err), 1)
	}

	// Total file count is unknown until the walk completes, so a spinner.
	spinner := progress.NewSpinner("Scanning for TODOs...")
	analyzer := gap.New(cfg, gap.WithProgress(spinner.Tick))
	analysis, err := analyzer.Analyze(root)
	if err != nil {
		spinner.FinishError(err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	spinner.FinishSuccess()
	report.Sort(analysis)

	formatter, err := output.NewFormatter(
		output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer formatter.Close()

	if len(analysis.Todos) == 0 {
		formatter.Info("No TODO annotations found")
		return nil
	}

	var rows [][]string
	for _, t := range analysis.Todos {
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d", t.File, t.Line),
			t.Description,
			t.IssueRef,
		})
	}
	table := output.NewTable(
		"TODO Annotations",
		[]string{"Location", "Description", "Issue"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(analysis.Todos)), "", ""},
		analysis.Todos,
	)
	return formatter.Output(table)
}

// writeMarkdownReport renders the document as markdown to path.
func writeMarkdownReport(doc *output.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return doc.RenderMarkdown(f)
}
