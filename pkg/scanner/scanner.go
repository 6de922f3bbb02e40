// Package scanner resolves the set of source files for an analysis run and
// loads their contents. Every per-file problem (oversized, unreadable,
// binary) is recorded as a Warning instead of failing the run; only a
// missing root is fatal.
package scanner

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/probeworks/gapscan/pkg/parser"
)

// dependencyDirs are always-excluded vendor/dependency directories unless
// IncludeNodeModules is set.
var dependencyDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"third_party":  true,
	"deps":         true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// Options controls file discovery.
type Options struct {
	IncludeDotFiles    bool
	IncludeNodeModules bool
	MaxFileSize        int64    // bytes; 0 means no limit
	ExcludePatterns    []string // gitignore-syntax patterns
	UseGitignore       bool
}

// SourceFile is one loaded source file. It is owned by a single file
// pipeline and discarded when that pipeline finishes.
type SourceFile struct {
	Path    string
	RelPath string
	Content []byte
	Size    int64
}

// Warning records a skipped file and why. Warnings are non-fatal and are
// surfaced in the report's diagnostics section.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Scanner finds and loads source files under a root.
type Scanner struct {
	opts     Options
	matchers []gitignore.Matcher
}

// New creates a scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// findGitRoot finds the enclosing git repository root, or "".
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines option patterns with .gitignore files read
// recursively from the enclosing git root.
func (s *Scanner) loadExcludePatterns(root string) {
	var patterns []gitignore.Pattern
	for _, p := range s.opts.ExcludePatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	if s.opts.UseGitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			fsys := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fsys, nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}
	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir walks root and returns the analyzable file paths plus warnings
// for files skipped on size. Symlinks that escape the root are skipped,
// which also breaks symlink cycles. A missing or unreadable root is the
// one fatal error.
func (s *Scanner) ScanDir(root string) ([]string, []Warning, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("root path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("root path %s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, nil, err
	}

	s.loadExcludePatterns(root)

	files := make([]string, 0, 1024)
	var warnings []Warning

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		base := filepath.Base(path)

		// Symlink containment: resolve and verify it stays under root.
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path != root {
				if !s.opts.IncludeDotFiles && strings.HasPrefix(base, ".") {
					return filepath.SkipDir
				}
				if !s.opts.IncludeNodeModules && dependencyDirs[base] {
					return filepath.SkipDir
				}
			}
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.opts.IncludeDotFiles && strings.HasPrefix(base, ".") {
			return nil
		}
		if s.isExcluded(relPath, false) {
			return nil
		}
		if parser.DetectLanguage(path) == parser.LangUnknown {
			return nil
		}

		if s.opts.MaxFileSize > 0 {
			fi, err := d.Info()
			if err != nil {
				warnings = append(warnings, Warning{Path: relPath, Reason: fmt.Sprintf("stat failed: %v", err)})
				return nil
			}
			if fi.Size() > s.opts.MaxFileSize {
				warnings = append(warnings, Warning{
					Path:   relPath,
					Reason: fmt.Sprintf("file size %d exceeds limit %d", fi.Size(), s.opts.MaxFileSize),
				})
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, warnings, walkErr
}

// isWithinRoot checks that path is contained within root after symlink
// resolution.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// Load reads one file into a SourceFile. Unreadable or binary files return
// a Warning and a nil SourceFile.
func (s *Scanner) Load(root, path string) (*SourceFile, *Warning) {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &Warning{Path: relPath, Reason: fmt.Sprintf("unreadable: %v", err)}
	}
	if s.opts.MaxFileSize > 0 && int64(len(content)) > s.opts.MaxFileSize {
		return nil, &Warning{
			Path:   relPath,
			Reason: fmt.Sprintf("file size %d exceeds limit %d", len(content), s.opts.MaxFileSize),
		}
	}
	if isBinary(content) {
		return nil, &Warning{Path: relPath, Reason: "binary content"}
	}

	return &SourceFile{
		Path:    path,
		RelPath: filepath.ToSlash(relPath),
		Content: content,
		Size:    int64(len(content)),
	}, nil
}

// isBinary sniffs for a NUL byte in the leading window, the same heuristic
// git uses for binary detection.
func isBinary(content []byte) bool {
	window := content
	if len(window) > 8000 {
		window = window[:8000]
	}
	return bytes.IndexByte(window, 0) >= 0
}
