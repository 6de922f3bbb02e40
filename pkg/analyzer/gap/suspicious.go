package gap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/probeworks/gapscan/pkg/syntax"
)

// defaultVocabulary is the built-in stub-marker vocabulary. Matches are
// case-insensitive on word boundaries.
var defaultVocabulary = []string{
	"not implemented",
	"not yet implemented",
	"unimplemented",
	"stub",
	"placeholder",
	"coming soon",
}

// SuspiciousPatternDetector flags stub-marker vocabulary inside function
// bodies, in string literals and comments. Text outside any function is
// ignored: a file-header comment saying "stub" is documentation, not a gap.
type SuspiciousPatternDetector struct {
	pattern *regexp.Regexp
}

// NewSuspiciousPatternDetector builds the detector with the default
// vocabulary plus any extra terms.
func NewSuspiciousPatternDetector(extra []string) *SuspiciousPatternDetector {
	terms := make([]string, 0, len(defaultVocabulary)+len(extra))
	for _, v := range append(append([]string{}, defaultVocabulary...), extra...) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		terms = append(terms, regexp.QuoteMeta(v))
	}
	return &SuspiciousPatternDetector{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(terms, "|") + `)\b`),
	}
}

// Name implements Detector.
func (*SuspiciousPatternDetector) Name() string { return "suspicious-pattern" }

// Detect implements Detector.
func (d *SuspiciousPatternDetector) Detect(tree *syntax.Tree) []Finding {
	var findings []Finding
	tree.Walk(func(n *syntax.Node) bool {
		var construct string
		switch {
		case n.Kind == syntax.KindComment:
			construct = "comment"
		case n.Kind == syntax.KindLiteral && syntax.IsStringLiteral(n.Type):
			construct = "string literal"
		default:
			return true
		}

		fn := tree.EnclosingFunction(n.ID)
		if fn == "" {
			return true
		}
		match := d.pattern.FindString(n.Text)
		if match == "" {
			return true
		}

		findings = append(findings, Finding{
			Category:      CategorySuspiciousPattern,
			File:          tree.Path,
			ConstructKind: construct,
			Line:          n.Span.StartLine,
			Col:           n.Span.StartCol,
			Function:      fn,
			Detail:        "suspicious marker " + strconv.Quote(match) + " in " + construct,
		})
		return true
	})
	return findings
}
