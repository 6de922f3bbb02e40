package gap

import (
	"regexp"
	"strings"
)

// ioFacingPattern marks file paths whose failures tend to cross process
// boundaries. Swallowed errors there hide real outages.
var ioFacingPattern = regexp.MustCompile(
	`(?i)(^|/)(net|http|io|client|server|api|socket|db|rpc|conn|transport)[^/]*(/|\.|$)`)

// errorCodeSubject marks switch subjects that dispatch on an error or
// status code, where a missing default silently drops unknown codes.
var errorCodeSubject = regexp.MustCompile(`(?i)\b(err|error|errno|code|status)\b|Err[A-Z]|Error$|Code$|Status$`)

// testFilePattern marks test-only code, where gaps are routine scaffolding.
var testFilePattern = regexp.MustCompile(
	`(_test\.go|\.test\.[jt]sx?|\.spec\.[jt]sx?|_spec\.rb|_test\.py)$|(^|/)(test|tests|testdata|spec|__tests__)/`)

// Classifier assigns severities. The mapping is a total function: every
// category has a base severity, heuristics only shift it, and the zero
// fallback is medium so no finding reaches the report unclassified.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// Classify returns the severity for a finding. Deterministic in the
// finding's own fields.
func (c *Classifier) Classify(f Finding) Severity {
	sev := c.base(f)
	if testFilePattern.MatchString(f.File) {
		sev = sev.Reduce()
	}
	return sev
}

func (c *Classifier) base(f Finding) Severity {
	switch f.Category {
	case CategoryEmptyBlock:
		return SeverityMedium
	case CategoryNullReturn:
		return SeverityMedium
	case CategoryErrorHandling:
		if f.Detail == "empty catch" {
			return SeverityHigh
		}
		if ioFacingPattern.MatchString(f.File) {
			return SeverityHigh
		}
		return SeverityMedium
	case CategoryMissingDefault:
		if f.Subject != "" && errorCodeSubject.MatchString(f.Subject) {
			return SeverityHigh
		}
		return SeverityMedium
	case CategorySuspiciousPattern:
		if strings.HasSuffix(f.ConstructKind, "comment") {
			return SeverityLow
		}
		return SeverityMedium
	default:
		return SeverityMedium
	}
}
