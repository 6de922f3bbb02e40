package gap

import (
	"regexp"
	"strings"

	"github.com/probeworks/gapscan/pkg/syntax"
)

// loggingCallPattern matches the fixed vocabulary of log-only statements: a
// catch body made of nothing but these swallows the error.
var loggingCallPattern = regexp.MustCompile(
	`^\s*(console\.(log|error|warn|info|debug)|` +
		`log\.|logger\.|logging\.|` +
		`fmt\.Print|print\(|println\(|puts\s|puts\(|` +
		`System\.(out|err)\.print|` +
		`e\.printStackTrace|\w+\.printStackTrace)`)

// ErrorHandlingDetector flags catch blocks that swallow errors: either
// structurally empty, or containing only logging calls with no rethrow,
// assignment, or other recovery. The two cases carry distinct Detail text
// ("empty catch" vs "only logging") under one category.
type ErrorHandlingDetector struct{}

// Name implements Detector.
func (ErrorHandlingDetector) Name() string { return "error-handling" }

// Detect implements Detector.
func (ErrorHandlingDetector) Detect(tree *syntax.Tree) []Finding {
	var findings []Finding
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind != syntax.KindCatch {
			return true
		}

		body := tree.BodyBlock(n.ID)
		var detail string
		switch {
		case body == nil || isEmptyBlock(tree, body):
			detail = "empty catch"
		case isLoggingOnly(tree, body):
			detail = "only logging"
		default:
			return true
		}

		findings = append(findings, Finding{
			Category:      CategoryErrorHandling,
			File:          tree.Path,
			ConstructKind: "catch block",
			Line:          n.Span.StartLine,
			Col:           n.Span.StartCol,
			Function:      tree.EnclosingFunction(n.ID),
			Detail:        detail,
		})
		return true
	})
	return findings
}

// isLoggingOnly reports whether every statement in the block is a logging
// call. Any rethrow, return, assignment, or non-logging call means the
// handler does real work.
func isLoggingOnly(tree *syntax.Tree, block *syntax.Node) bool {
	sawLogging := false
	for _, c := range block.Children {
		child := tree.Node(c)
		if child.Kind == syntax.KindComment {
			continue
		}
		if !isLoggingStatement(tree, child) {
			return false
		}
		sawLogging = true
	}
	return sawLogging
}

// isLoggingStatement matches a statement whose entire effect is one logging
// call from the known vocabulary.
func isLoggingStatement(tree *syntax.Tree, n *syntax.Node) bool {
	// Throw/raise/return statements are recovery, never logging.
	if strings.Contains(n.Type, "throw") || strings.Contains(n.Type, "raise") ||
		n.Kind == syntax.KindReturn {
		return false
	}

	call := n
	if n.Kind != syntax.KindCall {
		// Expression statements wrap the call one level down.
		if len(n.Children) != 1 {
			return false
		}
		call = tree.Node(n.Children[0])
		if call.Kind != syntax.KindCall {
			return false
		}
	}
	return loggingCallPattern.MatchString(call.Text)
}
