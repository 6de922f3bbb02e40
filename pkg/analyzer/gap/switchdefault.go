package gap

import (
	"strings"

	"github.com/probeworks/gapscan/pkg/syntax"
)

// SwitchDefaultDetector flags switch statements that have no default
// clause. The switch subject is recorded so the classifier can escalate
// dispatches on error-code-like identifiers.
type SwitchDefaultDetector struct{}

// Name implements Detector.
func (SwitchDefaultDetector) Name() string { return "switch-default" }

// Detect implements Detector.
func (SwitchDefaultDetector) Detect(tree *syntax.Tree) []Finding {
	var findings []Finding
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind != syntax.KindSwitch {
			return true
		}
		if hasDefaultClause(tree, n) {
			return true
		}

		subject := switchSubject(tree, n)
		detail := "switch without default clause"
		if subject != "" {
			detail = "switch on " + subject + " without default clause"
		}
		findings = append(findings, Finding{
			Category:      CategoryMissingDefault,
			File:          tree.Path,
			ConstructKind: "switch statement",
			Line:          n.Span.StartLine,
			Col:           n.Span.StartCol,
			Function:      tree.EnclosingFunction(n.ID),
			Subject:       subject,
			Detail:        detail,
		})
		return true
	})
	return findings
}

// hasDefaultClause scans the switch subtree for a default clause, not
// descending into nested switches.
func hasDefaultClause(tree *syntax.Tree, sw *syntax.Node) bool {
	found := false
	tree.WalkFrom(sw.ID, func(n *syntax.Node) bool {
		if found {
			return false
		}
		if n.ID != sw.ID && n.Kind == syntax.KindSwitch {
			return false
		}
		// Ruby case/else: the else arm shows up as a bare block child of
		// the case node.
		if n.Kind == syntax.KindSwitchDefault || n.Type == "else" {
			found = true
			return false
		}
		return true
	})
	return found
}

// switchSubject extracts the dispatched-on expression text: the first child
// that is not a case arm or the statement body.
func switchSubject(tree *syntax.Tree, sw *syntax.Node) string {
	for _, c := range sw.Children {
		child := tree.Node(c)
		switch child.Kind {
		case syntax.KindSwitchCase, syntax.KindSwitchDefault,
			syntax.KindBlock, syntax.KindComment:
			continue
		}
		// JS and Java wrap the case arms in a body node of their own.
		if child.Type == "switch_body" || child.Type == "switch_block" {
			continue
		}
		text := strings.TrimSpace(tree.TextOf(c))
		text = strings.TrimPrefix(text, "(")
		text = strings.TrimSuffix(text, ")")
		if len(text) > 60 {
			text = text[:60]
		}
		return strings.TrimSpace(text)
	}
	return ""
}
