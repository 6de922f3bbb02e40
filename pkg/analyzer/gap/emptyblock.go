package gap

import "github.com/probeworks/gapscan/pkg/syntax"

// EmptyBlockDetector flags control-flow constructs whose body block holds
// no statements. Comment-only bodies still count as empty. Catch blocks
// belong to ErrorHandlingDetector, which reports them under its own
// category; IncludeCatch picks them up here when that detector is not
// running, so disabling it does not silence empty catches.
type EmptyBlockDetector struct {
	IncludeCatch bool
}

// Name implements Detector.
func (EmptyBlockDetector) Name() string { return "empty-block" }

// constructKind names the flagged construct in report text.
func constructKind(k syntax.Kind) string {
	switch k {
	case syntax.KindIf:
		return "if statement"
	case syntax.KindFor:
		return "for loop"
	case syntax.KindWhile:
		return "while loop"
	case syntax.KindCatch:
		return "catch block"
	default:
		return k.String()
	}
}

// Detect implements Detector.
func (d EmptyBlockDetector) Detect(tree *syntax.Tree) []Finding {
	var findings []Finding
	tree.Walk(func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindIf, syntax.KindFor, syntax.KindWhile:
		case syntax.KindCatch:
			if !d.IncludeCatch {
				return true
			}
		default:
			return true
		}

		body := tree.BodyBlock(n.ID)
		if body == nil || !isEmptyBlock(tree, body) {
			return true
		}

		findings = append(findings, Finding{
			Category:      CategoryEmptyBlock,
			File:          tree.Path,
			ConstructKind: constructKind(n.Kind),
			Line:          n.Span.StartLine,
			Col:           n.Span.StartCol,
			Function:      tree.EnclosingFunction(n.ID),
			Detail:        "empty " + constructKind(n.Kind),
		})
		return true
	})
	return findings
}

// isEmptyBlock reports whether a block has no effective statements. Python
// `pass` is a placeholder statement, not an implementation.
func isEmptyBlock(tree *syntax.Tree, block *syntax.Node) bool {
	for _, c := range block.Children {
		child := tree.Node(c)
		if child.Kind == syntax.KindComment || child.Type == "pass_statement" {
			continue
		}
		return false
	}
	return true
}
