package gap

import (
	"github.com/probeworks/gapscan/pkg/parser"
	"github.com/probeworks/gapscan/pkg/syntax"
)

// NullReturnDetector flags return statements whose sole value is a literal
// null (nil, null, None, undefined). Computed expressions that may evaluate
// to null are out of scope: only the literal form is a gap signal.
type NullReturnDetector struct{}

// Name implements Detector.
func (NullReturnDetector) Name() string { return "null-return" }

// Detect implements Detector.
func (NullReturnDetector) Detect(tree *syntax.Tree) []Finding {
	var findings []Finding
	tree.Walk(func(n *syntax.Node) bool {
		if n.Kind != syntax.KindReturn {
			return true
		}

		if len(n.Children) == 1 {
			child := tree.Node(n.Children[0])
			// Go wraps return values in an expression_list.
			if child.Type == "expression_list" && len(child.Children) == 1 {
				child = tree.Node(child.Children[0])
			}
			if syntax.IsNullLiteral(child.Type) {
				findings = append(findings, Finding{
					Category:      CategoryNullReturn,
					File:          tree.Path,
					ConstructKind: "return statement",
					Line:          n.Span.StartLine,
					Col:           n.Span.StartCol,
					Function:      tree.EnclosingFunction(n.ID),
					Detail:        "returns " + child.Type + " literal",
				})
			}
			return true
		}

		// A bare return in a function declaring a non-void result is a
		// gap only in languages where that even parses.
		if len(n.Children) == 0 && bareReturnLang(tree.Lang) {
			fn := tree.EnclosingFunctionNode(n.ID)
			if fn != nil && fn.ResultTyp != "" && fn.ResultTyp != "void" {
				findings = append(findings, Finding{
					Category:      CategoryNullReturn,
					File:          tree.Path,
					ConstructKind: "return statement",
					Line:          n.Span.StartLine,
					Col:           n.Span.StartCol,
					Function:      tree.EnclosingFunction(n.ID),
					Detail:        "bare return in function declaring " + fn.ResultTyp,
				})
			}
		}
		return true
	})
	return findings
}

// bareReturnLang limits the bare-return check to grammars that declare a
// return type on the function node: TypeScript, TSX, and Java. JavaScript
// never declares one, and a Go bare return pairs with named results.
func bareReturnLang(lang parser.Language) bool {
	switch lang {
	case parser.LangTypeScript, parser.LangTSX, parser.LangJava:
		return true
	default:
		return false
	}
}
