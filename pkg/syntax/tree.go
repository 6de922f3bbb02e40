// Package syntax normalizes tree-sitter parse trees into a compact,
// read-only tree with a closed node-kind enum and exact source spans.
// Detectors traverse this representation instead of raw tree-sitter nodes
// so construct dispatch is exhaustive and language differences are folded
// in one place.
package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/probeworks/gapscan/pkg/parser"
)

// NodeID indexes a node within its Tree.
type NodeID int32

// NoNode is the absent-node sentinel (e.g. parent of the root).
const NoNode NodeID = -1

// Span is a half-open source region in 1-based lines and columns.
type Span struct {
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// Node is one normalized syntax node. Nodes are stored in a flat slice on
// the Tree; Children hold IDs, and the parent relation lives in a separate
// index on the Tree rather than as an embedded back-pointer.
type Node struct {
	ID        NodeID
	Kind      Kind
	Type      string // underlying grammar node type
	Span      Span
	StartByte uint32
	EndByte   uint32
	Children  []NodeID
	Name      string // function name, for KindFunction
	ResultTyp string // declared return type text, for KindFunction ("" if none)
	Text      string // source text, for KindLiteral, KindComment and KindCall
}

// Tree is an immutable normalized syntax tree for one file. It is built
// once by Build and only read afterwards; it is safe for concurrent
// traversal by multiple detectors.
type Tree struct {
	Lang   parser.Language
	Path   string
	src    []byte
	nodes  []Node
	parent []NodeID
	root   NodeID
}

// Build normalizes a parsed file. Only named grammar nodes are
// materialized; punctuation and other anonymous tokens are dropped.
func Build(res *parser.ParseResult) *Tree {
	t := &Tree{
		Lang:  res.Language,
		Path:  res.Path,
		src:   res.Source,
		nodes: make([]Node, 0, 256),
		root:  0,
	}
	t.parent = make([]NodeID, 0, 256)
	t.add(res.Tree.RootNode(), res.Source, NoNode)
	return t
}

// add appends node and its named descendants, returning the new ID.
func (t *Tree) add(n *sitter.Node, source []byte, parentID NodeID) NodeID {
	id := NodeID(len(t.nodes))

	nodeType := n.Type()
	kind := kindForType(nodeType)
	if kind == KindSwitchCase {
		kind = classifyClause(nodeType, parser.GetNodeText(n, source))
	}

	node := Node{
		ID:        id,
		Kind:      kind,
		Type:      nodeType,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		Span: Span{
			StartLine: n.StartPoint().Row + 1,
			StartCol:  n.StartPoint().Column + 1,
			EndLine:   n.EndPoint().Row + 1,
			EndCol:    n.EndPoint().Column + 1,
		},
	}

	switch kind {
	case KindLiteral, KindComment:
		node.Text = parser.GetNodeText(n, source)
	case KindCall:
		node.Text = truncate(parser.GetNodeText(n, source), 200)
	case KindFunction:
		node.Name = functionName(n, source, t.Lang)
		node.ResultTyp = functionResultType(n, source, t.Lang)
	}

	t.nodes = append(t.nodes, node)
	t.parent = append(t.parent, parentID)

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			continue
		}
		childID := t.add(child, source, id)
		t.nodes[id].Children = append(t.nodes[id].Children, childID)
	}

	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node for id. The returned pointer is into the tree's
// backing slice; callers must treat it as read-only.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// TextOf returns the source text covered by a node.
func (t *Tree) TextOf(id NodeID) string {
	n := t.Node(id)
	if n == nil || n.StartByte > n.EndByte || int(n.EndByte) > len(t.src) {
		return ""
	}
	return string(t.src[n.StartByte:n.EndByte])
}

// Parent returns the parent ID of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if id < 0 || int(id) >= len(t.parent) {
		return NoNode
	}
	return t.parent[id]
}

// Walk traverses the tree depth-first, pre-order. Returning false from fn
// skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.walkFrom(t.root, fn)
}

// WalkFrom traverses the subtree rooted at id.
func (t *Tree) WalkFrom(id NodeID, fn func(n *Node) bool) {
	if t.Node(id) == nil {
		return
	}
	t.walkFrom(id, fn)
}

func (t *Tree) walkFrom(id NodeID, fn func(n *Node) bool) {
	n := &t.nodes[id]
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		t.walkFrom(c, fn)
	}
}

// EnclosingFunction walks the parent index from id and returns the name of
// the nearest enclosing function, or "" if there is none. The parent index
// is lookup-only; nothing here mutates the tree.
func (t *Tree) EnclosingFunction(id NodeID) string {
	n := t.EnclosingFunctionNode(id)
	if n == nil {
		return ""
	}
	if n.Name != "" {
		return n.Name
	}
	return "(anonymous)"
}

// EnclosingFunctionNode returns the nearest enclosing function node, or nil.
func (t *Tree) EnclosingFunctionNode(id NodeID) *Node {
	for cur := t.Parent(id); cur != NoNode; cur = t.Parent(cur) {
		n := &t.nodes[cur]
		if n.Kind == KindFunction {
			return n
		}
	}
	return nil
}

// BodyBlock returns the block child holding a construct's statements, or
// nil. For Python-style grammars where the body is a bare "block", the
// first KindBlock child wins; constructs with no block child (single
// statement bodies) return nil.
func (t *Tree) BodyBlock(id NodeID) *Node {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		child := &t.nodes[c]
		if child.Kind == KindBlock {
			return child
		}
	}
	return nil
}

// functionName extracts the declared name of a function node, following
// each grammar's field layout.
func functionName(n *sitter.Node, source []byte, lang parser.Language) string {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return parser.GetNodeText(nameNode, source)
	}
	// C/C++ nest the name inside the declarator.
	if lang == parser.LangC || lang == parser.LangCPP {
		if decl := n.ChildByFieldName("declarator"); decl != nil {
			if nameNode := decl.ChildByFieldName("declarator"); nameNode != nil {
				return parser.GetNodeText(nameNode, source)
			}
		}
	}
	return ""
}

// functionResultType extracts the declared return type, where the grammar
// exposes one. Languages without declared return types yield "".
func functionResultType(n *sitter.Node, source []byte, lang parser.Language) string {
	switch lang {
	case parser.LangGo:
		return parser.GetNodeText(n.ChildByFieldName("result"), source)
	case parser.LangTypeScript, parser.LangTSX:
		// The return_type field is the whole ": T" annotation.
		typ := parser.GetNodeText(n.ChildByFieldName("return_type"), source)
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(typ), ":"))
	case parser.LangJava:
		return parser.GetNodeText(n.ChildByFieldName("type"), source)
	case parser.LangRust:
		return parser.GetNodeText(n.ChildByFieldName("return_type"), source)
	default:
		return ""
	}
}
