package syntax

import "strings"

// Kind is the closed set of node kinds the detectors understand. Grammar
// node types from every supported language are folded into this enum during
// Build, so each detector makes an explicit decision per construct instead
// of dispatching on raw grammar strings.
type Kind int

const (
	KindOther Kind = iota
	KindFunction
	KindIf
	KindFor
	KindWhile
	KindCatch
	KindSwitch
	KindSwitchCase
	KindSwitchDefault
	KindReturn
	KindBlock
	KindLiteral
	KindComment
	KindCall
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindIf:
		return "if"
	case KindFor:
		return "for"
	case KindWhile:
		return "while"
	case KindCatch:
		return "catch"
	case KindSwitch:
		return "switch"
	case KindSwitchCase:
		return "case"
	case KindSwitchDefault:
		return "default"
	case KindReturn:
		return "return"
	case KindBlock:
		return "block"
	case KindLiteral:
		return "literal"
	case KindComment:
		return "comment"
	case KindCall:
		return "call"
	default:
		return "other"
	}
}

// kindForType folds a grammar node type into a Kind. Types not listed map
// to KindOther; default-clause handling needs the node text and lives in
// classifyClause.
func kindForType(nodeType string) Kind {
	switch nodeType {
	case "function_declaration", "method_declaration", "func_literal",
		"function_definition", "function_item", "function",
		"function_expression", "arrow_function", "method_definition",
		"method", "singleton_method", "constructor_declaration":
		return KindFunction
	case "if_statement", "if_expression":
		return KindIf
	case "for_statement", "for_in_statement", "enhanced_for_statement",
		"for_expression", "loop_expression":
		return KindFor
	case "while_statement", "while_expression", "do_statement", "while":
		return KindWhile
	case "catch_clause", "except_clause", "rescue":
		return KindCatch
	case "switch_statement", "switch_expression",
		"expression_switch_statement", "type_switch_statement",
		"match_statement", "match_expression", "case":
		return KindSwitch
	case "expression_case", "type_case", "case_clause", "switch_case",
		"switch_block_statement_group", "case_statement", "match_arm",
		"when":
		return KindSwitchCase
	case "default_case", "switch_default":
		return KindSwitchDefault
	case "return_statement", "return_expression":
		return KindReturn
	case "block", "statement_block", "compound_statement", "body_statement",
		"consequence":
		return KindBlock
	case "comment", "line_comment", "block_comment":
		return KindComment
	case "call_expression", "call", "method_invocation":
		return KindCall
	case "nil", "null", "undefined", "none", "null_literal",
		"interpreted_string_literal", "raw_string_literal", "string",
		"string_literal", "template_string", "true", "false",
		"int_literal", "integer", "float_literal", "float",
		"number", "decimal_integer_literal", "rune_literal", "char_literal":
		return KindLiteral
	default:
		return KindOther
	}
}

// nullLiteralTypes are the grammar types of literal null-ish values.
var nullLiteralTypes = map[string]bool{
	"nil":          true, // Go, Ruby
	"null":         true, // JavaScript, TypeScript
	"undefined":    true, // JavaScript, TypeScript
	"none":         true, // Python
	"null_literal": true, // Java
}

// IsNullLiteral reports whether a grammar node type is a literal null value.
func IsNullLiteral(nodeType string) bool {
	return nullLiteralTypes[nodeType]
}

// stringLiteralTypes are the grammar types of string literals.
var stringLiteralTypes = map[string]bool{
	"interpreted_string_literal": true,
	"raw_string_literal":         true,
	"string":                     true,
	"string_literal":             true,
	"template_string":            true,
}

// IsStringLiteral reports whether a grammar node type is a string literal.
func IsStringLiteral(nodeType string) bool {
	return stringLiteralTypes[nodeType]
}

// classifyClause refines case-like clauses whose grammar does not give the
// default branch its own node type. Java folds default into switch_label;
// C folds it into case_statement.
func classifyClause(nodeType, text string) Kind {
	base := kindForType(nodeType)
	if base != KindSwitchCase {
		return base
	}
	trimmed := strings.TrimSpace(text)
	// Java and C fold the default label into the clause text.
	if strings.HasPrefix(trimmed, "default") {
		return KindSwitchDefault
	}
	// Python match: `case _:` is the wildcard arm.
	if nodeType == "case_clause" && strings.HasPrefix(trimmed, "case _") {
		return KindSwitchDefault
	}
	if nodeType == "match_arm" && strings.HasPrefix(trimmed, "_") {
		return KindSwitchDefault
	}
	// Ruby: `else` inside a case is parsed as its own node type, handled by
	// the caller; `when` arms stay cases.
	return KindSwitchCase
}
