package gap

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// todoPattern matches a TODO marker at the start of comment text: the
// marker word, an optional author tag like (name), an optional colon, then
// the description. The anchor is what keeps prose that merely mentions the
// word ("Not a TODO: ...") from being emitted.
var todoPattern = regexp.MustCompile(`^TODO\b(?:\(([^)]*)\))?:?\s*(.*)`)

// issueRefPattern matches a trailing issue reference of the form "#123".
var issueRefPattern = regexp.MustCompile(`\s*\(?(#\d+)\)?\s*$`)

// commentLeader strips comment syntax from the front of a line so the
// marker check sees the text, not the delimiter.
var commentLeader = regexp.MustCompile(`^\s*(?://+|#+|--|/\*+|\*+|;+|'''|"""|=begin|<!--)?\s*`)

// ExtractTodos scans source text for TODO annotations. Markers with an
// empty description after trimming are rejected: a bare "TODO:" is noise,
// not an actionable item.
func ExtractTodos(source []byte, path string) []TodoAnnotation {
	var todos []TodoAnnotation

	sc := bufio.NewScanner(bytes.NewReader(source))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := uint32(0)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !strings.Contains(line, "TODO") {
			continue
		}

		stripped := commentLeader.ReplaceAllString(line, "")
		m := todoPattern.FindStringSubmatch(stripped)
		if m == nil {
			// Trailing comments after code: retry from the delimiter.
			if idx := trailingCommentStart(line); idx > 0 {
				stripped = commentLeader.ReplaceAllString(line[idx:], "")
				m = todoPattern.FindStringSubmatch(stripped)
			}
		}
		if m == nil {
			continue
		}

		desc := strings.TrimSpace(m[2])
		// Block comment terminators are syntax, not description.
		desc = strings.TrimSpace(strings.TrimSuffix(desc, "*/"))
		desc = strings.TrimSpace(strings.TrimSuffix(desc, "-->"))

		issueRef := ""
		if ref := issueRefPattern.FindStringSubmatch(desc); ref != nil {
			issueRef = ref[1]
			desc = strings.TrimSpace(desc[:len(desc)-len(ref[0])])
		}

		// The issue reference alone is not a description either.
		if desc == "" {
			continue
		}

		todos = append(todos, TodoAnnotation{
			File:        path,
			Line:        lineNo,
			Description: desc,
			IssueRef:    issueRef,
			Raw:         strings.TrimSpace(line),
		})
	}
	return todos
}

// trailingCommentStart locates a comment delimiter that follows code on the
// same line, or -1. The marker-at-start rule then applies to the comment
// text alone.
func trailingCommentStart(line string) int {
	idx := -1
	for _, d := range []string{"//", "/*", "#", "<!--"} {
		if i := strings.Index(line, d); i > 0 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	return idx
}
