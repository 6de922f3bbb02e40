package parser

import (
	"errors"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	cases := map[string]Language{
		"main.go":       LangGo,
		"lib.rs":        LangRust,
		"app.py":        LangPython,
		"index.ts":      LangTypeScript,
		"view.tsx":      LangTSX,
		"view.jsx":      LangTSX,
		"script.js":     LangJavaScript,
		"Server.java":   LangJava,
		"core.c":        LangC,
		"core.hpp":      LangCPP,
		"worker.rb":     LangRuby,
		"README.md":     LangUnknown,
		"Makefile":      LangUnknown,
		"UPPER.GO":      LangGo,
		"path/to/f.py":  LangPython,
		"no_extension":  LangUnknown,
		"archive.tar":   LangUnknown,
		"stubs.pyi":     LangPython,
		"module.mjs":    LangJavaScript,
		"template.cxx":  LangCPP,
		"interop.cc":    LangCPP,
		"heady.h":       LangC,
		"spec_file.yml": LangUnknown,
	}
	for path, want := range cases {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestParse_WellFormed(t *testing.T) {
	p := New()
	defer p.Close()

	res, err := p.Parse([]byte("package main\n\nfunc main() {}\n"), LangGo, "main.go")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer res.Tree.Close()

	if res.Tree.RootNode() == nil {
		t.Fatal("no root node")
	}
	if res.Language != LangGo {
		t.Errorf("Language = %s, want go", res.Language)
	}
}

func TestParse_MalformedReturnsParseError(t *testing.T) {
	p := New()
	defer p.Close()

	_, err := p.Parse([]byte("func unclosed( {\n\tif {{{\n"), LangGo, "broken.go")
	if err == nil {
		t.Fatal("malformed source must fail")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if parseErr.Path != "broken.go" {
		t.Errorf("Path = %q, want broken.go", parseErr.Path)
	}
	if parseErr.Line == 0 {
		t.Error("ParseError should carry a best-effort location")
	}
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	p := New()
	defer p.Close()

	if _, err := p.Parse([]byte("x"), LangUnknown, "x.bin"); err == nil {
		t.Error("unknown language must fail")
	}
}

func TestParseSource(t *testing.T) {
	p := New()
	defer p.Close()

	res, err := p.ParseSource("app.py", []byte("def f():\n    return 1\n"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	defer res.Tree.Close()
	if res.Language != LangPython {
		t.Errorf("Language = %s, want python", res.Language)
	}
}

func TestGetNodeText(t *testing.T) {
	p := New()
	defer p.Close()

	src := []byte("package main\n")
	res, err := p.Parse(src, LangGo, "t.go")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer res.Tree.Close()

	if got := GetNodeText(res.Tree.RootNode(), src); got != string(src) {
		t.Errorf("GetNodeText(root) = %q", got)
	}
	if got := GetNodeText(nil, src); got != "" {
		t.Errorf("GetNodeText(nil) = %q, want empty", got)
	}
}
