package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Depth != DepthStandard {
		t.Errorf("Depth = %s, want standard", cfg.Depth)
	}
	if !cfg.Detectors.CheckEmptyBlocks || !cfg.Detectors.CheckNullReturns ||
		!cfg.Detectors.CheckErrorHandling || !cfg.Detectors.CheckSwitchStatements ||
		!cfg.Detectors.CheckSuspiciousPatterns {
		t.Error("all detectors must default to enabled")
	}
	if cfg.Loader.MaxFileSize != 1<<20 {
		t.Errorf("MaxFileSize = %d, want %d", cfg.Loader.MaxFileSize, 1<<20)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate_BadDepth(t *testing.T) {
	cfg := Default()
	cfg.Depth = "extreme"
	err := cfg.Validate()

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if cfgErr.Option != "depth" {
		t.Errorf("Option = %q, want depth", cfgErr.Option)
	}
}

func TestValidate_BadFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	var cfgErr *ConfigError
	if err := cfg.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
}

func TestValidate_NegativeMaxFileSize(t *testing.T) {
	cfg := Default()
	cfg.Loader.MaxFileSize = -1
	if cfg.Validate() == nil {
		t.Error("negative max_file_size must fail validation")
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gapscan.toml")
	content := `depth = "deep"
suggest_todos = true

[detectors]
check_empty_blocks = false
suspicious_vocabulary = ["wip"]

[loader]
max_file_size = 2048
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Depth != DepthDeep {
		t.Errorf("Depth = %s, want deep", cfg.Depth)
	}
	if cfg.Detectors.CheckEmptyBlocks {
		t.Error("check_empty_blocks should be disabled")
	}
	if !cfg.Detectors.CheckNullReturns {
		t.Error("unset check_null_returns should keep its default")
	}
	if cfg.Loader.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize = %d, want 2048", cfg.Loader.MaxFileSize)
	}
	if len(cfg.Detectors.SuspiciousVocabulary) != 1 || cfg.Detectors.SuspiciousVocabulary[0] != "wip" {
		t.Errorf("SuspiciousVocabulary = %v", cfg.Detectors.SuspiciousVocabulary)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gapscan.toml")
	if err := os.WriteFile(path, []byte("depth = \"bogus\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid depth in config file must fail Load")
	}
}

func TestApplyDepth(t *testing.T) {
	cfg := Default()
	cfg.Depth = DepthDeep
	cfg.ApplyDepth()
	if !cfg.SuggestTodos || !cfg.Output.Enhanced {
		t.Error("deep depth must enable suggestions and enhanced output")
	}

	cfg = Default()
	cfg.Depth = DepthBasic
	cfg.SuggestTodos = true
	cfg.Output.Enhanced = true
	cfg.ApplyDepth()
	if cfg.SuggestTodos || cfg.Output.Enhanced {
		t.Error("basic depth must disable suggestions and enhanced output")
	}
}
