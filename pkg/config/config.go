// Package config holds the immutable run configuration for gapscan. One
// Config is constructed per run and threaded through every component; no
// component reads ambient or global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Depth selects how aggressive the analysis is.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// ConfigError is a fatal configuration problem. It aborts the run before
// any file is processed.
type ConfigError struct {
	Option string
	Value  string
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s=%q: %s", e.Option, e.Value, e.Msg)
}

// DetectorConfig controls which pattern detectors run.
type DetectorConfig struct {
	CheckEmptyBlocks        bool `koanf:"check_empty_blocks"`
	CheckNullReturns        bool `koanf:"check_null_returns"`
	CheckErrorHandling      bool `koanf:"check_error_handling"`
	CheckSwitchStatements   bool `koanf:"check_switch_statements"`
	CheckSuspiciousPatterns bool `koanf:"check_suspicious_patterns"`

	// SuspiciousVocabulary extends the stub-marker vocabulary matched
	// inside function bodies.
	SuspiciousVocabulary []string `koanf:"suspicious_vocabulary"`
}

// LoaderConfig controls file discovery.
type LoaderConfig struct {
	IncludeDotFiles    bool     `koanf:"include_dot_files"`
	IncludeNodeModules bool     `koanf:"include_node_modules"`
	MaxFileSize        int64    `koanf:"max_file_size"`
	ExcludePatterns    []string `koanf:"exclude_patterns"`
	Gitignore          bool     `koanf:"gitignore"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format     string `koanf:"format"` // text, json, markdown
	Color      bool   `koanf:"color"`
	ReportPath string `koanf:"report_path"`
	Enhanced   bool   `koanf:"enhanced"`
}

// Config is the full configuration for one analysis run. Treat as
// immutable after Validate.
type Config struct {
	Depth        Depth          `koanf:"depth"`
	SuggestTodos bool           `koanf:"suggest_todos"`
	Detectors    DetectorConfig `koanf:"detectors"`
	Loader       LoaderConfig   `koanf:"loader"`
	Output       OutputConfig   `koanf:"output"`
}

// Default returns a config with the documented defaults: all detectors on,
// standard depth, 1 MiB size cap.
func Default() *Config {
	return &Config{
		Depth:        DepthStandard,
		SuggestTodos: false,
		Detectors: DetectorConfig{
			CheckEmptyBlocks:        true,
			CheckNullReturns:        true,
			CheckErrorHandling:      true,
			CheckSwitchStatements:   true,
			CheckSuspiciousPatterns: true,
		},
		Loader: LoaderConfig{
			IncludeDotFiles:    false,
			IncludeNodeModules: false,
			MaxFileSize:        1 << 20,
			Gitignore:          true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layered over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"gapscan.toml", "gapscan.yaml", "gapscan.yml", "gapscan.json",
		".gapscan.toml", ".gapscan.yaml", ".gapscan.yml", ".gapscan.json",
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return Default()
}

// Validate checks option values. Any failure is a *ConfigError and must
// abort the run before file processing starts.
func (c *Config) Validate() error {
	switch c.Depth {
	case DepthBasic, DepthStandard, DepthDeep:
	default:
		return &ConfigError{
			Option: "depth",
			Value:  string(c.Depth),
			Msg:    "must be one of basic, standard, deep",
		}
	}
	if c.Loader.MaxFileSize < 0 {
		return &ConfigError{
			Option: "loader.max_file_size",
			Value:  fmt.Sprintf("%d", c.Loader.MaxFileSize),
			Msg:    "must be >= 0",
		}
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "text", "json", "markdown", "md":
	default:
		return &ConfigError{
			Option: "output.format",
			Value:  c.Output.Format,
			Msg:    "must be one of text, json, markdown",
		}
	}
	return nil
}

// ApplyDepth folds the depth setting into the dependent options: basic
// turns off suggestions and enhanced detail, deep turns them on. Standard
// leaves explicit settings alone.
func (c *Config) ApplyDepth() {
	switch c.Depth {
	case DepthBasic:
		c.SuggestTodos = false
		c.Output.Enhanced = false
	case DepthDeep:
		c.SuggestTodos = true
		c.Output.Enhanced = true
	}
}
