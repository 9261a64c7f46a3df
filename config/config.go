package config

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config represents the landing page tooling configuration
type Config struct {
	Source    string         `yaml:"source"`
	OutputDir string         `yaml:"output_dir"`
	Sizes     []SizeSpec     `yaml:"sizes"`
	Icon      IconConfig     `yaml:"icon"`
	Manifest  ManifestConfig `yaml:"manifest"`
	Server    ServerConfig   `yaml:"server"`
	Watch     WatchConfig    `yaml:"watch"`
}

// SizeSpec pairs a square pixel dimension with its output file name
type SizeSpec struct {
	Size int    `yaml:"size"`
	File string `yaml:"file"`
}

type IconConfig struct {
	File  string `yaml:"file"`
	Sizes []int  `yaml:"sizes"`
}

type ManifestConfig struct {
	Path            string               `yaml:"path"`
	Name            string               `yaml:"name"`
	ShortName       string               `yaml:"short_name"`
	Description     string               `yaml:"description"`
	Icons           []ManifestIconConfig `yaml:"icons"`
	ThemeColor      string               `yaml:"theme_color"`
	BackgroundColor string               `yaml:"background_color"`
	Display         string               `yaml:"display"`
	StartURL        string               `yaml:"start_url"`
}

type ManifestIconConfig struct {
	Src   string `yaml:"src"`
	Sizes string `yaml:"sizes"`
	Type  string `yaml:"type"`
}

type ServerConfig struct {
	Port    int      `yaml:"port"`
	Headers []Header `yaml:"headers"`
}

// Header is a response header injected by the static server
type Header struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Default returns the built-in configuration
func Default() (*Config, error) {
	return Parse(defaultsYAML)
}

// Parse decodes and validates a YAML configuration document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks if required configuration fields are set
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}

	seenSizes := make(map[int]bool, len(c.Sizes))
	seenFiles := make(map[string]bool, len(c.Sizes))
	for _, s := range c.Sizes {
		if s.Size <= 0 {
			return fmt.Errorf("size %d for %q must be positive", s.Size, s.File)
		}
		if s.File == "" {
			return fmt.Errorf("size %d has no file name", s.Size)
		}
		if seenSizes[s.Size] {
			return fmt.Errorf("duplicate size %d", s.Size)
		}
		if seenFiles[s.File] {
			return fmt.Errorf("duplicate file name %q", s.File)
		}
		seenSizes[s.Size] = true
		seenFiles[s.File] = true
	}

	if c.Icon.File == "" {
		return fmt.Errorf("icon.file is required")
	}
	for _, size := range c.Icon.Sizes {
		if !seenSizes[size] {
			return fmt.Errorf("icon size %d is not in the size list", size)
		}
	}

	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest.path is required")
	}
	if c.Manifest.Name == "" {
		return fmt.Errorf("manifest.name is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Server.Headers) == 0 {
		return fmt.Errorf("at least one server header is required")
	}
	for _, h := range c.Server.Headers {
		if h.Name == "" {
			return fmt.Errorf("server header without a name")
		}
	}

	return nil
}

// SizeFile returns the raster file name configured for a pixel dimension
func (c *Config) SizeFile(size int) (string, bool) {
	for _, s := range c.Sizes {
		if s.Size == size {
			return s.File, true
		}
	}
	return "", false
}

// SourcePath returns the source SVG path under root
func (c *Config) SourcePath(root string) string {
	return filepath.Join(root, c.Source)
}

// OutputPath returns the path of a generated file under root
func (c *Config) OutputPath(root, file string) string {
	return filepath.Join(root, c.OutputDir, file)
}

// ManifestPath returns the manifest path under root
func (c *Config) ManifestPath(root string) string {
	return filepath.Join(root, c.Manifest.Path)
}

// Debounce returns the watcher debounce interval
func (c *Config) Debounce() time.Duration {
	if c.Watch.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
