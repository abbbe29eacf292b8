// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"bigocheck/internal/models"
	"bigocheck/internal/syntax"
)

// Config represents the configuration for bigocheck
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Extensions handled by each grammar
	Languages LanguagesConfig `yaml:"languages" json:"languages"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`

	// Watch mode
	Watch WatchConfig `yaml:"watch" json:"watch"`
}

type AnalysisConfig struct {
	// Complexity score thresholds
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" json:"score_thresholds"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`

	// Analyze loops outside functions when a file has no function definitions
	TopLevelStatements bool `yaml:"top_level_statements" json:"top_level_statements"`

	// Minimum function severity that produces an issue
	ReportThreshold string `yaml:"report_threshold" json:"report_threshold"`

	// Exit with status 1 when a file reaches this severity; empty disables
	FailOn string `yaml:"fail_on,omitempty" json:"fail_on,omitempty"`

	// Number of file results kept between runs in watch mode; 0 disables
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

type ScoreThresholds struct {
	Excellent int `yaml:"excellent" json:"excellent"` // >= 90
	Good      int `yaml:"good" json:"good"`           // >= 75
	Fair      int `yaml:"fair" json:"fair"`           // >= 50
	Poor      int `yaml:"poor" json:"poor"`           // < 50
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Show per-function labels
	ShowFunctions bool `yaml:"show_functions" json:"show_functions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

type LanguagesConfig struct {
	C   []string `yaml:"c" json:"c"`
	CPP []string `yaml:"cpp" json:"cpp"`
}

type FilesConfig struct {
	// Include patterns; empty includes every file with a known extension
	Include []string `yaml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Whether to follow symlinks
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`

	// Max file size (in KB); 0 means unlimited
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

type WatchConfig struct {
	DebounceInterval time.Duration `yaml:"debounce_interval" json:"debounce_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ScoreThresholds: ScoreThresholds{
				Excellent: 90,
				Good:      75,
				Fair:      50,
				Poor:      0,
			},
			MaxWorkers:         4,
			TopLevelStatements: true,
			ReportThreshold:    "high",
			CacheSize:          512,
		},
		Output: OutputConfig{
			Format:        "console",
			Colors:        true,
			Verbose:       false,
			ShowFunctions: false,
		},
		Languages: LanguagesConfig{
			C:   []string{".c", ".h"},
			CPP: []string{".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx"},
		},
		Files: FilesConfig{
			Include:        []string{},
			Exclude:        []string{"**/.git/**", "**/build/**", "**/third_party/**", "**/node_modules/**"},
			FollowSymlinks: false,
			MaxFileSize:    1024, // 1MB
		},
		Watch: WatchConfig{
			DebounceInterval: 300 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".bigocheck.yml",
		".bigocheck.yaml",
		"bigocheck.yml",
		"bigocheck.yaml",
		".config/bigocheck.yml",
		".config/bigocheck.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	st := c.Analysis.ScoreThresholds
	if st.Excellent < st.Good || st.Good < st.Fair || st.Fair < st.Poor {
		return fmt.Errorf("score thresholds must be in descending order")
	}

	validFormats := []string{"console", "json"}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}

	if _, err := models.ParseSeverity(c.Analysis.ReportThreshold); err != nil {
		return fmt.Errorf("report_threshold: %w", err)
	}
	if c.Analysis.FailOn != "" {
		if _, err := models.ParseSeverity(c.Analysis.FailOn); err != nil {
			return fmt.Errorf("fail_on: %w", err)
		}
	}

	if c.Files.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	for _, pattern := range append(slices.Clone(c.Files.Include), c.Files.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid file pattern: %q", pattern)
		}
	}

	seen := make(map[string]syntax.Language)
	for lang, exts := range c.extensions() {
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("extension %q for %s must start with a dot", ext, lang)
			}
			if other, ok := seen[strings.ToLower(ext)]; ok && other != lang {
				return fmt.Errorf("extension %q is mapped to both %s and %s", ext, other, lang)
			}
			seen[strings.ToLower(ext)] = lang
		}
	}

	if c.Watch.DebounceInterval < 0 {
		return fmt.Errorf("debounce_interval must not be negative")
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

func (c *Config) extensions() map[syntax.Language][]string {
	return map[syntax.Language][]string{
		syntax.LangC:   c.Languages.C,
		syntax.LangCPP: c.Languages.CPP,
	}
}

// LanguageFor picks the grammar for path by its extension.
func (c *Config) LanguageFor(path string) (syntax.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for _, lang := range []syntax.Language{syntax.LangCPP, syntax.LangC} {
		for _, candidate := range c.extensions()[lang] {
			if strings.ToLower(candidate) == ext {
				return lang, true
			}
		}
	}
	return "", false
}

// Excluded reports whether path matches one of the exclude patterns.
func (c *Config) Excluded(path string) bool {
	return matchAny(c.Files.Exclude, path)
}

// SkipDir reports whether a directory walk should not descend into dir.
func (c *Config) SkipDir(dir string) bool {
	return c.Excluded(dir) || c.Excluded(filepath.Join(dir, "_"))
}

// ShouldAnalyze reports whether path is a source file this configuration
// covers: a known extension, not excluded, and included when include
// patterns are set.
func (c *Config) ShouldAnalyze(path string) bool {
	if _, ok := c.LanguageFor(path); !ok {
		return false
	}
	if c.Excluded(path) {
		return false
	}
	if len(c.Files.Include) == 0 {
		return true
	}
	return matchAny(c.Files.Include, path)
}

// ReportSeverity returns the minimum severity that produces an issue.
func (c *Config) ReportSeverity() models.Severity {
	s, err := models.ParseSeverity(c.Analysis.ReportThreshold)
	if err != nil {
		return models.SeverityHigh
	}
	return s
}

// FailOnSeverity returns the severity that fails the run, if configured.
func (c *Config) FailOnSeverity() (models.Severity, bool) {
	if c.Analysis.FailOn == "" {
		return 0, false
	}
	s, err := models.ParseSeverity(c.Analysis.FailOn)
	if err != nil {
		return 0, false
	}
	return s, true
}

// MaxFileBytes returns the file size limit in bytes, 0 when unlimited.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Files.MaxFileSize) * 1024
}

// ScoreGrade names the band a complexity score falls in.
func (c *Config) ScoreGrade(score int) string {
	st := c.Analysis.ScoreThresholds
	switch {
	case score >= st.Excellent:
		return "Excellent"
	case score >= st.Good:
		return "Good"
	case score >= st.Fair:
		return "Fair"
	default:
		return "Poor"
	}
}

func matchAny(patterns []string, path string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	candidates := []string{path}
	// Absolute paths also match patterns written relative to any root
	if trimmed := strings.TrimLeft(path, "/"); trimmed != path {
		candidates = append(candidates, trimmed)
	}
	for _, pattern := range patterns {
		for _, candidate := range candidates {
			// Bad patterns are rejected by Validate; ignore match errors here
			if matched, err := doublestar.Match(pattern, candidate); err == nil && matched {
				return true
			}
		}
	}
	return false
}
