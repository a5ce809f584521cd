// Package config provides configuration loading and management for termset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/termset/export"
	"github.com/c360studio/termset/notify"
	"github.com/c360studio/termset/transform"
	"github.com/c360studio/termset/vocabulary/ncit"
	"github.com/c360studio/termset/vocabulary/uberon"
)

// OutputMode selects how the Terms file is written.
type OutputMode string

const (
	// OutputModeTerms serializes the Terms section directly.
	OutputModeTerms OutputMode = "terms"

	// OutputModeLegacy writes the full model through a placeholder node and
	// property, then rewrites the file keeping only the Terms section.
	OutputModeLegacy OutputMode = "legacy"
)

// Config represents the complete termset configuration
type Config struct {
	Vocabulary transform.PrimaryVocabulary `yaml:"vocabulary"`
	Mapping    transform.MappedVocabulary  `yaml:"mapping"`
	Markers    transform.Markers           `yaml:"markers"`
	Input      InputConfig                 `yaml:"input"`
	Output     OutputConfig                `yaml:"output"`
	Export     ExportConfig                `yaml:"export"`
	Watch      WatchConfig                 `yaml:"watch"`
	Metrics    MetricsConfig               `yaml:"metrics"`
	Notify     NotifyConfig                `yaml:"notify"`
}

// InputConfig configures the source table
type InputConfig struct {
	// Path is the source file; glob patterns must match exactly one file
	Path string `yaml:"path"`
	// Sheet is the workbook sheet to read (empty = first sheet)
	Sheet string `yaml:"sheet"`
}

// OutputConfig configures the Terms file
type OutputConfig struct {
	// Path is the MDF Terms file to write
	Path string `yaml:"path"`
	// Mode is "terms" (default) or "legacy"
	Mode OutputMode `yaml:"mode"`
}

// ExportConfig configures additional RDF exports
type ExportConfig struct {
	// Formats lists SKOS export formats (turtle, ntriples, jsonld)
	Formats []string `yaml:"formats"`
	// Dir is the export directory (default: the output file's directory)
	Dir string `yaml:"dir"`
	// Namespaces maps origin vocabulary handles to concept IRI bases
	Namespaces map[string]string `yaml:"namespaces"`
}

// WatchConfig configures rebuild-on-change
type WatchConfig struct {
	// Patterns are doublestar patterns of files that trigger a rebuild
	// (default: the input file)
	Patterns []string `yaml:"patterns"`
	// Debounce is how long to wait for more changes before rebuilding
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures build metrics
type MetricsConfig struct {
	// Textfile is the Prometheus textfile to write after each build (empty = off)
	Textfile string `yaml:"textfile"`
}

// NotifyConfig configures build notifications
type NotifyConfig struct {
	// URL is the NATS server URL (empty = off)
	URL string `yaml:"url"`
	// Subject is the subject build events are published on
	Subject string `yaml:"subject"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	t := transform.DefaultConfig()
	return &Config{
		Vocabulary: t.Primary,
		Mapping:    t.Mapping,
		Markers:    t.Markers,
		Input: InputConfig{
			Path: uberon.DefaultInputFile,
		},
		Output: OutputConfig{
			Path: uberon.DefaultOutputFile,
			Mode: OutputModeTerms,
		},
		Export: ExportConfig{
			Namespaces: map[string]string{
				ncit.Handle: ncit.ConceptNamespace,
			},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Notify: NotifyConfig{
			Subject: notify.DefaultSubject,
		},
	}
}

// Transform returns the column bindings for the row transformer
func (c *Config) Transform() transform.Config {
	return transform.Config{
		Primary: c.Vocabulary,
		Mapping: c.Mapping,
		Markers: c.Markers,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.Transform().Validate(); err != nil {
		return err
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	switch c.Output.Mode {
	case OutputModeTerms, OutputModeLegacy:
	default:
		return fmt.Errorf("output.mode must be %q or %q, got %q", OutputModeTerms, OutputModeLegacy, c.Output.Mode)
	}
	for _, f := range c.Export.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			return fmt.Errorf("export.formats: %w", err)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// ResolvePaths makes relative file paths absolute against baseDir
func (c *Config) ResolvePaths(baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	c.Input.Path = resolve(c.Input.Path)
	c.Output.Path = resolve(c.Output.Path)
	c.Export.Dir = resolve(c.Export.Dir)
	c.Metrics.Textfile = resolve(c.Metrics.Textfile)
	for i, p := range c.Watch.Patterns {
		c.Watch.Patterns[i] = resolve(p)
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Vocabulary
	mergeString(&c.Vocabulary.Handle, other.Vocabulary.Handle)
	mergeString(&c.Vocabulary.PreferredTerm, other.Vocabulary.PreferredTerm)
	mergeString(&c.Vocabulary.Code, other.Vocabulary.Code)
	mergeString(&c.Vocabulary.Definition, other.Vocabulary.Definition)
	mergeString(&c.Vocabulary.Synonyms, other.Vocabulary.Synonyms)
	mergeString(&c.Vocabulary.SynonymSeparator, other.Vocabulary.SynonymSeparator)

	// Mapping
	if other.Mapping.Disabled != nil {
		disabled := *other.Mapping.Disabled
		c.Mapping.Disabled = &disabled
	}
	mergeString(&c.Mapping.Handle, other.Mapping.Handle)
	mergeString(&c.Mapping.PreferredTerm, other.Mapping.PreferredTerm)
	mergeString(&c.Mapping.Code, other.Mapping.Code)
	mergeString(&c.Mapping.Definition, other.Mapping.Definition)

	// Markers
	mergeString(&c.Markers.PreferredTermKey, other.Markers.PreferredTermKey)
	mergeString(&c.Markers.PreferredTermValue, other.Markers.PreferredTermValue)
	mergeString(&c.Markers.MappingSourceKey, other.Markers.MappingSourceKey)

	// Input / Output
	mergeString(&c.Input.Path, other.Input.Path)
	mergeString(&c.Input.Sheet, other.Input.Sheet)
	mergeString(&c.Output.Path, other.Output.Path)
	if other.Output.Mode != "" {
		c.Output.Mode = other.Output.Mode
	}

	// Export
	if len(other.Export.Formats) > 0 {
		c.Export.Formats = other.Export.Formats
	}
	mergeString(&c.Export.Dir, other.Export.Dir)
	if len(other.Export.Namespaces) > 0 {
		if c.Export.Namespaces == nil {
			c.Export.Namespaces = make(map[string]string)
		}
		for k, v := range other.Export.Namespaces {
			c.Export.Namespaces[k] = v
		}
	}

	// Watch
	if len(other.Watch.Patterns) > 0 {
		c.Watch.Patterns = other.Watch.Patterns
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Metrics / Notify
	mergeString(&c.Metrics.Textfile, other.Metrics.Textfile)
	mergeString(&c.Notify.URL, other.Notify.URL)
	mergeString(&c.Notify.Subject, other.Notify.Subject)
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
