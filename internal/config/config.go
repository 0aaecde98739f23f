// Package config provides configuration loading and structs for the hansard CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	Storage    StorageConfig    `yaml:"storage"`
}

// ArtifactsConfig holds the paths of the two read-only inputs.
type ArtifactsConfig struct {
	VocabularyPath string `yaml:"vocabulary_path"`
	DatasetPath    string `yaml:"dataset_path"`
	// Sheet selects the worksheet of an .xlsx dataset; empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// PipelineConfig selects what gets clustered.
type PipelineConfig struct {
	Column         string   `yaml:"column"`
	Subject        string   `yaml:"subject"`
	SubjectColumns []string `yaml:"subject_columns"`
}

// VectorizerConfig holds TF-IDF settings.
type VectorizerConfig struct {
	Lowercase    *bool  `yaml:"lowercase"`
	StripAccents string `yaml:"strip_accents"` // "", "unicode" or "ascii"
	Norm         string `yaml:"norm"`          // "l2", "l1" or "none"
	UseIDF       *bool  `yaml:"use_idf"`
	SmoothIDF    *bool  `yaml:"smooth_idf"`
	SublinearTF  bool   `yaml:"sublinear_tf"`
}

// LowercaseOrDefault returns whether tokens are lowercased; defaults to true when unset.
func (v *VectorizerConfig) LowercaseOrDefault() bool {
	return boolOrDefault(v.Lowercase, true)
}

// UseIDFOrDefault returns whether idf weighting is applied; defaults to true when unset.
func (v *VectorizerConfig) UseIDFOrDefault() bool {
	return boolOrDefault(v.UseIDF, true)
}

// SmoothIDFOrDefault returns whether document frequencies are smoothed; defaults to true when unset.
func (v *VectorizerConfig) SmoothIDFOrDefault() bool {
	return boolOrDefault(v.SmoothIDF, true)
}

// ClusterConfig holds clustering settings. Fields not used by the selected
// algorithm are ignored.
type ClusterConfig struct {
	Algorithm       string   `yaml:"algorithm"` // "affinity" or "kmeans"
	Damping         float64  `yaml:"damping"`
	MaxIter         int      `yaml:"max_iter"`
	ConvergenceIter int      `yaml:"convergence_iter"`
	Preference      *float64 `yaml:"preference"`
	MaxSamples      int      `yaml:"max_samples"`
	Clusters        int      `yaml:"clusters"`
	Tolerance       float64  `yaml:"tolerance"`
	Seed            int64    `yaml:"seed"`
}

// StorageConfig holds the path of the optional run database. Empty disables persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Default returns a config with every default applied, used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Artifacts.VocabularyPath = expandPath(cfg.Artifacts.VocabularyPath, configDir)
	cfg.Artifacts.DatasetPath = expandPath(cfg.Artifacts.DatasetPath, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath resolves "./" and "../" paths against configDir and "~/" against the
// home directory. Absolute paths, empty paths and bare names are returned unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	if path == "." || path == ".." || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return filepath.Join(configDir, path)
	}
	return path
}

func boolOrDefault(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
