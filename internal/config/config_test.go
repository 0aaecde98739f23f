package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
pipeline:
  column: "Text"
  subject: "Immigration"
cluster:
  algorithm: "kmeans"
  clusters: 4
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Column != "Text" || cfg.Pipeline.Subject != "Immigration" {
		t.Errorf("unexpected pipeline config: %+v", cfg.Pipeline)
	}
	if cfg.Cluster.Algorithm != "kmeans" || cfg.Cluster.Clusters != 4 {
		t.Errorf("unexpected cluster config: %+v", cfg.Cluster)
	}
	if cfg.Cluster.MaxIter != 300 {
		t.Errorf("kmeans max_iter default: got %d, want 300", cfg.Cluster.MaxIter)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pipeline: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_expandPathRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
artifacts:
  vocabulary_path: "./resources/vocabulary.json"
  dataset_path: "../shared/data.csv"
storage:
  database_path: "/var/lib/hansard/runs.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "resources", "vocabulary.json"); cfg.Artifacts.VocabularyPath != want {
		t.Errorf("vocabulary_path = %s, want %s", cfg.Artifacts.VocabularyPath, want)
	}
	if want := filepath.Join(dir, "..", "shared", "data.csv"); cfg.Artifacts.DatasetPath != want {
		t.Errorf("dataset_path = %s, want %s", cfg.Artifacts.DatasetPath, want)
	}
	if cfg.Storage.DatabasePath != "/var/lib/hansard/runs.db" {
		t.Errorf("absolute database_path should be unchanged, got %s", cfg.Storage.DatabasePath)
	}
}

func TestLoadOrDefault_missingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Pipeline.Column != "Lemma" || cfg.Pipeline.Subject != "Environment" {
		t.Errorf("expected defaults, got %+v", cfg.Pipeline)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Artifacts.VocabularyPath != "../resources/parliament/vocabulary.json" {
		t.Errorf("default vocabulary path: got %s", cfg.Artifacts.VocabularyPath)
	}
	if cfg.Artifacts.DatasetPath != "../resources/parliament/data.csv" {
		t.Errorf("default dataset path: got %s", cfg.Artifacts.DatasetPath)
	}
	if len(cfg.Pipeline.SubjectColumns) != 2 || cfg.Pipeline.SubjectColumns[0] != "Subject-1" || cfg.Pipeline.SubjectColumns[1] != "Subject-2" {
		t.Errorf("default subject columns: got %v", cfg.Pipeline.SubjectColumns)
	}
	if cfg.Vectorizer.Norm != "l2" {
		t.Errorf("default norm: got %s", cfg.Vectorizer.Norm)
	}
	if cfg.Cluster.Algorithm != "affinity" || cfg.Cluster.Damping != 0.5 || cfg.Cluster.MaxIter != 200 || cfg.Cluster.ConvergenceIter != 15 {
		t.Errorf("affinity defaults: got %+v", cfg.Cluster)
	}
	if cfg.Cluster.Preference != nil {
		t.Error("preference should stay unset so the median is used")
	}
	if cfg.Storage.DatabasePath != "" {
		t.Errorf("storage should be disabled by default, got %q", cfg.Storage.DatabasePath)
	}
}

func TestApplyDefaults_subjectColumnsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.SubjectColumns[0] = "changed"
	if DefaultSubjectColumns[0] != "Subject-1" {
		t.Error("ApplyDefaults must copy DefaultSubjectColumns")
	}
}

func TestVectorizerConfig_boolDefaults(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		v := &VectorizerConfig{}
		if !v.LowercaseOrDefault() || !v.UseIDFOrDefault() || !v.SmoothIDFOrDefault() {
			t.Errorf("unset flags should default to true: %+v", v)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		v := &VectorizerConfig{Lowercase: &f, UseIDF: &f, SmoothIDF: &f}
		if v.LowercaseOrDefault() || v.UseIDFOrDefault() || v.SmoothIDFOrDefault() {
			t.Errorf("explicit false should be kept: %+v", v)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	pref := -3.5
	cfg := &Config{
		Pipeline: PipelineConfig{Column: "Lemma", Subject: "Health"},
		Cluster:  ClusterConfig{Algorithm: "affinity", Preference: &pref},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Pipeline.Subject != "Health" {
		t.Errorf("loaded subject: got %s", loaded.Pipeline.Subject)
	}
	if loaded.Cluster.Preference == nil || *loaded.Cluster.Preference != -3.5 {
		t.Errorf("loaded preference: got %v", loaded.Cluster.Preference)
	}
}
