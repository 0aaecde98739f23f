package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/hansard/internal/models"
)

func TestParse_object(t *testing.T) {
	v, err := Parse([]byte(`{"river": 1, "clinic": 0, "harbour": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 {
		t.Errorf("Len = %d, want 3", v.Len())
	}
	if i, ok := v.Index("river"); !ok || i != 1 {
		t.Errorf("Index(river) = %d, %v", i, ok)
	}
	if _, ok := v.Index("River"); ok {
		t.Error("lookups are exact")
	}
	if v.Term(0) != "clinic" || v.Term(2) != "harbour" {
		t.Errorf("Terms = %v", v.Terms())
	}
}

func TestParse_array(t *testing.T) {
	v, err := Parse([]byte(" [\"a\", \"b\"]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.Index("b"); i != 1 {
		t.Errorf("Index(b) = %d, want 1", i)
	}
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty object", `{}`},
		{"empty array", `[]`},
		{"gap", `{"a": 0, "b": 2}`},
		{"repeated index", `{"a": 0, "b": 0}`},
		{"negative index", `{"a": -1}`},
		{"duplicate term", `["a", "a"]`},
		{"not json", `river,clinic`},
		{"wrong value type", `{"a": "zero"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%s): expected error", tt.data)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocabulary.json")
	if err := os.WriteFile(path, []byte(`{"river": 0, "clinic": 1}`), 0600); err != nil {
		t.Fatal(err)
	}
	v, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 2 {
		t.Errorf("Len = %d", v.Len())
	}
}

func TestLoad_errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"river": `), 0600)
	for _, path := range []string{filepath.Join(dir, "absent.json"), bad} {
		_, err := Load(path)
		var ale *models.ArtifactLoadError
		if !errors.As(err, &ale) || ale.Artifact != "vocabulary" {
			t.Errorf("Load(%s): expected vocabulary ArtifactLoadError, got %v", filepath.Base(path), err)
		}
	}
}

func TestTerms_returnsCopy(t *testing.T) {
	v, _ := FromTerms([]string{"a", "b"})
	terms := v.Terms()
	terms[0] = "z"
	if v.Term(0) != "a" {
		t.Error("Terms must not expose internal state")
	}
}
