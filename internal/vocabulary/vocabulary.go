// Package vocabulary loads the fixed term set that constrains vectorization.
package vocabulary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyperjump/hansard/internal/models"
)

const artifactName = "vocabulary"

// Vocabulary maps terms to stable, contiguous column indices 0..Len()-1.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// New builds a vocabulary from a term → index mapping. Indices must be unique and
// cover 0..len(terms)-1 without gaps.
func New(terms map[string]int) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty vocabulary")
	}
	byIndex := make([]string, len(terms))
	filled := make([]bool, len(terms))
	for term, i := range terms {
		if i < 0 || i >= len(terms) {
			return nil, fmt.Errorf("vocabulary of size %d doesn't contain index %d", len(terms), i)
		}
		if filled[i] {
			return nil, fmt.Errorf("vocabulary contains repeated index %d (%q and %q)", i, byIndex[i], term)
		}
		byIndex[i] = term
		filled[i] = true
	}
	index := make(map[string]int, len(terms))
	for term, i := range terms {
		index[term] = i
	}
	return &Vocabulary{index: index, terms: byIndex}, nil
}

// FromTerms builds a vocabulary where each term's index is its position.
func FromTerms(terms []string) (*Vocabulary, error) {
	m := make(map[string]int, len(terms))
	for i, term := range terms {
		if _, dup := m[term]; dup {
			return nil, fmt.Errorf("duplicate term in vocabulary: %q", term)
		}
		m[term] = i
	}
	return New(m)
}

// Parse decodes a JSON object {"term": index, ...} or a JSON array ["term", ...].
func Parse(data []byte) (*Vocabulary, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var terms []string
		if err := json.Unmarshal(trimmed, &terms); err != nil {
			return nil, fmt.Errorf("decode term list: %w", err)
		}
		return FromTerms(terms)
	}
	var terms map[string]int
	if err := json.Unmarshal(trimmed, &terms); err != nil {
		return nil, fmt.Errorf("decode term mapping: %w", err)
	}
	return New(terms)
}

// Load reads and parses the vocabulary file at path. Every failure is returned as a
// *models.ArtifactLoadError.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ArtifactLoadError{Artifact: artifactName, Path: path, Err: err}
	}
	v, err := Parse(data)
	if err != nil {
		return nil, &models.ArtifactLoadError{Artifact: artifactName, Path: path, Err: err}
	}
	return v, nil
}

// Index returns the column index of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Terms returns all terms ordered by index.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}
