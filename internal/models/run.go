// Package models defines core data structures for clustering runs and their documents.
package models

import (
	"fmt"
	"time"
)

// Run is one pass of the pipeline: a filtered corpus, its features, and the cluster assignment.
type Run struct {
	ID             string         `json:"id" db:"id"`
	Subject        string         `json:"subject" db:"subject"`
	Column         string         `json:"column" db:"column_name"`
	Algorithm      string         `json:"algorithm" db:"algorithm"`
	VocabularySize int            `json:"vocabulary_size" db:"vocabulary_size"`
	Converged      bool           `json:"converged" db:"converged"`
	Iterations     int            `json:"iterations" db:"iterations"`
	NumDocuments   int            `json:"num_documents" db:"num_documents"`
	NumClusters    int            `json:"num_clusters" db:"num_clusters"`
	Documents      []*RunDocument `json:"documents" db:"-"`
	Clusters       []*Cluster     `json:"clusters" db:"-"`
	ElapsedMS      int64          `json:"elapsed_ms" db:"elapsed_ms"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// RunDocument is a single corpus entry and the cluster it was assigned to.
// Row is the entry's index in the source table, before filtering.
type RunDocument struct {
	Position int    `json:"position" db:"position"`
	Row      int    `json:"row" db:"row_index"`
	Text     string `json:"text" db:"text"`
	Label    int    `json:"label" db:"label"`
	Exemplar bool   `json:"exemplar,omitempty" db:"exemplar"`
}

// Cluster summarizes one cluster of a run. Exemplar is -1 when the algorithm
// does not pick a representative document.
type Cluster struct {
	Label    int `json:"label"`
	Size     int `json:"size"`
	Exemplar int `json:"exemplar"`
}

// NoiseLabel marks documents that were not assigned to any cluster.
const NoiseLabel = -1

// Summarize rebuilds Clusters and the counts from the labels and exemplar flags in
// Documents. Clusters are ordered by label; documents with NoiseLabel are not counted.
func (r *Run) Summarize() {
	maxLabel := -1
	for _, d := range r.Documents {
		if d.Label > maxLabel {
			maxLabel = d.Label
		}
	}
	clusters := make([]*Cluster, maxLabel+1)
	for i := range clusters {
		clusters[i] = &Cluster{Label: i, Exemplar: -1}
	}
	for _, d := range r.Documents {
		if d.Label == NoiseLabel {
			continue
		}
		c := clusters[d.Label]
		c.Size++
		if d.Exemplar {
			c.Exemplar = d.Position
		}
	}
	r.Clusters = clusters
	r.NumDocuments = len(r.Documents)
	r.NumClusters = len(clusters)
}

// Members returns the documents assigned to label, in corpus order.
func (r *Run) Members(label int) []*RunDocument {
	var out []*RunDocument
	for _, d := range r.Documents {
		if d.Label == label {
			out = append(out, d)
		}
	}
	return out
}

// Validate checks that the run has the fields needed to be stored.
func (r *Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if r.Algorithm == "" {
		return fmt.Errorf("run algorithm cannot be empty")
	}
	for i, d := range r.Documents {
		if d.Position != i {
			return fmt.Errorf("document %d has position %d", i, d.Position)
		}
	}
	return nil
}
