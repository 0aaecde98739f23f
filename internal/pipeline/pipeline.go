// Package pipeline wires row selection, column extraction, vectorization and
// clustering into a single run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/hansard/internal/cluster"
	"github.com/hyperjump/hansard/internal/dataset"
	"github.com/hyperjump/hansard/internal/models"
	"github.com/hyperjump/hansard/internal/storage"
	"github.com/hyperjump/hansard/internal/vectorize"
)

// Vectorizer turns a corpus into one feature row per document.
type Vectorizer interface {
	Name() string
	FitTransform(ctx context.Context, corpus []string) (*vectorize.Matrix, error)
}

// Driver runs the select, extract, vectorize and cluster stages in order. It holds
// no state between runs.
type Driver struct {
	vectorizer     Vectorizer
	clusterer      cluster.Clusterer
	subjectColumns []string
	storage        storage.Storage // optional; when set, every run is persisted
	logger         *zap.Logger     // optional; when set, logs stage timings
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets a logger for debug output (stage sizes and timings).
func WithLogger(l *zap.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithStorage persists every completed run.
func WithStorage(s storage.Storage) DriverOption {
	return func(d *Driver) { d.storage = s }
}

// WithSubjectColumns overrides the label columns a subject is matched against.
func WithSubjectColumns(columns ...string) DriverOption {
	return func(d *Driver) {
		if len(columns) > 0 {
			d.subjectColumns = append([]string(nil), columns...)
		}
	}
}

// NewDriver creates a driver around the given vectorizer and clusterer.
func NewDriver(v Vectorizer, c cluster.Clusterer, opts ...DriverOption) *Driver {
	d := &Driver{
		vectorizer:     v,
		clusterer:      c,
		subjectColumns: append([]string(nil), dataset.SubjectColumns...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Corpus selects the rows labelled subject and extracts the non-missing values of
// column. A missing column is reported even when no row matches.
func (d *Driver) Corpus(t *dataset.Table, column, subject string) (*dataset.Corpus, error) {
	rows, err := dataset.ByLabel(t, subject, d.subjectColumns...)
	if err != nil {
		return nil, err
	}
	return dataset.Extract(rows, column)
}

// Run builds the corpus for subject and column, vectorizes it and clusters the
// result. The corpus reaches the vectorizer unmodified. Nothing is retried.
func (d *Driver) Run(ctx context.Context, t *dataset.Table, column, subject string) (*models.Run, error) {
	start := time.Now()

	corpus, err := d.Corpus(t, column, subject)
	if err != nil {
		return nil, err
	}
	if d.logger != nil {
		d.logger.Debug("pipeline corpus built",
			zap.String("subject", subject),
			zap.String("column", column),
			zap.Int("documents", corpus.Len()),
		)
	}

	features, err := d.vectorizer.FitTransform(ctx, corpus.Texts)
	if err != nil {
		return nil, fmt.Errorf("vectorization failed: %w", err)
	}
	if d.logger != nil {
		d.logger.Debug("pipeline corpus vectorized",
			zap.String("vectorizer", d.vectorizer.Name()),
			zap.Int("rows", features.Len()),
			zap.Int("cols", features.Cols()),
			zap.Int("nnz", features.Nnz()),
		)
	}

	result, err := d.clusterer.Fit(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("clustering failed: %w", err)
	}
	if d.logger != nil {
		d.logger.Debug("pipeline corpus clustered",
			zap.String("algorithm", d.clusterer.Name()),
			zap.Int("clusters", result.NumClusters()),
			zap.Int("iterations", result.Iterations),
			zap.Bool("converged", result.Converged),
		)
		if !result.Converged {
			d.logger.Warn("clustering did not converge", zap.Int("iterations", result.Iterations))
		}
	}

	run := &models.Run{
		ID:             uuid.New().String(),
		Subject:        subject,
		Column:         column,
		Algorithm:      d.clusterer.Name(),
		VocabularySize: features.Cols(),
		Converged:      result.Converged,
		Iterations:     result.Iterations,
		Documents:      make([]*models.RunDocument, corpus.Len()),
		CreatedAt:      time.Now(),
	}
	for i, text := range corpus.Texts {
		label := models.NoiseLabel
		if i < len(result.Labels) {
			label = result.Labels[i]
		}
		run.Documents[i] = &models.RunDocument{
			Position: i,
			Row:      corpus.Rows[i],
			Text:     text,
			Label:    label,
			Exemplar: result.IsExemplar(i),
		}
	}
	run.Summarize()
	run.ElapsedMS = time.Since(start).Milliseconds()

	if d.storage != nil {
		if err := d.storage.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		if d.logger != nil {
			d.logger.Debug("pipeline run saved", zap.String("id", run.ID))
		}
	}
	return run, nil
}
