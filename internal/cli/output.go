// Package cli provides output writers for the hansard command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/hansard/internal/dataset"
	"github.com/hyperjump/hansard/internal/models"
	"github.com/hyperjump/hansard/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per document or entry.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat converts a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// textWidth bounds document text in text and compact output.
const textWidth = 100

// WriteRun writes a clustering run grouped by cluster.
func WriteRun(w io.Writer, run *models.Run, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, run)
	case OutputCompact:
		for _, d := range run.Documents {
			marker := " "
			if d.Exemplar {
				marker = "*"
			}
			fmt.Fprintf(w, "%d\t%s%d\t%s\n", d.Label, marker, d.Row, utils.Truncate(utils.OneLine(d.Text), textWidth))
		}
		return nil
	default:
		writeRunText(w, run)
		return nil
	}
}

func writeRunText(w io.Writer, run *models.Run) {
	fmt.Fprintf(w, "\nRun %s\n", run.ID)
	fmt.Fprintf(w, "Subject: %s | Column: %s | Algorithm: %s\n", run.Subject, run.Column, run.Algorithm)
	status := "converged"
	if !run.Converged {
		status = "did not converge"
	}
	fmt.Fprintf(w, "%d documents, %d clusters, %d iterations (%s) in %dms\n\n",
		len(run.Documents), len(run.Clusters), run.Iterations, status, run.ElapsedMS)

	for _, c := range run.Clusters {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Cluster %d | Size: %d\n", c.Label, c.Size)
		if c.Exemplar >= 0 && c.Exemplar < len(run.Documents) {
			fmt.Fprintf(w, "Exemplar: %s\n", utils.Truncate(utils.OneLine(run.Documents[c.Exemplar].Text), textWidth))
		}
		fmt.Fprintln(w)
		for _, d := range run.Members(c.Label) {
			fmt.Fprintf(w, "  [row %d] %s\n", d.Row, utils.Truncate(utils.OneLine(d.Text), textWidth))
		}
		fmt.Fprintln(w)
	}
	if noise := run.Members(models.NoiseLabel); len(noise) > 0 {
		fmt.Fprintf(w, "--- Unassigned (%d) ---\n", len(noise))
		for _, d := range noise {
			fmt.Fprintf(w, "  [row %d] %s\n", d.Row, utils.Truncate(utils.OneLine(d.Text), textWidth))
		}
	}
}

// WriteCorpus writes the extracted corpus without clustering it.
func WriteCorpus(w io.Writer, corpus *dataset.Corpus, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, corpus)
	case OutputCompact:
		for i, text := range corpus.Texts {
			fmt.Fprintf(w, "%d\t%s\n", corpus.Rows[i], utils.OneLine(text))
		}
		return nil
	default:
		fmt.Fprintf(w, "\n%d documents in column %s\n\n", corpus.Len(), corpus.Column)
		for i, text := range corpus.Texts {
			fmt.Fprintf(w, "[row %d] %s\n", corpus.Rows[i], utils.Truncate(utils.OneLine(text), textWidth))
		}
		return nil
	}
}

// WriteSubjects writes subject labels with their record counts.
func WriteSubjects(w io.Writer, counts []dataset.LabelCount, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if counts == nil {
			counts = []dataset.LabelCount{}
		}
		return writeJSON(w, counts)
	case OutputCompact:
		for _, c := range counts {
			fmt.Fprintf(w, "%d\t%s\n", c.Count, c.Label)
		}
		return nil
	default:
		width := 0
		for _, c := range counts {
			if n := len([]rune(c.Label)); n > width {
				width = n
			}
		}
		fmt.Fprintf(w, "\n%d subjects\n\n", len(counts))
		for _, c := range counts {
			fmt.Fprintf(w, "  %s%s  %d\n", c.Label, strings.Repeat(" ", width-len([]rune(c.Label))), c.Count)
		}
		return nil
	}
}

// WriteRuns writes a list of stored runs, without their documents.
func WriteRuns(w io.Writer, runs []*models.Run, total int64, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if runs == nil {
			runs = []*models.Run{}
		}
		return writeJSON(w, struct {
			Total int64         `json:"total"`
			Runs  []*models.Run `json:"runs"`
		}{total, runs})
	case OutputCompact:
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Subject, r.Algorithm, r.NumDocuments, r.NumClusters)
		}
		return nil
	default:
		fmt.Fprintf(w, "\n%d of %d runs\n\n", len(runs), total)
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %s  %s/%s  %s  %d documents, %d clusters\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Subject, r.Column, r.Algorithm, r.NumDocuments, r.NumClusters)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
