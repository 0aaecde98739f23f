package e2e

import (
	"context"
	"reflect"
	"testing"

	"github.com/hyperjump/hansard/internal/cluster"
	"github.com/hyperjump/hansard/internal/dataset"
	"github.com/hyperjump/hansard/internal/models"
	"github.com/hyperjump/hansard/internal/pipeline"
	"github.com/hyperjump/hansard/internal/vectorize"
	"github.com/hyperjump/hansard/internal/vocabulary"
)

const e2ePerTheme = 12

// loadFixture writes the corpus in format ext and loads both artifacts back.
func loadFixture(t *testing.T, c *Corpus, ext string) (*dataset.Table, *vocabulary.Vocabulary) {
	t.Helper()
	dir := t.TempDir()
	dataPath, err := WriteDataset(dir, ext, c)
	if err != nil {
		t.Fatalf("WriteDataset(%s): %v", ext, err)
	}
	vocabPath, err := WriteVocabulary(dir, c)
	if err != nil {
		t.Fatalf("WriteVocabulary: %v", err)
	}
	table, err := dataset.Load(dataPath)
	if err != nil {
		t.Fatalf("dataset.Load(%s): %v", ext, err)
	}
	vocab, err := vocabulary.Load(vocabPath)
	if err != nil {
		t.Fatalf("vocabulary.Load: %v", err)
	}
	return table, vocab
}

func TestE2E_AffinityClustersAreThemePure(t *testing.T) {
	c := BuildCorpus(e2ePerTheme)
	t.Logf("corpus: %s", c)

	for _, ext := range SupportedDatasetExtensions {
		t.Run(ext, func(t *testing.T) {
			table, vocab := loadFixture(t, c, ext)
			if table.Len() != len(c.Records) {
				t.Fatalf("loaded %d records, want %d", table.Len(), len(c.Records))
			}

			vec, err := vectorize.NewTfidfVectorizer(vocab, vectorize.DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			ap, err := cluster.NewAffinityPropagation(cluster.AffinityOptions{})
			if err != nil {
				t.Fatal(err)
			}
			run, err := pipeline.NewDriver(vec, ap).Run(context.Background(), table, "Lemma", "Environment")
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			wantTexts, wantRows := c.Expected("Environment")
			gotTexts := make([]string, len(run.Documents))
			gotRows := make([]int, len(run.Documents))
			for i, d := range run.Documents {
				gotTexts[i], gotRows[i] = d.Text, d.Row
			}
			if !reflect.DeepEqual(gotTexts, wantTexts) || !reflect.DeepEqual(gotRows, wantRows) {
				t.Fatalf("corpus mismatch:\n got rows %v\nwant rows %v", gotRows, wantRows)
			}
			if run.VocabularySize != len(c.Vocabulary) {
				t.Errorf("VocabularySize=%d, want %d", run.VocabularySize, len(c.Vocabulary))
			}

			assertThemePure(t, c, run)
			covered := make(map[string]bool)
			for _, d := range run.Documents {
				covered[c.Records[d.Row].Theme] = true
			}
			if len(covered) != 3 || covered["hospitals"] {
				t.Errorf("themes in Environment corpus = %v", covered)
			}
			if len(run.Clusters) < 3 {
				t.Errorf("got %d clusters, want at least one per theme", len(run.Clusters))
			}
		})
	}
}

func assertThemePure(t *testing.T, c *Corpus, run *models.Run) {
	t.Helper()
	for _, cl := range run.Clusters {
		members := run.Members(cl.Label)
		if len(members) == 0 {
			t.Errorf("cluster %d is empty", cl.Label)
			continue
		}
		want := c.Records[members[0].Row].Theme
		for _, m := range members[1:] {
			if got := c.Records[m.Row].Theme; got != want {
				t.Errorf("cluster %d mixes themes %s and %s (row %d: %q)", cl.Label, want, got, m.Row, m.Text)
			}
		}
	}
	for _, d := range run.Documents {
		if d.Label == models.NoiseLabel {
			t.Errorf("row %d left unassigned", d.Row)
		}
	}
}

func TestE2E_KMeansDeterministic(t *testing.T) {
	c := BuildCorpus(e2ePerTheme)
	table, vocab := loadFixture(t, c, ".csv")

	vec, err := vectorize.NewTfidfVectorizer(vocab, vectorize.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	km, err := cluster.NewKMeans(cluster.KMeansOptions{Clusters: 3, Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	driver := pipeline.NewDriver(vec, km)

	first, err := driver.Run(context.Background(), table, "Lemma", "Environment")
	if err != nil {
		t.Fatal(err)
	}
	second, err := driver.Run(context.Background(), table, "Lemma", "Environment")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Documents) != len(second.Documents) {
		t.Fatalf("document counts differ")
	}
	for i := range first.Documents {
		if first.Documents[i].Label != second.Documents[i].Label {
			t.Fatalf("label of document %d differs between runs", i)
		}
	}
	if first.NumClusters > 3 {
		t.Errorf("NumClusters=%d, want at most 3", first.NumClusters)
	}
}

func TestE2E_UnknownSubjectYieldsEmptyRun(t *testing.T) {
	c := BuildCorpus(4)
	table, vocab := loadFixture(t, c, ".tsv")
	vec, _ := vectorize.NewTfidfVectorizer(vocab, vectorize.DefaultOptions())
	ap, _ := cluster.NewAffinityPropagation(cluster.AffinityOptions{})

	run, err := pipeline.NewDriver(vec, ap).Run(context.Background(), table, "Lemma", "Defence")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Documents) != 0 || len(run.Clusters) != 0 {
		t.Errorf("run = %+v", run)
	}
}
