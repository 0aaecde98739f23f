package e2e

import (
	"strings"
	"testing"
)

func TestBuildCorpus_Size(t *testing.T) {
	c := BuildCorpus(10)
	if len(c.Records) != 10*len(themes) {
		t.Errorf("records = %d, want %d", len(c.Records), 10*len(themes))
	}
	if len(c.Themes) != len(themes) {
		t.Errorf("themes = %v", c.Themes)
	}
}

func TestBuildCorpus_Deterministic(t *testing.T) {
	a, b := BuildCorpus(6), BuildCorpus(6)
	for i := range a.Records {
		if a.Records[i] != b.Records[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, a.Records[i], b.Records[i])
		}
	}
}

func TestBuildCorpus_LemmaContainsAnchor(t *testing.T) {
	c := BuildCorpus(8)
	anchors := make(map[string]string)
	for _, th := range themes {
		anchors[th.name] = th.anchor
	}
	empty := 0
	for i, r := range c.Records {
		if r.Lemma == "" {
			empty++
			continue
		}
		if !strings.Contains(r.Lemma, anchors[r.Theme]) {
			t.Errorf("record %d (%s) lacks anchor %q: %q", i, r.Theme, anchors[r.Theme], r.Lemma)
		}
	}
	if empty == 0 {
		t.Error("expected some records with an empty Lemma")
	}
}

func TestCorpus_Expected(t *testing.T) {
	c := BuildCorpus(5)
	texts, rows := c.Expected("Environment")
	if len(texts) != len(rows) || len(texts) == 0 {
		t.Fatalf("texts=%d rows=%d", len(texts), len(rows))
	}
	viaSubject2 := 0
	for i, row := range rows {
		r := c.Records[row]
		if r.Lemma != texts[i] || r.Lemma == "" {
			t.Errorf("row %d: %+v vs %q", row, r, texts[i])
		}
		if r.Subject2 == "Environment" {
			viaSubject2++
		}
	}
	if viaSubject2 == 0 {
		t.Error("expected some Environment records labelled only in Subject-2")
	}
}
