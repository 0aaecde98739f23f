// Package e2e provides end-to-end tests over a generated parliamentary corpus
// written to every supported dataset format.
package e2e

import (
	"fmt"
	"strings"
)

// Record is one generated parliamentary record. Theme is the ground-truth group of
// the Lemma text; it is written as its own column.
type Record struct {
	Subject1 string
	Subject2 string
	Lemma    string
	Theme    string
}

// Corpus holds generated records and the vocabulary covering their themes.
type Corpus struct {
	Records    []Record
	Vocabulary []string
	Themes     []string
}

// theme is a group of words that only co-occur with each other. The anchor appears
// in every document of the theme.
type theme struct {
	name    string
	subject string
	anchor  string
	words   []string
}

var themes = []theme{
	{"water", "Environment", "river", []string{"flood", "drainage", "reservoir", "estuary"}},
	{"climate", "Environment", "carbon", []string{"emission", "warming", "renewable", "turbine"}},
	{"forestry", "Environment", "forest", []string{"timber", "woodland", "logging", "seedling"}},
	{"hospitals", "Health", "hospital", []string{"ward", "nurse", "surgery", "clinic"}},
}

// fillers are never part of the vocabulary.
var fillers = []string{"the", "of", "honourable", "member", "minister", "question"}

// BuildCorpus returns perTheme records for every theme, interleaved so that no two
// consecutive records share a theme. Every fifth Environment record carries its
// subject in Subject-2 instead of Subject-1, and every seventh record has an empty
// Lemma. The output is deterministic.
func BuildCorpus(perTheme int) *Corpus {
	c := &Corpus{}
	for _, th := range themes {
		c.Themes = append(c.Themes, th.name)
		c.Vocabulary = append(c.Vocabulary, th.anchor)
		c.Vocabulary = append(c.Vocabulary, th.words...)
	}
	// Terms no document uses still take a column.
	c.Vocabulary = append(c.Vocabulary, "referendum", "tariff")

	n := 0
	for i := 0; i < perTheme; i++ {
		for _, th := range themes {
			r := Record{Subject1: th.subject, Theme: th.name, Lemma: lemma(th, i)}
			if th.subject == "Environment" && n%5 == 4 {
				r.Subject1, r.Subject2 = "Transport", th.subject
			}
			if n%7 == 6 {
				r.Lemma = ""
			}
			c.Records = append(c.Records, r)
			n++
		}
	}
	return c
}

func lemma(th theme, i int) string {
	parts := []string{fillers[i%len(fillers)], th.anchor}
	for k := 0; k <= i%3; k++ {
		parts = append(parts, th.words[(i+k)%len(th.words)])
	}
	if i%2 == 0 {
		parts = append(parts, th.anchor)
	}
	parts = append(parts, fillers[(i+3)%len(fillers)])
	return strings.Join(parts, " ")
}

// Header returns the dataset header.
func (c *Corpus) Header() []string {
	return []string{"Subject-1", "Subject-2", "Lemma", "Theme"}
}

// Rows returns the records as table rows in Header order.
func (c *Corpus) Rows() [][]string {
	rows := make([][]string, len(c.Records))
	for i, r := range c.Records {
		rows[i] = []string{r.Subject1, r.Subject2, r.Lemma, r.Theme}
	}
	return rows
}

// Expected returns the Lemma values and source rows a subject filter followed by
// missing-value removal must produce.
func (c *Corpus) Expected(subject string) (texts []string, rows []int) {
	for i, r := range c.Records {
		if (r.Subject1 == subject || r.Subject2 == subject) && r.Lemma != "" {
			texts = append(texts, r.Lemma)
			rows = append(rows, i)
		}
	}
	return texts, rows
}

// String summarizes the corpus for test logs.
func (c *Corpus) String() string {
	return fmt.Sprintf("%d records, %d themes, %d vocabulary terms", len(c.Records), len(c.Themes), len(c.Vocabulary))
}
