// Package suggest finds known labels close to a mistyped one.
package suggest

import (
	"sort"
	"strings"
)

// Suggestion is a known label near the requested one.
type Suggestion struct {
	Label     string
	Distance  int // edit distance, ignoring case
	Frequency int // records carrying the label
}

// Suggester ranks known labels by edit distance to a query.
type Suggester struct {
	frequency      map[string]int
	maxDistance    int
	maxSuggestions int
}

// Option is a functional option for configuring Suggester.
type Option func(*Suggester)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) Option {
	return func(s *Suggester) {
		if d >= 0 {
			s.maxDistance = d
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned.
func WithMaxSuggestions(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// New creates a Suggester over labels and how many records carry each.
func New(frequency map[string]int, opts ...Option) *Suggester {
	s := &Suggester{
		frequency:      frequency,
		maxDistance:    2,
		maxSuggestions: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Known reports whether label is one of the labels, with exact case.
func (s *Suggester) Known(label string) bool {
	_, ok := s.frequency[label]
	return ok
}

// Suggest returns labels within the maximum distance of query, closest first, then
// most frequent, then alphabetical. An exact match is never suggested; a label
// differing only in case has distance 0.
func (s *Suggester) Suggest(query string) []Suggestion {
	q := strings.ToLower(query)
	qLen := len([]rune(q))
	var out []Suggestion
	for label, freq := range s.frequency {
		if label == query {
			continue
		}
		l := strings.ToLower(label)
		lenDiff := len([]rune(l)) - qLen
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > s.maxDistance {
			continue
		}
		if d := Distance(q, l); d <= s.maxDistance {
			out = append(out, Suggestion{Label: label, Distance: d, Frequency: freq})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// Labels returns the labels of suggestions.
func Labels(suggestions []Suggestion) []string {
	labels := make([]string, len(suggestions))
	for i, s := range suggestions {
		labels[i] = s.Label
	}
	return labels
}

// Distance returns the Levenshtein distance between a and b, counting runes.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rows of the edit matrix suffice.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
