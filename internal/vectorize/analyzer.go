package vectorize

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveregexp "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches runs of two or more word characters; single-character
// words are never tokens.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Accent stripping modes.
const (
	StripAccentsNone    = ""
	StripAccentsUnicode = "unicode"
	StripAccentsASCII   = "ascii"
)

// Analyzer turns a document into terms: optional accent stripping, regexp
// tokenization, optional lowercasing.
type Analyzer struct {
	stripper  transform.Transformer
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
}

// NewAnalyzer builds an analyzer. stripAccents is one of the StripAccents* modes.
func NewAnalyzer(lower bool, stripAccents string) (*Analyzer, error) {
	a := &Analyzer{tokenizer: bleveregexp.NewRegexpTokenizer(tokenPattern)}
	switch stripAccents {
	case StripAccentsNone:
	case StripAccentsUnicode:
		a.stripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	case StripAccentsASCII:
		a.stripper = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII
		})))
	default:
		return nil, fmt.Errorf("unknown strip_accents mode: %s (supported: unicode, ascii)", stripAccents)
	}
	if lower {
		a.filters = append(a.filters, lowercase.NewLowerCaseFilter())
	}
	return a, nil
}

// Terms returns the document's terms in order of occurrence.
func (a *Analyzer) Terms(doc string) []string {
	input := []byte(doc)
	if a.stripper != nil {
		if stripped, _, err := transform.Bytes(a.stripper, input); err == nil {
			input = stripped
		}
	}
	stream := a.tokenizer.Tokenize(input)
	for _, f := range a.filters {
		stream = f.Filter(stream)
	}
	terms := make([]string, len(stream))
	for i, tok := range stream {
		terms[i] = string(tok.Term)
	}
	return terms
}

// Tokenise returns the terms of doc.
func (a *Analyzer) Tokenise(doc string) []string {
	return a.Terms(doc)
}

// ForEachIn calls f with every term of doc in order of occurrence.
func (a *Analyzer) ForEachIn(doc string, f func(term string)) {
	for _, term := range a.Terms(doc) {
		f(term)
	}
}
