package vectorize

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/james-bowman/nlp"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/hyperjump/hansard/internal/config"
	"github.com/hyperjump/hansard/internal/vocabulary"
	"github.com/hyperjump/hansard/pkg/utils"
)

// Row normalization modes.
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = "none"
)

// Options configures a TfidfVectorizer.
type Options struct {
	Lowercase    bool
	StripAccents string
	Norm         string
	UseIDF       bool
	SmoothIDF    bool
	SublinearTF  bool
}

// DefaultOptions returns lowercase, smoothed idf, l2-normalized rows.
func DefaultOptions() Options {
	return Options{Lowercase: true, Norm: NormL2, UseIDF: true, SmoothIDF: true}
}

// OptionsFromConfig maps the vectorizer section of the config to Options.
func OptionsFromConfig(cfg *config.VectorizerConfig) Options {
	return Options{
		Lowercase:    cfg.LowercaseOrDefault(),
		StripAccents: cfg.StripAccents,
		Norm:         cfg.Norm,
		UseIDF:       cfg.UseIDFOrDefault(),
		SmoothIDF:    cfg.SmoothIDFOrDefault(),
		SublinearTF:  cfg.SublinearTF,
	}
}

// TfidfVectorizer weights term counts over a fixed vocabulary by inverse document
// frequency. Terms outside the vocabulary are ignored.
type TfidfVectorizer struct {
	vocab       *vocabulary.Vocabulary
	analyzer    *Analyzer
	counter     *nlp.CountVectoriser
	transformer *nlp.TfidfTransformer // fitted only for smoothed idf
	opts        Options
	idf         []float64
}

var _ nlp.Tokeniser = (*Analyzer)(nil)

// NewTfidfVectorizer returns a vectorizer over vocab.
func NewTfidfVectorizer(vocab *vocabulary.Vocabulary, opts Options) (*TfidfVectorizer, error) {
	if vocab == nil || vocab.Len() == 0 {
		return nil, fmt.Errorf("vectorizer requires a non-empty vocabulary")
	}
	switch opts.Norm {
	case NormL2, NormL1, NormNone:
	case "":
		opts.Norm = NormL2
	default:
		return nil, fmt.Errorf("unknown norm: %s (supported: l2, l1, none)", opts.Norm)
	}
	analyzer, err := NewAnalyzer(opts.Lowercase, opts.StripAccents)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, vocab.Len())
	for i, term := range vocab.Terms() {
		index[term] = i
	}
	return &TfidfVectorizer{
		vocab:    vocab,
		analyzer: analyzer,
		counter:  &nlp.CountVectoriser{Vocabulary: index, Tokeniser: analyzer},
		opts:     opts,
	}, nil
}

// Name identifies the vectorizer in logs and stored runs.
func (v *TfidfVectorizer) Name() string {
	return "tfidf"
}

// Vocabulary returns the vocabulary the vectorizer was built with.
func (v *TfidfVectorizer) Vocabulary() *vocabulary.Vocabulary {
	return v.vocab
}

// IDF returns the learned idf weights by column, or nil before Fit.
func (v *TfidfVectorizer) IDF() []float64 {
	if v.idf == nil {
		return nil
	}
	out := make([]float64, len(v.idf))
	copy(out, v.idf)
	return out
}

// Fit learns idf weights from corpus.
func (v *TfidfVectorizer) Fit(ctx context.Context, corpus []string) error {
	tf, err := v.termFrequencies(ctx, corpus)
	if err != nil {
		return err
	}
	v.fit(tf, len(corpus))
	return nil
}

// Transform weights corpus with the idf learned by Fit.
func (v *TfidfVectorizer) Transform(ctx context.Context, corpus []string) (*Matrix, error) {
	if v.opts.UseIDF && v.idf == nil {
		return nil, fmt.Errorf("vectorizer is not fitted")
	}
	tf, err := v.termFrequencies(ctx, corpus)
	if err != nil {
		return nil, err
	}
	return v.weight(tf, len(corpus))
}

// FitTransform learns idf from corpus and returns its weighted matrix: one row per
// document, one column per vocabulary term. An empty corpus yields a matrix with
// no rows.
func (v *TfidfVectorizer) FitTransform(ctx context.Context, corpus []string) (*Matrix, error) {
	tf, err := v.termFrequencies(ctx, corpus)
	if err != nil {
		return nil, err
	}
	v.fit(tf, len(corpus))
	return v.weight(tf, len(corpus))
}

// termFrequencies returns the terms × documents frequency matrix of corpus, or nil
// for an empty corpus.
func (v *TfidfVectorizer) termFrequencies(ctx context.Context, corpus []string) (mat.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		return nil, nil
	}
	counts, err := v.counter.Transform(corpus...)
	if err != nil {
		return nil, fmt.Errorf("counting terms: %w", err)
	}
	if !v.opts.SublinearTF {
		return counts, nil
	}
	r, c := counts.Dims()
	tf := sparse.NewDOK(r, c)
	doNonZero(counts, func(i, j int, x float64) {
		tf.Set(i, j, 1+math.Log(x))
	})
	return tf.ToCSR(), nil
}

// fit computes ln((1+n)/(1+df))+1 when smoothing, ln(n/df)+1 otherwise. Without
// smoothing, terms absent from every document get +Inf.
func (v *TfidfVectorizer) fit(tf mat.Matrix, n int) {
	df := make([]float64, v.vocab.Len())
	if tf != nil {
		doNonZero(tf, func(i, _ int, _ float64) { df[i]++ })
	}
	docs := float64(n)
	v.idf = make([]float64, len(df))
	for j, d := range df {
		if v.opts.SmoothIDF {
			v.idf[j] = math.Log((1+docs)/(1+d)) + 1
		} else {
			v.idf[j] = math.Log(docs/d) + 1
		}
	}
	v.transformer = nil
	if tf != nil && v.opts.UseIDF && v.opts.SmoothIDF {
		v.transformer = nlp.NewTfidfTransformer()
		v.transformer.Fit(tf)
	}
}

type entry struct {
	col   int
	value float64
}

// weight applies idf and the row norm to tf and returns the documents × terms
// matrix.
func (v *TfidfVectorizer) weight(tf mat.Matrix, n int) (*Matrix, error) {
	if tf == nil || n == 0 {
		return EmptyMatrix(v.vocab.Len()), nil
	}
	var weighted mat.Matrix
	if v.opts.UseIDF && v.transformer != nil {
		w, err := v.transformer.Transform(tf)
		if err != nil {
			return nil, fmt.Errorf("weighting terms: %w", err)
		}
		weighted = w
	}

	rows := make([][]entry, n)
	doNonZero(tf, func(term, doc int, x float64) {
		switch {
		case weighted != nil:
			// the transformer weights by ln((1+n)/(1+df)); adding tf restores the +1
			// that keeps terms present in every document.
			x += weighted.At(term, doc)
		case v.opts.UseIDF:
			x *= v.idf[term]
		}
		rows[doc] = append(rows[doc], entry{col: term, value: x})
	})

	ia := make([]int, 1, n+1)
	var ja []int
	var data []float64
	for _, row := range rows {
		slices.SortFunc(row, func(a, b entry) int { return a.col - b.col })
		values := make([]float64, len(row))
		for k, e := range row {
			values[k] = e.value
		}
		switch v.opts.Norm {
		case NormL2:
			utils.NormalizeL2(values)
		case NormL1:
			utils.NormalizeL1(values)
		}
		for k, e := range row {
			ja = append(ja, e.col)
			data = append(data, values[k])
		}
		ia = append(ia, len(ja))
	}
	return NewMatrix(sparse.NewCSR(n, v.vocab.Len(), ia, ja, data)), nil
}

type nonZeroDoer interface {
	DoNonZero(fn func(i, j int, v float64))
}

// doNonZero calls fn for every non-zero entry of m.
func doNonZero(m mat.Matrix, fn func(i, j int, v float64)) {
	if nz, ok := m.(nonZeroDoer); ok {
		nz.DoNonZero(func(i, j int, v float64) {
			if v != 0 {
				fn(i, j, v)
			}
		})
		return
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				fn(i, j, v)
			}
		}
	}
}
