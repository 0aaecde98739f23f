package vectorize

import (
	"reflect"
	"testing"
)

func TestAnalyzer_Terms(t *testing.T) {
	a, err := NewAnalyzer(true, StripAccentsNone)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in   string
		want []string
	}{
		{"The River-bank, a flood!", []string{"the", "river", "bank", "flood"}},
		{"I x 42 b2b", []string{"42", "b2b"}},
		{"snake_case words", []string{"snake_case", "words"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := a.Terms(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Terms(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzer_unicodeWords(t *testing.T) {
	a, _ := NewAnalyzer(true, StripAccentsNone)
	got := a.Terms("Rivière Ökonomie")
	want := []string{"rivière", "ökonomie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %q, want %q", got, want)
	}
}

func TestAnalyzer_stripAccents(t *testing.T) {
	uni, _ := NewAnalyzer(true, StripAccentsUnicode)
	if got := uni.Terms("Rivière Ökonomie"); !reflect.DeepEqual(got, []string{"riviere", "okonomie"}) {
		t.Errorf("unicode strip = %q", got)
	}
	ascii, _ := NewAnalyzer(true, StripAccentsASCII)
	if got := ascii.Terms("café Ωmega"); !reflect.DeepEqual(got, []string{"cafe", "mega"}) {
		t.Errorf("ascii strip = %q", got)
	}
}

func TestAnalyzer_keepsCase(t *testing.T) {
	a, _ := NewAnalyzer(false, StripAccentsNone)
	if got := a.Terms("River"); !reflect.DeepEqual(got, []string{"River"}) {
		t.Errorf("Terms = %q", got)
	}
}

func TestAnalyzer_tokeniser(t *testing.T) {
	a, _ := NewAnalyzer(true, StripAccentsNone)
	if got := a.Tokenise("Flood plain"); !reflect.DeepEqual(got, []string{"flood", "plain"}) {
		t.Errorf("Tokenise = %q", got)
	}
	var seen []string
	a.ForEachIn("River, river", func(term string) { seen = append(seen, term) })
	if !reflect.DeepEqual(seen, []string{"river", "river"}) {
		t.Errorf("ForEachIn visited %q", seen)
	}
}
