package generator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

type fakeSource struct {
	words []string
	err   error
}

func (s *fakeSource) Words(lang string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.words, nil
}

func (s *fakeSource) Symbols() []rune     { return []rune("@#") }
func (s *fakeSource) Numbers() []rune     { return []rune("0123456789") }
func (s *fakeSource) Punctuation() []rune { return []rune(".,!") }

type fakeQuotes struct {
	passage string
	err     error
}

func (q *fakeQuotes) Passage(length model.QuoteLength) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	return q.passage, nil
}

func wordsConfig(count int) model.Config {
	return model.Config{
		Language:     "english",
		Mode:         model.Mode{Kind: model.ModeWords, Count: count},
		VisibleLines: 3,
	}
}

func TestGenerateWordsModeExactCount(t *testing.T) {
	g := NewSeeded(7)
	src := &fakeSource{words: []string{"alpha", "beta", "gamma"}}
	got, err := g.Generate(wordsConfig(25), src, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("expected 25 words, got %d", len(got))
	}
	for _, w := range got {
		if w == "" {
			t.Fatalf("expected non-empty words")
		}
	}
}

func TestGenerateTimeModeBufferSize(t *testing.T) {
	g := NewSeeded(7)
	src := &fakeSource{words: []string{"alpha", "beta"}}
	cfg := model.Config{
		Language:     "english",
		Mode:         model.Mode{Kind: model.ModeTime, Duration: 60 * time.Second},
		VisibleLines: 3,
	}
	got, err := g.Generate(cfg, src, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != TimeBufferWords(60*time.Second) {
		t.Fatalf("expected %d words, got %d", TimeBufferWords(60*time.Second), len(got))
	}
	if TimeBufferWords(3*time.Second) != timeBufferMinWords {
		t.Fatalf("expected short durations to hit the buffer floor")
	}
}

func TestGenerateQuoteModeVerbatim(t *testing.T) {
	g := NewSeeded(7)
	src := &fakeSource{words: []string{"unused"}}
	qs := &fakeQuotes{passage: "so we beat on, boats against the current"}
	cfg := model.Config{
		Language:     "english",
		Mode:         model.Mode{Kind: model.ModeQuote, Length: model.QuoteShort},
		VisibleLines: 3,
	}
	got, err := g.Generate(cfg, src, qs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(got, " ") != qs.passage {
		t.Fatalf("expected passage words verbatim, got %v", got)
	}
}

func TestGenerateSeededDeterminism(t *testing.T) {
	src := &fakeSource{words: []string{"alpha", "beta", "gamma", "delta"}}
	cfg := wordsConfig(40)
	cfg.Punctuation = true
	cfg.Numbers = true
	cfg.Symbols = true
	a, err := NewSeeded(99).Generate(cfg, src, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := NewSeeded(99).Generate(cfg, src, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(a, " ") != strings.Join(b, " ") {
		t.Fatalf("expected identical output for equal seeds")
	}
}

func TestGenerateModifiersAppendTokens(t *testing.T) {
	g := NewSeeded(3)
	src := &fakeSource{words: []string{"word"}}
	cfg := wordsConfig(400)
	cfg.Punctuation = true
	got, err := g.Generate(cfg, src, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	modified := 0
	for _, w := range got {
		if w == "word" {
			continue
		}
		if !strings.HasPrefix(w, "word") || len(w) != len("word")+1 {
			t.Fatalf("expected a single appended token, got %q", w)
		}
		if !strings.ContainsRune(".,!", rune(w[len(w)-1])) {
			t.Fatalf("expected punctuation token, got %q", w)
		}
		modified++
	}
	if modified == 0 {
		t.Fatalf("expected some words to carry punctuation")
	}
	if modified == len(got) {
		t.Fatalf("expected modifier frequency below 1.0")
	}
}

func TestGenerateUnknownLanguage(t *testing.T) {
	g := NewSeeded(7)
	wantErr := errors.New("dictionary unavailable")
	src := &fakeSource{err: wantErr}
	if _, err := g.Generate(wordsConfig(10), src, nil); !errors.Is(err, wantErr) {
		t.Fatalf("expected source error to propagate, got %v", err)
	}
}

func TestExtendProducesWords(t *testing.T) {
	g := NewSeeded(7)
	src := &fakeSource{words: []string{"alpha", "beta"}}
	got, err := g.Extend(wordsConfig(10), src, 15)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if len(got) != 15 {
		t.Fatalf("expected 15 words, got %d", len(got))
	}
}
