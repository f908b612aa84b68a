// Package generator builds target texts for typing sessions.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

// Modifier blend probabilities, applied independently per word.
const (
	symbolProbability      = 0.20
	punctuationProbability = 0.30
	numberProbability      = 0.15
)

// Sizing of the eager word buffer for time mode, assuming a fast typist
// around 200 WPM. Extension tops the buffer up before it runs out.
const (
	timeBufferWordsPerSecond = 10.0 / 3.0
	timeBufferMinWords       = 40
)

// Source resolves language word lists and modifier token sets.
type Source interface {
	Words(lang string) ([]string, error)
	Symbols() []rune
	Numbers() []rune
	Punctuation() []rune
}

// Quotes resolves pre-authored passages for quote mode.
type Quotes interface {
	Passage(length model.QuoteLength) (string, error)
}

// Generator produces randomized target texts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible texts.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate produces the initial target words for a session. Words mode
// yields exactly the configured count, time mode an eager buffer sized for
// the duration, and quote mode the words of a single passage verbatim.
func (g *Generator) Generate(cfg model.Config, src Source, qs Quotes) ([]string, error) {
	switch cfg.Mode.Kind {
	case model.ModeWords:
		return g.pool(cfg, src, cfg.Mode.Count)
	case model.ModeTime:
		return g.pool(cfg, src, TimeBufferWords(cfg.Mode.Duration))
	case model.ModeQuote:
		if qs == nil {
			return nil, fmt.Errorf("%w: quote mode without a quote source", model.ErrInvalidConfig)
		}
		passage, err := qs.Passage(cfg.Mode.Length)
		if err != nil {
			return nil, fmt.Errorf("failed to pick quote: %w", err)
		}
		return strings.Fields(passage), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode", model.ErrInvalidConfig)
	}
}

// Extend produces count additional words for a running time-mode session.
// The result is appended by the caller; nothing already produced changes.
func (g *Generator) Extend(cfg model.Config, src Source, count int) ([]string, error) {
	return g.pool(cfg, src, count)
}

// TimeBufferWords sizes the eager buffer for a time-mode duration.
func TimeBufferWords(d time.Duration) int {
	words := int(d.Seconds()*timeBufferWordsPerSecond + 0.5)
	if words < timeBufferMinWords {
		return timeBufferMinWords
	}
	return words
}

func (g *Generator) pool(cfg model.Config, src Source, count int) ([]string, error) {
	base, err := src.Words(cfg.Language)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := base[g.rnd.Intn(len(base))]
		if cfg.Symbols {
			word = g.applyModifier(word, src.Symbols(), symbolProbability)
		}
		if cfg.Punctuation {
			word = g.applyModifier(word, src.Punctuation(), punctuationProbability)
		}
		if cfg.Numbers {
			word = g.applyModifier(word, src.Numbers(), numberProbability)
		}
		result = append(result, word)
	}
	return result, nil
}

func (g *Generator) applyModifier(word string, set []rune, probability float64) string {
	if len(set) == 0 || g.rnd.Float64() > probability {
		return word
	}
	return word + string(set[g.rnd.Intn(len(set))])
}
