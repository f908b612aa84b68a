// Package quotes provides bundled passages for quote mode.
package quotes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

//go:embed quotes.json
var quotesRaw []byte

// Quote is a single pre-authored passage with attribution.
type Quote struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Length-class boundaries in characters.
const (
	shortMax  = 100
	mediumMax = 250
)

// Classify buckets a passage by its character count.
func Classify(text string) model.QuoteLength {
	n := len([]rune(text))
	switch {
	case n < shortMax:
		return model.QuoteShort
	case n <= mediumMax:
		return model.QuoteMedium
	default:
		return model.QuoteLong
	}
}

// Library serves bundled passages grouped by length class.
type Library struct {
	rnd     *rand.Rand
	buckets map[model.QuoteLength][]Quote
}

// New builds a library with a time-based seed.
func New() (*Library, error) {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded builds a library with a fixed seed for reproducible picks.
func NewSeeded(seed int64) (*Library, error) {
	var all []Quote
	if err := json.Unmarshal(quotesRaw, &all); err != nil {
		return nil, fmt.Errorf("failed to decode bundled quotes: %w", err)
	}
	buckets := map[model.QuoteLength][]Quote{}
	for _, q := range all {
		q.Text = strings.Join(strings.Fields(q.Text), " ")
		if q.Text == "" {
			continue
		}
		class := Classify(q.Text)
		buckets[class] = append(buckets[class], q)
	}
	for _, class := range []model.QuoteLength{model.QuoteShort, model.QuoteMedium, model.QuoteLong} {
		if len(buckets[class]) == 0 {
			return nil, fmt.Errorf("bundled quotes have no %s passages", class)
		}
	}
	return &Library{
		rnd:     rand.New(rand.NewSource(seed)),
		buckets: buckets,
	}, nil
}

// Passage returns one passage of the requested length class.
func (l *Library) Passage(length model.QuoteLength) (string, error) {
	bucket, ok := l.buckets[length]
	if !ok || len(bucket) == 0 {
		return "", fmt.Errorf("%w: unknown quote length", model.ErrInvalidConfig)
	}
	return bucket[l.rnd.Intn(len(bucket))].Text, nil
}
