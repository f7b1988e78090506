package dates

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

// ErrUnresolved marks a date expression no normalization stage could parse.
var ErrUnresolved = errors.New("dates: could not normalize")

const canonicalLayout = "2006-01-02"

// Layouts tried in order after the canonical short-circuit. The order is
// policy: "01/02/2025" is ambiguous between US and EU slash dates and the
// US reading wins because its layouts come first.
var layouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"02/01/2006",
	"02/01/06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// Normalizer turns absolute and relative date expressions into canonical
// YYYY-MM-DD strings. Stages: canonical short-circuit, the fixed layout
// list, then the text-interpretation service with today's date as context.
type Normalizer struct {
	completer llm.Completer
	now       func() time.Time
}

type Option func(*Normalizer)

// WithNow fixes the clock used for relative-date prompts. Tests use it.
func WithNow(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

func NewNormalizer(completer llm.Completer, opts ...Option) *Normalizer {
	n := &Normalizer{
		completer: completer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the canonical form of text, or ErrUnresolved. Canonical
// input comes back unchanged.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty date", ErrUnresolved)
	}

	if models.IsCanonicalDate(trimmed) {
		return trimmed, nil
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(canonicalLayout), nil
		}
	}

	if canonical, ok := n.normalizeLLM(ctx, trimmed); ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnresolved, trimmed)
}

func (n *Normalizer) normalizeLLM(ctx context.Context, text string) (string, bool) {
	prompt := fmt.Sprintf(`Parse this date description to YYYY-MM-DD format.
Date description: %s
Today's date: %s

Return ONLY the date in YYYY-MM-DD format.`, text, n.now().Format(canonicalLayout))

	response, err := n.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		log.Printf("dates: llm fallback for %q failed: %v", text, err)
		return "", false
	}

	canonical := strings.TrimSpace(response)
	if !models.IsCanonicalDate(canonical) {
		log.Printf("dates: llm returned non-canonical date %q for %q", canonical, text)
		return "", false
	}
	return canonical, true
}

// Shift moves a canonical date by the given number of days.
func Shift(date string, days int) (string, error) {
	parsed, err := time.Parse(canonicalLayout, date)
	if err != nil {
		return "", fmt.Errorf("dates: shifting %q: %w", date, err)
	}
	return parsed.AddDate(0, 0, days).Format(canonicalLayout), nil
}
