package catalog

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxDescriptionLength = 5000
	truncationMarker     = "..."
)

type Enricher struct{}

func NewEnricher() *Enricher {
	return &Enricher{}
}

// Run normalizes field values in place. It never adds or removes records
// and applying it twice yields the same output.
func (e *Enricher) Run(records []Record) []Record {
	for i := range records {
		e.enrich(&records[i])
	}
	return records
}

func (e *Enricher) enrich(r *Record) {
	if r.Price != nil {
		p := roundTo(*r.Price, 2)
		r.Price = &p
	}
	if r.Rating != nil {
		v := roundTo(*r.Rating, 1)
		r.Rating = &v
	}

	r.Title = cleanText(r.Title)
	r.Author = cleanText(r.Author)
	r.Series = cleanText(r.Series)
	r.Publisher = cleanText(r.Publisher)
	r.Description = truncate(strings.TrimSpace(norm.NFC.String(r.Description)), MaxDescriptionLength)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// cleanText collapses whitespace runs and applies NFC normalization.
func cleanText(s string) string {
	if s == "" {
		return s
	}
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-len(truncationMarker)]) + truncationMarker
}
