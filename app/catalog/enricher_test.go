package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestEnricher_Run_RoundsNumbers(t *testing.T) {
	enricher := NewEnricher()

	records := enricher.Run([]Record{{
		ASIN:   "B001",
		Price:  floatPtr(12.3456),
		Rating: floatPtr(4.555),
	}})

	require.Len(t, records, 1)
	assert.Equal(t, 12.35, *records[0].Price)
	assert.Equal(t, 4.6, *records[0].Rating)
}

func TestEnricher_Run_CleansText(t *testing.T) {
	enricher := NewEnricher()

	records := enricher.Run([]Record{{
		Title:       "  The   Dragon\t\nKing ",
		Author:      "Jane  Doe",
		Publisher:   "Café Press",
		Description: "  a long tale  ",
	}})

	assert.Equal(t, "The Dragon King", records[0].Title)
	assert.Equal(t, "Jane Doe", records[0].Author)
	assert.Equal(t, "Café Press", records[0].Publisher)
	assert.Equal(t, "a long tale", records[0].Description)
}

func TestEnricher_Run_TruncatesDescription(t *testing.T) {
	enricher := NewEnricher()

	long := strings.Repeat("é", MaxDescriptionLength+10)
	exact := strings.Repeat("a", MaxDescriptionLength)

	records := enricher.Run([]Record{{Description: long}, {Description: exact}})

	assert.Equal(t, MaxDescriptionLength, utf8.RuneCountInString(records[0].Description))
	assert.True(t, strings.HasSuffix(records[0].Description, "..."))
	assert.Equal(t, exact, records[1].Description)
}

func TestEnricher_Run_Idempotent(t *testing.T) {
	enricher := NewEnricher()

	input := []Record{{
		ASIN:        "B001",
		Title:       " Dragon  Song ",
		Price:       floatPtr(9.999),
		Rating:      floatPtr(3.95),
		Description: strings.Repeat("x", MaxDescriptionLength*2),
	}}

	once := enricher.Run(input)
	snapshot := once[0]
	price, rating := *snapshot.Price, *snapshot.Rating

	twice := enricher.Run(once)

	assert.Equal(t, snapshot.Title, twice[0].Title)
	assert.Equal(t, snapshot.Description, twice[0].Description)
	assert.Equal(t, price, *twice[0].Price)
	assert.Equal(t, rating, *twice[0].Rating)
}

func TestEnricher_Run_KeepsAbsentFields(t *testing.T) {
	enricher := NewEnricher()

	records := enricher.Run([]Record{{ASIN: "B001"}})

	assert.Nil(t, records[0].Price)
	assert.Nil(t, records[0].Rating)
	assert.Empty(t, records[0].Series)
}
