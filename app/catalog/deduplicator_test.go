package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicator_Run_FirstOccurrenceWins(t *testing.T) {
	day := time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{IngestionDate: day, Category: "Fantasy", ASIN: "B001", Title: "first"},
		{IngestionDate: day, Category: "Fantasy", ASIN: "B002", Title: "other"},
		{IngestionDate: day, Category: "Fantasy", ASIN: "B001", Title: "second"},
		{IngestionDate: day, Category: "Romance", ASIN: "B001", Title: "other category"},
		{IngestionDate: day.AddDate(0, 0, 1), Category: "Fantasy", ASIN: "B001", Title: "other day"},
	}

	unique, duplicates := NewDeduplicator().Run(records)

	require.Len(t, unique, 4)
	require.Len(t, duplicates, 1)
	assert.Equal(t, len(records), len(unique)+len(duplicates))

	assert.Equal(t, "first", unique[0].Title)
	assert.Equal(t, "other", unique[1].Title)
	assert.Equal(t, "second", duplicates[0].Record.Title)
	assert.Equal(t, "2025-08-11/Fantasy/B001", duplicates[0].Key.String())
}

func TestDeduplicator_Run_Empty(t *testing.T) {
	unique, duplicates := NewDeduplicator().Run(nil)

	assert.Empty(t, unique)
	assert.Empty(t, duplicates)
}
