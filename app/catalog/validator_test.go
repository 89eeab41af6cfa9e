package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFileInfo = SourceFileInfo{
	IngestionDate: time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC),
	CategoryKey:   "_fantasy",
	CategoryName:  "Fantasy",
}

func rawRow(line int, cells map[string]string) RawRecord {
	values := make(map[string]Value, len(cells))
	for k, v := range cells {
		values[k] = StringValue(v)
	}
	return RawRecord{Line: line, Cells: values}
}

func TestValidator_Run_AuthorLinkAndNumbers(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(2, map[string]string{
		ColASIN:        "B001",
		ColTitle:       "Dragon",
		ColAuthor:      "[Jane](https://x.com/a)",
		ColRating:      "4.555",
		ColReviewCount: "156.7",
	}), testFileInfo)

	require.Nil(t, reasons)
	require.NotNil(t, record)

	assert.Equal(t, "Jane", record.Author)
	assert.Equal(t, "https://x.com/a", record.AuthorURL)
	assert.Equal(t, "Fantasy", record.Category)
	assert.Equal(t, testFileInfo.IngestionDate, record.IngestionDate)
	assert.Equal(t, 2, record.SourceLine)
	require.NotNil(t, record.Rating)
	assert.InDelta(t, 4.555, *record.Rating, 1e-9)
	require.NotNil(t, record.ReviewCount)
	assert.Equal(t, int64(156), *record.ReviewCount)
	assert.False(t, record.MediaVerified)
}

func TestValidator_Run_ReportsEveryMissingRequiredField(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(5, map[string]string{
		ColTitle: "Dragon",
		ColASIN:  "   ",
	}), testFileInfo)

	assert.Nil(t, record)
	assert.Equal(t, []string{"asin is required", "author is required"}, reasons)
}

func TestValidator_Run_InvalidASIN(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(2, map[string]string{
		ColASIN:   "B0-TOO-LONG-123",
		ColTitle:  "Dragon",
		ColAuthor: "Jane",
	}), testFileInfo)

	assert.Nil(t, record)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "asin")
}

func TestValidator_Run_OutOfRangeRatingIsDroppedNotRejected(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(2, map[string]string{
		ColASIN:      "B001",
		ColTitle:     "Dragon",
		ColAuthor:    "Jane",
		ColRating:    "6.0",
		ColPrice:     "-1",
		ColSalesRank: "0",
	}), testFileInfo)

	require.Nil(t, reasons)
	require.NotNil(t, record)
	assert.Nil(t, record.Rating)
	assert.Nil(t, record.Price)
	assert.Nil(t, record.SalesRank)
}

func TestValidator_Run_LenientNumbers(t *testing.T) {
	validator := NewValidator()

	raw := rawRow(2, map[string]string{
		ColASIN:        "B001",
		ColTitle:       "Dragon",
		ColAuthor:      "Jane",
		ColPrice:       "$1,299.50",
		ColSalesRank:   "12,345",
		ColReviewCount: "not a number",
	})
	raw.Cells[ColRating] = NumberValue(4.2)

	record, reasons := validator.Run(raw, testFileInfo)
	require.Nil(t, reasons)

	require.NotNil(t, record.Price)
	assert.InDelta(t, 1299.5, *record.Price, 1e-9)
	require.NotNil(t, record.SalesRank)
	assert.Equal(t, int64(12345), *record.SalesRank)
	require.NotNil(t, record.Rating)
	assert.InDelta(t, 4.2, *record.Rating, 1e-9)
	assert.Nil(t, record.ReviewCount)
}

func TestValidator_Run_InvalidURLsAreDropped(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(2, map[string]string{
		ColASIN:       "B001",
		ColTitle:      "Dragon",
		ColAuthor:     "[Jane](not a url)",
		ColCoverURL:   "images.example.com/cover.jpg",
		ColProductURL: "ftp://example.com/book",
	}), testFileInfo)

	require.Nil(t, reasons)
	assert.Equal(t, "Jane", record.Author)
	assert.Empty(t, record.AuthorURL)
	assert.Equal(t, "https://images.example.com/cover.jpg", record.CoverURL)
	assert.Empty(t, record.ProductURL)
}

func TestValidator_Run_AuthorLinkFromCellHyperlink(t *testing.T) {
	validator := NewValidator()

	raw := rawRow(2, map[string]string{
		ColASIN:   "B001",
		ColTitle:  "Dragon",
		ColAuthor: "Jane Doe",
	})
	raw.Links = map[string]string{ColAuthor: "https://example.com/jane"}

	record, reasons := validator.Run(raw, testFileInfo)
	require.Nil(t, reasons)
	assert.Equal(t, "Jane Doe", record.Author)
	assert.Equal(t, "https://example.com/jane", record.AuthorURL)
}

func TestValidator_Run_Lists(t *testing.T) {
	validator := NewValidator()

	record, reasons := validator.Run(rawRow(2, map[string]string{
		ColASIN:          "B001",
		ColTitle:         "Dragon",
		ColAuthor:        "Jane",
		ColTopicTags:     " dragons | | magic |quests ",
		ColSubcategories: "Epic; Sword & Sorcery,  ,",
		ColKeyphrases:    "slow burn, found family",
	}), testFileInfo)

	require.Nil(t, reasons)
	assert.Equal(t, []string{"dragons", "magic", "quests"}, record.TopicTags)
	assert.Equal(t, []string{"Epic", "Sword & Sorcery"}, record.Subcategories)
	assert.Equal(t, []string{"slow burn", "found family"}, record.Keyphrases)

	record, _ = validator.Run(rawRow(3, map[string]string{
		ColASIN:          "B002",
		ColTitle:         "Dragon",
		ColAuthor:        "Jane",
		ColTopicTags:     " | | ",
		ColSubcategories: " ; , ",
	}), testFileInfo)
	assert.Nil(t, record.TopicTags)
	assert.Nil(t, record.Subcategories)
}

func TestValidator_Run_ReleaseDates(t *testing.T) {
	validator := NewValidator()
	expected := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	cases := map[string]Value{
		"iso":          StringValue("2024-03-05"),
		"us":           StringValue("03/05/2024"),
		"long month":   StringValue("March 5, 2024"),
		"short month":  StringValue("Mar 5, 2024"),
		"excel serial": NumberValue(45356),
		"serial text":  StringValue("45356"),
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			raw := rawRow(2, map[string]string{ColASIN: "B001", ColTitle: "Dragon", ColAuthor: "Jane"})
			raw.Cells[ColReleaseDate] = value

			record, reasons := validator.Run(raw, testFileInfo)
			require.Nil(t, reasons)
			require.NotNil(t, record.ReleaseDate)
			assert.Equal(t, expected, *record.ReleaseDate)
		})
	}

	raw := rawRow(2, map[string]string{ColASIN: "B001", ColTitle: "Dragon", ColAuthor: "Jane", ColReleaseDate: "someday"})
	record, reasons := validator.Run(raw, testFileInfo)
	require.Nil(t, reasons)
	assert.Nil(t, record.ReleaseDate)
}

func TestValidator_Run_Booleans(t *testing.T) {
	validator := NewValidator()

	cases := []struct {
		name     string
		value    Value
		expected *bool
	}{
		{"bool true", BoolValue(true), boolPtr(true)},
		{"yes", StringValue("Yes"), boolPtr(true)},
		{"one", StringValue("1"), boolPtr(true)},
		{"number one", NumberValue(1), boolPtr(true)},
		{"no", StringValue("no"), boolPtr(false)},
		{"zero", StringValue("0"), boolPtr(false)},
		{"empty", StringValue(""), boolPtr(false)},
		{"blank", Value{}, boolPtr(false)},
		{"maybe", StringValue("maybe"), nil},
		{"number two", NumberValue(2), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := rawRow(2, map[string]string{ColASIN: "B001", ColTitle: "Dragon", ColAuthor: "Jane"})
			raw.Cells[ColKindleUnlimited] = tc.value

			record, reasons := validator.Run(raw, testFileInfo)
			require.Nil(t, reasons)
			assert.Equal(t, tc.expected, record.KindleUnlimited)
		})
	}
}

func TestValidator_RunAll_ExcludesRejectedRows(t *testing.T) {
	validator := NewValidator()

	rows := []RawRecord{
		rawRow(2, map[string]string{ColASIN: "B001", ColTitle: "One", ColAuthor: "Jane"}),
		rawRow(3, map[string]string{ColASIN: "", ColTitle: "Two", ColAuthor: "Jane"}),
		rawRow(4, map[string]string{ColASIN: "B003", ColTitle: "Three", ColAuthor: "Jane"}),
	}

	valid, rejected := validator.RunAll(rows, testFileInfo)

	require.Len(t, valid, 2)
	require.Len(t, rejected, 1)
	assert.Equal(t, "B001", valid[0].ASIN)
	assert.Equal(t, "B003", valid[1].ASIN)
	assert.Equal(t, 3, rejected[0].Line)
	assert.Contains(t, rejected[0].Reasons[0], "required")
	assert.Equal(t, "Two", rejected[0].Raw.Payload()[ColTitle])
}

func boolPtr(b bool) *bool {
	return &b
}
