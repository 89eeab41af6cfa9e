package sheet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lysyi3m/catalog-etl/app/catalog"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadResult holds the rows of a source file plus non-fatal read warnings.
type ReadResult struct {
	Rows     []catalog.RawRecord
	Warnings []string
}

type Reader interface {
	Read(ctx context.Context, path string) (*ReadResult, error)
}

// FileReader picks a concrete reader by file extension.
type FileReader struct {
	xlsx *XLSXReader
	csv  *CSVReader
}

func NewFileReader() *FileReader {
	return &FileReader{
		xlsx: NewXLSXReader(),
		csv:  NewCSVReader(),
	}
}

func (r *FileReader) Read(ctx context.Context, path string) (*ReadResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return r.xlsx.Read(ctx, path)
	case ".csv":
		return r.csv.Read(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// headerAliases maps normalized header spellings to column names.
var headerAliases = map[string]string{
	"book_title":        catalog.ColTitle,
	"name":              catalog.ColTitle,
	"authors":           catalog.ColAuthor,
	"author_name":       catalog.ColAuthor,
	"reviews":           catalog.ColReviewCount,
	"num_reviews":       catalog.ColReviewCount,
	"ratings":           catalog.ColReviewCount,
	"stars":             catalog.ColRating,
	"avg_rating":        catalog.ColRating,
	"bsr":               catalog.ColSalesRank,
	"best_sellers_rank": catalog.ColSalesRank,
	"rank":              catalog.ColSalesRank,
	"published":         catalog.ColReleaseDate,
	"publication_date":  catalog.ColReleaseDate,
	"cover":             catalog.ColCoverURL,
	"cover_image":       catalog.ColCoverURL,
	"image_url":         catalog.ColCoverURL,
	"url":               catalog.ColProductURL,
	"link":              catalog.ColProductURL,
	"tags":              catalog.ColTopicTags,
	"pov":               catalog.ColEstimatedPOV,
	"ku":                catalog.ColKindleUnlimited,
	"kindle_unlimited?": catalog.ColKindleUnlimited,
	"has_audiobook":     catalog.ColAudiobook,
}

var knownColumns = func() map[string]struct{} {
	m := make(map[string]struct{}, len(catalog.Columns))
	for _, c := range catalog.Columns {
		m[c] = struct{}{}
	}
	return m
}()

// normalizeHeader maps a header cell to a column name, "" when unknown.
func normalizeHeader(h string) string {
	key := strings.ToLower(strings.TrimSpace(h))
	key = strings.Join(strings.Fields(key), "_")
	key = strings.ReplaceAll(key, "-", "_")

	if _, ok := knownColumns[key]; ok {
		return key
	}
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return ""
}

// mapHeader resolves header cells to columns. Unknown and repeated headers
// produce warnings and are ignored.
func mapHeader(header []string) ([]string, []string) {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	var warnings []string

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			continue
		}
		col := normalizeHeader(h)
		switch {
		case col == "":
			warnings = append(warnings, fmt.Sprintf("ignoring unknown column %q", h))
		case seen[col]:
			warnings = append(warnings, fmt.Sprintf("ignoring repeated column %q", h))
		default:
			seen[col] = true
			columns[i] = col
		}
	}

	for _, required := range []string{catalog.ColASIN, catalog.ColTitle, catalog.ColAuthor} {
		if !seen[required] {
			warnings = append(warnings, fmt.Sprintf("missing column %q", required))
		}
	}

	return columns, warnings
}

func isBlankRow(cells map[string]catalog.Value) bool {
	for _, v := range cells {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}
