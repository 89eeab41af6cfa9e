package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// RawDataSuffix terminates the category key in a source filename.
const RawDataSuffix = "_raw_data"

var ErrInvalidFilename = errors.New("invalid source filename")

type FilenameParser struct {
	categories *Categories
}

func NewFilenameParser(categories *Categories) *FilenameParser {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &FilenameParser{categories: categories}
}

// Run extracts ingestion date and category from
// <YYYYMMDD><category-key>_raw_data.<ext>.
func (p *FilenameParser) Run(filename string) (SourceFileInfo, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if len(stem) < 8 {
		return SourceFileInfo{}, fmt.Errorf("%w: %q is too short to carry a date", ErrInvalidFilename, base)
	}

	datePart := stem[:8]
	for _, r := range datePart {
		if r < '0' || r > '9' {
			return SourceFileInfo{}, fmt.Errorf("%w: %q does not start with 8 date digits", ErrInvalidFilename, base)
		}
	}

	ingestionDate, err := time.ParseInLocation("20060102", datePart, time.UTC)
	if err != nil {
		return SourceFileInfo{}, fmt.Errorf("%w: %q has an invalid date: %v", ErrInvalidFilename, base, err)
	}

	key := stem[8:]
	if idx := strings.LastIndex(key, RawDataSuffix); idx >= 0 {
		key = key[:idx]
	}
	if strings.Trim(key, "_") == "" {
		return SourceFileInfo{}, fmt.Errorf("%w: %q has no category key", ErrInvalidFilename, base)
	}

	return SourceFileInfo{
		IngestionDate: ingestionDate,
		CategoryKey:   key,
		CategoryName:  p.categories.Name(key),
	}, nil
}
