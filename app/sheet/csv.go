package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lysyi3m/catalog-etl/app/catalog"
)

// CSVReader reads comma separated exports. All cells come back as strings.
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) Read(ctx context.Context, path string) (*ReadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &ReadResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns, warnings := mapHeader(header)
	result := &ReadResult{Warnings: warnings}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		cells := make(map[string]catalog.Value, len(columns))
		for i, field := range fields {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			cells[columns[i]] = catalog.StringValue(field)
		}
		if isBlankRow(cells) {
			continue
		}

		result.Rows = append(result.Rows, catalog.RawRecord{Line: line, Cells: cells})
	}

	return result, nil
}
