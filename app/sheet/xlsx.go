package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lysyi3m/catalog-etl/app/catalog"
)

// XLSXReader reads the active worksheet of an Excel workbook. Numeric and
// boolean cells keep their native type, author cell hyperlinks are
// collected into RawRecord.Links.
type XLSXReader struct{}

func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

func (r *XLSXReader) Read(ctx context.Context, path string) (*ReadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &ReadResult{}, nil
	}

	columns, warnings := mapHeader(rows[0])
	result := &ReadResult{Warnings: warnings}

	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := i + 1
		cells := make(map[string]catalog.Value, len(columns))
		var links map[string]string

		for c, raw := range rows[i] {
			if c >= len(columns) || columns[c] == "" || raw == "" {
				continue
			}

			name, err := excelize.CoordinatesToCellName(c+1, line)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell at line %d: %w", line, err)
			}

			value, err := cellValue(f, sheet, name, raw)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			cells[columns[c]] = value

			if columns[c] != catalog.ColAuthor {
				continue
			}
			ok, target, err := f.GetCellHyperLink(sheet, name)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: failed to read hyperlink: %v", line, err))
				continue
			}
			if ok && strings.TrimSpace(target) != "" {
				links = map[string]string{catalog.ColAuthor: target}
			}
		}

		if isBlankRow(cells) {
			continue
		}
		result.Rows = append(result.Rows, catalog.RawRecord{Line: line, Cells: cells, Links: links})
	}

	return result, nil
}

func cellValue(f *excelize.File, sheet, cell, raw string) (catalog.Value, error) {
	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return catalog.Value{}, fmt.Errorf("failed to read type of %s: %w", cell, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return catalog.BoolValue(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return catalog.NumberValue(n), nil
		}
		return catalog.StringValue(raw), nil
	case excelize.CellTypeError:
		return catalog.Value{}, fmt.Errorf("cell %s holds an error value %q", cell, raw)
	default:
		return catalog.StringValue(raw), nil
	}
}
