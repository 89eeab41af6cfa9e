package sheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lysyi3m/catalog-etl/app/catalog"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReader_Read(t *testing.T) {
	path := writeFile(t, "20250811_fantasy_raw_data.csv",
		"\ufeffTitle,ASIN,Author,Stars,Mystery Column\n"+
			"Dragon,B001,\"[Jane](https://x.com/a)\",4.555,x\n"+
			",,,,\n"+
			"Second,B002,John,3,y\n")

	result, err := NewCSVReader().Read(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Rows[0].Line)
	assert.Equal(t, 4, result.Rows[1].Line)
	assert.Equal(t, "[Jane](https://x.com/a)", result.Rows[0].Cell(catalog.ColAuthor).Text())
	assert.Equal(t, "4.555", result.Rows[0].Cell(catalog.ColRating).Text())
	assert.Equal(t, catalog.KindString, result.Rows[0].Cell(catalog.ColRating).Kind())
	assert.Contains(t, result.Warnings, `ignoring unknown column "Mystery Column"`)
}

func TestCSVReader_Read_EmptyFile(t *testing.T) {
	path := writeFile(t, "20250811_fantasy_raw_data.csv", "")

	result, err := NewCSVReader().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}

func TestCSVReader_Read_MissingFile(t *testing.T) {
	_, err := NewCSVReader().Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestXLSXReader_Read(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"title", "asin", "author", "rating", "review_count", "kindle_unlimited"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Dragon", "B001", "Jane", 4.555, 156.7, true}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Second", "B002", "John", "n/a", 3, false}))
	require.NoError(t, f.SetCellHyperLink(sheet, "C2", "https://x.com/a", "External"))

	path := filepath.Join(t.TempDir(), "20250811_fantasy_raw_data.xlsx")
	require.NoError(t, f.SaveAs(path))

	result, err := NewXLSXReader().Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Jane", first.Cell(catalog.ColAuthor).Text())
	assert.Equal(t, "https://x.com/a", first.Links[catalog.ColAuthor])
	assert.Equal(t, catalog.KindNumber, first.Cell(catalog.ColRating).Kind())
	assert.Equal(t, "4.555", first.Cell(catalog.ColRating).Text())
	assert.Equal(t, catalog.KindBool, first.Cell(catalog.ColKindleUnlimited).Kind())
	assert.Equal(t, "true", first.Cell(catalog.ColKindleUnlimited).Text())

	second := result.Rows[1]
	assert.Equal(t, 4, second.Line)
	assert.Nil(t, second.Links)
	assert.Equal(t, catalog.KindString, second.Cell(catalog.ColRating).Kind())
	assert.Equal(t, "false", second.Cell(catalog.ColKindleUnlimited).Text())
}

func TestFileReader_Read_DispatchesByExtension(t *testing.T) {
	reader := NewFileReader()

	path := writeFile(t, "20250811_fantasy_raw_data.CSV", "asin,title,author\nB001,Dragon,Jane\n")
	result, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)

	_, err = reader.Read(context.Background(), writeFile(t, "notes.txt", "hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestMapHeader(t *testing.T) {
	columns, warnings := mapHeader([]string{"Book Title", "ASIN", "Kindle-Unlimited", "asin", ""})

	assert.Equal(t, []string{catalog.ColTitle, catalog.ColASIN, catalog.ColKindleUnlimited, "", ""}, columns)
	assert.Contains(t, warnings, `ignoring repeated column "asin"`)
	assert.Contains(t, warnings, `missing column "author"`)
}
