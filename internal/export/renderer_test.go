package export

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/report"
)

func newTestRenderer() *Renderer {
	settings := &conf.Settings{}
	settings.Main.Name = "archweb-test"
	settings.Export.TruncateAt = 50
	return NewRenderer(settings).WithThumbFetcher(nil)
}

func summaryTable() *report.Table {
	return &report.Table{
		Title: "Riepilogo Magazzino - Scavo Nord",
		Columns: []report.Column{
			{Name: "Site", Type: report.TypeString},
			{Name: "Box", Type: report.TypeString},
			{Name: "Count", Type: report.TypeNumber},
		},
		Rows: [][]any{
			{"Magazzino A", "1", 12},
			{"Magazzino A", "2", 4},
			{"Magazzino B", "1", 7},
		},
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := newTestRenderer()
	var buf bytes.Buffer

	err := r.Render(context.Background(), summaryTable(), Format("csv"), &buf)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// Validation failures must precede any output.
	assert.Zero(t, buf.Len())
}

func TestRenderRejectsMissingColumns(t *testing.T) {
	r := newTestRenderer()
	var buf bytes.Buffer

	err := r.Render(context.Background(), &report.Table{Title: "Vuoto"}, FormatExcel, &buf)

	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Zero(t, buf.Len())
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	r := newTestRenderer()
	table := summaryTable()
	table.Rows = append(table.Rows, []any{"Magazzino C"})
	var buf bytes.Buffer

	err := r.Render(context.Background(), table, FormatPDF, &buf)

	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Zero(t, buf.Len())
}

func TestRenderExcelEmptyTableIsValidArtifact(t *testing.T) {
	r := newTestRenderer()
	table := summaryTable()
	table.Rows = nil
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), table, FormatExcel, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Site", "Box", "Count"}, rows[0])
}

func TestRenderExcelRows(t *testing.T) {
	r := newTestRenderer()
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), summaryTable(), FormatExcel, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Magazzino A", "1", "12"}, rows[1])
	assert.Equal(t, []string{"Magazzino B", "1", "7"}, rows[3])

	// Numeric columns stay numeric for spreadsheet consumers.
	cellType, err := f.GetCellType(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeNumber, cellType)
}

func TestRenderExcelNilCellsStayEmpty(t *testing.T) {
	r := newTestRenderer()
	table := summaryTable()
	table.Rows = [][]any{{"Magazzino A", nil, nil}}
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), table, FormatExcel, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(f.GetSheetName(0), "B2")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRenderExcelStreamsLargeTables(t *testing.T) {
	r := newTestRenderer()
	table := summaryTable()
	table.Rows = nil
	for i := 0; i < 10000; i++ {
		table.Rows = append(table.Rows, []any{"Magazzino A", fmt.Sprintf("%d", i%40), i})
	}
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), table, FormatExcel, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 10001)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	r := newTestRenderer()
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), summaryTable(), FormatPDF, &buf))

	assert.Greater(t, buf.Len(), 500)
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestRenderPDFEmptyTableIsValidArtifact(t *testing.T) {
	r := newTestRenderer()
	table := summaryTable()
	table.Rows = nil
	var buf bytes.Buffer

	require.NoError(t, r.Render(context.Background(), table, FormatPDF, &buf))
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestRenderCancelledContextReportsIncomplete(t *testing.T) {
	r := newTestRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer

	err := r.Render(ctx, summaryTable(), FormatExcel, &buf)

	require.Error(t, err)
	var incomplete *IncompleteExportError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, FormatExcel, incomplete.Format)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFCellTextTruncates(t *testing.T) {
	r := &Renderer{truncateAt: 10}

	long := "Frammento di ceramica a vernice nera"
	text := r.pdfCellText(long, report.TypeString)
	assert.Equal(t, "Frammen...", text)
	assert.Len(t, []rune(text), 10)

	assert.Equal(t, "corto", r.pdfCellText("corto", report.TypeString))
	assert.Empty(t, r.pdfCellText(nil, report.TypeString))
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Export", sheetName(""))
	assert.Equal(t, "Inventario Materiali", sheetName("Inventario Materiali"))
	assert.Equal(t, "Scavo  Area 2", sheetName("Scavo: Area 2"))

	long := sheetName("Unità Stratigrafiche - Scavo Meridionale 2024")
	assert.LessOrEqual(t, len([]rune(long)), 31)
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, FormatPDF.Valid())
	assert.True(t, FormatExcel.Valid())
	assert.False(t, Format("docx").Valid())

	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "xlsx", FormatExcel.Extension())
	assert.Equal(t, "pdf", FormatPDF.Extension())
}
