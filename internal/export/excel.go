package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pyarchinit/archweb/internal/report"
)

const (
	sheetNameLimit  = 31
	excelColWidth   = 20
	headerFillColor = "4472C4"
)

// renderExcel streams the table into a single-sheet workbook. Rows are
// written one at a time through the stream writer so large exports do not
// materialize the whole document in memory.
func (r *Renderer) renderExcel(ctx context.Context, table *report.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(table.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	if err := sw.SetColWidth(1, len(table.Columns), excelColWidth); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header row: %w", err)
	}

	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		cells := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			cells[j] = excelCell(table.Rows[i][j], col.Type)
		}

		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell reference for row %d: %w", i, err)
		}
		if err := sw.SetRow(ref, cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing stream writer: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// excelCell coerces a cell value per the column's semantic type. Numbers
// stay numeric so spreadsheet consumers can compute on them; dates become
// ISO strings; media refs are written as the resolved URL.
func excelCell(value any, colType report.ColumnType) any {
	if value == nil {
		return nil
	}
	switch colType {
	case report.TypeNumber:
		switch v := value.(type) {
		case int, int64, float64, float32, uint, uint64:
			return v
		default:
			return fmt.Sprintf("%v", v)
		}
	case report.TypeDate:
		if t, ok := value.(time.Time); ok {
			return t.Format("2006-01-02")
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// sheetName derives a legal sheet name from the table title.
func sheetName(title string) string {
	if title == "" {
		return "Export"
	}
	// Characters Excel forbids in sheet names.
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name := strings.TrimSpace(replacer.Replace(title))
	if name == "" {
		return "Export"
	}
	if runes := []rune(name); len(runes) > sheetNameLimit {
		name = strings.TrimSpace(string(runes[:sheetNameLimit]))
	}
	return name
}
