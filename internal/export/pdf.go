package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pyarchinit/archweb/internal/report"
)

const (
	pdfMarginLeft   = 10.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 10.0
	pdfMarginBottom = 10.0

	pdfHeaderRowHeight = 7.0
	pdfDataRowHeight   = 6.0
	pdfThumbHeight     = 5.0
)

// renderPDF writes the table as a landscape A4 document. The header row is
// repeated on every page and rows are emitted one at a time, so pagination
// never requires the whole table in layout memory at once.
func (r *Renderer) renderPDF(ctx context.Context, table *report.Table, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(false, pdfMarginBottom)

	pageWidth, pageHeight := pdf.GetPageSize()
	usableWidth := pageWidth - pdfMarginLeft - pdfMarginRight
	colWidth := usableWidth / float64(len(table.Columns))
	breakAt := pageHeight - pdfMarginBottom - pdfDataRowHeight

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(128, 128, 128)
		for _, col := range table.Columns {
			pdf.CellFormat(colWidth, pdfHeaderRowHeight, tr(col.Name), "1", 0, "CM", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(0, 0, 0)
	}

	// Title page header, written once.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usableWidth, 10, tr(table.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(usableWidth, 6,
		fmt.Sprintf("Generato il: %s", time.Now().Format("02/01/2006 15:04")),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)
	writeHeader()

	thumbCount := 0
	for i := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		if pdf.GetY() > breakAt {
			pdf.AddPage()
			writeHeader()
		}

		if i%2 == 1 {
			pdf.SetFillColor(233, 237, 244)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, col := range table.Columns {
			value := table.Rows[i][j]
			if col.Type == report.TypeMediaRef && r.thumbnails {
				if r.writeThumbCell(ctx, pdf, value, colWidth, &thumbCount) {
					continue
				}
			}
			text := r.pdfCellText(value, col.Type)
			pdf.CellFormat(colWidth, pdfDataRowHeight, tr(text), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		if pdf.Err() {
			return fmt.Errorf("rendering row %d: %w", i, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// writeThumbCell embeds the thumbnail referenced by a media-ref cell.
// Returns false when the cell should fall back to plain text: missing
// value, disabled fetcher, or a failed fetch. A failed fetch never aborts
// the export.
func (r *Renderer) writeThumbCell(ctx context.Context, pdf *fpdf.Fpdf, value any, colWidth float64, thumbCount *int) bool {
	url, ok := value.(string)
	if !ok || url == "" || r.fetchThumb == nil {
		return false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, thumbFetchTimeout)
	data, contentType, err := r.fetchThumb(fetchCtx, url)
	cancel()
	if err != nil {
		r.logger.Debug("thumbnail fetch skipped", "url", url, "error", err)
		return false
	}

	imageType := imageTypeFromContentType(contentType)
	if imageType == "" {
		return false
	}

	*thumbCount++
	name := fmt.Sprintf("thumb-%d", *thumbCount)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if pdf.Err() {
		// Undecodable image data; clear the error and degrade to text.
		pdf.ClearError()
		return false
	}

	x, y := pdf.GetXY()
	pdf.CellFormat(colWidth, pdfDataRowHeight, "", "1", 0, "L", true, 0, "")
	pdf.ImageOptions(name, x+0.5, y+0.5, 0, pdfThumbHeight, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	return true
}

// pdfCellText formats and truncates a cell value for the fixed page
// geometry; long text gets an ellipsis rather than overflowing the cell.
func (r *Renderer) pdfCellText(value any, colType report.ColumnType) string {
	if value == nil {
		return ""
	}

	var text string
	switch colType {
	case report.TypeDate:
		if t, ok := value.(time.Time); ok {
			text = t.Format("2006-01-02")
		} else {
			text = fmt.Sprintf("%v", value)
		}
	default:
		text = fmt.Sprintf("%v", value)
	}

	runes := []rune(text)
	if len(runes) > r.truncateAt && r.truncateAt > 3 {
		text = string(runes[:r.truncateAt-3]) + "..."
	}
	return text
}

func imageTypeFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "PNG"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG"
	case strings.Contains(contentType, "gif"):
		return "GIF"
	default:
		return ""
	}
}
