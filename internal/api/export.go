package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/export"
	"github.com/pyarchinit/archweb/internal/report"
)

func (c *Controller) initExportRoutes() {
	c.Group.GET("/export/materiali/summary/:format", c.ExportMaterialsSummary)
	c.Group.GET("/export/:entity/:format", c.ExportEntity)
}

// ExportEntity streams a PDF or spreadsheet export of an entity listing.
// Validation failures are reported before any bytes are written; once
// streaming has begun a failure can only truncate the download.
func (c *Controller) ExportEntity(ctx echo.Context) error {
	kind, err := report.KindFromString(ctx.Param("entity"))
	if err != nil {
		return c.HandleError(ctx, err, "Unknown entity kind", http.StatusBadRequest)
	}
	format := export.Format(ctx.Param("format"))
	if !format.Valid() {
		return c.HandleError(ctx, export.ErrUnsupportedFormat,
			"Unsupported export format", http.StatusBadRequest)
	}

	req := reportRequestFromQuery(ctx, kind)
	liftListingLimit(ctx, req)
	result, err := c.Assembler.Assemble(ctx.Request().Context(), req)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to assemble export data", http.StatusInternalServerError)
	}

	return c.streamArtifact(ctx, result.Table, format, string(kind))
}

// liftListingLimit removes the listing default limit for exports. An export
// covers the full filtered dataset; only an explicit limit query parameter
// bounds it.
func liftListingLimit(ctx echo.Context, req *report.Request) {
	if ctx.QueryParam("limit") != "" {
		return
	}
	req.Sites.Limit = 0
	req.StratUnit.Limit = 0
	req.Material.Limit = 0
	req.Pottery.Limit = 0
}

// ExportMaterialsSummary streams an export of the storage-location summary.
func (c *Controller) ExportMaterialsSummary(ctx echo.Context) error {
	format := export.Format(ctx.Param("format"))
	if !format.Valid() {
		return c.HandleError(ctx, export.ErrUnsupportedFormat,
			"Unsupported export format", http.StatusBadRequest)
	}

	sito := ctx.QueryParam("sito")
	summary, err := c.Assembler.MaterialsSummary(ctx.Request().Context(), sito)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to build materials summary", http.StatusInternalServerError)
	}
	table := c.Assembler.SummaryTable(&summary, sito)

	return c.streamArtifact(ctx, table, format, "materiali_summary")
}

// streamArtifact sets the download headers and renders the table straight
// into the response body. Both renderers buffer until their final write,
// so a failure normally surfaces before the response is committed and can
// still become a proper error status; only a failure after bytes went out
// is reduced to a log line and a truncated body.
func (c *Controller) streamArtifact(ctx echo.Context, table *report.Table, format export.Format, stem string) error {
	filename := fmt.Sprintf("%s_%s.%s", stem, time.Now().Format("20060102_150405"), format.Extension())

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, format.ContentType())
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))

	if err := c.Renderer.Render(ctx.Request().Context(), table, format, res); err != nil {
		if !res.Committed {
			res.Header().Del(echo.HeaderContentDisposition)
			code := http.StatusInternalServerError
			if errors.HasCategory(err, errors.CategoryValidation) {
				code = http.StatusBadRequest
			}
			return c.HandleError(ctx, err, "Export failed", code)
		}
		c.logger.Error("export stream aborted",
			"filename", filename,
			"format", format,
			"error", err)
		return nil
	}
	return nil
}
