package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/report"
)

func (c *Controller) initReportRoutes() {
	c.Group.GET("/report/:entity", c.GetReport)
}

// reportRequestFromQuery builds an assembly request for the entity kind,
// reading only the filter set that kind consults.
func reportRequestFromQuery(ctx echo.Context, kind report.EntityKind) *report.Request {
	req := &report.Request{
		Kind:         kind,
		IncludeMedia: ctx.QueryParam("media") == "true",
	}
	switch kind {
	case report.KindSite:
		req.Sites = siteFiltersFromQuery(ctx)
	case report.KindStratUnit:
		req.StratUnit = stratUnitFiltersFromQuery(ctx)
	case report.KindMaterial:
		req.Material = materialFiltersFromQuery(ctx)
	case report.KindPottery:
		req.Pottery = potteryFiltersFromQuery(ctx)
	}
	return req
}

// GetReport returns the assembled tabular report for an entity kind as
// JSON, optionally enriched with media references.
func (c *Controller) GetReport(ctx echo.Context) error {
	kind, err := report.KindFromString(ctx.Param("entity"))
	if err != nil {
		return c.HandleError(ctx, err, "Unknown entity kind", http.StatusBadRequest)
	}

	req := reportRequestFromQuery(ctx, kind)
	if req.IncludeMedia && c.Resolver == nil {
		return c.HandleError(ctx,
			errors.NewStd("media storage server not configured"),
			"Media enrichment unavailable", http.StatusServiceUnavailable)
	}

	result, err := c.Assembler.Assemble(ctx.Request().Context(), req)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to assemble report", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, result)
}
