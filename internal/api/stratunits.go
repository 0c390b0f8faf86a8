package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/datastore"
)

func (c *Controller) initStratUnitRoutes() {
	c.Group.GET("/us", c.GetStratUnits)
	c.Group.GET("/us/paginated", c.GetStratUnitsPaginated)
	c.Group.GET("/us/:id", c.GetStratUnit)
}

func stratUnitFiltersFromQuery(ctx echo.Context) datastore.StratUnitFilters {
	return datastore.StratUnitFilters{
		Sito:    ctx.QueryParam("sito"),
		Area:    ctx.QueryParam("area"),
		Periodo: ctx.QueryParam("periodo"),
		Skip:    queryInt(ctx, "skip", 0, 0, 1<<30),
		Limit:   queryInt(ctx, "limit", 100, 1, 1000),
	}
}

// GetStratUnits returns stratigraphic units matching the query filters.
func (c *Controller) GetStratUnits(ctx echo.Context) error {
	units, err := c.DS.GetStratUnits(stratUnitFiltersFromQuery(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get stratigraphic units", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, units)
}

// GetStratUnitsPaginated returns one page of stratigraphic units.
func (c *Controller) GetStratUnitsPaginated(ctx echo.Context) error {
	page := queryInt(ctx, "page", 1, 1, 1<<30)
	pageSize := queryInt(ctx, "page_size", 20, 1, 100)

	filters := stratUnitFiltersFromQuery(ctx)
	filters.Skip = (page - 1) * pageSize
	filters.Limit = pageSize

	total, err := c.DS.CountStratUnits(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to count stratigraphic units", http.StatusInternalServerError)
	}
	units, err := c.DS.GetStratUnits(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get stratigraphic units", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, newPaginatedResponse(units, total, page, pageSize))
}

// GetStratUnit returns a single stratigraphic unit by ID.
func (c *Controller) GetStratUnit(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid stratigraphic unit ID", http.StatusBadRequest)
	}
	unit, err := c.DS.GetStratUnit(id)
	if err != nil {
		return c.HandleError(ctx, err, "Stratigraphic unit not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, unit)
}
