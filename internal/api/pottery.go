package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/datastore"
)

func (c *Controller) initPotteryRoutes() {
	c.Group.GET("/pottery", c.GetPottery)
	c.Group.GET("/pottery/paginated", c.GetPotteryPaginated)
	c.Group.GET("/pottery/:id", c.GetPotteryItem)
}

func potteryFiltersFromQuery(ctx echo.Context) datastore.PotteryFilters {
	return datastore.PotteryFilters{
		Sito:   ctx.QueryParam("sito"),
		Fabric: ctx.QueryParam("fabric"),
		Form:   ctx.QueryParam("form"),
		Ware:   ctx.QueryParam("ware"),
		Anno:   queryInt(ctx, "anno", 0, 0, 1<<30),
		Skip:   queryInt(ctx, "skip", 0, 0, 1<<30),
		Limit:  queryInt(ctx, "limit", 100, 1, 1000),
	}
}

// GetPottery returns pottery records matching the query filters.
func (c *Controller) GetPottery(ctx echo.Context) error {
	items, err := c.DS.GetPottery(potteryFiltersFromQuery(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get pottery", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, items)
}

// GetPotteryPaginated returns one page of pottery records.
func (c *Controller) GetPotteryPaginated(ctx echo.Context) error {
	page := queryInt(ctx, "page", 1, 1, 1<<30)
	pageSize := queryInt(ctx, "page_size", 20, 1, 100)

	filters := potteryFiltersFromQuery(ctx)
	filters.Skip = (page - 1) * pageSize
	filters.Limit = pageSize

	total, err := c.DS.CountPottery(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to count pottery", http.StatusInternalServerError)
	}
	items, err := c.DS.GetPottery(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get pottery", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, newPaginatedResponse(items, total, page, pageSize))
}

// GetPotteryItem returns a single pottery record by ID.
func (c *Controller) GetPotteryItem(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pottery ID", http.StatusBadRequest)
	}
	item, err := c.DS.GetPotteryItem(id)
	if err != nil {
		return c.HandleError(ctx, err, "Pottery record not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, item)
}
