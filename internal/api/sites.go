package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/datastore"
)

func (c *Controller) initSiteRoutes() {
	c.Group.GET("/sites", c.GetSites)
	c.Group.GET("/sites/paginated", c.GetSitesPaginated)
	c.Group.GET("/sites/names", c.GetSiteNames)
	c.Group.GET("/sites/:id", c.GetSite)
}

func siteFiltersFromQuery(ctx echo.Context) datastore.SiteFilters {
	return datastore.SiteFilters{
		Search: ctx.QueryParam("search"),
		Skip:   queryInt(ctx, "skip", 0, 0, 1<<30),
		Limit:  queryInt(ctx, "limit", 100, 1, 1000),
	}
}

// GetSites returns sites matching the query filters.
func (c *Controller) GetSites(ctx echo.Context) error {
	sites, err := c.DS.GetSites(siteFiltersFromQuery(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get sites", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, sites)
}

// GetSitesPaginated returns one page of sites with paging metadata.
func (c *Controller) GetSitesPaginated(ctx echo.Context) error {
	page := queryInt(ctx, "page", 1, 1, 1<<30)
	pageSize := queryInt(ctx, "page_size", 20, 1, 100)

	filters := siteFiltersFromQuery(ctx)
	filters.Skip = (page - 1) * pageSize
	filters.Limit = pageSize

	total, err := c.DS.CountSites(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to count sites", http.StatusInternalServerError)
	}
	sites, err := c.DS.GetSites(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get sites", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, newPaginatedResponse(sites, total, page, pageSize))
}

// GetSiteNames returns the distinct site names.
func (c *Controller) GetSiteNames(ctx echo.Context) error {
	names, err := c.DS.GetSiteNames()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get site names", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, names)
}

// GetSite returns a single site by ID.
func (c *Controller) GetSite(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid site ID", http.StatusBadRequest)
	}
	site, err := c.DS.GetSite(id)
	if err != nil {
		return c.HandleError(ctx, err, "Site not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, site)
}
