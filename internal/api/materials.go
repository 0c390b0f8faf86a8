package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/datastore"
)

func (c *Controller) initMaterialRoutes() {
	c.Group.GET("/materiali", c.GetMaterials)
	c.Group.GET("/materiali/paginated", c.GetMaterialsPaginated)
	c.Group.GET("/materiali/summary", c.GetMaterialsSummary)
	c.Group.GET("/materiali/boxes", c.GetMaterialBoxes)
	c.Group.GET("/materiali/storage-locations", c.GetStorageLocations)
	c.Group.GET("/materiali/types", c.GetMaterialTypes)
	c.Group.GET("/materiali/statistics", c.GetMaterialStatistics)
	c.Group.GET("/materiali/:id", c.GetMaterial)
}

func materialFiltersFromQuery(ctx echo.Context) datastore.MaterialFilters {
	var nrCassa int64
	if raw := ctx.QueryParam("nr_cassa"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			nrCassa = parsed
		}
	}
	return datastore.MaterialFilters{
		Sito:               ctx.QueryParam("sito"),
		Area:               ctx.QueryParam("area"),
		US:                 ctx.QueryParam("us"),
		NrCassa:            nrCassa,
		LuogoConservazione: ctx.QueryParam("luogo_conservazione"),
		TipoReperto:        ctx.QueryParam("tipo_reperto"),
		Search:             ctx.QueryParam("search"),
		Skip:               queryInt(ctx, "skip", 0, 0, 1<<30),
		Limit:              queryInt(ctx, "limit", 100, 1, 10000),
	}
}

// GetMaterials returns materials inventory records matching the query filters.
func (c *Controller) GetMaterials(ctx echo.Context) error {
	materials, err := c.DS.GetMaterials(materialFiltersFromQuery(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get materials", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, materials)
}

// GetMaterialsPaginated returns one page of materials with paging metadata.
func (c *Controller) GetMaterialsPaginated(ctx echo.Context) error {
	page := queryInt(ctx, "page", 1, 1, 1<<30)
	pageSize := queryInt(ctx, "page_size", 20, 1, 100)

	filters := materialFiltersFromQuery(ctx)
	filters.Skip = (page - 1) * pageSize
	filters.Limit = pageSize

	total, err := c.DS.CountMaterials(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to count materials", http.StatusInternalServerError)
	}
	materials, err := c.DS.GetMaterials(filters)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get materials", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, newPaginatedResponse(materials, total, page, pageSize))
}

// GetMaterialsSummary returns the derived storage-location grouping of the
// materials inventory. Computed per request so counts always reflect
// current database state.
func (c *Controller) GetMaterialsSummary(ctx echo.Context) error {
	summary, err := c.Assembler.MaterialsSummary(ctx.Request().Context(), ctx.QueryParam("sito"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to build materials summary", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, summary)
}

// GetMaterialBoxes returns the per-box groups of the summary view.
func (c *Controller) GetMaterialBoxes(ctx echo.Context) error {
	summary, err := c.Assembler.MaterialsSummary(ctx.Request().Context(), ctx.QueryParam("sito"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to build box summary", http.StatusInternalServerError)
	}

	luogo := ctx.QueryParam("luogo_conservazione")
	if luogo == "" {
		return ctx.JSON(http.StatusOK, summary.Groups)
	}
	groups := summary.Groups[:0:0]
	for _, group := range summary.Groups {
		if group.StorageSite == luogo {
			groups = append(groups, group)
		}
	}
	return ctx.JSON(http.StatusOK, groups)
}

// GetStorageLocations returns the distinct storage locations.
func (c *Controller) GetStorageLocations(ctx echo.Context) error {
	locations, err := c.DS.MaterialStorageLocations(ctx.QueryParam("sito"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get storage locations", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, locations)
}

// GetMaterialTypes returns the distinct material types.
func (c *Controller) GetMaterialTypes(ctx echo.Context) error {
	types, err := c.DS.MaterialTypes(ctx.QueryParam("sito"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get material types", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, types)
}

// GetMaterialStatistics returns aggregate statistics for the inventory.
func (c *Controller) GetMaterialStatistics(ctx echo.Context) error {
	stats, err := c.DS.MaterialStatistics(ctx.QueryParam("sito"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get material statistics", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetMaterial returns a single material record by ID.
func (c *Controller) GetMaterial(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid material ID", http.StatusBadRequest)
	}
	material, err := c.DS.GetMaterial(id)
	if err != nil {
		return c.HandleError(ctx, err, "Material not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, material)
}
