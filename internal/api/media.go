package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/media"
)

func (c *Controller) initMediaRoutes() {
	c.Group.GET("/media/for-entity/:entity_type/:entity_id", c.GetMediaForEntity)
}

// GetMediaForEntity returns the media descriptors the storage server
// associates with one record. An entity with no media yields an empty list.
func (c *Controller) GetMediaForEntity(ctx echo.Context) error {
	if c.Resolver == nil {
		return c.HandleError(ctx,
			errors.NewStd("media storage server not configured"),
			"Media lookups unavailable", http.StatusServiceUnavailable)
	}

	entityType := media.EntityType(strings.ToUpper(ctx.Param("entity_type")))
	if !entityType.Valid() {
		return c.HandleError(ctx,
			errors.NewStd("unknown entity type"),
			"Invalid entity type", http.StatusBadRequest)
	}
	entityID, err := strconv.Atoi(ctx.Param("entity_id"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid entity ID", http.StatusBadRequest)
	}

	descriptors, err := c.Resolver.Resolve(ctx.Request().Context(), entityType, entityID)
	if err != nil {
		return c.HandleError(ctx, err, "Media lookup failed", http.StatusBadGateway)
	}
	return ctx.JSON(http.StatusOK, descriptors)
}
