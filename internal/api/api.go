// Package api wires the HTTP surface of the service: listing endpoints,
// the materials summary, media lookups and document exports.
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/datastore"
	"github.com/pyarchinit/archweb/internal/export"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/media"
	"github.com/pyarchinit/archweb/internal/observability"
	"github.com/pyarchinit/archweb/internal/report"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	DS        datastore.Interface
	Settings  *conf.Settings
	Assembler *report.Assembler
	Resolver  *media.Resolver
	Renderer  *export.Renderer
	logger    *slog.Logger
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates an error response with a correlation ID for log
// cross-referencing.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	resp := &ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: correlationID(8),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// New creates the API controller and registers all routes on e.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	assembler *report.Assembler, resolver *media.Resolver, renderer *export.Renderer) *Controller {

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Assembler: assembler,
		Resolver:  resolver,
		Renderer:  renderer,
		logger:    logging.ForService("api"),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: settings.Web.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))
	e.Use(c.metricsMiddleware())

	c.Group = e.Group("/api/v1")

	c.initSiteRoutes()
	c.initStratUnitRoutes()
	c.initMaterialRoutes()
	c.initPotteryRoutes()
	c.initMediaRoutes()
	c.initReportRoutes()
	c.initExportRoutes()

	e.GET("/health", c.Health)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	return c
}

// Health is a liveness probe.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// metricsMiddleware records request duration per route template and status.
func (c *Controller) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			observability.HTTPRequestDuration.
				WithLabelValues(ctx.Request().Method, ctx.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// HandleError constructs and returns an appropriate error response.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	c.logger.Error("API error",
		"correlation_id", errorResp.CorrelationID,
		"message", message,
		"error", errorStr,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, errorResp)
}

// PaginatedResponse wraps a page of items with paging metadata.
type PaginatedResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func newPaginatedResponse(items any, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &PaginatedResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// queryInt parses an integer query parameter, returning def when absent
// or malformed, clamped to [minVal, maxVal].
func queryInt(ctx echo.Context, name string, def, minVal, maxVal int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

const correlationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// correlationID generates a short random identifier for error responses.
func correlationID(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = correlationCharset[int(b[i])%len(correlationCharset)]
	}
	return string(b)
}
