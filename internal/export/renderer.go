package export

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/httpclient"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/observability"
	"github.com/pyarchinit/archweb/internal/report"
)

const (
	defaultTruncateAt = 50

	// thumbnail fetches are best-effort decoration; keep them snappy.
	thumbFetchTimeout = 5 * time.Second
	maxThumbBytes     = 1 << 20
)

// ThumbFetcher retrieves thumbnail bytes for a media-ref URL. Failures are
// tolerated by the renderer, never fatal for the export.
type ThumbFetcher func(ctx context.Context, url string) (data []byte, contentType string, err error)

// Renderer converts a Table into a PDF document or spreadsheet file,
// streaming rows into the output writer.
type Renderer struct {
	truncateAt int
	thumbnails bool
	fetchThumb ThumbFetcher
	logger     *slog.Logger
}

// NewRenderer builds a Renderer from settings. Thumbnails are fetched with
// the shared pooled HTTP client and the storage API key when configured.
func NewRenderer(settings *conf.Settings) *Renderer {
	truncateAt := settings.Export.TruncateAt
	if truncateAt <= 0 {
		truncateAt = defaultTruncateAt
	}

	client := httpclient.New(httpclient.Config{
		DefaultTimeout: thumbFetchTimeout,
		UserAgent:      settings.Main.Name,
	})
	apiKey := settings.Storage.APIKey

	fetch := func(ctx context.Context, url string) ([]byte, string, error) {
		var headers map[string]string
		if apiKey != "" {
			headers = map[string]string{"X-API-Key": apiKey}
		}
		return client.GetBytes(ctx, url, headers, maxThumbBytes)
	}

	return &Renderer{
		truncateAt: truncateAt,
		thumbnails: settings.Export.Thumbnails,
		fetchThumb: fetch,
		logger:     logging.ForService("export"),
	}
}

// WithThumbFetcher overrides the thumbnail fetcher; pass nil to disable
// thumbnail embedding. Used by tests and the headless export command.
func (r *Renderer) WithThumbFetcher(fetch ThumbFetcher) *Renderer {
	r.fetchThumb = fetch
	r.thumbnails = fetch != nil
	return r
}

// Render writes the table to w in the requested format. An unsupported
// format or an empty column set fails before any output is produced; any
// failure after rendering began is reported as *IncompleteExportError.
// An empty row set still yields a valid header-only artifact.
func (r *Renderer) Render(ctx context.Context, table *report.Table, format Format, w io.Writer) error {
	if !format.Valid() {
		observability.ExportArtifacts.WithLabelValues(string(format), "rejected").Inc()
		return errors.New(ErrUnsupportedFormat).
			Component("export").
			Category(errors.CategoryValidation).
			Context("format", string(format)).
			Build()
	}
	if table == nil || len(table.Columns) == 0 {
		observability.ExportArtifacts.WithLabelValues(string(format), "rejected").Inc()
		return errors.Newf("table declares no columns").
			Component("export").
			Category(errors.CategoryValidation).
			Build()
	}
	for i := range table.Rows {
		if len(table.Rows[i]) != len(table.Columns) {
			observability.ExportArtifacts.WithLabelValues(string(format), "rejected").Inc()
			return errors.Newf("row %d has %d cells, table declares %d columns",
				i, len(table.Rows[i]), len(table.Columns)).
				Component("export").
				Category(errors.CategoryValidation).
				Build()
		}
	}

	var err error
	switch format {
	case FormatExcel:
		err = r.renderExcel(ctx, table, w)
	case FormatPDF:
		err = r.renderPDF(ctx, table, w)
	}

	if err != nil {
		observability.ExportArtifacts.WithLabelValues(string(format), "incomplete").Inc()
		r.logger.Error("export failed mid-render",
			"format", format,
			"title", table.Title,
			"rows", len(table.Rows),
			"error", err)
		return &IncompleteExportError{Format: format, Err: err}
	}

	observability.ExportArtifacts.WithLabelValues(string(format), "ok").Inc()
	r.logger.Info("export rendered",
		"format", format,
		"title", table.Title,
		"rows", len(table.Rows))
	return nil
}
