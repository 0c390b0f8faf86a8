// Package export writes a document export to a local file without
// starting the server.
package export

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/datastore"
	docexport "github.com/pyarchinit/archweb/internal/export"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/media"
	"github.com/pyarchinit/archweb/internal/report"
)

// Command creates the export command.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		entity       string
		format       string
		output       string
		sito         string
		includeMedia bool
		summary      bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a document export to a file",
		Long:  "Render an entity listing or the materials storage summary to a PDF or Excel file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(settings, entity, format, output, sito, includeMedia, summary)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "materiali", "Entity kind to export (sites, us, materiali, pottery)")
	cmd.Flags().StringVar(&format, "format", "excel", "Output format (pdf, excel)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (required)")
	cmd.Flags().StringVar(&sito, "sito", "", "Restrict the export to one site")
	cmd.Flags().BoolVar(&includeMedia, "media", false, "Include media references")
	cmd.Flags().BoolVar(&summary, "summary", false, "Export the materials storage summary instead of a listing")
	_ = cmd.MarkFlagRequired("output")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func runExport(settings *conf.Settings, entity, formatName, output, sito string, includeMedia, summary bool) error {
	logger := logging.ForService("export-cli")

	format := docexport.Format(formatName)
	if !format.Valid() {
		return fmt.Errorf("unsupported format %q, use pdf or excel", formatName)
	}

	ds, err := datastore.New(settings)
	if err != nil {
		return fmt.Errorf("failed to create datastore: %w", err)
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	var resolver *media.Resolver
	if includeMedia {
		if settings.Storage.URL == "" {
			return fmt.Errorf("storage.url must be configured to include media")
		}
		resolver = media.NewResolver(settings)
	}

	assembler := report.NewAssembler(ds, resolver)
	renderer := docexport.NewRenderer(settings)

	ctx := context.Background()
	table, err := buildTable(ctx, assembler, entity, sito, includeMedia, summary)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := renderer.Render(ctx, table, format, f); err != nil {
		f.Close()
		// A partial artifact must not be left behind looking complete.
		os.Remove(output)
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize output file: %w", err)
	}

	logger.Info("export written", "path", output, "format", format, "rows", len(table.Rows))
	fmt.Printf("wrote %s (%d rows)\n", output, len(table.Rows))
	return nil
}

func buildTable(ctx context.Context, assembler *report.Assembler, entity, sito string, includeMedia, summary bool) (*report.Table, error) {
	if summary {
		agg, err := assembler.MaterialsSummary(ctx, sito)
		if err != nil {
			return nil, fmt.Errorf("failed to build summary: %w", err)
		}
		return assembler.SummaryTable(&agg, sito), nil
	}

	kind, err := report.KindFromString(entity)
	if err != nil {
		return nil, fmt.Errorf("unknown entity %q, use sites, us, materiali or pottery", entity)
	}
	req := &report.Request{Kind: kind, IncludeMedia: includeMedia}
	switch kind {
	case report.KindStratUnit:
		req.StratUnit.Sito = sito
	case report.KindMaterial:
		req.Material.Sito = sito
	case report.KindPottery:
		req.Pottery.Sito = sito
	}

	result, err := assembler.Assemble(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble export data: %w", err)
	}
	if len(result.MediaWarnings) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d media lookups failed\n", len(result.MediaWarnings))
	}
	return result.Table, nil
}
