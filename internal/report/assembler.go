package report

import (
	"context"
	"log/slog"

	"github.com/pyarchinit/archweb/internal/datastore"
	"github.com/pyarchinit/archweb/internal/errors"
	"github.com/pyarchinit/archweb/internal/inventory"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/media"
)

// Request describes one report to assemble. Exactly one filter set is
// consulted, selected by Kind.
type Request struct {
	Kind         EntityKind
	IncludeMedia bool

	Sites     datastore.SiteFilters
	StratUnit datastore.StratUnitFilters
	Material  datastore.MaterialFilters
	Pottery   datastore.PotteryFilters
}

// Result carries the assembled table together with degradation counts so
// callers can surface them instead of swallowing them.
type Result struct {
	Table         *Table          `json:"table"`
	MediaWarnings []media.Warning `json:"media_warnings,omitempty"`
}

// Assembler orchestrates record fetching, aggregation, media enrichment
// and normalization into the tabular shape.
type Assembler struct {
	store    datastore.Interface
	resolver *media.Resolver
	logger   *slog.Logger
}

// NewAssembler creates an Assembler. The resolver may be nil when the
// storage server is not configured; media enrichment is then skipped.
func NewAssembler(store datastore.Interface, resolver *media.Resolver) *Assembler {
	return &Assembler{
		store:    store,
		resolver: resolver,
		logger:   logging.ForService("report"),
	}
}

// Assemble fetches records for the request and normalizes them into a
// Table, optionally enriched with a media-ref column.
func (a *Assembler) Assemble(ctx context.Context, req *Request) (*Result, error) {
	table := &Table{Columns: req.Kind.columns()}
	if table.Columns == nil {
		return nil, errors.Newf("unknown entity kind: %q", req.Kind).
			Component("report").
			Category(errors.CategoryValidation).
			Build()
	}

	var refs []media.EntityRef
	var err error

	switch req.Kind {
	case KindSite:
		refs, err = a.appendSites(table, req.Sites)
		table.Title = req.Kind.Title("")
	case KindStratUnit:
		refs, err = a.appendStratUnits(table, req.StratUnit)
		table.Title = req.Kind.Title(req.StratUnit.Sito)
	case KindMaterial:
		refs, err = a.appendMaterials(table, req.Material)
		table.Title = req.Kind.Title(req.Material.Sito)
	case KindPottery:
		refs, err = a.appendPottery(table, req.Pottery)
		table.Title = req.Kind.Title(req.Pottery.Sito)
	}
	if err != nil {
		return nil, errors.New(err).
			Component("report").
			Category(errors.CategoryDatabase).
			Context("kind", string(req.Kind)).
			Build()
	}

	result := &Result{Table: table}

	if req.IncludeMedia && a.resolver != nil {
		result.MediaWarnings = a.attachMedia(ctx, table, refs)
	}

	return result, nil
}

// MaterialsSummary fetches materials for a site and aggregates them by
// storage location. The summary is computed per request, never cached, so
// counts always reflect current database state.
func (a *Assembler) MaterialsSummary(ctx context.Context, sito string) (inventory.Summary, error) {
	materials, err := a.store.GetMaterials(datastore.MaterialFilters{Sito: sito})
	if err != nil {
		return inventory.Summary{}, errors.New(err).
			Component("report").
			Category(errors.CategoryDatabase).
			Context("sito", sito).
			Build()
	}
	return inventory.Aggregate(materials), nil
}

// SummaryTable normalizes an aggregation result into the tabular shape.
func (a *Assembler) SummaryTable(summary *inventory.Summary, sito string) *Table {
	table := &Table{
		Title: "Riepilogo Magazzino" + titleSuffix(sito),
		Columns: []Column{
			{Name: "Site", Type: TypeString},
			{Name: "Box", Type: TypeString},
			{Name: "Count", Type: TypeNumber},
		},
	}
	for i := range summary.Groups {
		g := &summary.Groups[i]
		table.Rows = append(table.Rows, []any{g.StorageSite, g.BoxID, g.ItemCount})
	}
	return table
}

func titleSuffix(sito string) string {
	if sito == "" {
		return " - Tutti i siti"
	}
	return " - " + sito
}

// attachMedia appends a media-ref column holding the first resolved
// thumbnail URL per row. Lookup failures degrade to empty cells; the
// warnings are returned so the caller can report them.
func (a *Assembler) attachMedia(ctx context.Context, table *Table, refs []media.EntityRef) []media.Warning {
	resolved, warnings := a.resolver.ResolveMany(ctx, refs)

	table.Columns = append(table.Columns, Column{Name: "Media", Type: TypeMediaRef})
	for i := range table.Rows {
		var cell any
		if i < len(refs) {
			if descriptors := resolved[refs[i]]; len(descriptors) > 0 {
				cell = descriptors[0].ThumbnailURL
			}
		}
		table.Rows[i] = append(table.Rows[i], cell)
	}

	if len(warnings) > 0 {
		a.logger.Warn("media enrichment degraded",
			"requested", len(refs),
			"failed", len(warnings))
	}
	return warnings
}

func (a *Assembler) appendSites(table *Table, filters datastore.SiteFilters) ([]media.EntityRef, error) {
	sites, err := a.store.GetSites(filters)
	if err != nil {
		return nil, err
	}
	refs := make([]media.EntityRef, 0, len(sites))
	for i := range sites {
		s := &sites[i]
		table.Rows = append(table.Rows, []any{
			s.Sito, strVal(s.Nazione), strVal(s.Regione), strVal(s.Comune),
			strVal(s.Provincia), strVal(s.DefinizioneSito), strVal(s.Descrizione),
		})
		refs = append(refs, media.EntityRef{Type: media.EntitySite, ID: s.ID})
	}
	return refs, nil
}

func (a *Assembler) appendStratUnits(table *Table, filters datastore.StratUnitFilters) ([]media.EntityRef, error) {
	units, err := a.store.GetStratUnits(filters)
	if err != nil {
		return nil, err
	}
	refs := make([]media.EntityRef, 0, len(units))
	for i := range units {
		u := &units[i]
		table.Rows = append(table.Rows, []any{
			u.Sito, strVal(u.Area), strVal(u.US), strVal(u.DStratigrafica),
			strVal(u.DInterpretativa), strVal(u.PeriodoIniziale), strVal(u.FaseIniziale),
			strVal(u.Datazione), strVal(u.Descrizione), strVal(u.Interpretazione),
		})
		refs = append(refs, media.EntityRef{Type: media.EntityStratUnit, ID: u.ID})
	}
	return refs, nil
}

func (a *Assembler) appendMaterials(table *Table, filters datastore.MaterialFilters) ([]media.EntityRef, error) {
	materials, err := a.store.GetMaterials(filters)
	if err != nil {
		return nil, err
	}
	refs := make([]media.EntityRef, 0, len(materials))
	for i := range materials {
		m := &materials[i]
		table.Rows = append(table.Rows, []any{
			m.Sito, intVal(m.NumeroInventario), strVal(m.TipoReperto), strVal(m.Definizione),
			strVal(m.Area), strVal(m.US), int64Val(m.NrCassa), strVal(m.LuogoConservazione),
			strVal(m.StatoConservazione), strVal(m.DatazioneReperto),
			intVal(m.TotaleFrammenti), floatVal(m.Peso),
		})
		refs = append(refs, media.EntityRef{Type: media.EntityMaterial, ID: m.ID})
	}
	return refs, nil
}

func (a *Assembler) appendPottery(table *Table, filters datastore.PotteryFilters) ([]media.EntityRef, error) {
	items, err := a.store.GetPottery(filters)
	if err != nil {
		return nil, err
	}
	refs := make([]media.EntityRef, 0, len(items))
	for i := range items {
		p := &items[i]
		table.Rows = append(table.Rows, []any{
			p.Sito, strVal(p.Area), strVal(p.US), intVal(p.IDNumber), intVal(p.Box),
			strVal(p.Fabric), strVal(p.Material), strVal(p.Form), strVal(p.Ware),
			strVal(p.Munsell), intVal(p.Qty),
		})
		refs = append(refs, media.EntityRef{Type: media.EntityPottery, ID: p.ID})
	}
	return refs, nil
}

// Nullable columns map to nil cells so renderers can distinguish missing
// values from empty strings or zeros.

func strVal(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intVal(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func int64Val(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

func floatVal(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
