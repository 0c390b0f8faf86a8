package report

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyarchinit/archweb/internal/datastore"
	"github.com/pyarchinit/archweb/internal/httpclient"
	"github.com/pyarchinit/archweb/internal/media"
)

func ptr[T any](v T) *T { return &v }

// mockStore returns canned records; only the methods the assembler calls
// carry data.
type mockStore struct {
	sites     []datastore.Site
	units     []datastore.StratUnit
	materials []datastore.Material
	pottery   []datastore.Pottery
	err       error
}

func (m *mockStore) Open() error  { return nil }
func (m *mockStore) Close() error { return nil }

func (m *mockStore) GetSites(datastore.SiteFilters) ([]datastore.Site, error) {
	return m.sites, m.err
}
func (m *mockStore) GetSite(int) (datastore.Site, error)       { return datastore.Site{}, m.err }
func (m *mockStore) GetSiteNames() ([]string, error)           { return nil, m.err }
func (m *mockStore) CountSites(datastore.SiteFilters) (int64, error) {
	return int64(len(m.sites)), m.err
}

func (m *mockStore) GetStratUnits(datastore.StratUnitFilters) ([]datastore.StratUnit, error) {
	return m.units, m.err
}
func (m *mockStore) GetStratUnit(int) (datastore.StratUnit, error) {
	return datastore.StratUnit{}, m.err
}
func (m *mockStore) CountStratUnits(datastore.StratUnitFilters) (int64, error) {
	return int64(len(m.units)), m.err
}

func (m *mockStore) GetMaterials(datastore.MaterialFilters) ([]datastore.Material, error) {
	return m.materials, m.err
}
func (m *mockStore) GetMaterial(int) (datastore.Material, error) {
	return datastore.Material{}, m.err
}
func (m *mockStore) CountMaterials(datastore.MaterialFilters) (int64, error) {
	return int64(len(m.materials)), m.err
}
func (m *mockStore) MaterialStorageLocations(string) ([]string, error) { return nil, m.err }
func (m *mockStore) MaterialTypes(string) ([]string, error)            { return nil, m.err }
func (m *mockStore) MaterialStatistics(string) (datastore.MaterialStats, error) {
	return datastore.MaterialStats{}, m.err
}

func (m *mockStore) GetPottery(datastore.PotteryFilters) ([]datastore.Pottery, error) {
	return m.pottery, m.err
}
func (m *mockStore) GetPotteryItem(int) (datastore.Pottery, error) {
	return datastore.Pottery{}, m.err
}
func (m *mockStore) CountPottery(datastore.PotteryFilters) (int64, error) {
	return int64(len(m.pottery)), m.err
}

func testMaterials() []datastore.Material {
	return []datastore.Material{
		{
			ID:                 1,
			Sito:               "Scavo Nord",
			NumeroInventario:   ptr(101),
			TipoReperto:        ptr("ceramica"),
			Definizione:        ptr("orlo"),
			LuogoConservazione: ptr("Magazzino A"),
			NrCassa:            ptr(int64(1)),
			Peso:               ptr(42.5),
		},
		{
			ID:               2,
			Sito:             "Scavo Nord",
			NumeroInventario: ptr(102),
		},
	}
}

func TestAssembleMaterials(t *testing.T) {
	store := &mockStore{materials: testMaterials()}
	a := NewAssembler(store, nil)

	result, err := a.Assemble(context.Background(), &Request{Kind: KindMaterial})
	require.NoError(t, err)

	table := result.Table
	assert.Equal(t, "Inventario Materiali - Tutti i siti", table.Title)
	require.Len(t, table.Columns, 12)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "Scavo Nord", first[0])
	assert.Equal(t, 101, first[1])
	assert.Equal(t, "ceramica", first[2])
	assert.Equal(t, int64(1), first[6])
	assert.Equal(t, 42.5, first[11])

	// Missing values come through as nil cells, not zero values.
	second := table.Rows[1]
	assert.Nil(t, second[2])
	assert.Nil(t, second[6])
	assert.Nil(t, second[11])
}

func TestAssembleSiteScopedTitle(t *testing.T) {
	store := &mockStore{materials: testMaterials()}
	a := NewAssembler(store, nil)

	result, err := a.Assemble(context.Background(), &Request{
		Kind:     KindMaterial,
		Material: datastore.MaterialFilters{Sito: "Scavo Nord"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Inventario Materiali - Scavo Nord", result.Table.Title)
}

func TestAssembleUnknownKind(t *testing.T) {
	a := NewAssembler(&mockStore{}, nil)

	_, err := a.Assemble(context.Background(), &Request{Kind: EntityKind("tombe")})
	require.Error(t, err)
}

func TestAssembleEmptyResultKeepsColumns(t *testing.T) {
	a := NewAssembler(&mockStore{}, nil)

	result, err := a.Assemble(context.Background(), &Request{Kind: KindPottery})
	require.NoError(t, err)
	assert.Len(t, result.Table.Columns, 11)
	assert.Empty(t, result.Table.Rows)
}

func TestAssembleWithMediaColumn(t *testing.T) {
	hc := httpclient.New(httpclient.Config{DefaultTimeout: time.Second})
	httpmock.ActivateNonDefault(hc.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet,
		"http://storage.test/media/for-entity/INVENTARIO_MATERIALI/1",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id_media": 9, "media_filename": "orlo.jpg", "mediatype": "image/jpeg",
			 "filepath": "orlo.jpg", "path_resize": ""}
		]`))
	httpmock.RegisterResponder(http.MethodGet,
		"http://storage.test/media/for-entity/INVENTARIO_MATERIALI/2",
		httpmock.NewStringResponder(http.StatusInternalServerError, `boom`))

	client := media.NewStorageClient("http://storage.test", "", hc)
	resolver := media.NewResolverWithClient(client, time.Minute, 2)

	store := &mockStore{materials: testMaterials()}
	a := NewAssembler(store, resolver)

	result, err := a.Assemble(context.Background(), &Request{
		Kind:         KindMaterial,
		IncludeMedia: true,
	})
	require.NoError(t, err)

	table := result.Table
	require.Len(t, table.Columns, 13)
	assert.Equal(t, "Media", table.Columns[12].Name)
	assert.Equal(t, TypeMediaRef, table.Columns[12].Type)

	assert.Equal(t, "http://storage.test/files/thumbnail/orlo.jpg", table.Rows[0][12])
	// The failed lookup degrades to an empty cell plus a warning.
	assert.Nil(t, table.Rows[1][12])
	require.Len(t, result.MediaWarnings, 1)
	assert.Equal(t, 2, result.MediaWarnings[0].Ref.ID)
}

func TestMaterialsSummaryInvariant(t *testing.T) {
	materials := testMaterials()
	materials = append(materials, datastore.Material{}) // no identity, skipped
	store := &mockStore{materials: materials}
	a := NewAssembler(store, nil)

	summary, err := a.MaterialsSummary(context.Background(), "Scavo Nord")
	require.NoError(t, err)

	grouped := 0
	for _, g := range summary.Groups {
		grouped += g.ItemCount
	}
	assert.Equal(t, summary.TotalItems,
		grouped+summary.UnassignedCount+summary.SkippedCount)
	assert.Equal(t, 1, summary.UnassignedCount)
	assert.Equal(t, 1, summary.SkippedCount)
}

func TestSummaryTableShape(t *testing.T) {
	store := &mockStore{materials: testMaterials()}
	a := NewAssembler(store, nil)

	summary, err := a.MaterialsSummary(context.Background(), "Scavo Nord")
	require.NoError(t, err)

	table := a.SummaryTable(&summary, "Scavo Nord")
	assert.Equal(t, "Riepilogo Magazzino - Scavo Nord", table.Title)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, "Site", table.Columns[0].Name)
	assert.Equal(t, "Box", table.Columns[1].Name)
	assert.Equal(t, "Count", table.Columns[2].Name)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []any{"Magazzino A", "1", 1}, table.Rows[0])
}

func TestKindFromString(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"sites", "us", "materiali", "pottery"} {
		kind, err := KindFromString(valid)
		require.NoError(t, err)
		assert.Equal(t, EntityKind(valid), kind)
	}

	_, err := KindFromString("tombe")
	assert.Error(t, err)
}

func TestKindMediaEntityType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, media.EntitySite, KindSite.MediaEntityType())
	assert.Equal(t, media.EntityStratUnit, KindStratUnit.MediaEntityType())
	assert.Equal(t, media.EntityMaterial, KindMaterial.MediaEntityType())
	assert.Equal(t, media.EntityPottery, KindPottery.MediaEntityType())
}
