package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyarchinit/archweb/internal/conf"
)

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Database.Type = "sqlite"
	settings.Database.Path = filepath.Join(t.TempDir(), "test.db")

	ds, err := New(settings)
	require.NoError(t, err)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })

	store, ok := ds.(*SQLiteStore)
	require.True(t, ok)
	return store
}

func seedTestData(t *testing.T, store *SQLiteStore) {
	t.Helper()

	sites := []Site{
		{ID: 1, Sito: "Scavo Nord", Comune: ptr("Roma")},
		{ID: 2, Sito: "Scavo Sud"},
	}
	require.NoError(t, store.DB.Create(&sites).Error)

	units := []StratUnit{
		{ID: 1, Sito: "Scavo Nord", Area: ptr("1"), US: ptr("100"), PeriodoIniziale: ptr("romano")},
		{ID: 2, Sito: "Scavo Nord", Area: ptr("2"), US: ptr("200")},
	}
	require.NoError(t, store.DB.Create(&units).Error)

	materials := []Material{
		{
			ID: 1, Sito: "Scavo Nord", NumeroInventario: ptr(101),
			TipoReperto: ptr("ceramica"), LuogoConservazione: ptr("Magazzino A"),
			NrCassa: ptr(int64(1)), Peso: ptr(500.0), TotaleFrammenti: ptr(3),
		},
		{
			ID: 2, Sito: "Scavo Nord", NumeroInventario: ptr(102),
			TipoReperto: ptr("metallo"), LuogoConservazione: ptr("Magazzino B"),
			NrCassa: ptr(int64(2)), Peso: ptr(1500.0), TotaleFrammenti: ptr(1),
		},
		{ID: 3, Sito: "Scavo Sud", NumeroInventario: ptr(103)},
	}
	require.NoError(t, store.DB.Create(&materials).Error)

	pottery := []Pottery{
		{ID: 1, Sito: "Scavo Nord", IDNumber: ptr(1), Fabric: ptr("fine"), Anno: ptr(2024)},
	}
	require.NoError(t, store.DB.Create(&pottery).Error)
}

func TestNewUnsupportedBackend(t *testing.T) {
	settings := &conf.Settings{}
	settings.Database.Type = "oracle"

	_, err := New(settings)
	assert.Error(t, err)
}

func TestGetSites(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	sites, err := store.GetSites(SiteFilters{})
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "Scavo Nord", sites[0].Sito)

	filtered, err := store.GetSites(SiteFilters{Search: "Sud"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Scavo Sud", filtered[0].Sito)
}

func TestGetSiteNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSite(999)
	assert.Error(t, err)
}

func TestGetSiteNames(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	names, err := store.GetSiteNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Scavo Nord", "Scavo Sud"}, names)
}

func TestGetStratUnitsFiltered(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	units, err := store.GetStratUnits(StratUnitFilters{Sito: "Scavo Nord", Periodo: "romano"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "100", *units[0].US)
}

func TestGetMaterialsFilters(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	tests := []struct {
		name    string
		filters MaterialFilters
		wantIDs []int
	}{
		{"all", MaterialFilters{}, []int{1, 2, 3}},
		{"by site", MaterialFilters{Sito: "Scavo Nord"}, []int{1, 2}},
		{"by storage", MaterialFilters{LuogoConservazione: "Magazzino A"}, []int{1}},
		{"by box", MaterialFilters{NrCassa: 2}, []int{2}},
		{"by type", MaterialFilters{TipoReperto: "metallo"}, []int{2}},
		{"no match", MaterialFilters{Sito: "Altrove"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			materials, err := store.GetMaterials(tt.filters)
			require.NoError(t, err)

			var ids []int
			for _, m := range materials {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGetMaterialsPagination(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	page, err := store.GetMaterials(MaterialFilters{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 2, page[0].ID)

	count, err := store.CountMaterials(MaterialFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMaterialStorageLocations(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	locations, err := store.MaterialStorageLocations("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Magazzino A", "Magazzino B"}, locations)

	scoped, err := store.MaterialStorageLocations("Scavo Sud")
	require.NoError(t, err)
	assert.Empty(t, scoped)
}

func TestMaterialTypes(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	types, err := store.MaterialTypes("Scavo Nord")
	require.NoError(t, err)
	assert.Equal(t, []string{"ceramica", "metallo"}, types)
}

func TestMaterialStatistics(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	stats, err := store.MaterialStatistics("")
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.InDelta(t, 2.0, stats.TotalWeightKg, 0.001)
	assert.Equal(t, int64(4), stats.TotalFragments)
	assert.Equal(t, int64(1), stats.ByType["ceramica"])
	assert.Equal(t, int64(1), stats.ByType["N/A"])
	assert.Equal(t, int64(1), stats.ByStorage["Magazzino B"])
}

func TestGetPotteryFiltered(t *testing.T) {
	store := newTestStore(t)
	seedTestData(t, store)

	items, err := store.GetPottery(PotteryFilters{Fabric: "fine", Anno: 2024})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)

	none, err := store.GetPottery(PotteryFilters{Anno: 1999})
	require.NoError(t, err)
	assert.Empty(t, none)
}
