// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/logging"
)

// Interface abstracts the underlying database implementation and defines the
// read-only operations the service performs against the excavation schema.
type Interface interface {
	Open() error
	Close() error

	GetSites(filters SiteFilters) ([]Site, error)
	GetSite(id int) (Site, error)
	GetSiteNames() ([]string, error)
	CountSites(filters SiteFilters) (int64, error)

	GetStratUnits(filters StratUnitFilters) ([]StratUnit, error)
	GetStratUnit(id int) (StratUnit, error)
	CountStratUnits(filters StratUnitFilters) (int64, error)

	GetMaterials(filters MaterialFilters) ([]Material, error)
	GetMaterial(id int) (Material, error)
	CountMaterials(filters MaterialFilters) (int64, error)
	MaterialStorageLocations(sito string) ([]string, error)
	MaterialTypes(sito string) ([]string, error)
	MaterialStatistics(sito string) (MaterialStats, error)

	GetPottery(filters PotteryFilters) ([]Pottery, error)
	GetPotteryItem(id int) (Pottery, error)
	CountPottery(filters PotteryFilters) (int64, error)
}

// SiteFilters narrows site queries.
type SiteFilters struct {
	Search string // substring match on site name
	Skip   int
	Limit  int
}

// StratUnitFilters narrows stratigraphic unit queries.
type StratUnitFilters struct {
	Sito    string
	Area    string
	Periodo string // matches periodo_iniziale
	Skip    int
	Limit   int
}

// MaterialFilters narrows materials inventory queries.
type MaterialFilters struct {
	Sito               string
	Area               string
	US                 string
	NrCassa            int64 // 0 means no constraint
	LuogoConservazione string
	TipoReperto        string
	Search             string // substring match on descrizione or definizione
	Skip               int
	Limit              int
}

// PotteryFilters narrows pottery queries.
type PotteryFilters struct {
	Sito   string
	Fabric string
	Form   string
	Ware   string
	Anno   int // 0 means no constraint
	Skip   int
	Limit  int
}

// MaterialStats is the aggregate view backing /materiali/statistics.
type MaterialStats struct {
	Total          int64            `json:"total"`
	TotalWeightKg  float64          `json:"total_weight_kg"`
	TotalFragments int64            `json:"total_fragments"`
	ByType         map[string]int64 `json:"by_type"`
	ByStorage      map[string]int64 `json:"by_storage"`
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a datastore instance for the backend selected in settings.
func New(settings *conf.Settings) (Interface, error) {
	switch settings.Database.Type {
	case "sqlite":
		return &SQLiteStore{Settings: settings}, nil
	case "postgres":
		return &PostgresStore{Settings: settings}, nil
	case "mysql":
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", settings.Database.Type)
	}
}

// GetSites retrieves sites matching the given filters.
func (ds *DataStore) GetSites(filters SiteFilters) ([]Site, error) {
	var sites []Site
	query := ds.DB.Model(&Site{})
	if filters.Search != "" {
		query = query.Where("sito LIKE ?", "%"+filters.Search+"%")
	}
	query = applyPagination(query, filters.Skip, filters.Limit).Order("sito ASC")
	if err := query.Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("error getting sites: %w", err)
	}
	return sites, nil
}

// GetSite retrieves a single site by its ID.
func (ds *DataStore) GetSite(id int) (Site, error) {
	var site Site
	if err := ds.DB.First(&site, "id_sito = ?", id).Error; err != nil {
		return Site{}, fmt.Errorf("getting site with ID %d: %w", id, err)
	}
	return site, nil
}

// GetSiteNames returns the distinct site names, ordered.
func (ds *DataStore) GetSiteNames() ([]string, error) {
	var names []string
	err := ds.DB.Model(&Site{}).
		Distinct("sito").
		Where("sito IS NOT NULL AND sito != ''").
		Order("sito ASC").
		Pluck("sito", &names).Error
	if err != nil {
		return nil, fmt.Errorf("error getting site names: %w", err)
	}
	return names, nil
}

// CountSites returns the number of sites matching the filters.
func (ds *DataStore) CountSites(filters SiteFilters) (int64, error) {
	var count int64
	query := ds.DB.Model(&Site{})
	if filters.Search != "" {
		query = query.Where("sito LIKE ?", "%"+filters.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting sites: %w", err)
	}
	return count, nil
}

func stratUnitQuery(db *gorm.DB, filters StratUnitFilters) *gorm.DB {
	query := db.Model(&StratUnit{})
	if filters.Sito != "" {
		query = query.Where("sito = ?", filters.Sito)
	}
	if filters.Area != "" {
		query = query.Where("area = ?", filters.Area)
	}
	if filters.Periodo != "" {
		query = query.Where("periodo_iniziale = ?", filters.Periodo)
	}
	return query
}

// GetStratUnits retrieves stratigraphic units matching the given filters.
// Ordering matches the legacy viewer so exports are reproducible.
func (ds *DataStore) GetStratUnits(filters StratUnitFilters) ([]StratUnit, error) {
	var units []StratUnit
	query := applyPagination(stratUnitQuery(ds.DB, filters), filters.Skip, filters.Limit).
		Order("sito ASC, area ASC, us ASC")
	if err := query.Find(&units).Error; err != nil {
		return nil, fmt.Errorf("error getting stratigraphic units: %w", err)
	}
	return units, nil
}

// GetStratUnit retrieves a single stratigraphic unit by its ID.
func (ds *DataStore) GetStratUnit(id int) (StratUnit, error) {
	var unit StratUnit
	if err := ds.DB.First(&unit, "id_us = ?", id).Error; err != nil {
		return StratUnit{}, fmt.Errorf("getting stratigraphic unit with ID %d: %w", id, err)
	}
	return unit, nil
}

// CountStratUnits returns the number of units matching the filters.
func (ds *DataStore) CountStratUnits(filters StratUnitFilters) (int64, error) {
	var count int64
	if err := stratUnitQuery(ds.DB, filters).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting stratigraphic units: %w", err)
	}
	return count, nil
}

func materialQuery(db *gorm.DB, filters MaterialFilters) *gorm.DB {
	query := db.Model(&Material{})
	if filters.Sito != "" {
		query = query.Where("sito = ?", filters.Sito)
	}
	if filters.Area != "" {
		query = query.Where("area = ?", filters.Area)
	}
	if filters.US != "" {
		query = query.Where("us = ?", filters.US)
	}
	if filters.NrCassa != 0 {
		query = query.Where("nr_cassa = ?", filters.NrCassa)
	}
	if filters.LuogoConservazione != "" {
		query = query.Where("luogo_conservazione = ?", filters.LuogoConservazione)
	}
	if filters.TipoReperto != "" {
		query = query.Where("tipo_reperto = ?", filters.TipoReperto)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("descrizione LIKE ? OR definizione LIKE ?", pattern, pattern)
	}
	return query
}

// GetMaterials retrieves materials inventory records matching the given filters.
func (ds *DataStore) GetMaterials(filters MaterialFilters) ([]Material, error) {
	var materials []Material
	query := applyPagination(materialQuery(ds.DB, filters), filters.Skip, filters.Limit).
		Order("sito ASC, numero_inventario ASC")
	if err := query.Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("error getting materials: %w", err)
	}
	return materials, nil
}

// GetMaterial retrieves a single material record by its ID.
func (ds *DataStore) GetMaterial(id int) (Material, error) {
	var material Material
	if err := ds.DB.First(&material, "id_invmat = ?", id).Error; err != nil {
		return Material{}, fmt.Errorf("getting material with ID %d: %w", id, err)
	}
	return material, nil
}

// CountMaterials returns the number of materials matching the filters.
func (ds *DataStore) CountMaterials(filters MaterialFilters) (int64, error) {
	var count int64
	if err := materialQuery(ds.DB, filters).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting materials: %w", err)
	}
	return count, nil
}

// MaterialStorageLocations returns the distinct non-empty storage locations,
// optionally restricted to one site.
func (ds *DataStore) MaterialStorageLocations(sito string) ([]string, error) {
	var locations []string
	query := ds.DB.Model(&Material{}).
		Distinct("luogo_conservazione").
		Where("luogo_conservazione IS NOT NULL AND luogo_conservazione != ''")
	if sito != "" {
		query = query.Where("sito = ?", sito)
	}
	if err := query.Order("luogo_conservazione ASC").Pluck("luogo_conservazione", &locations).Error; err != nil {
		return nil, fmt.Errorf("error getting storage locations: %w", err)
	}
	return locations, nil
}

// MaterialTypes returns the distinct non-empty material types, optionally
// restricted to one site.
func (ds *DataStore) MaterialTypes(sito string) ([]string, error) {
	var types []string
	query := ds.DB.Model(&Material{}).
		Distinct("tipo_reperto").
		Where("tipo_reperto IS NOT NULL AND tipo_reperto != ''")
	if sito != "" {
		query = query.Where("sito = ?", sito)
	}
	if err := query.Order("tipo_reperto ASC").Pluck("tipo_reperto", &types).Error; err != nil {
		return nil, fmt.Errorf("error getting material types: %w", err)
	}
	return types, nil
}

// MaterialStatistics computes totals and per-type/per-storage counts for the
// materials inventory, optionally restricted to one site.
func (ds *DataStore) MaterialStatistics(sito string) (MaterialStats, error) {
	stats := MaterialStats{
		ByType:    make(map[string]int64),
		ByStorage: make(map[string]int64),
	}

	base := ds.DB.Model(&Material{})
	if sito != "" {
		base = base.Where("sito = ?", sito)
	}

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, fmt.Errorf("error counting materials: %w", err)
	}

	var totals struct {
		Weight    float64
		Fragments int64
	}
	err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(peso), 0) as weight, COALESCE(SUM(totale_frammenti), 0) as fragments").
		Scan(&totals).Error
	if err != nil {
		return stats, fmt.Errorf("error summing material totals: %w", err)
	}
	stats.TotalWeightKg = totals.Weight / 1000.0
	stats.TotalFragments = totals.Fragments

	var byType []struct {
		TipoReperto *string
		Count       int64
	}
	err = base.Session(&gorm.Session{}).
		Select("tipo_reperto, COUNT(*) as count").
		Group("tipo_reperto").
		Scan(&byType).Error
	if err != nil {
		return stats, fmt.Errorf("error grouping materials by type: %w", err)
	}
	for _, row := range byType {
		stats.ByType[stringOrNA(row.TipoReperto)] += row.Count
	}

	var byStorage []struct {
		LuogoConservazione *string
		Count              int64
	}
	err = base.Session(&gorm.Session{}).
		Select("luogo_conservazione, COUNT(*) as count").
		Group("luogo_conservazione").
		Scan(&byStorage).Error
	if err != nil {
		return stats, fmt.Errorf("error grouping materials by storage: %w", err)
	}
	for _, row := range byStorage {
		stats.ByStorage[stringOrNA(row.LuogoConservazione)] += row.Count
	}

	return stats, nil
}

func potteryQuery(db *gorm.DB, filters PotteryFilters) *gorm.DB {
	query := db.Model(&Pottery{})
	if filters.Sito != "" {
		query = query.Where("sito = ?", filters.Sito)
	}
	if filters.Fabric != "" {
		query = query.Where("fabric = ?", filters.Fabric)
	}
	if filters.Form != "" {
		query = query.Where("form = ?", filters.Form)
	}
	if filters.Ware != "" {
		query = query.Where("ware = ?", filters.Ware)
	}
	if filters.Anno != 0 {
		query = query.Where("anno = ?", filters.Anno)
	}
	return query
}

// GetPottery retrieves pottery records matching the given filters.
func (ds *DataStore) GetPottery(filters PotteryFilters) ([]Pottery, error) {
	var items []Pottery
	query := applyPagination(potteryQuery(ds.DB, filters), filters.Skip, filters.Limit).
		Order("sito ASC, id_number ASC")
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("error getting pottery: %w", err)
	}
	return items, nil
}

// GetPotteryItem retrieves a single pottery record by its ID.
func (ds *DataStore) GetPotteryItem(id int) (Pottery, error) {
	var item Pottery
	if err := ds.DB.First(&item, "id_rep = ?", id).Error; err != nil {
		return Pottery{}, fmt.Errorf("getting pottery with ID %d: %w", id, err)
	}
	return item, nil
}

// CountPottery returns the number of pottery records matching the filters.
func (ds *DataStore) CountPottery(filters PotteryFilters) (int64, error) {
	var count int64
	if err := potteryQuery(ds.DB, filters).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting pottery: %w", err)
	}
	return count, nil
}

func applyPagination(query *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func stringOrNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// performAutoMigration creates missing tables for local development databases.
// Production deployments point at an existing pyArchInit schema and the
// migration is a no-op there.
func performAutoMigration(db *gorm.DB, debug bool, dbType string) error {
	if err := db.AutoMigrate(&Site{}, &StratUnit{}, &Material{}, &Pottery{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}
	if debug {
		logging.ForService("datastore").Debug("database schema migrated", "type", dbType)
	}
	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		slogLogWriter{logging.ForService("gorm")},
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      false,
		},
	)
}

// slogLogWriter adapts slog to gorm's logger.Writer.
type slogLogWriter struct {
	logger *slog.Logger
}

func (w slogLogWriter) Printf(format string, args ...any) {
	w.logger.Warn(fmt.Sprintf(format, args...))
}
