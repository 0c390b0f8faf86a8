package datastore

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pyarchinit/archweb/internal/conf"
)

// PostgresStore implements DataStore for PostgreSQL, the backend pyArchInit
// deployments normally run on.
type PostgresStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the PostgreSQL database connection
func (store *PostgresStore) Open() error {
	cfg := store.Settings.Database
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	store.DB = db
	// The production schema already exists; migration only fills in gaps on
	// fresh development databases.
	return performAutoMigration(db, store.Settings.Main.Debug, "PostgreSQL")
}

// Close releases the underlying connection pool.
func (store *PostgresStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
