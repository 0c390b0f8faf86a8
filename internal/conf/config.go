// config.go: settings struct for the archweb service and functions to load them.
package conf

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name     string // service name used in logs and artifact metadata
	Debug    bool   // true to enable debug logging
	LogLevel string // log level: debug, info, warn, error
	LogFile  string // path to rotating service log, empty to log to stderr only
}

// WebSettings contains the HTTP server settings.
type WebSettings struct {
	Host        string   // interface to bind, empty for all
	Port        int      // TCP port for the API server
	CORSOrigins []string // allowed CORS origins, ["*"] to allow any
}

// DatabaseSettings selects and configures the relational store backend.
// The schema is owned by pyArchInit; this service only reads from it.
type DatabaseSettings struct {
	Type     string // "sqlite", "postgres" or "mysql"
	Path     string // sqlite database file path
	Host     string
	Port     int
	User     string
	Password string
	Name     string // database name
	SSLMode  string // postgres sslmode
}

// StorageSettings configures the external media storage server client.
type StorageSettings struct {
	URL      string        // base URL of the storage server
	APIKey   string        // credential sent as X-API-Key, empty to disable auth
	Timeout  time.Duration // per-lookup timeout
	FanOut   int           // max concurrent media lookups
	CacheTTL time.Duration // TTL for resolved media descriptor sets
}

// ExportSettings configures document rendering.
type ExportSettings struct {
	TruncateAt int  // max characters per PDF cell before ellipsis
	Thumbnails bool // embed media thumbnails in PDF exports
}

// Settings is the root configuration struct.
type Settings struct {
	Main     MainSettings
	Web      WebSettings
	Database DatabaseSettings
	Storage  StorageSettings
	Export   ExportSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.Mutex
)

// Load reads the configuration from file, environment and defaults,
// validates it and returns the settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// GetSettings returns the previously loaded settings instance, or nil
// if Load has not been called.
func GetSettings() *Settings {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return settingsInstance
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	for _, path := range DefaultConfigPaths() {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("ARCHWEB")
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults plus env cover a full setup.
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// ValidateSettings checks settings for values the service cannot run without.
func ValidateSettings(settings *Settings) error {
	switch settings.Database.Type {
	case "sqlite":
		if settings.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres", "mysql":
		if settings.Database.Host == "" || settings.Database.Name == "" {
			return fmt.Errorf("database.host and database.name are required for %s", settings.Database.Type)
		}
	default:
		return fmt.Errorf("unsupported database.type: %q", settings.Database.Type)
	}

	if settings.Web.Port <= 0 || settings.Web.Port > 65535 {
		return fmt.Errorf("web.port %d is out of range", settings.Web.Port)
	}

	if settings.Storage.FanOut <= 0 {
		return fmt.Errorf("storage.fanout must be positive, got %d", settings.Storage.FanOut)
	}

	return nil
}
