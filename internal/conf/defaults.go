// defaults.go: default configuration values applied before reading any config file.
package conf

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig registers the default value for every configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("main.name", "archweb")
	viper.SetDefault("main.debug", false)
	viper.SetDefault("main.loglevel", "info")
	viper.SetDefault("main.logfile", "")

	viper.SetDefault("web.host", "")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("web.corsorigins", []string{"*"})

	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.path", "pyarchinit.db")
	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "pyarchinit")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("storage.url", "")
	viper.SetDefault("storage.apikey", "")
	viper.SetDefault("storage.timeout", 30*time.Second)
	viper.SetDefault("storage.fanout", 8)
	viper.SetDefault("storage.cachettl", 5*time.Minute)

	viper.SetDefault("export.truncateat", 50)
	viper.SetDefault("export.thumbnails", true)
}

// DefaultConfigPaths returns the list of directories searched for config.yaml,
// in priority order.
func DefaultConfigPaths() []string {
	paths := []string{"."}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "archweb"))
	}

	paths = append(paths, "/etc/archweb")
	return paths
}
