package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	exportcmd "github.com/pyarchinit/archweb/cmd/export"
	"github.com/pyarchinit/archweb/cmd/serve"
	"github.com/pyarchinit/archweb/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archweb",
		Short: "Archaeological excavation records API",
		Long:  "HTTP API over a pyArchInit excavation database with media resolution and document exports.",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		serve.Command(settings),
		exportcmd.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Main.Debug, "debug", "d", viper.GetBool("main.debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Database.Type, "dbtype", viper.GetString("database.type"), "Database backend (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().StringVar(&settings.Database.Path, "dbpath", viper.GetString("database.path"), "Path to the sqlite database file")
	rootCmd.PersistentFlags().StringVar(&settings.Storage.URL, "storage-url", viper.GetString("storage.url"), "Base URL of the media storage server")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
