package main

import (
	"fmt"
	"os"

	"github.com/pyarchinit/archweb/cmd"
	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(settings.Main.LogLevel, settings.Main.LogFile, settings.Main.Debug)

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
