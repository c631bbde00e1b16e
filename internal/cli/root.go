// Package cli wires the registry to cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	baseDir      string
	configPath   string
	catalogPath  string
	logLevel     string
	verbose      bool
	outputFormat string
)

// Execute runs the root cobra command.
func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "integrador",
		Short:         "Download, track and launch the programs in the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	cmd.PersistentFlags().StringVar(&baseDir, "base", "", "Base folder holding Instaladores/, Atalhos/, logs/ and data/")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default <base>/config.yaml or $"+envConfigName+")")
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the program catalog (versions.json or .toml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also print log records to stderr")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")

	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newUpdatesCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newLaunchCmd())
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
