// Package cmd implements the content-aggregator command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug forces debug logging and gin debug mode.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "content-aggregator",
		Short: "Aggregates blog, news and tool listings into one normalized API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "content-aggregator version %s\n", Version)
		},
	})
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(inspectCommand())
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return infraconfig.Path("config.yml")
}
