package cmd

import (
	"os"

	"github.com/gurisko/assetreg/internal/config"
	"github.com/gurisko/assetreg/internal/ctxlog"
	"github.com/spf13/cobra"
)

var (
	v          = config.New()
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "assetreg",
	Short: "assetreg - asset container registry",
	Long: `assetreg groups web assets into named containers, resolves which container
a file belongs to and prints the markup that references each asset.

A daemon holds the registry and serves it over a Unix socket; "render" works
offline straight from a manifest.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/assetreg/config.yaml)")
	rootCmd.PersistentFlags().String("socket", "", "daemon socket path")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func Execute() error {
	// Silence usage and errors to avoid cluttering output with Cobra defaults
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}
