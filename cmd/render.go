package cmd

import (
	"fmt"

	"github.com/gurisko/assetreg/internal/ctxlog"
	"github.com/gurisko/assetreg/pkg/manifest"
	"github.com/gurisko/assetreg/pkg/registry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	renderManifest  string
	renderContainer string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print all markup straight from a manifest, without the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := renderManifest
		if path == "" {
			path = cfg.Manifest
		}
		logger := ctxlog.FromContext(cmd.Context())

		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		reg, err := m.Build(afero.NewOsFs(), registry.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to build registry from %s: %w", path, err)
		}
		logger.Debug("manifest rendered", "path", path, "containers", len(reg.ContainerNames()))

		ref := registry.Any
		if renderContainer != "" {
			ref = registry.In(renderContainer)
		}
		out, err := reg.PrintAll(ref)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderManifest, "manifest", "m", "", "manifest file (default from config)")
	renderCmd.Flags().StringVarP(&renderContainer, "container", "c", "", "container name (default: all)")
}
