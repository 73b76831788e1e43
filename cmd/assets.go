//go:build unix

package cmd

import (
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	assetsJSON      bool
	assetsContainer string
	assetName       string
)

var assetsCmd = &cobra.Command{
	Use:     "assets",
	Aliases: []string{"a"},
	Short:   "Manage assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets of one container or all",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Assets []assetView `json:"assets"`
			Count  int         `json:"count"`
		}
		path := "/api/assets"
		if assetsContainer != "" {
			path += "?" + url.Values{"container": {assetsContainer}}.Encode()
		}
		if err := client().GetJSON(cmd.Context(), path, &out); err != nil {
			return err
		}
		if assetsJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		if out.Count == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No assets registered")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CONTAINER\tNAME\tPATH")
		for _, a := range out.Assets {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Container, a.Name, a.Path)
		}
		return w.Flush()
	},
}

var assetsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register an asset; the container is determined from the path unless given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]string{"path": args[0], "name": assetName, "container": assetsContainer}
		var out struct {
			Asset assetView `json:"asset"`
		}
		if err := client().PostJSON(cmd.Context(), "/api/assets", req, &out); err != nil {
			return err
		}
		if assetsJSON {
			return printJSON(cmd.OutOrStdout(), out.Asset)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s:%s\n", out.Asset.Container, out.Asset.Name)
		return nil
	},
}

var assetsRemoveCmd = &cobra.Command{
	Use:     "remove <name|path>",
	Aliases: []string{"rm"},
	Short:   "Remove an asset by path or name",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"name": {args[0]}}
		if assetsContainer != "" {
			q.Set("container", assetsContainer)
		}
		var out struct {
			Removed bool `json:"removed"`
		}
		if err := client().DeleteJSON(cmd.Context(), "/api/assets?"+q.Encode(), &out); err != nil {
			return err
		}
		if assetsJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		if !out.Removed {
			fmt.Fprintf(cmd.OutOrStdout(), "No asset %s\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsListCmd, assetsAddCmd, assetsRemoveCmd)
	assetsCmd.PersistentFlags().BoolVar(&assetsJSON, "json", false, "print JSON")
	assetsCmd.PersistentFlags().StringVarP(&assetsContainer, "container", "c", "", "container name (default: any)")
	assetsAddCmd.Flags().StringVarP(&assetName, "name", "n", "", "asset name (default: the path)")
}
