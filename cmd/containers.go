//go:build unix

package cmd

import (
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/gurisko/assetreg/pkg/registry"
	"github.com/spf13/cobra"
)

type containersResp struct {
	Containers []registry.ContainerInfo `json:"containers"`
}

var (
	containersJSON bool

	addCfg registry.ContainerConfig

	setURL       string
	setPath      string
	setVersioned bool
)

var containersCmd = &cobra.Command{
	Use:     "containers",
	Aliases: []string{"c"},
	Short:   "Manage asset containers",
}

var containersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List containers in registration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out containersResp
		if err := client().GetJSON(cmd.Context(), "/api/containers", &out); err != nil {
			return err
		}
		if containersJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		if len(out.Containers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No containers registered")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tURL\tPATH\tREGEX\tVERSIONED\tASSETS")
		for _, c := range out.Containers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%d\n", c.Name, c.URL, c.Path, c.FileRegex, c.Versioned, c.Assets)
		}
		return w.Flush()
	},
}

var containersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := addCfg
		req.Name = args[0]
		var out registry.ContainerInfo
		if err := client().PostJSON(cmd.Context(), "/api/containers", req, &out); err != nil {
			return err
		}
		if containersJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added container %s\n", out.Name)
		return nil
	},
}

var containersRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a container and all its assets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client().Delete(cmd.Context(), "/api/containers/"+url.PathEscape(args[0])); err != nil {
			return containerNotFound(err, args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed container %s\n", args[0])
		return nil
	},
}

var containersSetCmd = &cobra.Command{
	Use:   "set <name|*>",
	Short: "Change base URL, base path or versioning of one container or all (*)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{}
		flags := cmd.Flags()
		if flags.Changed("url") {
			req["base_url"] = setURL
		}
		if flags.Changed("path") {
			req["base_path"] = setPath
		}
		if flags.Changed("versioned") {
			req["versioned"] = setVersioned
		}
		if len(req) == 0 {
			return fmt.Errorf("nothing to set; pass --url, --path or --versioned")
		}

		var out containersResp
		if err := client().PatchJSON(cmd.Context(), "/api/containers/"+url.PathEscape(args[0]), req, &out); err != nil {
			return containerNotFound(err, args[0])
		}
		if containersJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		for _, c := range out.Containers {
			fmt.Fprintf(cmd.OutOrStdout(), "Updated container %s\n", c.Name)
		}
		return nil
	},
}

var containersVersioningCmd = &cobra.Command{
	Use:   "versioning <name>",
	Short: "Report whether a container appends modification times to URLs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Container string `json:"container"`
			Versioned bool   `json:"versioned"`
		}
		if err := client().GetJSON(cmd.Context(), "/api/containers/"+url.PathEscape(args[0])+"/versioning", &out); err != nil {
			return containerNotFound(err, args[0])
		}
		if containersJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		state := "off"
		if out.Versioned {
			state = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: versioning %s\n", out.Container, state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(containersCmd)
	containersCmd.AddCommand(containersListCmd, containersAddCmd, containersRemoveCmd, containersSetCmd, containersVersioningCmd)
	containersCmd.PersistentFlags().BoolVar(&containersJSON, "json", false, "print JSON")

	f := containersAddCmd.Flags()
	f.StringVar(&addCfg.URL, "url", "", "base URL")
	f.StringVar(&addCfg.Path, "path", "", "base filesystem path")
	f.StringVar(&addCfg.PrintPattern, "print-pattern", "", "markup template ({{PATH}} {{URL}} {{URI}} {{NAME}})")
	f.StringVar(&addCfg.FileRegex, "file-regex", "", "pattern selecting files for this container, e.g. '/\\.js$/'")
	f.BoolVar(&addCfg.Versioned, "versioned", false, "append ?<mtime> to URLs")

	f = containersSetCmd.Flags()
	f.StringVar(&setURL, "url", "", "new base URL")
	f.StringVar(&setPath, "path", "", "new base path; must be an existing directory, empty clears it")
	f.BoolVar(&setVersioned, "versioned", false, "turn versioning on or off")
}
