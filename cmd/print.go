//go:build unix

package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	printContainer string
	printTemplate  string
	determineJSON  bool
)

var printCmd = &cobra.Command{
	Use:   "print <name|path>",
	Short: "Print the markup for one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"name": {args[0]}}
		if printContainer != "" {
			q.Set("container", printContainer)
		}
		if printTemplate != "" {
			q.Set("template", printTemplate)
		}
		out, err := client().GetText(cmd.Context(), "/api/print?"+q.Encode())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var printAllCmd = &cobra.Command{
	Use:   "print-all",
	Short: "Print the markup for every asset of one container or all",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/print-all"
		if printContainer != "" {
			path += "?" + url.Values{"container": {printContainer}}.Encode()
		}
		out, err := client().GetText(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var determineCmd = &cobra.Command{
	Use:   "determine <file>",
	Short: "Show which container a file name belongs to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			File      string `json:"file"`
			Container string `json:"container"`
		}
		q := url.Values{"file": {args[0]}}
		if err := client().GetJSON(cmd.Context(), "/api/determine?"+q.Encode(), &out); err != nil {
			return err
		}
		if determineJSON {
			return printJSON(cmd.OutOrStdout(), out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Container)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printCmd, printAllCmd, determineCmd)
	printCmd.Flags().StringVarP(&printContainer, "container", "c", "", "container name (default: any)")
	printCmd.Flags().StringVarP(&printTemplate, "template", "t", "", "custom markup template")
	printAllCmd.Flags().StringVarP(&printContainer, "container", "c", "", "container name (default: all)")
	determineCmd.Flags().BoolVar(&determineJSON, "json", false, "print JSON")
}
