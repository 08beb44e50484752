package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/assetboard"
)

// routesCmd prints the host route table.
var routesCmd = &cobra.Command{
	Use:   "routes [path...]",
	Short: "Print the route table",
	Long: `Print the host route table, or resolve paths against it.

Without arguments every route is listed with the feature unit it ends up on.
With arguments each path is resolved, following redirects.

Example:
  assetboard routes
  assetboard routes / /asset/api/state`,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	if len(args) > 0 {
		fmt.Fprintln(tw, "PATH\tUNIT")
		for _, path := range args {
			unit, err := assetboard.ResolveRoute(path)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", path, err)
			}
			fmt.Fprintf(tw, "%s\t%s\n", path, unit)
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "PATH\tREDIRECT\tUNIT")
	for _, r := range assetboard.Routes() {
		redirect := "-"
		if r.RedirectTo != "" {
			redirect = r.RedirectTo
		}
		fmt.Fprintf(tw, "/%s\t%s\t%s\n", r.Path, redirect, r.Unit)
	}
	return tw.Flush()
}
