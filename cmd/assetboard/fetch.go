package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/assetboard/internal/remote"
)

// fetchCmd fetches a resource once and prints the decoded field2.
var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a resource and print the decoded results",
	Long: `Fetch a resource once, the same way the asset facade does, and print the
value field2 would take.

Useful to check that a resource is reachable and has a "results" field
before pointing a config at it.

Example:
  assetboard fetch https://api.example.com/asset
  assetboard fetch --path data.results https://api.example.com/asset`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("path", remote.DefaultResultsPath, "JSON path of the results payload")
	fetchCmd.Flags().Duration("timeout", 10*time.Second, "request timeout")
}

func runFetch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client, err := remote.NewClient(remote.WithTimeout(timeout))
	if err != nil {
		return err
	}
	defer client.Close()

	items, err := remote.NewResultsFetcher(client).WithPath(path).Fetch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
