// Package main is the entry point for the assetboard CLI.
//
// AssetBoard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	assetboard serve -c config.yaml    # Start the host
//	assetboard validate -c config.yaml # Validate configuration
//	assetboard routes                  # Print the route table
//	assetboard fetch <url>             # Fetch and decode a resource once
//	assetboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "assetboard",
	Short: "A small host for the welcome and asset feature units",
	Long: `AssetBoard serves a welcome page and an asset view whose state is kept
in sync with a remote resource.

Whenever field1 changes, the resource is fetched and the "results" field of
the response replaces field2. The asset view streams changes over
Server-Sent Events.

Quick start:
  1. Create a config file (assetboard.yaml)
  2. Run: assetboard serve -c assetboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  asset:
    url: https://api.example.com/asset
    overlap: latest_issued`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this assetboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "assetboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
