package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/assetboard"
	"github.com/jpalmerr/assetboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an AssetBoard configuration file without starting the server.

This command parses the YAML, expands environment variables, applies
ASSETBOARD_* overrides and validates all fields. It's useful for CI/CD
pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  assetboard validate -c config.yaml
  assetboard validate --config /etc/assetboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	ab, err := assetboard.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	resolved, err := ab.ResolvedAssetURL()
	if err != nil {
		return fmt.Errorf("invalid config: asset.url: %w", err)
	}

	refresh := "disabled"
	if ab.RefreshInterval() > 0 {
		refresh = ab.RefreshInterval().String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:      %d\n", ab.Port())
	fmt.Fprintf(out, "  Asset URL: %s\n", resolved)
	fmt.Fprintf(out, "  Timeout:   %s\n", cfg.Asset.Timeout.Duration())
	fmt.Fprintf(out, "  Overlap:   %s\n", ab.OverlapPolicy())
	fmt.Fprintf(out, "  Refresh:   %s\n", refresh)

	return nil
}
