package config

import (
	"fmt"

	"github.com/jpalmerr/assetboard"
)

// BuildOptions converts a validated [Config] into SDK options.
//
// The logger is not part of the file and must be added by the caller.
func BuildOptions(cfg *Config) ([]assetboard.Option, error) {
	policy, err := cfg.Asset.OverlapPolicy()
	if err != nil {
		return nil, fmt.Errorf("asset.overlap: %w", err)
	}

	opts := []assetboard.Option{
		assetboard.WithPort(cfg.Port),
		assetboard.WithAssetURL(cfg.Asset.URL),
		assetboard.WithFetchTimeout(cfg.Asset.Timeout.Duration()),
		assetboard.WithOverlapPolicy(policy),
		assetboard.WithRefreshInterval(cfg.Asset.RefreshInterval.Duration()),
	}
	if cfg.Title != "" {
		opts = append(opts, assetboard.WithTitle(cfg.Title))
	}
	if cfg.Asset.BaseURL != "" {
		opts = append(opts, assetboard.WithBaseURL(cfg.Asset.BaseURL))
	}
	if cfg.Asset.ResultsPath != "" {
		opts = append(opts, assetboard.WithResultsPath(cfg.Asset.ResultsPath))
	}
	if cfg.Asset.Field1 != nil {
		opts = append(opts, assetboard.WithInitialField1(*cfg.Asset.Field1))
	}

	return opts, nil
}
