package config

import (
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/assetboard/asset"
)

func TestParse_MinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte(`title: Assets`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Asset.Timeout.Duration() != 10*time.Second {
		t.Errorf("Asset.Timeout = %v, want 10s", cfg.Asset.Timeout.Duration())
	}
	if cfg.Asset.URL != "" {
		t.Errorf("Asset.URL = %q, want empty", cfg.Asset.URL)
	}
	if cfg.Asset.Field1 != nil {
		t.Errorf("Asset.Field1 = %q, want nil", *cfg.Asset.Field1)
	}
	if cfg.Asset.RefreshInterval != 0 {
		t.Errorf("Asset.RefreshInterval = %v, want 0", cfg.Asset.RefreshInterval.Duration())
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Asset Desk
port: 9090
asset:
  url: https://api.example.com/asset
  base_url: https://api.example.com/
  results_path: data.results
  timeout: 5s
  overlap: latest_issued
  field1: https://api.example.com/asset?id=1
  refresh_interval: 1m
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Asset Desk" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	a := cfg.Asset
	if a.URL != "https://api.example.com/asset" {
		t.Errorf("Asset.URL = %q", a.URL)
	}
	if a.BaseURL != "https://api.example.com/" {
		t.Errorf("Asset.BaseURL = %q", a.BaseURL)
	}
	if a.ResultsPath != "data.results" {
		t.Errorf("Asset.ResultsPath = %q", a.ResultsPath)
	}
	if a.Timeout.Duration() != 5*time.Second {
		t.Errorf("Asset.Timeout = %v, want 5s", a.Timeout.Duration())
	}
	if p, _ := a.OverlapPolicy(); p != asset.LatestIssuedWins {
		t.Errorf("Asset.OverlapPolicy() = %v, want latest_issued", p)
	}
	if a.Field1 == nil || *a.Field1 != "https://api.example.com/asset?id=1" {
		t.Errorf("Asset.Field1 = %v", a.Field1)
	}
	if a.RefreshInterval.Duration() != time.Minute {
		t.Errorf("Asset.RefreshInterval = %v, want 1m", a.RefreshInterval.Duration())
	}
}

func TestParse_RelativeURL(t *testing.T) {
	cfg, err := Parse([]byte("asset:\n  url: /api/asset\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Asset.URL != "/api/asset" {
		t.Errorf("Asset.URL = %q", cfg.Asset.URL)
	}
}

func TestParse_EmptyField1IsSet(t *testing.T) {
	cfg, err := Parse([]byte("asset:\n  field1: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Asset.Field1 == nil || *cfg.Asset.Field1 != "" {
		t.Errorf("Asset.Field1 = %v, want pointer to empty string", cfg.Asset.Field1)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("ASSET_HOST", "assets.internal")

	yaml := `
asset:
  url: https://${ASSET_HOST}/asset
  field1: ${ASSET_FIELD1:-initial}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Asset.URL != "https://assets.internal/asset" {
		t.Errorf("Asset.URL = %q", cfg.Asset.URL)
	}
	if *cfg.Asset.Field1 != "initial" {
		t.Errorf("Asset.Field1 = %q, want initial", *cfg.Asset.Field1)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	_, err := Parse([]byte("asset:\n  url: https://${MISSING_ASSET_HOST}/\n"))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "asset.url") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("ASSETBOARD_TITLE", "From Env")
	t.Setenv("ASSETBOARD_PORT", "9191")
	t.Setenv("ASSETBOARD_ASSET_URL", "https://env.example.com/asset")
	t.Setenv("ASSETBOARD_ASSET_TIMEOUT", "3s")
	t.Setenv("ASSETBOARD_ASSET_OVERLAP", "latest_issued")
	t.Setenv("ASSETBOARD_REFRESH_INTERVAL", "30s")

	yaml := `
title: From File
port: 8081
asset:
  url: https://file.example.com/asset
  timeout: 7s
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "From Env" {
		t.Errorf("Title = %q, want From Env", cfg.Title)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
	if cfg.Asset.URL != "https://env.example.com/asset" {
		t.Errorf("Asset.URL = %q", cfg.Asset.URL)
	}
	if cfg.Asset.Timeout.Duration() != 3*time.Second {
		t.Errorf("Asset.Timeout = %v, want 3s", cfg.Asset.Timeout.Duration())
	}
	if cfg.Asset.Overlap != "latest_issued" {
		t.Errorf("Asset.Overlap = %q", cfg.Asset.Overlap)
	}
	if cfg.Asset.RefreshInterval.Duration() != 30*time.Second {
		t.Errorf("Asset.RefreshInterval = %v, want 30s", cfg.Asset.RefreshInterval.Duration())
	}
}

func TestParse_EnvOverridesAssetFields(t *testing.T) {
	t.Setenv("ASSETBOARD_ASSET_BASE_URL", "https://env.example.com/v2/")
	t.Setenv("ASSETBOARD_ASSET_RESULTS_PATH", "data.results")
	t.Setenv("ASSETBOARD_ASSET_FIELD1", "from-env")

	yaml := `
asset:
  base_url: https://file.example.com/
  results_path: results
  field1: from-file
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Asset.BaseURL != "https://env.example.com/v2/" {
		t.Errorf("Asset.BaseURL = %q", cfg.Asset.BaseURL)
	}
	if cfg.Asset.ResultsPath != "data.results" {
		t.Errorf("Asset.ResultsPath = %q", cfg.Asset.ResultsPath)
	}
	if cfg.Asset.Field1 == nil || *cfg.Asset.Field1 != "from-env" {
		t.Errorf("Asset.Field1 = %v, want from-env", cfg.Asset.Field1)
	}
}

func TestParse_EnvOverridesAreValidated(t *testing.T) {
	tests := []struct {
		name        string
		key, value  string
		wantErrLike string
	}{
		{"port not a number", "ASSETBOARD_PORT", "eighty", "parse env"},
		{"port out of range", "ASSETBOARD_PORT", "70000", "port must be between"},
		{"bad timeout", "ASSETBOARD_ASSET_TIMEOUT", "soon", "parse env"},
		{"bad overlap", "ASSETBOARD_ASSET_OVERLAP", "first_wins", "asset.overlap"},
		{"relative base url", "ASSETBOARD_ASSET_BASE_URL", "/api/", "asset.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Parse(nil)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErrLike)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Port != 8080 || cfg.Asset.URL != "" {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErrLike string
	}{
		{
			name:        "port too high",
			yaml:        `port: 65536`,
			wantErrLike: "port must be between",
		},
		{
			name:        "negative port",
			yaml:        `port: -1`,
			wantErrLike: "port must be between",
		},
		{
			name:        "unsupported scheme",
			yaml:        "asset:\n  url: ftp://example.com/asset\n",
			wantErrLike: "asset.url: scheme must be http or https",
		},
		{
			name:        "relative base url",
			yaml:        "asset:\n  base_url: /api/\n",
			wantErrLike: "asset.base_url",
		},
		{
			name:        "timeout too short",
			yaml:        "asset:\n  timeout: 500ms\n",
			wantErrLike: "asset.timeout: must be at least 1s",
		},
		{
			name:        "unknown overlap policy",
			yaml:        "asset:\n  overlap: first_wins\n",
			wantErrLike: "asset.overlap",
		},
		{
			name:        "refresh interval too short",
			yaml:        "asset:\n  refresh_interval: 100ms\n",
			wantErrLike: "asset.refresh_interval: must be at least 1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErrLike)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("port: [8080"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("asset:\n  timeout: invalid\n"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/assetboard.yaml")
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error = %v, want read error", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false}, // set var takes precedence
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}
