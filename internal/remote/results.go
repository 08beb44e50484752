package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jpalmerr/assetboard/asset"
)

// DefaultResultsPath is the JSON path of the payload that replaces field2.
const DefaultResultsPath = "results"

// ErrMissingResults is returned when a response has no payload at the
// configured path.
var ErrMissingResults = errors.New("response has no results field")

// ResultsFetcher implements [asset.Fetcher] on top of a [Client]. It GETs the
// resource and decodes the value found at Path into [asset.Items].
type ResultsFetcher struct {
	client *Client
	path   string
}

// NewResultsFetcher creates a [ResultsFetcher] reading [DefaultResultsPath].
func NewResultsFetcher(client *Client) *ResultsFetcher {
	return &ResultsFetcher{client: client, path: DefaultResultsPath}
}

// WithPath returns a copy of f that reads the payload at path (gjson
// syntax, e.g. "data.results").
func (f *ResultsFetcher) WithPath(path string) *ResultsFetcher {
	return &ResultsFetcher{client: f.client, path: path}
}

// Fetch implements [asset.Fetcher].
func (f *ResultsFetcher) Fetch(ctx context.Context, url string) (asset.Items, error) {
	resp := f.client.Get(ctx, url)
	if resp.Error != nil {
		return asset.Items{}, resp.Error
	}
	return DecodeResults(resp.Body, resp.StatusCode, f.path)
}

// DecodeResults extracts the payload at path from a response body.
//
// Non-2xx statuses, invalid JSON and a missing path are errors. A JSON null
// at path decodes to empty [asset.Items]; keys other than item1 and item2
// are ignored.
func DecodeResults(body []byte, statusCode int, path string) (asset.Items, error) {
	if statusCode < 200 || statusCode >= 300 {
		return asset.Items{}, fmt.Errorf("unexpected status %d", statusCode)
	}
	if !gjson.ValidBytes(body) {
		return asset.Items{}, errors.New("response body is not valid JSON")
	}

	value := gjson.GetBytes(body, path)
	if !value.Exists() {
		return asset.Items{}, fmt.Errorf("%w (path %q)", ErrMissingResults, path)
	}
	if value.Type == gjson.Null {
		return asset.Items{}, nil
	}
	if !value.IsObject() {
		return asset.Items{}, fmt.Errorf("results must be an object, got %s", value.Type)
	}

	var items asset.Items
	if err := json.Unmarshal([]byte(value.Raw), &items); err != nil {
		return asset.Items{}, fmt.Errorf("failed to decode results: %w", err)
	}
	return items, nil
}
