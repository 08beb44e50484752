package asset

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every error reported for a failed dependent
// fetch. Use errors.Is to test for it.
var ErrFetchFailed = errors.New("asset fetch failed")

// FetchError describes a failed dependent fetch.
type FetchError struct {
	// ID is the correlation id of the fetch, also used in log lines.
	ID string

	// URL is the configured resource URL.
	URL string

	// Err is the underlying cause.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.ID, e.URL, e.Err)
}

// Unwrap exposes both [ErrFetchFailed] and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}
