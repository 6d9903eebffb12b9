// Package provider holds the pieces shared by upstream photo API clients:
// the fetch error type, URL redaction, and outbound request pacing.
package provider

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FetchError is returned when a request to the photo API fails. It carries
// the HTTP status when the server answered, and the transport error
// otherwise.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("request failed: %v", e.Cause)
	}
	return "request failed"
}

func (e *FetchError) Unwrap() error { return e.Cause }

// IsRateLimited reports whether the upstream rejected the request for
// exceeding its quota. Unsplash answers 403 once the hourly limit is spent.
func (e *FetchError) IsRateLimited() bool {
	return e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests
}

// AsFetchError unwraps err to a *FetchError if there is one.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// secretParams are query parameters whose values never appear in logs.
var secretParams = []string{"client_id", "api_key", "apikey", "access_key", "token"}

// RedactURL replaces secret query parameter values with REDACTED.
// Unparseable input is returned as a fixed placeholder.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	if u.RawQuery == "" {
		return u.String()
	}
	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		k, _, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		lower := strings.ToLower(k)
		for _, s := range secretParams {
			if lower == s {
				parts[i] = k + "=REDACTED"
				break
			}
		}
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}
