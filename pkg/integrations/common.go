package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultConcurrency bounds simultaneous requests when Config leaves it unset.
const DefaultConcurrency = 16

var (
	// ErrNotFound is returned when a package or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork is returned for HTTP failures (connection errors, unexpected statuses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// EscapePackageName makes an npm package name safe for a URL path segment.
// The slash of a scoped name ("@scope/name") is percent-encoded so the name
// stays a single segment.
func EscapePackageName(name string) string {
	if scope, rest, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(scope, "@") {
		return "@" + url.PathEscape(scope[1:]) + "%2F" + url.PathEscape(rest)
	}
	return url.PathEscape(name)
}

// JoinURL appends path to base, tolerating a trailing slash on base.
func JoinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
