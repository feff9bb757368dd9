package npm

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Client resolves packages against an npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Client for the registry at baseURL (DefaultRegistry
// when empty) using http for transport.
func NewClient(http *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	return &Client{Client: http, baseURL: baseURL}
}

// Resolve fetches the manifest of name at version ("latest" when empty).
// Failures are reported through the Resolution status, never as a panic or
// a separate error value.
func (c *Client) Resolve(ctx context.Context, name, version string) dependents.Resolution {
	if version == "" {
		version = "latest"
	}
	url := integrations.JoinURL(c.baseURL, integrations.EscapePackageName(name)+"/"+integrations.EscapePackageName(version))

	var m manifest
	if err := c.Get(ctx, url, &m); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return dependents.Resolution{Status: dependents.NotFound, Err: fmt.Errorf("%w: npm package %s@%s", err, name, version)}
		}
		return dependents.Resolution{Status: dependents.Failed, Err: err}
	}
	if m.Version == "" {
		return dependents.Resolution{Status: dependents.Failed, Err: fmt.Errorf("npm package %s@%s: manifest has no version", name, version)}
	}

	pkg := &dependents.Package{
		Name:         m.Name,
		Version:      m.Version,
		Homepage:     m.Homepage,
		UnpackedSize: m.Dist.UnpackedSize,
	}
	if pkg.Name == "" {
		pkg.Name = name
	}
	return dependents.Resolution{Status: dependents.Resolved, Package: pkg}
}

type manifest struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Homepage string `json:"homepage"`
	Dist     dist   `json:"dist"`
}

type dist struct {
	UnpackedSize int64 `json:"unpackedSize"`
}
