package couchdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/matzehuels/dependents/pkg/dependents"
	pkgerrors "github.com/matzehuels/dependents/pkg/errors"
	"github.com/matzehuels/dependents/pkg/integrations"
)

// View and design document names.
const (
	DefaultDesign       = "dependents"
	ViewDependents      = "dependents2"
	ViewDevDependencies = "dev-dependencies"
	ViewDownloads       = "downloads"
)

// Client queries dependents and download counts from a CouchDB database.
type Client struct {
	*integrations.Client
	baseURL string
	design  string
}

// NewClient creates a Client for the database at baseURL. An empty design
// uses DefaultDesign.
func NewClient(http *integrations.Client, baseURL, design string) *Client {
	if design == "" {
		design = DefaultDesign
	}
	return &Client{Client: http, baseURL: baseURL, design: design}
}

func (c *Client) viewURL(view string) string {
	return integrations.JoinURL(c.baseURL, "_design/"+url.PathEscape(c.design)+"/_view/"+url.PathEscape(view))
}

// Dependents returns every package declaring a dependency on name, in view
// order. With dev set, dev-dependency edges are returned; they carry no range.
func (c *Client) Dependents(ctx context.Context, name string, dev bool) ([]dependents.Edge, error) {
	view := ViewDependents
	if dev {
		view = ViewDevDependencies
	}
	key, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}
	u := c.viewURL(view) + "?key=" + url.QueryEscape(string(key))

	var resp viewResponse[json.RawMessage]
	if err := c.Get(ctx, u, &resp); err != nil {
		return nil, classify(err, "fetch %s of %s", view, name)
	}

	edges := make([]dependents.Edge, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		e, err := parseEdge(row.Value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, "decode %s row for %s", view, name)
		}
		if e.Name != "" {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

// Downloads returns the download counts of names. Names without a row are
// absent from the map. An empty names slice issues no request.
func (c *Client) Downloads(ctx context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	var resp viewResponse[float64]
	body := struct {
		Keys []string `json:"keys"`
	}{Keys: names}
	if err := c.PostJSON(ctx, c.viewURL(ViewDownloads), body, &resp); err != nil {
		return nil, classify(err, "fetch downloads for %d packages", len(names))
	}
	for _, row := range resp.Rows {
		var key string
		if err := json.Unmarshal(row.Key, &key); err != nil {
			continue
		}
		out[key] += int64(math.Round(row.Value))
	}
	return out, nil
}

type viewResponse[V any] struct {
	Rows []viewRow[V] `json:"rows"`
}

type viewRow[V any] struct {
	ID    string          `json:"id"`
	Key   json.RawMessage `json:"key"`
	Value V               `json:"value"`
}

// parseEdge accepts the three row shapes the views produce: a bare name, a
// [name, range] pair, or a {"name", "version"} object.
func parseEdge(raw json.RawMessage) (dependents.Edge, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return dependents.Edge{Name: name}, nil
	}

	var pair []string
	if err := json.Unmarshal(raw, &pair); err == nil {
		switch len(pair) {
		case 0:
			return dependents.Edge{}, nil
		case 1:
			return dependents.Edge{Name: pair[0]}, nil
		default:
			return dependents.Edge{Name: pair[0], Range: pair[1]}, nil
		}
	}

	var obj struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Range   string `json:"range"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return dependents.Edge{}, fmt.Errorf("unsupported row value %s", raw)
	}
	if obj.Version == "" {
		obj.Version = obj.Range
	}
	return dependents.Edge{Name: obj.Name, Range: obj.Version}, nil
}

func classify(err error, format string, args ...any) error {
	if errors.Is(err, integrations.ErrUnauthorized) {
		return pkgerrors.Wrap(pkgerrors.ErrCodeUnauthorized, err, format, args...)
	}
	return pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, format, args...)
}
