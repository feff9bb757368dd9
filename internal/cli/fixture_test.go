package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeServices serves a tiny npm registry under /registry and a CouchDB
// view server under /db.
type fakeServices struct {
	*httptest.Server
	user, password string // required basic auth when set
}

var (
	fakeManifests = map[string]map[string]any{
		"left-pad": {"name": "left-pad", "version": "1.3.0", "dist": map[string]any{"unpackedSize": 1000}},
		"a":        {"name": "a", "version": "1.0.0", "dist": map[string]any{"unpackedSize": 10}},
		"b":        {"name": "b", "version": "2.0.0"},
		"c":        {"name": "c", "version": "3.0.0"},
		"skip-me":  {"name": "skip-me", "version": "1.0.0"},
	}
	fakeEdges = map[string][]any{
		"left-pad": {[]string{"a", "^1.0.0"}, []string{"b", "^2.0.0"}, "c", []string{"skip-me", "^1.0.0"}},
		"a":        {[]string{"a1", "^1.0.0"}},
	}
	fakeDownloads = map[string]float64{"a": 300, "b": 200, "c": 100, "skip-me": 400, "a1": 50}
)

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{}
	mux := http.NewServeMux()
	mux.HandleFunc("/registry/", f.registry)
	mux.HandleFunc("/db/", f.couch)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServices) registryURL() string { return f.URL + "/registry" }
func (f *fakeServices) couchURL() string    { return f.URL + "/db" }

func (f *fakeServices) registry(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/registry/"), "/")
	m, ok := fakeManifests[parts[0]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

func (f *fakeServices) couch(w http.ResponseWriter, r *http.Request) {
	if f.user != "" {
		if u, p, ok := r.BasicAuth(); !ok || u != f.user || p != f.password {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
	}

	type row struct {
		Key   any `json:"key"`
		Value any `json:"value"`
	}
	var rows []row
	switch {
	case strings.HasSuffix(r.URL.Path, "/_view/downloads"):
		var body struct {
			Keys []string `json:"keys"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, k := range body.Keys {
			if n, ok := fakeDownloads[k]; ok {
				rows = append(rows, row{Key: k, Value: n})
			}
		}
	case strings.HasSuffix(r.URL.Path, "/_view/dependents2"), strings.HasSuffix(r.URL.Path, "/_view/dev-dependencies"):
		var key string
		_ = json.Unmarshal([]byte(r.URL.Query().Get("key")), &key)
		if strings.HasSuffix(r.URL.Path, "dev-dependencies") {
			if key == "left-pad" {
				rows = append(rows, row{Key: key, Value: "c"})
			}
			break
		}
		for _, v := range fakeEdges[key] {
			rows = append(rows, row{Key: key, Value: v})
		}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows})
}

// isolateConfig points the config file and environment away from the
// developer's own settings.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"URL", "USER", "PASSWORD", "REGISTRY", "CONCURRENCY"} {
		t.Setenv(envPrefix+k, "")
	}
}
