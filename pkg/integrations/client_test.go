package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"X-Client": "dependents"}
	client := NewClient(Config{Headers: headers, User: "admin", Password: "secret"})

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.headers["X-Client"] != "dependents" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.sem == nil {
		t.Error("NewClient() semaphore is nil")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("X-Default") != "default" {
			t.Errorf("default header missing")
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(Config{Headers: map[string]string{"X-Default": "default"}})
	client.http = server.Client()

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientBasicAuth(t *testing.T) {
	var user, pass string
	var ok bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{User: "admin", Password: "secret"})
	var resp map[string]any
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok || user != "admin" || pass != "secret" {
		t.Errorf("basic auth = %q/%q (ok=%v), want admin/secret", user, pass, ok)
	}
}

func TestClientNoAuthWithoutUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("Authorization header should not be sent without a user")
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var resp map[string]any
	if err := NewClient(Config{}).Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
}

func TestClientPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body struct {
			Keys []string `json:"keys"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int{"count": len(body.Keys)})
	}))
	defer server.Close()

	var resp map[string]int
	err := NewClient(Config{}).PostJSON(context.Background(), server.URL, map[string][]string{"keys": {"a", "b"}}, &resp)
	if err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if resp["count"] != 2 {
		t.Errorf("count = %d, want 2", resp["count"])
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusInternalServerError, ErrNetwork},
		{http.StatusBadRequest, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var resp map[string]string
			err := NewClient(Config{}).Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClientDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	var resp map[string]string
	err := NewClient(Config{}).Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var resp map[string]string
	err := NewClient(Config{}).Get(context.Background(), url, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
}

func TestClientConcurrencyBound(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{Concurrency: 2})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var resp map[string]any
			_ = client.Get(context.Background(), server.URL, &resp)
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak concurrent requests = %d, want <= 2", peak)
	}
}

func TestClientCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var resp map[string]string
	if err := NewClient(Config{}).Get(ctx, "http://127.0.0.1:0", &resp); err == nil {
		t.Error("Get() should fail with a cancelled context")
	}
}

func TestEscapePackageName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"left-pad", "left-pad"},
		{"@babel/core", "@babel%2Fcore"},
		{"@types/node", "@types%2Fnode"},
	}
	for _, tt := range tests {
		if got := EscapePackageName(tt.in); got != tt.want {
			t.Errorf("EscapePackageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://db", "_design/x", "http://db/_design/x"},
		{"http://db/", "/_design/x", "http://db/_design/x"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
