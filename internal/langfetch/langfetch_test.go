package langfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.URL.Path != "/spanish.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"name":"spanish","words":["uno","dos", "", "two words", "tres"]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchInstallsList(t *testing.T) {
	srv := newTestServer(t, nil)
	dir := t.TempDir()

	res, err := Fetch(context.Background(), srv.URL, dir, "spanish", false)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Cached {
		t.Fatalf("expected fresh download")
	}
	if res.Words != 3 {
		t.Fatalf("expected 3 words after cleaning, got %d", res.Words)
	}

	data, err := os.ReadFile(filepath.Join(dir, "spanish.txt"))
	if err != nil {
		t.Fatalf("expected installed list: %v", err)
	}
	if string(data) != "uno\ndos\ntres\n" {
		t.Fatalf("unexpected list contents: %q", string(data))
	}
}

func TestFetchShortCircuitsOnCache(t *testing.T) {
	hits := 0
	srv := newTestServer(t, &hits)
	dir := t.TempDir()

	if _, err := Fetch(context.Background(), srv.URL, dir, "spanish", false); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	res, err := Fetch(context.Background(), srv.URL, dir, "spanish", false)
	if err != nil {
		t.Fatalf("cached Fetch failed: %v", err)
	}
	if !res.Cached {
		t.Fatalf("expected cached result")
	}
	if hits != 1 {
		t.Fatalf("expected a single upstream request, got %d", hits)
	}
}

func TestFetchForceRedownloads(t *testing.T) {
	hits := 0
	srv := newTestServer(t, &hits)
	dir := t.TempDir()

	if _, err := Fetch(context.Background(), srv.URL, dir, "spanish", false); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	res, err := Fetch(context.Background(), srv.URL, dir, "spanish", true)
	if err != nil {
		t.Fatalf("forced Fetch failed: %v", err)
	}
	if res.Cached {
		t.Fatalf("expected forced download to skip the cache")
	}
	if hits != 2 {
		t.Fatalf("expected two upstream requests, got %d", hits)
	}
}

func TestFetchUnknownLanguage(t *testing.T) {
	srv := newTestServer(t, nil)

	if _, err := Fetch(context.Background(), srv.URL, t.TempDir(), "klingon", false); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}
