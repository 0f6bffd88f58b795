package maptiler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestConstructedRequest_TileURL(t *testing.T) {
	session := New("test-key")

	req, err := NewTileRequest(Satellite, 2, 1, 2)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	url := session.CreateRequest(req).tileURL(req)
	want := "https://api.maptiler.com/tiles/satellite/2/2/1.jpg?key=test-key"
	if url != want {
		t.Errorf("tileURL = %q, want %q", url, want)
	}
}

func TestConstructedRequest_TileURLCustom(t *testing.T) {
	session := New("test-key")

	req, err := NewTileRequest(CustomTileSet("foo", "bar"), 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	url := session.CreateRequest(req).tileURL(req)
	if !strings.Contains(url, "/foo/") {
		t.Errorf("URL %q doesn't contain custom endpoint", url)
	}
	if !strings.HasSuffix(url, ".bar?key=test-key") {
		t.Errorf("URL %q doesn't end with custom extension", url)
	}
}

func TestConstructedRequest_Execute(t *testing.T) {
	tileData := []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01}

	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Write(tileData)
	}))
	defer server.Close()

	session := New("test-key", WithBaseURL(server.URL))

	req, err := NewTileRequest(Satellite, 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	data, err := session.CreateRequest(req).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !bytes.Equal(data, tileData) {
		t.Errorf("got body %v, want %v", data, tileData)
	}
	if gotPath != "/tiles/satellite/0/0/0.jpg" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("request key = %q", gotKey)
	}
}

func TestConstructedRequest_ExecuteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing key", http.StatusForbidden)
	}))
	defer server.Close()

	session := New("bad-key", WithBaseURL(server.URL))

	req, err := NewTileRequest(Satellite, 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	_, err = session.CreateRequest(req).Execute(context.Background())
	if err == nil {
		t.Fatal("expected an error for a 403 response")
	}

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if herr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", herr.StatusCode, http.StatusForbidden)
	}
}

func TestConstructedRequest_ExecuteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // from here on every dial fails

	session := New("test-key", WithBaseURL(server.URL))

	req, err := NewTileRequest(Satellite, 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	_, err = session.CreateRequest(req).Execute(context.Background())
	if err == nil {
		t.Fatal("expected an error for a refused connection")
	}

	var rerr *RequestError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if rerr.Unwrap() == nil {
		t.Error("RequestError should wrap the transport error")
	}
}

func TestConstructedRequest_ExecuteRepeatable(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("tile"))
	}))
	defer server.Close()

	session := New("test-key", WithBaseURL(server.URL))

	req, err := NewTileRequest(Countries, 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	constructed := session.CreateRequest(req)
	for i := 0; i < 3; i++ {
		if _, err := constructed.Execute(context.Background()); err != nil {
			t.Fatalf("Execute %d failed: %v", i, err)
		}
	}

	if calls != 3 {
		t.Errorf("expected 3 independent HTTP calls, got %d", calls)
	}
}

// TestExecuteLive fetches the whole-world satellite tile from the real API.
// It only runs when MAPTILER_KEY is set.
func TestExecuteLive(t *testing.T) {
	apiKey := os.Getenv("MAPTILER_KEY")
	if apiKey == "" {
		t.Skip("MAPTILER_KEY not set")
	}

	session := New(apiKey)

	req, err := NewTileRequest(Satellite, 0, 0, 0)
	if err != nil {
		t.Fatalf("couldn't build request: %v", err)
	}

	tile, err := session.CreateRequest(req).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Check for JPEG file magic
	if len(tile) < 3 || !bytes.Equal(tile[0:3], []byte{0xFF, 0xD8, 0xFF}) {
		t.Errorf("response doesn't look like a JPEG: % x", tile[:min(len(tile), 8)])
	}
}
