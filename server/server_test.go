package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"twixsite/config"
)

func setupServer(t *testing.T, port int) (*Server, string, *bytes.Buffer) {
	t.Helper()

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "images", "logos"), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	files := map[string]string{
		"index.html":                     "<html><body>TWIX</body></html>",
		"site.webmanifest":               `{"name": "TWIX Chain"}`,
		"images/logos/favicon-16x16.png": "png",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	var logs bytes.Buffer
	return NewServer(cfg, root, port, log.New(&logs, "", 0)), root, &logs
}

func TestHeadersOnEveryResponse(t *testing.T) {
	srv, _, _ := setupServer(t, 8000)
	handler := srv.Handler()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"index", "/", http.StatusOK},
		{"file", "/site.webmanifest", http.StatusOK},
		{"nested file", "/images/logos/favicon-16x16.png", http.StatusOK},
		{"directory listing", "/images/logos/", http.StatusOK},
		{"directory redirect", "/images", http.StatusMovedPermanently},
		{"index redirect", "/index.html", http.StatusMovedPermanently},
		{"not found", "/missing.txt", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
				t.Errorf("Unexpected Cache-Control %q", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("Unexpected X-Content-Type-Options %q", got)
			}
		})
	}
}

func TestServesFileContent(t *testing.T) {
	srv, _, logs := setupServer(t, 8000)

	req := httptest.NewRequest(http.MethodGet, "/site.webmanifest", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if body := rec.Body.String(); body != `{"name": "TWIX Chain"}` {
		t.Errorf("Unexpected body %q", body)
	}

	if !strings.Contains(logs.String(), "path=/site.webmanifest status=200") {
		t.Errorf("Expected request log line, got:\n%s", logs.String())
	}
}

func TestHeadersOnRecoveredPanic(t *testing.T) {
	srv, _, _ := setupServer(t, 8000)
	srv.router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("handler failure")
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("Unexpected Cache-Control %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Unexpected X-Content-Type-Options %q", got)
	}
}

func TestHeadersMiddlewareImplicitStatus(t *testing.T) {
	headers := []config.Header{{Name: "X-Test", Value: "yes"}}
	handler := Headers(headers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Del("X-Test")
		io.WriteString(w, "ok")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Test") != "yes" {
		t.Error("Header missing on implicit 200 response")
	}
}

func TestListenPortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to occupy port: %v", err)
	}
	defer occupied.Close()

	port := occupied.Addr().(*net.TCPAddr).Port
	srv, _, _ := setupServer(t, port)

	ln, err := srv.Listen()
	if err == nil {
		ln.Close()
		t.Fatal("Expected error for occupied port")
	}
	if !errors.Is(err, ErrPortInUse) {
		t.Errorf("Expected ErrPortInUse, got %v", err)
	}
	if !strings.Contains(err.Error(), strconv.Itoa(port)) {
		t.Errorf("Expected error to name port %d, got %v", port, err)
	}
}

func TestServeAndShutdown(t *testing.T) {
	probe, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	port := probe.Addr().(*net.TCPAddr).Port
	probe.Close()

	srv, _, _ := setupServer(t, port)
	ln, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", port))
	if err != nil {
		cancel()
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Missing nosniff header over the wire")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for shutdown")
	}
}
