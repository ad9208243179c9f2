package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
app_addr: ":9090"
page_size: 25
upstream:
  base_url: "http://data.internal/api"
  chatbot: "http://assistant.internal/api"
inventory_mode: mysql
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	env := Env{AppAddr: ":8080", PageSize: 10, UpstreamBaseURL: "http://localhost:8000/api"}
	fc.Apply(&env)

	if env.AppAddr != ":9090" {
		t.Fatalf("app addr = %q", env.AppAddr)
	}
	if env.PageSize != 25 {
		t.Fatalf("page size = %d", env.PageSize)
	}
	if env.UpstreamBaseURL != "http://data.internal/api" {
		t.Fatalf("upstream base = %q", env.UpstreamBaseURL)
	}

	if got := fc.UpstreamFor("chatbot", env.UpstreamBaseURL); got != "http://assistant.internal/api" {
		t.Fatalf("chatbot upstream = %q", got)
	}
	if got := fc.UpstreamFor("orders", env.UpstreamBaseURL); got != "http://data.internal/api" {
		t.Fatalf("orders upstream = %q", got)
	}
	if fc.InventoryMode != "mysql" {
		t.Fatalf("inventory mode = %q", fc.InventoryMode)
	}
}

func TestLoadFileMissingPathIsNotAnError(t *testing.T) {
	if _, err := LoadFile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if _, err := LoadFile("/nonexistent/config.yaml"); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	fc, _ := LoadFile("")
	env := Env{AppAddr: ":8080", PageSize: 10}
	fc.Apply(&env)
	if env.AppAddr != ":8080" || env.PageSize != 10 {
		t.Fatalf("empty overlay changed env: %+v", env)
	}
}
