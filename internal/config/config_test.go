package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Session.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.Session.Store)
	}
	if cfg.File != "" {
		t.Errorf("expected no file, got %q", cfg.File)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_url: http://localhost:8080
http:
  timeout: 5s
session:
  store: keyring
technician:
  name: Juan
notify:
  api_key: k1
  user_id: u1
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLUEHOME_LOG_LEVEL", "debug")
	t.Setenv("BLUEHOME_DOCUMENT_COMPANY", "Blue Home Test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"api url", cfg.APIURL, "http://localhost:8080"},
		{"timeout", cfg.HTTP.Timeout, 5 * time.Second},
		{"store", cfg.Session.Store, StoreKeyring},
		{"technician", cfg.Technician.Name, "Juan"},
		{"log level from env", cfg.Log.Level, "debug"},
		{"company from env", cfg.Document.Company, "Blue Home Test"},
		{"notify enabled", cfg.Notify.Enabled(), true},
		{"file", cfg.File, path},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_InvalidStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("session:\n  store: vault\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.APIURL = "http://127.0.0.1:9000"
	cfg.Technician.Name = "María"
	cfg.Notify = NotifyConfig{APIKey: "key", UserID: "42"}

	written, err := Save(path, cfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Errorf("expected %s, got %s", path, written)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIURL != cfg.APIURL || loaded.Technician.Name != "María" || loaded.Notify.UserID != "42" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected timeout preserved, got %v", loaded.HTTP.Timeout)
	}
}

func TestResolveDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{}
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(home, ".bluehome") {
		t.Errorf("unexpected default data dir %s", dir)
	}

	cfg.DataDir = "/tmp/bh"
	if dir, _ := cfg.ResolveDataDir(); dir != "/tmp/bh" {
		t.Errorf("expected explicit data dir, got %s", dir)
	}
}
