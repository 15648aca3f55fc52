package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %q", cfg.Port)
	}
	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("unexpected base url: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("expected no request timeout by default, got %v", cfg.API.Timeout)
	}
	if cfg.Session.Store != StoreRedis || cfg.Session.Cookie != "portal_sid" || cfg.Session.IdleTTL != 24*time.Hour {
		t.Errorf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.SQLite.Path != "portal.db" || cfg.Redis.Password != "" {
		t.Errorf("unexpected storage defaults: %+v %+v", cfg.SQLite, cfg.Redis)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":  "https://backend.example.com/api",
		"API_TIMEOUT":   "15s",
		"SESSION_STORE": "file",
		"SESSION_FILE":  "/tmp/s.json",
		"ENV":           "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Timeout != 15*time.Second || cfg.Session.Store != StoreFile || cfg.Session.File != "/tmp/s.json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
}

func TestLoad_UnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_STORE": "etcd",
	}))
	if err == nil {
		t.Fatal("expected error for unknown session store")
	}
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DotenvFile), []byte("DOWNLOAD_DIR=/srv/downloads\nSESSION_COOKIE=from_file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("SESSION_COOKIE", "from_env")
	if prev, ok := os.LookupEnv("DOWNLOAD_DIR"); ok {
		t.Cleanup(func() { os.Setenv("DOWNLOAD_DIR", prev) })
	} else {
		t.Cleanup(func() { os.Unsetenv("DOWNLOAD_DIR") })
	}
	os.Unsetenv("DOWNLOAD_DIR")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DownloadDir != "/srv/downloads" {
		t.Errorf("expected value from %s, got %q", DotenvFile, cfg.DownloadDir)
	}
	if cfg.Session.Cookie != "from_env" {
		t.Errorf("environment must win over %s, got %q", DotenvFile, cfg.Session.Cookie)
	}
}

func TestLoad_NoDotenv(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	if _, err := Load(context.Background()); err != nil {
		t.Fatalf("a missing %s must not fail: %v", DotenvFile, err)
	}
}
