package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "data/folio.db" {
		t.Errorf("storage = %s %s", cfg.Storage.Driver, cfg.Storage.Path)
	}
	if len(cfg.Site.Locales) != 2 || cfg.Site.DefaultLocale != "en" {
		t.Errorf("locales = %v default %q", cfg.Site.Locales, cfg.Site.DefaultLocale)
	}
	if cfg.Auth.TTLHours != 24 {
		t.Errorf("TTLHours = %d, want 24", cfg.Auth.TTLHours)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache TTL = %v, want 5m", cfg.Cache.TTL)
	}
}

func TestConfigFileDriverDefaultPath(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Driver = "file"
	cfg.setDefaults()
	if cfg.Storage.Path != "data/posts.json" {
		t.Errorf("Path = %q, want data/posts.json", cfg.Storage.Path)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing secrets to fail validation")
	}
	cfg.Auth.PasswordHash = "hash"
	cfg.Auth.Secret = "secret"
	cfg.Auth.SessionSecret = "session"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  addr: ":8080"
site:
  name: "Test Site"
  url: "https://test.example/"
storage:
  driver: file
auth:
  username: editor
`
	if err := os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Site.Name != "Test Site" {
		t.Errorf("Name = %q", cfg.Site.Name)
	}
	if cfg.Site.URL != "https://test.example" {
		t.Errorf("URL = %q, trailing slash should be stripped", cfg.Site.URL)
	}
	if cfg.Storage.Path != "data/posts.json" {
		t.Errorf("Path = %q, file driver default expected", cfg.Storage.Path)
	}
	if cfg.Auth.Username != "editor" {
		t.Errorf("Username = %q", cfg.Auth.Username)
	}
}

func TestLoadConfigEnvOnly(t *testing.T) {
	t.Setenv("FOLIO_AUTH_SECRET", "from-env")
	t.Setenv("FOLIO_SERVER_ADDR", ":9090")
	t.Setenv("FOLIO_STORAGE_DRIVER", "file")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.Secret != "from-env" {
		t.Errorf("Secret = %q, want env value without a config file", cfg.Auth.Secret)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "data/posts.json" {
		t.Errorf("storage = %s %s, want file driver with its default path", cfg.Storage.Driver, cfg.Storage.Path)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}
