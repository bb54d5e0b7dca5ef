package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.UploadTTLSec != 3600 {
		t.Errorf("ttl = %d", cfg.Storage.UploadTTLSec)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  driver: sqlite
  dsn: /tmp/planner.db
server:
  addr: ":9090"
storage:
  bucket: briefs-bucket
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONTENTHUB_SERVER_ADDR", ":7070")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.DSN != "/tmp/planner.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("env override ignored, addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Bucket != "briefs-bucket" {
		t.Errorf("bucket = %q", cfg.Storage.Bucket)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONTENTHUB_DATABASE_DRIVER", "oracle")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Database.DSN = "/data/ideas.db"
	cfg.Storage.Bucket = "uploads"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Database.DSN != "/data/ideas.db" || loaded.Storage.Bucket != "uploads" {
		t.Fatalf("loaded = %+v", loaded)
	}
}
