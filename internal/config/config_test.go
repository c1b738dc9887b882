package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Port != DefaultPort || cfg.Host != DefaultHost {
		t.Errorf("address = %s", cfg.Address())
	}
	if cfg.Widget.FileSize != dropzone.DefaultFileSize {
		t.Errorf("FileSize = %v", cfg.Widget.FileSize)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `{
		"port": 8080,
		"basePath": "/dz",
		"widget": {
			"fileSize": 50,
			"label": "Items",
			"name": "items",
			"file": { "visible": true, "singleFile": true },
			"image": null,
			"messages": { "sizeSummary": "Too big" }
		},
		"session": { "idleTimeout": "10m" },
		"storage": { "backend": "disk", "maxFileSize": 52428800 }
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.URL() != "http://localhost:8080/dz/" {
		t.Errorf("URL() = %q", cfg.URL())
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
	if cfg.IdleTimeout() != 10*time.Minute || cfg.CleanupInterval() != time.Minute || cfg.ToastDuration() != 3*time.Second {
		t.Errorf("durations = %v %v %v", cfg.IdleTimeout(), cfg.CleanupInterval(), cfg.ToastDuration())
	}
	if cfg.Storage.Dir == "" {
		t.Error("disk backend without a default dir")
	}

	w := cfg.WidgetConfig()
	if w.Image != nil {
		t.Error("image: null must disable the image domain")
	}
	if w.File == nil || !w.File.Visible || !w.File.SingleFile || w.File.RejectPolicy != dropzone.RejectDrop {
		t.Errorf("file options = %+v", w.File)
	}
	if w.Label != "Items" || w.Name != "items" || w.FileSize != 50 {
		t.Errorf("widget = %+v", w)
	}
	if w.Messages.SizeSummary != "Too big" {
		t.Errorf("messages = %+v", w.Messages)
	}
}

func TestLoadPartialDomainKeepsDefaults(t *testing.T) {
	dir := writeConfig(t, `{"widget": {"file": {"singleFile": true}}}`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Widget.File.Visible {
		t.Error("file.visible default lost")
	}
	if cfg.Widget.Image == nil {
		t.Error("image domain default lost")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.HasCode(err, "E141") {
		t.Errorf("missing file = %v, want E141", err)
	}

	dir := writeConfig(t, `{not json`)
	if _, err := Load(dir); !errors.HasCode(err, "E120") {
		t.Errorf("bad json = %v, want E120", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"negative port", func(c *Config) { c.Port = -1 }, "E122"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "E122"},
		{"zero file size", func(c *Config) { c.Widget.FileSize = 0 }, "E121"},
		{"bad reject policy", func(c *Config) { c.Widget.Image.RejectPolicy = "discard" }, "E123"},
		{"bad duration", func(c *Config) { c.ToastLife = "soon" }, "E120"},
		{"negative duration", func(c *Config) { c.Session.IdleTimeout = "-1m" }, "E120"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "E120"},
		{"staging cap below file size", func(c *Config) { c.Storage.MaxFileSize = 1 << 20 }, "E125"},
		{"request cap below file size", func(c *Config) { c.Storage.MaxRequestSize = 1 << 20 }, "E125"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "E124"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = BackendS3 }, "E161"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	cfg := New()
	store, err := cfg.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*upload.MemStore); !ok {
		t.Errorf("memory backend = %T", store)
	}

	cfg.Storage.Backend = BackendDisk
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "staging")
	store, err = cfg.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*upload.DiskStore); !ok {
		t.Errorf("disk backend = %T", store)
	}

	cfg.Storage.Backend = BackendS3
	cfg.Storage.S3 = S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000", UsePathStyle: true}
	store, err = cfg.OpenStore()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*upload.S3Store); !ok {
		t.Errorf("s3 backend = %T", store)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Widget.Label = "Attachments"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Widget.Label != "Attachments" {
		t.Errorf("Label = %q", loaded.Widget.Label)
	}
	if err := (&Config{}).Save(); err == nil {
		t.Error("Save without a path must fail")
	}
}
