package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Paths.Pages != DefaultPagesDir {
		t.Errorf("Paths.Pages = %q, want %q", cfg.Paths.Pages, DefaultPagesDir)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.ExportStatic.Enabled {
		t.Error("ExportStatic should be off by default")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !strings.Contains(err.Error(), "E100") {
		t.Errorf("Expected E100 error, got: %v", err)
	}

	writeConfig(t, tmpDir, `{
  "name": "shop",
  "paths": {"pages": "app/pages"},
  "exportStatic": {"htmlSuffix": true},
  "pages": {
    "/admin": {"Route": "./src/routes/PrivateRoute.js"}
  },
  "conventions": {
    "indexRouteFiles": ["route.js"]
  },
  "routesConfigFiles": ["routes.json"],
  "dev": {"port": 9000, "interval": "1s", "ignore": ["*.bak"]},
  "publish": {"bucket": "routes", "prefix": "prod/", "region": "eu-west-1"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "shop" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.PagesPath() != filepath.Join(tmpDir, "app/pages") {
		t.Errorf("PagesPath() = %q", cfg.PagesPath())
	}
	if !cfg.ExportStatic.Enabled || !cfg.ExportStatic.HTMLSuffix {
		t.Errorf("ExportStatic = %+v, want enabled with suffix", cfg.ExportStatic)
	}
	if cfg.Pages["/admin"].Route != "./src/routes/PrivateRoute.js" {
		t.Errorf("Pages = %v", cfg.Pages)
	}
	if cfg.Dev.Port != 9000 || cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev = %+v", cfg.Dev)
	}
	if cfg.WatchInterval() != time.Second {
		t.Errorf("WatchInterval() = %v, want 1s", cfg.WatchInterval())
	}
	if cfg.ManifestKey() != "prod/routes.json" {
		t.Errorf("ManifestKey() = %q", cfg.ManifestKey())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	opts := cfg.RouteOptions()
	if !opts.ExportStatic || !opts.HTMLSuffix {
		t.Errorf("RouteOptions export = %v/%v", opts.ExportStatic, opts.HTMLSuffix)
	}
	if !reflect.DeepEqual(opts.RoutesConfigFiles, []string{"routes.json"}) {
		t.Errorf("RoutesConfigFiles = %v", opts.RoutesConfigFiles)
	}
	if !reflect.DeepEqual(opts.Conventions.IndexRouteFiles, []string{"route.js"}) {
		t.Errorf("IndexRouteFiles = %v", opts.Conventions.IndexRouteFiles)
	}
	if !reflect.DeepEqual(opts.Conventions.Extensions, routes.DefaultConventions().Extensions) {
		t.Errorf("Extensions should default, got %v", opts.Conventions.Extensions)
	}

	paths := cfg.RoutePaths()
	if paths.Cwd != tmpDir {
		t.Errorf("RoutePaths().Cwd = %q, want %q", paths.Cwd, tmpDir)
	}
}

func TestExportStaticForms(t *testing.T) {
	tests := []struct {
		json string
		want ExportStatic
	}{
		{`true`, ExportStatic{Enabled: true}},
		{`false`, ExportStatic{}},
		{`null`, ExportStatic{}},
		{`{}`, ExportStatic{Enabled: true}},
		{`{"htmlSuffix": true}`, ExportStatic{Enabled: true, HTMLSuffix: true}},
		{`{"htmlSuffix": false}`, ExportStatic{Enabled: true}},
	}

	for _, tt := range tests {
		var got ExportStatic
		if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.json, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.json, got, tt.want)
		}
	}

	var bad ExportStatic
	if err := json.Unmarshal([]byte(`"yes"`), &bad); err == nil {
		t.Error("expected error for a string exportStatic")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, "{\n  \"paths\": {\n    \"pages\": src/pages\n  }\n}\n")

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	coded, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if coded.Code != "E101" {
		t.Errorf("Code = %q, want E101", coded.Code)
	}
	if coded.Location == nil || coded.Location.Line != 3 || coded.Location.Column != 14 {
		t.Errorf("Location = %+v, want line 3 column 14", coded.Location)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Dev.Port = 9100
	cfg.ExportStatic = ExportStatic{Enabled: true, HTMLSuffix: true}

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Dev.Port != 9100 {
		t.Errorf("Dev.Port = %d, want 9100", loaded.Dev.Port)
	}
	if loaded.ExportStatic != cfg.ExportStatic {
		t.Errorf("ExportStatic = %+v, want %+v", loaded.ExportStatic, cfg.ExportStatic)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative port", func(c *Config) { c.Dev.Port = -1 }, false},
		{"huge port", func(c *Config) { c.Dev.Port = 70000 }, false},
		{"bad interval", func(c *Config) { c.Dev.Interval = "soon" }, false},
		{"zero interval", func(c *Config) { c.Dev.Interval = "0s" }, false},
		{"bad default extension", func(c *Config) { c.Conventions.DefaultExtension = ".vue" }, false},
		{"custom extensions", func(c *Config) {
			c.Conventions.Extensions = []string{".vue"}
			c.Conventions.DefaultExtension = ".vue"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if err != nil && !strings.Contains(err.Error(), "E102") {
				t.Errorf("error %v should be E102", err)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "src", "pages", "users")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 8080
	if cfg.DevAddress() != "0.0.0.0:8080" {
		t.Errorf("DevAddress() = %q", cfg.DevAddress())
	}
	if cfg.DevURL() != "http://0.0.0.0:8080" {
		t.Errorf("DevURL() = %q", cfg.DevURL())
	}
}
