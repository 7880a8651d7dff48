package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pageroutes.json"

	// DefaultPagesDir is the default pages directory, relative to the project root.
	DefaultPagesDir = "src/pages"

	// DefaultPort is the default dev server port.
	DefaultPort = 8000

	// DefaultHost is the default dev server host.
	DefaultHost = "localhost"

	// DefaultInterval is the default watch polling interval.
	DefaultInterval = "250ms"

	// DefaultManifestName is the object name used when publishing routes.
	DefaultManifestName = "routes.json"
)

// Config represents the complete pageroutes.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Paths contains path configuration.
	Paths PathsConfig `json:"paths,omitempty"`

	// ExportStatic enables static HTML export checks and path rewriting.
	ExportStatic ExportStatic `json:"exportStatic,omitempty"`

	// Pages holds per-route page configuration keyed by route path.
	Pages map[string]routes.PageConfig `json:"pages,omitempty"`

	// Conventions overrides the recognized page file names.
	Conventions ConventionsConfig `json:"conventions,omitempty"`

	// RoutesConfigFiles are the route config files checked at the project root.
	// Nil uses the defaults; an empty list disables route config files.
	RoutesConfigFiles []string `json:"routesConfigFiles,omitempty"`

	// Dev contains dev server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Publish contains manifest publishing configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PathsConfig contains path configuration for project directories.
type PathsConfig struct {
	// Pages is the path to the pages directory.
	Pages string `json:"pages,omitempty"`
}

// ConventionsConfig mirrors routes.Conventions. Empty fields keep the defaults.
type ConventionsConfig struct {
	Extensions       []string `json:"extensions,omitempty"`
	DefaultExtension string   `json:"defaultExtension,omitempty"`
	IndexRouteFiles  []string `json:"indexRouteFiles,omitempty"`
	LayoutName       string   `json:"layoutName,omitempty"`
	LayoutFiles      []string `json:"layoutFiles,omitempty"`
}

// DevConfig contains dev server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Interval is the polling interval of the watcher (e.g., "250ms").
	Interval string `json:"interval,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// PublishConfig contains S3 publishing settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to the manifest object name.
	Prefix string `json:"prefix,omitempty"`

	// Name is the manifest object name (default: routes.json).
	Name string `json:"name,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g., for MinIO).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// ExportStatic is either a boolean or an object with options:
//
//	"exportStatic": true
//	"exportStatic": {"htmlSuffix": true}
type ExportStatic struct {
	Enabled    bool
	HTMLSuffix bool
}

// UnmarshalJSON accepts a boolean or an options object.
func (e *ExportStatic) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*e = ExportStatic{}
		return nil
	case len(data) > 0 && data[0] == '{':
		var opts struct {
			HTMLSuffix bool `json:"htmlSuffix"`
		}
		if err := json.Unmarshal(data, &opts); err != nil {
			return err
		}
		*e = ExportStatic{Enabled: true, HTMLSuffix: opts.HTMLSuffix}
		return nil
	}

	var enabled bool
	if err := json.Unmarshal(data, &enabled); err != nil {
		return fmt.Errorf("exportStatic must be a boolean or an object: %w", err)
	}
	*e = ExportStatic{Enabled: enabled}
	return nil
}

// MarshalJSON writes the shortest equivalent form.
func (e ExportStatic) MarshalJSON() ([]byte, error) {
	if e.Enabled && e.HTMLSuffix {
		return []byte(`{"htmlSuffix":true}`), nil
	}
	return json.Marshal(e.Enabled)
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Paths: PathsConfig{
			Pages: DefaultPagesDir,
		},
		Dev: DevConfig{
			Port:     DefaultPort,
			Host:     DefaultHost,
			Interval: DefaultInterval,
		},
		Publish: PublishConfig{
			Name: DefaultManifestName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for pageroutes.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + ` with at least {"paths": {"pages": "src/pages"}}`)
		}
		return nil, errors.New("E101").WithDetail(err.Error()).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
		if line, col, ok := errorPosition(data, err); ok {
			e.WithLocation(path, line, col)
		} else {
			e.WithLocation(path, 0, 0)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// errorPosition converts the byte offset of a JSON error into a line and column.
func errorPosition(data []byte, err error) (int, int, bool) {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0, 0, false
	}
	if offset <= 0 || offset > int64(len(data)) {
		return 0, 0, false
	}

	line, col := 1, 1
	for _, c := range data[:offset-1] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col, true
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").WithDetail(err.Error()).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Paths.Pages == "" {
		c.Paths.Pages = DefaultPagesDir
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Interval == "" {
		c.Dev.Interval = DefaultInterval
	}
	if c.Publish.Name == "" {
		c.Publish.Name = DefaultManifestName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E102").
			WithDetail("dev.port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	if d, err := time.ParseDuration(c.Dev.Interval); err != nil || d <= 0 {
		return errors.New("E102").
			WithDetail("dev.interval must be a positive duration such as \"250ms\", got " + strconv.Quote(c.Dev.Interval))
	}
	if err := c.RouteConventions().Validate(); err != nil {
		return errors.New("E102").WithDetail(err.Error()).Wrap(err)
	}
	return nil
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	path := c.Paths.Pages
	if path == "" {
		path = DefaultPagesDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// RoutePaths returns the paths bundle for route derivation.
func (c *Config) RoutePaths() routes.Paths {
	return routes.Paths{
		Cwd:          c.Dir(),
		AbsPagesPath: c.PagesPath(),
	}
}

// RouteConventions returns the configured conventions merged with defaults.
func (c *Config) RouteConventions() routes.Conventions {
	return routes.Conventions{
		Extensions:       c.Conventions.Extensions,
		DefaultExtension: c.Conventions.DefaultExtension,
		IndexRouteFiles:  c.Conventions.IndexRouteFiles,
		LayoutName:       c.Conventions.LayoutName,
		LayoutFiles:      c.Conventions.LayoutFiles,
	}.WithDefaults()
}

// RouteOptions returns the options for routes.Resolve.
func (c *Config) RouteOptions() routes.Options {
	return routes.Options{
		Conventions:       c.RouteConventions(),
		RoutesConfigFiles: c.RoutesConfigFiles,
		ExportStatic:      c.ExportStatic.Enabled,
		HTMLSuffix:        c.ExportStatic.HTMLSuffix,
		Pages:             c.Pages,
	}
}

// WatchInterval returns the parsed polling interval.
func (c *Config) WatchInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInterval)
	}
	return d
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ManifestKey returns the object key used when publishing.
func (c *Config) ManifestKey() string {
	name := c.Publish.Name
	if name == "" {
		name = DefaultManifestName
	}
	return c.Publish.Prefix + name
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing pageroutes.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " at the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
