package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "dropzone.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendS3     = "s3"
)

// Config represents the complete dropzone.json configuration.
type Config struct {
	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// BasePath is the URL prefix every route is mounted under.
	BasePath string `json:"basePath,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Widget configures the picker.
	Widget WidgetConfig `json:"widget"`

	// ToastLife is how long notifications stay visible (e.g., "3s").
	ToastLife string `json:"toastLife,omitempty"`

	// Session contains session configuration.
	Session SessionConfig `json:"session,omitempty"`

	// Storage configures where batch content is staged.
	Storage StorageConfig `json:"storage,omitempty"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing enables OpenTelemetry request spans.
	Tracing bool `json:"tracing,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// WidgetConfig mirrors dropzone.Config in JSON form.
type WidgetConfig struct {
	// FileSize is the maximum per-file size in MiB.
	FileSize float64 `json:"fileSize,omitempty"`

	// Label is the widget heading.
	Label string `json:"label,omitempty"`

	// Name is the hidden field name.
	Name string `json:"name,omitempty"`

	// File configures the file tab. null hides it.
	File *DomainConfig `json:"file"`

	// Image configures the image tab. null disables it.
	Image *DomainConfig `json:"image"`

	// Messages overrides user-facing strings.
	Messages dropzone.Messages `json:"messages,omitempty"`
}

// DomainConfig configures one tab.
type DomainConfig struct {
	Visible      bool   `json:"visible"`
	SingleFile   bool   `json:"singleFile,omitempty"`
	Title        string `json:"title,omitempty"`
	Accept       string `json:"accept,omitempty"`
	RejectPolicy string `json:"rejectPolicy,omitempty"`
}

// SessionConfig contains session configuration.
type SessionConfig struct {
	// IdleTimeout closes sessions without events for this long (e.g., "30m").
	IdleTimeout string `json:"idleTimeout,omitempty"`

	// CleanupInterval is the time between idle sweeps (e.g., "1m").
	CleanupInterval string `json:"cleanupInterval,omitempty"`

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool `json:"secureCookies,omitempty"`
}

// StorageConfig configures the staging backend.
type StorageConfig struct {
	// Backend is "memory", "disk" or "s3".
	Backend string `json:"backend,omitempty"`

	// Dir is the staging directory of the disk backend.
	// Default: a dropzone directory under the system temp dir.
	Dir string `json:"dir,omitempty"`

	// MaxFileSize is the hard staging cap per file in bytes. 0 means no cap.
	MaxFileSize int64 `json:"maxFileSize,omitempty"`

	// MaxRequestSize bounds one batch request in bytes.
	MaxRequestSize int64 `json:"maxRequestSize,omitempty"`

	// S3 configures the s3 backend.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config configures the s3 backend.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	Region          string `json:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Port: DefaultPort,
		Host: DefaultHost,
		Widget: WidgetConfig{
			FileSize: dropzone.DefaultFileSize,
			Name:     "files",
			File:     &DomainConfig{Visible: true, RejectPolicy: string(dropzone.RejectDrop)},
			Image:    &DomainConfig{Visible: true, RejectPolicy: string(dropzone.RejectDrop)},
		},
		ToastLife: "3s",
		Session: SessionConfig{
			IdleTimeout:     "30m",
			CleanupInterval: "1m",
		},
		Storage: StorageConfig{
			Backend:        BackendMemory,
			MaxRequestSize: upload.DefaultMaxRequestSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "dropzone",
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the specified directory.
// It looks for dropzone.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
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
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Widget.Name == "" {
		c.Widget.Name = "files"
	}
	if c.ToastLife == "" {
		c.ToastLife = "3s"
	}
	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = "30m"
	}
	if c.Session.CleanupInterval == "" {
		c.Session.CleanupInterval = "1m"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.Storage.MaxRequestSize == 0 {
		c.Storage.MaxRequestSize = upload.DefaultMaxRequestSize
	}
	if c.Storage.Backend == BackendDisk && c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(os.TempDir(), "dropzone")
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "dropzone"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Port))
	}
	if c.Widget.FileSize <= 0 {
		return errors.New("E121").
			WithSuggestion("Set widget.fileSize to the limit in MiB, e.g. 50")
	}
	domains := []struct {
		name string
		cfg  *DomainConfig
	}{
		{"file", c.Widget.File},
		{"image", c.Widget.Image},
	}
	for _, d := range domains {
		if d.cfg == nil {
			continue
		}
		if _, err := dropzone.ParseRejectPolicy(d.cfg.RejectPolicy); err != nil {
			return errors.New("E123").
				WithDetail("widget." + d.name + ".rejectPolicy is " + strconv.Quote(d.cfg.RejectPolicy) + "; it must be \"keep\" or \"drop\"")
		}
	}

	durations := []struct{ field, value string }{
		{"toastLife", c.ToastLife},
		{"session.idleTimeout", c.Session.IdleTimeout},
		{"session.cleanupInterval", c.Session.CleanupInterval},
	}
	for _, d := range durations {
		if v, err := time.ParseDuration(d.value); err != nil || v <= 0 {
			return errors.New("E120").
				WithDetail(d.field + " must be a positive duration such as \"30s\", got " + strconv.Quote(d.value))
		}
	}
	if _, err := c.Level(); err != nil {
		return errors.New("E120").Wrap(err).
			WithSuggestion("logLevel must be debug, info, warn or error")
	}

	caps := []struct {
		field string
		value int64
	}{
		{"storage.maxFileSize", c.Storage.MaxFileSize},
		{"storage.maxRequestSize", c.Storage.MaxRequestSize},
	}
	for _, cp := range caps {
		if cp.value > 0 && float64(cp.value) < c.Widget.FileSize*1024*1024 {
			return errors.New("E125").
				WithDetail(fmt.Sprintf("%s is %d bytes, below widget.fileSize of %g MiB", cp.field, cp.value, c.Widget.FileSize))
		}
	}

	switch c.Storage.Backend {
	case BackendMemory, BackendDisk:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("E161")
		}
	default:
		return errors.New("E124").
			WithDetail("storage.backend is " + strconv.Quote(c.Storage.Backend) + "; it must be \"memory\", \"disk\" or \"s3\"")
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// URL returns the URL of the widget page.
func (c *Config) URL() string {
	return "http://" + c.Address() + strings.TrimSuffix(c.BasePath, "/") + "/"
}

// WidgetConfig converts the widget section into a dropzone.Config.
// It assumes Validate has passed.
func (c *Config) WidgetConfig() dropzone.Config {
	return dropzone.Config{
		FileSize: c.Widget.FileSize,
		Label:    c.Widget.Label,
		Name:     c.Widget.Name,
		File:     c.Widget.File.options(),
		Image:    c.Widget.Image.options(),
		Messages: c.Widget.Messages,
	}
}

func (d *DomainConfig) options() *dropzone.DomainOptions {
	if d == nil {
		return nil
	}
	policy, _ := dropzone.ParseRejectPolicy(d.RejectPolicy)
	return &dropzone.DomainOptions{
		Visible:      d.Visible,
		SingleFile:   d.SingleFile,
		Title:        d.Title,
		Accept:       d.Accept,
		RejectPolicy: policy,
	}
}

// ToastDuration returns the parsed toast lifetime.
func (c *Config) ToastDuration() time.Duration {
	d, _ := time.ParseDuration(c.ToastLife)
	return d
}

// IdleTimeout returns the parsed session idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Session.IdleTimeout)
	return d
}

// CleanupInterval returns the parsed sweep interval.
func (c *Config) CleanupInterval() time.Duration {
	d, _ := time.ParseDuration(c.Session.CleanupInterval)
	return d
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// OpenStore builds the configured staging backend.
func (c *Config) OpenStore() (upload.Store, error) {
	s := c.Storage
	switch s.Backend {
	case BackendDisk:
		store, err := upload.NewDiskStore(s.Dir, s.MaxFileSize)
		if err != nil {
			return nil, errors.New("E160").Wrap(err).
				WithSuggestion("Check that " + s.Dir + " is writable")
		}
		return store, nil
	case BackendS3:
		client := upload.NewS3Client(upload.S3ClientOptions{
			Region:          s.S3.Region,
			Endpoint:        s.S3.Endpoint,
			UsePathStyle:    s.S3.UsePathStyle,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
		})
		return upload.NewS3Store(client, s.S3.Bucket, s.S3.Prefix, s.MaxFileSize), nil
	default:
		return upload.NewMemStore(s.MaxFileSize), nil
	}
}
