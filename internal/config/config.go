package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/HenriqueAssisDev/TCC-II/internal/system"
)

// EnvFile names the config file when --config is not given.
const EnvFile = "INTEGRADOR_CONFIG"

// DefaultFile is looked up in the base folder.
const DefaultFile = "config.yaml"

// Config is the application configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Download DownloadConfig `yaml:"download"`
	Log      LogConfig      `yaml:"log"`
	Doctor   DoctorConfig   `yaml:"doctor"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	if err := c.Download.Validate(); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Doctor.Validate(); err != nil {
		return fmt.Errorf("doctor: %w", err)
	}
	return nil
}

// PathsConfig locates the working folders. Relative paths are taken from
// Base.
type PathsConfig struct {
	Base       string `yaml:"base"`
	Catalog    string `yaml:"catalog"`
	Installers string `yaml:"installers"`
	Shortcuts  string `yaml:"shortcuts"`
	Logs       string `yaml:"logs"`
	Data       string `yaml:"data"`
}

func (c *PathsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Base, validation.Required),
		validation.Field(&c.Catalog, validation.Required),
		validation.Field(&c.Installers, validation.Required),
		validation.Field(&c.Shortcuts, validation.Required),
		validation.Field(&c.Logs, validation.Required),
	)
}

// DownloadConfig tunes the installer downloads.
type DownloadConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Attempts       int           `yaml:"attempts"`
	UserAgent      string        `yaml:"user_agent"`
}

func (c *DownloadConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ConnectTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Attempts, validation.Required, validation.Min(1), validation.Max(10)),
	)
}

// LogConfig holds the default log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

var logLevels = []interface{}{"trace", "debug", "info", "warn", "error", "off"}

func (c *LogConfig) Validate() error {
	level := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(c.Level), "json"), ":")
	if level == "" {
		return nil
	}
	return validation.Validate(level, validation.In(logLevels...))
}

// DoctorConfig configures the environment checks.
type DoctorConfig struct {
	MinFreeMB uint64 `yaml:"min_free_mb"`
	ProbeURL  string `yaml:"probe_url"`
	Java      bool   `yaml:"java"`
}

func (c *DoctorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ProbeURL, validation.By(absoluteURL)),
	)
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if u, err := url.Parse(s); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Base:       ".",
			Catalog:    filepath.Join(system.DataDir, "versions.json"),
			Installers: system.InstallersDir,
			Shortcuts:  system.ShortcutsDir,
			Logs:       system.LogsDir,
			Data:       system.DataDir,
		},
		Download: DownloadConfig{
			Timeout:        30 * time.Minute,
			ConnectTimeout: 30 * time.Second,
			Attempts:       3,
		},
		Log: LogConfig{
			Level: "info",
		},
		Doctor: DoctorConfig{
			MinFreeMB: 500,
			ProbeURL:  "https://www.gov.br/receitafederal",
			Java:      true,
		},
	}
}

// LoadFile reads filename over the defaults. A missing file is not an error.
func LoadFile(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, cfg.Validate()
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err := Load(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve returns p relative to the base folder unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Base, p)
}

// Layout returns the resolved working folders.
func (c *Config) Layout() system.Layout {
	return system.Layout{
		Base:       c.Paths.Base,
		Installers: c.Resolve(c.Paths.Installers),
		Shortcuts:  c.Resolve(c.Paths.Shortcuts),
		Logs:       c.Resolve(c.Paths.Logs),
		Data:       c.Resolve(c.Paths.Data),
	}
}

// CatalogPath returns the resolved catalog file.
func (c *Config) CatalogPath() string {
	return c.Resolve(c.Paths.Catalog)
}
