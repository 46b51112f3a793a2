package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides (EVENTFLOW_SHEET_URL, ...).
const EnvPrefix = "EVENTFLOW"

// LegacySheetURLEnv is still honored for the sheet URL so existing .env
// files from the Vite build keep working.
const LegacySheetURLEnv = "VITE_GOOGLE_SHEET_URL"

const (
	defaultListen      = "127.0.0.1:8080"
	defaultPlaceholder = "/static/img/placeholder.svg"
	defaultTitle       = "EventFlow"
	defaultLocale      = "pt-BR"
	defaultEventLength = 2 * time.Hour
	defaultTimezone    = "America/Sao_Paulo"
)

// SheetConfig describes the published spreadsheet that feeds the agenda.
type SheetConfig struct {
	// URL is the published CSV (or XLSX) link. file:// URLs and plain
	// filesystem paths are accepted for local development.
	URL string `yaml:"url" json:"url"`

	// Format is "auto", "csv" or "xlsx".
	Format string `yaml:"format" json:"format"`

	// Timeout bounds a single fetch. Zero means no timeout: a stalled
	// request keeps the events section in its loading state.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Refresh is an optional cron expression ("*/15 * * * *"). Empty
	// disables refreshing; the sheet is then fetched once per process.
	Refresh string `yaml:"refresh" json:"refresh"`

	// Watch enables fsnotify-based reloads when URL points to a local file.
	Watch bool `yaml:"watch" json:"watch"`
}

// ColumnsConfig pins card fields to exact column names. Empty entries fall
// back to the built-in alias lists.
type ColumnsConfig struct {
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Date    string `yaml:"date,omitempty" json:"date,omitempty"`
	Time    string `yaml:"time,omitempty" json:"time,omitempty"`
	Weekday string `yaml:"weekday,omitempty" json:"weekday,omitempty"`
	Period  string `yaml:"period,omitempty" json:"period,omitempty"`
	Image   string `yaml:"image,omitempty" json:"image,omitempty"`
	Link    string `yaml:"link,omitempty" json:"link,omitempty"`

	Recurrence string `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
}

// SiteConfig holds presentation settings for the landing page.
type SiteConfig struct {
	Title            string        `yaml:"title" json:"title"`
	Tagline          string        `yaml:"tagline" json:"tagline"`
	ContactEmail     string        `yaml:"contact_email" json:"contact_email"`
	PlaceholderImage string        `yaml:"placeholder_image" json:"placeholder_image"`
	Locale           string        `yaml:"locale" json:"locale"`
	Columns          ColumnsConfig `yaml:"columns" json:"columns"`
}

// ExportConfig controls the iCalendar feed.
type ExportConfig struct {
	Timezone    string        `yaml:"timezone" json:"timezone"`
	EventLength time.Duration `yaml:"event_length" json:"event_length"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// CaptureDir is where page captures (preview.png) are written.
	CaptureDir string `yaml:"capture_dir" json:"capture_dir"`

	Sheet  SheetConfig  `yaml:"sheet" json:"sheet"`
	Site   SiteConfig   `yaml:"site" json:"site"`
	Export ExportConfig `yaml:"export" json:"export"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:     defaultListen,
		CaptureDir: "./cache",
		Sheet: SheetConfig{
			Format: "auto",
		},
		Site: SiteConfig{
			Title:            defaultTitle,
			Tagline:          "Shows, oficinas e encontros em um só lugar.",
			PlaceholderImage: defaultPlaceholder,
			Locale:           defaultLocale,
		},
		Export: ExportConfig{
			Timezone:    defaultTimezone,
			EventLength: defaultEventLength,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.CaptureDir == "" {
		c.CaptureDir = "./cache"
	}

	c.Sheet.URL = strings.TrimSpace(c.Sheet.URL)
	switch strings.ToLower(c.Sheet.Format) {
	case "csv", "xlsx":
		c.Sheet.Format = strings.ToLower(c.Sheet.Format)
	default:
		c.Sheet.Format = "auto"
	}
	if c.Sheet.Timeout < 0 {
		c.Sheet.Timeout = 0
	}
	c.Sheet.Refresh = strings.TrimSpace(c.Sheet.Refresh)

	if c.Site.Title == "" {
		c.Site.Title = defaultTitle
	}
	if c.Site.PlaceholderImage == "" {
		c.Site.PlaceholderImage = defaultPlaceholder
	}
	if c.Site.Locale == "" {
		c.Site.Locale = defaultLocale
	}

	if c.Export.Timezone == "" {
		c.Export.Timezone = defaultTimezone
	}
	if c.Export.EventLength <= 0 {
		c.Export.EventLength = defaultEventLength
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format != "json" {
		c.Log.Format = "text"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is decoded and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// NewViper returns a viper instance wired for EVENTFLOW_* environment
// overrides, including the legacy frontend variable for the sheet URL.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("sheet.url", EnvPrefix+"_SHEET_URL", LegacySheetURLEnv)
	return v
}

// ApplyOverrides copies any value set in v (env or bound flag) over cfg.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if cfg == nil || v == nil {
		return
	}
	if v.IsSet("listen") && v.GetString("listen") != "" {
		cfg.Listen = v.GetString("listen")
	}
	if v.IsSet("sheet.url") && v.GetString("sheet.url") != "" {
		cfg.Sheet.URL = v.GetString("sheet.url")
	}
	if v.IsSet("sheet.format") && v.GetString("sheet.format") != "" {
		cfg.Sheet.Format = v.GetString("sheet.format")
	}
	if v.IsSet("sheet.refresh") {
		cfg.Sheet.Refresh = v.GetString("sheet.refresh")
	}
	if v.IsSet("sheet.timeout") {
		cfg.Sheet.Timeout = v.GetDuration("sheet.timeout")
	}
	if v.IsSet("log.level") && v.GetString("log.level") != "" {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") && v.GetString("log.format") != "" {
		cfg.Log.Format = v.GetString("log.format")
	}
	cfg.Normalize()
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
