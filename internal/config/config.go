// Package config loads and saves the rentroll TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all rentroll configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Billing    BillingConfig    `toml:"billing"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
	Narrative  NarrativeConfig  `toml:"narrative"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
	TUI        TUIConfig        `toml:"tui"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile    string `toml:"data_file,omitempty"`
	ProjectID   string `toml:"project_id"`
	DefaultYear int    `toml:"default_year,omitempty"`
	KeepBackups bool   `toml:"keep_backups"`
}

// SnapshotConfig selects where snapshots are saved.
type SnapshotConfig struct {
	Backend    string   `toml:"backend"`
	SQLitePath string   `toml:"sqlite_path,omitempty"`
	S3         S3Config `toml:"s3"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Endpoint     string `toml:"endpoint,omitempty"`
	Region       string `toml:"region,omitempty"`
	Bucket       string `toml:"bucket,omitempty"`
	Prefix       string `toml:"prefix,omitempty"`
	AccessKey    string `toml:"access_key,omitempty"`
	SecretKey    string `toml:"secret_key,omitempty"`
	UsePathStyle bool   `toml:"use_path_style,omitempty"`
}

// NarrativeConfig holds the text-generation API settings.
type NarrativeConfig struct {
	APIKey         string `toml:"api_key,omitempty"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	PollSeconds  int    `toml:"poll_seconds"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output,omitempty"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Snapshot backends.
const (
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			ProjectID:   "default",
			KeepBackups: true,
		},
		Snapshot: SnapshotConfig{
			Backend: BackendSQLite,
		},
		Narrative: NarrativeConfig{
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 60,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			PollSeconds:  5,
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rentroll")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rentroll")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "rentroll")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "rentroll")
}

// DataPath returns the data file, honouring the configured override.
func DataPath(cfg Config) string {
	if cfg.General.DataFile != "" {
		return cfg.General.DataFile
	}
	return filepath.Join(DataDir(), "rentroll.json")
}

// SnapshotDBPath returns the SQLite snapshot database path.
func SnapshotDBPath(cfg Config) string {
	if cfg.Snapshot.SQLitePath != "" {
		return cfg.Snapshot.SQLitePath
	}
	return filepath.Join(DataDir(), "snapshots.db")
}

// Year returns the configured default reporting year, or now's year.
func Year(cfg Config, now time.Time) int {
	if cfg.General.DefaultYear > 0 {
		return cfg.General.DefaultYear
	}
	return now.Year()
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetNarrativeKey returns the narrative API key from env vars or config,
// in that order.
func GetNarrativeKey(cfg Config) string {
	for _, env := range []string{"RENTROLL_NARRATIVE_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return cfg.Narrative.APIKey
}

// GetS3Credentials returns the S3 key pair from env vars or config.
func GetS3Credentials(cfg Config) (accessKey, secretKey string) {
	accessKey, secretKey = cfg.Snapshot.S3.AccessKey, cfg.Snapshot.S3.SecretKey
	if v := os.Getenv("RENTROLL_S3_ACCESS_KEY"); v != "" {
		accessKey = v
	}
	if v := os.Getenv("RENTROLL_S3_SECRET_KEY"); v != "" {
		secretKey = v
	}
	return accessKey, secretKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
