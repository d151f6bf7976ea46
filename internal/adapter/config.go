package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ViewName identifies a top-level section of the app
type ViewName string

const (
	ViewCatalog    ViewName = "catalog"
	ViewFavourites ViewName = "favourites"
)

// DefaultBaseURL is the public API serving users, albums and photos
const DefaultBaseURL = "https://json.medrating.org"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Latency time.Duration `mapstructure:"latency"` // Artificial delay per response
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves the transport default
}

// StorageConfig holds favourites persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // bbolt file; empty keeps favourites in memory
}

// ViewerConfig holds the external image viewer
type ViewerConfig struct {
	Command string   `mapstructure:"command"` // empty for system default
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	StartView ViewName `mapstructure:"start_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Latency: 500 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path: defaultStoragePath(),
		},
		Viewer: ViewerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			StartView: ViewCatalog,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultDataDir returns the per-user data directory for the current OS
func defaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "photodeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "photodeck")
	}
}

func defaultLogPath() string {
	return filepath.Join(defaultDataDir(), "photodeck.log")
}

func defaultStoragePath() string {
	return filepath.Join(defaultDataDir(), "favourites.db")
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "photodeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "photodeck")
	}
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Flags registers the command-line overrides on fs
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file")
	fs.String("api-url", "", "base URL of the photo API")
	fs.Duration("latency", 0, "artificial delay applied to every response")
	fs.String("db", "", "favourites database file")
	fs.Bool("memory", false, "keep favourites in memory only")
	fs.String("start", "", "initial view: catalog or favourites")
}

// LoadConfig loads configuration from file, environment and flags. fs may be
// nil; only flags the user actually set override file values.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.GetViper()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	if path := configFlag(fs); path != "" {
		// An explicit file replaces the search; SetConfigName would clear it
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. PHOTODECK_API_BASE_URL
	v.SetEnvPrefix("PHOTODECK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFlag(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString("config")
	return path
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.latency", cfg.API.Latency)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("viewer.command", cfg.Viewer.Command)
	v.SetDefault("viewer.args", cfg.Viewer.Args)
	v.SetDefault("ui.start_view", string(cfg.UI.StartView))
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"api-url": "api.base_url",
		"latency": "api.latency",
		"db":      "storage.path",
		"start":   "ui.start_view",
	}
	for flag, key := range bindings {
		f := fs.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	if memory, _ := fs.GetBool("memory"); memory {
		v.Set("storage.path", "")
	}
	return nil
}

// Validate rejects values the app cannot start with
func (c *Config) Validate() error {
	switch c.UI.StartView {
	case ViewCatalog, ViewFavourites:
	default:
		return fmt.Errorf("invalid ui.start_view %q: want %q or %q", c.UI.StartView, ViewCatalog, ViewFavourites)
	}
	if c.API.Latency < 0 {
		return fmt.Errorf("invalid api.latency %s: must not be negative", c.API.Latency)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout %s: must not be negative", c.API.Timeout)
	}
	return nil
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	viper.Set("api.base_url", cfg.API.BaseURL)
	viper.Set("api.latency", cfg.API.Latency.String())
	viper.Set("api.timeout", cfg.API.Timeout.String())
	viper.Set("storage.path", cfg.Storage.Path)
	viper.Set("viewer.command", cfg.Viewer.Command)
	viper.Set("viewer.args", cfg.Viewer.Args)
	viper.Set("ui.start_view", string(cfg.UI.StartView))
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPath returns the directory searched for config.yaml
func ConfigPath() string {
	return defaultConfigPath()
}
