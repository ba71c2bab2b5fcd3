package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Actor    ActorConfig    `mapstructure:"actor"`
	Identity IdentityConfig `mapstructure:"identity"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ActorConfig holds the backend gateway configuration
type ActorConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IdentityConfig holds identity service configuration
type IdentityConfig struct {
	URL         string        `mapstructure:"url"`
	SessionPath string        `mapstructure:"session_path"` // empty keeps the session in memory only
	PollTimeout time.Duration `mapstructure:"poll_timeout"` // how long to wait for a link code approval
}

// UIConfig holds UI configuration
type UIConfig struct {
	GridColumns int    `mapstructure:"grid_columns"`
	Browser     string `mapstructure:"browser"` // command used for "View on Amazon", empty for system default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Actor: ActorConfig{
			URL:     "",
			Timeout: 30 * time.Second,
		},
		Identity: IdentityConfig{
			URL:         "",
			SessionPath: filepath.Join(defaultDataPath(), "session.db"),
			PollTimeout: 5 * time.Minute,
		},
		UI: UIConfig{
			GridColumns: 3,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "picks.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "picks")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "picks")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "picks")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "picks")
	}
}

// newViper returns a viper instance seeded with defaults and env overrides
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("actor.url", def.Actor.URL)
	v.SetDefault("actor.timeout", def.Actor.Timeout)
	v.SetDefault("identity.url", def.Identity.URL)
	v.SetDefault("identity.session_path", def.Identity.SessionPath)
	v.SetDefault("identity.poll_timeout", def.Identity.PollTimeout)
	v.SetDefault("ui.grid_columns", def.UI.GridColumns)
	v.SetDefault("ui.browser", def.UI.Browser)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)

	// PICKS_ACTOR_URL overrides actor.url
	v.SetEnvPrefix("PICKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from file and environment.
// configFile overrides the default search path when set.
func LoadConfig(configFile string) (*Config, error) {
	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.UI.GridColumns < 1 {
		cfg.UI.GridColumns = 1
	}
	return cfg, nil
}

// SaveConfig writes cfg to config.yaml in dir, or the default config
// directory when dir is empty
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = defaultConfigPath()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("actor.url", cfg.Actor.URL)
	v.Set("actor.timeout", cfg.Actor.Timeout.String())

	v.Set("identity.url", cfg.Identity.URL)
	v.Set("identity.session_path", cfg.Identity.SessionPath)
	v.Set("identity.poll_timeout", cfg.Identity.PollTimeout.String())

	v.Set("ui.grid_columns", cfg.UI.GridColumns)
	v.Set("ui.browser", cfg.UI.Browser)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the backend and identity service are set
func (c *Config) IsConfigured() bool {
	return c.Actor.URL != "" && c.Identity.URL != ""
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
