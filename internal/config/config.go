// Package config loads the client configuration with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the production backend.
const DefaultAPIURL = "https://bluehome-ot-backend.up.railway.app"

// Session store kinds.
const (
	StoreSQLite  = "sqlite"
	StoreKeyring = "keyring"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL     string           `mapstructure:"api_url"`
	DataDir    string           `mapstructure:"data_dir"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	Session    SessionConfig    `mapstructure:"session"`
	Technician TechnicianConfig `mapstructure:"technician"`
	Document   DocumentConfig   `mapstructure:"document"`
	Notify     NotifyConfig     `mapstructure:"notify"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	Store string `mapstructure:"store"`
}

// TechnicianConfig names the technician when the credential carries no name.
type TechnicianConfig struct {
	Name string `mapstructure:"name"`
}

type DocumentConfig struct {
	Company string `mapstructure:"company"`
}

// NotifyConfig holds the chat-notification credentials used at intake.
type NotifyConfig struct {
	APIKey string `mapstructure:"api_key"`
	UserID string `mapstructure:"user_id"`
}

// Enabled reports whether both notification credentials are set.
func (n NotifyConfig) Enabled() bool {
	return n.APIKey != "" && n.UserID != ""
}

// DefaultDir returns ~/.bluehome.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".bluehome"), nil
}

// DefaultPath returns ~/.bluehome/config.yaml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("data_dir", "")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("session.store", StoreSQLite)
	v.SetDefault("technician.name", "")
	v.SetDefault("document.company", "Blue Home Inmobiliaria")
	v.SetDefault("notify.api_key", "")
	v.SetDefault("notify.user_id", "")

	v.SetEnvPrefix("BLUEHOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, or ~/.bluehome/config.yaml when path
// is empty. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := newViper()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	file := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			file = ""
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreSQLite, StoreKeyring:
	default:
		return fmt.Errorf("invalid session.store %q (expected %s or %s)", c.Session.Store, StoreSQLite, StoreKeyring)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (expected text or json)", c.Log.Format)
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must not be empty")
	}
	return nil
}

// ResolveDataDir returns the data directory, defaulting to ~/.bluehome.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDir()
}

// Save writes cfg as YAML to path, or to the default location when path is empty.
func Save(path string, cfg *Config) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("api_url", cfg.APIURL)
	if cfg.DataDir != "" {
		v.Set("data_dir", cfg.DataDir)
	}
	v.Set("http.timeout", cfg.HTTP.Timeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("session.store", cfg.Session.Store)
	v.Set("technician.name", cfg.Technician.Name)
	v.Set("document.company", cfg.Document.Company)
	if cfg.Notify.Enabled() {
		v.Set("notify.api_key", cfg.Notify.APIKey)
		v.Set("notify.user_id", cfg.Notify.UserID)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	return path, nil
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	var cfg Config
	_ = newViper().Unmarshal(&cfg)
	return &cfg
}
