// Package config loads console settings from defaults, an optional YAML file,
// DBOPS_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"dbops-console/internal/directory"
	"dbops-console/internal/session"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "dbops-console"
	envPrefix = "dbops"
)

// Config holds all configuration for the console.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"` // DEBUG, INFO, WARN, ERROR
	Language string `mapstructure:"language" yaml:"language"`

	Web struct {
		Port string `mapstructure:"port" yaml:"port"`
	} `mapstructure:"web" yaml:"web"`

	// Server directory lookup
	Directory struct {
		URL       string        `mapstructure:"url" yaml:"url"`
		AccessKey string        `mapstructure:"access_key" yaml:"access_key"`
		Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	} `mapstructure:"directory" yaml:"directory"`

	Auth struct {
		SignInDelay time.Duration `mapstructure:"sign_in_delay" yaml:"sign_in_delay"`
	} `mapstructure:"auth" yaml:"auth"`

	Session struct {
		Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	} `mapstructure:"session" yaml:"session"`

	Notifications struct {
		TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
	} `mapstructure:"notifications" yaml:"notifications"`
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":            "INFO",
		"language":             "en",
		"web.port":             "8080",
		"directory.url":        directory.DefaultURL,
		"directory.access_key": "",
		"directory.timeout":    directory.DefaultTimeout.String(),
		"auth.sign_in_delay":   session.DefaultSignInDelay.String(),
		"session.duration":     "24h",
		"notifications.ttl":    "5s",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"language":  "language",
	"port":      "web.port",
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, appName, appName+".yaml"), nil
}

func systemDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("ProgramData"), appName)
	}
	return filepath.Join("/etc", appName)
}

// Load resolves the configuration. cfgFile, when set, must exist; otherwise
// the user, system and working directories are searched and a missing file
// is not an error. cmd may be nil.
func Load(cmd *cobra.Command, cfgFile string) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if p, err := DefaultPath(); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.AddConfigPath(systemDir())
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that required values are present and durations are usable.
func (c *Config) Validate() error {
	if c.Web.Port == "" {
		return fmt.Errorf("web.port is required")
	}
	if c.Directory.URL == "" {
		return fmt.Errorf("directory.url is required")
	}
	if c.Directory.Timeout <= 0 {
		return fmt.Errorf("directory.timeout must be positive, got %s", c.Directory.Timeout)
	}
	if c.Auth.SignInDelay < 0 {
		return fmt.Errorf("auth.sign_in_delay must not be negative, got %s", c.Auth.SignInDelay)
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("session.duration must be positive, got %s", c.Session.Duration)
	}
	if c.Notifications.TTL <= 0 {
		return fmt.Errorf("notifications.ttl must be positive, got %s", c.Notifications.TTL)
	}
	return nil
}

// WriteFile saves c as YAML at path, or at DefaultPath when path is empty,
// and returns the path written. The file may hold the directory access key,
// so it is created with mode 0600.
func WriteFile(c *Config, path string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}
