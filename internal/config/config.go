package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. TESTGEN_BACKEND_URL
	EnvPrefix = "TESTGEN"
	// ConfigName is the config file name searched without an explicit path
	ConfigName = "testgen"
	// DotEnvFile is loaded into the environment before viper reads it
	DotEnvFile = ".env"
)

// Config represents the complete testgen configuration
type Config struct {
	Backend    BackendConfig    `mapstructure:"backend"`
	Generation GenerationConfig `mapstructure:"generation"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// BackendConfig controls the remote test case service the client calls
type BackendConfig struct {
	// URL is the base URL of the service
	URL string `mapstructure:"url"`
	// Timeout bounds a single remote call
	Timeout time.Duration `mapstructure:"timeout"`
	// Offline disables the remote service; every run produces fallback results
	Offline bool `mapstructure:"offline"`
}

// GenerationConfig controls client-side generation
type GenerationConfig struct {
	// Mode is the shape of fallback results: "structured" or "text"
	Mode string `mapstructure:"mode"`
}

// ServerConfig controls the reference backend server
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Structured makes /generate-test-cases return a test case list instead of text
	Structured     bool     `mapstructure:"structured"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig controls logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: testcase.DefaultTimeout,
			Offline: false,
		},
		Generation: GenerationConfig{
			Mode: string(testcase.ModeStructured),
		},
		Server: ServerConfig{
			Addr:           ":8000",
			Structured:     false,
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the defaults on v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("backend.url", defaults.Backend.URL)
	v.SetDefault("backend.timeout", defaults.Backend.Timeout)
	v.SetDefault("backend.offline", defaults.Backend.Offline)

	v.SetDefault("generation.mode", defaults.Generation.Mode)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.structured", defaults.Server.Structured)
	v.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)

	v.SetDefault("logging.level", defaults.Logging.Level)
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads path into the process environment. A missing file is not an error.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ReadConfigFile reads path into v. With an empty path, testgen.yaml is searched in the
// working directory and ConfigDir, and a missing file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "testgen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".testgen"
	}
	return filepath.Join(home, ".config", "testgen")
}

// Mode returns the configured fallback result shape
func (c *Config) Mode() testcase.Mode {
	return testcase.Mode(c.Generation.Mode)
}
