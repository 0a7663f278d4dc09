// Package config resolves runtime settings. Later sources win: built-in
// defaults, the YAML file, USERFORM_* environment variables (including those
// loaded from .env files) and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "USERFORM_"

// DefaultAPIURL is the users collection endpoint used when nothing else is
// configured.
const DefaultAPIURL = "http://localhost:3000/users"

// Config is the full runtime configuration.
type Config struct {
	API    APIConfig    `yaml:"api" envPrefix:"API_"`
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
	Schema SchemaConfig `yaml:"schema" envPrefix:"SCHEMA_"`
	Theme  ThemeConfig  `yaml:"theme" envPrefix:"THEME_"`
}

// APIConfig points the user client at the REST backend.
type APIConfig struct {
	URL        string        `yaml:"url" env:"URL"`
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RequestIDs bool          `yaml:"requestIds" env:"REQUEST_IDS"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

// LogConfig selects the log level, format and optional rotated file.
type LogConfig struct {
	Level        string        `yaml:"level" env:"LEVEL"`
	Format       string        `yaml:"format" env:"FORMAT"`
	File         string        `yaml:"file" env:"FILE"`
	MaxAge       time.Duration `yaml:"maxAge" env:"MAX_AGE"`
	RotationTime time.Duration `yaml:"rotationTime" env:"ROTATION_TIME"`
}

// SchemaConfig selects where the form fields come from. OpenAPI wins over
// File; both empty means the bundled schema.
type SchemaConfig struct {
	File        string `yaml:"file" env:"FILE"`
	OpenAPI     string `yaml:"openapi" env:"OPENAPI"`
	OperationID string `yaml:"operationId" env:"OPERATION_ID"`
	Overrides   string `yaml:"overrides" env:"OVERRIDES"`
}

// ThemeConfig describes an optional single theme built from tokens.
type ThemeConfig struct {
	Name       string            `yaml:"name" env:"NAME"`
	Variant    string            `yaml:"variant" env:"VARIANT"`
	Stylesheet string            `yaml:"stylesheet" env:"STYLESHEET"`
	Tokens     map[string]string `yaml:"tokens" env:"TOKENS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			URL:        DefaultAPIURL,
			Timeout:    10 * time.Second,
			RequestIDs: true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:        "info",
			Format:       "text",
			MaxAge:       7 * 24 * time.Hour,
			RotationTime: 24 * time.Hour,
		},
	}
}

// Options controls where Load looks for settings.
type Options struct {
	// Args are the command line arguments after the program or subcommand name.
	Args []string
	// EnvFiles are loaded with godotenv. Missing files are ignored. Defaults to
	// ".env".
	EnvFiles []string
	// FileSystem resolves the config file. Defaults to the OS filesystem.
	FileSystem fs.FS
	// Output receives flag usage text. Defaults to io.Discard.
	Output io.Writer
}

// Load resolves the configuration and returns the positional arguments left
// after flag parsing.
func Load(name string, opts Options) (Config, []string, error) {
	cfg := Default()

	flags := newFlagSet(name, opts.Output)
	if err := flags.set.Parse(opts.Args); err != nil {
		return Config{}, nil, fmt.Errorf("config: parse flags: %w", err)
	}

	envFiles := opts.EnvFiles
	if *flags.envFile != "" {
		envFiles = []string{*flags.envFile}
	}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, nil, err
	}

	path := *flags.configFile
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadYAML(opts.FileSystem, path, &cfg); err != nil {
			return Config{}, nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, nil, fmt.Errorf("config: parse env: %w", err)
	}

	flags.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, flags.set.Args(), nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.url %q must be an absolute http(s) URL", c.API.URL)
	}
	if c.API.Timeout < 0 {
		return errors.New("config: api.timeout must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q must be text or json", c.Log.Format)
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" {
		return errors.New("config: theme.variant requires theme.name")
	}
	return nil
}

func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

func loadYAML(fsys fs.FS, path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if fsys != nil {
		data, err = fs.ReadFile(fsys, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
