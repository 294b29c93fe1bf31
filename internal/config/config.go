package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "iris.yaml"

// Duration wraps time.Duration with YAML unmarshaling from strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the top-level iris configuration.
type Config struct {
	Endpoint   EndpointConfig   `yaml:"endpoint"`
	Submission SubmissionConfig `yaml:"submission"`
	Server     ServerConfig     `yaml:"server"`
}

// EndpointConfig locates the prediction service used by the form.
type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SubmissionConfig controls the form's submission lifecycle.
type SubmissionConfig struct {
	// DiscardStale drops responses to superseded submissions. Defaults to
	// true; set false to apply responses in arrival order.
	DiscardStale *bool `yaml:"discard_stale"`
}

type ServerConfig struct {
	Port            int      `yaml:"port"`
	ModelPath       string   `yaml:"model_path"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

const (
	defaultBaseURL         = "http://localhost:5000"
	defaultPort            = 5000
	defaultShutdownTimeout = 5 * time.Second
)

// Default returns a Config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads, expands env vars, parses, and validates an iris config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse expands env vars in data and decodes it as a config.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DiscardStale reports the effective stale-response policy.
func (c *Config) DiscardStale() bool {
	return c.Submission.DiscardStale == nil || *c.Submission.DiscardStale
}

func applyDefaults(cfg *Config) {
	if cfg.Endpoint.BaseURL == "" {
		cfg.Endpoint.BaseURL = defaultBaseURL
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.ShutdownTimeout.Duration == 0 {
		cfg.Server.ShutdownTimeout.Duration = defaultShutdownTimeout
	}
}

func validate(cfg *Config) error {
	var errs []error

	if u, err := url.Parse(cfg.Endpoint.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("endpoint.base_url is invalid: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("endpoint.base_url must be http or https, got %q", cfg.Endpoint.BaseURL))
	} else if u.Host == "" {
		errs = append(errs, fmt.Errorf("endpoint.base_url must include a host, got %q", cfg.Endpoint.BaseURL))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}
	if cfg.Server.ShutdownTimeout.Duration < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}
