// Package config holds client configuration, assembled from defaults, an
// optional YAML profile file and command line flags.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/llmkit/llmstream/internal/httpclient"
)

const (
	// DefaultBaseURL is the conventional local Ollama address.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout bounds connection setup and response headers, not the
	// stream itself.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrInvalidBaseURL      = errors.New("base URL must be a valid http or https URL")
	ErrInvalidHeaderFormat = errors.New("header must be in format name:value")
	ErrNegativeRateLimit   = errors.New("rate limit cannot be negative")
	ErrNegativeRetries     = errors.New("retries cannot be negative")
)

// Config is the complete client configuration.
type Config struct {
	BaseURL    string
	Model      string
	Token      string
	Headers    map[string]string
	Timeout    time.Duration
	Insecure   bool
	CACertFile string
	RateLimit  float64 // requests per second, 0 = unlimited
	Retries    int     // additional attempts after the first
	Verbose    bool
}

// Default returns the configuration used before profile and flags apply.
func Default() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Headers: make(map[string]string),
	}
}

// profile mirrors Config for YAML profile files. Durations are strings so
// files can say "90s" or "2m".
type profile struct {
	BaseURL   string            `yaml:"base_url"`
	Model     string            `yaml:"model"`
	Token     string            `yaml:"token"`
	Headers   map[string]string `yaml:"headers"`
	Timeout   string            `yaml:"timeout"`
	Insecure  *bool             `yaml:"insecure"`
	CACert    string            `yaml:"ca_cert"`
	RateLimit *float64          `yaml:"rate_limit"`
	Retries   *int              `yaml:"retries"`
}

// LoadProfile merges settings from a YAML profile file into the config.
// Values already set by the file are later overridable by flags, so the
// merge only fills fields the file actually provides.
func (c *Config) LoadProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if p.BaseURL != "" {
		c.BaseURL = p.BaseURL
	}
	if p.Model != "" {
		c.Model = p.Model
	}
	if p.Token != "" {
		c.Token = p.Token
	}
	for name, value := range p.Headers {
		c.Headers[name] = value
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in profile %s: %w", path, err)
		}
		c.Timeout = d
	}
	if p.Insecure != nil {
		c.Insecure = *p.Insecure
	}
	if p.CACert != "" {
		c.CACertFile = p.CACert
	}
	if p.RateLimit != nil {
		c.RateLimit = *p.RateLimit
	}
	if p.Retries != nil {
		c.Retries = *p.Retries
	}

	return nil
}

// Validate checks the configuration before a client is built.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if c.RateLimit < 0 {
		return ErrNegativeRateLimit
	}
	if c.Retries < 0 {
		return ErrNegativeRetries
	}

	if c.CACertFile != "" {
		if _, err := os.Stat(c.CACertFile); err != nil {
			return fmt.Errorf("CA certificate file %s not found: %w", c.CACertFile, err)
		}
	}

	return nil
}

// TLSConfig returns a TLS configuration based on the config settings.
func (c *Config) TLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.Insecure,
	}

	if c.CACertFile != "" {
		caCertPool, err := x509.SystemCertPool()
		if err != nil {
			caCertPool = x509.NewCertPool()
		}

		caCert, err := os.ReadFile(c.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate file %s: %w", c.CACertFile, err)
		}

		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", c.CACertFile)
		}

		tlsConfig.RootCAs = caCertPool
	}

	return tlsConfig, nil
}

// HTTPClient builds the HTTP client matching the configuration.
func (c *Config) HTTPClient() (*http.Client, error) {
	tlsConfig, err := c.TLSConfig()
	if err != nil {
		return nil, err
	}
	return httpclient.New(tlsConfig, c.Timeout), nil
}

// ParseHeader splits a "Name: value" flag argument.
func ParseHeader(s string) (string, string, error) {
	name, value, found := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHeaderFormat, s)
	}
	return name, strings.TrimSpace(value), nil
}
