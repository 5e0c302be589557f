package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "defaults_are_valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing_scheme",
			mutate:  func(c *Config) { c.BaseURL = "localhost:11434" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "unsupported_scheme",
			mutate:  func(c *Config) { c.BaseURL = "ftp://host" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "negative_rate_limit",
			mutate:  func(c *Config) { c.RateLimit = -1 },
			wantErr: ErrNegativeRateLimit,
		},
		{
			name:    "negative_retries",
			mutate:  func(c *Config) { c.Retries = -1 },
			wantErr: ErrNegativeRetries,
		},
		{
			name:   "https_url",
			mutate: func(c *Config) { c.BaseURL = "https://models.internal:8443" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingCACert(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.CACertFile = filepath.Join(t.TempDir(), "missing.pem")

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing CA certificate file")
	}
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
base_url: https://models.internal:8443
model: llama3:8b
token: s3cret
timeout: 90s
rate_limit: 2.5
retries: 3
headers:
  X-Team: platform
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	cfg := Default()
	if err := cfg.LoadProfile(path); err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}

	if cfg.BaseURL != "https://models.internal:8443" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Model != "llama3:8b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Token != "s3cret" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v, want 2.5", cfg.RateLimit)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Retries)
	}
	if cfg.Headers["X-Team"] != "platform" {
		t.Errorf("Headers = %v, want X-Team: platform", cfg.Headers)
	}
}

func TestLoadProfilePartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("model: mistral\n"), 0o600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	cfg := Default()
	if err := cfg.LoadProfile(path); err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}

	if cfg.Model != "mistral" {
		t.Errorf("Model = %q, want mistral", cfg.Model)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default", cfg.Timeout)
	}
}

func TestLoadProfileInvalidTimeout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	cfg := Default()
	if err := cfg.LoadProfile(path); err == nil {
		t.Error("LoadProfile() should fail for unparseable timeout")
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{name: "plain", input: "X-Team: platform", wantName: "X-Team", wantValue: "platform"},
		{name: "no_space", input: "X-Team:platform", wantName: "X-Team", wantValue: "platform"},
		{name: "empty_value", input: "X-Flag:", wantName: "X-Flag", wantValue: ""},
		{name: "missing_colon", input: "X-Team platform", wantErr: true},
		{name: "empty_name", input: ": value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, value, err := ParseHeader(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHeaderFormat) {
					t.Errorf("ParseHeader(%q) error = %v, want ErrInvalidHeaderFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHeader(%q) failed: %v", tt.input, err)
			}
			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("ParseHeader(%q) = %q, %q; want %q, %q", tt.input, name, value, tt.wantName, tt.wantValue)
			}
		})
	}
}

func TestTLSConfigInsecure(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Insecure = true

	tlsConfig, err := cfg.TLSConfig()
	if err != nil {
		t.Fatalf("TLSConfig() failed: %v", err)
	}
	if !tlsConfig.InsecureSkipVerify {
		t.Error("InsecureSkipVerify should be set")
	}
}
