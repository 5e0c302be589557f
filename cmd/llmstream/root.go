// Package main implements the llmstream CLI.
package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/llmkit/llmstream/internal/config"
)

var cfg = config.Default()

var (
	flagProfile   string
	flagBaseURL   string
	flagModel     string
	flagToken     string
	flagHeaders   []string
	flagTimeout   time.Duration
	flagInsecure  bool
	flagCACert    string
	flagRateLimit float64
	flagRetries   int
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "llmstream",
	Short: "Streaming client for Ollama-compatible model servers",
	Long: `llmstream talks to Ollama-compatible model servers and decodes their
newline-delimited JSON response streams incrementally, printing each
completion token the moment it arrives.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagProfile, "profile", "", "YAML profile file with client settings")
	f.StringVar(&flagBaseURL, "url", config.DefaultBaseURL, "base URL of the model server")
	f.StringVarP(&flagModel, "model", "m", "", "model name, e.g. llama3:8b")
	f.StringVar(&flagToken, "token", "", "bearer token for the Authorization header")
	f.StringArrayVarP(&flagHeaders, "header", "H", nil, "additional request header as name:value (repeatable)")
	f.DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "connection and response header timeout")
	f.BoolVar(&flagInsecure, "insecure", false, "skip TLS certificate verification")
	f.StringVar(&flagCACert, "cacert", "", "CA certificate file for TLS verification")
	f.Float64Var(&flagRateLimit, "rate-limit", 0, "maximum requests per second (0 = unlimited)")
	f.IntVar(&flagRetries, "retries", 0, "retry attempts for failed requests")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// applyConfig merges the optional profile file and any explicitly set
// flags into the configuration. Flags win over the profile.
func applyConfig(cmd *cobra.Command, _ []string) error {
	if flagVerbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if flagProfile != "" {
		if err := cfg.LoadProfile(flagProfile); err != nil {
			return err
		}
	}

	f := cmd.Root().PersistentFlags()
	if f.Changed("url") {
		cfg.BaseURL = flagBaseURL
	}
	if f.Changed("model") {
		cfg.Model = flagModel
	}
	if f.Changed("token") {
		cfg.Token = flagToken
	}
	if f.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if f.Changed("insecure") {
		cfg.Insecure = flagInsecure
	}
	if f.Changed("cacert") {
		cfg.CACertFile = flagCACert
	}
	if f.Changed("rate-limit") {
		cfg.RateLimit = flagRateLimit
	}
	if f.Changed("retries") {
		cfg.Retries = flagRetries
	}
	cfg.Verbose = flagVerbose

	for _, h := range flagHeaders {
		name, value, err := config.ParseHeader(h)
		if err != nil {
			return err
		}
		cfg.Headers[name] = value
	}

	return cfg.Validate()
}
