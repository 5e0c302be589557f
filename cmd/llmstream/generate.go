package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmkit/llmstream/internal/api"
	"github.com/llmkit/llmstream/internal/capture"
	"github.com/llmkit/llmstream/internal/client"
	"github.com/llmkit/llmstream/internal/model"
	"github.com/llmkit/llmstream/internal/printer"
)

var (
	flagSelect string
	flagJSON   bool
	flagSystem string
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Stream a completion for a prompt",
	Long: `Stream a completion from the configured model. The prompt is taken from
the argument, or from stdin when no argument (or "-") is given. Tokens are
printed as they arrive; --json prints every decoded value instead, and
--select applies a JSONPath to each value and prints the matches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagSelect, "select", "", "JSONPath applied to each streamed value")
	generateCmd.Flags().BoolVar(&flagJSON, "json", false, "print decoded values as JSON lines")
	generateCmd.Flags().StringVar(&flagSystem, "system", "", "system prompt")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}
	if cfg.Model == "" {
		return client.ErrMissingModel
	}

	c, err := client.New(cfg)
	if err != nil {
		return err
	}

	p := printer.Stdout()
	req := &api.GenerateRequest{
		Model:  cfg.Model,
		Prompt: prompt,
		System: flagSystem,
	}

	if flagJSON || flagSelect != "" {
		var sel *capture.Selector
		if flagSelect != "" {
			sel, err = capture.Compile(flagSelect)
			if err != nil {
				return err
			}
		}

		return c.Stream(cmd.Context(), model.GenerateEndpoint, req, func(value map[string]any) error {
			if sel != nil {
				extracted, ok := sel.Extract(value)
				if !ok {
					return nil
				}
				return p.Value(extracted)
			}
			return p.Value(value)
		})
	}

	resp, err := c.Generate(cmd.Context(), req, func(r api.GenerateResponse) error {
		p.Token(r.Response)
		return nil
	})
	p.Finish()
	if err != nil {
		return err
	}

	if cfg.Verbose {
		p.Stats(resp.Metrics)
	}
	return nil
}

// readPrompt takes the prompt from the argument or stdin.
func readPrompt(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
