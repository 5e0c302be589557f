package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/llmkit/llmstream/internal/api"
	"github.com/llmkit/llmstream/internal/client"
	"github.com/llmkit/llmstream/internal/model"
	"github.com/llmkit/llmstream/internal/printer"
)

var flagDim bool

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Compute an embedding vector for text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEmbed,
}

func init() {
	embedCmd.Flags().BoolVar(&flagDim, "dim", false, "print only the vector dimension")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	text, err := readPrompt(args)
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

	resp, err := c.Embeddings(cmd.Context(), &api.EmbeddingsRequest{
		Model:  cfg.Model,
		Prompt: text,
	})
	if err != nil {
		return err
	}

	if known, ok := model.EmbeddingDimension(cfg.Model); ok && known != len(resp.Embedding) {
		slog.Warn("embedding dimension differs from the known value",
			"model", cfg.Model, "got", len(resp.Embedding), "known", known)
	}

	if flagDim {
		fmt.Println(len(resp.Embedding))
		return nil
	}
	return printer.Stdout().Value(resp.Embedding)
}
