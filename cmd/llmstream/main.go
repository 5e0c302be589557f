// Package main is the entry point for the llmstream CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/llmkit/llmstream/internal/exit"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		result := exit.FromError(err)
		result.Print()
		return result.ExitCode
	}
	return exit.CodeOK
}
