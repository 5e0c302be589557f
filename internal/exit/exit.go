// Package exit maps errors to process exit codes and final messages.
package exit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/llmkit/llmstream/internal/capture"
	"github.com/llmkit/llmstream/internal/client"
	"github.com/llmkit/llmstream/internal/config"
	"github.com/llmkit/llmstream/internal/stream"
)

// Exit codes reported by the llmstream binary.
const (
	CodeOK     = 0
	CodeError  = 1 // transport or server failure
	CodeUsage  = 2 // invalid configuration or request
	CodeStream = 3 // response stream could not be decoded
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

func (r *Result) Print() {
	fmt.Fprintln(r.Output, r.Message)
}

// FromError classifies err into an exit result.
func FromError(err error) *Result {
	code := CodeError
	switch {
	case errors.Is(err, stream.ErrMalformed), errors.Is(err, stream.ErrOverflow):
		code = CodeStream
	case errors.Is(err, config.ErrInvalidBaseURL),
		errors.Is(err, config.ErrInvalidHeaderFormat),
		errors.Is(err, config.ErrNegativeRateLimit),
		errors.Is(err, config.ErrNegativeRetries),
		errors.Is(err, capture.ErrInvalidPath),
		errors.Is(err, client.ErrMissingModel):
		code = CodeUsage
	}

	return &Result{
		Output:   os.Stderr,
		ExitCode: code,
		Message:  "Error: " + err.Error(),
	}
}
