// Package printer renders streamed tokens and decoded values on a
// terminal-aware writer.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/llmkit/llmstream/internal/api"
)

const (
	dim   = "\x1b[2m"
	reset = "\x1b[0m"
)

// Printer writes stream output. Tokens are written as they arrive, without
// trailing newlines; Finish terminates the line once the stream ends.
type Printer struct {
	w     io.Writer
	color bool
	wrote bool
}

// New creates a printer on an explicit writer. Color is only honored when
// requested by the caller.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Stdout creates a printer on standard output, enabling color when stdout
// is a terminal.
func Stdout() *Printer {
	fd := os.Stdout.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return New(colorable.NewColorableStdout(), color)
}

// Token writes one streamed text fragment.
func (p *Printer) Token(text string) {
	if text == "" {
		return
	}
	p.wrote = true
	fmt.Fprint(p.w, text)
}

// Value writes one decoded value as a compact JSON line.
func (p *Printer) Value(value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	fmt.Fprintf(p.w, "%s\n", payload)
	return nil
}

// Finish terminates the token line, if any tokens were written.
func (p *Printer) Finish() {
	if p.wrote {
		fmt.Fprintln(p.w)
		p.wrote = false
	}
}

// Stats writes a generation summary, dimmed on color terminals.
func (p *Printer) Stats(m api.Metrics) {
	line := fmt.Sprintf("%d tokens (%.1f tokens/s, %s total)", m.TotalTokens(), m.TokensPerSecond(), m.TotalDuration)
	if p.color {
		fmt.Fprintf(p.w, "%s%s%s\n", dim, line, reset)
		return
	}
	fmt.Fprintln(p.w, line)
}
