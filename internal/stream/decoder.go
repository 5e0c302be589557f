// Package stream reconstructs discrete JSON values from a byte stream that
// arrives in arbitrarily-sized, arbitrarily-aligned chunks, emitting each
// value to a callback as soon as it is fully formed.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
)

// MaxBuffered is the hard cap on unresolved data retained between Feed calls.
// Exceeding it while a value is still incomplete is fatal to the decoder.
const MaxBuffered = 2 * 1024 * 1024 // 2 MiB

var (
	// ErrMalformed reports a line that failed to parse and does not look
	// like the prefix of a value still in flight. The decoder stays usable.
	ErrMalformed = errors.New("malformed stream chunk")

	// ErrOverflow reports that buffered incomplete data exceeded MaxBuffered.
	// It is terminal: every subsequent Feed fails with the same error.
	ErrOverflow = errors.New("incomplete stream data exceeds buffer limit")
)

// ValueFunc receives each decoded value, in arrival order, synchronously
// from within Feed. It must not call back into the same decoder.
type ValueFunc[T any] func(value T)

// Decoder accumulates stream chunks and decodes newline-delimited JSON
// values of type T. A decoder belongs to exactly one logical stream and is
// not safe for concurrent use; callers feeding from multiple goroutines
// must serialize externally.
type Decoder[T any] struct {
	emit   ValueFunc[T]
	buf    []byte
	failed bool
}

// New creates a decoder that passes each completed value to emit.
func New[T any](emit ValueFunc[T]) *Decoder[T] {
	return &Decoder[T]{emit: emit}
}

// Buffered returns the number of unresolved bytes currently retained.
func (d *Decoder[T]) Buffered() int {
	return len(d.buf)
}

// Feed appends chunk to the decoder's buffer and decodes every value that
// is now complete, invoking the emission callback once per value. Chunk
// boundaries carry no meaning: a value may span many chunks and a chunk may
// carry many values. Feed returns ErrMalformed for input that cannot become
// valid JSON, and ErrOverflow once unresolved data exceeds MaxBuffered;
// after an overflow the decoder is dead and must be discarded.
func (d *Decoder[T]) Feed(chunk []byte) error {
	if d.failed {
		slog.Error("stream decoder buffer limit exceeded", "limit", MaxBuffered)
		return d.overflowError()
	}

	d.buf = append(d.buf, chunk...)

	segments := bytes.Split(d.buf, []byte{'\n'})
	tail := segments[len(segments)-1]

	for i, segment := range segments[:len(segments)-1] {
		line := bytes.TrimSpace(segment)
		if len(line) == 0 {
			continue
		}

		var value T
		if err := json.Unmarshal(line, &value); err != nil {
			if looksIncomplete(line) {
				// Everything from this segment on, separators included,
				// stays buffered until more data arrives.
				d.buf = bytes.Join(segments[i:], []byte{'\n'})
				slog.Debug("stream chunk appears incomplete, buffering", "buffered", len(d.buf))
				return d.checkBound()
			}
			d.buf = append([]byte(nil), tail...)
			return d.malformed(line, err)
		}
		d.emit(value)
	}

	line := bytes.TrimSpace(tail)
	if len(line) == 0 {
		d.buf = d.buf[:0]
		return nil
	}

	var value T
	if err := json.Unmarshal(line, &value); err != nil {
		if looksIncomplete(line) {
			d.buf = append(d.buf[:0], tail...)
			slog.Debug("stream chunk appears incomplete, buffering", "buffered", len(d.buf))
			return d.checkBound()
		}
		d.buf = d.buf[:0]
		return d.malformed(line, err)
	}
	d.emit(value)
	d.buf = d.buf[:0]

	return nil
}

// checkBound enforces MaxBuffered whenever unresolved data is retained
// across a Feed call. Crossing the bound is terminal.
func (d *Decoder[T]) checkBound() error {
	if len(d.buf) <= MaxBuffered {
		return nil
	}

	d.failed = true
	d.buf = nil
	slog.Error("stream decoder buffer limit exceeded", "limit", MaxBuffered)
	return d.overflowError()
}

func (d *Decoder[T]) overflowError() error {
	return fmt.Errorf("%w (%d bytes)", ErrOverflow, MaxBuffered)
}

func (d *Decoder[T]) malformed(line []byte, err error) error {
	slog.Error("failed to decode stream line", "line", string(line), "error", err)
	return fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
}

// looksIncomplete decides whether text that failed to parse is the prefix
// of a value still being streamed (true) or genuinely malformed (false).
// The check is purely syntactic: a trailing separator or opener, or
// unbalanced brace/bracket counts, means more data is expected. Counting
// ignores string literals, so a literal brace inside a string skews the
// balance; such text is classified as incomplete and resolved either by
// later data or by the buffer bound.
func looksIncomplete(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}

	switch trimmed[len(trimmed)-1] {
	case ',', ':', '{', '[':
		return true
	}

	if bytes.Count(trimmed, []byte{'{'}) != bytes.Count(trimmed, []byte{'}'}) {
		return true
	}
	if bytes.Count(trimmed, []byte{'['}) != bytes.Count(trimmed, []byte{']'}) {
		return true
	}

	return false
}
