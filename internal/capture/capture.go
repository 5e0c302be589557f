// Package capture extracts fields from decoded stream values using
// JSONPath expressions.
package capture

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
)

// ErrInvalidPath reports a JSONPath expression that failed to compile.
var ErrInvalidPath = errors.New("invalid JSONPath expression")

// Selector is a compiled JSONPath expression, safe for repeated use
// against successive stream values.
type Selector struct {
	expr string
	path *jsonpath.Path
}

// Compile parses a JSONPath expression such as $.response or
// $.message.content.
func Compile(expr string) (*Selector, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, expr, err)
	}
	return &Selector{expr: expr, path: path}, nil
}

// String returns the original expression.
func (s *Selector) String() string {
	return s.expr
}

// Extract returns the first value the path selects from a decoded JSON
// value, and whether anything matched.
func (s *Selector) Extract(value any) (any, bool) {
	results := s.path.Select(value)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// ExtractAll returns every value the path selects, in document order.
func (s *Selector) ExtractAll(value any) []any {
	return s.path.Select(value)
}
