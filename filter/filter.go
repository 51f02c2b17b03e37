// Package filter narrows mapped results with boolean expr-lang expressions,
// e.g. `released >= 1999 && tagline != nil`.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrNotBool is returned when an expression does not evaluate to a boolean.
var ErrNotBool = errors.New("filter expression did not return a boolean")

// Filter is a compiled expression. A nil *Filter matches everything.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile compiles source. Blank source yields a nil filter. Variables missing
// from an item's environment evaluate to nil, so absent optional properties
// can be tested with `!= nil`.
func Compile(source string) (*Filter, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil //nolint:nilnil // nil filter matches everything
	}

	program, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}

	return f.source
}

// Match evaluates the filter against env.
func (f *Filter) Match(env map[string]any) (bool, error) {
	if f == nil {
		return true, nil
	}

	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}

	passed, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrNotBool, f.source, output)
	}

	return passed, nil
}

// Apply returns the items whose environment matches f, preserving order. The
// first evaluation error aborts the whole call.
func Apply[T any](f *Filter, items []T, env func(T) map[string]any) ([]T, error) {
	if f == nil {
		return items, nil
	}

	out := make([]T, 0, len(items))

	for _, item := range items {
		ok, err := f.Match(env(item))
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, item)
		}
	}

	return out, nil
}
