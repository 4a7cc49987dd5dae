// Package diag pairs values with the non-fatal warnings produced while
// computing them.
//
// A malformed element deep inside a document becomes a Warning on the
// enclosing Result instead of an error, so conversion keeps going. Results
// compose with Map, FlatMap and Combine, all of which preserve warning order.
package diag

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem found while reading a document.
type Warning struct {
	Message string
}

// String returns the warning message.
func (w Warning) String() string {
	return w.Message
}

// Warnf formats a warning.
func Warnf(format string, args ...any) Warning {
	return Warning{Message: fmt.Sprintf(format, args...)}
}

// Result is a value together with an ordered list of warnings.
type Result[T any] struct {
	Value    T
	Warnings []Warning
}

// Ok wraps a value with no warnings.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// WithWarnings wraps a value with the given warnings.
func WithWarnings[T any](v T, warnings ...Warning) Result[T] {
	return Result[T]{Value: v, Warnings: copyWarnings(warnings)}
}

// Warn returns a copy of r with w appended.
func (r Result[T]) Warn(w ...Warning) Result[T] {
	return Result[T]{Value: r.Value, Warnings: concat(r.Warnings, w)}
}

// Map applies f to the value. Warnings are carried over unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	return Result[U]{Value: f(r.Value), Warnings: copyWarnings(r.Warnings)}
}

// FlatMap applies f to the value and returns its result with r's warnings
// placed before the warnings f produced.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	next := f(r.Value)
	return Result[U]{Value: next.Value, Warnings: concat(r.Warnings, next.Warnings)}
}

// Combine collects the values of rs in order and concatenates all of their
// warnings in order. It never short-circuits.
func Combine[T any](rs []Result[T]) Result[[]T] {
	values := make([]T, 0, len(rs))
	var warnings []Warning
	for _, r := range rs {
		values = append(values, r.Value)
		warnings = append(warnings, r.Warnings...)
	}
	return Result[[]T]{Value: values, Warnings: warnings}
}

// Format joins warning messages, one per line.
func Format(warnings []Warning) string {
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Message
	}
	return strings.Join(msgs, "\n")
}

func copyWarnings(ws []Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	return append([]Warning(nil), ws...)
}

func concat(a, b []Warning) []Warning {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]Warning, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
