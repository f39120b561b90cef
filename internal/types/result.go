// Package types provides the shared data model and error-handling primitives for cpscan.
package types

import "fmt"

// Result carries either a value or an error.
// It is used at I/O boundaries (config loading, file access) where callers
// usually branch on success before touching the value.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Unwrap returns the value and panics on an Err result.
// Check IsOk first or use UnwrapOr.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("called Unwrap on an Err value: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the value, or fallback when the Result is an error.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Error returns the wrapped error, or nil.
func (r Result[T]) Error() error {
	return r.err
}

// Value converts back to the (value, error) convention.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// TryFrom converts a (value, error) pair into a Result.
func TryFrom[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// String implements fmt.Stringer.
func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Err(%v)", r.err)
	}
	return fmt.Sprintf("Ok(%v)", r.value)
}
