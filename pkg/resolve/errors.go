package resolve

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resolver's error taxonomy. Check
// with errors.Is against a returned *BuildError or *DecodeError.
var (
	// ErrIncompatible indicates the writer schema cannot be resolved
	// against the target: no primitive pairing, mismatched fixed size,
	// mismatched enum symbol, or every union branch failed to resolve.
	ErrIncompatible = errors.New("sval: writer schema incompatible with target")

	// ErrMissingDefault indicates a reader-only record field has no
	// declared default to materialize.
	ErrMissingDefault = errors.New("sval: reader field has no writer value or default")

	// ErrIncompatibleBranch indicates a writer-union discriminant
	// selected a branch that failed to resolve against the target at
	// build time.
	ErrIncompatibleBranch = errors.New("sval: writer-union branch incompatible with target")

	// ErrRecursionLimit indicates schema nesting exceeded the resolver's
	// depth bound during compilation.
	ErrRecursionLimit = errors.New("sval: schema nesting exceeds recursion limit")

	// ErrIoError wraps a failure from the underlying binary reader/writer.
	ErrIoError = errors.New("sval: io error")
)

// BuildError carries schema-position context around a resolver
// compilation failure: a sentinel Cause plus a human path, formatted by
// Error, unwrapped by Unwrap, matched by Is.
type BuildError struct {
	// Path is a dotted schema path, e.g. "person.children[].next".
	Path string

	Cause error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sval: resolve: %v", e.Cause)
	}
	return fmt.Sprintf("sval: resolve at %s: %v", e.Path, e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }

func (e *BuildError) Is(target error) bool { return errors.Is(e.Cause, target) }

// DecodeError carries schema/byte-offset context around a decode-time
// failure (as opposed to a build-time *BuildError).
type DecodeError struct {
	Path   string
	Offset int
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sval: decode at offset %d: %v", e.Offset, e.Cause)
	}
	return fmt.Sprintf("sval: decode at %s (offset %d): %v", e.Path, e.Offset, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func (e *DecodeError) Is(target error) bool { return errors.Is(e.Cause, target) }
