package value

import (
	"errors"
	"fmt"
)

// Sentinel errors for the value interface's error taxonomy.
// These can be checked with errors.Is.
var (
	// ErrWrongType indicates a vtable operation is not supported by the
	// value's current kind.
	ErrWrongType = errors.New("sval: operation not supported by this kind")

	// ErrOutOfRange indicates an index/position argument was outside
	// the value's bounds (e.g. get_by_index on an empty record).
	ErrOutOfRange = errors.New("sval: index out of range")
)

// OpError carries schema/path context around a value-interface failure.
// Cause holds the sentinel kind; Error formats the human message,
// Unwrap and Is make it work with errors.Is.
type OpError struct {
	// Op names the vtable operation that failed, e.g. "get_fixed".
	Op string

	// Kind is the schema kind the value reported at failure time.
	Kind string

	// Path is a dotted path to the value, when known (e.g. "person.children[2]").
	Path string

	// Cause is the underlying sentinel error (ErrWrongType, ErrOutOfRange, ...).
	Cause error
}

func (e *OpError) Error() string {
	prefix := e.Op
	if e.Kind != "" {
		prefix = fmt.Sprintf("%s(%s)", e.Op, e.Kind)
	}
	if e.Path != "" {
		return fmt.Sprintf("sval: %s at %s: %v", prefix, e.Path, e.Cause)
	}
	return fmt.Sprintf("sval: %s: %v", prefix, e.Cause)
}

func (e *OpError) Unwrap() error { return e.Cause }

func (e *OpError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// wrongType builds an *OpError wrapping ErrWrongType for a vtable slot
// that is nil (unsupported) on the current kind.
func wrongType(op, kind string) error {
	return &OpError{Op: op, Kind: kind, Cause: ErrWrongType}
}
