package wire

import "errors"

// Errors surfaced by the low-level codec. Higher layers (pkg/value,
// pkg/resolve) wrap these with schema/field context; see their own
// error types for the full taxonomy.
var (
	// ErrRecursionLimit indicates nested Enter/Exit pairs exceeded the
	// reader's configured maxDepth.
	ErrRecursionLimit = errors.New("sval: recursion limit exceeded")

	// ErrInvalidUTF8 indicates a decoded string was not valid UTF-8.
	ErrInvalidUTF8 = errors.New("sval: invalid UTF-8 string")
)
