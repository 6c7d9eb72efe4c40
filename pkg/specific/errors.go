package specific

import "errors"

// ErrRecursionLimit indicates Compile's structural descent exceeded
// DefaultMaxDepth without closing through a named (record/enum/fixed)
// layout.
var ErrRecursionLimit = errors.New("sval: specific: schema nesting exceeds recursion limit")

// ErrSizeMismatch indicates SetFixed was called with a byte slice whose
// length doesn't match the layout's fixed size.
var ErrSizeMismatch = errors.New("sval: specific: fixed value has wrong size")
