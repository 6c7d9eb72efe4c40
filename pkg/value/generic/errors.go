package generic

import "errors"

// ErrSizeMismatch indicates SetFixed was called with a byte slice whose
// length does not match the schema's declared fixed size.
var ErrSizeMismatch = errors.New("sval: fixed value size mismatch")
