package schema

import "fmt"

// InvalidError reports a structural violation of the schema
// invariants: an unresolved link, a duplicate record field name, a
// duplicate enum symbol, indistinguishable union branches, or a
// non-positive fixed size. It is the schema package's rendition of the
// core error taxonomy's SchemaInvalid kind.
type InvalidError struct {
	Path    string // dotted path to the offending node, e.g. "Person.children"
	Message string
}

func (e *InvalidError) Error() string {
	if e.Path == "" {
		return "sval: schema invalid: " + e.Message
	}
	return fmt.Sprintf("sval: schema invalid at %s: %s", e.Path, e.Message)
}

// Is reports whether target is any *InvalidError, so callers can use
// errors.Is(err, schema.ErrInvalid) without matching the message.
func (e *InvalidError) Is(target error) bool {
	_, ok := target.(*InvalidError)
	return ok
}

// ErrInvalid is a sentinel matched by InvalidError.Is for errors.Is checks.
var ErrInvalid = &InvalidError{Message: "schema invalid"}
