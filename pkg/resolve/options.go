package resolve

// DefaultMaxDepth is the default schema-nesting bound the compiler
// enforces.
const DefaultMaxDepth = 64

// Options configures a single Build call.
type Options struct {
	// LenientEnums, when true, maps a writer enum symbol with no match
	// on the reader to the reader's first declared symbol instead of
	// failing with Incompatible. Default false: strict matching unless
	// leniency is explicitly requested.
	LenientEnums bool

	// MaxDepth bounds schema nesting during compilation. Zero selects
	// DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
