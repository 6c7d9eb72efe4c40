package schema

import "fmt"

// Build validates root's structural invariants and
// resolves every Link reachable from it against table, mutating each
// link's target in place. It is the only place link resolution happens
// — before Build, LinkTarget returns nil on every link in the tree.
//
// table must already contain every named type (record/enum/fixed) a
// link in the tree might reference; Build does not auto-register types
// it discovers.
func Build(root *Schema, table *NamedTypeTable) error {
	v := &validator{table: table, visited: make(map[*Schema]bool)}
	if err := v.walk(root, root.Name()); err != nil {
		return err
	}
	// Also validate every named type registered in the table, even if
	// unreachable from root, so a malformed definition doesn't silently
	// pass just because nothing currently links to it.
	for _, name := range table.Names() {
		s, _ := table.Lookup(name)
		if err := v.walk(s, name); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	table   *NamedTypeTable
	visited map[*Schema]bool
}

func (v *validator) walk(s *Schema, path string) error {
	if s == nil {
		return &InvalidError{Path: path, Message: "nil schema"}
	}
	if v.visited[s] {
		return nil
	}
	v.visited[s] = true

	switch s.kind {
	case Null, Boolean, Int32, Int64, Float, Double, Bytes, String:
		return nil

	case Fixed:
		if s.fixedSize <= 0 {
			return &InvalidError{Path: path, Message: "fixed size must be positive"}
		}
		return nil

	case Enum:
		if len(s.symbols) == 0 {
			return &InvalidError{Path: path, Message: "enum must declare at least one symbol"}
		}
		seen := make(map[string]bool, len(s.symbols))
		for _, sym := range s.symbols {
			if seen[sym] {
				return &InvalidError{Path: path, Message: fmt.Sprintf("duplicate enum symbol %q", sym)}
			}
			seen[sym] = true
		}
		return nil

	case Array:
		if s.elem == nil {
			return &InvalidError{Path: path, Message: "array must have an item schema"}
		}
		return v.walk(s.elem, path+"[]")

	case Map:
		if s.elem == nil {
			return &InvalidError{Path: path, Message: "map must have a value schema"}
		}
		return v.walk(s.elem, path+"{}")

	case Record:
		seen := make(map[string]bool, len(s.fields))
		for _, f := range s.fields {
			if seen[f.Name] {
				return &InvalidError{Path: path, Message: fmt.Sprintf("duplicate field name %q", f.Name)}
			}
			seen[f.Name] = true
			if err := v.walk(f.Schema, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil

	case Union:
		// Walk branches first so any link branches have their targets
		// resolved before the distinguishability check inspects them.
		for i, b := range s.branches {
			if err := v.walk(b, fmt.Sprintf("%s<%d>", path, i)); err != nil {
				return err
			}
		}
		return v.validateUnionBranches(s, path)

	case Link:
		target, ok := v.table.Lookup(s.linkName)
		if !ok {
			return &InvalidError{Path: path, Message: fmt.Sprintf("unresolved link %q", s.linkName)}
		}
		if !target.Kind().IsNamed() {
			return &InvalidError{Path: path, Message: fmt.Sprintf("link %q does not target a named kind", s.linkName)}
		}
		s.target = target
		// The target itself is validated either via its own reachability
		// from root or via the table sweep in Build; don't re-walk here
		// to avoid double-reporting errors through every link site.
		return nil

	default:
		return &InvalidError{Path: path, Message: "unknown schema kind"}
	}
}

// validateUnionBranches checks that branches are pairwise distinguishable
// by kind, except that named kinds (record/enum/fixed, reached directly
// or via link) are further distinguished by name.
func (v *validator) validateUnionBranches(s *Schema, path string) error {
	if len(s.branches) == 0 {
		return &InvalidError{Path: path, Message: "union must have at least one branch"}
	}
	type signature struct {
		kind Kind
		name string
	}
	seen := make(map[signature]bool, len(s.branches))
	for _, b := range s.branches {
		k := b.Kind()
		name := ""
		if k == Link {
			// A link's distinguishing signature is its target name once
			// resolvable; fall back to the link name itself, since two
			// links to the same name are indistinguishable regardless.
			name = b.linkName
			k = Record // links only target named kinds; the exact named
			// kind (record/enum/fixed) is folded in below once resolved.
			if b.target != nil {
				k = b.target.Kind()
			}
		} else if k.IsNamed() {
			name = b.Name()
		}
		sig := signature{kind: k, name: name}
		if seen[sig] {
			return &InvalidError{Path: path, Message: fmt.Sprintf("union branches not pairwise distinguishable: duplicate kind %q (name %q)", sig.kind, sig.name)}
		}
		seen[sig] = true
	}
	return nil
}
