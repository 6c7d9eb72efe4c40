package schemalang

import "fmt"

// Issue is one breaking change detected between an old and new schema
// file.
type Issue struct {
	// TypeName is the named declaration the issue was found in.
	TypeName string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.TypeName, i.Message)
}

// CompatibilityReport is the result of CheckCompatibility: a list of
// breaking changes found when evolving old into new. An empty Issues
// slice means new can safely read data written with old.
type CompatibilityReport struct {
	Issues []Issue
}

// Compatible reports whether no breaking changes were found.
func (r *CompatibilityReport) Compatible() bool { return len(r.Issues) == 0 }

func (r *CompatibilityReport) add(typeName, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{TypeName: typeName, Message: fmt.Sprintf(format, args...)})
}

// CheckCompatibility is a best-effort, non-core pre-flight check: it
// walks old and new's named declarations and reports changes that would
// break a reader built against new decoding data written against old.
// It is independent of, and strictly more conservative than, the
// resolver compiler (pkg/resolve.Build) — the resolver remains the
// source of truth at decode-plan-build time; this exists so CI can flag
// schema evolution mistakes before a single byte is ever decoded.
func CheckCompatibility(old, new *File) *CompatibilityReport {
	report := &CompatibilityReport{}

	oldDecls := declsByName(old)
	newDecls := declsByName(new)

	for name, oldDecl := range oldDecls {
		newDecl, ok := newDecls[name]
		if !ok {
			report.add(name, "named type removed")
			continue
		}
		checkDeclPair(report, name, oldDecl, newDecl)
	}
	return report
}

func declsByName(f *File) map[string]Decl {
	m := make(map[string]Decl, len(f.Decls))
	for _, d := range f.Decls {
		m[d.DeclName()] = d
	}
	return m
}

func checkDeclPair(report *CompatibilityReport, name string, oldDecl, newDecl Decl) {
	switch o := oldDecl.(type) {
	case *RecordDecl:
		n, ok := newDecl.(*RecordDecl)
		if !ok {
			report.add(name, "changed from record to a different declaration kind")
			return
		}
		checkRecordPair(report, name, o, n)
	case *EnumDecl:
		n, ok := newDecl.(*EnumDecl)
		if !ok {
			report.add(name, "changed from enum to a different declaration kind")
			return
		}
		checkEnumPair(report, name, o, n)
	case *FixedDecl:
		n, ok := newDecl.(*FixedDecl)
		if !ok {
			report.add(name, "changed from fixed to a different declaration kind")
			return
		}
		if o.Size != n.Size {
			report.add(name, "fixed size changed from %d to %d", o.Size, n.Size)
		}
	}
}

func checkRecordPair(report *CompatibilityReport, name string, o, n *RecordDecl) {
	oldFields := make(map[string]*FieldDecl, len(o.Fields))
	for _, f := range o.Fields {
		oldFields[f.Name] = f
	}
	newFields := make(map[string]*FieldDecl, len(n.Fields))
	for _, f := range n.Fields {
		newFields[f.Name] = f
	}

	for fname, of := range oldFields {
		nf, ok := newFields[fname]
		if !ok {
			// A field removed from new is fine for decode: old data still
			// carries it, and the resolver's skip-consumer drops it on the
			// floor. Not a breaking change.
			continue
		}
		if !typeRefCompatible(of.Type, nf.Type) {
			report.add(name, "field %q type changed incompatibly", fname)
		}
	}
	for fname := range newFields {
		if _, ok := oldFields[fname]; !ok {
			// A field added in new with no corresponding writer value has
			// no default mechanism in this grammar: flag it.
			report.add(name, "field %q added with no default available from old data", fname)
		}
	}
}

func checkEnumPair(report *CompatibilityReport, name string, o, n *EnumDecl) {
	newSymbols := make(map[string]bool, len(n.Symbols))
	for _, s := range n.Symbols {
		newSymbols[s] = true
	}
	for _, s := range o.Symbols {
		if !newSymbols[s] {
			report.add(name, "enum symbol %q removed", s)
		}
	}
}

// typeRefCompatible reports whether a value written per old can be read
// per new, using the same numeric promotion rules as the resolver
// compiler rather than requiring an
// exact structural match.
func typeRefCompatible(old, new TypeRef) bool {
	switch o := old.(type) {
	case *PrimitiveRef:
		n, ok := new.(*PrimitiveRef)
		if !ok {
			return false
		}
		if o.Name == n.Name {
			return true
		}
		return numericPromotionAllowed(o.Name, n.Name)
	case *ArrayRef:
		n, ok := new.(*ArrayRef)
		return ok && typeRefCompatible(o.Item, n.Item)
	case *MapRef:
		n, ok := new.(*MapRef)
		return ok && typeRefCompatible(o.Value, n.Value)
	case *UnionRef:
		n, ok := new.(*UnionRef)
		if !ok {
			return false
		}
		// Every old branch must remain resolvable against some new
		// branch; new may add branches freely (a writer that never picks
		// them is harmless).
		for _, ob := range o.Branches {
			if !unionHasCompatibleBranch(ob, n.Branches) {
				return false
			}
		}
		return true
	case *LinkRef:
		n, ok := new.(*LinkRef)
		return ok && o.Name == n.Name
	default:
		return false
	}
}

func unionHasCompatibleBranch(ob TypeRef, branches []TypeRef) bool {
	for _, nb := range branches {
		if typeRefCompatible(ob, nb) {
			return true
		}
	}
	return false
}

// numericPromotionAllowed mirrors the pairings the resolver compiler
// accepts between a writer's and a reader's primitive: int32 to
// int64/float/double, int64 to float/double, float to double, and
// bytes/string interchangeably.
func numericPromotionAllowed(from, to string) bool {
	switch from {
	case "int32":
		return to == "int64" || to == "float" || to == "double"
	case "int64":
		return to == "float" || to == "double"
	case "float":
		return to == "double"
	case "bytes":
		return to == "string"
	case "string":
		return to == "bytes"
	default:
		return false
	}
}
