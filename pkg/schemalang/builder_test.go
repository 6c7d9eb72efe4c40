package schemalang

import (
	"testing"

	"github.com/blockberries/sval/pkg/value/schema"
)

func TestBuildSimpleRecord(t *testing.T) {
	f, errs := ParseFile("t.sval", `
record person {
	name: string;
	age: int32;
}
`)
	if len(errs) != 0 {
		t.Fatalf("parse errs: %v", errs)
	}
	table, roots, err := Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(roots))
	}
	person := roots[0]
	if person.Kind() != schema.Record || person.Name() != "person" {
		t.Fatalf("person = %+v", person)
	}
	if person.FieldCount() != 2 {
		t.Fatalf("field count = %d, want 2", person.FieldCount())
	}
	if found, ok := table.Lookup("person"); !ok || found != person {
		t.Fatalf("table lookup mismatch")
	}
}

func TestBuildRecursiveRecordSelfLink(t *testing.T) {
	f, errs := ParseFile("t.sval", `
record node {
	value: int32;
	next: union { null, node };
}
`)
	if len(errs) != 0 {
		t.Fatalf("parse errs: %v", errs)
	}
	_, roots, err := Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node := roots[0]
	nextField, _, ok := node.FieldByName("next")
	if !ok {
		t.Fatalf("missing next field")
	}
	union := nextField.Schema
	recordBranch := union.Branch(1)
	if recordBranch.Resolve() != node {
		t.Fatalf("self-link did not resolve back to node, got %+v", recordBranch.Resolve())
	}
}

func TestBuildUndeclaredLinkIsError(t *testing.T) {
	f, errs := ParseFile("t.sval", `
record a {
	b: b;
}
`)
	if len(errs) != 0 {
		t.Fatalf("parse errs: %v", errs)
	}
	if _, _, err := Build(f); err == nil {
		t.Fatalf("expected error for undeclared type b")
	}
}

func TestBuildEnumAndFixed(t *testing.T) {
	f, errs := ParseFile("t.sval", `
enum color { RED, GREEN, BLUE }
fixed md5(16)
record tagged {
	c: color;
	h: md5;
}
`)
	if len(errs) != 0 {
		t.Fatalf("parse errs: %v", errs)
	}
	_, roots, err := Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var tagged *schema.Schema
	for _, r := range roots {
		if r.Name() == "tagged" {
			tagged = r
		}
	}
	if tagged == nil {
		t.Fatalf("tagged record not found")
	}
	cField, _, _ := tagged.FieldByName("c")
	if cField.Schema.Resolve().Kind() != schema.Enum {
		t.Fatalf("c field kind = %v, want enum", cField.Schema.Resolve().Kind())
	}
	hField, _, _ := tagged.FieldByName("h")
	if hField.Schema.Resolve().Kind() != schema.Fixed || hField.Schema.Resolve().FixedSize() != 16 {
		t.Fatalf("h field = %+v", hField.Schema.Resolve())
	}
}
