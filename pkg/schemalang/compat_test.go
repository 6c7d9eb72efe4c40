package schemalang

import "testing"

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, errs := ParseFile("t.sval", src)
	if len(errs) != 0 {
		t.Fatalf("parse errs: %v", errs)
	}
	return f
}

func TestCheckCompatibilityIdenticalIsClean(t *testing.T) {
	src := `record r { a: int32; b: string; }`
	old := mustParse(t, src)
	new := mustParse(t, src)
	report := CheckCompatibility(old, new)
	if !report.Compatible() {
		t.Fatalf("issues = %v, want none", report.Issues)
	}
}

func TestCheckCompatibilityWideningPromotionIsClean(t *testing.T) {
	old := mustParse(t, `record r { a: int32; }`)
	new := mustParse(t, `record r { a: int64; }`)
	report := CheckCompatibility(old, new)
	if !report.Compatible() {
		t.Fatalf("issues = %v, want widening int32->int64 to be clean", report.Issues)
	}
}

func TestCheckCompatibilityNarrowingIsBreaking(t *testing.T) {
	old := mustParse(t, `record r { a: int64; }`)
	new := mustParse(t, `record r { a: int32; }`)
	report := CheckCompatibility(old, new)
	if report.Compatible() {
		t.Fatalf("expected narrowing int64->int32 to be flagged")
	}
}

func TestCheckCompatibilityRemovedEnumSymbolIsBreaking(t *testing.T) {
	old := mustParse(t, `enum color { RED, GREEN, BLUE }`)
	new := mustParse(t, `enum color { RED, GREEN }`)
	report := CheckCompatibility(old, new)
	if report.Compatible() {
		t.Fatalf("expected removed enum symbol BLUE to be flagged")
	}
}

func TestCheckCompatibilityAddedFieldWithoutDefaultIsBreaking(t *testing.T) {
	old := mustParse(t, `record r { a: int32; }`)
	new := mustParse(t, `record r { a: int32; b: string; }`)
	report := CheckCompatibility(old, new)
	if report.Compatible() {
		t.Fatalf("expected added field b to be flagged")
	}
}

func TestCheckCompatibilityRemovedFieldIsNotBreaking(t *testing.T) {
	old := mustParse(t, `record r { a: int32; b: string; }`)
	new := mustParse(t, `record r { a: int32; }`)
	report := CheckCompatibility(old, new)
	if !report.Compatible() {
		t.Fatalf("issues = %v, want removed field b to be harmless for decode", report.Issues)
	}
}

func TestCheckCompatibilityFixedSizeChangeIsBreaking(t *testing.T) {
	old := mustParse(t, `fixed md5(16)`)
	new := mustParse(t, `fixed md5(20)`)
	report := CheckCompatibility(old, new)
	if report.Compatible() {
		t.Fatalf("expected fixed size change to be flagged")
	}
}
