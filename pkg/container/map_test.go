package container

import "testing"

func TestOrderedMapGetOrCreateIdempotent(t *testing.T) {
	m := NewOrderedMap[int]()
	p1, isNew1 := m.GetOrCreate("a")
	if !isNew1 {
		t.Fatal("first GetOrCreate(a) should report isNew=true")
	}
	*p1 = 42

	p2, isNew2 := m.GetOrCreate("a")
	if isNew2 {
		t.Fatal("second GetOrCreate(a) should report isNew=false")
	}
	if p1 != p2 {
		t.Fatal("GetOrCreate(a) should return the same pointer both times")
	}
	if *p2 != 42 {
		t.Errorf("*p2 = %d, want 42", *p2)
	}
}

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	keys := []string{"zebra", "apple", "mango", "banana"}
	for i, k := range keys {
		p, _ := m.GetOrCreate(k)
		*p = i
	}
	for i, want := range keys {
		k, p := m.GetByIndex(i)
		if k != want {
			t.Errorf("GetByIndex(%d) key = %q, want %q", i, k, want)
		}
		if *p != i {
			t.Errorf("GetByIndex(%d) value = %d, want %d", i, *p, i)
		}
	}
}

func TestOrderedMapGet(t *testing.T) {
	m := NewOrderedMap[string]()
	if m.Get("missing") != nil {
		t.Fatal("Get on empty map should return nil")
	}
	p, _ := m.GetOrCreate("k")
	*p = "v"
	if got := m.Get("k"); got == nil || *got != "v" {
		t.Errorf("Get(k) = %v, want v", got)
	}
}

func TestOrderedMapClear(t *testing.T) {
	m := NewOrderedMap[int]()
	for _, k := range []string{"a", "b", "c"} {
		m.GetOrCreate(k)
	}
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", m.Len())
	}
	if m.Get("a") != nil {
		t.Error("Get(a) after Clear should be nil")
	}
	p, isNew := m.GetOrCreate("a")
	if !isNew {
		t.Error("GetOrCreate(a) after Clear should report isNew=true")
	}
	*p = 7
	if got := m.Get("a"); got == nil || *got != 7 {
		t.Errorf("Get(a) after re-insert = %v, want 7", got)
	}
}

func TestOrderedMapZeroValueUsable(t *testing.T) {
	// An OrderedMap embedded by value (as pkg/value/generic.Node and
	// pkg/specific.Instance do for Map-kind nodes) is never passed
	// through NewOrderedMap; GetOrCreate must self-initialize.
	var m OrderedMap[int]
	p, isNew := m.GetOrCreate("a")
	if !isNew {
		t.Fatal("GetOrCreate on a zero-value OrderedMap should report isNew=true")
	}
	*p = 1
	if got := m.Get("a"); got == nil || *got != 1 {
		t.Errorf("Get(a) = %v, want 1", got)
	}
}

func TestOrderedMapKeyIsolatedFromCallerBuffer(t *testing.T) {
	key := []byte("mutable")
	m := NewOrderedMap[int]()
	m.GetOrCreate(string(key))
	key[0] = 'X'
	if m.Get("mutable") == nil {
		t.Error("map entry should survive mutation of caller's original key buffer")
	}
}
