package table

import (
	"testing"

	"niplang/internal/value"
)

func obj(chars string) *value.StringObject {
	return &value.StringObject{Chars: chars, Hash: value.HashString(chars)}
}

func TestSetAndGet(t *testing.T) {
	var tab Table
	key := obj("name")
	if !tab.Set(key, value.Number(42)) {
		t.Fatalf("Set on a new key should report isNewKey = true")
	}
	got, ok := tab.Get(key)
	if !ok || got.AsNumber() != 42 {
		t.Fatalf("Get = (%v, %v), want (42, true)", got, ok)
	}
}

func TestSetOverwriteReportsExistingKey(t *testing.T) {
	var tab Table
	key := obj("name")
	tab.Set(key, value.Number(1))
	if tab.Set(key, value.Number(2)) {
		t.Fatalf("Set on an existing key should report isNewKey = false")
	}
	got, _ := tab.Get(key)
	if got.AsNumber() != 2 {
		t.Fatalf("Get = %v, want 2", got)
	}
}

func TestDeleteTombstonesAndGetFails(t *testing.T) {
	var tab Table
	key := obj("name")
	tab.Set(key, value.Bool(true))
	if !tab.Delete(key) {
		t.Fatalf("Delete should report the key was present")
	}
	if _, ok := tab.Get(key); ok {
		t.Fatalf("Get should fail after Delete")
	}
}

// TestTombstoneDoesNotBreakProbing ensures deleting an entry doesn't hide a
// later entry that collided with it and probed past it.
func TestTombstoneDoesNotBreakProbing(t *testing.T) {
	var tab Table
	// Force a deterministic collision by giving both keys the same hash, so
	// b lands in the slot after a and Get(b) must probe past a's tombstone.
	a := &value.StringObject{Chars: "a", Hash: 1}
	b := &value.StringObject{Chars: "b", Hash: 1}
	tab.Set(a, value.Number(1))
	tab.Set(b, value.Number(2))
	tab.Delete(a)
	got, ok := tab.Get(b)
	if !ok || got.AsNumber() != 2 {
		t.Fatalf("Get(b) = (%v, %v), want (2, true) after deleting a sibling entry", got, ok)
	}
}

func TestFindStringInterningLookup(t *testing.T) {
	var tab Table
	key := obj("hello")
	tab.Set(key, value.Nil)

	found := tab.FindString("hello", value.HashString("hello"))
	if found != key {
		t.Fatalf("FindString returned a different object than the one stored")
	}

	if tab.FindString("goodbye", value.HashString("goodbye")) != nil {
		t.Fatalf("FindString should return nil for a string never interned")
	}
}

func TestGrowPreservesEntries(t *testing.T) {
	var tab Table
	keys := make([]*value.StringObject, 0, 50)
	for i := 0; i < 50; i++ {
		k := obj(string(rune('a' + i%26)) + string(rune('0'+i/26)))
		keys = append(keys, k)
		tab.Set(k, value.Number(float64(i)))
	}
	for i, k := range keys {
		got, ok := tab.Get(k)
		if !ok || got.AsNumber() != float64(i) {
			t.Fatalf("Get(%q) = (%v, %v), want (%d, true)", k.Chars, got, ok, i)
		}
	}
}

func TestCountTracksTombstonesAndEntries(t *testing.T) {
	var tab Table
	a, b := obj("a"), obj("b")
	tab.Set(a, value.Nil)
	tab.Set(b, value.Nil)
	tab.Delete(a)
	if tab.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 (one live entry, one tombstone)", tab.Count())
	}
}
