// Package table implements the open-addressed, linear-probing hash table
// used for both the VM's globals and its string-interning set. It is
// hand-rolled rather than built on a stdlib/ecosystem map because the
// tombstone discipline and key-pointer-identity comparisons are load-bearing
// for string interning correctness: interning depends on Get/Set/Delete
// walking probe sequences exactly the way FindString does.
package table

import "niplang/internal/value"

const maxLoad = 0.75

type entry struct {
	key   *value.StringObject
	val   value.Value
}

func (e entry) isEmpty() bool     { return e.key == nil && e.val.IsNil() }
func (e entry) isTombstone() bool { return e.key == nil && !e.val.IsNil() }

// Table is an open-addressed hash table keyed by interned *StringObject.
// Empty slots have a nil key and a Nil value; a deleted slot (tombstone)
// has a nil key and a Bool(true) value, so probing never stops early on a
// deletion.
type Table struct {
	count    int // occupied entries + tombstones
	entries  []entry
}

// Get looks up key and reports whether it is present.
func (t *Table) Get(key *value.StringObject) (value.Value, bool) {
	if t.count == 0 {
		return value.Nil, false
	}
	e := t.find(key)
	if e.key == nil {
		return value.Nil, false
	}
	return e.val, true
}

// Set inserts or overwrites key's value. It returns true if key was not
// already present (i.e. this call created a new entry, whether the slot it
// landed in was empty or a tombstone).
func (t *Table) Set(key *value.StringObject, val value.Value) bool {
	if float64(t.count+1) > float64(t.capacity())*maxLoad {
		t.grow(growCapacity(t.capacity()))
	}

	idx := t.findIndex(key)
	e := &t.entries[idx]

	isNewKey := e.key == nil
	if isNewKey && e.val.IsNil() {
		t.count++
	}

	e.key = key
	e.val = val
	return isNewKey
}

// Delete converts key's entry into a tombstone. Reports whether key was
// present.
func (t *Table) Delete(key *value.StringObject) bool {
	if t.count == 0 {
		return false
	}
	idx := t.findIndex(key)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.val = value.Bool(true)
	return true
}

// FindString is the interning-specific lookup: it compares candidate keys
// by length, cached hash, then byte content, so a new string literal can
// find its existing canonical StringObject before the VM allocates one.
func (t *Table) FindString(chars string, hash uint32) *value.StringObject {
	if t.count == 0 {
		return nil
	}
	capacity := t.capacity()
	idx := int(hash % uint32(capacity))
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if e.val.IsNil() {
				return nil
			}
		} else if len(e.key.Chars) == len(chars) && e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) % capacity
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}

func (t *Table) capacity() int { return len(t.entries) }

func (t *Table) findIndex(key *value.StringObject) int {
	capacity := t.capacity()
	idx := int(key.Hash % uint32(capacity))
	tombstone := -1
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if e.val.IsNil() {
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
			if tombstone == -1 {
				tombstone = idx
			}
		} else if e.key == key {
			return idx
		}
		idx = (idx + 1) % capacity
	}
}

func (t *Table) find(key *value.StringObject) entry {
	return t.entries[t.findIndex(key)]
}

// grow reallocates the entries array at the given capacity and rehashes
// every live (non-tombstone) entry into it, resetting count to the number
// of live entries actually rehashed.
func (t *Table) grow(capacity int) {
	fresh := make([]entry, capacity)

	newCount := 0
	for i := range t.entries {
		e := &t.entries[i]
		if e.key == nil {
			continue
		}
		idx := int(e.key.Hash % uint32(capacity))
		for fresh[idx].key != nil {
			idx = (idx + 1) % capacity
		}
		fresh[idx] = entry{key: e.key, val: e.val}
		newCount++
	}

	t.entries = fresh
	t.count = newCount
}

// Count reports the number of occupied-or-tombstone slots (not just live
// entries); exposed for tests asserting resize behavior.
func (t *Table) Count() int { return t.count }
