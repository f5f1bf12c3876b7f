// Package intern owns the two concerns that must be shared between
// compile-time literal interning and runtime string creation: the object
// list used to free every heap object at VM teardown, and the set of
// interned strings that makes string equality a pointer comparison. Both
// the compiler (interning string and identifier literals as it parses) and
// the VM (interning the result of "+" on two strings) need the same
// Interner instance, which is why this lives below both of them in the
// dependency graph instead of inside either package.
package intern

import (
	"niplang/internal/table"
	"niplang/internal/value"
)

// Interner holds the VM's object list and string-interning set. One
// Interner is created per VM and lives for the VM's whole lifetime; it
// outlives any individual compiled Chunk.
type Interner struct {
	objects value.List
	strings table.Table
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{}
}

// String returns the canonical *StringObject for s, allocating and
// registering a new one only if an equal string hasn't been interned yet.
// This is the single chokepoint that makes the "at most one String object
// per distinct byte sequence" invariant hold.
func (in *Interner) String(s string) *value.StringObject {
	hash := value.HashString(s)
	if existing := in.strings.FindString(s, hash); existing != nil {
		return existing
	}
	obj := &value.StringObject{Chars: s, Hash: hash}
	in.objects.Track(obj)
	in.strings.Set(obj, value.Nil)
	return obj
}

// Objects exposes the tracked heap-object list, for VM teardown.
func (in *Interner) Objects() *value.List { return &in.objects }

// Len reports how many distinct strings have been interned; used by tests
// asserting the interning invariant.
func (in *Interner) Len() int { return in.objects.Len() }
