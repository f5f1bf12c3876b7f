// Package value defines the VM's tagged Value union and its heap object
// model. Values are small, copyable, and live directly on the VM's value
// stack; heap objects (currently only interned strings) are referenced by
// pointer so that equal content implies identical identity.
package value

import (
	"fmt"
	"strconv"
)

// Type discriminates the four Value variants.
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObj
)

// Value is a tagged union over Nil, Bool, Number, and Obj. The zero Value is
// Nil.
type Value struct {
	typ    Type
	boolean bool
	number  float64
	obj     Obj
}

// Nil is the unit value.
var Nil = Value{typ: TypeNil}

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, boolean: b} }

// Number constructs a numeric (double) value.
func Number(n float64) Value { return Value{typ: TypeNumber, number: n} }

// FromObj constructs a value referencing a heap object.
func FromObj(o Obj) Value { return Value{typ: TypeObj, obj: o} }

func (v Value) IsNil() bool    { return v.typ == TypeNil }
func (v Value) IsBool() bool   { return v.typ == TypeBool }
func (v Value) IsNumber() bool { return v.typ == TypeNumber }
func (v Value) IsObj() bool    { return v.typ == TypeObj }

func (v Value) IsString() bool {
	if v.typ != TypeObj {
		return false
	}
	_, ok := v.obj.(*StringObject)
	return ok
}

// AsBool returns v's boolean payload without checking v's type (false for
// any non-Bool); callers must check IsBool first.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns v's numeric payload without checking v's type (0 for any
// non-Number); callers must check IsNumber first, as the VM's dispatch does.
func (v Value) AsNumber() float64 { return v.number }

// AsObj returns the underlying heap object.
func (v Value) AsObj() Obj { return v.obj }

// AsString returns the underlying *StringObject. Callers must check
// IsString first.
func (v Value) AsString() *StringObject { return v.obj.(*StringObject) }

// IsFalsey implements the language's truthiness rule: Nil and Bool(false)
// are falsey, everything else (including 0 and "") is truthy.
func (v Value) IsFalsey() bool {
	switch v.typ {
	case TypeNil:
		return true
	case TypeBool:
		return !v.boolean
	default:
		return false
	}
}

// Equal implements the VM's == operator: values of different types are
// never equal; same-type values compare by value, except Obj values which
// compare by pointer identity (sound because of string interning).
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNil:
		return true
	case TypeBool:
		return a.boolean == b.boolean
	case TypeNumber:
		return a.number == b.number
	case TypeObj:
		return a.obj == b.obj
	}
	return false
}

// Print renders v the way the language's `print` statement does: shortest
// round-trip decimal for numbers, "true"/"false" for bools, "nil" for Nil,
// and raw bytes for strings.
func Print(v Value) string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case TypeNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case TypeObj:
		return v.obj.String()
	}
	return fmt.Sprintf("<unknown value type %d>", v.typ)
}

// ObjType discriminates heap object variants. Only String exists in this
// core, but the tag and the Obj interface are designed for extension.
type ObjType int

const (
	ObjTypeString ObjType = iota
)

// Obj is the interface every heap-allocated object implements. Pointer
// identity of the concrete type (e.g. *StringObject) is the object's
// identity; the intrusive "next" link used to free every object at VM
// teardown lives on List, not on Obj itself, since Go doesn't need or want
// an embedded linked-list pointer for memory safety.
type Obj interface {
	Type() ObjType
	String() string
}

// StringObject is the sole heap object variant in this core: an interned,
// immutable byte sequence with a cached FNV-1a hash used by the hash table.
type StringObject struct {
	Chars string
	Hash  uint32
}

func (s *StringObject) Type() ObjType { return ObjTypeString }
func (s *StringObject) String() string { return s.Chars }

// HashString computes the FNV-1a hash used throughout this interpreter for
// both the globals table and the string-interning table.
func HashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// List is the intrusive object list the VM owns. Every heap object it
// allocates is registered here so that Free can release them all at once at
// VM teardown — the core never reclaims an object mid-run (no GC). In Go,
// "freeing" an object means dropping the interpreter's last reference to
// it; List.Free simply clears its backing slice so the Go garbage collector
// can reclaim everything that isn't reachable from outside the VM anymore.
type List struct {
	objects []Obj
}

// Track registers a newly allocated heap object for teardown and returns it
// unchanged, so callers can write `obj := list.Track(newThing())`.
func (l *List) Track(o Obj) Obj {
	l.objects = append(l.objects, o)
	return o
}

// Free releases every tracked object. Called exactly once, at VM teardown.
func (l *List) Free() {
	l.objects = nil
}

// Len reports how many heap objects are currently tracked; used by tests
// asserting that interning doesn't leak duplicate allocations.
func (l *List) Len() int {
	return len(l.objects)
}
