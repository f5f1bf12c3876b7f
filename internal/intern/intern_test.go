package intern

import "testing"

func TestStringReturnsCanonicalObject(t *testing.T) {
	in := New()
	a := in.String("hello")
	b := in.String("hello")
	if a != b {
		t.Fatalf("interning the same content twice produced distinct objects")
	}
	if in.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", in.Len())
	}
}

func TestStringDistinguishesContent(t *testing.T) {
	in := New()
	a := in.String("hello")
	b := in.String("world")
	if a == b {
		t.Fatalf("distinct content interned to the same object")
	}
	if in.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", in.Len())
	}
}
