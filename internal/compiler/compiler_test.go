package compiler

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"niplang/internal/chunk"
	"niplang/internal/intern"
)

func compileOK(t *testing.T, source string) *chunk.Chunk {
	t.Helper()
	var errOut bytes.Buffer
	c, ok := Compile(source, intern.New(), &errOut)
	if !ok {
		t.Fatalf("Compile(%q) failed: %s", source, errOut.String())
	}
	return c
}

func TestCompileEmitsReturn(t *testing.T) {
	c := compileOK(t, "")
	if len(c.Code) == 0 || chunk.Opcode(c.Code[len(c.Code)-1]) != chunk.OpReturn {
		t.Fatalf("expected trailing OP_RETURN, got %v", c.Code)
	}
}

func TestPrecedenceClimbing(t *testing.T) {
	c := compileOK(t, "print 1 + 2 * 3;")
	ops := opcodes(c)
	want := []chunk.Opcode{chunk.OpConstant, chunk.OpConstant, chunk.OpConstant, chunk.OpMultiply, chunk.OpAdd, chunk.OpPrint, chunk.OpReturn}
	assertOps(t, ops, want)
}

func TestComparisonDesugaring(t *testing.T) {
	tests := []struct {
		source string
		want   []chunk.Opcode
	}{
		{"1 != 2;", []chunk.Opcode{chunk.OpConstant, chunk.OpConstant, chunk.OpEqual, chunk.OpNot, chunk.OpPop, chunk.OpReturn}},
		{"1 >= 2;", []chunk.Opcode{chunk.OpConstant, chunk.OpConstant, chunk.OpLess, chunk.OpNot, chunk.OpPop, chunk.OpReturn}},
		{"1 <= 2;", []chunk.Opcode{chunk.OpConstant, chunk.OpConstant, chunk.OpGreater, chunk.OpNot, chunk.OpPop, chunk.OpReturn}},
	}
	for _, tt := range tests {
		c := compileOK(t, tt.source)
		assertOps(t, opcodes(c), tt.want)
	}
}

func TestUndefinedLocalReadErrors(t *testing.T) {
	var errOut bytes.Buffer
	_, ok := Compile("{ var a = a; }", intern.New(), &errOut)
	if ok {
		t.Fatalf("expected compile failure for self-referencing initializer")
	}
	if !strings.Contains(errOut.String(), "own initializer") {
		t.Fatalf("stderr = %q, want it to mention the initializer restriction", errOut.String())
	}
}

func TestDuplicateLocalInSameScopeErrors(t *testing.T) {
	var errOut bytes.Buffer
	_, ok := Compile("{ var a = 1; var a = 2; }", intern.New(), &errOut)
	if ok {
		t.Fatalf("expected compile failure for duplicate local declaration")
	}
	if !strings.Contains(errOut.String(), "Already variable") {
		t.Fatalf("stderr = %q, want it to mention the duplicate declaration", errOut.String())
	}
}

func TestTooManyLocalsErrors(t *testing.T) {
	var b strings.Builder
	b.WriteString("{ ")
	for i := 0; i < DefaultMaxLocals+1; i++ {
		fmt.Fprintf(&b, "var v%d = 0; ", i)
	}
	b.WriteString("}")

	var errOut bytes.Buffer
	_, ok := Compile(b.String(), intern.New(), &errOut)
	if ok {
		t.Fatalf("expected compile failure past the local-variable cap")
	}
	if !strings.Contains(errOut.String(), "Too many local variables") {
		t.Fatalf("stderr = %q, want it to mention the local-variable cap", errOut.String())
	}
}

func TestErrorWireFormat(t *testing.T) {
	var errOut bytes.Buffer
	_, ok := Compile("print 1 +;", intern.New(), &errOut)
	if ok {
		t.Fatalf("expected compile failure")
	}
	if !strings.HasPrefix(errOut.String(), "[line 1] Error at ';'") {
		t.Fatalf("stderr = %q, want it to start with the wire-format prefix", errOut.String())
	}
}

func opcodes(c *chunk.Chunk) []chunk.Opcode {
	var ops []chunk.Opcode
	offset := 0
	for offset < len(c.Code) {
		op := chunk.Opcode(c.Code[offset])
		ops = append(ops, op)
		switch op {
		case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal, chunk.OpGetLocal, chunk.OpSetLocal:
			offset += 2
		case chunk.OpJump, chunk.OpJumpIfFalse, chunk.OpLoop:
			offset += 3
		default:
			offset++
		}
	}
	return ops
}

func assertOps(t *testing.T, got, want []chunk.Opcode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("opcodes = %v, want %v", got, want)
		}
	}
}
