package interp

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, source string) (stdout, stderr string, result Result) {
	t.Helper()
	var out, errOut bytes.Buffer
	ip := New(&out, &errOut)
	defer ip.Close()
	result = ip.Interpret(source)
	return out.String(), errOut.String(), result
}

func TestArithmeticAndPrecedence(t *testing.T) {
	out, _, result := run(t, "print 1 + 2 * 3;")
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("stdout = %q, want %q", out, "7")
	}
}

func TestStringConcatenation(t *testing.T) {
	out, _, result := run(t, `var a = "hi"; var b = "!"; print a + b;`)
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out) != "hi!" {
		t.Fatalf("stdout = %q, want %q", out, "hi!")
	}
}

func TestForLoopAccumulates(t *testing.T) {
	out, _, result := run(t, "var x = 0; for (var i = 1; i <= 3; i = i + 1) x = x + i; print x;")
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out) != "6" {
		t.Fatalf("stdout = %q, want %q", out, "6")
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	out, _, result := run(t, `if (true and false) print "a"; else print "b";`)
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out) != "b" {
		t.Fatalf("stdout = %q, want %q", out, "b")
	}
}

func TestRuntimeErrorOnBadNegate(t *testing.T) {
	_, errOut, result := run(t, "print -true;")
	if result != ResultRuntimeError {
		t.Fatalf("result = %v, want ResultRuntimeError", result)
	}
	if !strings.Contains(errOut, "Operand must be a number") {
		t.Fatalf("stderr = %q, want it to contain %q", errOut, "Operand must be a number")
	}
}

func TestRuntimeErrorOnUndefinedVariable(t *testing.T) {
	_, errOut, result := run(t, "print y;")
	if result != ResultRuntimeError {
		t.Fatalf("result = %v, want ResultRuntimeError", result)
	}
	if !strings.Contains(errOut, "Undefined variable 'y'") {
		t.Fatalf("stderr = %q, want it to contain %q", errOut, "Undefined variable 'y'")
	}
}

func TestCompileErrorReporting(t *testing.T) {
	_, errOut, result := run(t, "print 1 +;")
	if result != ResultCompileError {
		t.Fatalf("result = %v, want ResultCompileError", result)
	}
	if !strings.Contains(errOut, "[line 1] Error") {
		t.Fatalf("stderr = %q, want it to contain %q", errOut, "[line 1] Error")
	}
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	var out, errOut bytes.Buffer
	ip := New(&out, &errOut)
	defer ip.Close()

	if result := ip.Interpret("var count = 1;"); result != ResultOK {
		t.Fatalf("first Interpret result = %v, want ResultOK", result)
	}
	if result := ip.Interpret("count = count + 1; print count;"); result != ResultOK {
		t.Fatalf("second Interpret result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Fatalf("stdout = %q, want %q", out.String(), "2")
	}
}

func TestWhileLoop(t *testing.T) {
	out, _, result := run(t, "var i = 0; var sum = 0; while (i < 5) { sum = sum + i; i = i + 1; } print sum;")
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if strings.TrimSpace(out) != "10" {
		t.Fatalf("stdout = %q, want %q", out, "10")
	}
}

func TestBlockScopingShadowsOuterGlobal(t *testing.T) {
	out, _, result := run(t, "var a = 1; { var a = 2; print a; } print a;")
	if result != ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "2" || lines[1] != "1" {
		t.Fatalf("stdout = %q, want [2 1]", out)
	}
}
