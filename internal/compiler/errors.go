package compiler

import (
	"fmt"

	"niplang/internal/token"
)

// errorAt reports a compile diagnostic in the wire format
// "[line L] Error <where>: <message>". Subsequent diagnostics are
// suppressed while panicMode is set, until synchronize clears it — the
// parser keeps parsing (for its own internal bookkeeping and so the caller
// still gets a disassemblable chunk) but stops reporting cascading errors.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	where := ""
	switch tok.Kind {
	case token.EOF:
		where = " at end"
	case token.Error:
		message = tok.Lexeme()
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme())
	}

	fmt.Fprintf(c.out, "[line %d] Error%s: %s\n", tok.Line, where, message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}
