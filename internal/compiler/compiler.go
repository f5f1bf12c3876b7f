// Package compiler implements the single-pass compiler: a Pratt parser
// that emits bytecode directly as it recognizes grammar productions, with
// no intermediate syntax tree. Parsing and code generation are fused into
// one recursive-descent-plus-precedence-climbing pass over the token
// stream, covering the full grammar: globals, locals with scope
// resolution, control flow, and jump back-patching.
package compiler

import (
	"encoding/binary"
	"io"
	"strconv"

	"niplang/internal/chunk"
	"niplang/internal/intern"
	"niplang/internal/lexer"
	"niplang/internal/token"
	"niplang/internal/value"
)

// DefaultMaxLocals is the per-compile-unit cap on local variables that
// Compile uses (CompileWithLimits takes a cap of its own): the 257th
// declared local is a compile error.
const DefaultMaxLocals = 256

// local tracks one declared local variable's name and the lexical scope
// depth it was declared at. depth == -1 marks "declared but its
// initializer hasn't run yet" — reading such a local is the compile error
// "Can't read local variable in its own initializer".
type local struct {
	name  token.Token
	depth int
}

// Compiler is the single long-lived compilation context: scanner state
// (via lex), one token of lookahead, the chunk being built, and local
// variable bookkeeping.
type Compiler struct {
	lex      *lexer.Lexer
	interner *intern.Interner
	chunk    *chunk.Chunk
	out      io.Writer

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool

	locals     []local
	scopeDepth int
	maxLocals  int
}

// Compile lexes and compiles source into a Chunk in one pass, using
// DefaultMaxLocals as the local-variable cap. It always returns a chunk
// (even one compiled under errors, so debug tooling can still inspect it)
// and a boolean reporting whether compilation succeeded; the VM must not
// execute a chunk compiled with ok == false. Diagnostics are written to out
// in the "[line L] Error <where>: <message>" wire format.
func Compile(source string, interner *intern.Interner, out io.Writer) (*chunk.Chunk, bool) {
	return CompileWithLimits(source, interner, out, DefaultMaxLocals, chunk.MaxConstants)
}

// CompileWithLimits is Compile with overridable local-variable and
// constant-pool caps, for developer tooling that wants to provoke the
// limit errors at smaller sizes. Both caps are clamped to 256, the most an
// 8-bit slot or constant operand can address.
func CompileWithLimits(source string, interner *intern.Interner, out io.Writer, maxLocals, maxConstants int) (*chunk.Chunk, bool) {
	if maxLocals > DefaultMaxLocals {
		maxLocals = DefaultMaxLocals
	}
	c := &Compiler{
		lex:       lexer.New(source),
		interner:  interner,
		chunk:     chunk.NewWithMaxConstants(maxConstants),
		out:       out,
		maxLocals: maxLocals,
	}

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.endCompiler()

	return c.chunk, !c.hadError
}

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lex.Next()
		if c.current.Kind != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme())
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op chunk.Opcode) {
	c.chunk.WriteOp(op, c.previous.Line)
}

func (c *Compiler) emitOpByte(op chunk.Opcode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

// emitJump emits a jump opcode with a two-byte 0xFFFF placeholder operand
// and returns the offset of the first placeholder byte, for a later
// patchJump call.
func (c *Compiler) emitJump(op chunk.Opcode) int {
	c.emitOp(op)
	c.emitByte(0xFF)
	c.emitByte(0xFF)
	return c.chunk.Len() - 2
}

// patchJump overwrites the placeholder operand at offset with the actual
// distance from just after the operand to the chunk's current end.
func (c *Compiler) patchJump(offset int) {
	jump := c.chunk.Len() - offset - 2
	if jump > 0xFFFF {
		c.error("Too much code to jump over")
		return
	}
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(jump))
	c.chunk.Code[offset] = buf[0]
	c.chunk.Code[offset+1] = buf[1]
}

// emitLoop emits OP_LOOP with a backward offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)

	offset := c.chunk.Len() - loopStart + 2
	if offset > 0xFFFF {
		c.error("Loop body too large")
		return
	}
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(offset))
	c.emitByte(buf[0])
	c.emitByte(buf[1])
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(chunk.OpConstant, c.makeConstant(v))
}

func (c *Compiler) endCompiler() {
	c.emitOp(chunk.OpReturn)
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope pops every local declared at the scope being exited, emitting
// one OP_POP per dropped local.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitOp(chunk.OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// --- expression parsing -----------------------------------------------

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target")
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) number(canAssign bool) {
	n, _ := strconv.ParseFloat(c.previous.Lexeme(), 64)
	c.emitConstant(value.Number(n))
}

func (c *Compiler) stringLiteral(canAssign bool) {
	lexeme := c.previous.Lexeme()
	chars := lexeme[1 : len(lexeme)-1] // strip the surrounding quotes
	obj := c.interner.String(chars)
	c.emitConstant(value.FromObj(obj))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Kind {
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	operator := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch operator {
	case token.Bang:
		c.emitOp(chunk.OpNot)
	case token.Minus:
		c.emitOp(chunk.OpNegate)
	}
}

func (c *Compiler) binary(canAssign bool) {
	operator := c.previous.Kind
	rule := getRule(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case token.BangEqual:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.LessEqual:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSubtract)
	case token.Star:
		c.emitOp(chunk.OpMultiply)
	case token.Slash:
		c.emitOp(chunk.OpDivide)
	}
}

// and_ compiles the short-circuiting "and" operator: if the left operand is
// falsey we jump over the right operand entirely, leaving the left
// operand's value as the expression's result.
func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or_ compiles the short-circuiting "or" operator: if the left operand is
// truthy we jump straight to the end, skipping the right operand.
func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)

	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.Opcode
	arg := c.resolveLocal(name)
	if arg != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}

// resolveLocal searches locals from the most recently declared backwards,
// so shadowing in nested scopes resolves to the innermost declaration. It
// returns -1 if name isn't a local (the caller then treats it as global).
func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name.Lexeme() == name.Lexeme() {
			if c.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) identifierConstant(name token.Token) byte {
	obj := c.interner.String(name.Lexeme())
	return c.makeConstant(value.FromObj(obj))
}
