package compiler

import "niplang/internal/token"

// Precedence levels for the expression grammar, lowest to highest:
// assignment, or, and, equality, comparison, term, factor, unary, and
// call/primary. PrecCall and PrecPrimary sit above PrecUnary; no rule in
// this grammar uses either, since it has no call expressions.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// ruleTable is the Pratt table: one row per token kind, giving its prefix
// handler (if it can start an expression), its infix handler (if it can
// continue one), and the infix precedence used to decide whether
// parsePrecedence keeps consuming. Token kinds with no row — class, fun,
// return, super, this, and every punctuation/keyword with no expression
// role — fall through to the zero parseRule (nil, nil, PrecNone), which is
// exactly what makes using one of them in expression position report
// "Expect expression".
var ruleTable = map[token.Kind]parseRule{
	token.LeftParen:    {prefix: (*Compiler).grouping, precedence: PrecNone},
	token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
	token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
	token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
	token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
	token.Bang:         {prefix: (*Compiler).unary, precedence: PrecNone},
	token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
	token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
	token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
	token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
	token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
	token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
	token.Identifier:   {prefix: (*Compiler).variable, precedence: PrecNone},
	token.String:       {prefix: (*Compiler).stringLiteral, precedence: PrecNone},
	token.Number:       {prefix: (*Compiler).number, precedence: PrecNone},
	token.And:          {infix: (*Compiler).and_, precedence: PrecAnd},
	token.Or:           {infix: (*Compiler).or_, precedence: PrecOr},
	token.False:        {prefix: (*Compiler).literal, precedence: PrecNone},
	token.True:         {prefix: (*Compiler).literal, precedence: PrecNone},
	token.Nil:          {prefix: (*Compiler).literal, precedence: PrecNone},
}

// rules is what getRule reads. It is assigned from ruleTable in init because
// the table's handlers reach getRule, and a direct initializer referring to
// them would be an initialization cycle.
var rules map[token.Kind]parseRule

func init() { rules = ruleTable }

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}
