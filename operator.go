package definer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Op identifies an operator of the operator table.
type Op string

// Logical operators.
const (
	OpAll     Op = "ALL"
	OpAnd     Op = "AND"
	OpAny     Op = "ANY"
	OpBetween Op = "BETWEEN"
	OpExists  Op = "EXISTS"
	OpIn      Op = "IN"
	OpLike    Op = "LIKE"
	OpNot     Op = "NOT"
	OpOr      Op = "OR"
	OpSome    Op = "SOME"
)

// Comparison operators.
const (
	OpEquals    Op = "EQUALS"
	OpGT        Op = "GT"
	OpLT        Op = "LT"
	OpGTE       Op = "GTE"
	OpLTE       Op = "LTE"
	OpNotEquals Op = "NOTE"
)

// Arithmetic operators.
const (
	OpAdd      Op = "ADD"
	OpSubtract Op = "SUBTRACT"
	OpMultiply Op = "MULTIPLY"
	OpDivide   Op = "DIVIDE"
	OpModulo   Op = "MODULO"
)

// Bitwise operators.
const (
	OpBitAnd Op = "BS_AND"
	OpBitOr  Op = "BS_OR"
	OpBitXor Op = "BS_XOR"
)

// Compound operators.
const (
	OpAddAssign    Op = "ADDE"
	OpSubAssign    Op = "SUBE"
	OpDivAssign    Op = "DIVE"
	OpModAssign    Op = "MODE"
	OpBitAndAssign Op = "BS_ANDE"
	OpBitOrAssign  Op = "BS_ORE"
	OpBitXorAssign Op = "BS_XORE"
)

// operators maps every operator to its SQL token.
var operators = map[Op]string{
	OpAll:     "ALL",
	OpAnd:     "AND",
	OpAny:     "ANY",
	OpBetween: "BETWEEN",
	OpExists:  "EXISTS",
	OpIn:      "IN",
	OpLike:    "LIKE",
	OpNot:     "NOT",
	OpOr:      "OR",
	OpSome:    "SOME",

	OpEquals:    "=",
	OpGT:        ">",
	OpLT:        "<",
	OpGTE:       ">=",
	OpLTE:       "<=",
	OpNotEquals: "<>",

	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpModulo:   "%",

	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",

	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpBitAndAssign: "&=",
	OpBitOrAssign:  "|*=",
	OpBitXorAssign: "^-=",
}

// tokens is the reverse of operators.
var tokens = func() map[string]Op {
	m := make(map[string]Op, len(operators))
	for op, tok := range operators {
		m[tok] = op
	}
	return m
}()

// upper folds s to upper case. Casers are stateful, so one is made per call.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Token returns the SQL token of the operator.
func (o Op) Token() (string, bool) {
	tok, ok := operators[o]
	return tok, ok
}

// Valid reports whether the operator is part of the operator table.
func (o Op) Valid() bool {
	_, ok := operators[o]
	return ok
}

// LookupOp returns the operator with the given identifier, ignoring case.
func LookupOp(name string) (Op, bool) {
	op := Op(upper(name))
	return op, op.Valid()
}

// OpForToken returns the operator rendered as the given SQL token, ignoring
// case for keyword tokens such as LIKE.
func OpForToken(token string) (Op, bool) {
	op, ok := tokens[upper(token)]
	return op, ok
}
