package definer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrPlaceholders is returned by ParseWhere when the number of placeholders
// does not match the number of arguments.
var ErrPlaceholders = errors.New("definer: placeholder count mismatch")

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "QuotedIdent", Pattern: "`(?:[^`]|``)+`|\"(?:[^\"]|\"\")+\""},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Placeholder", Pattern: `\?|\$\d+`},
	{Name: "Operator", Pattern: `<>|>=|<=|\+=|-=|/=|%=|&=|\|\*=|\^-=|[=<>+\-*/%&|^]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type filterAST struct {
	Groups []*groupAST `parser:"@@ ( 'OR' @@ )*"`
}

type groupAST struct {
	Terms []*termAST `parser:"'(' @@ ( 'AND' @@ )* ')' | @@ ( 'AND' @@ )*"`
}

type termAST struct {
	Column  string       `parser:"@(QuotedIdent | Ident)"`
	Null    *nullTestAST `parser:"( 'IS' @@"`
	Between []*valueAST  `parser:"| 'BETWEEN' @@ 'AND' @@"`
	Op      string       `parser:"| @(Operator | 'LIKE' | 'IN' | 'ALL' | 'ANY' | 'SOME' | 'EXISTS' | 'NOT')"`
	List    []*valueAST  `parser:"  ( '(' @@ ( ',' @@ )* ')'"`
	Value   *valueAST    `parser:"  | @@ ) )"`
}

type nullTestAST struct {
	Not bool `parser:"@'NOT'? 'NULL'"`
}

type valueAST struct {
	Placeholder bool     `parser:"  @Placeholder"`
	Null        bool     `parser:"| @'NULL'"`
	Bool        *string  `parser:"| @('TRUE' | 'FALSE')"`
	Float       *float64 `parser:"| @Float"`
	Int         *int64   `parser:"| @Int"`
	String      *string  `parser:"| @String"`
}

var filterParser = participle.MustBuild[filterAST](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.Map(unquoteToken, "String", "QuotedIdent"),
)

// unquoteToken strips the quotes of string literals and quoted identifiers
// and collapses doubled quote characters.
func unquoteToken(t lexer.Token) (lexer.Token, error) {
	q := t.Value[:1]
	t.Value = strings.ReplaceAll(t.Value[1:len(t.Value)-1], q+q, q)
	return t, nil
}

// ParseWhere parses a compiled predicate back into AND-groups, binding its
// placeholders to args positionally. It accepts the output of CompileWhere
// and Where for the comparison, LIKE, IN, BETWEEN and NULL-test operators.
//
//	groups, err := definer.ParseWhere("(`a` = ?) OR (`b` IS NULL)", 1)
func ParseWhere(where string, args ...any) ([]Group, error) {
	if strings.TrimSpace(where) == "" {
		if len(args) > 0 {
			return nil, ErrPlaceholders
		}
		return nil, nil
	}
	ast, err := filterParser.ParseString("", where)
	if err != nil {
		return nil, fmt.Errorf("definer: parse filter: %w", err)
	}
	b := &binder{args: args}
	groups := make([]Group, 0, len(ast.Groups))
	for _, g := range ast.Groups {
		group := make(Group, 0, len(g.Terms))
		for _, t := range g.Terms {
			term, err := b.term(t)
			if err != nil {
				return nil, err
			}
			group = append(group, term)
		}
		groups = append(groups, group)
	}
	if b.next != len(args) {
		return nil, ErrPlaceholders
	}
	return groups, nil
}

// ParseFilter parses a filter expression written with literal values, as
// accepted on the command line:
//
//	age >= 18 AND name = 'bob' OR deleted_at IS NULL
func ParseFilter(expr string) ([]Group, error) {
	return ParseWhere(expr)
}

// Conditions converts parsed groups to the conditions accepted by Where.
func Conditions(groups []Group) []Condition {
	conds := make([]Condition, len(groups))
	for i, g := range groups {
		conds[i] = g
	}
	return conds
}

// binder hands out placeholder arguments in order.
type binder struct {
	args []any
	next int
}

func (b *binder) term(t *termAST) (Term, error) {
	switch {
	case t.Null != nil:
		if t.Null.Not {
			return NotNull(t.Column), nil
		}
		return IsNull(t.Column), nil
	case t.Between != nil:
		lo, err := b.value(t.Between[0])
		if err != nil {
			return Term{}, err
		}
		hi, err := b.value(t.Between[1])
		if err != nil {
			return Term{}, err
		}
		return Between(t.Column, lo, hi), nil
	}
	op, ok := OpForToken(t.Op)
	if !ok {
		return Term{}, &CompileError{Column: t.Column, Op: Op(t.Op), Err: ErrUnknownOperator}
	}
	if t.List != nil {
		vs := make([]any, len(t.List))
		for i, v := range t.List {
			val, err := b.value(v)
			if err != nil {
				return Term{}, err
			}
			vs[i] = val
		}
		return Term{Column: t.Column, Op: op, Value: vs}, nil
	}
	v, err := b.value(t.Value)
	if err != nil {
		return Term{}, err
	}
	return Term{Column: t.Column, Op: op, Value: v}, nil
}

func (b *binder) value(v *valueAST) (any, error) {
	switch {
	case v.Placeholder:
		if b.next >= len(b.args) {
			return nil, ErrPlaceholders
		}
		b.next++
		return b.args[b.next-1], nil
	case v.Null:
		return nil, nil
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "TRUE"), nil
	case v.Float != nil:
		return *v.Float, nil
	case v.Int != nil:
		return *v.Int, nil
	case v.String != nil:
		return *v.String, nil
	}
	return nil, fmt.Errorf("definer: parse filter: empty value")
}
