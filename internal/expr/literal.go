package expr

import (
	"strconv"

	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Number is an integer literal, optionally rendered in a given base
// (2, 8, 10 or 16) the way the source notation is preserved for display.
type Number struct {
	Value int64
	Base  int
	Loc   ident.Location
}

func NewNumber(v int64) Number { return Number{Value: v, Base: 10} }

func (n Number) Str() string {
	switch n.Base {
	case 16:
		return "16#" + strconv.FormatInt(n.Value, 16) + "#"
	case 8:
		return "8#" + strconv.FormatInt(n.Value, 8) + "#"
	case 2:
		return "2#" + strconv.FormatInt(n.Value, 2) + "#"
	default:
		return strconv.FormatInt(n.Value, 10)
	}
}
func (n Number) Precedence() Precedence { return PrecLiteral }
func (n Number) Location() ident.Location { return n.Loc }
func (n Number) Variables() []ident.ID   { return nil }
func (n Number) FindAll(pred func(Expr) bool) []Expr { return FindAllDefault(n, pred) }
func (n Number) Substituted(f func(Expr) Expr) Expr  { return f(n) }
func (n Number) Simplified() Expr                    { return n }
func (n Number) Validate(Environment, *diag.Bag)     {}

// BooleanLiteral is True or False.
type BooleanLiteral struct {
	Value bool
	Loc   ident.Location
}

var TRUE = BooleanLiteral{Value: true}
var FALSE = BooleanLiteral{Value: false}

func (b BooleanLiteral) Str() string {
	if b.Value {
		return "True"
	}
	return "False"
}
func (b BooleanLiteral) Precedence() Precedence          { return PrecLiteral }
func (b BooleanLiteral) Location() ident.Location        { return b.Loc }
func (b BooleanLiteral) Variables() []ident.ID           { return nil }
func (b BooleanLiteral) FindAll(pred func(Expr) bool) []Expr { return FindAllDefault(b, pred) }
func (b BooleanLiteral) Substituted(f func(Expr) Expr) Expr  { return f(b) }
func (b BooleanLiteral) Simplified() Expr                    { return b }
func (b BooleanLiteral) Validate(Environment, *diag.Bag)     {}

// UndefinedExpr is the placeholder used for an edge's not-yet-computed
// First/Length before the model evaluator fills it in.
type UndefinedExpr struct{}

var UNDEFINED = UndefinedExpr{}

func (UndefinedExpr) Str() string                        { return "UNDEFINED" }
func (UndefinedExpr) Precedence() Precedence              { return PrecLiteral }
func (UndefinedExpr) Location() ident.Location            { return ident.Location{} }
func (UndefinedExpr) Variables() []ident.ID               { return nil }
func (u UndefinedExpr) FindAll(pred func(Expr) bool) []Expr { return FindAllDefault(u, pred) }
func (u UndefinedExpr) Substituted(f func(Expr) Expr) Expr  { return f(u) }
func (u UndefinedExpr) Simplified() Expr                    { return u }
func (UndefinedExpr) Validate(Environment, *diag.Bag)       {}

// Variable is a reference to a named declaration — a parameter, a local,
// a channel, or a message field depending on context. Negative encodes a
// unary minus applied directly to the name (rather than wrapping it in a
// Mul by -1), the way the algebra this is ported from keeps negated names
// printable without an extra node. Immutable marks a name introduced by a
// binder (a quantifier or a Binding's own parameter) that substitution
// must never rewrite, even when a substitution mapping or function would
// otherwise match it.
type Variable struct {
	Name      ident.ID
	Negative  bool
	Immutable bool
	Loc       ident.Location
}

func NewVariable(name string) Variable { return Variable{Name: ident.Parse(name)} }

// NewImmutableVariable builds a Variable that Substituted leaves untouched,
// for a quantifier or Binding's bound name.
func NewImmutableVariable(name string) Variable {
	return Variable{Name: ident.Parse(name), Immutable: true}
}

func (v Variable) Str() string {
	if v.Negative {
		return "-" + v.Name.String()
	}
	return v.Name.String()
}
func (v Variable) Precedence() Precedence {
	if v.Negative {
		return PrecUnaryOp
	}
	return PrecLiteral
}
func (v Variable) Location() ident.Location { return v.Loc }
func (v Variable) Variables() []ident.ID    { return []ident.ID{v.Name} }
func (v Variable) FindAll(pred func(Expr) bool) []Expr { return FindAllDefault(v, pred) }
func (v Variable) Substituted(f func(Expr) Expr) Expr {
	if v.Immutable {
		return v
	}
	return f(v)
}
func (v Variable) Simplified() Expr { return v }
func (v Variable) Validate(env Environment, bag *diag.Bag) {
	if _, ok := env.Lookup(v.Name); !ok {
		bag.Append(`undeclared variable "`+v.Name.String()+`"`, diag.Core, diag.Error, v.Loc)
		return
	}
	env.MarkReferenced(v.Name)
}

// String is a string literal. It stores the Go string itself and prints
// it quoted; it is not converted to an Aggregate of byte values.
type String struct {
	Value string
	Loc   ident.Location
}

func (s String) Str() string              { return strconv.Quote(s.Value) }
func (s String) Precedence() Precedence   { return PrecLiteral }
func (s String) Location() ident.Location { return s.Loc }
func (s String) Variables() []ident.ID    { return nil }
func (s String) FindAll(pred func(Expr) bool) []Expr { return FindAllDefault(s, pred) }
func (s String) Substituted(f func(Expr) Expr) Expr  { return f(s) }
func (s String) Simplified() Expr                    { return s }
func (String) Validate(Environment, *diag.Bag)       {}
