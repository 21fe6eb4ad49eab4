package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// BoolOp is And/Or and their short-circuit variants AndThen/OrElse. The
// short-circuit tag is preserved through simplification and shows in Str,
// even though at the logic level And and AndThen (and Or/OrElse) are
// equivalent: the simplifier's folding rules, the model evaluator and the
// solver bridge treat both forms of each the same way.
type BoolOp struct {
	Kind        string // "and", "or", "and then", "or else"
	Left, Right Expr
	Loc         ident.Location
}

func And(l, r Expr) BoolOp     { return BoolOp{Kind: "and", Left: l, Right: r} }
func Or(l, r Expr) BoolOp      { return BoolOp{Kind: "or", Left: l, Right: r} }
func AndThen(l, r Expr) BoolOp { return BoolOp{Kind: "and then", Left: l, Right: r} }
func OrElse(l, r Expr) BoolOp  { return BoolOp{Kind: "or else", Left: l, Right: r} }

func (b BoolOp) prec() Precedence {
	if b.Kind == "or" || b.Kind == "or else" {
		return PrecOr
	}
	return PrecAnd
}

func (b BoolOp) Str() string {
	p := b.prec()
	return parenthesize(p, b.Left) + " " + b.Kind + " " + parenthesize(p, b.Right)
}
func (b BoolOp) Precedence() Precedence   { return b.prec() }
func (b BoolOp) Location() ident.Location { return b.Loc }
func (b BoolOp) Variables() []ident.ID {
	return mergeVars(b.Left.Variables(), b.Right.Variables())
}
func (b BoolOp) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(b, pred, b.Left, b.Right)
}
func (b BoolOp) Substituted(f func(Expr) Expr) Expr {
	b.Left = b.Left.Substituted(f)
	b.Right = b.Right.Substituted(f)
	return f(b)
}
func (b BoolOp) Simplified() Expr { return simplifyBoolOp(b) }
func (b BoolOp) Validate(env Environment, bag *diag.Bag) {
	b.Left.Validate(env, bag)
	b.Right.Validate(env, bag)
}

func (b BoolOp) isAnd() bool { return b.Kind == "and" || b.Kind == "and then" }
func (b BoolOp) isOr() bool  { return b.Kind == "or" || b.Kind == "or else" }

// IsAnd reports whether b is a conjunction (And or AndThen).
func (b BoolOp) IsAnd() bool { return b.isAnd() }

// IsOr reports whether b is a disjunction (Or or OrElse).
func (b BoolOp) IsOr() bool { return b.isOr() }

// Not negates a boolean-valued expression.
type Not struct {
	Operand Expr
	Loc     ident.Location
}

func NewNot(e Expr) Not { return Not{Operand: e} }

func (n Not) Str() string              { return "not " + parenthesize(PrecNot, n.Operand) }
func (n Not) Precedence() Precedence   { return PrecNot }
func (n Not) Location() ident.Location { return n.Loc }
func (n Not) Variables() []ident.ID    { return n.Operand.Variables() }
func (n Not) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(n, pred, n.Operand)
}
func (n Not) Substituted(f func(Expr) Expr) Expr {
	n.Operand = n.Operand.Substituted(f)
	return f(n)
}
func (n Not) Simplified() Expr { return simplifyNot(n) }
func (n Not) Validate(env Environment, bag *diag.Bag) {
	n.Operand.Validate(env, bag)
}
