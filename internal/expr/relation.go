package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Relation is a binary comparison: =, /=, <, <=, >, >=.
type Relation struct {
	Op          string
	Left, Right Expr
	Loc         ident.Location
}

func rel(op string, l, r Expr) Relation { return Relation{Op: op, Left: l, Right: r} }

func Equal(l, r Expr) Relation        { return rel("=", l, r) }
func NotEqual(l, r Expr) Relation     { return rel("/=", l, r) }
func Less(l, r Expr) Relation         { return rel("<", l, r) }
func LessEqual(l, r Expr) Relation    { return rel("<=", l, r) }
func Greater(l, r Expr) Relation      { return rel(">", l, r) }
func GreaterEqual(l, r Expr) Relation { return rel(">=", l, r) }

// In and NotIn test set/range membership: element in aggregate-or-range.
func In(elem, set Expr) Relation    { return rel("in", elem, set) }
func NotIn(elem, set Expr) Relation { return rel("not in", elem, set) }

// Negated returns the relation's logical negation, used by the simplifier
// to push Not through a relation (e.g. not (a < b) == a >= b).
func (r Relation) Negated() Relation {
	inv := map[string]string{
		"=": "/=", "/=": "=", "<": ">=", ">=": "<", ">": "<=", "<=": ">",
		"in": "not in", "not in": "in",
	}
	return Relation{Op: inv[r.Op], Left: r.Left, Right: r.Right, Loc: r.Loc}
}

func (r Relation) Str() string {
	return parenthesize(PrecRelation, r.Left) + " " + r.Op + " " + parenthesize(PrecRelation, r.Right)
}
func (r Relation) Precedence() Precedence   { return PrecRelation }
func (r Relation) Location() ident.Location { return r.Loc }
func (r Relation) Variables() []ident.ID {
	return mergeVars(r.Left.Variables(), r.Right.Variables())
}
func (r Relation) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(r, pred, r.Left, r.Right)
}
func (r Relation) Substituted(f func(Expr) Expr) Expr {
	r.Left = r.Left.Substituted(f)
	r.Right = r.Right.Substituted(f)
	return f(r)
}
func (r Relation) Simplified() Expr { return simplifyRelation(r) }
func (r Relation) Validate(env Environment, bag *diag.Bag) {
	r.Left.Validate(env, bag)
	r.Right.Validate(env, bag)
}
