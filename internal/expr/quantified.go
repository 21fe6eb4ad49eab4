package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Quantified is `for all X in/of Iterable => Predicate` or the
// existential `for some` form. "of" iterates a message field's
// sequence-of-messages aggregate; "in" iterates a scalar array.
type Quantified struct {
	Universal bool // true: for all, false: for some
	Of        bool // true: "of" (message sequence), false: "in"
	Var       string
	Iterable  Expr
	Predicate Expr
	Loc       ident.Location
}

func ForAllIn(v string, iterable, pred Expr) Quantified {
	return Quantified{Universal: true, Var: v, Iterable: iterable, Predicate: pred}
}
func ForAllOf(v string, iterable, pred Expr) Quantified {
	return Quantified{Universal: true, Of: true, Var: v, Iterable: iterable, Predicate: pred}
}
func ForSomeIn(v string, iterable, pred Expr) Quantified {
	return Quantified{Universal: false, Var: v, Iterable: iterable, Predicate: pred}
}

func (q Quantified) Str() string {
	kw := "for some "
	if q.Universal {
		kw = "for all "
	}
	conn := " in "
	if q.Of {
		conn = " of "
	}
	return kw + q.Var + conn + q.Iterable.Str() + " => " + q.Predicate.Str()
}
func (q Quantified) Precedence() Precedence   { return PrecIf }
func (q Quantified) Location() ident.Location { return q.Loc }
func (q Quantified) Variables() []ident.ID {
	bound := ident.Parse(q.Var)
	vars := mergeVars(q.Iterable.Variables(), q.Predicate.Variables())
	out := vars[:0]
	for _, v := range vars {
		if !v.Equal(bound) {
			out = append(out, v)
		}
	}
	return out
}
func (q Quantified) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(q, pred, q.Iterable, q.Predicate)
}
func (q Quantified) Substituted(f func(Expr) Expr) Expr {
	bound := ident.Parse(q.Var)
	q.Iterable = q.Iterable.Substituted(func(e Expr) Expr {
		if v, ok := e.(Variable); ok && v.Name.Equal(bound) {
			return e
		}
		return f(e)
	})
	q.Predicate = q.Predicate.Substituted(func(e Expr) Expr {
		if v, ok := e.(Variable); ok && v.Name.Equal(bound) {
			return e
		}
		return f(e)
	})
	return f(q)
}
func (q Quantified) Simplified() Expr {
	q.Iterable = q.Iterable.Simplified()
	q.Predicate = q.Predicate.Simplified()
	return q
}
func (q Quantified) Validate(env Environment, bag *diag.Bag) {
	q.Iterable.Validate(env, bag)
	q.Predicate.Validate(env, bag)
}
