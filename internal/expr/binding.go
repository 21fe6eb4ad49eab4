package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Binding defers substitution of a set of named expressions into Inner
// until Simplified is called. It exists so that a message-aggregate
// field value (say) can be built once, lazily, against whatever bindings
// apply at its point of use — substitution happens only when a final
// value is needed, not at construction time. Quantified's Substituted
// does not descend into its own bound variable, so a binding that shares
// a name with an enclosing quantifier's bound variable only replaces the
// free occurrences, exactly the way lexical scoping requires.
type Binding struct {
	Inner    Expr
	Bindings map[string]Expr
	Loc      ident.Location
}

func NewBinding(inner Expr, bindings map[string]Expr) Binding {
	return Binding{Inner: inner, Bindings: bindings}
}

func (b Binding) Str() string { return b.Simplified().Str() }
func (b Binding) Precedence() Precedence   { return b.Inner.Precedence() }
func (b Binding) Location() ident.Location { return b.Loc }
func (b Binding) Variables() []ident.ID    { return b.Simplified().Variables() }
func (b Binding) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(b, pred, b.Inner)
}
func (b Binding) Substituted(f func(Expr) Expr) Expr { return f(b.Simplified().Substituted(f)) }
func (b Binding) Simplified() Expr {
	substituted := b.Inner.Substituted(func(e Expr) Expr {
		v, ok := e.(Variable)
		if !ok {
			return e
		}
		if repl, found := b.Bindings[v.Name.String()]; found {
			return repl
		}
		return e
	})
	return substituted.Simplified()
}
func (b Binding) Validate(env Environment, bag *diag.Bag) {
	b.Simplified().Validate(env, bag)
}
