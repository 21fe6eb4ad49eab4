package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Aggregate is a positional list of element values: (1, 2, 3).
type Aggregate struct {
	Elements []Expr
	Loc      ident.Location
}

func NewAggregate(elems ...Expr) Aggregate { return Aggregate{Elements: elems} }

func (a Aggregate) Str() string {
	s := "("
	for i, e := range a.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.Str()
	}
	return s + ")"
}
func (a Aggregate) Precedence() Precedence   { return PrecLiteral }
func (a Aggregate) Location() ident.Location { return a.Loc }
func (a Aggregate) Variables() []ident.ID {
	var out []ident.ID
	for _, e := range a.Elements {
		out = mergeVars(out, e.Variables())
	}
	return out
}
func (a Aggregate) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(a, pred, a.Elements...)
}
func (a Aggregate) Substituted(f func(Expr) Expr) Expr {
	elems := make([]Expr, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.Substituted(f)
	}
	a.Elements = elems
	return f(a)
}
func (a Aggregate) Simplified() Expr {
	elems := make([]Expr, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.Simplified()
	}
	a.Elements = elems
	return a
}
func (a Aggregate) Validate(env Environment, bag *diag.Bag) {
	for _, e := range a.Elements {
		e.Validate(env, bag)
	}
}

// NamedAggregateAssoc is one `Field => Value` binding of a NamedAggregate.
type NamedAggregateAssoc struct {
	Field string
	Value Expr
}

// NamedAggregate constructs a message instance by field name: (Field1 => V1, ...).
type NamedAggregate struct {
	Associations []NamedAggregateAssoc
	Loc          ident.Location
}

func (n NamedAggregate) Str() string {
	s := "("
	for i, a := range n.Associations {
		if i > 0 {
			s += ", "
		}
		s += a.Field + " => " + a.Value.Str()
	}
	return s + ")"
}
func (n NamedAggregate) Precedence() Precedence   { return PrecLiteral }
func (n NamedAggregate) Location() ident.Location { return n.Loc }
func (n NamedAggregate) Variables() []ident.ID {
	var out []ident.ID
	for _, a := range n.Associations {
		out = mergeVars(out, a.Value.Variables())
	}
	return out
}
func (n NamedAggregate) FindAll(pred func(Expr) bool) []Expr {
	children := make([]Expr, len(n.Associations))
	for i, a := range n.Associations {
		children[i] = a.Value
	}
	return FindAllDefault(n, pred, children...)
}
func (n NamedAggregate) Substituted(f func(Expr) Expr) Expr {
	assocs := make([]NamedAggregateAssoc, len(n.Associations))
	for i, a := range n.Associations {
		assocs[i] = NamedAggregateAssoc{Field: a.Field, Value: a.Value.Substituted(f)}
	}
	n.Associations = assocs
	return f(n)
}
func (n NamedAggregate) Simplified() Expr {
	assocs := make([]NamedAggregateAssoc, len(n.Associations))
	for i, a := range n.Associations {
		assocs[i] = NamedAggregateAssoc{Field: a.Field, Value: a.Value.Simplified()}
	}
	n.Associations = assocs
	return n
}
func (n NamedAggregate) Validate(env Environment, bag *diag.Bag) {
	for _, a := range n.Associations {
		a.Value.Validate(env, bag)
	}
}

// MessageAggregate is the session-action form of NamedAggregate: it names
// the message type being constructed, e.g. M'(Field => Value, ...).
type MessageAggregate struct {
	Message ident.ID
	NamedAggregate
}

func (m MessageAggregate) Str() string { return m.Message.String() + "'" + m.NamedAggregate.Str() }
func (m MessageAggregate) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(m, pred, m.children()...)
}
func (m MessageAggregate) children() []Expr {
	children := make([]Expr, len(m.Associations))
	for i, a := range m.Associations {
		children[i] = a.Value
	}
	return children
}
func (m MessageAggregate) Substituted(f func(Expr) Expr) Expr {
	n := m.NamedAggregate.Substituted(f).(NamedAggregate)
	m.NamedAggregate = n
	return f(m)
}
func (m MessageAggregate) Simplified() Expr {
	m.NamedAggregate = m.NamedAggregate.Simplified().(NamedAggregate)
	return m
}
