package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// ValueRange is a standalone `Lower .. Upper` range expression, used as a
// Case choice and as the right-hand side of In/NotIn membership tests. It
// is distinct from the Range attribute (which denotes an existing prefix's
// First .. Last) in that its bounds are arbitrary expressions.
type ValueRange struct {
	Lower, Upper Expr
	Loc          ident.Location
}

func NewValueRange(lower, upper Expr) ValueRange { return ValueRange{Lower: lower, Upper: upper} }

func (v ValueRange) Str() string {
	return parenthesize(PrecRelation, v.Lower) + " .. " + parenthesize(PrecRelation, v.Upper)
}
func (v ValueRange) Precedence() Precedence   { return PrecRelation }
func (v ValueRange) Location() ident.Location { return v.Loc }
func (v ValueRange) Variables() []ident.ID {
	return mergeVars(v.Lower.Variables(), v.Upper.Variables())
}
func (v ValueRange) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(v, pred, v.Lower, v.Upper)
}
func (v ValueRange) Substituted(f func(Expr) Expr) Expr {
	v.Lower = v.Lower.Substituted(f)
	v.Upper = v.Upper.Substituted(f)
	return f(v)
}
func (v ValueRange) Simplified() Expr {
	v.Lower = v.Lower.Simplified()
	v.Upper = v.Upper.Simplified()
	return v
}
func (v ValueRange) Validate(env Environment, bag *diag.Bag) {
	v.Lower.Validate(env, bag)
	v.Upper.Validate(env, bag)
}

// Conversion is an explicit type conversion: Type_Name(Arg), used to move
// a value between a base type and a derived or refined one.
type Conversion struct {
	TypeName ident.ID
	Arg      Expr
	Loc      ident.Location
}

func NewConversion(typeName ident.ID, arg Expr) Conversion {
	return Conversion{TypeName: typeName, Arg: arg}
}

func (c Conversion) Str() string              { return c.TypeName.String() + "(" + c.Arg.Str() + ")" }
func (c Conversion) Precedence() Precedence   { return PrecLiteral }
func (c Conversion) Location() ident.Location { return c.Loc }
func (c Conversion) Variables() []ident.ID    { return c.Arg.Variables() }
func (c Conversion) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(c, pred, c.Arg)
}
func (c Conversion) Substituted(f func(Expr) Expr) Expr {
	c.Arg = c.Arg.Substituted(f)
	return f(c)
}
func (c Conversion) Simplified() Expr { c.Arg = c.Arg.Simplified(); return c }
func (c Conversion) Validate(env Environment, bag *diag.Bag) {
	c.Arg.Validate(env, bag)
}

// Comprehension builds a new array by mapping Selector over Array,
// filtered by Condition: [for Iterator in Array => Selector when
// Condition]. Iterator is bound fresh within Selector and Condition and
// is opaque to substitution, the same shielding Quantified gives its own
// bound name.
type Comprehension struct {
	Iterator  string
	Array     Expr
	Selector  Expr
	Condition Expr
	Loc       ident.Location
}

func NewComprehension(iterator string, array, selector, condition Expr) Comprehension {
	return Comprehension{Iterator: iterator, Array: array, Selector: selector, Condition: condition}
}

func (c Comprehension) Str() string {
	s := "[for " + c.Iterator + " in " + c.Array.Str() + " => " + c.Selector.Str()
	if c.Condition != nil {
		s += " when " + c.Condition.Str()
	}
	return s + "]"
}
func (c Comprehension) Precedence() Precedence   { return PrecIf }
func (c Comprehension) Location() ident.Location { return c.Loc }
func (c Comprehension) Variables() []ident.ID {
	bound := ident.Parse(c.Iterator)
	out := mergeVars(c.Array.Variables(), c.Selector.Variables())
	if c.Condition != nil {
		out = mergeVars(out, c.Condition.Variables())
	}
	filtered := out[:0]
	for _, v := range out {
		if !v.Equal(bound) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
func (c Comprehension) FindAll(pred func(Expr) bool) []Expr {
	children := []Expr{c.Array, c.Selector}
	if c.Condition != nil {
		children = append(children, c.Condition)
	}
	return FindAllDefault(c, pred, children...)
}
func (c Comprehension) shield(bound ident.ID, f func(Expr) Expr) func(Expr) Expr {
	return func(e Expr) Expr {
		if v, ok := e.(Variable); ok && v.Name.Equal(bound) {
			return e
		}
		return f(e)
	}
}
func (c Comprehension) Substituted(f func(Expr) Expr) Expr {
	bound := ident.Parse(c.Iterator)
	shielded := c.shield(bound, f)
	c.Array = c.Array.Substituted(shielded)
	c.Selector = c.Selector.Substituted(shielded)
	if c.Condition != nil {
		c.Condition = c.Condition.Substituted(shielded)
	}
	return f(c)
}
func (c Comprehension) Simplified() Expr {
	c.Array = c.Array.Simplified()
	c.Selector = c.Selector.Simplified()
	if c.Condition != nil {
		c.Condition = c.Condition.Simplified()
	}
	return c
}
func (c Comprehension) Validate(env Environment, bag *diag.Bag) {
	c.Array.Validate(env, bag)
	c.Selector.Validate(env, bag)
	if c.Condition != nil {
		c.Condition.Validate(env, bag)
	}
}
