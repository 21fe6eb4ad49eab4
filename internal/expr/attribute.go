package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Attribute is a unary property of another expression: X'Size, X'Length,
// X'First, X'Last, X'Valid, X'Present, X'Head, X'Opaque, X'Data_Available.
type Attribute struct {
	Kind     string
	Prefix   Expr
	Loc      ident.Location
}

func attr(kind string, e Expr) Attribute { return Attribute{Kind: kind, Prefix: e} }

func SizeOf(e Expr) Attribute     { return attr("Size", e) }
func LengthOf(e Expr) Attribute   { return attr("Length", e) }
func FirstOf(e Expr) Attribute    { return attr("First", e) }
func LastOf(e Expr) Attribute     { return attr("Last", e) }
func ValidOf(e Expr) Attribute    { return attr("Valid", e) }
func PresentOf(e Expr) Attribute  { return attr("Present", e) }
func HeadOf(e Expr) Attribute     { return attr("Head", e) }
func OpaqueOf(e Expr) Attribute   { return attr("Opaque", e) }
func HasDataOf(e Expr) Attribute  { return attr("Data_Available", e) }

// RangeOf is X'Range, the pair of X'First and X'Last as a single
// attribute (distinct from the standalone ValueRange expression node).
func RangeOf(e Expr) Attribute { return attr("Range", e) }

// OldOf is X'Old, the value of X on entry to the enclosing subprogram or
// action sequence, used in postcondition-style expressions.
func OldOf(e Expr) Attribute { return attr("Old", e) }

// ResultOf is X'Result, the return value of the enclosing function,
// meaningful only inside a subprogram's postcondition.
func ResultOf(e Expr) Attribute { return attr("Result", e) }

// ConstrainedOf is X'Constrained, true when X's discriminants (or, for a
// message field, its surrounding layout) are fixed rather than free.
func ConstrainedOf(e Expr) Attribute { return attr("Constrained", e) }

// ValidChecksumOf is X'Valid_Checksum; per spec.md §4.E it is always True
// at the SMT-logic level (the solver cannot evaluate a checksum), so the
// bridge in internal/solver translates it to True.
func ValidChecksumOf(e Expr) Attribute { return attr("Valid_Checksum", e) }

func (a Attribute) Str() string            { return parenthesize(PrecSelector, a.Prefix) + "'" + a.Kind }
func (a Attribute) Precedence() Precedence { return PrecSelector }
func (a Attribute) Location() ident.Location { return a.Loc }
func (a Attribute) Variables() []ident.ID  { return a.Prefix.Variables() }
func (a Attribute) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(a, pred, a.Prefix)
}
func (a Attribute) Substituted(f func(Expr) Expr) Expr {
	a.Prefix = a.Prefix.Substituted(f)
	return f(a)
}
func (a Attribute) Simplified() Expr { a.Prefix = a.Prefix.Simplified(); return a }
func (a Attribute) Validate(env Environment, bag *diag.Bag) {
	if a.Kind == "Data_Available" {
		if v, ok := a.Prefix.(Variable); ok {
			readable, _, known := env.ChannelDirection(v.Name)
			if known && !readable {
				bag.Append(`channel "`+v.Name.String()+`" is not readable`, diag.Core, diag.Error, a.Loc)
			}
		}
	}
	a.Prefix.Validate(env, bag)
}

// Val maps an integer value onto an enumeration literal: X'Val(N).
type Val struct {
	Prefix Expr
	Arg    Expr
	Loc    ident.Location
}

func (v Val) Str() string { return parenthesize(PrecSelector, v.Prefix) + "'Val(" + v.Arg.Str() + ")" }
func (v Val) Precedence() Precedence   { return PrecSelector }
func (v Val) Location() ident.Location { return v.Loc }
func (v Val) Variables() []ident.ID    { return mergeVars(v.Prefix.Variables(), v.Arg.Variables()) }
func (v Val) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(v, pred, v.Prefix, v.Arg)
}
func (v Val) Substituted(f func(Expr) Expr) Expr {
	v.Prefix = v.Prefix.Substituted(f)
	v.Arg = v.Arg.Substituted(f)
	return f(v)
}
func (v Val) Simplified() Expr {
	v.Prefix = v.Prefix.Simplified()
	v.Arg = v.Arg.Simplified()
	return v
}
func (v Val) Validate(env Environment, bag *diag.Bag) {
	v.Prefix.Validate(env, bag)
	v.Arg.Validate(env, bag)
}

// Pos maps an enumeration literal onto its integer position: X'Pos(E).
type Pos struct {
	Prefix Expr
	Arg    Expr
	Loc    ident.Location
}

func (p Pos) Str() string { return parenthesize(PrecSelector, p.Prefix) + "'Pos(" + p.Arg.Str() + ")" }
func (p Pos) Precedence() Precedence   { return PrecSelector }
func (p Pos) Location() ident.Location { return p.Loc }
func (p Pos) Variables() []ident.ID    { return mergeVars(p.Prefix.Variables(), p.Arg.Variables()) }
func (p Pos) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(p, pred, p.Prefix, p.Arg)
}
func (p Pos) Substituted(f func(Expr) Expr) Expr {
	p.Prefix = p.Prefix.Substituted(f)
	p.Arg = p.Arg.Substituted(f)
	return f(p)
}
func (p Pos) Simplified() Expr {
	p.Prefix = p.Prefix.Simplified()
	p.Arg = p.Arg.Simplified()
	return p
}
func (p Pos) Validate(env Environment, bag *diag.Bag) {
	p.Prefix.Validate(env, bag)
	p.Arg.Validate(env, bag)
}

// Selected is record/message field access: X.Field.
type Selected struct {
	Prefix Expr
	Field  string
	Loc    ident.Location
}

func (s Selected) Str() string { return parenthesize(PrecSelector, s.Prefix) + "." + s.Field }
func (s Selected) Precedence() Precedence   { return PrecSelector }
func (s Selected) Location() ident.Location { return s.Loc }
func (s Selected) Variables() []ident.ID    { return s.Prefix.Variables() }
func (s Selected) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(s, pred, s.Prefix)
}
func (s Selected) Substituted(f func(Expr) Expr) Expr {
	s.Prefix = s.Prefix.Substituted(f)
	return f(s)
}
func (s Selected) Simplified() Expr { s.Prefix = s.Prefix.Simplified(); return s }
func (s Selected) Validate(env Environment, bag *diag.Bag) {
	s.Prefix.Validate(env, bag)
}

// Indexed is array-element access: X(N).
type Indexed struct {
	Prefix Expr
	Index  Expr
	Loc    ident.Location
}

func (ix Indexed) Str() string {
	return parenthesize(PrecSelector, ix.Prefix) + "(" + ix.Index.Str() + ")"
}
func (ix Indexed) Precedence() Precedence   { return PrecSelector }
func (ix Indexed) Location() ident.Location { return ix.Loc }
func (ix Indexed) Variables() []ident.ID {
	return mergeVars(ix.Prefix.Variables(), ix.Index.Variables())
}
func (ix Indexed) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(ix, pred, ix.Prefix, ix.Index)
}
func (ix Indexed) Substituted(f func(Expr) Expr) Expr {
	ix.Prefix = ix.Prefix.Substituted(f)
	ix.Index = ix.Index.Substituted(f)
	return f(ix)
}
func (ix Indexed) Simplified() Expr {
	ix.Prefix = ix.Prefix.Simplified()
	ix.Index = ix.Index.Simplified()
	return ix
}
func (ix Indexed) Validate(env Environment, bag *diag.Bag) {
	ix.Prefix.Validate(env, bag)
	ix.Index.Validate(env, bag)
}

// Slice is array-slice access: X(First .. Last).
type Slice struct {
	Prefix      Expr
	First, Last Expr
	Loc         ident.Location
}

func (sl Slice) Str() string {
	return parenthesize(PrecSelector, sl.Prefix) + "(" + sl.First.Str() + " .. " + sl.Last.Str() + ")"
}
func (sl Slice) Precedence() Precedence   { return PrecSelector }
func (sl Slice) Location() ident.Location { return sl.Loc }
func (sl Slice) Variables() []ident.ID {
	return mergeVars(mergeVars(sl.Prefix.Variables(), sl.First.Variables()), sl.Last.Variables())
}
func (sl Slice) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(sl, pred, sl.Prefix, sl.First, sl.Last)
}
func (sl Slice) Substituted(f func(Expr) Expr) Expr {
	sl.Prefix = sl.Prefix.Substituted(f)
	sl.First = sl.First.Substituted(f)
	sl.Last = sl.Last.Substituted(f)
	return f(sl)
}
func (sl Slice) Simplified() Expr {
	sl.Prefix = sl.Prefix.Simplified()
	sl.First = sl.First.Simplified()
	sl.Last = sl.Last.Simplified()
	return sl
}
func (sl Slice) Validate(env Environment, bag *diag.Bag) {
	sl.Prefix.Validate(env, bag)
	sl.First.Validate(env, bag)
	sl.Last.Validate(env, bag)
}
