package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// IfBranch is one `Cond then Then` arm of an If, i.e. the first "if ..."
// arm or a subsequent "elsif ...".
type IfBranch struct {
	Cond, Then Expr
}

// If is a conditional expression: one or more elsif-chained branches, tried
// in order, plus an optional trailing Else (nil when absent — the original
// algebra this is ported from allows an If with no else_expression).
type If struct {
	Branches []IfBranch
	Else     Expr
	Loc      ident.Location
}

// NewIf builds a single-branch "if Cond then Then else Else" conditional,
// the common case every simpler caller in this module needs.
func NewIf(cond, then, els Expr) If {
	return If{Branches: []IfBranch{{Cond: cond, Then: then}}, Else: els}
}

// NewIfChain builds a full elsif chain from branches, tried in order, with
// an optional trailing els (nil for an If with no else branch).
func NewIfChain(branches []IfBranch, els Expr) If {
	return If{Branches: append([]IfBranch(nil), branches...), Else: els}
}

func (i If) Str() string {
	s := ""
	for idx, b := range i.Branches {
		if idx == 0 {
			s = "if " + b.Cond.Str() + " then " + b.Then.Str()
		} else {
			s += " elsif " + b.Cond.Str() + " then " + b.Then.Str()
		}
	}
	if i.Else != nil {
		s += " else " + i.Else.Str()
	}
	return s
}
func (i If) Precedence() Precedence   { return PrecIf }
func (i If) Location() ident.Location { return i.Loc }
func (i If) Variables() []ident.ID {
	var out []ident.ID
	for _, b := range i.Branches {
		out = mergeVars(mergeVars(out, b.Cond.Variables()), b.Then.Variables())
	}
	if i.Else != nil {
		out = mergeVars(out, i.Else.Variables())
	}
	return out
}
func (i If) FindAll(pred func(Expr) bool) []Expr {
	children := make([]Expr, 0, len(i.Branches)*2+1)
	for _, b := range i.Branches {
		children = append(children, b.Cond, b.Then)
	}
	if i.Else != nil {
		children = append(children, i.Else)
	}
	return FindAllDefault(i, pred, children...)
}
func (i If) Substituted(f func(Expr) Expr) Expr {
	branches := make([]IfBranch, len(i.Branches))
	for idx, b := range i.Branches {
		branches[idx] = IfBranch{Cond: b.Cond.Substituted(f), Then: b.Then.Substituted(f)}
	}
	i.Branches = branches
	if i.Else != nil {
		i.Else = i.Else.Substituted(f)
	}
	return f(i)
}
func (i If) Simplified() Expr { return simplifyIf(i) }
func (i If) Validate(env Environment, bag *diag.Bag) {
	for _, b := range i.Branches {
		b.Cond.Validate(env, bag)
		b.Then.Validate(env, bag)
	}
	if i.Else != nil {
		i.Else.Validate(env, bag)
	}
}

// CaseAlternative is one `when Choices => Result` arm of a Case.
type CaseAlternative struct {
	Choices []Expr
	Result  Expr
}

// Case is a multi-way match on a discriminant expression.
type Case struct {
	Control      Expr
	Alternatives []CaseAlternative
	Loc          ident.Location
}

func (c Case) Str() string {
	s := "case " + c.Control.Str() + " is"
	for _, a := range c.Alternatives {
		s += " when "
		for i, ch := range a.Choices {
			if i > 0 {
				s += " | "
			}
			s += ch.Str()
		}
		s += " => " + a.Result.Str()
	}
	return s
}
func (c Case) Precedence() Precedence   { return PrecIf }
func (c Case) Location() ident.Location { return c.Loc }
func (c Case) Variables() []ident.ID {
	out := c.Control.Variables()
	for _, a := range c.Alternatives {
		for _, ch := range a.Choices {
			out = mergeVars(out, ch.Variables())
		}
		out = mergeVars(out, a.Result.Variables())
	}
	return out
}
func (c Case) FindAll(pred func(Expr) bool) []Expr {
	children := []Expr{c.Control}
	for _, a := range c.Alternatives {
		children = append(children, a.Choices...)
		children = append(children, a.Result)
	}
	return FindAllDefault(c, pred, children...)
}
func (c Case) Substituted(f func(Expr) Expr) Expr {
	c.Control = c.Control.Substituted(f)
	alts := make([]CaseAlternative, len(c.Alternatives))
	for i, a := range c.Alternatives {
		choices := make([]Expr, len(a.Choices))
		for j, ch := range a.Choices {
			choices[j] = ch.Substituted(f)
		}
		alts[i] = CaseAlternative{Choices: choices, Result: a.Result.Substituted(f)}
	}
	c.Alternatives = alts
	return f(c)
}
func (c Case) Simplified() Expr { return simplifyCase(c) }
func (c Case) Validate(env Environment, bag *diag.Bag) {
	c.Control.Validate(env, bag)
	for _, a := range c.Alternatives {
		for _, ch := range a.Choices {
			ch.Validate(env, bag)
		}
		a.Result.Validate(env, bag)
	}
}
