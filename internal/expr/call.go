package expr

import (
	"github.com/Componolit/RecordFlux/internal/config"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Call is a subprogram or channel-builtin invocation: Name(Args...).
// Read, Write, Call and Data_Available additionally require their first
// argument to name a Channel declaration with the matching direction.
type Call struct {
	Name ident.ID
	Args []Expr
	Loc  ident.Location
}

func NewCall(name ident.ID, args ...Expr) Call { return Call{Name: name, Args: args} }

func (c Call) Str() string {
	s := c.Name.String() + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.Str()
	}
	return s + ")"
}
func (c Call) Precedence() Precedence   { return PrecLiteral }
func (c Call) Location() ident.Location { return c.Loc }
func (c Call) Variables() []ident.ID {
	var out []ident.ID
	for _, a := range c.Args {
		out = mergeVars(out, a.Variables())
	}
	return out
}
func (c Call) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(c, pred, c.Args...)
}
func (c Call) Substituted(f func(Expr) Expr) Expr {
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Substituted(f)
	}
	c.Args = args
	return f(c)
}
func (c Call) Simplified() Expr {
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Simplified()
	}
	c.Args = args
	return c
}

func (c Call) isChannelBuiltin() (wantReadable, wantWritable bool, ok bool) {
	switch c.Name.Name() {
	case config.BuiltinRead, config.BuiltinDataAvailable:
		return true, false, true
	case config.BuiltinWrite:
		return false, true, true
	case config.BuiltinCall:
		return true, true, true
	}
	return false, false, false
}

func (c Call) Validate(env Environment, bag *diag.Bag) {
	if wantReadable, wantWritable, ok := c.isChannelBuiltin(); ok {
		if len(c.Args) == 0 {
			bag.Append(`missing channel argument to "`+c.Name.String()+`"`, diag.Core, diag.Error, c.Loc)
			return
		}
		if v, isVar := c.Args[0].(Variable); isVar {
			readable, writable, known := env.ChannelDirection(v.Name)
			if !known {
				bag.Append(`"`+v.Name.String()+`" is not a channel`, diag.Core, diag.Error, c.Loc)
			} else {
				if wantReadable && !readable {
					bag.Append(`channel "`+v.Name.String()+`" is not readable`, diag.Core, diag.Error, c.Loc)
				}
				if wantWritable && !writable {
					bag.Append(`channel "`+v.Name.String()+`" is not writable`, diag.Core, diag.Error, c.Loc)
				}
			}
			env.MarkReferenced(v.Name)
		}
		for _, a := range c.Args[1:] {
			a.Validate(env, bag)
		}
		return
	}
	if _, ok := env.Lookup(c.Name); !ok {
		bag.Append(`undeclared subprogram "`+c.Name.String()+`"`, diag.Core, diag.Error, c.Loc)
	} else {
		env.MarkReferenced(c.Name)
	}
	for _, a := range c.Args {
		a.Validate(env, bag)
	}
}
