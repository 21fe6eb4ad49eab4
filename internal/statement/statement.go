// Package statement implements session actions: the assignment and
// channel/array/message operations a State's actions list can perform.
package statement

import (
	"fmt"

	"github.com/Componolit/RecordFlux/internal/decl"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Statement is one action a State performs on a transition.
type Statement interface {
	Identifier() ident.ID
	Location() ident.Location
	Validate(env *decl.Env, bag *diag.Bag)
}

type base struct {
	ID  ident.ID
	Loc ident.Location
}

func (b base) Identifier() ident.ID     { return b.ID }
func (b base) Location() ident.Location { return b.Loc }

// Assignment sets a declared variable to the value of Expression.
type Assignment struct {
	base
	Expression expr.Expr
}

func NewAssignment(target ident.ID, loc ident.Location, value expr.Expr) Assignment {
	return Assignment{base: base{ID: target, Loc: loc}, Expression: value}
}

func (a Assignment) Validate(env *decl.Env, bag *diag.Bag) {
	if _, ok := env.Get(a.ID); !ok {
		bag.Append(fmt.Sprintf("assignment to undeclared variable %q", a.ID.String()), diag.Session, diag.Error, a.Loc)
	} else {
		env.MarkReferenced(a.ID)
	}
	a.Expression.Validate(env, bag)
}

// Append adds Expression to the array or message-sequence variable ID.
// When Expression is a plain variable reference to a previously-built
// message (rather than a MessageAggregate), an informational diagnostic
// suggests using the aggregate form directly instead of constructing, then
// appending, an independent message — the distinction the original
// flags because appending a full message object re-copies it.
type Append struct {
	base
	Expression expr.Expr
}

func (a Append) Validate(env *decl.Env, bag *diag.Bag) {
	if _, ok := env.Get(a.ID); !ok {
		bag.Append(fmt.Sprintf("append to undeclared variable %q", a.ID.String()), diag.Session, diag.Error, a.Loc)
		return
	}
	env.MarkReferenced(a.ID)
	if _, isMsgAgg := a.Expression.(expr.MessageAggregate); !isMsgAgg {
		if v, isVar := a.Expression.(expr.Variable); isVar {
			bag.Append(
				fmt.Sprintf(
					"appending independently created message %q;"+
						" consider appending a message aggregate directly instead",
					v.Name.String(),
				),
				diag.Session, diag.Info, a.Loc,
			)
		}
	}
	a.Expression.Validate(env, bag)
}

// Extend is Append's bulk form: it appends every element of Expression
// (itself a sequence) rather than a single element.
type Extend struct {
	base
	Expression expr.Expr
}

func (e Extend) Validate(env *decl.Env, bag *diag.Bag) {
	if _, ok := env.Get(e.ID); !ok {
		bag.Append(fmt.Sprintf("extend of undeclared variable %q", e.ID.String()), diag.Session, diag.Error, e.Loc)
	} else {
		env.MarkReferenced(e.ID)
	}
	e.Expression.Validate(env, bag)
}

// Reset clears an array or message-typed variable back to empty.
type Reset struct {
	base
}

func NewReset(target ident.ID, loc ident.Location) Reset {
	return Reset{base: base{ID: target, Loc: loc}}
}

func (r Reset) Validate(env *decl.Env, bag *diag.Bag) {
	if _, ok := env.Get(r.ID); !ok {
		bag.Append(fmt.Sprintf("reset of undeclared variable %q", r.ID.String()), diag.Session, diag.Error, r.Loc)
	} else {
		env.MarkReferenced(r.ID)
	}
}

// channelOp is the shared shape of Read and Write: an operation against a
// named channel, requiring a specific direction.
type channelOp struct {
	base
	Channel  ident.ID
	Expression expr.Expr
}

func (c channelOp) validate(env *decl.Env, bag *diag.Bag, wantReadable, wantWritable bool) {
	readable, writable, ok := env.ChannelDirection(c.Channel)
	if !ok {
		bag.Append(fmt.Sprintf("%q is not a channel", c.Channel.String()), diag.Session, diag.Error, c.Loc)
		return
	}
	env.MarkReferenced(c.Channel)
	if wantReadable && !readable {
		bag.Append(fmt.Sprintf("channel %q is not readable", c.Channel.String()), diag.Session, diag.Error, c.Loc)
	}
	if wantWritable && !writable {
		bag.Append(fmt.Sprintf("channel %q is not writable", c.Channel.String()), diag.Session, diag.Error, c.Loc)
	}
	if c.Expression != nil {
		c.Expression.Validate(env, bag)
	}
}

// Read assigns the next value available on a readable channel.
type Read struct{ channelOp }

func (r Read) Validate(env *decl.Env, bag *diag.Bag) { r.validate(env, bag, true, false) }

// Write sends Expression's value on a writable channel.
type Write struct{ channelOp }

func (w Write) Validate(env *decl.Env, bag *diag.Bag) { w.validate(env, bag, false, true) }
