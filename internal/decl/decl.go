// Package decl implements the declaration environment: a scope mapping
// identifiers to their kind (variable, private, channel, subprogram,
// renaming), used to validate free variable references, channel
// direction, shadowing and unused declarations.
package decl

import (
	"fmt"
	"strings"

	"github.com/Componolit/RecordFlux/internal/config"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/rflxtype"
)

// Kind classifies a Declaration. Values correspond 1:1 with
// expr.DeclKind so Env can satisfy expr.Environment directly.
type Kind int

const (
	Variable Kind = iota
	Private
	Channel
	Subprogram
	Renaming
)

func (k Kind) expr() expr.DeclKind {
	switch k {
	case Private:
		return expr.KindPrivate
	case Channel:
		return expr.KindChannel
	case Subprogram:
		return expr.KindSubprogram
	case Renaming:
		return expr.KindRenaming
	default:
		return expr.KindVariable
	}
}

func (k Kind) entityName() string {
	switch k {
	case Private:
		return "private"
	case Channel:
		return "channel"
	case Subprogram:
		return "subprogram"
	case Renaming:
		return "renames"
	default:
		return "variable"
	}
}

// Declaration is one entry of the environment.
type Declaration struct {
	Identifier ident.ID
	Kind       Kind
	Type       rflxtype.Type // nil for Subprogram/Renaming where unused here
	Readable   bool          // Channel only
	Writable   bool          // Channel only
	Target     expr.Expr     // Renaming only: the expression being renamed
	Loc        ident.Location

	referenced bool
}

// Referenced reports whether this declaration was ever looked up via
// Env.MarkReferenced (directly, or through an expression's Validate).
func (d *Declaration) Referenced() bool { return d.referenced }

// Env is a flat declaration scope. It implements expr.Environment so
// expressions can validate free variables, calls and channel uses
// against it directly.
type Env struct {
	order []ident.ID
	byKey map[string]*Declaration
}

func New() *Env { return &Env{byKey: make(map[string]*Declaration)} }

// Declare adds d to the environment, reporting a redeclaration error if
// its identifier is already present (shadowing within one scope is
// always an error, unlike a nested scope shadowing an outer one, which
// internal/session reports separately with its own message).
func (e *Env) Declare(d Declaration, bag *diag.Bag) {
	if e.byKey == nil {
		e.byKey = make(map[string]*Declaration)
	}
	k := d.Identifier.Key()
	if _, exists := e.byKey[k]; exists {
		bag.Append(fmt.Sprintf("redeclaration of %q", d.Identifier.String()), diag.Model, diag.Error, d.Loc)
		return
	}
	dd := d
	e.byKey[k] = &dd
	e.order = append(e.order, d.Identifier)
}

// Lookup implements expr.Environment.
func (e *Env) Lookup(id ident.ID) (expr.DeclKind, bool) {
	d, ok := e.byKey[id.Key()]
	if !ok {
		return 0, false
	}
	return d.Kind.expr(), true
}

// MarkReferenced implements expr.Environment.
func (e *Env) MarkReferenced(id ident.ID) {
	if d, ok := e.byKey[id.Key()]; ok {
		d.referenced = true
	}
}

// ChannelDirection implements expr.Environment.
func (e *Env) ChannelDirection(id ident.ID) (readable, writable, ok bool) {
	d, found := e.byKey[id.Key()]
	if !found || d.Kind != Channel {
		return false, false, false
	}
	return d.Readable, d.Writable, true
}

// Get returns the declaration for id, if any.
func (e *Env) Get(id ident.ID) (*Declaration, bool) {
	d, ok := e.byKey[id.Key()]
	return d, ok
}

// Declarations returns every declaration in insertion order.
func (e *Env) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(e.order))
	for _, id := range e.order {
		if d, ok := e.byKey[id.Key()]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ValidateReserved reports an error for any declaration whose name
// shadows a reserved builtin subprogram or boolean literal name.
func (e *Env) ValidateReserved(bag *diag.Bag) {
	for _, d := range e.Declarations() {
		name := d.Identifier.Name()
		for _, reserved := range config.ReservedNames {
			if strings.EqualFold(name, reserved) {
				bag.Append(fmt.Sprintf("%s declaration shadows builtin subprogram %q", d.Kind.entityName(), reserved), diag.Model, diag.Error, d.Loc)
			}
		}
		if strings.EqualFold(name, config.LiteralTrue) || strings.EqualFold(name, config.LiteralFalse) {
			bag.Append(fmt.Sprintf("%s declaration shadows boolean literal %q", d.Kind.entityName(), name), diag.Model, diag.Error, d.Loc)
		}
		if strings.EqualFold(name, config.BooleanType) {
			bag.Append(fmt.Sprintf("%s declaration shadows builtin type %q", d.Kind.entityName(), name), diag.Model, diag.Error, d.Loc)
		}
	}
}

// ValidateUnused reports an error for every declaration that was never
// referenced, skipping Private declarations — a private declaration is a
// forward-declared implementation detail of a subprogram body that this
// module does not analyze, so "unused" cannot be determined for it (the
// same carve-out the validator this is ported from applies).
func (e *Env) ValidateUnused(bag *diag.Bag) {
	for _, d := range e.Declarations() {
		if d.Kind == Private {
			continue
		}
		if !d.referenced {
			bag.Append(fmt.Sprintf("unused %s %q", d.Kind.entityName(), d.Identifier.String()), diag.Model, diag.Error, d.Loc)
		}
	}
}

// ValidateTargets validates every Renaming declaration's target
// expression against env itself, so forward references within one scope
// are still caught. Declaration types are not validated here.
func (e *Env) ValidateTargets(bag *diag.Bag) {
	for _, d := range e.Declarations() {
		if d.Kind == Renaming && d.Target != nil {
			d.Target.Validate(e, bag)
		}
	}
}
