// Package expr implements the symbolic expression algebra: a closed tree
// of boolean, arithmetic and relational terms with a canonical string
// form, free-variable collection, substitution and simplification.
package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// Environment is the narrow view of a declaration environment that the
// expression algebra needs in order to validate free variables, calls and
// channel attribute uses. internal/decl.Env implements this interface;
// expr does not import decl directly so that decl (which embeds
// expressions in Renaming and default-value declarations) can import expr
// without forming a cycle.
type Environment interface {
	// Lookup reports whether id is declared, and if so its kind.
	Lookup(id ident.ID) (DeclKind, bool)
	// MarkReferenced records that id was used, for unused-declaration
	// detection performed later by the declaration environment itself.
	MarkReferenced(id ident.ID)
	// ChannelDirection reports the readable/writable aspect of a Channel
	// declaration, used to validate Read/Write/Call/Data_Available calls.
	ChannelDirection(id ident.ID) (readable, writable, ok bool)
}

// DeclKind is the narrow classification Validate needs; it mirrors
// internal/decl.Kind without importing it.
type DeclKind int

const (
	KindVariable DeclKind = iota
	KindPrivate
	KindChannel
	KindSubprogram
	KindRenaming
)

// Precedence orders operators for canonical-string parenthesization;
// a higher value binds more loosely.
type Precedence int

const (
	PrecLiteral Precedence = iota
	PrecSelector
	PrecUnaryOp
	PrecPower
	PrecProduct
	PrecSum
	PrecRelation
	PrecNot
	PrecAnd
	PrecOr
	PrecIf
	PrecUndefined = -1
)

// Expr is any node of the expression tree.
//
// Str returns the canonical, fully-parenthesized-as-needed string form
// used both for display and for structural equality (two expressions are
// Equal iff their Str matches).
//
// Variables returns every free Variable reachable from this node,
// without duplicates, in a stable (first-seen) order.
//
// Simplified returns a rewritten, idempotent form: Simplified(Simplified(e))
// always equals Simplified(e).
//
// Substituted applies f to every subexpression, replacing a node with
// whatever f returns for it (f returns its argument unchanged for nodes
// it does not want to replace). Children are substituted first and f is
// then applied to the rebuilt node; the node f returns is not substituted
// again.
// spec.md §4.C offers substitution as either a mapping or a function,
// rejecting a call that supplies both or neither with InvalidSubstitution;
// this port collapses that to the function form only, since a mapping is
// just `func(e Expr) Expr { if v, ok := m[e.Str()]; ok { return v }; return e }`
// away, and a single-parameter signature has nothing left for
// InvalidSubstitution to reject (there is no second argument to omit or
// supply by mistake).
//
// Validate checks that every free variable, call and attribute use in the
// expression is consistent with env, appending problems to bag.
type Expr interface {
	Str() string
	Precedence() Precedence
	Location() ident.Location
	Variables() []ident.ID
	FindAll(pred func(Expr) bool) []Expr
	Substituted(f func(Expr) Expr) Expr
	Simplified() Expr
	Validate(env Environment, bag *diag.Bag)
}

// StructEqual compares two expressions structurally, via their canonical
// string form, exactly as the algebra this is grounded on does.
func StructEqual(a, b Expr) bool {
	return a.Str() == b.Str()
}

// FindAllDefault walks e's immediate children collected by walk and
// applies pred to e itself and recursively to its children. Concrete
// node types call this from their FindAll implementation, passing their
// own children.
func FindAllDefault(e Expr, pred func(Expr) bool, children ...Expr) []Expr {
	var out []Expr
	if pred(e) {
		out = append(out, e)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		out = append(out, c.FindAll(pred)...)
	}
	return out
}

// parenthesize wraps s in parentheses if the child's precedence binds
// looser than the parent's, matching the original's bracketing rule.
func parenthesize(parent Precedence, child Expr) string {
	if child.Precedence() > parent {
		return "(" + child.Str() + ")"
	}
	return child.Str()
}
