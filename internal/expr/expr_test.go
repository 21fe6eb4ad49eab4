package expr

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// fakeEnv is a minimal Environment for exercising Validate without
// depending on internal/decl, which itself imports this package.
type fakeEnv struct {
	known      map[string]DeclKind
	channels   map[string][2]bool // readable, writable
	referenced map[string]bool
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		known:      map[string]DeclKind{},
		channels:   map[string][2]bool{},
		referenced: map[string]bool{},
	}
}

func (e *fakeEnv) declare(name string, kind DeclKind) {
	e.known[name] = kind
}

func (e *fakeEnv) declareChannel(name string, readable, writable bool) {
	e.known[name] = KindChannel
	e.channels[name] = [2]bool{readable, writable}
}

func (e *fakeEnv) Lookup(id ident.ID) (DeclKind, bool) {
	k, ok := e.known[id.String()]
	return k, ok
}

func (e *fakeEnv) MarkReferenced(id ident.ID) {
	e.referenced[id.String()] = true
}

func (e *fakeEnv) ChannelDirection(id ident.ID) (readable, writable, ok bool) {
	d, found := e.channels[id.String()]
	if !found {
		return false, false, false
	}
	return d[0], d[1], true
}

func TestVariablesDeduplicates(t *testing.T) {
	x := NewVariable("X")
	e := Add(x, Add(NewNumber(1), x))
	vars := e.Variables()
	if len(vars) != 1 {
		t.Fatalf("Variables() = %v, want exactly one distinct variable", vars)
	}
}

func TestFindAll(t *testing.T) {
	e := Add(NewVariable("X"), Mul(NewVariable("Y"), NewNumber(2)))
	found := e.FindAll(func(n Expr) bool {
		_, ok := n.(Variable)
		return ok
	})
	if len(found) != 2 {
		t.Fatalf("FindAll(isVariable) returned %d nodes, want 2: %v", len(found), found)
	}
}

func TestSubstituted(t *testing.T) {
	x := NewVariable("X")
	e := Add(x, NewNumber(1))
	out := e.Substituted(func(n Expr) Expr {
		if v, ok := n.(Variable); ok && v.Name.String() == "X" {
			return NewNumber(41)
		}
		return n
	})
	if got := out.Simplified().Str(); got != "42" {
		t.Errorf("substitute-then-simplify = %q, want %q", got, "42")
	}
}

func TestSubstitutedIdentityOnEmptyMap(t *testing.T) {
	e := Add(NewVariable("X"), NewNumber(1))
	out := e.Substituted(func(n Expr) Expr { return n })
	if out.Str() != e.Str() {
		t.Errorf("substituting the identity function changed the expression: %q != %q", out.Str(), e.Str())
	}
}

func TestImmutableVariableOpaqueToSubstitution(t *testing.T) {
	bound := NewImmutableVariable("X")
	out := bound.Substituted(func(n Expr) Expr { return NewNumber(0) })
	if out.Str() != "X" {
		t.Errorf("Substituted on an immutable Variable = %q, want unchanged %q", out.Str(), "X")
	}
}

func TestStructEqual(t *testing.T) {
	a := Add(NewVariable("X"), NewNumber(1))
	b := Add(NewVariable("X"), NewNumber(1))
	c := Add(NewVariable("X"), NewNumber(2))
	if !StructEqual(a, b) {
		t.Errorf("structurally identical expressions should be StructEqual")
	}
	if StructEqual(a, c) {
		t.Errorf("structurally different expressions should not be StructEqual")
	}
}

func TestVariableValidateUndeclared(t *testing.T) {
	env := newFakeEnv()
	var bag diag.Bag
	NewVariable("Unknown").Validate(env, &bag)
	if !bag.HasErrors() {
		t.Errorf("validating an undeclared variable should produce an error")
	}
}

func TestVariableValidateMarksReferenced(t *testing.T) {
	env := newFakeEnv()
	env.declare("X", KindVariable)
	var bag diag.Bag
	NewVariable("X").Validate(env, &bag)
	if bag.HasErrors() {
		t.Fatalf("validating a declared variable should not error: %v", bag.Diagnostics())
	}
	if !env.referenced["X"] {
		t.Errorf("Validate should mark the variable as referenced")
	}
}

func TestCallChannelDirection(t *testing.T) {
	env := newFakeEnv()
	env.declareChannel("C", true, false)
	var bag diag.Bag
	NewCall(ident.Parse("Write"), NewVariable("C")).Validate(env, &bag)
	if !bag.HasErrors() {
		t.Errorf("Write on a read-only channel should be an error")
	}

	var okBag diag.Bag
	NewCall(ident.Parse("Read"), NewVariable("C")).Validate(env, &okBag)
	if okBag.HasErrors() {
		t.Errorf("Read on a readable channel should not error: %v", okBag.Diagnostics())
	}
}

func TestPrecedenceParenthesization(t *testing.T) {
	e := Mul(Add(NewVariable("X"), NewNumber(1)), NewNumber(2))
	if got, want := e.Str(), "(X + 1) * 2"; got != want {
		t.Errorf("Str() = %q, want %q", got, want)
	}
}
