package decl

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/ident"
)

func TestDeclareAndLookup(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("X"), Kind: Variable}, &bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Diagnostics())
	}
	kind, ok := env.Lookup(ident.Parse("X"))
	if !ok || kind != expr.KindVariable {
		t.Fatalf("Lookup(X) = (%v, %v), want (KindVariable, true)", kind, ok)
	}
}

func TestDeclareRedeclarationErrors(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("X"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("X"), Kind: Variable}, &bag)
	if !bag.HasErrors() {
		t.Fatalf("redeclaring X should have produced an error")
	}
}

func TestMarkReferencedAndValidateUnused(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("Used"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("Unused"), Kind: Variable}, &bag)
	env.MarkReferenced(ident.Parse("Used"))

	var unused diag.Bag
	env.ValidateUnused(&unused)
	if len(unused.Diagnostics()) != 1 {
		t.Fatalf("ValidateUnused produced %d diagnostics, want 1: %v", len(unused.Diagnostics()), unused.Diagnostics())
	}
}

func TestValidateUnusedSkipsPrivate(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("Impl"), Kind: Private}, &bag)

	var unused diag.Bag
	env.ValidateUnused(&unused)
	if unused.HasErrors() {
		t.Fatalf("a never-referenced Private declaration should not be reported unused: %v", unused.Diagnostics())
	}
}

func TestChannelDirection(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("C"), Kind: Channel, Readable: true, Writable: false}, &bag)

	readable, writable, ok := env.ChannelDirection(ident.Parse("C"))
	if !ok || !readable || writable {
		t.Fatalf("ChannelDirection(C) = (%v, %v, %v), want (true, false, true)", readable, writable, ok)
	}

	if _, _, ok := env.ChannelDirection(ident.Parse("NotAChannel")); ok {
		t.Errorf("ChannelDirection on an undeclared name should report ok=false")
	}
}

func TestValidateReservedRejectsBuiltinAndBooleanNames(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("Read"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("True"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("Boolean"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("Ok"), Kind: Variable}, &bag)

	var reserved diag.Bag
	env.ValidateReserved(&reserved)
	if len(reserved.Diagnostics()) != 3 {
		t.Fatalf("ValidateReserved produced %d diagnostics, want 3 (Read, True, Boolean): %v", len(reserved.Diagnostics()), reserved.Diagnostics())
	}
}

func TestValidateTargetsValidatesRenamingExpression(t *testing.T) {
	env := New()
	var bag diag.Bag
	env.Declare(Declaration{Identifier: ident.Parse("X"), Kind: Variable}, &bag)
	env.Declare(Declaration{Identifier: ident.Parse("Alias"), Kind: Renaming, Target: expr.NewVariable("Undeclared")}, &bag)

	var targets diag.Bag
	env.ValidateTargets(&targets)
	if !targets.HasErrors() {
		t.Fatalf("renaming target referencing an undeclared variable should error")
	}
}

func TestDeclarationsPreservesInsertionOrder(t *testing.T) {
	env := New()
	var bag diag.Bag
	names := []string{"C", "A", "B"}
	for _, n := range names {
		env.Declare(Declaration{Identifier: ident.Parse(n), Kind: Variable}, &bag)
	}
	got := env.Declarations()
	if len(got) != 3 {
		t.Fatalf("Declarations() returned %d entries, want 3", len(got))
	}
	for i, n := range names {
		if got[i].Identifier.String() != n {
			t.Errorf("Declarations()[%d] = %q, want %q", i, got[i].Identifier.String(), n)
		}
	}
}
