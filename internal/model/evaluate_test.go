package model

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/decl"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/graph"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/rflxtype"
)

// envWithX returns a declaration environment with a single Variable "X"
// of the given type, for validating edge conditions that reference it.
func envWithX(t *testing.T, typ rflxtype.Type) *decl.Env {
	t.Helper()
	env := decl.New()
	bag := &diag.Bag{}
	env.Declare(decl.Declaration{Identifier: ident.Parse("X"), Kind: decl.Variable, Type: typ}, bag)
	if bag.HasErrors() {
		t.Fatalf("declaring X failed: %v", bag.Diagnostics())
	}
	return env
}

func byteType(t *testing.T) rflxtype.ModularInteger {
	t.Helper()
	m, err := rflxtype.NewModularInteger("Byte", 256)
	if err != nil {
		t.Fatalf("NewModularInteger(256) failed: %v", err)
	}
	return m
}

// TestEvaluateLinearMessage walks a two-field message A -> B -> Final and
// checks the computed First/Last offsets.
func TestEvaluateLinearMessage(t *testing.T) {
	byte_ := byteType(t)
	g := graph.New("Frame")
	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge("B")}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})

	facts, bag := Evaluate(g)
	if bag.HasErrors() {
		t.Fatalf("Evaluate reported errors: %v", bag.Diagnostics())
	}

	a := facts["A"]
	if len(a) != 1 {
		t.Fatalf("facts[A] has %d variants, want 1", len(a))
	}
	if got, want := a[0].First.Simplified().Str(), "1"; got != want {
		t.Errorf("A.First = %q, want %q", got, want)
	}
	if got, want := a[0].Last.Simplified().Str(), "8"; got != want {
		t.Errorf("A.Last = %q, want %q", got, want)
	}

	b := facts["B"]
	if len(b) != 1 {
		t.Fatalf("facts[B] has %d variants, want 1", len(b))
	}
	if got, want := b[0].First.Simplified().Str(), "9"; got != want {
		t.Errorf("B.First = %q, want %q", got, want)
	}
}

// TestEvaluateCyclicMessageErrors is scenario S5: a message whose graph
// loops back on itself is rejected with a cyclic-definition diagnostic.
func TestEvaluateCyclicMessageErrors(t *testing.T) {
	byte_ := byteType(t)
	g := graph.New("Loop")
	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge("B")}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge("A")}})

	_, bag := Evaluate(g)
	if !bag.HasErrors() {
		t.Fatal("Evaluate on a cyclic graph should report an error")
	}
}

func TestEvaluateUndeclaredTargetErrors(t *testing.T) {
	byte_ := byteType(t)
	g := graph.New("Frame")
	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge("Missing")}})

	_, bag := Evaluate(g)
	if !bag.HasErrors() {
		t.Fatal("Evaluate with an undeclared edge target should report an error")
	}
}

func TestEvaluateNoInitialFieldErrors(t *testing.T) {
	g := graph.New("Empty")
	_, bag := Evaluate(g)
	if !bag.HasErrors() {
		t.Fatal("Evaluate on a message with no initial field should report an error")
	}
}

func TestEvaluateBranchingConditionsCombineWithAnd(t *testing.T) {
	byte_ := byteType(t)
	x := expr.NewVariable("X")
	g := graph.New("Frame")
	thenEdge := graph.NewEdge("B")
	thenEdge.Condition = expr.Equal(x, expr.NewNumber(1))
	elseEdge := graph.NewEdge("C")
	elseEdge.Condition = expr.NotEqual(x, expr.NewNumber(1))

	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{thenEdge, elseEdge}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})
	g.AddField(&graph.Field{Name: "C", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})

	facts, bag := Evaluate(g)
	if bag.HasErrors() {
		t.Fatalf("Evaluate reported errors: %v", bag.Diagnostics())
	}
	if len(facts["B"]) != 1 || len(facts["C"]) != 1 {
		t.Fatalf("expected exactly one variant each for B and C, got %v", facts)
	}
	if got, want := facts["B"][0].Condition.Str(), expr.And(expr.Or(thenEdge.Condition, elseEdge.Condition), thenEdge.Condition).Str(); got != want {
		t.Errorf("B.Condition = %q, want %q", got, want)
	}
}

// TestValidateAmbiguousEdges builds a field with two outgoing edges whose
// conditions are simultaneously satisfiable (X = 1 and X >= 0) and checks
// Validate reports the ambiguity as an error.
func TestValidateAmbiguousEdges(t *testing.T) {
	byte_ := byteType(t)
	x := expr.NewVariable("X")
	g := graph.New("Frame")
	thenEdge := graph.NewEdge("B")
	thenEdge.Condition = expr.Equal(x, expr.NewNumber(1))
	elseEdge := graph.NewEdge("C")
	elseEdge.Condition = expr.GreaterEqual(x, expr.NewNumber(0))

	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{thenEdge, elseEdge}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})
	g.AddField(&graph.Field{Name: "C", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})

	bag := Validate(g, envWithX(t, byte_))
	if !bag.HasErrors() {
		t.Fatal("Validate with simultaneously satisfiable edge conditions should report an ambiguity error")
	}
}

// TestValidateMutuallyExclusiveEdgesNotAmbiguous is the §9 Open Question
// scenario: syntactically overlapping but mutually exclusive conditions
// (x < 10 vs x >= 10) must not be flagged as ambiguous.
func TestValidateMutuallyExclusiveEdgesNotAmbiguous(t *testing.T) {
	byte_ := byteType(t)
	x := expr.NewVariable("X")
	g := graph.New("Frame")
	thenEdge := graph.NewEdge("B")
	thenEdge.Condition = expr.Less(x, expr.NewNumber(10))
	elseEdge := graph.NewEdge("C")
	elseEdge.Condition = expr.GreaterEqual(x, expr.NewNumber(10))

	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{thenEdge, elseEdge}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})
	g.AddField(&graph.Field{Name: "C", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})

	bag := Validate(g, envWithX(t, byte_))
	for _, d := range bag.Diagnostics() {
		if d.Severity == diag.Error {
			t.Errorf("unexpected error for mutually exclusive edges: %s", d.Message)
		}
	}
}

// TestValidateIncompleteEdgesWarns builds a field with two outgoing edges
// whose conditions (X = 1, X = 2) do not cover every reachable value and checks
// Validate reports the gap as a warning, not an error.
func TestValidateIncompleteEdgesWarns(t *testing.T) {
	byte_ := byteType(t)
	x := expr.NewVariable("X")
	g := graph.New("Frame")
	thenEdge := graph.NewEdge("B")
	thenEdge.Condition = expr.Equal(x, expr.NewNumber(1))
	elseEdge := graph.NewEdge("C")
	elseEdge.Condition = expr.Equal(x, expr.NewNumber(2))

	g.AddField(&graph.Field{Name: "A", Type: byte_, Outgoing: []graph.Edge{thenEdge, elseEdge}})
	g.AddField(&graph.Field{Name: "B", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})
	g.AddField(&graph.Field{Name: "C", Type: byte_, Outgoing: []graph.Edge{graph.NewEdge(graph.FinalName)}})

	bag := Validate(g, envWithX(t, byte_))
	if bag.HasErrors() {
		t.Fatalf("incomplete edges should warn, not error: %v", bag.Diagnostics())
	}
	found := false
	for _, d := range bag.Diagnostics() {
		if d.Severity == diag.Warning {
			found = true
		}
	}
	if !found {
		t.Fatal("Validate with non-exhaustive edge conditions should report a completeness warning")
	}
}
