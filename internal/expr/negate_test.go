package expr

import "testing"

// TestNegationInvolution is testable property 3: negate(negate(e)) ≡ e
// under simplification, for every negatable e.
func TestNegationInvolution(t *testing.T) {
	x := NewVariable("X")
	cases := []Expr{
		NewNumber(5),
		x,
		Add(x, NewNumber(3)),
		Mul(x, NewNumber(2)),
		Less(x, NewNumber(10)),
		And(Less(x, NewNumber(1)), Less(x, NewNumber(2))),
		TRUE,
	}
	for _, e := range cases {
		once, err := Negate(e)
		if err != nil {
			t.Fatalf("Negate(%s) failed: %v", e.Str(), err)
		}
		twice, err := Negate(once)
		if err != nil {
			t.Fatalf("Negate(Negate(%s)) failed: %v", e.Str(), err)
		}
		if got, want := twice.Simplified().Str(), e.Simplified().Str(); got != want {
			t.Errorf("negate(negate(%s)) simplified to %q, want %q", e.Str(), got, want)
		}
	}
}

func TestNegateVariableTogglesFlag(t *testing.T) {
	x := NewVariable("X")
	neg, err := Negate(x)
	if err != nil {
		t.Fatalf("Negate(X) failed: %v", err)
	}
	v, ok := neg.(Variable)
	if !ok || !v.Negative {
		t.Fatalf("Negate(X) = %#v, want a Variable with Negative=true", neg)
	}
}

func TestNegateUndefinedForControlAndAggregateNodes(t *testing.T) {
	nodes := []Expr{
		NewIf(TRUE, NewNumber(1), NewNumber(2)),
		Case{Control: NewVariable("X"), Alternatives: []CaseAlternative{
			{Choices: []Expr{NewNumber(1)}, Result: NewNumber(2)},
		}},
		ForAllIn("I", NewVariable("Xs"), TRUE),
		NewAggregate(NewNumber(1), NewNumber(2)),
	}
	for _, n := range nodes {
		_, err := Negate(n)
		if err == nil {
			t.Errorf("Negate(%s) succeeded, want NegationUndefinedError", n.Str())
			continue
		}
		if _, ok := err.(NegationUndefinedError); !ok {
			t.Errorf("Negate(%s) returned %T, want NegationUndefinedError", n.Str(), err)
		}
	}
}

func TestNegateDeMorgan(t *testing.T) {
	x, y := NewVariable("X"), NewVariable("Y")
	a := Less(x, NewNumber(1))
	b := Less(y, NewNumber(1))
	got, err := Negate(And(a, b))
	if err != nil {
		t.Fatalf("Negate(And(a,b)) failed: %v", err)
	}
	bo, ok := got.(BoolOp)
	if !ok || !bo.isOr() {
		t.Fatalf("Negate(And(a,b)) = %#v, want an Or", got)
	}
}
