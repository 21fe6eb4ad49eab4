package solver

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/expr"
)

func TestProofSatisfiable(t *testing.T) {
	x := expr.NewVariable("X")
	fact := expr.Less(x, expr.NewNumber(10))
	res, err := Proof([]expr.Expr{fact})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Outcome != Sat {
		t.Errorf("Outcome = %v, want Sat", res.Outcome)
	}
}

func TestProofUnsatisfiable(t *testing.T) {
	x := expr.NewVariable("X")
	res, err := Proof([]expr.Expr{
		expr.Less(x, expr.NewNumber(0)),
		expr.GreaterEqual(x, expr.NewNumber(0)),
	})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Outcome != Unsat {
		t.Errorf("Outcome = %v, want Unsat", res.Outcome)
	}
	if len(res.UnsatCore) == 0 {
		t.Error("Unsat result should report a non-empty unsat core")
	}
}

func TestValidTautology(t *testing.T) {
	x := expr.NewVariable("X")
	ok, err := Valid(expr.GreaterEqual(x, x))
	if err != nil {
		t.Fatalf("Valid failed: %v", err)
	}
	if !ok {
		t.Error("X >= X should be valid")
	}
}

func TestValidNotATautology(t *testing.T) {
	x := expr.NewVariable("X")
	ok, err := Valid(expr.Greater(x, expr.NewNumber(0)))
	if err != nil {
		t.Fatalf("Valid failed: %v", err)
	}
	if ok {
		t.Error("X > 0 is not valid for every X")
	}
}

func TestProofCaseUnfolding(t *testing.T) {
	x := expr.NewVariable("X")
	c := expr.Case{
		Control: x,
		Alternatives: []expr.CaseAlternative{
			{Choices: []expr.Expr{expr.NewNumber(1)}, Result: expr.TRUE},
			{Choices: []expr.Expr{expr.NewNumber(2)}, Result: expr.FALSE},
		},
	}
	res, err := Proof([]expr.Expr{expr.Equal(x, expr.NewNumber(1)), c})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Outcome != Sat {
		t.Errorf("Outcome = %v, want Sat (X=1 selects the True branch)", res.Outcome)
	}

	res2, err := Proof([]expr.Expr{expr.Equal(x, expr.NewNumber(2)), c})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res2.Outcome != Unsat {
		t.Errorf("Outcome = %v, want Unsat (X=2 selects the False branch)", res2.Outcome)
	}
}

func TestProofIfChainUnfolding(t *testing.T) {
	x := expr.NewVariable("X")
	chain := expr.NewIfChain([]expr.IfBranch{
		{Cond: expr.Less(x, expr.NewNumber(0)), Then: expr.FALSE},
		{Cond: expr.Equal(x, expr.NewNumber(0)), Then: expr.TRUE},
	}, expr.FALSE)

	res, err := Proof([]expr.Expr{expr.Equal(x, expr.NewNumber(0)), chain})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Outcome != Sat {
		t.Errorf("Outcome = %v, want Sat (X=0 selects the elsif branch, which is True)", res.Outcome)
	}

	res2, err := Proof([]expr.Expr{expr.Equal(x, expr.NewNumber(1)), chain})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res2.Outcome != Unsat {
		t.Errorf("Outcome = %v, want Unsat (X=1 falls through to the False else)", res2.Outcome)
	}
}

func TestProofInIsOpaque(t *testing.T) {
	x := expr.NewVariable("X")
	set := expr.NewAggregate(expr.NewNumber(1), expr.NewNumber(2))
	res, err := Proof([]expr.Expr{expr.In(x, set)})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Outcome != Sat {
		t.Errorf("Outcome = %v, want Sat (an opaque boolean constant is freely satisfiable)", res.Outcome)
	}
}
