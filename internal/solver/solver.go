// Package solver bridges the expression algebra to an SMT solver for
// satisfiability and validity proofs over linear integer arithmetic,
// with unsat-core extraction so a failed proof can point at which of its
// assumptions conflict.
package solver

import (
	"fmt"

	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/mitchellh/go-z3"
)

// Outcome classifies a Proof's result.
type Outcome int

const (
	Sat Outcome = iota
	Unsat
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Result is the outcome of one proof, plus — for Unsat — the subset of
// the input facts that were actually needed to derive the contradiction.
type Result struct {
	Outcome   Outcome
	UnsatCore []string
}

// Proof checks whether the conjunction of facts is satisfiable. Each
// fact is tracked under its own label (its canonical string form) so
// that, on Unsat, the solver's unsat core names exactly the facts it
// used — the rest of the conjunction was irrelevant to the contradiction.
//
// A fresh Config/Context/Solver is created per call: proofs in this
// package never share solver state, so one proof's assumptions can never
// leak into another's, matching the discipline the expression algebra
// this is ported from follows (it never holds a solver across calls).
func Proof(facts []expr.Expr) (Result, error) {
	config := z3.NewConfig()
	defer config.Close()
	ctx := z3.NewContext(config)
	defer ctx.Close()

	s := ctx.NewSolver()
	defer s.Close()

	tr := newTranslator(ctx)
	labels := make([]*z3.AST, 0, len(facts))
	labelNames := make([]string, 0, len(facts))
	for _, f := range facts {
		term, err := tr.translate(f)
		if err != nil {
			return Result{}, err
		}
		label := ctx.Const(ctx.Symbol(f.Str()), ctx.BoolSort())
		s.AssertAndTrack(term, label)
		labels = append(labels, label)
		labelNames = append(labelNames, f.Str())
	}

	switch s.Check() {
	case z3.True:
		return Result{Outcome: Sat}, nil
	case z3.False:
		core := s.UnsatCore()
		var names []string
		for _, c := range core {
			for i, l := range labels {
				if c == l {
					names = append(names, labelNames[i])
				}
			}
		}
		return Result{Outcome: Unsat, UnsatCore: names}, nil
	default:
		return Result{Outcome: Unknown}, nil
	}
}

// Valid checks whether e holds under every assignment, by proving that
// its negation is unsatisfiable.
func Valid(e expr.Expr) (bool, error) {
	res, err := Proof([]expr.Expr{expr.NewNot(e)})
	if err != nil {
		return false, err
	}
	return res.Outcome == Unsat, nil
}

// translator lowers expression-algebra terms into z3 terms. Constructs
// that have no arithmetic/boolean meaning at the logic level (message
// field selection, Valid/Present/Data_Available attributes, calls,
// aggregates) are translated as opaque boolean or integer constants keyed
// by their canonical string form: the solver then reasons about them only
// through whatever relations the caller asserts between them. The one
// exception is the Valid_Checksum attribute, which translates to True.
type translator struct {
	ctx     *z3.Context
	opaque  map[string]*z3.AST
}

func newTranslator(ctx *z3.Context) *translator {
	return &translator{ctx: ctx, opaque: map[string]*z3.AST{}}
}

func (t *translator) opaqueInt(key string) *z3.AST {
	if v, ok := t.opaque[key]; ok {
		return v
	}
	v := t.ctx.Const(t.ctx.Symbol(key), t.ctx.IntSort())
	t.opaque[key] = v
	return v
}

func (t *translator) opaqueBool(key string) *z3.AST {
	if v, ok := t.opaque[key]; ok {
		return v
	}
	v := t.ctx.Const(t.ctx.Symbol(key), t.ctx.BoolSort())
	t.opaque[key] = v
	return v
}

func (t *translator) translate(e expr.Expr) (*z3.AST, error) {
	switch v := e.(type) {
	case expr.BooleanLiteral:
		if v.Value {
			return t.ctx.True(), nil
		}
		return t.ctx.False(), nil
	case expr.Number:
		return t.ctx.Int(int(v.Value), t.ctx.IntSort()), nil
	case expr.Variable:
		return t.opaqueInt(v.Str()), nil
	case expr.Not:
		inner, err := t.translate(v.Operand)
		if err != nil {
			return nil, err
		}
		return inner.Not(), nil
	case expr.BoolOp:
		l, err := t.translate(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := t.translate(v.Right)
		if err != nil {
			return nil, err
		}
		if v.IsAnd() {
			return l.And(r), nil
		}
		return l.Or(r), nil
	case expr.Relation:
		// In/NotIn have no arithmetic-comparison meaning at the logic
		// level (spec.md §4.E lists them among the opaque constructs,
		// alongside Indexed/Slice/Selected/Call/Aggregate/quantifiers):
		// they translate to an opaque boolean keyed by their own string
		// form rather than a solver comparison.
		if v.Op == "in" || v.Op == "not in" {
			return t.opaqueBool(v.Str()), nil
		}
		l, err := t.translateArith(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := t.translateArith(v.Right)
		if err != nil {
			return nil, err
		}
		switch v.Op {
		case "=":
			return l.Eq(r), nil
		case "/=":
			return l.Eq(r).Not(), nil
		case "<":
			return l.Lt(r), nil
		case "<=":
			return l.Le(r), nil
		case ">":
			return l.Gt(r), nil
		case ">=":
			return l.Ge(r), nil
		}
		return nil, fmt.Errorf("unsupported relation operator %q", v.Op)
	case expr.If:
		// An elsif chain unfolds right-associatively into nested
		// if-then-else, the same direction Case does, with the trailing
		// Else (or, absent one, an opaque placeholder) as the innermost
		// branch.
		return t.translateIf(v)
	case expr.Case:
		// Case unfolds right-associatively into nested if-then-else,
		// per spec.md §4.E: the last alternative becomes the innermost
		// else, matching the "when others" catch-all arm.
		return t.translateCase(v)
	case expr.Attribute:
		if v.Kind == "Valid_Checksum" {
			return t.ctx.True(), nil
		}
		return t.opaqueBool(e.Str()), nil
	default:
		// Anything else (other attributes, calls, aggregates, quantifiers) is
		// outside this package's logic fragment; treat it as an opaque
		// boolean so it can still participate in And/Or/Not with
		// genuinely arithmetic facts.
		return t.opaqueBool(e.Str()), nil
	}
}

// translateIf lowers an If expression to a boolean term by unfolding its
// elsif chain right-associatively: the last branch wraps the Else (or,
// absent one, an opaque placeholder standing for the missing value), and
// each earlier branch's condition wraps that in turn.
func (t *translator) translateIf(i expr.If) (*z3.AST, error) {
	var acc *z3.AST
	var err error
	if i.Else != nil {
		acc, err = t.translate(i.Else)
		if err != nil {
			return nil, err
		}
	} else {
		acc = t.opaqueBool(i.Str())
	}
	for idx := len(i.Branches) - 1; idx >= 0; idx-- {
		b := i.Branches[idx]
		cond, err := t.translate(b.Cond)
		if err != nil {
			return nil, err
		}
		then, err := t.translate(b.Then)
		if err != nil {
			return nil, err
		}
		acc = cond.Ite(then, acc)
	}
	return acc, nil
}

// translateIfArith is translateIf's arithmetic-valued counterpart.
func (t *translator) translateIfArith(i expr.If) (*z3.AST, error) {
	var acc *z3.AST
	var err error
	if i.Else != nil {
		acc, err = t.translateArith(i.Else)
		if err != nil {
			return nil, err
		}
	} else {
		acc = t.opaqueInt(i.Str())
	}
	for idx := len(i.Branches) - 1; idx >= 0; idx-- {
		b := i.Branches[idx]
		cond, err := t.translate(b.Cond)
		if err != nil {
			return nil, err
		}
		then, err := t.translateArith(b.Then)
		if err != nil {
			return nil, err
		}
		acc = cond.Ite(then, acc)
	}
	return acc, nil
}

// translateCase lowers a Case expression to a boolean term by unfolding
// right-associatively: the first alternative becomes the outer
// condition, the last becomes the innermost (and only) else branch.
func (t *translator) translateCase(c expr.Case) (*z3.AST, error) {
	if len(c.Alternatives) == 0 {
		return nil, fmt.Errorf("case expression with no alternatives")
	}
	last := c.Alternatives[len(c.Alternatives)-1]
	acc, err := t.translate(last.Result)
	if err != nil {
		return nil, err
	}
	for i := len(c.Alternatives) - 2; i >= 0; i-- {
		alt := c.Alternatives[i]
		cond, err := t.choiceCond(c.Control, alt.Choices)
		if err != nil {
			return nil, err
		}
		then, err := t.translate(alt.Result)
		if err != nil {
			return nil, err
		}
		acc = cond.Ite(then, acc)
	}
	return acc, nil
}

// translateCaseArith is translateCase's arithmetic-valued counterpart,
// used when a Case expression itself denotes an integer (e.g. a field's
// Length defined by a case split on a discriminant).
func (t *translator) translateCaseArith(c expr.Case) (*z3.AST, error) {
	if len(c.Alternatives) == 0 {
		return nil, fmt.Errorf("case expression with no alternatives")
	}
	last := c.Alternatives[len(c.Alternatives)-1]
	acc, err := t.translateArith(last.Result)
	if err != nil {
		return nil, err
	}
	for i := len(c.Alternatives) - 2; i >= 0; i-- {
		alt := c.Alternatives[i]
		cond, err := t.choiceCond(c.Control, alt.Choices)
		if err != nil {
			return nil, err
		}
		then, err := t.translateArith(alt.Result)
		if err != nil {
			return nil, err
		}
		acc = cond.Ite(then, acc)
	}
	return acc, nil
}

// choiceCond builds the disjunction of `control = choice` over one
// alternative's (possibly multiple, `|`-separated) choices.
func (t *translator) choiceCond(control expr.Expr, choices []expr.Expr) (*z3.AST, error) {
	ctrl, err := t.translateArith(control)
	if err != nil {
		return nil, err
	}
	var acc *z3.AST
	for _, ch := range choices {
		chTerm, err := t.translateArith(ch)
		if err != nil {
			return nil, err
		}
		eq := ctrl.Eq(chTerm)
		if acc == nil {
			acc = eq
		} else {
			acc = acc.Or(eq)
		}
	}
	return acc, nil
}

func (t *translator) translateArith(e expr.Expr) (*z3.AST, error) {
	switch v := e.(type) {
	case expr.Number:
		return t.ctx.Int(int(v.Value), t.ctx.IntSort()), nil
	case expr.Variable:
		return t.opaqueInt(v.Str()), nil
	case expr.If:
		return t.translateIfArith(v)
	case expr.Case:
		return t.translateCaseArith(v)
	case expr.BinOp:
		l, err := t.translateArith(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := t.translateArith(v.Right)
		if err != nil {
			return nil, err
		}
		switch v.Op {
		case "+":
			return l.Add(r), nil
		case "-":
			return l.Sub(r), nil
		case "*":
			return l.Mul(r), nil
		case "/":
			return l.Div(r), nil
		case "mod":
			return l.Mod(r), nil
		}
		return nil, fmt.Errorf("unsupported arithmetic operator %q", v.Op)
	default:
		return t.opaqueInt(e.Str()), nil
	}
}
