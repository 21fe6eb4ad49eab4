// Package model implements the message-model evaluator: a depth-first
// walk of a message graph that computes, for every reachable field, the
// set of (First, Last, Condition) facts under which that field occurs.
package model

import (
	"fmt"

	"github.com/Componolit/RecordFlux/internal/decl"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/graph"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/solver"
)

// Variant is one way a field can be positioned in the message: the bit
// offset of its first bit, its last bit, and the path condition under
// which that position applies.
type Variant struct {
	First     expr.Expr
	Last      expr.Expr
	Condition expr.Expr
}

// Facts maps each reachable field name to every Variant under which it
// occurs. A field reachable by more than one path has more than one
// Variant, one per path.
type Facts map[string][]Variant

type visitKey struct {
	from, to string
}

// Evaluate walks g from its Initial field to Final, computing Facts and
// reporting structural problems (unresolvable field length, a cyclic
// path) to bag.
func Evaluate(g *graph.Graph) (Facts, *diag.Bag) {
	facts, bag, _ := evaluateGraph(g)
	return facts, bag
}

// branchPathConds maps each field with more than one outgoing edge to the
// path condition (one entry per reachable path) under which it is reached,
// before the field's own outgoing-edge disjunction is conjoined — the
// context checkAmbiguity/checkCompleteness need, which a Variant's
// Condition cannot supply because it already includes that disjunction.
type branchPathConds map[string][]expr.Expr

func evaluateGraph(g *graph.Graph) (Facts, *diag.Bag, branchPathConds) {
	bag := &diag.Bag{}
	facts := Facts{}
	branches := branchPathConds{}
	if g.Initial == "" {
		bag.Append(fmt.Sprintf("message %q has no initial field", g.Name), diag.Model, diag.Error, g.Loc)
		return facts, bag, branches
	}
	start := expr.NewNumber(1)
	evaluate(g, facts, branches, bag, expr.TRUE, g.Initial, start, nil, nil)
	return facts, bag, branches
}

// evaluate processes node `name` reached at bit offset `first` under path
// condition `allCond`, having arrived via `inEdge` (nil for the initial
// field). `visited` is the set of edges (by source/target pair) already
// traversed on the current path — a repeat means a cycle.
func evaluate(
	g *graph.Graph,
	facts Facts,
	branches branchPathConds,
	bag *diag.Bag,
	allCond expr.Expr,
	name string,
	first expr.Expr,
	inEdge *graph.Edge,
	visited []visitKey,
) {
	if name == graph.FinalName {
		return
	}
	field, ok := g.Fields[name]
	if !ok {
		bag.Append(fmt.Sprintf("reference to undeclared field %q in message %q", name, g.Name), diag.Model, diag.Error, g.Loc)
		return
	}

	length := fieldLength(field, inEdge)
	if length == nil {
		bag.Append(fmt.Sprintf("unable to determine length of field %q in message %q", name, g.Name), diag.Model, diag.Error, field.Loc)
		return
	}
	last := expr.Sub(expr.Add(first, length), expr.NewNumber(1))

	if len(field.Outgoing) == 0 {
		facts[name] = append(facts[name], Variant{First: first.Simplified(), Last: last.Simplified(), Condition: allCond.Simplified()})
		bag.Append(fmt.Sprintf("field %q in message %q has no outgoing edges", name, g.Name), diag.Model, diag.Error, field.Loc)
		return
	}

	if len(field.Outgoing) > 1 {
		branches[name] = append(branches[name], allCond.Simplified())
	}

	// Per spec.md §4.H step 2, N's own path condition also conjoins the
	// disjunction of N's outgoing edge conditions — recorded here and
	// threaded as the parent_path for N's children, so each child's
	// condition already reflects that N did not dead-end.
	childDisjunction := field.Outgoing[0].Condition
	for _, e := range field.Outgoing[1:] {
		childDisjunction = expr.Or(childDisjunction, e.Condition)
	}
	nodeCond := expr.And(allCond, childDisjunction)

	facts[name] = append(facts[name], Variant{First: first.Simplified(), Last: last.Simplified(), Condition: nodeCond.Simplified()})

	for i := range field.Outgoing {
		e := &field.Outgoing[i]
		key := visitKey{from: name, to: e.Target}
		for _, v := range visited {
			if v == key {
				bag.Append(fmt.Sprintf("cyclic message definition %q: %q -> %q", g.Name, name, e.Target), diag.Model, diag.Error, e.Loc)
				return
			}
		}
		nextVisited := append(append([]visitKey(nil), visited...), key)

		nextFirst := first
		_, isUndef := e.First.(expr.UndefinedExpr)
		if !isUndef {
			nextFirst = e.First
		} else {
			nextFirst = expr.Add(first, length)
		}

		nextCond := nodeCond
		if e.Condition != nil {
			nextCond = expr.And(nodeCond, e.Condition)
		}

		evaluate(g, facts, branches, bag, nextCond, e.Target, nextFirst, e, nextVisited)
	}
}

func fieldLength(f *graph.Field, inEdge *graph.Edge) expr.Expr {
	if inEdge != nil {
		if _, isUndef := inEdge.Length.(expr.UndefinedExpr); !isUndef {
			return inEdge.Length
		}
	}
	if size, ok := f.Type.Size(); ok {
		return expr.NewNumber(int64(size))
	}
	return nil
}

// Validate runs Evaluate and additionally checks each edge's Condition is
// a well-formed expression against env (every variable it mentions must
// have been declared as an earlier field or a session parameter; edge
// Length and First expressions are not scope-checked), then discharges
// every variant's First/Length proof obligations and every branching
// field's ambiguity/completeness obligations through the SMT bridge. A
// nil env means the caller has no outer declaration scope (no session
// parameters in play); Validate then scope-checks edge conditions
// against the message's own field names, since conditions legitimately
// reference earlier fields (e.g. "Length = Header.Length").
func Validate(g *graph.Graph, env expr.Environment) *diag.Bag {
	if env == nil {
		env = fieldEnvironment(g)
	}
	facts, bag, branches := evaluateGraph(g)
	for _, f := range g.Fields {
		for _, e := range f.Outgoing {
			e.Condition.Validate(env, bag)
		}
	}
	proveVariants(facts, bag)
	checkBranching(g, branches, bag)
	return bag
}

// fieldEnvironment builds a declaration environment with one Variable
// entry per field of g, so edge conditions referencing sibling fields
// resolve without requiring a session-level declaration for each.
func fieldEnvironment(g *graph.Graph) *decl.Env {
	env := decl.New()
	discard := &diag.Bag{}
	for name, f := range g.Fields {
		env.Declare(decl.Declaration{
			Identifier: ident.Parse(name),
			Kind:       decl.Variable,
			Type:       f.Type,
			Loc:        f.Loc,
		}, discard)
	}
	return env
}

// proveVariants discharges `condition ⇒ First ≥ 0` and
// `condition ⇒ Last ≥ First - 1` (equivalently Length ≥ 0) for every
// variant of every field, per the model evaluator's proof-obligation
// step. Each implication is checked for validity by asserting its
// negation (`condition ∧ First < 0`, respectively) and asking the
// solver whether that counter-example is satisfiable: Unsat means no
// counter-example exists, so the implication holds and nothing is
// reported; Sat means the solver found one, reported as an error;
// Unknown means the solver could neither confirm nor refute it,
// reported as a warning.
func proveVariants(facts Facts, bag *diag.Bag) {
	for name, variants := range facts {
		for _, v := range variants {
			for _, obligation := range []expr.Expr{
				expr.GreaterEqual(v.First, expr.NewNumber(0)),
				expr.GreaterEqual(v.Last, expr.Sub(v.First, expr.NewNumber(1))),
			} {
				counterExample := expr.And(v.Condition, expr.NewNot(obligation)).Simplified()
				result, err := solver.Proof([]expr.Expr{counterExample})
				if err != nil {
					bag.Append(fmt.Sprintf("unable to discharge proof obligation for field %q: %v", name, err), diag.Internal, diag.Error, v.Condition.Location())
					continue
				}
				switch result.Outcome {
				case solver.Sat:
					bag.Append(fmt.Sprintf("proof failed for field %q: %s", name, obligation.Str()), diag.Model, diag.Error, v.Condition.Location())
				case solver.Unknown:
					bag.Append(fmt.Sprintf("proof inconclusive for field %q: %s", name, obligation.Str()), diag.Model, diag.Warning, v.Condition.Location())
				}
			}
		}
	}
}

// checkBranching discharges the ambiguity and completeness obligations of
// spec.md §4.G for every field with more than one outgoing edge. Per §9's
// Open Question, two edge conditions are flagged as ambiguous only when
// their conjunction is actually satisfiable under the field's path
// condition — a syntactically overlapping but mutually exclusive pair like
// `x < 10` and `x >= 10` is not ambiguous, since the SMT bridge finds no
// assignment satisfying both at once.
func checkBranching(g *graph.Graph, branches branchPathConds, bag *diag.Bag) {
	for name, field := range g.Fields {
		if len(field.Outgoing) < 2 {
			continue
		}
		for _, cond := range branches[name] {
			checkAmbiguity(name, field, cond, bag)
			checkCompleteness(name, field, cond, bag)
		}
	}
}

func checkAmbiguity(name string, field *graph.Field, cond expr.Expr, bag *diag.Bag) {
	for i := 0; i < len(field.Outgoing); i++ {
		for j := i + 1; j < len(field.Outgoing); j++ {
			overlap := expr.And(expr.And(cond, field.Outgoing[i].Condition), field.Outgoing[j].Condition).Simplified()
			result, err := solver.Proof([]expr.Expr{overlap})
			if err != nil {
				bag.Append(fmt.Sprintf("unable to discharge ambiguity check for field %q: %v", name, err), diag.Internal, diag.Error, field.Loc)
				continue
			}
			if result.Outcome == solver.Sat {
				bag.Append(fmt.Sprintf(
					"ambiguous edges from field %q: conditions of edges to %q and %q are simultaneously satisfiable",
					name, targetName(field.Outgoing[i].Target), targetName(field.Outgoing[j].Target),
				), diag.Graph, diag.Error, field.Loc)
			}
		}
	}
}

func checkCompleteness(name string, field *graph.Field, cond expr.Expr, bag *diag.Bag) {
	disjunction := field.Outgoing[0].Condition
	for _, e := range field.Outgoing[1:] {
		disjunction = expr.Or(disjunction, e.Condition)
	}
	incomplete := expr.And(cond, expr.NewNot(disjunction)).Simplified()
	result, err := solver.Proof([]expr.Expr{incomplete})
	if err != nil {
		bag.Append(fmt.Sprintf("unable to discharge completeness check for field %q: %v", name, err), diag.Internal, diag.Error, field.Loc)
		return
	}
	switch result.Outcome {
	case solver.Sat:
		bag.Append(fmt.Sprintf("incomplete edges from field %q: no outgoing edge condition holds for some reachable value", name), diag.Graph, diag.Warning, field.Loc)
	case solver.Unknown:
		bag.Append(fmt.Sprintf("completeness of edges from field %q is inconclusive", name), diag.Graph, diag.Warning, field.Loc)
	}
}

func targetName(target string) string {
	if target == graph.FinalName {
		return "Final"
	}
	return target
}
