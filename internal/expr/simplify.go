package expr

import "strings"

// simplify.go implements the deterministic term-rewriting pass: constant
// folding, neutral-element elision, negation pushdown through relations
// and boolean connectives, and single-branch collapse of If/Case. The
// package's tests check idempotence, simplified(simplified(e)) ==
// simplified(e), on a sample of expressions covering these rules.

func simplifyBinOp(b BinOp) Expr {
	l := b.Left.Simplified()
	r := b.Right.Simplified()
	if ln, ok := l.(Number); ok {
		if rn, ok := r.(Number); ok {
			if v, ok := foldNumbers(b.Op, ln.Value, rn.Value); ok {
				return NewNumber(v)
			}
		}
	}
	switch b.Op {
	case "+":
		return simplifyAdd(l, r)
	case "-":
		if neg, err := Negate(r); err == nil {
			return simplifyAdd(l, neg)
		}
		if isZero(r) {
			return l
		}
		if StructEqual(l, r) {
			return NewNumber(0)
		}
	case "*":
		if isOne(l) {
			return r
		}
		if isOne(r) {
			return l
		}
		if isZero(l) || isZero(r) {
			return NewNumber(0)
		}
	case "/":
		if isOne(r) {
			return l
		}
	case "**":
		if isOne(r) {
			return l
		}
	}
	b.Left, b.Right = l, r
	return b
}

// simplifyAdd flattens l and r (already simplified) into a flat term
// list across nested "+" nodes, folds constants, cancels any term whose
// negation also appears (Add's inverse-cancellation rule: a term and its
// unary negation vanish as a pair), and rebuilds the survivors into a
// left-associated "+" chain. A single survivor, or none but the constant
// sum, returns directly rather than wrapping a one-element chain.
func simplifyAdd(l, r Expr) Expr {
	terms := append(flattenAdd(l), flattenAdd(r)...)

	var sum int64
	rest := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if n, ok := t.(Number); ok {
			sum += n.Value
			continue
		}
		rest = append(rest, t)
	}

	cancelled := make([]bool, len(rest))
	for i := range rest {
		if cancelled[i] {
			continue
		}
		for j := i + 1; j < len(rest); j++ {
			if cancelled[j] {
				continue
			}
			negJ, err := Negate(rest[j])
			if err == nil && StructEqual(rest[i], negJ) {
				cancelled[i] = true
				cancelled[j] = true
				break
			}
		}
	}

	kept := make([]Expr, 0, len(rest))
	for i, t := range rest {
		if !cancelled[i] {
			kept = append(kept, t)
		}
	}
	if sum != 0 || len(kept) == 0 {
		kept = append(kept, NewNumber(sum))
	}

	acc := kept[0]
	for _, t := range kept[1:] {
		acc = bin("+", PrecSum, acc, t)
	}
	return acc
}

func flattenAdd(e Expr) []Expr {
	if b, ok := e.(BinOp); ok && b.Op == "+" {
		return append(flattenAdd(b.Left), flattenAdd(b.Right)...)
	}
	return []Expr{e}
}

func foldNumbers(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case "mod":
		if b == 0 {
			return 0, false
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, true
	case "**":
		if b < 0 {
			return 0, false
		}
		result := int64(1)
		for i := int64(0); i < b; i++ {
			result *= a
		}
		return result, true
	}
	return 0, false
}

func isZero(e Expr) bool { n, ok := e.(Number); return ok && n.Value == 0 }
func isOne(e Expr) bool  { n, ok := e.(Number); return ok && n.Value == 1 }

func asBool(e Expr) (bool, bool) {
	b, ok := e.(BooleanLiteral)
	return b.Value, ok
}

func simplifyBoolOp(b BoolOp) Expr {
	l := b.Left.Simplified()
	r := b.Right.Simplified()
	if b.isAnd() {
		if v, ok := asBool(l); ok {
			if !v {
				return FALSE
			}
			return r
		}
		if v, ok := asBool(r); ok {
			if !v {
				return FALSE
			}
			return l
		}
	}
	if b.isOr() {
		if v, ok := asBool(l); ok {
			if v {
				return TRUE
			}
			return r
		}
		if v, ok := asBool(r); ok {
			if v {
				return TRUE
			}
			return l
		}
	}
	if StructEqual(l, r) {
		return l
	}
	b.Left, b.Right = l, r
	return b
}

func simplifyNot(n Not) Expr {
	inner := n.Operand.Simplified()
	if v, ok := asBool(inner); ok {
		return BooleanLiteral{Value: !v}
	}
	if nn, ok := inner.(Not); ok {
		return nn.Operand
	}
	if rel, ok := inner.(Relation); ok {
		return rel.Negated()
	}
	if op, ok := inner.(BoolOp); ok {
		// De Morgan: not (a and b) == not a or not b
		var kind string
		switch op.Kind {
		case "and":
			kind = "or"
		case "or":
			kind = "and"
		default:
			n.Operand = inner
			return n
		}
		return BoolOp{Kind: kind, Left: NewNot(op.Left).Simplified(), Right: NewNot(op.Right).Simplified()}
	}
	n.Operand = inner
	return n
}

func simplifyRelation(r Relation) Expr {
	l := r.Left.Simplified()
	rr := r.Right.Simplified()
	if ln, ok := l.(Number); ok {
		if rn, ok := rr.(Number); ok {
			return BooleanLiteral{Value: foldRelation(r.Op, ln.Value, rn.Value)}
		}
	}
	if StructEqual(l, rr) {
		switch r.Op {
		case "=", "<=", ">=":
			return TRUE
		case "/=", "<", ">":
			return FALSE
		}
	}
	r.Left, r.Right = l, rr
	return r
}

func foldRelation(op string, a, b int64) bool {
	switch op {
	case "=":
		return a == b
	case "/=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// simplifyIf simplifies each branch condition in order. A branch whose
// condition folds to True ends the chain (every later branch and the Else
// are unreachable): if no earlier branch was kept, the whole If collapses
// to that branch's Then; otherwise that branch becomes the last one and
// the Else is dropped. A branch whose
// condition folds to False is dropped (per spec.md §4.D, "If with a single
// branch whose condition is True collapses to that branch's value" — this
// generalizes it to drop statically-false branches from an elsif chain
// too, which is sound for the same reason). If every branch is dropped,
// the result is the simplified Else (or UNDEFINED if there is none).
func simplifyIf(i If) Expr {
	var kept []IfBranch
	for _, b := range i.Branches {
		cond := b.Cond.Simplified()
		if v, ok := asBool(cond); ok {
			if !v {
				continue
			}
			if len(kept) == 0 {
				return b.Then.Simplified()
			}
			kept = append(kept, IfBranch{Cond: cond, Then: b.Then.Simplified()})
			i.Branches = kept
			i.Else = nil
			return i
		}
		kept = append(kept, IfBranch{Cond: cond, Then: b.Then.Simplified()})
	}
	if len(kept) == 0 {
		if i.Else != nil {
			return i.Else.Simplified()
		}
		return UNDEFINED
	}
	i.Branches = kept
	if i.Else != nil {
		i.Else = i.Else.Simplified()
	}
	return i
}

func simplifyCase(c Case) Expr {
	c.Control = c.Control.Simplified()
	alts := make([]CaseAlternative, len(c.Alternatives))
	for i, a := range c.Alternatives {
		choices := make([]Expr, len(a.Choices))
		for j, ch := range a.Choices {
			choices[j] = ch.Simplified()
		}
		alts[i] = CaseAlternative{Choices: choices, Result: a.Result.Simplified()}
	}
	c.Alternatives = alts
	// Per spec.md §4.D, only a single arm matching "others" collapses —
	// not any single-arm Case (a one-arm Case on an explicit choice list
	// is not exhaustive and must stay a Case for the SMT bridge to see).
	if len(alts) == 1 && isOthersArm(alts[0]) {
		return alts[0].Result
	}
	return c
}

// isOthersArm reports whether a is the wildcard "when others" arm: its
// choice list is a single Variable literally named "others".
func isOthersArm(a CaseAlternative) bool {
	if len(a.Choices) != 1 {
		return false
	}
	v, ok := a.Choices[0].(Variable)
	return ok && strings.EqualFold(v.Name.Name(), "others")
}
