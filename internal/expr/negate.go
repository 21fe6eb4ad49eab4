package expr

import "fmt"

// NegationUndefinedError is returned by Negate for a node shape the
// algebra does not give a well-defined negation to: control-flow nodes
// (If, Case, Quantified, Comprehension), aggregates, and anything whose
// value is not itself arithmetic or logical.
type NegationUndefinedError struct {
	Expr Expr
}

func (e NegationUndefinedError) Error() string {
	return fmt.Sprintf("negation undefined for %q", e.Expr.Str())
}

// Negate returns the logical or arithmetic negation of e. Arithmetic
// negation is pushed onto Number literals and the Negative flag of a
// Variable directly; elsewhere it is encoded as a coefficient of -1.
// Logical negation of And/Or applies De Morgan's law; a Relation negates
// to its inverse comparison; Not cancels its own operand. Every other
// shape — If, Case, quantifiers, comprehensions, aggregates, calls,
// attributes — has no well-defined negation and returns
// NegationUndefinedError, per the algebra this is ported from.
func Negate(e Expr) (Expr, error) {
	switch v := e.(type) {
	case Number:
		return NewNumber(-v.Value), nil
	case Variable:
		v.Negative = !v.Negative
		return v, nil
	case BooleanLiteral:
		return BooleanLiteral{Value: !v.Value, Loc: v.Loc}, nil
	case Not:
		return v.Operand, nil
	case Relation:
		return v.Negated(), nil
	case BoolOp:
		nl, err := Negate(v.Left)
		if err != nil {
			return nil, err
		}
		nr, err := Negate(v.Right)
		if err != nil {
			return nil, err
		}
		switch v.Kind {
		case "and":
			return BoolOp{Kind: "or", Left: nl, Right: nr, Loc: v.Loc}, nil
		case "or":
			return BoolOp{Kind: "and", Left: nl, Right: nr, Loc: v.Loc}, nil
		case "and then":
			return BoolOp{Kind: "or else", Left: nl, Right: nr, Loc: v.Loc}, nil
		case "or else":
			return BoolOp{Kind: "and then", Left: nl, Right: nr, Loc: v.Loc}, nil
		}
		return nil, NegationUndefinedError{Expr: e}
	case BinOp:
		switch v.Op {
		case "+":
			nl, err := Negate(v.Left)
			if err != nil {
				return nil, err
			}
			nr, err := Negate(v.Right)
			if err != nil {
				return nil, err
			}
			return BinOp{Op: "+", Prec: PrecSum, Left: nl, Right: nr}, nil
		case "-":
			return BinOp{Op: "-", Prec: PrecSum, Left: v.Right, Right: v.Left}, nil
		case "*":
			nl, err := Negate(v.Left)
			if err == nil {
				return BinOp{Op: "*", Prec: PrecProduct, Left: nl, Right: v.Right}, nil
			}
			return bin("*", PrecProduct, NewNumber(-1), v), nil
		case "/":
			nl, err := Negate(v.Left)
			if err == nil {
				return BinOp{Op: "/", Prec: PrecProduct, Left: nl, Right: v.Right}, nil
			}
			return bin("*", PrecProduct, NewNumber(-1), v), nil
		default:
			// Pow, Mod: the algebra falls back to an explicit -1 coefficient
			// rather than trying to push the sign through the operator.
			return bin("*", PrecProduct, NewNumber(-1), v), nil
		}
	default:
		return nil, NegationUndefinedError{Expr: e}
	}
}
