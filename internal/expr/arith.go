package expr

import (
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

// BinOp is a two-operand arithmetic operator: +, -, *, /, **, mod.
type BinOp struct {
	Op         string
	Prec       Precedence
	Left, Right Expr
	Loc        ident.Location
}

func bin(op string, prec Precedence, l, r Expr) BinOp {
	return BinOp{Op: op, Prec: prec, Left: l, Right: r}
}

func Add(l, r Expr) BinOp  { return bin("+", PrecSum, l, r) }
func Sub(l, r Expr) BinOp  { return bin("-", PrecSum, l, r) }
func Mul(l, r Expr) BinOp  { return bin("*", PrecProduct, l, r) }
func Div(l, r Expr) BinOp  { return bin("/", PrecProduct, l, r) }
func Pow(l, r Expr) BinOp  { return bin("**", PrecPower, l, r) }
func Mod(l, r Expr) BinOp  { return bin("mod", PrecProduct, l, r) }

// AddN folds three or more addends into a left-associated "+" chain, the
// way the source notation's associative Add(terms...) reads when ported
// onto this package's binary node.
func AddN(terms ...Expr) Expr {
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = Add(acc, t)
	}
	return acc
}

func (b BinOp) Str() string {
	return parenthesize(b.Prec, b.Left) + " " + b.Op + " " + parenthesize(b.Prec, b.Right)
}
func (b BinOp) Precedence() Precedence   { return b.Prec }
func (b BinOp) Location() ident.Location { return b.Loc }
func (b BinOp) Variables() []ident.ID {
	return mergeVars(b.Left.Variables(), b.Right.Variables())
}
func (b BinOp) FindAll(pred func(Expr) bool) []Expr {
	return FindAllDefault(b, pred, b.Left, b.Right)
}
func (b BinOp) Substituted(f func(Expr) Expr) Expr {
	b.Left = b.Left.Substituted(f)
	b.Right = b.Right.Substituted(f)
	return f(b)
}
func (b BinOp) Simplified() Expr {
	return simplifyBinOp(b)
}
func (b BinOp) Validate(env Environment, bag *diag.Bag) {
	b.Left.Validate(env, bag)
	b.Right.Validate(env, bag)
}

func mergeVars(a, b []ident.ID) []ident.ID {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]ident.ID, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id.Key()] {
			seen[id.Key()] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id.Key()] {
			seen[id.Key()] = true
			out = append(out, id)
		}
	}
	return out
}
