package expr

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/ident"
)

func TestInNotInNegation(t *testing.T) {
	set := NewAggregate(NewNumber(1), NewNumber(2))
	in := In(NewVariable("X"), set)
	neg := in.Negated()
	if neg.Op != "not in" {
		t.Errorf("Negated() of In = %q, want %q", neg.Op, "not in")
	}
	if neg.Negated().Op != "in" {
		t.Errorf("negation should be involutive for In/NotIn")
	}
}

func TestValueRangeStr(t *testing.T) {
	vr := NewValueRange(NewNumber(1), NewNumber(10))
	if got, want := vr.Str(), "1 .. 10"; got != want {
		t.Errorf("ValueRange.Str() = %q, want %q", got, want)
	}
}

func TestConversionVariablesAndSubstitute(t *testing.T) {
	c := NewConversion(ident.Parse("Byte"), NewVariable("X"))
	vars := c.Variables()
	if len(vars) != 1 || vars[0].String() != "X" {
		t.Fatalf("Conversion.Variables() = %v, want [X]", vars)
	}
	out := c.Substituted(func(e Expr) Expr {
		if v, ok := e.(Variable); ok && v.Name.String() == "X" {
			return NewNumber(5)
		}
		return e
	})
	if got, want := out.Str(), "Byte(5)"; got != want {
		t.Errorf("Conversion.Substituted result = %q, want %q", got, want)
	}
}

func TestComprehensionBoundVariableShielded(t *testing.T) {
	comp := NewComprehension("E", NewVariable("Arr"), NewVariable("E"), nil)
	vars := comp.Variables()
	for _, v := range vars {
		if v.String() == "E" {
			t.Fatalf("Comprehension.Variables() leaked the bound iterator E: %v", vars)
		}
	}
	out := comp.Substituted(func(e Expr) Expr {
		if v, ok := e.(Variable); ok && v.Name.String() == "E" {
			return NewNumber(99)
		}
		return e
	})
	got := out.(Comprehension)
	if got.Selector.Str() != "E" {
		t.Errorf("Substituted should leave the bound iterator E untouched inside the comprehension body, got %q", got.Selector.Str())
	}
}

func TestSliceVariablesAndStr(t *testing.T) {
	sl := Slice{Prefix: NewVariable("Buf"), First: NewNumber(0), Last: NewNumber(9)}
	if got, want := sl.Str(), "Buf(0 .. 9)"; got != want {
		t.Errorf("Slice.Str() = %q, want %q", got, want)
	}
}

func TestRangeOldResultConstrainedValidChecksumAttributes(t *testing.T) {
	for _, tc := range []struct {
		attr Attribute
		want string
	}{
		{RangeOf(NewVariable("X")), "X'Range"},
		{OldOf(NewVariable("X")), "X'Old"},
		{ResultOf(NewVariable("X")), "X'Result"},
		{ConstrainedOf(NewVariable("X")), "X'Constrained"},
		{ValidChecksumOf(NewVariable("X")), "X'Valid_Checksum"},
	} {
		if got := tc.attr.Str(); got != tc.want {
			t.Errorf("Str() = %q, want %q", got, tc.want)
		}
	}
}
