package diag

import (
	"testing"

	"github.com/Componolit/RecordFlux/internal/ident"
)

func TestPropagate(t *testing.T) {
	var b Bag
	if err := b.Propagate(); err != nil {
		t.Fatalf("empty bag should not propagate an error, got %v", err)
	}

	b.Append("something noteworthy", Model, Info, ident.Location{})
	b.Append("something risky", Model, Warning, ident.Location{})
	if err := b.Propagate(); err != nil {
		t.Fatalf("Info/Warning-only bag should not propagate, got %v", err)
	}

	b.Append("broken", Model, Error, ident.Location{})
	if err := b.Propagate(); err == nil {
		t.Fatalf("bag containing an Error diagnostic should propagate")
	}
}

func TestAppendDeduplicates(t *testing.T) {
	var b Bag
	loc := ident.Location{File: "f.rflx", Line: 1, Column: 1}
	b.Append("dup", Model, Error, loc)
	b.Append("dup", Model, Error, loc)
	b.Append("distinct", Model, Error, loc)

	if got := len(b.Diagnostics()); got != 2 {
		t.Fatalf("len(Diagnostics()) = %d, want 2 (duplicate suppressed)", got)
	}
}

func TestExtendPreservesOrder(t *testing.T) {
	var a, b Bag
	a.Append("a1", Model, Error, ident.Location{File: "a", Line: 1})
	a.Append("a2", Model, Error, ident.Location{File: "a", Line: 2})
	b.Append("b1", Session, Error, ident.Location{File: "b", Line: 1})

	a.Extend(&b)
	ds := a.Diagnostics()
	if len(ds) != 3 {
		t.Fatalf("len(Diagnostics()) = %d, want 3", len(ds))
	}
	for i, want := range []string{"a1", "a2", "b1"} {
		if ds[i].Message != want {
			t.Errorf("Diagnostics()[%d] = %q, want %q", i, ds[i].Message, want)
		}
	}
}

func TestDiagnosticsOrderedByLocation(t *testing.T) {
	var b Bag
	b.Append("second", Model, Error, ident.Location{File: "f", Line: 2})
	b.Append("first", Model, Error, ident.Location{File: "f", Line: 1})

	ds := b.Diagnostics()
	if ds[0].Message != "first" || ds[1].Message != "second" {
		t.Fatalf("Diagnostics() not ordered by location: %+v", ds)
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{Info: "info", Warning: "warning", Error: "error"}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestSubsystemString(t *testing.T) {
	cases := map[Subsystem]string{
		Parser: "parser", Model: "model", CLI: "cli", Session: "session",
		Graph: "graph", Internal: "internal", Core: "core",
	}
	for sub, want := range cases {
		if got := sub.String(); got != want {
			t.Errorf("Subsystem(%d).String() = %q, want %q", sub, got, want)
		}
	}
}
