package store

import (
	"context"
	"testing"

	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/ident"
)

func TestOpenCreatesSchema(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()
}

func TestRecordRunAndReadBack(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	var bag diag.Bag
	bag.Append("unused variable X", diag.Session, diag.Error, ident.Location{File: "f.rflx", Line: 2, Column: 3})
	bag.Append("informational note", diag.Model, diag.Info, ident.Location{})

	ctx := context.Background()
	runID, err := s.RecordRun(ctx, "f.rflx", &bag)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("RecordRun returned an empty run ID")
	}

	got, err := s.Diagnostics(ctx, runID)
	if err != nil {
		t.Fatalf("Diagnostics failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Diagnostics returned %d rows, want 2", len(got))
	}
	if got[0].Message != "unused variable X" || got[0].Subsystem != "session" || got[0].Severity != "error" {
		t.Errorf("Diagnostics()[0] = %+v, unexpected field values", got[0])
	}
}

func TestDiagnosticsUnknownRunIDIsEmpty(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	got, err := s.Diagnostics(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Diagnostics failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Diagnostics for an unknown run returned %d rows, want 0", len(got))
	}
}

func TestRecordRunIsolatesRuns(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	var a, b diag.Bag
	a.Append("from a", diag.Model, diag.Error, ident.Location{})
	b.Append("from b", diag.Model, diag.Error, ident.Location{})

	runA, err := s.RecordRun(ctx, "a.rflx", &a)
	if err != nil {
		t.Fatalf("RecordRun(a) failed: %v", err)
	}
	runB, err := s.RecordRun(ctx, "b.rflx", &b)
	if err != nil {
		t.Fatalf("RecordRun(b) failed: %v", err)
	}
	if runA == runB {
		t.Fatal("two runs should receive distinct correlation IDs")
	}

	diagsA, err := s.Diagnostics(ctx, runA)
	if err != nil {
		t.Fatalf("Diagnostics(runA) failed: %v", err)
	}
	if len(diagsA) != 1 || diagsA[0].Message != "from a" {
		t.Errorf("Diagnostics(runA) = %+v, want exactly the run-A diagnostic", diagsA)
	}
}
