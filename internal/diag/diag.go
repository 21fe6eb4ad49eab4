// Package diag collects diagnostics the way the rest of this module's
// verification passes report problems: append structured values to a bag
// as you walk, then decide at a phase boundary whether to fail.
package diag

import (
	"fmt"
	"sort"

	"github.com/Componolit/RecordFlux/internal/ident"
)

// Severity classifies a Diagnostic. Only Error causes Bag.Propagate to
// return an error; Warning and Info are informational.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Subsystem tags which verification pass produced a Diagnostic. The set
// matches the external diagnostic contract (spec.md §6): parser, model,
// cli, session, graph, internal, core.
type Subsystem int

const (
	Parser Subsystem = iota
	Model
	CLI
	Session
	Graph
	Internal
	Core
)

func (s Subsystem) String() string {
	switch s {
	case Parser:
		return "parser"
	case Model:
		return "model"
	case CLI:
		return "cli"
	case Session:
		return "session"
	case Graph:
		return "graph"
	case Internal:
		return "internal"
	case Core:
		return "core"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Message   string
	Subsystem Subsystem
	Severity  Severity
	Location  ident.Location
}

func (d Diagnostic) key() string {
	return fmt.Sprintf("%s:%d:%d:%s", d.Location.File, d.Location.Line, d.Location.Column, d.Message)
}

// Bag accumulates diagnostics across a validation pass. The zero value is
// ready to use.
type Bag struct {
	seen  map[string]bool
	items []Diagnostic
}

// Append records a single diagnostic. Duplicate (location, message) pairs
// are recorded once.
func (b *Bag) Append(message string, subsystem Subsystem, severity Severity, loc ident.Location) {
	d := Diagnostic{Message: message, Subsystem: subsystem, Severity: severity, Location: loc}
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	k := d.key()
	if b.seen[k] {
		return
	}
	b.seen[k] = true
	b.items = append(b.items, d)
}

// Extend merges another Bag's diagnostics into b.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Append(d.Message, d.Subsystem, d.Severity, d.Location)
	}
}

// HasErrors reports whether any diagnostic at Error severity was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns a deterministically ordered snapshot: by file, then
// line, then column, then insertion order.
func (b *Bag) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), b.items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i].Location, out[j].Location
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
	return out
}

// Error implements the error interface so a Bag can be returned directly
// from a validation entry point; callers that only want pass/fail can
// write `if err := bag.Propagate(); err != nil { ... }`.
func (b *Bag) Error() string {
	ds := b.Diagnostics()
	if len(ds) == 0 {
		return "no diagnostics"
	}
	msg := ds[0].Message
	if len(ds) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(ds)-1)
	}
	return msg
}

// Propagate returns b as an error if it contains any Error-severity
// diagnostic, and nil otherwise — the single phase-boundary check every
// validation stage in this module performs before handing its result to
// the next stage.
func (b *Bag) Propagate() error {
	if b.HasErrors() {
		return b
	}
	return nil
}
