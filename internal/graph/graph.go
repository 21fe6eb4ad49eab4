// Package graph implements the message model: a directed acyclic graph of
// named nodes connected by typed, conditioned edges, terminating in a
// distinguished Final node.
package graph

import (
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/rflxtype"
)

// FinalName is the reserved name of the terminal node every message graph
// must eventually reach.
const FinalName = ""

// Node is one vertex of the graph: either a field (Name != "") or the
// distinguished Final node (Name == "").
type Node struct {
	Name string
	Type rflxtype.Type
}

// Final is the graph's unique terminal node.
var Final = Node{Name: FinalName, Type: rflxtype.Array{Name: ""}}

// Edge connects a source node to Target, guarded by Condition (default
// expr.TRUE), with optional explicit Length and First. When Length or
// First is expr.UNDEFINED, the evaluator derives it: First defaults to
// "previous field's First + previous field's Length", Length defaults to
// the target field type's declared Size.
type Edge struct {
	Target    string
	Condition expr.Expr
	Length    expr.Expr
	First     expr.Expr
	Loc       ident.Location
}

func NewEdge(target string) Edge {
	return Edge{Target: target, Condition: expr.TRUE, Length: expr.UNDEFINED, First: expr.UNDEFINED}
}

// Field is a named vertex plus its outgoing edges (a field with more than
// one outgoing edge branches on its edges' conditions).
type Field struct {
	Name     string
	Type     rflxtype.Type
	Outgoing []Edge
	Loc      ident.Location
}

// Graph is the full set of fields of one message type, keyed by name,
// plus the identity of its first (initial) field.
type Graph struct {
	Name    string
	Initial string
	Fields  map[string]*Field
	Loc     ident.Location
}

func New(name string) *Graph {
	return &Graph{Name: name, Fields: make(map[string]*Field)}
}

// AddField registers a field; the first field added becomes Initial
// unless SetInitial is called explicitly afterward.
func (g *Graph) AddField(f *Field) {
	if g.Fields == nil {
		g.Fields = make(map[string]*Field)
	}
	if g.Initial == "" {
		g.Initial = f.Name
	}
	g.Fields[f.Name] = f
}

func (g *Graph) SetInitial(name string) { g.Initial = name }

// CombineConditions folds a slice of path conditions into a single
// expression, the way branch conditions accumulate while walking a path
// from Initial to Final: And(And(c1, c2), c3)...
func CombineConditions(conditions []expr.Expr) expr.Expr {
	if len(conditions) == 0 {
		return expr.TRUE
	}
	acc := conditions[0]
	for _, c := range conditions[1:] {
		acc = expr.And(acc, c)
	}
	return acc
}

// Aspects carries the message-level properties that do not belong to any
// single field: which fields participate in a checksum, and whether the
// message is considered structurally valid even when shorter than its
// nominal length (Always_Valid).
type Aspects struct {
	ChecksumFields []string
	AlwaysValid    bool
}

// Message is the rflxtype.Type for a fully-specified message: its graph
// plus its aspects. Size is unknown until internal/model evaluates the
// graph against concrete field values, so Message reports no fixed Size,
// matching the variable-length composite types in internal/rflxtype.
type Message struct {
	TypeName string
	Graph    *Graph
	Aspects  Aspects
}

func (m Message) String() string    { return m.TypeName }
func (m Message) Size() (int, bool) { return 0, false }
