// Package fixture loads session state machines and declaration
// environments from YAML, the format the session validator this module
// ports from used for its own test fixtures and for the FSM description
// it read at the top of a session specification.
package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Componolit/RecordFlux/internal/decl"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/graph"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/rflxtype"
	"github.com/Componolit/RecordFlux/internal/session"
	"github.com/Componolit/RecordFlux/internal/statement"
)

// exprNode is the recursive YAML shape an expression is written in: each
// node has exactly one of the keys below set.
type exprNode struct {
	Num      *int64              `yaml:"num,omitempty"`
	Bool     *bool               `yaml:"bool,omitempty"`
	Var      *string             `yaml:"var,omitempty"`
	Not      *exprNode           `yaml:"not,omitempty"`
	And      []exprNode          `yaml:"and,omitempty"`
	Or       []exprNode          `yaml:"or,omitempty"`
	Relation *relationNode       `yaml:"relation,omitempty"`
	Call     *callNode           `yaml:"call,omitempty"`
	If       *ifNode             `yaml:"if,omitempty"`
}

type relationNode struct {
	Op    string   `yaml:"op"`
	Left  exprNode `yaml:"left"`
	Right exprNode `yaml:"right"`
}

type callNode struct {
	Name string     `yaml:"name"`
	Args []exprNode `yaml:"args,omitempty"`
}

type ifNode struct {
	Cond exprNode `yaml:"cond"`
	Then exprNode `yaml:"then"`
	Else exprNode `yaml:"else"`
}

// parseName validates a name arriving from the fixture document against
// internal/ident's InvalidIdentifier contract (spec.md §4.A) before it
// becomes an ident.ID — this is the boundary where a string from outside
// the core (here, a YAML fixture; in a full toolchain, the concrete-
// syntax parser) is first trusted as a well-formed identifier.
func parseName(s string) (ident.ID, error) {
	id, err := ident.ParseChecked(s)
	if err != nil {
		return ident.ID{}, fmt.Errorf("invalid identifier: %w", err)
	}
	return id, nil
}

func (n exprNode) isZero() bool {
	return n.Num == nil && n.Bool == nil && n.Var == nil && n.Not == nil &&
		len(n.And) == 0 && len(n.Or) == 0 && n.Relation == nil && n.Call == nil && n.If == nil
}

func (n exprNode) build() (expr.Expr, error) {
	switch {
	case n.Num != nil:
		return expr.NewNumber(*n.Num), nil
	case n.Bool != nil:
		return expr.BooleanLiteral{Value: *n.Bool}, nil
	case n.Var != nil:
		name, err := parseName(*n.Var)
		if err != nil {
			return nil, err
		}
		return expr.Variable{Name: name}, nil
	case n.Not != nil:
		inner, err := n.Not.build()
		if err != nil {
			return nil, err
		}
		return expr.NewNot(inner), nil
	case len(n.And) > 0:
		return buildChain(n.And, expr.And)
	case len(n.Or) > 0:
		return buildChain(n.Or, expr.Or)
	case n.Relation != nil:
		l, err := n.Relation.Left.build()
		if err != nil {
			return nil, err
		}
		r, err := n.Relation.Right.build()
		if err != nil {
			return nil, err
		}
		return buildRelation(n.Relation.Op, l, r)
	case n.Call != nil:
		args := make([]expr.Expr, len(n.Call.Args))
		for i, a := range n.Call.Args {
			ae, err := a.build()
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		name, err := parseName(n.Call.Name)
		if err != nil {
			return nil, err
		}
		return expr.NewCall(name, args...), nil
	case n.If != nil:
		c, err := n.If.Cond.build()
		if err != nil {
			return nil, err
		}
		t, err := n.If.Then.build()
		if err != nil {
			return nil, err
		}
		e, err := n.If.Else.build()
		if err != nil {
			return nil, err
		}
		return expr.NewIf(c, t, e), nil
	default:
		return nil, fmt.Errorf("empty expression node")
	}
}

func buildChain(nodes []exprNode, op func(l, r expr.Expr) expr.BoolOp) (expr.Expr, error) {
	built, err := nodes[0].build()
	if err != nil {
		return nil, err
	}
	acc := built
	for _, n := range nodes[1:] {
		next, err := n.build()
		if err != nil {
			return nil, err
		}
		acc = op(acc, next)
	}
	return acc, nil
}

func buildRelation(op string, l, r expr.Expr) (expr.Expr, error) {
	switch op {
	case "=":
		return expr.Equal(l, r), nil
	case "/=":
		return expr.NotEqual(l, r), nil
	case "<":
		return expr.Less(l, r), nil
	case "<=":
		return expr.LessEqual(l, r), nil
	case ">":
		return expr.Greater(l, r), nil
	case ">=":
		return expr.GreaterEqual(l, r), nil
	default:
		return nil, fmt.Errorf("unknown relation operator %q", op)
	}
}

// declarationDoc is one entry of a declarations: list.
type declarationDoc struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"` // variable, private, channel, subprogram, renaming
	Readable bool   `yaml:"readable,omitempty"`
	Writable bool   `yaml:"writable,omitempty"`
}

func (d declarationDoc) build() (decl.Declaration, error) {
	var k decl.Kind
	switch d.Kind {
	case "variable", "":
		k = decl.Variable
	case "private":
		k = decl.Private
	case "channel":
		k = decl.Channel
	case "subprogram":
		k = decl.Subprogram
	case "renaming":
		k = decl.Renaming
	default:
		return decl.Declaration{}, fmt.Errorf("unknown declaration kind %q", d.Kind)
	}
	name, err := parseName(d.Name)
	if err != nil {
		return decl.Declaration{}, err
	}
	return decl.Declaration{
		Identifier: name,
		Kind:       k,
		Readable:   d.Readable,
		Writable:   d.Writable,
	}, nil
}

type actionDoc struct {
	Kind   string   `yaml:"kind"` // assignment or reset; other kinds are rejected
	Target string   `yaml:"target"`
	Value  exprNode `yaml:"value,omitempty"`
}

func (a actionDoc) build() (statement.Statement, error) {
	target, err := parseName(a.Target)
	if err != nil {
		return nil, err
	}
	switch a.Kind {
	case "assignment":
		v, err := a.Value.build()
		if err != nil {
			return nil, err
		}
		return statement.NewAssignment(target, ident.Location{}, v), nil
	case "reset":
		return statement.NewReset(target, ident.Location{}), nil
	default:
		return nil, fmt.Errorf("unsupported action kind %q", a.Kind)
	}
}

type transitionDoc struct {
	Target    string   `yaml:"target"`
	Condition exprNode `yaml:"condition,omitempty"`
}

type stateDoc struct {
	Name         string           `yaml:"name"`
	Transitions  []transitionDoc  `yaml:"transitions,omitempty"`
	Actions      []actionDoc      `yaml:"actions,omitempty"`
	Declarations []declarationDoc `yaml:"declarations,omitempty"`
}

type sessionDoc struct {
	Name         string           `yaml:"name"`
	Initial      string           `yaml:"initial"`
	Final        string           `yaml:"final"`
	Declarations []declarationDoc `yaml:"declarations,omitempty"`
	Parameters   []declarationDoc `yaml:"parameters,omitempty"`
	States       []stateDoc       `yaml:"states"`
}

// LoadSession parses a YAML session-state-machine document into a
// *session.Session ready for Validate.
func LoadSession(data []byte) (*session.Session, error) {
	var doc sessionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse session fixture: %w", err)
	}

	toDecls := func(docs []declarationDoc) ([]decl.Declaration, error) {
		out := make([]decl.Declaration, len(docs))
		for i, d := range docs {
			dd, err := d.build()
			if err != nil {
				return nil, err
			}
			out[i] = dd
		}
		return out, nil
	}

	globals, err := toDecls(doc.Declarations)
	if err != nil {
		return nil, err
	}
	params, err := toDecls(doc.Parameters)
	if err != nil {
		return nil, err
	}

	states := make([]session.State, len(doc.States))
	for i, sd := range doc.States {
		locals, err := toDecls(sd.Declarations)
		if err != nil {
			return nil, err
		}
		transitions := make([]session.Transition, len(sd.Transitions))
		for j, td := range sd.Transitions {
			cond := expr.Expr(expr.TRUE)
			if !td.Condition.isZero() {
				cond, err = td.Condition.build()
				if err != nil {
					return nil, err
				}
			}
			target, err := parseName(td.Target)
			if err != nil {
				return nil, err
			}
			transitions[j] = session.Transition{Target: target, Condition: cond}
		}
		actions := make([]statement.Statement, len(sd.Actions))
		for j, ad := range sd.Actions {
			st, err := ad.build()
			if err != nil {
				return nil, err
			}
			actions[j] = st
		}
		stateName, err := parseName(sd.Name)
		if err != nil {
			return nil, err
		}
		states[i] = session.State{
			Name:         stateName,
			Transitions:  transitions,
			Actions:      actions,
			Declarations: locals,
		}
	}

	name, err := parseName(doc.Name)
	if err != nil {
		return nil, err
	}
	initial, err := parseName(doc.Initial)
	if err != nil {
		return nil, err
	}
	final, err := parseName(doc.Final)
	if err != nil {
		return nil, err
	}
	return &session.Session{
		Name:         name,
		Initial:      initial,
		Final:        final,
		States:       states,
		Declarations: globals,
		Parameters:   params,
	}, nil
}

// typeDoc is one entry of a message fixture's types: list — a modular
// integer, a range integer or an enumeration, the scalar field types the
// model evaluator needs a concrete Size for.
type typeDoc struct {
	Name     string           `yaml:"name"`
	Kind     string           `yaml:"kind"` // modular, range, enum
	Modulus  int64            `yaml:"modulus,omitempty"`
	First    int64            `yaml:"first,omitempty"`
	Last     int64            `yaml:"last,omitempty"`
	Bits     int              `yaml:"bits,omitempty"`
	Literals map[string]int64 `yaml:"literals,omitempty"`
}

func (d typeDoc) build() (rflxtype.Type, error) {
	switch d.Kind {
	case "modular":
		return rflxtype.NewModularInteger(d.Name, d.Modulus)
	case "range":
		return rflxtype.NewRangeInteger(d.Name, d.First, d.Last, d.Bits)
	case "enum":
		if len(d.Literals) == 0 {
			return nil, fmt.Errorf("type %q: enum requires at least one literal", d.Name)
		}
		return rflxtype.Enumeration{Name: d.Name, Literals: d.Literals, Bits: d.Bits}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", d.Kind)
	}
}

// edgeDoc is one outgoing edge of a message field. Condition, Length and
// First default to graph.NewEdge's undefined markers when omitted, so the
// model evaluator applies its own defaulting rule.
type edgeDoc struct {
	Target    string    `yaml:"target"`
	Condition *exprNode `yaml:"condition,omitempty"`
	Length    *exprNode `yaml:"length,omitempty"`
	First     *exprNode `yaml:"first,omitempty"`
}

// finalTarget names the distinguished terminal node the way a message
// fixture spells it; an empty target string means the same thing.
const finalTarget = "Final"

func (d edgeDoc) build() (graph.Edge, error) {
	target := d.Target
	if target == finalTarget {
		target = graph.FinalName
	}
	e := graph.NewEdge(target)
	if d.Condition != nil {
		cond, err := d.Condition.build()
		if err != nil {
			return graph.Edge{}, err
		}
		e.Condition = cond
	}
	if d.Length != nil {
		length, err := d.Length.build()
		if err != nil {
			return graph.Edge{}, err
		}
		e.Length = length
	}
	if d.First != nil {
		first, err := d.First.build()
		if err != nil {
			return graph.Edge{}, err
		}
		e.First = first
	}
	return e, nil
}

// fieldDoc is one named vertex of a message fixture's field list, in the
// order the first-listed field becomes the message's Initial field.
type fieldDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Edges []edgeDoc `yaml:"edges"`
}

// messageDoc is the top-level YAML shape LoadMessage parses: a named
// message, its locally-declared scalar types, and its fields.
type messageDoc struct {
	Name   string     `yaml:"name"`
	Types  []typeDoc  `yaml:"types"`
	Fields []fieldDoc `yaml:"fields"`
}

// LoadMessage parses a YAML message-graph document into a *graph.Graph
// ready for internal/model.Validate, standing in for the concrete-syntax
// parser spec.md scopes out of this module (§1: "concrete-syntax parsing
// of the source language ... remain external collaborators").
func LoadMessage(data []byte) (*graph.Graph, error) {
	var doc messageDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse message fixture: %w", err)
	}

	types := make(map[string]rflxtype.Type, len(doc.Types))
	for _, td := range doc.Types {
		t, err := td.build()
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", td.Name, err)
		}
		types[td.Name] = t
	}

	g := graph.New(doc.Name)
	for _, fd := range doc.Fields {
		typ, ok := types[fd.Type]
		if !ok {
			return nil, fmt.Errorf("field %q: undeclared type %q", fd.Name, fd.Type)
		}
		edges := make([]graph.Edge, len(fd.Edges))
		for i, ed := range fd.Edges {
			e, err := ed.build()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", fd.Name, err)
			}
			edges[i] = e
		}
		g.AddField(&graph.Field{Name: fd.Name, Type: typ, Outgoing: edges})
	}
	return g, nil
}
