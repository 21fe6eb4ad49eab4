// Package pipeline chains the declaration, graph, model and session
// validation stages into one run, continuing past a stage's errors so a
// single invocation reports every diagnostic it can rather than stopping
// at the first failing stage.
package pipeline

import "github.com/Componolit/RecordFlux/internal/diag"

// Stage is one step of a validation run. It receives the accumulated
// Context from prior stages and returns the Context to pass on.
type Stage interface {
	Process(ctx *Context) *Context
}

// StageFunc adapts a plain function to Stage.
type StageFunc func(*Context) *Context

func (f StageFunc) Process(ctx *Context) *Context { return f(ctx) }

// Context carries whatever a Stage needs to hand to the next Stage, plus
// the diagnostics accumulated so far. Stages communicate extra state to
// each other through Values, keyed by a package-local string the stage
// that populates it documents.
type Context struct {
	Bag    *diag.Bag
	Values map[string]any
}

// NewContext starts a run with an empty diagnostics bag.
func NewContext() *Context {
	return &Context{Bag: &diag.Bag{}, Values: map[string]any{}}
}

// Pipeline runs a fixed sequence of stages.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order. A stage that encounters errors does
// not stop the pipeline — later stages may still have independent
// diagnostics to contribute, and the caller decides at the end whether
// ctx.Bag.Propagate() should fail the whole run.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
