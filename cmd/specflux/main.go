// Command specflux loads a session fixture and, optionally, a message
// fixture, validates each, and prints the combined diagnostics. It
// exists to exercise the library end to end; concrete syntax parsing
// and code generation are out of scope for this module.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/fixture"
	"github.com/Componolit/RecordFlux/internal/graph"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/model"
	"github.com/Componolit/RecordFlux/internal/pipeline"
	"github.com/Componolit/RecordFlux/internal/report"
	"github.com/Componolit/RecordFlux/internal/session"
	"github.com/Componolit/RecordFlux/internal/store"
)

// loadSessionStage reads and parses the session fixture at path, storing
// the result under "session" for validateSessionStage to pick up.
func loadSessionStage(path string) pipeline.StageFunc {
	return func(ctx *pipeline.Context) *pipeline.Context {
		data, err := os.ReadFile(path)
		if err != nil {
			ctx.Bag.Append(err.Error(), diag.CLI, diag.Error, ident.Location{})
			return ctx
		}
		sess, err := fixture.LoadSession(data)
		if err != nil {
			ctx.Bag.Append(err.Error(), diag.Parser, diag.Error, ident.Location{})
			return ctx
		}
		ctx.Values["session"] = sess
		return ctx
	}
}

func validateSessionStage(ctx *pipeline.Context) *pipeline.Context {
	sess, ok := ctx.Values["session"].(*session.Session)
	if !ok {
		return ctx
	}
	ctx.Bag.Extend(sess.Validate())
	return ctx
}

// loadMessageStage reads and parses the message fixture at path, storing
// the result under "graph" for validateMessageStage to pick up. A no-op
// when path is empty (no message fixture was given on the command line).
func loadMessageStage(path string) pipeline.StageFunc {
	return func(ctx *pipeline.Context) *pipeline.Context {
		if path == "" {
			return ctx
		}
		data, err := os.ReadFile(path)
		if err != nil {
			ctx.Bag.Append(err.Error(), diag.CLI, diag.Error, ident.Location{})
			return ctx
		}
		g, err := fixture.LoadMessage(data)
		if err != nil {
			ctx.Bag.Append(err.Error(), diag.Parser, diag.Error, ident.Location{})
			return ctx
		}
		ctx.Values["graph"] = g
		return ctx
	}
}

func validateMessageStage(ctx *pipeline.Context) *pipeline.Context {
	g, ok := ctx.Values["graph"].(*graph.Graph)
	if !ok {
		return ctx
	}
	ctx.Bag.Extend(model.Validate(g, nil))
	return ctx
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: specflux <session.yaml> [message.yaml]")
		os.Exit(2)
	}

	messagePath := ""
	if len(os.Args) > 2 {
		messagePath = os.Args[2]
	}

	run := pipeline.New(
		loadSessionStage(os.Args[1]),
		pipeline.StageFunc(validateSessionStage),
		loadMessageStage(messagePath),
		pipeline.StageFunc(validateMessageStage),
	)
	ctx := run.Run(pipeline.NewContext())
	bag := ctx.Bag

	report.Write(os.Stdout, bag)

	if dbPath := os.Getenv("SPECFLUX_STORE"); dbPath != "" {
		st, err := store.Open(dbPath)
		if err == nil {
			defer st.Close()
			if runID, err := st.RecordRun(context.Background(), os.Args[1], bag); err == nil {
				fmt.Printf("run recorded: %s\n", runID)
			}
		}
	}

	if bag.HasErrors() {
		os.Exit(1)
	}
}
