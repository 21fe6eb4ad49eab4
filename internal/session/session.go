// Package session implements the state-machine validator: state
// existence, duplicate detection, reachability/detachment, condition and
// action scope checking, and declaration shadowing/unused checks.
package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Componolit/RecordFlux/internal/decl"
	"github.com/Componolit/RecordFlux/internal/diag"
	"github.com/Componolit/RecordFlux/internal/expr"
	"github.com/Componolit/RecordFlux/internal/ident"
	"github.com/Componolit/RecordFlux/internal/statement"
)

// Transition moves from its owning State to Target when Condition holds.
type Transition struct {
	Target      ident.ID
	Condition   expr.Expr
	Description string
	Loc         ident.Location
}

// State is one node of the session state machine: its own local
// declarations, the actions it performs on entry, and its outgoing
// transitions (tried in order; the first whose condition holds is taken).
type State struct {
	Name         ident.ID
	Transitions  []Transition
	Actions      []statement.Statement
	Declarations []decl.Declaration
	Loc          ident.Location
}

// Session is a full state machine: its states plus the global
// declarations and parameters visible from every state.
type Session struct {
	Name         ident.ID
	Initial      ident.ID
	Final        ident.ID
	States       []State
	Declarations []decl.Declaration
	Parameters   []decl.Declaration
	Loc          ident.Location
}

// Validate runs every check the original session validator performs, in
// the same order, and returns the accumulated diagnostics.
func (s *Session) Validate() *diag.Bag {
	bag := &diag.Bag{}

	if len(s.States) == 0 {
		bag.Append("empty states", diag.Session, diag.Error, s.Loc)
	}

	globalEnv := decl.New()
	for _, d := range s.Parameters {
		globalEnv.Declare(d, bag)
	}
	for _, d := range s.Declarations {
		globalEnv.Declare(d, bag)
	}

	s.validateStateExistence(bag)
	s.validateDuplicateStates(bag)
	s.validateStateReachability(bag)

	// One combined (global+local) environment per state, built once and
	// shared across the condition, action and declaration passes so that
	// a reference made validating an action is still visible when the
	// declaration pass later checks for unused variables.
	perState := make([]*decl.Env, len(s.States))
	for i, st := range s.States {
		perState[i] = stateEnv(globalEnv, st, bag)
	}

	s.validateConditions(perState, bag)
	s.validateActions(perState, bag)
	s.validateDeclarationShadowing(globalEnv, bag)
	s.validateLocalUsage(perState, bag)

	globalEnv.ValidateReserved(bag)
	globalEnv.ValidateTargets(bag)
	mergeGlobalUsage(globalEnv, perState)
	globalEnv.ValidateUnused(bag)

	return bag
}

func (s *Session) stateNames() map[string]bool {
	names := make(map[string]bool, len(s.States))
	for _, st := range s.States {
		names[st.Name.Key()] = true
	}
	return names
}

func (s *Session) validateStateExistence(bag *diag.Bag) {
	names := s.stateNames()
	if !names[s.Initial.Key()] {
		bag.Append(fmt.Sprintf("initial state %q does not exist in %q", s.Initial.String(), s.Name.String()), diag.Session, diag.Error, s.Initial.Location)
	}
	if !names[s.Final.Key()] {
		bag.Append(fmt.Sprintf("final state %q does not exist in %q", s.Final.String(), s.Name.String()), diag.Session, diag.Error, s.Final.Location)
	}
	for _, st := range s.States {
		for _, t := range st.Transitions {
			if !names[t.Target.Key()] {
				bag.Append(
					fmt.Sprintf("transition from state %q to non-existent state %q in %q", st.Name.String(), t.Target.String(), s.Name.String()),
					diag.Session, diag.Error, t.Target.Location,
				)
			}
		}
	}
}

func (s *Session) validateDuplicateStates(bag *diag.Bag) {
	seen := map[string]bool{}
	var duplicates []string
	for _, st := range s.States {
		k := strings.ToLower(st.Name.Key())
		if seen[k] {
			duplicates = append(duplicates, st.Name.String())
		}
		seen[k] = true
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		bag.Append(fmt.Sprintf("duplicate states: %s", strings.Join(duplicates, ", ")), diag.Session, diag.Error, s.Loc)
	}
}

func (s *Session) validateStateReachability(bag *diag.Bag) {
	hasIncoming := map[string]bool{}
	for _, st := range s.States {
		for _, t := range st.Transitions {
			hasIncoming[t.Target.Key()] = true
		}
	}
	var unreachable []string
	for _, st := range s.States {
		if !st.Name.Equal(s.Initial) && !hasIncoming[st.Name.Key()] {
			unreachable = append(unreachable, st.Name.String())
		}
	}
	if len(unreachable) > 0 {
		bag.Append(fmt.Sprintf("unreachable states %s", strings.Join(unreachable, ", ")), diag.Session, diag.Error, s.Loc)
	}

	var detached []string
	for _, st := range s.States {
		if !st.Name.Equal(s.Final) && len(st.Transitions) == 0 {
			detached = append(detached, st.Name.String())
		}
	}
	if len(detached) > 0 {
		bag.Append(fmt.Sprintf("detached states %s", strings.Join(detached, ", ")), diag.Session, diag.Error, s.Loc)
	}
}

func (s *Session) validateConditions(perState []*decl.Env, bag *diag.Bag) {
	for i, st := range s.States {
		for _, t := range st.Transitions {
			t.Condition.Simplified().Validate(perState[i], bag)
		}
	}
}

func (s *Session) validateActions(perState []*decl.Env, bag *diag.Bag) {
	for i, st := range s.States {
		for idx, a := range st.Actions {
			actionBag := &diag.Bag{}
			a.Validate(perState[i], actionBag)
			if actionBag.HasErrors() {
				bag.Append(fmt.Sprintf("invalid action %d of state %s", idx, st.Name.Name()), diag.Session, diag.Error, a.Location())
			}
			bag.Extend(actionBag)
		}
	}
}

func (s *Session) validateDeclarationShadowing(globalEnv *decl.Env, bag *diag.Bag) {
	for _, st := range s.States {
		for _, d := range st.Declarations {
			if _, isGlobal := globalEnv.Get(d.Identifier); isGlobal {
				bag.Append(fmt.Sprintf("local variable %q shadows global declaration in state %s", d.Identifier.String(), st.Name.Name()), diag.Session, diag.Error, s.Loc)
			}
		}
	}
}

func (s *Session) validateLocalUsage(perState []*decl.Env, bag *diag.Bag) {
	for i, st := range s.States {
		for _, d := range st.Declarations {
			ld, _ := perState[i].Get(d.Identifier)
			if ld != nil && !ld.Referenced() {
				bag.Append(fmt.Sprintf("unused local variable %q in state %s", d.Identifier.String(), st.Name.Name()), diag.Session, diag.Error, s.Loc)
			}
		}
	}
}

// mergeGlobalUsage propagates the "referenced" flag each per-state
// environment recorded for a global declaration back onto globalEnv,
// since every state validated against its own copy of the global scope.
func mergeGlobalUsage(globalEnv *decl.Env, perState []*decl.Env) {
	for _, d := range globalEnv.Declarations() {
		for _, env := range perState {
			if copyD, ok := env.Get(d.Identifier); ok && copyD.Referenced() {
				globalEnv.MarkReferenced(d.Identifier)
				break
			}
		}
	}
}

// stateEnv builds the combined parameters+global+local environment a
// state's transitions and actions are validated against.
func stateEnv(globalEnv *decl.Env, st State, bag *diag.Bag) *decl.Env {
	env := decl.New()
	for _, d := range globalEnv.Declarations() {
		env.Declare(*d, bag)
	}
	for _, d := range st.Declarations {
		env.Declare(d, bag)
	}
	return env
}
