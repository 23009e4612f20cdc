// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/symcast/symcast/symcast/core/statejson"
	"github.com/symcast/symcast/symcast/interop"
)

// State is an element of the worker automaton's state set. StateQ0 is the
// unique initial state and StateQ3 the unique accepting state.
type State int

const (
	StateQ0 State = iota
	StateQ1
	StateQ2
	StateQ3

	numStates = 4
)

// CoordinatorStateName is the coordinator's one and only state.
const CoordinatorStateName = "R0"

var stateNames = [numStates]string{"Q0", "Q1", "Q2", "Q3"}

func (s State) String() string {
	if s >= StateQ0 && s < numStates {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TransitionTable is a total mapping from (State, Symbol) to State. It is
// constructed once and shared read-only by every automaton; taken with the
// guard below it accepts the language "(B|C)*A(A|C)*B(A|B)*C".
type TransitionTable [numStates][interop.AlphabetSize]State

// Next looks up the successor state for (state, sym).
func (t *TransitionTable) Next(state State, sym interop.Symbol) State {
	return t[state][sym]
}

var defaultTable = TransitionTable{
	{StateQ1, StateQ0, StateQ0},
	{StateQ1, StateQ2, StateQ1},
	{StateQ2, StateQ2, StateQ3},
	{StateQ3, StateQ3, StateQ3},
}

// DefaultTransitionTable returns the shared transition matrix.
func DefaultTransitionTable() *TransitionTable {
	return &defaultTable
}

// GuardedAutomaton holds one worker's current state. The table is applied
// only for the three advancing pairs (Q0,A), (Q1,B), (Q2,C); the matrix maps
// every other in-alphabet pair to the current state, so a guard mismatch is a
// silent no-op, never an error. StateQ3 is terminal: once reached, every
// further symbol (including ACK) is ignored.
type GuardedAutomaton struct {
	mu                sync.Mutex
	table             *TransitionTable
	currentState      State
	stateLastModified time.Time
}

// NewGuardedAutomaton returns a new automaton in StateQ0.
func NewGuardedAutomaton(table *TransitionTable) *GuardedAutomaton {
	return &GuardedAutomaton{
		table:             table,
		currentState:      StateQ0,
		stateLastModified: time.Now(),
	}
}

func guardMet(state State, sym interop.Symbol) bool {
	switch {
	case state == StateQ0 && sym == interop.SymbolA:
		return true
	case state == StateQ1 && sym == interop.SymbolB:
		return true
	case state == StateQ2 && sym == interop.SymbolC:
		return true
	}
	return false
}

// Observe applies one received symbol and returns the resulting state along
// with whether the state changed. Symbols outside the alphabet are ignored.
func (a *GuardedAutomaton) Observe(sym interop.Symbol) (State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentState == StateQ3 {
		return StateQ3, false
	}
	if !sym.InAlphabet() {
		return a.currentState, false
	}
	if !guardMet(a.currentState, sym) {
		return a.currentState, false
	}

	a.currentState = a.table.Next(a.currentState, sym)
	a.stateLastModified = time.Now()
	return a.currentState, true
}

// State returns the current state.
func (a *GuardedAutomaton) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentState
}

// Accepted reports whether the automaton has reached its accepting state.
func (a *GuardedAutomaton) Accepted() bool {
	return a.State() == StateQ3
}

// Description returns the automaton state for debugging purposes
func (a *GuardedAutomaton) Description() statejson.StateDescription {
	a.mu.Lock()
	defer a.mu.Unlock()
	return statejson.StateDescription{
		Name:         a.currentState.String(),
		LastModified: a.stateLastModified.UnixNano() / int64(time.Millisecond),
	}
}
