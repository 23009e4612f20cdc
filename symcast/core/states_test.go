// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/symcast/symcast/symcast/interop"
)

func apply(a *GuardedAutomaton, syms ...interop.Symbol) []State {
	states := make([]State, 0, len(syms))
	for _, sym := range syms {
		state, _ := a.Observe(sym)
		states = append(states, state)
	}
	return states
}

func TestTransitionTableTotal(t *testing.T) {
	table := DefaultTransitionTable()
	for state := StateQ0; state <= StateQ3; state++ {
		for sym := interop.SymbolA; sym.InAlphabet(); sym++ {
			next := table.Next(state, sym)
			assert.True(t, next >= StateQ0 && next <= StateQ3)
			assert.True(t, next >= state, "table must never regress")
		}
	}
}

func TestOutOfOrderPrefixIgnored(t *testing.T) {
	// C and B before the first A are no-ops, then A/B/C advance to accept.
	a := NewGuardedAutomaton(DefaultTransitionTable())
	visited := apply(a,
		interop.SymbolC, interop.SymbolB, interop.SymbolA, interop.SymbolB, interop.SymbolC)
	assert.Equal(t, []State{StateQ0, StateQ0, StateQ1, StateQ2, StateQ3}, visited)
	assert.True(t, a.Accepted())
}

func TestDuplicateSymbolsIgnored(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	visited := apply(a,
		interop.SymbolA, interop.SymbolA, interop.SymbolB, interop.SymbolB, interop.SymbolC)
	assert.Equal(t, []State{StateQ1, StateQ1, StateQ2, StateQ2, StateQ3}, visited)
	assert.True(t, a.Accepted())
}

func TestMissingSymbolNeverAccepts(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	for i := 0; i < 100; i++ {
		a.Observe(interop.SymbolA)
		a.Observe(interop.SymbolB)
	}
	assert.Equal(t, StateQ2, a.State())
	assert.False(t, a.Accepted())
}

func TestGuardMismatchDoesNotChangeState(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	for i := 0; i < 50; i++ {
		state, changed := a.Observe(interop.SymbolB)
		assert.Equal(t, StateQ0, state)
		assert.False(t, changed)
	}
}

func TestAcceptingStateIsAbsorbing(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	apply(a, interop.SymbolA, interop.SymbolB, interop.SymbolC)
	assert.Equal(t, StateQ3, a.State())

	for _, sym := range []interop.Symbol{
		interop.SymbolA, interop.SymbolB, interop.SymbolC, interop.SymbolAck,
	} {
		state, changed := a.Observe(sym)
		assert.Equal(t, StateQ3, state)
		assert.False(t, changed)
	}
}

func TestObserveReportsAdvance(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	state, changed := a.Observe(interop.SymbolA)
	assert.Equal(t, StateQ1, state)
	assert.True(t, changed)
	state, changed = a.Observe(interop.SymbolC)
	assert.Equal(t, StateQ1, state)
	assert.False(t, changed)
}

func TestNonAlphabetSymbolIgnored(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	state, changed := a.Observe(interop.SymbolAck)
	assert.Equal(t, StateQ0, state)
	assert.False(t, changed)
	state, changed = a.Observe(interop.Symbol(42))
	assert.Equal(t, StateQ0, state)
	assert.False(t, changed)
}

func TestSubsequenceProperty(t *testing.T) {
	accepting := [][]interop.Symbol{
		{interop.SymbolA, interop.SymbolB, interop.SymbolC},
		{interop.SymbolB, interop.SymbolA, interop.SymbolC, interop.SymbolB, interop.SymbolC},
		{interop.SymbolC, interop.SymbolC, interop.SymbolA, interop.SymbolA, interop.SymbolB, interop.SymbolC},
	}
	for _, seq := range accepting {
		a := NewGuardedAutomaton(DefaultTransitionTable())
		apply(a, seq...)
		assert.True(t, a.Accepted(), "sequence %v must accept", seq)
	}

	rejecting := [][]interop.Symbol{
		{},
		{interop.SymbolC, interop.SymbolB, interop.SymbolA},
		{interop.SymbolA, interop.SymbolC, interop.SymbolB},
		{interop.SymbolB, interop.SymbolC, interop.SymbolA, interop.SymbolB},
	}
	for _, seq := range rejecting {
		a := NewGuardedAutomaton(DefaultTransitionTable())
		apply(a, seq...)
		assert.False(t, a.Accepted(), "sequence %v must not accept", seq)
	}
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "Q0", StateQ0.String())
	assert.Equal(t, "Q3", StateQ3.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestDescription(t *testing.T) {
	a := NewGuardedAutomaton(DefaultTransitionTable())
	desc := a.Description()
	assert.Equal(t, "Q0", desc.Name)
	apply(a, interop.SymbolA)
	assert.Equal(t, "Q1", a.Description().Name)
}
