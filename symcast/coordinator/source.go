// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"math/rand"

	"github.com/symcast/symcast/symcast/interop"
)

// SymbolSource produces the unbounded outbound symbol stream. Sources never
// produce ACK; that value is reserved for the acknowledgment channel.
type SymbolSource interface {
	Next() interop.Symbol
}

type uniformSource struct {
	rng *rand.Rand
}

// NewUniformSource returns a source drawing independently and uniformly from
// the alphabet. The protocol only needs every symbol to eventually appear, so
// the exact distribution is not load-bearing; uniform matches the original
// rand()%3.
func NewUniformSource(seed int64) SymbolSource {
	return &uniformSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *uniformSource) Next() interop.Symbol {
	return interop.Symbol(s.rng.Intn(interop.AlphabetSize))
}

type cyclicSource struct {
	symbols []interop.Symbol
	next    int
}

// NewCyclicSource returns a source that repeats the given symbols forever.
// Deterministic; intended for tests and demos.
func NewCyclicSource(symbols ...interop.Symbol) SymbolSource {
	if len(symbols) == 0 {
		symbols = []interop.Symbol{interop.SymbolA, interop.SymbolB, interop.SymbolC}
	}
	return &cyclicSource{symbols: symbols}
}

func (s *cyclicSource) Next() interop.Symbol {
	sym := s.symbols[s.next]
	s.next = (s.next + 1) % len(s.symbols)
	return sym
}
