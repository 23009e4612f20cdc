// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"context"
	"errors"
	"fmt"
)

// ProcessID identifies a process in the fixed topology. IDs are opaque,
// stable for the process lifetime, and assigned at bootstrap.
type ProcessID string

// Symbol is an element of the broadcast alphabet. Ack is a reserved control
// value used only on the acknowledgment channel; the coordinator never
// broadcasts it and the symbol source never produces it.
type Symbol int32

const (
	SymbolA Symbol = iota
	SymbolB
	SymbolC
	SymbolAck

	numAlphabetSymbols = 3
)

var symbolNames = map[Symbol]string{
	SymbolA:   "A",
	SymbolB:   "B",
	SymbolC:   "C",
	SymbolAck: "ACK",
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Symbol(%d)", int32(s))
}

// Valid reports whether s is a recognized wire value.
func (s Symbol) Valid() bool {
	return s >= SymbolA && s <= SymbolAck
}

// InAlphabet reports whether s is a broadcastable alphabet symbol.
func (s Symbol) InAlphabet() bool {
	return s >= SymbolA && s < numAlphabetSymbols
}

// AlphabetSize is the number of broadcastable symbols.
const AlphabetSize = numAlphabetSymbols

// DefaultPayloadWidth is the number of repeated symbol slots in a message
// payload.
const DefaultPayloadWidth = 100

// ErrProtocolViolation is returned when a received message does not decode to
// exactly one recognized symbol. The protocol has no resend-on-demand, so the
// receiving process treats this as fatal.
var ErrProtocolViolation = errors.New("protocol violation")

// Message is the envelope exchanged between the coordinator and workers. The
// payload is a fixed-width buffer in which every slot carries the same
// symbol; the width itself conveys no information.
type Message struct {
	Sender  ProcessID
	Payload []Symbol
}

// NewMessage builds a message whose payload slots all carry sym.
func NewMessage(sender ProcessID, sym Symbol, width int) Message {
	if width < 1 {
		width = 1
	}
	payload := make([]Symbol, width)
	for i := range payload {
		payload[i] = sym
	}
	return Message{Sender: sender, Payload: payload}
}

// Symbol decodes the message down to its one logical symbol. An empty
// payload, a disagreeing slot, or an unrecognized wire value is a protocol
// violation.
func (m Message) Symbol() (Symbol, error) {
	if len(m.Payload) == 0 {
		return 0, fmt.Errorf("%w: empty payload from %s", ErrProtocolViolation, m.Sender)
	}
	sym := m.Payload[0]
	if !sym.Valid() {
		return 0, fmt.Errorf("%w: unrecognized symbol %d from %s", ErrProtocolViolation, int32(sym), m.Sender)
	}
	for i, slot := range m.Payload[1:] {
		if slot != sym {
			return 0, fmt.Errorf("%w: payload slot %d disagrees (%s vs %s) from %s",
				ErrProtocolViolation, i+1, slot, sym, m.Sender)
		}
	}
	return sym, nil
}

// Transport is the send/receive contract the runtimes depend on. An instance
// is bound to one process of the topology.
//
// Send is fire-and-forget; delivery is reliable and FIFO per destination.
// Recv blocks until a message addressed to the bound process arrives or ctx
// is done. TryRecvAny never blocks. Broadcast is repeated Send to every
// worker and is not atomic across destinations.
type Transport interface {
	Send(dst ProcessID, msg Message)
	Recv(ctx context.Context) (Message, error)
	TryRecvAny() (Message, bool)
	Broadcast(msg Message)
}
