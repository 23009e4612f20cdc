// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package worker implements the receive side of the protocol: one guarded
// automaton driven by the inbound symbol stream, acknowledging completion
// exactly once.
package worker

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/core"
	"github.com/symcast/symcast/symcast/core/statejson"
	"github.com/symcast/symcast/symcast/interop"
)

// Worker owns one automaton and consumes the coordinator's symbol stream.
type Worker struct {
	id            interop.ProcessID
	coordinatorID interop.ProcessID
	transport     interop.Transport
	automaton     *core.GuardedAutomaton
	payloadWidth  int
}

// New returns a worker in the initial automaton state.
func New(id, coordinatorID interop.ProcessID, transport interop.Transport,
	table *core.TransitionTable, payloadWidth int) *Worker {
	return &Worker{
		id:            id,
		coordinatorID: coordinatorID,
		transport:     transport,
		automaton:     core.NewGuardedAutomaton(table),
		payloadWidth:  payloadWidth,
	}
}

// ID returns the worker's process id.
func (w *Worker) ID() interop.ProcessID {
	return w.id
}

// Run blocks on the inbound stream until the automaton accepts, then sends a
// single acknowledgment and returns. The blocking receive is the worker's
// only suspension point. A message that does not decode to one symbol is a
// fatal protocol violation; the protocol cannot ask for a resend.
func (w *Worker) Run(ctx context.Context) error {
	for {
		msg, err := w.transport.Recv(ctx)
		if err != nil {
			return err
		}
		sym, err := msg.Symbol()
		if err != nil {
			return fmt.Errorf("worker %s: %w", w.id, err)
		}

		state, advanced := w.automaton.Observe(sym)
		if !advanced {
			continue
		}
		log.WithFields(log.Fields{
			"workerID": w.id,
			"symbol":   sym,
			"state":    state,
		}).Debug("Worker advanced")

		if state == core.StateQ3 {
			log.WithField("workerID", w.id).Info("Worker reached accepting state, acknowledging and shutting down")
			w.transport.Send(w.coordinatorID, interop.NewMessage(w.id, interop.SymbolAck, w.payloadWidth))
			return nil
		}
	}
}

// State returns the automaton's current state.
func (w *Worker) State() core.State {
	return w.automaton.State()
}

// Description returns the worker state for debugging purposes
func (w *Worker) Description() statejson.WorkerDescription {
	return statejson.WorkerDescription{
		ID:       string(w.id),
		State:    w.automaton.Description(),
		Accepted: w.automaton.Accepted(),
	}
}
