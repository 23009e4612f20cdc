// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package coordinator implements the broadcast side of the protocol: draw a
// symbol, fan it out to every worker, poll for acknowledgments, and stop once
// the termination detector reports all workers accepted.
package coordinator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/core"
	"github.com/symcast/symcast/symcast/core/statejson"
	"github.com/symcast/symcast/symcast/interop"
)

// Coordinator drives the broadcast loop. Its own state space is the single
// state R0; all interesting state lives in the ack registry.
type Coordinator struct {
	id           interop.ProcessID
	transport    interop.Transport
	source       SymbolSource
	registry     *core.AckRegistry
	payloadWidth int

	rounds  uint64
	started time.Time
}

// New returns a coordinator. The registry must be initialized with the full
// worker set before Run is called.
func New(id interop.ProcessID, transport interop.Transport, source SymbolSource,
	registry *core.AckRegistry, payloadWidth int) *Coordinator {
	return &Coordinator{
		id:           id,
		transport:    transport,
		source:       source,
		registry:     registry,
		payloadWidth: payloadWidth,
		started:      time.Now(),
	}
}

// Run broadcasts symbols until every worker has acknowledged. Broadcasting
// continues concurrently with acknowledgment collection: workers accept at
// different rounds, so the stream must not stop before the last one is done.
// A worker that never accepts keeps Run looping until ctx is canceled.
func (c *Coordinator) Run(ctx context.Context) error {
	log.WithFields(log.Fields{
		"coordinatorID": c.id,
		"workers":       c.registry.WorkerCount(),
	}).Info("Coordinator started")

	for !c.registry.IsComplete() {
		if err := ctx.Err(); err != nil {
			c.registry.CancelWithError(err)
			return err
		}

		sym := c.source.Next()
		c.transport.Broadcast(interop.NewMessage(c.id, sym, c.payloadWidth))
		atomic.AddUint64(&c.rounds, 1)

		if err := c.collectAcks(); err != nil {
			c.registry.CancelWithError(err)
			return err
		}
	}

	log.WithFields(log.Fields{
		"coordinatorID": c.id,
		"rounds":        c.Rounds(),
		"acks":          c.registry.AckCount(),
	}).Info("All workers acknowledged, coordinator stopping")
	return nil
}

// collectAcks drains every acknowledgment currently pending. It never blocks.
func (c *Coordinator) collectAcks() error {
	for {
		msg, ok := c.transport.TryRecvAny()
		if !ok {
			return nil
		}
		sym, err := msg.Symbol()
		if err != nil {
			return err
		}
		if sym != interop.SymbolAck {
			return fmt.Errorf("%w: unexpected %s on acknowledgment channel from %s",
				interop.ErrProtocolViolation, sym, msg.Sender)
		}
		if c.registry.OnAck(msg.Sender) {
			log.WithFields(log.Fields{
				"workerID": msg.Sender,
				"acks":     c.registry.AckCount(),
				"workers":  c.registry.WorkerCount(),
			}).Info("Worker acknowledged completion")
		}
	}
}

// Rounds returns the number of broadcast rounds performed so far.
func (c *Coordinator) Rounds() uint64 {
	return atomic.LoadUint64(&c.rounds)
}

// Description returns coordinator progress for debugging purposes
func (c *Coordinator) Description() statejson.CoordinatorDescription {
	return statejson.CoordinatorDescription{
		State: statejson.StateDescription{
			Name:         core.CoordinatorStateName,
			LastModified: c.started.UnixNano() / int64(time.Millisecond),
		},
		Rounds:       c.Rounds(),
		AcksReceived: c.registry.AckCount(),
		Complete:     c.registry.IsComplete(),
	}
}
