// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package mbus is the in-process transport: one FIFO mailbox per process,
// fan-out broadcast from the coordinator to every worker. Send never blocks
// and never drops; Recv blocks; TryRecvAny returns immediately.
package mbus

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/interop"
)

// ErrUnknownProcess returned when binding an endpoint for an id outside the
// topology.
var ErrUnknownProcess = errors.New("ErrUnknownProcess")

type mailbox struct {
	deliveryCondition *sync.Cond
	queue             []interop.Message
}

func newMailbox() *mailbox {
	return &mailbox{deliveryCondition: sync.NewCond(&sync.Mutex{})}
}

func (m *mailbox) put(msg interop.Message) {
	m.deliveryCondition.L.Lock()
	defer m.deliveryCondition.L.Unlock()
	m.queue = append(m.queue, msg)
	m.deliveryCondition.Signal()
}

func (m *mailbox) tryTake() (interop.Message, bool) {
	m.deliveryCondition.L.Lock()
	defer m.deliveryCondition.L.Unlock()
	if len(m.queue) == 0 {
		return interop.Message{}, false
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, true
}

func (m *mailbox) take(ctx context.Context) (interop.Message, error) {
	delivered := make(chan struct{})
	defer close(delivered)
	go func() {
		select {
		case <-ctx.Done():
			// wake the waiter so it can observe the canceled context
			m.deliveryCondition.L.Lock()
			m.deliveryCondition.Broadcast()
			m.deliveryCondition.L.Unlock()
		case <-delivered:
		}
	}()

	m.deliveryCondition.L.Lock()
	defer m.deliveryCondition.L.Unlock()
	for len(m.queue) == 0 && ctx.Err() == nil {
		m.deliveryCondition.Wait()
	}
	if len(m.queue) == 0 {
		return interop.Message{}, ctx.Err()
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, nil
}

// Bus owns the mailboxes of a fixed topology. The process set is established
// at construction; there is no join or leave.
type Bus struct {
	mailboxes map[interop.ProcessID]*mailbox
	workers   []interop.ProcessID
}

// New returns a bus with one mailbox for the coordinator and one per worker.
func New(coordinator interop.ProcessID, workers []interop.ProcessID) *Bus {
	mailboxes := make(map[interop.ProcessID]*mailbox, len(workers)+1)
	mailboxes[coordinator] = newMailbox()
	workerIDs := make([]interop.ProcessID, len(workers))
	for i, id := range workers {
		mailboxes[id] = newMailbox()
		workerIDs[i] = id
	}
	return &Bus{mailboxes: mailboxes, workers: workerIDs}
}

// Endpoint binds a transport handle to one process of the topology.
func (b *Bus) Endpoint(self interop.ProcessID) (interop.Transport, error) {
	box, ok := b.mailboxes[self]
	if !ok {
		return nil, ErrUnknownProcess
	}
	return &endpoint{bus: b, self: self, inbox: box}, nil
}

type endpoint struct {
	bus   *Bus
	self  interop.ProcessID
	inbox *mailbox
}

func (e *endpoint) Send(dst interop.ProcessID, msg interop.Message) {
	box, ok := e.bus.mailboxes[dst]
	if !ok {
		log.WithFields(log.Fields{"from": e.self, "to": dst}).Warn("Dropping message to unknown destination")
		return
	}
	box.put(msg)
}

func (e *endpoint) Recv(ctx context.Context) (interop.Message, error) {
	return e.inbox.take(ctx)
}

func (e *endpoint) TryRecvAny() (interop.Message, bool) {
	return e.inbox.tryTake()
}

func (e *endpoint) Broadcast(msg interop.Message) {
	for _, id := range e.bus.workers {
		e.Send(id, msg)
	}
}
