// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/interop"
)

// ErrDetectorCanceled returned when completion waiting was canceled before
// every worker acknowledged.
var ErrDetectorCanceled = errors.New("ErrDetectorCanceled")

// AckRegistry tracks which workers have acknowledged completion. Records are
// set exactly once and never unset; a duplicate acknowledgment is a no-op.
// The registry is owned by the coordinator side only.
type AckRegistry struct {
	ackCondition *sync.Cond
	records      map[interop.ProcessID]bool
	arrived      int
	canceled     bool
	err          error
}

// NewAckRegistry returns a registry with an all-false record for every known
// worker id.
func NewAckRegistry(workers []interop.ProcessID) *AckRegistry {
	records := make(map[interop.ProcessID]bool, len(workers))
	for _, id := range workers {
		records[id] = false
	}
	return &AckRegistry{
		ackCondition: sync.NewCond(&sync.Mutex{}),
		records:      records,
	}
}

// OnAck marks the worker's record true. It returns true only for the first
// acknowledgment from that worker. An id outside the known topology is
// ignored.
func (r *AckRegistry) OnAck(id interop.ProcessID) bool {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()

	acked, known := r.records[id]
	if !known {
		log.WithField("workerID", id).Warn("Acknowledgment from unknown worker ignored")
		return false
	}
	if acked {
		return false
	}

	r.records[id] = true
	r.arrived++
	if r.arrived == len(r.records) {
		r.ackCondition.Broadcast()
	}
	return true
}

// IsComplete reports whether every known worker has acknowledged.
func (r *AckRegistry) IsComplete() bool {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()
	return r.arrived == len(r.records)
}

// AckCount returns the number of workers that have acknowledged.
func (r *AckRegistry) AckCount() int {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()
	return r.arrived
}

// WorkerCount returns the size of the known worker set.
func (r *AckRegistry) WorkerCount() int {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()
	return len(r.records)
}

// Records returns a copy of the per-worker acknowledgment records.
func (r *AckRegistry) Records() map[interop.ProcessID]bool {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()
	records := make(map[interop.ProcessID]bool, len(r.records))
	for id, acked := range r.records {
		records[id] = acked
	}
	return records
}

func (r *AckRegistry) awaitCompletion() error {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()

	for r.arrived != len(r.records) && !r.canceled {
		r.ackCondition.Wait()
	}

	if r.canceled {
		if r.err != nil {
			return r.err
		}
		return ErrDetectorCanceled
	}
	return nil
}

// AwaitCompletion blocks until every worker has acknowledged, the registry is
// canceled, or ctx is done.
func (r *AckRegistry) AwaitCompletion(ctx context.Context) error {
	var err error
	errorChan := make(chan error, 1)

	go func() {
		errorChan <- r.awaitCompletion()
	}()

	select {
	case err = <-errorChan:
		break
	case <-ctx.Done():
		err = ctx.Err()
		r.CancelWithError(err)
		break
	}

	return err
}

// CancelWithError wakes completion waiters with err.
func (r *AckRegistry) CancelWithError(err error) {
	r.ackCondition.L.Lock()
	defer r.ackCondition.L.Unlock()
	r.canceled = true
	r.err = err
	r.ackCondition.Broadcast()
}
