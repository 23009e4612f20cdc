// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapidcore

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/symcast/symcast/symcast/coordinator"
	"github.com/symcast/symcast/symcast/core"
	"github.com/symcast/symcast/symcast/core/statejson"
	"github.com/symcast/symcast/symcast/interop"
	"github.com/symcast/symcast/symcast/mbus"
	"github.com/symcast/symcast/symcast/worker"
)

// Runner holds an assembled topology ready to run once.
type Runner struct {
	coordinatorID interop.ProcessID
	workerIDs     []interop.ProcessID
	registry      *core.AckRegistry
	coordinator   *coordinator.Coordinator
	workers       []*worker.Worker
}

func newRunner(coordinatorID interop.ProcessID, workerIDs []interop.ProcessID,
	source coordinator.SymbolSource, payloadWidth int) (*Runner, error) {
	bus := mbus.New(coordinatorID, workerIDs)
	registry := core.NewAckRegistry(workerIDs)
	table := core.DefaultTransitionTable()

	coordEnd, err := bus.Endpoint(coordinatorID)
	if err != nil {
		return nil, err
	}
	coord := coordinator.New(coordinatorID, coordEnd, source, registry, payloadWidth)

	workers := make([]*worker.Worker, 0, len(workerIDs))
	for _, id := range workerIDs {
		end, err := bus.Endpoint(id)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker.New(id, coordinatorID, end, table, payloadWidth))
	}

	return &Runner{
		coordinatorID: coordinatorID,
		workerIDs:     workerIDs,
		registry:      registry,
		coordinator:   coord,
		workers:       workers,
	}, nil
}

// Run starts every worker and the coordinator and blocks until the whole
// topology has terminated. The first error cancels everything else; with a
// healthy topology all runtimes exit on their own once every worker has
// acknowledged.
func (r *Runner) Run(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)
	for _, w := range r.workers {
		w := w
		errg.Go(func() error { return w.Run(ctx) })
	}
	errg.Go(func() error { return r.coordinator.Run(ctx) })
	return errg.Wait()
}

// AwaitCompletion blocks until every worker has acknowledged or ctx is done.
func (r *Runner) AwaitCompletion(ctx context.Context) error {
	return r.registry.AwaitCompletion(ctx)
}

// Registry exposes the termination detector.
func (r *Runner) Registry() *core.AckRegistry {
	return r.registry
}

// Topology returns the fixed process group for debugging purposes
func (r *Runner) Topology() statejson.TopologyDescription {
	workers := make([]string, len(r.workerIDs))
	for i, id := range r.workerIDs {
		workers[i] = string(id)
	}
	return statejson.TopologyDescription{
		Coordinator: string(r.coordinatorID),
		Workers:     workers,
		WorkerCount: len(workers),
	}
}

// InternalState returns a read-only snapshot of coordinator progress and
// worker automaton states for debugging purposes
func (r *Runner) InternalState() *statejson.InternalStateDescription {
	coordDesc := r.coordinator.Description()
	workers := make([]statejson.WorkerDescription, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w.Description())
	}
	return &statejson.InternalStateDescription{
		Coordinator: &coordDesc,
		Workers:     workers,
	}
}
