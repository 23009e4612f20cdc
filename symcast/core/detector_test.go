// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"

	"github.com/symcast/symcast/symcast/interop"
)

var testWorkers = []interop.ProcessID{"w-1", "w-2", "w-3"}

func TestOnAck(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	assert.False(t, r.IsComplete())
	assert.True(t, r.OnAck("w-1"))
	assert.Equal(t, 1, r.AckCount())
	assert.False(t, r.IsComplete())
}

func TestOnAckDuplicateIsNoOp(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	assert.True(t, r.OnAck("w-1"))
	assert.False(t, r.OnAck("w-1"))
	assert.Equal(t, 1, r.AckCount())
}

func TestOnAckUnknownWorkerIgnored(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	assert.False(t, r.OnAck("stranger"))
	assert.Equal(t, 0, r.AckCount())
	assert.False(t, r.IsComplete())
}

func TestIsCompleteRequiresAllWorkers(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	r.OnAck("w-1")
	r.OnAck("w-2")
	assert.False(t, r.IsComplete())
	r.OnAck("w-3")
	assert.True(t, r.IsComplete())

	records := r.Records()
	for _, id := range testWorkers {
		assert.True(t, records[id])
	}
}

func TestIsCompleteStaysTrue(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	for _, id := range testWorkers {
		r.OnAck(id)
	}
	assert.True(t, r.IsComplete())
	r.OnAck("w-2") // duplicate after completion
	assert.True(t, r.IsComplete())
	assert.Equal(t, 3, r.AckCount())
}

func TestSingleWorkerRegistry(t *testing.T) {
	r := NewAckRegistry([]interop.ProcessID{"w-1"})
	assert.False(t, r.IsComplete())
	r.OnAck("w-1")
	assert.True(t, r.IsComplete())
}

func TestAwaitCompletion(t *testing.T) {
	r := NewAckRegistry(testWorkers)

	var errg errgroup.Group
	errg.Go(func() error {
		return r.AwaitCompletion(context.Background())
	})

	for _, id := range testWorkers {
		r.OnAck(id)
	}
	assert.NoError(t, errg.Wait())
}

func TestAwaitCompletionCancel(t *testing.T) {
	r := NewAckRegistry(testWorkers)

	var errg errgroup.Group
	errg.Go(func() error {
		return r.AwaitCompletion(context.Background())
	})
	r.CancelWithError(nil)

	assert.Equal(t, ErrDetectorCanceled, errg.Wait())
}

func TestAwaitCompletionCancelWithError(t *testing.T) {
	r := NewAckRegistry(testWorkers)

	var errg errgroup.Group
	errg.Go(func() error {
		return r.AwaitCompletion(context.Background())
	})

	err := errors.New("MyErr")
	r.CancelWithError(err)
	assert.Equal(t, err, errg.Wait())
}

func TestAwaitCompletionContextDeadline(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.AwaitCompletion(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestRecordsReturnsCopy(t *testing.T) {
	r := NewAckRegistry(testWorkers)
	records := r.Records()
	records["w-1"] = true
	assert.Equal(t, 0, r.AckCount())
	assert.False(t, r.Records()["w-1"])
}
