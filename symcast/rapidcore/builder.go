// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rapidcore assembles and runs a full topology: one coordinator, N
// in-process workers, and the bus connecting them.
package rapidcore

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/coordinator"
	"github.com/symcast/symcast/symcast/interop"
	"github.com/symcast/symcast/symcast/logging"
)

// ErrInvalidTopology returned for configurations the protocol cannot run
// with.
var ErrInvalidTopology = errors.New("ErrInvalidTopology")

type Builder struct {
	numWorkers   int
	seed         int64
	payloadWidth int
	source       coordinator.SymbolSource
}

// NewBuilder returns a builder with defaults: 4 workers, a time-derived
// seed, and the standard payload width.
func NewBuilder() *Builder {
	return &Builder{
		numWorkers:   4,
		seed:         time.Now().UnixNano(),
		payloadWidth: interop.DefaultPayloadWidth,
	}
}

func (b *Builder) SetNumWorkers(n int) *Builder {
	b.numWorkers = n
	return b
}

func (b *Builder) SetSeed(seed int64) *Builder {
	b.seed = seed
	return b
}

func (b *Builder) SetPayloadWidth(width int) *Builder {
	b.payloadWidth = width
	return b
}

// SetSymbolSource overrides the default uniform source. Used by tests that
// need a deterministic stream.
func (b *Builder) SetSymbolSource(source coordinator.SymbolSource) *Builder {
	b.source = source
	return b
}

// Build validates the configuration and assembles a Runner.
func (b *Builder) Build() (*Runner, error) {
	if b.numWorkers < 1 {
		return nil, fmt.Errorf("%w: need at least one worker, got %d", ErrInvalidTopology, b.numWorkers)
	}
	if b.payloadWidth < 1 {
		return nil, fmt.Errorf("%w: payload width must be positive, got %d", ErrInvalidTopology, b.payloadWidth)
	}

	source := b.source
	if source == nil {
		source = coordinator.NewUniformSource(b.seed)
	}

	coordinatorID := interop.ProcessID("coordinator-" + uuid.New().String())
	workerIDs := make([]interop.ProcessID, b.numWorkers)
	for i := range workerIDs {
		workerIDs[i] = interop.ProcessID("worker-" + uuid.New().String())
	}

	return newRunner(coordinatorID, workerIDs, source, b.payloadWidth)
}

// SetLogLevel sets the log level for internal logging. Needs to be called
// very early during startup to configure logs emitted during initialization
func SetLogLevel(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).Fatal("Failed to set log level. Valid log levels are:", log.AllLevels)
	}

	log.SetLevel(level)
	log.SetFormatter(&logging.InternalFormatter{})
}

func SetInternalLogOutput(w io.Writer) {
	logging.SetOutput(w)
}
