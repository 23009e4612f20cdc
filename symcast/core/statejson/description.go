// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// WorkerDescription describes one worker's automaton.
type WorkerDescription struct {
	ID       string           `json:"id"`
	State    StateDescription `json:"state"`
	Accepted bool             `json:"accepted"`
}

// CoordinatorDescription describes coordinator progress.
type CoordinatorDescription struct {
	State        StateDescription `json:"state"`
	Rounds       uint64           `json:"rounds"`
	AcksReceived int              `json:"acksReceived"`
	Complete     bool             `json:"complete"`
}

// TopologyDescription describes the fixed process group.
type TopologyDescription struct {
	Coordinator string   `json:"coordinator"`
	Workers     []string `json:"workers"`
	WorkerCount int      `json:"workerCount"`
}

// InternalStateDescription describes internal state of the coordinator and
// workers for debugging purposes
type InternalStateDescription struct {
	Coordinator *CoordinatorDescription `json:"coordinator"`
	Workers     []WorkerDescription     `json:"workers"`
}

func (s *InternalStateDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall internal states: %s", err)
	}
	return bytes
}
