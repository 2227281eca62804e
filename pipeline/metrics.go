// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// PipelineMetrics tracks pipeline counters. It is safe for concurrent use.
type PipelineMetrics struct {
	// Counters (atomic)
	proofsSubmitted atomic.Uint64
	proofsDecoded   atomic.Uint64
	proofsAccepted  atomic.Uint64
	proofsRejected  atomic.Uint64
	proofsCommitted atomic.Uint64
	decodeErrors    atomic.Uint64
	verifyErrors    atomic.Uint64
	commitErrors    atomic.Uint64

	// Queue tracking (requires mutex)
	mu                sync.RWMutex
	currentQueueDepth int
	peakQueueDepth    int

	// Timing
	lastProofTime time.Time
	startTime     time.Time
}

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		startTime: time.Now(),
	}
}

func (m *PipelineMetrics) RecordSubmit() {
	m.proofsSubmitted.Add(1)
}

func (m *PipelineMetrics) RecordDecode(err error) {
	if err != nil {
		m.decodeErrors.Add(1)
	} else {
		m.proofsDecoded.Add(1)
	}
}

func (m *PipelineMetrics) RecordVerify(err error) {
	if err != nil {
		m.verifyErrors.Add(1)
	}
}

// RecordOutcome counts an item leaving the pipeline
func (m *PipelineMetrics) RecordOutcome(item *ProofItem) {
	switch item.Outcome() {
	case OutcomeAccepted:
		m.proofsAccepted.Add(1)
	case OutcomeRejected:
		m.proofsRejected.Add(1)
	}
	if item.IsCommitted() {
		m.proofsCommitted.Add(1)
	}
	if item.CommitError() != nil {
		m.commitErrors.Add(1)
	}
	m.mu.Lock()
	m.lastProofTime = time.Now()
	m.mu.Unlock()
}

func (m *PipelineMetrics) UpdateQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = depth
	if depth > m.peakQueueDepth {
		m.peakQueueDepth = depth
	}
}

func (m *PipelineMetrics) Stats() PipelineStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return PipelineStats{
		ProofsSubmitted:   m.proofsSubmitted.Load(),
		ProofsDecoded:     m.proofsDecoded.Load(),
		ProofsAccepted:    m.proofsAccepted.Load(),
		ProofsRejected:    m.proofsRejected.Load(),
		ProofsCommitted:   m.proofsCommitted.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		VerifyErrors:      m.verifyErrors.Load(),
		CommitErrors:      m.commitErrors.Load(),
		CurrentQueueDepth: m.currentQueueDepth,
		PeakQueueDepth:    m.peakQueueDepth,
		LastProofTime:     m.lastProofTime,
		StartTime:         m.startTime,
	}
}
