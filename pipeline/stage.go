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

// Package pipeline provides a concurrent proof processing pipeline.
// It supports parallel decoding and verification with ordered commit.
package pipeline

import (
	"context"
	"time"

	"github.com/blinklabs-io/opproof/proof"
)

// Stage represents a processing stage in the pipeline.
type Stage interface {
	// Name returns the name of the stage for logging and metrics.
	Name() string
	// Process processes a single proof item. Returns an error if processing fails.
	Process(ctx context.Context, item *ProofItem) error
}

// Pipeline verifies a stream of proofs concurrently and emits them in
// submission order.
type Pipeline interface {
	// Start starts the pipeline processing.
	Start(ctx context.Context) error
	// Submit submits raw CBOR for decoding and verification.
	// The context allows callers to handle timeouts or cancellations when the
	// pipeline is full and applying backpressure.
	Submit(ctx context.Context, itemType ItemType, rawCbor []byte) error
	// SubmitOperationProof submits an already decoded operation proof.
	SubmitOperationProof(ctx context.Context, p *proof.OperationProof) error
	// SubmitBlockProof submits an already decoded block proof.
	SubmitBlockProof(ctx context.Context, p *proof.BlockOperationProof) error
	// Results returns a channel of processed proof items.
	Results() <-chan *ProofItem
	// Errors returns a channel of processing errors.
	Errors() <-chan error
	// Stop gracefully stops the pipeline.
	Stop() error
	// WaitForDrain waits for all submitted proofs to be processed.
	WaitForDrain(ctx context.Context) error
	// Stats returns the current pipeline statistics.
	Stats() PipelineStats
}

// PipelineStats contains statistics about pipeline operation.
type PipelineStats struct {
	// ProofsSubmitted is the total number of proofs submitted to the pipeline.
	ProofsSubmitted uint64
	// ProofsDecoded is the total number of proofs successfully decoded.
	ProofsDecoded uint64
	// ProofsAccepted is the total number of proofs that passed verification.
	ProofsAccepted uint64
	// ProofsRejected is the total number of proofs that failed verification.
	ProofsRejected uint64
	// ProofsCommitted is the total number of proofs committed to the chain.
	ProofsCommitted uint64
	// DecodeErrors is the total number of decode errors.
	DecodeErrors uint64
	// VerifyErrors is the total number of structural verification errors.
	VerifyErrors uint64
	// CommitErrors is the total number of commit errors.
	CommitErrors uint64

	// CurrentQueueDepth is the current number of proofs in the pipeline.
	CurrentQueueDepth int
	// PeakQueueDepth is the maximum queue depth observed.
	PeakQueueDepth int

	// LastProofTime is the time the last proof left the pipeline.
	LastProofTime time.Time
	// StartTime is when the pipeline was started.
	StartTime time.Time
}
