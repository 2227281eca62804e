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
	"time"

	"github.com/blinklabs-io/opproof/proof"
)

// ItemType selects how an item's raw CBOR is decoded
type ItemType uint

const (
	ItemTypeOperation ItemType = iota
	ItemTypeBlock
)

func (t ItemType) String() string {
	switch t {
	case ItemTypeOperation:
		return "operation"
	case ItemTypeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Outcome is the final disposition of an item
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeAccepted
	OutcomeRejected
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ProofItem is one proof moving through the pipeline. Stage results are
// guarded by an internal lock since workers of different stages may touch
// the same item.
type ProofItem struct {
	// Immutable fields (set at construction, never modified)
	itemType       ItemType
	rawCbor        []byte
	sequenceNumber uint64
	receivedAt     time.Time

	mu sync.RWMutex

	// Decode stage results
	operation      *proof.OperationProof
	block          *proof.BlockOperationProof
	decodeError    error
	decodeDuration time.Duration

	// Verify stage results
	verified       bool
	accepted       bool
	verifyError    error
	verifyDuration time.Duration

	// Commit stage results
	commitAttempted bool
	committed       bool
	commitError     error
	commitDuration  time.Duration
}

// NewProofItem creates an item that still needs decoding. The raw CBOR is
// copied so the caller may reuse its buffer.
func NewProofItem(itemType ItemType, rawCbor []byte, seq uint64) *ProofItem {
	tmp := make([]byte, len(rawCbor))
	copy(tmp, rawCbor)
	return &ProofItem{
		itemType:       itemType,
		rawCbor:        tmp,
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// NewOperationItem creates an already decoded operation proof item
func NewOperationItem(p *proof.OperationProof, seq uint64) *ProofItem {
	return &ProofItem{
		itemType:       ItemTypeOperation,
		operation:      p,
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// NewBlockItem creates an already decoded block proof item
func NewBlockItem(p *proof.BlockOperationProof, seq uint64) *ProofItem {
	return &ProofItem{
		itemType:       ItemTypeBlock,
		block:          p,
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

func (i *ProofItem) ItemType() ItemType {
	return i.itemType
}

func (i *ProofItem) RawCbor() []byte {
	return i.rawCbor
}

func (i *ProofItem) SequenceNumber() uint64 {
	return i.sequenceNumber
}

func (i *ProofItem) ReceivedAt() time.Time {
	return i.receivedAt
}

func (i *ProofItem) OperationProof() *proof.OperationProof {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.operation
}

func (i *ProofItem) BlockProof() *proof.BlockOperationProof {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.block
}

func (i *ProofItem) SetOperationProof(p *proof.OperationProof, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.operation = p
	i.decodeError = nil
	i.decodeDuration = duration
}

func (i *ProofItem) SetBlockProof(p *proof.BlockOperationProof, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.block = p
	i.decodeError = nil
	i.decodeDuration = duration
}

func (i *ProofItem) DecodeError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError
}

func (i *ProofItem) SetDecodeError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.operation = nil
	i.block = nil
	i.decodeError = err
	i.decodeDuration = duration
}

func (i *ProofItem) DecodeDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration
}

// IsDecoded returns true when the item carries a proof and no decode error
func (i *ProofItem) IsDecoded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError == nil && (i.operation != nil || i.block != nil)
}

// SetVerification records the verify stage result. A non-nil err is a
// structural failure; accepted is meaningful only when err is nil.
func (i *ProofItem) SetVerification(accepted bool, err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.verified = true
	i.accepted = accepted && err == nil
	i.verifyError = err
	i.verifyDuration = duration
}

func (i *ProofItem) IsVerified() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.verified
}

func (i *ProofItem) IsAccepted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.accepted
}

func (i *ProofItem) VerifyError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.verifyError
}

func (i *ProofItem) VerifyDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.verifyDuration
}

func (i *ProofItem) SetCommitted(committed bool, err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.commitAttempted = true
	i.committed = committed && err == nil
	i.commitError = err
	i.commitDuration = duration
}

func (i *ProofItem) IsCommitted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.committed
}

func (i *ProofItem) CommitError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.commitError
}

func (i *ProofItem) CommitDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.commitDuration
}

// Err returns the first error recorded by any stage
func (i *ProofItem) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	switch {
	case i.decodeError != nil:
		return i.decodeError
	case i.verifyError != nil:
		return i.verifyError
	default:
		return i.commitError
	}
}

// Outcome reports the item's disposition. A commit attempt, when one was
// made, overrides the verify stage result.
func (i *ProofItem) Outcome() Outcome {
	i.mu.RLock()
	defer i.mu.RUnlock()
	switch {
	case i.decodeError != nil, i.verifyError != nil, i.commitError != nil:
		return OutcomeErrored
	case i.commitAttempted:
		if i.committed {
			return OutcomeAccepted
		}
		return OutcomeRejected
	case i.verified:
		if i.accepted {
			return OutcomeAccepted
		}
		return OutcomeRejected
	default:
		return OutcomePending
	}
}

// TotalDuration is the processing time spent across all stages
func (i *ProofItem) TotalDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration + i.verifyDuration + i.commitDuration
}
