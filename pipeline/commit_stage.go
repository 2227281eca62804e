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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blinklabs-io/opproof/proof"
)

// ErrPendingLimitExceeded is returned when too many out-of-order items are
// buffered waiting for an earlier sequence number
var ErrPendingLimitExceeded = errors.New("pipeline: pending proof limit exceeded")

// CommitFunc commits one item and reports whether the chain accepted it
type CommitFunc func(*ProofItem) (bool, error)

// Committer advances a chain head. superblock.Superblock satisfies it.
type Committer interface {
	Commit(p *proof.OperationProof) (bool, error)
	CommitBlock(p *proof.BlockOperationProof) (bool, error)
}

// CommitTo returns a CommitFunc that commits each item to c
func CommitTo(c Committer) CommitFunc {
	return func(item *ProofItem) (bool, error) {
		if op := item.OperationProof(); op != nil {
			return c.Commit(op)
		}
		return c.CommitBlock(item.BlockProof())
	}
}

// CommitStage restores submission order and commits eligible items in that
// order. It runs on a single goroutine.
type CommitStage struct {
	commitFunc CommitFunc
	maxPending int
	mu         sync.Mutex
	// pending holds out-of-order items waiting for their turn
	pending map[uint64]*ProofItem
	// nextSequence is the next sequence number to release
	nextSequence uint64
}

func NewCommitStage(commitFunc CommitFunc, maxPending int) *CommitStage {
	return &CommitStage{
		commitFunc: commitFunc,
		maxPending: maxPending,
		pending:    make(map[uint64]*ProofItem),
	}
}

func (s *CommitStage) Name() string {
	return "commit"
}

func (s *CommitStage) Process(ctx context.Context, item *ProofItem) error {
	_, err := s.ProcessWithStatus(ctx, item)
	return err
}

// ProcessWithStatus returns the items released in order by this call, which
// may include earlier buffered items. An out-of-order item is buffered and
// nothing is released.
func (s *CommitStage) ProcessWithStatus(ctx context.Context, item *ProofItem) ([]*ProofItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	if item.SequenceNumber() == s.nextSequence {
		s.nextSequence++
		s.mu.Unlock()
		s.commitItem(ctx, item)
		buffered := s.releasePending(ctx)
		processed := make([]*ProofItem, 0, 1+len(buffered))
		processed = append(processed, item)
		processed = append(processed, buffered...)
		return processed, nil
	}

	// Buffer even past the limit so no sequence number is lost
	s.pending[item.SequenceNumber()] = item
	pendingCount := len(s.pending)
	s.mu.Unlock()

	if s.maxPending > 0 && pendingCount > s.maxPending {
		return nil, ErrPendingLimitExceeded
	}
	return nil, nil
}

func (s *CommitStage) eligible(item *ProofItem) bool {
	if s.commitFunc == nil || !item.IsDecoded() || item.VerifyError() != nil {
		return false
	}
	return !item.IsVerified() || item.IsAccepted()
}

func (s *CommitStage) commitItem(ctx context.Context, item *ProofItem) {
	if !s.eligible(item) {
		return
	}
	select {
	case <-ctx.Done():
		item.SetCommitted(false, ctx.Err(), 0)
		return
	default:
	}

	start := time.Now()
	committed, err := s.commitFunc(item)
	item.SetCommitted(committed, err, time.Since(start))
}

func (s *CommitStage) releasePending(ctx context.Context) []*ProofItem {
	var processed []*ProofItem
	for {
		select {
		case <-ctx.Done():
			return processed
		default:
		}

		s.mu.Lock()
		item, ok := s.pending[s.nextSequence]
		if !ok {
			s.mu.Unlock()
			return processed
		}
		delete(s.pending, s.nextSequence)
		s.nextSequence++
		s.mu.Unlock()

		s.commitItem(ctx, item)
		processed = append(processed, item)
	}
}

func (s *CommitStage) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// CommitStageRunner feeds a CommitStage from a channel and forwards the
// released items.
type CommitStageRunner struct {
	stage   *CommitStage
	input   <-chan *ProofItem
	output  chan<- *ProofItem
	errors  chan<- error
	metrics *PipelineMetrics
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

func NewCommitStageRunner(
	stage *CommitStage,
	input <-chan *ProofItem,
	output chan<- *ProofItem,
	errors chan<- error,
) *CommitStageRunner {
	return &CommitStageRunner{
		stage:  stage,
		input:  input,
		output: output,
		errors: errors,
		done:   make(chan struct{}),
	}
}

func (r *CommitStageRunner) SetMetrics(metrics *PipelineMetrics) {
	r.metrics = metrics
}

func (r *CommitStageRunner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.run(ctx)
}

func (r *CommitStageRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	done := r.done
	r.mu.Unlock()

	<-done
}

func (r *CommitStageRunner) run(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.running = false
		close(r.done)
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-r.input:
			if !ok {
				return
			}

			processed, err := r.stage.ProcessWithStatus(ctx, item)
			if err != nil {
				select {
				case r.errors <- err:
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, p := range processed {
				r.forwardItem(ctx, p)
			}
		}
	}
}

func (r *CommitStageRunner) forwardItem(ctx context.Context, item *ProofItem) {
	if r.metrics != nil {
		r.metrics.RecordOutcome(item)
	}

	select {
	case r.output <- item:
	case <-ctx.Done():
		return
	}

	if commitErr := item.CommitError(); commitErr != nil {
		select {
		case r.errors <- commitErr:
		case <-ctx.Done():
			return
		}
	}
}
