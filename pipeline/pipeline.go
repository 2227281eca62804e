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
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/opproof/proof"
)

// ErrPipelineStopped is returned when operations are attempted on a stopped pipeline
var ErrPipelineStopped = errors.New("pipeline is stopped")

// ErrPipelineNotStarted is returned when operations are attempted before Start
var ErrPipelineNotStarted = errors.New("pipeline not started")

var closedResultsChan = func() <-chan *ProofItem {
	ch := make(chan *ProofItem)
	close(ch)
	return ch
}()

func newNotStartedErrorsChan() <-chan error {
	ch := make(chan error, 1)
	ch <- ErrPipelineNotStarted
	close(ch)
	return ch
}

// ProofPipeline decodes, verifies and optionally commits proofs. Decode and
// verify run in parallel worker pools; the commit stage restores submission
// order so results leave the pipeline in the order they were submitted.
type ProofPipeline struct {
	config PipelineConfig
	logger *slog.Logger

	// Stages
	decodeStage *DecodeStage
	verifyStage *VerifyStage
	commitStage *CommitStage

	// Worker pools and runners
	decodePool   *StageWorkerPool
	verifyPool   *StageWorkerPool
	commitRunner *CommitStageRunner

	// Channels
	submitChan   chan *ProofItem
	decodedChan  chan *ProofItem
	verifiedChan chan *ProofItem
	resultsChan  chan *ProofItem
	errorsChan   chan error

	metrics *PipelineMetrics

	// State
	sequenceCounter atomic.Uint64
	ctx             context.Context
	cancel          context.CancelFunc
	started         atomic.Bool
	stopped         atomic.Bool
	wg              sync.WaitGroup
	mu              sync.Mutex    // protects Start/Stop
	submitMu        sync.RWMutex  // protects Submit against concurrent Stop
	submitSlot      chan struct{} // held while a submit owns the next sequence number
}

func NewProofPipeline(opts ...PipelineOption) *ProofPipeline {
	config := DefaultPipelineConfig()
	for _, opt := range opts {
		opt(&config)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = NewPipelineMetrics()
	}
	return &ProofPipeline{
		config:  config,
		logger:  logger.With("component", "pipeline"),
		metrics: metrics,
	}
}

func (p *ProofPipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	if p.started.Load() {
		return nil
	}

	verifyEnabled := p.config.VerifyWorkers > 0
	if verifyEnabled && p.config.Verifier == nil {
		return ErrNilVerifier
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	bufSize := p.config.BufferSize
	p.submitChan = make(chan *ProofItem, bufSize)
	p.submitSlot = make(chan struct{}, 1)
	p.decodedChan = make(chan *ProofItem, bufSize)
	p.resultsChan = make(chan *ProofItem, bufSize)
	p.errorsChan = make(chan error, bufSize)

	p.decodeStage = NewDecodeStage()
	p.commitStage = NewCommitStage(p.config.CommitFunc, p.config.MaxPending)

	p.decodePool = NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         p.decodeStage,
		NumWorkers:    p.config.DecodeWorkers,
		Input:         p.submitChan,
		Output:        p.decodedChan,
		Errors:        p.errorsChan,
		RecordMetrics: DecodeMetricsRecorder(p.metrics),
	})

	var commitInput <-chan *ProofItem
	if verifyEnabled {
		p.verifiedChan = make(chan *ProofItem, bufSize)
		p.verifyStage = NewVerifyStage(p.config.Verifier)
		p.verifyPool = NewStageWorkerPool(StageWorkerPoolConfig{
			Stage:         p.verifyStage,
			NumWorkers:    p.config.VerifyWorkers,
			Input:         p.decodedChan,
			Output:        p.verifiedChan,
			Errors:        p.errorsChan,
			RecordMetrics: VerifyMetricsRecorder(p.metrics),
			ShouldRecord:  RecordIfDecoded,
		})
		commitInput = p.verifiedChan
	} else {
		commitInput = p.decodedChan
	}

	p.commitRunner = NewCommitStageRunner(
		p.commitStage,
		commitInput,
		p.resultsChan,
		p.errorsChan,
	)
	p.commitRunner.SetMetrics(p.metrics)

	// p.ctx is derived from the passed ctx
	p.decodePool.Start(p.ctx) //nolint:contextcheck
	if verifyEnabled {
		p.verifyPool.Start(p.ctx) //nolint:contextcheck
	}
	p.commitRunner.Start(p.ctx) //nolint:contextcheck

	p.wg.Add(1)
	go p.metricsCollector()

	p.started.Store(true)
	p.logger.Debug(
		"pipeline started",
		"decode_workers", p.config.DecodeWorkers,
		"verify_workers", p.config.VerifyWorkers,
		"commit", p.config.CommitFunc != nil,
	)
	return nil
}

// Submit queues raw CBOR for decoding
func (p *ProofPipeline) Submit(ctx context.Context, itemType ItemType, rawCbor []byte) error {
	return p.submit(ctx, func(seq uint64) *ProofItem {
		return NewProofItem(itemType, rawCbor, seq)
	})
}

func (p *ProofPipeline) SubmitOperationProof(ctx context.Context, op *proof.OperationProof) error {
	if op == nil {
		return errNilProof
	}
	return p.submit(ctx, func(seq uint64) *ProofItem {
		return NewOperationItem(op, seq)
	})
}

func (p *ProofPipeline) SubmitBlockProof(ctx context.Context, block *proof.BlockOperationProof) error {
	if block == nil {
		return errNilProof
	}
	return p.submit(ctx, func(seq uint64) *ProofItem {
		return NewBlockItem(block, seq)
	})
}

var errNilProof = errors.New("pipeline: nil proof")

func (p *ProofPipeline) submit(ctx context.Context, newItem func(seq uint64) *ProofItem) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}

	// Stop waits for in-flight submits before closing submitChan
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.stopped.Load() {
		return ErrPipelineStopped
	}

	// The commit stage waits for every sequence number in turn, so a number
	// is only consumed once its item is queued
	select {
	case p.submitSlot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
	defer func() { <-p.submitSlot }()

	seq := p.sequenceCounter.Load()
	item := newItem(seq)

	select {
	case p.submitChan <- item:
		p.sequenceCounter.Store(seq + 1)
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
}

func (p *ProofPipeline) Results() <-chan *ProofItem {
	if !p.started.Load() {
		return closedResultsChan
	}
	return p.resultsChan
}

func (p *ProofPipeline) Errors() <-chan error {
	if !p.started.Load() {
		return newNotStartedErrorsChan()
	}
	return p.errorsChan
}

// Stop cancels in-flight work, waits for every stage to exit and closes the
// results and errors channels.
func (p *ProofPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.Load() || p.stopped.Load() {
		return nil
	}

	// Cancel first so a Submit blocked on a full channel releases its RLock
	p.cancel()

	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.decodedChan)

	if p.verifyPool != nil {
		p.verifyPool.Stop()
		close(p.verifiedChan)
	}

	p.commitRunner.Stop()

	close(p.resultsChan)
	close(p.errorsChan)

	p.wg.Wait()

	stats := p.metrics.Stats()
	p.logger.Debug(
		"pipeline stopped",
		"submitted", stats.ProofsSubmitted,
		"accepted", stats.ProofsAccepted,
		"rejected", stats.ProofsRejected,
	)
	return nil
}

func (p *ProofPipeline) Stats() PipelineStats {
	return p.metrics.Stats()
}

// PendingCount returns the number of submitted proofs not yet released
func (p *ProofPipeline) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	return p.queueDepth() + p.commitStage.PendingCount()
}

func (p *ProofPipeline) queueDepth() int {
	return len(p.submitChan) + len(p.decodedChan) + len(p.verifiedChan)
}

// WaitForDrain polls until no submitted proofs remain queued. Items being
// processed by a worker are not counted.
func (p *ProofPipeline) WaitForDrain(ctx context.Context) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.PendingCount() == 0 {
				return nil
			}
		}
	}
}

func (p *ProofPipeline) metricsCollector() {
	defer p.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.metrics.UpdateQueueDepth(p.queueDepth())
		}
	}
}

// DrainResults returns the results that are ready without blocking
func (p *ProofPipeline) DrainResults() []*ProofItem {
	var results []*ProofItem
	for {
		select {
		case item, ok := <-p.resultsChan:
			if !ok {
				return results
			}
			results = append(results, item)
		default:
			return results
		}
	}
}

// DrainErrors returns the errors that are ready without blocking
func (p *ProofPipeline) DrainErrors() []error {
	var errs []error
	for {
		select {
		case err, ok := <-p.errorsChan:
			if !ok {
				return errs
			}
			errs = append(errs, err)
		default:
			return errs
		}
	}
}

var _ Pipeline = (*ProofPipeline)(nil)
