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
	"sync"

	"github.com/blinklabs-io/opproof/proof"
)

// VerifyBatch verifies operation proofs concurrently and returns the
// processed items in input order. Verification failures and structural
// errors are reported per item; the returned error covers pipeline failures
// such as a cancelled context or a nil proof.
func VerifyBatch(
	ctx context.Context,
	verifier Verifier,
	proofs []*proof.OperationProof,
	opts ...PipelineOption,
) ([]*ProofItem, error) {
	return runBatch(
		ctx,
		verifier,
		len(proofs),
		func(p *ProofPipeline, i int) error {
			return p.SubmitOperationProof(ctx, proofs[i])
		},
		opts,
	)
}

// VerifyBlockBatch is VerifyBatch for block proofs
func VerifyBlockBatch(
	ctx context.Context,
	verifier Verifier,
	proofs []*proof.BlockOperationProof,
	opts ...PipelineOption,
) ([]*ProofItem, error) {
	return runBatch(
		ctx,
		verifier,
		len(proofs),
		func(p *ProofPipeline, i int) error {
			return p.SubmitBlockProof(ctx, proofs[i])
		},
		opts,
	)
}

func runBatch(
	ctx context.Context,
	verifier Verifier,
	count int,
	submit func(p *ProofPipeline, i int) error,
	opts []PipelineOption,
) ([]*ProofItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	allOpts := append([]PipelineOption{WithVerifier(verifier)}, opts...)
	p := NewProofPipeline(allOpts...)
	if err := p.Start(ctx); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	// Errors are also recorded on their items; drain so workers never block
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range p.Errors() { //nolint:revive
		}
	}()

	submitDone := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range count {
			if err := submit(p, i); err != nil {
				submitDone <- err
				return
			}
		}
		submitDone <- nil
	}()

	results := make([]*ProofItem, 0, count)
	var batchErr error
	pendingSubmit := submitDone
	for len(results) < count && batchErr == nil {
		select {
		case item := <-p.Results():
			results = append(results, item)
		case err := <-pendingSubmit:
			batchErr = err
			pendingSubmit = nil
		case <-ctx.Done():
			batchErr = ctx.Err()
		}
	}

	_ = p.Stop()
	wg.Wait()
	if batchErr != nil {
		return nil, batchErr
	}
	return results, nil
}
