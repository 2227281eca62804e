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
	"fmt"
	"time"

	"github.com/blinklabs-io/opproof/proof"
)

// ErrNilVerifier is returned when the verify stage has no verifier
var ErrNilVerifier = errors.New("pipeline: verification enabled but no verifier configured")

// Verifier is the subset of the proof verifier capability the verify stage
// needs. superblock.Superblock satisfies it.
type Verifier interface {
	VerifyOperationProof(p *proof.OperationProof) (bool, error)
	VerifyBlockProof(p *proof.BlockOperationProof) (bool, error)
}

// VerifyStage checks decoded proofs against the verifier's live chain head.
type VerifyStage struct {
	verifier Verifier
}

func NewVerifyStage(verifier Verifier) *VerifyStage {
	return &VerifyStage{
		verifier: verifier,
	}
}

func (s *VerifyStage) Name() string {
	return "verify"
}

func (s *VerifyStage) Process(ctx context.Context, item *ProofItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// The decode stage already reported the failure
	if !item.IsDecoded() {
		return nil
	}

	start := time.Now()
	if s.verifier == nil {
		item.SetVerification(false, ErrNilVerifier, time.Since(start))
		return ErrNilVerifier
	}

	var (
		accepted bool
		err      error
	)
	if op := item.OperationProof(); op != nil {
		accepted, err = s.verifier.VerifyOperationProof(op)
		if err != nil {
			err = fmt.Errorf("verify operation %d: %w", op.OpID, err)
		}
	} else {
		block := item.BlockProof()
		accepted, err = s.verifier.VerifyBlockProof(block)
		if err != nil {
			err = fmt.Errorf("verify block %d: %w", block.BlockNum, err)
		}
	}
	item.SetVerification(accepted, err, time.Since(start))
	return err
}
