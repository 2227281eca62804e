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

package superblock

import (
	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/proof"
)

// ProofVerifier is the verification capability of the authority. Holding a
// reference to the authority is all a caller needs.
//
// Every method reports structural problems (a missing block, a proof variant
// the method does not handle) as an error, and verification failures as
// false with a nil error. Checks short-circuit in order, cheap comparisons
// before signature and hash work.
type ProofVerifier interface {
	// VerifyOperationProof checks a proof against the live chain head. Only
	// filesystem proofs are verifiable end to end here; other variants yield
	// an error wrapping common.ErrInvalidProof once the state and signature
	// checks have passed.
	VerifyOperationProof(p *proof.OperationProof) (bool, error)
	// VerifyHashChain checks that a filesystem proof is consistent with its
	// own embedded states, without consulting the authority
	VerifyHashChain(p *proof.OperationProof) (bool, error)
	// VerifyBlockProof checks a block proof against the cached block content
	// and the live chain head
	VerifyBlockProof(p *proof.BlockOperationProof) (bool, error)
	// GenerateBlockProof builds a proof for the cached content of blockNum
	// against the live chain head
	GenerateBlockProof(blockNum uint64) (*proof.BlockOperationProof, error)
}

var _ ProofVerifier = (*Superblock)(nil)

var errNilProof = common.MalformedProofError{Reason: "proof is nil"}

func (s *Superblock) VerifyOperationProof(p *proof.OperationProof) (bool, error) {
	if p == nil {
		return false, errNilProof
	}
	current := s.StateHash()
	if p.PrevState != current {
		return s.rejectOperation(p, "previous state does not match chain head")
	}
	msg, err := proof.CanonicalBytes(p)
	if err != nil {
		return false, err
	}
	if !s.signatures.Verify(msg, p.Signature) {
		return s.rejectOperation(p, "signature verification failed")
	}
	fs, ok := p.Filesystem()
	if !ok {
		return false, s.unsupported(p, "VerifyOperationProof")
	}
	computed := fs.OperationHash(s.hasher, current)
	if computed != fs.ContentHash {
		return s.rejectOperation(p, "content hash mismatch")
	}
	if proof.NextState(p.PrevState, computed) != p.NewState {
		return s.rejectOperation(p, "new state does not follow from content hash")
	}
	return true, nil
}

func (s *Superblock) VerifyHashChain(p *proof.OperationProof) (bool, error) {
	if p == nil {
		return false, errNilProof
	}
	fs, ok := p.Filesystem()
	if !ok {
		return false, s.unsupported(p, "VerifyHashChain")
	}
	// the embedded previous state stands in for the authority head, so a
	// delete is checked against the complement of fs.PrevState
	operationHash := fs.OperationHash(s.hasher, fs.PrevState)
	if proof.NextState(fs.PrevState, operationHash) != fs.NewState {
		return s.rejectOperation(p, "embedded states are not chained by the operation hash")
	}
	return true, nil
}

func (s *Superblock) VerifyBlockProof(p *proof.BlockOperationProof) (bool, error) {
	if p == nil {
		return false, errNilProof
	}
	// the cache lock is released before Get returns; hashing happens on the
	// private copy
	blockData, ok := s.cache.Get(p.BlockNum)
	if !ok {
		s.logger.Warn("block proof references uncached block", "block_num", p.BlockNum)
		return false, common.BlockNotFoundError{BlockNum: p.BlockNum}
	}
	if !p.Verify(s.hasher, blockData) {
		return s.rejectBlock(p, "block content does not match proof")
	}
	current := s.StateHash()
	if p.PrevState != current {
		return s.rejectBlock(p, "previous state does not match chain head")
	}
	if proof.NextState(current, p.BlockHash) != p.NewState {
		return s.rejectBlock(p, "new state does not follow from block hash")
	}
	return true, nil
}

func (s *Superblock) GenerateBlockProof(blockNum uint64) (*proof.BlockOperationProof, error) {
	blockData, ok := s.cache.Get(blockNum)
	if !ok {
		return nil, common.BlockNotFoundError{BlockNum: blockNum}
	}
	return proof.NewBlockOperationProof(
		s.hasher,
		s.clock,
		blockNum,
		blockData,
		s.StateHash(),
	), nil
}

func (s *Superblock) rejectOperation(p *proof.OperationProof, reason string) (bool, error) {
	s.logger.Debug(
		"operation proof rejected",
		"op_id", p.OpID,
		"reason", reason,
	)
	return false, nil
}

func (s *Superblock) rejectBlock(p *proof.BlockOperationProof, reason string) (bool, error) {
	s.logger.Debug(
		"block proof rejected",
		"block_num", p.BlockNum,
		"reason", reason,
	)
	return false, nil
}

func (s *Superblock) unsupported(p *proof.OperationProof, operation string) error {
	kind, err := p.Kind()
	if err != nil {
		return err
	}
	s.logger.Warn(
		"unsupported proof variant",
		"op_id", p.OpID,
		"kind", kind.String(),
		"operation", operation,
	)
	return common.UnsupportedVariantError{
		Kind:      kind.String(),
		Operation: operation,
	}
}
