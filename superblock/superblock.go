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

// Package superblock implements the authority that owns the running chain
// head and the block cache, and exposes proof verification over them.
package superblock

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/proof"
	"github.com/blinklabs-io/opproof/signature"
)

// Superblock carries the chain head summarizing every accepted operation.
//
// The head is read by every verification path and written only by Commit and
// CommitBlock, which serialize among themselves.
type Superblock struct {
	logger     *slog.Logger
	hasher     common.Hasher
	clock      common.Clock
	signatures signature.Verifier
	cache      BlockCache
	state      atomic.Uint64
	commitMu   sync.Mutex
}

// New creates a Superblock using functional options
func New(opts ...Option) (*Superblock, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewFromConfig(config)
}

// NewFromConfig creates a Superblock from an explicit Config
func NewFromConfig(config Config) (*Superblock, error) {
	s := &Superblock{
		logger:     config.Logger,
		hasher:     config.Hasher,
		clock:      config.Clock,
		signatures: config.SignatureVerifier,
		cache:      config.BlockCache,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "superblock")
	if s.hasher == nil {
		s.hasher = common.DefaultHasher()
	}
	if s.clock == nil {
		s.clock = common.NewMonotonicClock()
	}
	if s.signatures == nil {
		s.signatures = signature.RejectAll
	}
	if s.cache == nil {
		if config.BlockCacheSize > 0 {
			cache, err := NewLRUBlockCache(config.BlockCacheSize)
			if err != nil {
				return nil, err
			}
			s.cache = cache
		} else {
			s.cache = NewMapBlockCache()
		}
	}
	s.state.Store(uint64(config.InitialState))
	return s, nil
}

// StateHash returns the current chain head
func (s *Superblock) StateHash() common.Hash {
	return common.Hash(s.state.Load())
}

// Hasher returns the hash primitive proofs are checked with
func (s *Superblock) Hasher() common.Hasher {
	return s.hasher
}

// WriteBlock stores a copy of data as the content of blockNum. It does not
// touch the chain head.
func (s *Superblock) WriteBlock(blockNum uint64, data []byte) {
	s.cache.Put(blockNum, data)
}

// ReadBlock returns a copy of the content of blockNum
func (s *Superblock) ReadBlock(blockNum uint64) ([]byte, error) {
	data, ok := s.cache.Get(blockNum)
	if !ok {
		return nil, common.BlockNotFoundError{BlockNum: blockNum}
	}
	return data, nil
}

// Commit verifies p against the current head and, if accepted, advances the
// head to p.NewState. A rejected proof leaves the head untouched.
func (s *Superblock) Commit(p *proof.OperationProof) (bool, error) {
	if p == nil {
		return false, errNilProof
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	ok, err := s.VerifyOperationProof(p)
	if err != nil {
		return false, fmt.Errorf("commit of operation %d: %w", p.OpID, err)
	}
	if !ok {
		return false, nil
	}
	s.advance(p.PrevState, p.NewState)
	s.logger.Debug(
		"committed operation proof",
		"op_id", p.OpID,
		"state", p.NewState.String(),
	)
	return true, nil
}

// CommitBlock verifies p against the current head and block content and, if
// accepted, advances the head to p.NewState
func (s *Superblock) CommitBlock(p *proof.BlockOperationProof) (bool, error) {
	if p == nil {
		return false, errNilProof
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	ok, err := s.VerifyBlockProof(p)
	if err != nil {
		return false, fmt.Errorf("commit of block %d: %w", p.BlockNum, err)
	}
	if !ok {
		return false, nil
	}
	s.advance(p.PrevState, p.NewState)
	s.logger.Debug(
		"committed block proof",
		"block_num", p.BlockNum,
		"state", p.NewState.String(),
	)
	return true, nil
}

// advance moves the head. Callers hold commitMu, so prev still matches.
func (s *Superblock) advance(prev, next common.Hash) {
	if !s.state.CompareAndSwap(uint64(prev), uint64(next)) {
		panic("chain head changed while commit lock was held")
	}
}
