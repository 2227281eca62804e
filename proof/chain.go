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

package proof

import (
	"github.com/blinklabs-io/opproof/common"
)

// The chain algebra: the next chain head is the previous head combined with
// the content hash of the operation, next = prev ^ OperationHash(op).
//
// Because combine is XOR the chain records set parity, not order. Two
// operations applied in either order, or one operation applied twice, are
// indistinguishable from the head alone. Ordering guarantees would need a
// non-commutative link such as H(prev || content).

// NextState folds a content hash into a chain head
func NextState(prev, content common.Hash) common.Hash {
	return prev.Combine(content)
}

func (d MemoryProof) OperationHash(common.Hasher, common.Hash) common.Hash {
	return d.FrameHash
}

// ContentHash hashes the path bytes for creates and modifies. A delete has no
// content; its hash is the complement of the authority's current chain head,
// a sentinel marking erasure. That makes delete derivations depend on when
// they are evaluated: the same logical delete checked against two different
// heads derives two different hashes.
func (d FilesystemProof) OperationHash(h common.Hasher, current common.Hash) common.Hash {
	switch d.Operation {
	case FSOpDelete:
		return current.Complement()
	default:
		return hasherOrDefault(h).Hash([]byte(d.Path))
	}
}

func (d ProcessProof) OperationHash(common.Hasher, common.Hash) common.Hash {
	return d.StateHash
}

func (d BootProof) OperationHash(common.Hasher, common.Hash) common.Hash {
	return d.StageHash
}

func (d TileProof) OperationHash(common.Hasher, common.Hash) common.Hash {
	return d.TileHash
}

func (d GenericProof) OperationHash(common.Hasher, common.Hash) common.Hash {
	return d.DataHash
}

// ExpectedNewState returns the chain head the proof must claim when checked
// against current
func (p *OperationProof) ExpectedNewState(h common.Hasher, current common.Hash) (common.Hash, error) {
	data := p.payload()
	if data == nil {
		return 0, common.MalformedProofError{Reason: "proof has no data"}
	}
	return NextState(p.PrevState, data.OperationHash(h, current)), nil
}

func hasherOrDefault(h common.Hasher) common.Hasher {
	if h == nil {
		return common.DefaultHasher()
	}
	return h
}
