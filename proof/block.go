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
	"github.com/blinklabs-io/opproof/cbor"
	"github.com/blinklabs-io/opproof/common"
	"github.com/jinzhu/copier"
)

// BlockOperationProof attests the content of a single storage block at the
// time the proof was built. Timestamp is informational only and is not part
// of any check.
type BlockOperationProof struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	BlockNum  uint64
	BlockHash common.Hash
	PrevState common.Hash
	NewState  common.Hash
	Timestamp uint64
}

// NewBlockOperationProof digests blockData and chains it onto prevState.
// Reading the clock is its only side effect. Nil h or clock fall back to the
// defaults.
func NewBlockOperationProof(
	h common.Hasher,
	clock common.Clock,
	blockNum uint64,
	blockData []byte,
	prevState common.Hash,
) *BlockOperationProof {
	blockHash := hasherOrDefault(h).Hash(blockData)
	if clock == nil {
		clock = defaultClock
	}
	return &BlockOperationProof{
		BlockNum:  blockNum,
		BlockHash: blockHash,
		PrevState: prevState,
		NewState:  NextState(prevState, blockHash),
		Timestamp: clock.Now(),
	}
}

// Verify reports whether blockData digests to the hash recorded in the proof
func (p *BlockOperationProof) Verify(h common.Hasher, blockData []byte) bool {
	return hasherOrDefault(h).Hash(blockData) == p.BlockHash
}

// Clone returns an independent copy of the proof, including any stored CBOR
func (p *BlockOperationProof) Clone() (*BlockOperationProof, error) {
	ret := &BlockOperationProof{}
	if err := copier.CopyWithOption(ret, p, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	ret.SetCbor(p.Cbor())
	return ret, nil
}

func (p *BlockOperationProof) UnmarshalCBOR(data []byte) error {
	return p.UnmarshalCborGeneric(data, p)
}

var defaultClock common.Clock = common.NewMonotonicClock()
