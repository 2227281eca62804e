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
	"errors"
	"fmt"

	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/signature"
)

// NewOperationProof builds and signs the proof for an operation that has just
// completed. prevState is the chain head before the operation and current is
// the authority head that delete derivations are bound to; for a producer
// that runs before anyone else advances the chain the two are equal.
//
// For filesystem payloads the embedded ContentHash, PrevState and NewState are
// filled in from the derivation so the proof is self-consistent.
func NewOperationProof(
	opID uint64,
	prevState common.Hash,
	current common.Hash,
	data ProofData,
	h common.Hasher,
	signer signature.Signer,
) (*OperationProof, error) {
	data = derefData(data)
	if data == nil {
		return nil, common.MalformedProofError{Reason: "proof has no data"}
	}
	if signer == nil {
		return nil, errors.New("no signer configured")
	}
	content := data.OperationHash(h, current)
	newState := NextState(prevState, content)
	if fs, ok := data.(FilesystemProof); ok {
		fs.ContentHash = content
		fs.PrevState = prevState
		fs.NewState = newState
		data = fs
	}
	ret := &OperationProof{
		OpID:      opID,
		PrevState: prevState,
		NewState:  newState,
		Data:      data,
	}
	msg, err := CanonicalBytes(ret)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign proof %d: %w", opID, err)
	}
	ret.Signature = sig
	return ret, nil
}
