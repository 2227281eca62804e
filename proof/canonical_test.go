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

package proof_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/internal/test"
	"github.com/blinklabs-io/opproof/proof"
	"github.com/blinklabs-io/opproof/signature"
)

const canonicalHeaderHex = "0700000000000000" + // op_id
	"0100000000000000" + // prev_state
	"0200000000000000" // new_state

func TestCanonicalBytesLayout(t *testing.T) {
	testDefs := []struct {
		name string
		data proof.ProofData
		tail string
	}{
		{
			name: "memory",
			data: proof.MemoryProof{Address: 0x1000, Size: 0x20, FrameHash: 0x03},
			tail: "00" + "0010000000000000" + "2000000000000000" + "0300000000000000",
		},
		{
			name: "filesystem",
			data: proof.FilesystemProof{
				Operation:   proof.FSOpDelete,
				Path:        "/a",
				ContentHash: 0x03,
				PrevState:   0x99,
				NewState:    0x98,
			},
			// operation kind and embedded states are not signed
			tail: "01" + "2f61" + "0300000000000000",
		},
		{
			name: "process",
			data: proof.ProcessProof{Pid: 5, StateHash: 0x03},
			tail: "02" + "0500000000000000" + "0300000000000000",
		},
		{
			name: "boot",
			data: proof.BootProof{StageHash: 0x03},
			tail: "03" + "0300000000000000",
		},
		{
			name: "tile",
			data: proof.TileProof{TileID: 9, Position: proof.TilePosition{X: 1, Y: 2}, TileHash: 0x03},
			tail: "04" + "0900000000000000" + "0100000000000000" + "0200000000000000" + "0300000000000000",
		},
		{
			name: "generic",
			data: proof.GenericProof{OperationType: "sync", DataHash: 0x03},
			tail: "05" + "73796e63" + "0300000000000000",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p := &proof.OperationProof{
				OpID:      7,
				PrevState: 1,
				NewState:  2,
				Signature: []byte("ignored"),
				Data:      testDef.data,
			}
			msg, err := proof.CanonicalBytes(p)
			require.NoError(t, err)
			assert.Equal(t, canonicalHeaderHex+testDef.tail, hex.EncodeToString(msg))
		})
	}
}

func TestCanonicalBytesEmptyString(t *testing.T) {
	p := &proof.OperationProof{Data: proof.GenericProof{DataHash: 0x01}}
	msg, err := proof.CanonicalBytes(p)
	require.NoError(t, err)
	assert.Len(t, msg, 3*8+1+8)
}

func TestCanonicalBytesNoData(t *testing.T) {
	_, err := proof.CanonicalBytes(&proof.OperationProof{OpID: 1})
	assert.ErrorIs(t, err, common.ErrInvalidProof)
	_, err = proof.CanonicalBytes(nil)
	assert.ErrorIs(t, err, common.ErrInvalidProof)
}

func TestNewOperationProofFilesystem(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("producer"))
	require.NoError(t, err)
	verifier, err := signer.Verifier()
	require.NoError(t, err)
	h := common.DefaultHasher()
	prev := common.Hash(0xfeed)

	p, err := proof.NewOperationProof(
		11,
		prev,
		prev,
		proof.FilesystemProof{Operation: proof.FSOpCreate, Path: "/home/user/notes"},
		h,
		signer,
	)
	require.NoError(t, err)
	fs, ok := p.Filesystem()
	require.True(t, ok)
	assert.Equal(t, h.Hash([]byte("/home/user/notes")), fs.ContentHash)
	assert.Equal(t, prev, fs.PrevState)
	assert.Equal(t, prev.Combine(fs.ContentHash), p.NewState)
	assert.Equal(t, p.NewState, fs.NewState)

	msg, err := proof.CanonicalBytes(p)
	require.NoError(t, err)
	assert.True(t, verifier.Verify(msg, p.Signature))
}

func TestNewOperationProofDelete(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("producer"))
	require.NoError(t, err)
	current := common.Hash(0x0f0f)
	p, err := proof.NewOperationProof(
		12,
		current,
		current,
		&proof.FilesystemProof{Operation: proof.FSOpDelete, Path: "/tmp/gone"},
		nil,
		signer,
	)
	require.NoError(t, err)
	fs, ok := p.Filesystem()
	require.True(t, ok)
	assert.Equal(t, current.Complement(), fs.ContentHash)
	// prev ^ ^prev is all ones
	assert.Equal(t, ^common.Hash(0), p.NewState)
}

func TestNewOperationProofOtherVariant(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("producer"))
	require.NoError(t, err)
	p, err := proof.NewOperationProof(
		13,
		0x100,
		0x100,
		proof.ProcessProof{Pid: 42, StateHash: 0x001},
		nil,
		signer,
	)
	require.NoError(t, err)
	assert.Equal(t, common.Hash(0x101), p.NewState)
	assert.Len(t, p.Signature, signature.SignatureSize)
}

type failingSigner struct{}

var _ signature.Signer = failingSigner{}

func (failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("hsm offline")
}

func TestNewOperationProofErrors(t *testing.T) {
	_, err := proof.NewOperationProof(1, 0, 0, nil, nil, failingSigner{})
	assert.ErrorIs(t, err, common.ErrInvalidProof)

	_, err = proof.NewOperationProof(1, 0, 0, proof.BootProof{}, nil, nil)
	assert.Error(t, err)

	_, err = proof.NewOperationProof(1, 0, 0, proof.BootProof{}, nil, failingSigner{})
	assert.ErrorContains(t, err, "hsm offline")
}
