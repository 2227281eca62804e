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

package superblock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/internal/test"
	"github.com/blinklabs-io/opproof/proof"
	"github.com/blinklabs-io/opproof/superblock"
)

func TestGenerateAndVerifyBlockProof(t *testing.T) {
	f := newFixture(t)
	h0 := f.sb.StateHash()
	f.sb.WriteBlock(7, []byte("abcd"))

	p, err := f.sb.GenerateBlockProof(7)
	require.NoError(t, err)
	blockHash := f.sb.Hasher().Hash([]byte("abcd"))
	assert.Equal(t, uint64(7), p.BlockNum)
	assert.Equal(t, blockHash, p.BlockHash)
	assert.Equal(t, h0, p.PrevState)
	assert.Equal(t, h0.Combine(blockHash), p.NewState)

	ok, err := f.sb.VerifyBlockProof(p)
	require.NoError(t, err)
	assert.True(t, ok)

	// mutate the cached content without updating the proof
	f.sb.WriteBlock(7, []byte("abce"))
	ok, err = f.sb.VerifyBlockProof(p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, f.logs.String(), "block content does not match proof")
}

func TestVerifyBlockProofStaleState(t *testing.T) {
	f := newFixture(t)
	f.sb.WriteBlock(1, []byte("one"))
	p, err := f.sb.GenerateBlockProof(1)
	require.NoError(t, err)

	other := *p
	other.PrevState ^= 1
	ok, err := f.sb.VerifyBlockProof(&other)
	require.NoError(t, err)
	assert.False(t, ok)

	other = *p
	other.NewState ^= 1
	ok, err = f.sb.VerifyBlockProof(&other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockProofMissingBlock(t *testing.T) {
	f := newFixture(t)
	_, err := f.sb.GenerateBlockProof(12)
	assert.ErrorIs(t, err, common.ErrInvalidState)

	_, err = f.sb.VerifyBlockProof(&proof.BlockOperationProof{BlockNum: 12})
	assert.ErrorIs(t, err, common.ErrInvalidState)
	assert.NotErrorIs(t, err, common.ErrInvalidProof)

	_, err = f.sb.VerifyBlockProof(nil)
	assert.ErrorIs(t, err, common.ErrInvalidProof)
}

func TestBlockProofLockDiscipline(t *testing.T) {
	cache := test.NewLockObservingCache()
	hasher := &test.GuardedHasher{Cache: cache}
	f := newFixture(
		t,
		superblock.WithBlockCache(cache),
		superblock.WithHasher(hasher),
	)
	f.sb.WriteBlock(7, []byte("abcd"))

	var p *proof.BlockOperationProof
	require.NotPanics(t, func() {
		var err error
		p, err = f.sb.GenerateBlockProof(7)
		require.NoError(t, err)
		ok, err := f.sb.VerifyBlockProof(p)
		require.NoError(t, err)
		assert.True(t, ok)
	})
	assert.Equal(t, uint64(2), cache.Gets())
	assert.Equal(t, uint64(2), hasher.Calls())
}

func TestVerifyOperationProofFilesystem(t *testing.T) {
	f := newFixture(t)
	for _, op := range []proof.FSOpType{proof.FSOpCreate, proof.FSOpModify, proof.FSOpDelete} {
		t.Run(op.String(), func(t *testing.T) {
			p := f.fsProof(t, 1, op, "/var/log/syslog")
			ok, err := f.sb.VerifyOperationProof(p)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestVerifyOperationProofSignatureGate(t *testing.T) {
	stub := &test.StubVerifier{Accept: false}
	f := newFixture(t, superblock.WithSignatureVerifier(stub))
	p := f.fsProof(t, 1, proof.FSOpCreate, "/a")

	ok, err := f.sb.VerifyOperationProof(p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), stub.Calls())
	assert.Contains(t, f.logs.String(), "signature verification failed")

	// a real key rejects a tampered signature
	f = newFixture(t)
	p = f.fsProof(t, 2, proof.FSOpCreate, "/a")
	p.Signature[0] ^= 0xff
	ok, err = f.sb.VerifyOperationProof(p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOperationProofChecksOrder(t *testing.T) {
	stub := &test.StubVerifier{Accept: true}
	f := newFixture(t, superblock.WithSignatureVerifier(stub))

	// stale previous state short-circuits before the signature check
	p := f.fsProof(t, 1, proof.FSOpCreate, "/a")
	p.PrevState ^= 1
	ok, err := f.sb.VerifyOperationProof(p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), stub.Calls())

	// wrong content hash
	p = f.fsProof(t, 2, proof.FSOpCreate, "/a")
	fs, _ := p.Filesystem()
	fs.ContentHash ^= 1
	p.Data = fs
	ok, err = f.sb.VerifyOperationProof(p)
	require.NoError(t, err)
	assert.False(t, ok)

	// wrong new state
	p = f.fsProof(t, 3, proof.FSOpModify, "/a")
	p.NewState ^= 1
	ok, err = f.sb.VerifyOperationProof(p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOperationProofUnsupportedVariant(t *testing.T) {
	stub := &test.StubVerifier{Accept: true}
	f := newFixture(t, superblock.WithSignatureVerifier(stub))
	head := f.sb.StateHash()
	variants := []proof.ProofData{
		proof.MemoryProof{Address: 1, Size: 2, FrameHash: 3},
		proof.ProcessProof{Pid: 1, StateHash: 2},
		proof.BootProof{StageHash: 1},
		proof.TileProof{TileID: 1, TileHash: 2},
		proof.GenericProof{OperationType: "x", DataHash: 1},
	}
	for _, data := range variants {
		t.Run(data.Kind().String(), func(t *testing.T) {
			p := &proof.OperationProof{
				OpID:      1,
				PrevState: head,
				NewState:  head.Combine(data.OperationHash(nil, head)),
				Data:      data,
			}
			ok, err := f.sb.VerifyOperationProof(p)
			assert.False(t, ok)
			assert.ErrorIs(t, err, common.ErrInvalidProof)
			var unsupported common.UnsupportedVariantError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, data.Kind().String(), unsupported.Kind)

			ok, err = f.sb.VerifyHashChain(p)
			assert.False(t, ok)
			assert.ErrorIs(t, err, common.ErrInvalidProof)
		})
	}
}

func TestVerifyOperationProofMalformed(t *testing.T) {
	f := newFixture(t)
	_, err := f.sb.VerifyOperationProof(nil)
	assert.ErrorIs(t, err, common.ErrInvalidProof)

	_, err = f.sb.VerifyOperationProof(&proof.OperationProof{PrevState: f.sb.StateHash()})
	assert.ErrorIs(t, err, common.ErrInvalidProof)

	_, err = f.sb.VerifyHashChain(nil)
	assert.ErrorIs(t, err, common.ErrInvalidProof)
}

func TestVerifyHashChain(t *testing.T) {
	f := newFixture(t)
	h := f.sb.Hasher()
	prev := common.Hash(0x0123456789abcdef)
	pathHash := h.Hash([]byte("/boot/vmlinuz"))
	testDefs := []struct {
		name     string
		op       proof.FSOpType
		newState common.Hash
		expected bool
	}{
		{name: "create consistent", op: proof.FSOpCreate, newState: prev.Combine(pathHash), expected: true},
		{name: "modify consistent", op: proof.FSOpModify, newState: prev.Combine(pathHash), expected: true},
		{name: "create inconsistent", op: proof.FSOpCreate, newState: prev, expected: false},
		{name: "modify inconsistent", op: proof.FSOpModify, newState: pathHash, expected: false},
		{name: "delete consistent", op: proof.FSOpDelete, newState: ^common.Hash(0), expected: true},
		{name: "delete inconsistent", op: proof.FSOpDelete, newState: prev.Combine(pathHash), expected: false},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p := &proof.OperationProof{
				OpID: 1,
				// the outer states are not consulted
				PrevState: 0xdead,
				NewState:  0xbeef,
				Data: proof.FilesystemProof{
					Operation: testDef.op,
					Path:      "/boot/vmlinuz",
					PrevState: prev,
					NewState:  testDef.newState,
				},
			}
			ok, err := f.sb.VerifyHashChain(p)
			require.NoError(t, err)
			assert.Equal(t, testDef.expected, ok)
		})
	}
}

func TestVerifyHashChainIgnoresAuthority(t *testing.T) {
	f := newFixture(t)
	p := f.fsProof(t, 1, proof.FSOpCreate, "/a")
	committed, err := f.sb.Commit(p)
	require.NoError(t, err)
	require.True(t, committed)

	// the head moved on, but the proof remains internally consistent
	ok, err := f.sb.VerifyHashChain(p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteProofDependsOnAuthorityState(t *testing.T) {
	first := newFixture(t, superblock.WithInitialState(0x1111))
	second := newFixture(t, superblock.WithInitialState(0x2222))
	a := first.fsProof(t, 1, proof.FSOpDelete, "/same/file")
	b := second.fsProof(t, 1, proof.FSOpDelete, "/same/file")
	fsA, _ := a.Filesystem()
	fsB, _ := b.Filesystem()
	assert.NotEqual(t, fsA.ContentHash, fsB.ContentHash)
	assert.Equal(t, ^common.Hash(0x1111), fsA.ContentHash)

	// once the head moves, the same delete proof no longer verifies
	first.sb.WriteBlock(1, []byte("x"))
	bp, err := first.sb.GenerateBlockProof(1)
	require.NoError(t, err)
	committed, err := first.sb.CommitBlock(bp)
	require.NoError(t, err)
	require.True(t, committed)
	ok, err := first.sb.VerifyOperationProof(a)
	require.NoError(t, err)
	assert.False(t, ok)
}
