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
	"github.com/tchajed/marshal"

	"github.com/blinklabs-io/opproof/common"
)

// Canonical encoding of an OperationProof, the message that is signed:
//
//	op_id | prev_state | new_state | kind byte | variant fields
//
// Integers and hashes are 8 bytes little-endian. Strings are raw bytes with
// no length prefix, so a variable-length field runs straight into the
// fixed-width field that follows it. Signers and verifiers must keep this
// framing byte for byte.

const (
	intSize    uint64 = 8
	headerSize        = 3*intSize + 1
)

type canonicalEncoder struct {
	enc marshal.Enc
}

func (e *canonicalEncoder) putInt(v uint64) {
	e.enc.PutInt(v)
}

func (e *canonicalEncoder) putHash(h common.Hash) {
	e.enc.PutInt(uint64(h))
}

func (e *canonicalEncoder) putByte(b byte) {
	e.enc.PutBytes([]byte{b})
}

func (e *canonicalEncoder) putString(s string) {
	e.enc.PutBytes([]byte(s))
}

// CanonicalBytes returns the signed message for the proof. The signature
// field is not part of it.
func CanonicalBytes(p *OperationProof) ([]byte, error) {
	data := p.payload()
	if data == nil {
		return nil, common.MalformedProofError{Reason: "proof has no data"}
	}
	e := &canonicalEncoder{
		enc: marshal.NewEnc(headerSize + data.canonicalSize()),
	}
	e.putInt(p.OpID)
	e.putHash(p.PrevState)
	e.putHash(p.NewState)
	e.putByte(byte(data.Kind()))
	data.appendCanonical(e)
	return e.enc.Finish(), nil
}

func (d MemoryProof) canonicalSize() uint64 { return 3 * intSize }

func (d MemoryProof) appendCanonical(e *canonicalEncoder) {
	e.putInt(d.Address)
	e.putInt(d.Size)
	e.putHash(d.FrameHash)
}

// The filesystem record signs the path and the content hash. The operation
// kind and the embedded states are not covered by the signature.
func (d FilesystemProof) canonicalSize() uint64 {
	return uint64(len(d.Path)) + intSize
}

func (d FilesystemProof) appendCanonical(e *canonicalEncoder) {
	e.putString(d.Path)
	e.putHash(d.ContentHash)
}

func (d ProcessProof) canonicalSize() uint64 { return 2 * intSize }

func (d ProcessProof) appendCanonical(e *canonicalEncoder) {
	e.putInt(d.Pid)
	e.putHash(d.StateHash)
}

func (d BootProof) canonicalSize() uint64 { return intSize }

func (d BootProof) appendCanonical(e *canonicalEncoder) {
	e.putHash(d.StageHash)
}

func (d TileProof) canonicalSize() uint64 { return 4 * intSize }

func (d TileProof) appendCanonical(e *canonicalEncoder) {
	e.putInt(d.TileID)
	e.putInt(d.Position.X)
	e.putInt(d.Position.Y)
	e.putHash(d.TileHash)
}

func (d GenericProof) canonicalSize() uint64 {
	return uint64(len(d.OperationType)) + intSize
}

func (d GenericProof) appendCanonical(e *canonicalEncoder) {
	e.putString(d.OperationType)
	e.putHash(d.DataHash)
}
