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

	"github.com/blinklabs-io/opproof/cbor"
	"github.com/blinklabs-io/opproof/common"
)

// Persisted form of an OperationProof:
//
//	[op_id, prev_state, new_state, signature, [kind, variant fields...]]
//
// The variant list leads with the same discriminant as the canonical
// encoding.

type operationProofWire struct {
	cbor.StructAsArray
	OpID      uint64
	PrevState common.Hash
	NewState  common.Hash
	Signature []byte
	Data      cbor.RawMessage
}

type memoryWire struct {
	cbor.StructAsArray
	Kind      Kind
	Address   uint64
	Size      uint64
	FrameHash common.Hash
}

type filesystemWire struct {
	cbor.StructAsArray
	Kind        Kind
	Operation   FSOpType
	Path        string
	ContentHash common.Hash
	PrevState   common.Hash
	NewState    common.Hash
}

type processWire struct {
	cbor.StructAsArray
	Kind      Kind
	Pid       uint64
	StateHash common.Hash
}

type bootWire struct {
	cbor.StructAsArray
	Kind      Kind
	StageHash common.Hash
}

type tileWire struct {
	cbor.StructAsArray
	Kind     Kind
	TileID   uint64
	X        uint64
	Y        uint64
	TileHash common.Hash
}

type genericWire struct {
	cbor.StructAsArray
	Kind          Kind
	OperationType string
	DataHash      common.Hash
}

func (p *OperationProof) MarshalCBOR() ([]byte, error) {
	var wireData any
	switch d := p.payload().(type) {
	case nil:
		return nil, common.MalformedProofError{Reason: "proof has no data"}
	case MemoryProof:
		wireData = &memoryWire{Kind: KindMemory, Address: d.Address, Size: d.Size, FrameHash: d.FrameHash}
	case FilesystemProof:
		wireData = &filesystemWire{
			Kind:        KindFilesystem,
			Operation:   d.Operation,
			Path:        d.Path,
			ContentHash: d.ContentHash,
			PrevState:   d.PrevState,
			NewState:    d.NewState,
		}
	case ProcessProof:
		wireData = &processWire{Kind: KindProcess, Pid: d.Pid, StateHash: d.StateHash}
	case BootProof:
		wireData = &bootWire{Kind: KindBoot, StageHash: d.StageHash}
	case TileProof:
		wireData = &tileWire{
			Kind:     KindTile,
			TileID:   d.TileID,
			X:        d.Position.X,
			Y:        d.Position.Y,
			TileHash: d.TileHash,
		}
	case GenericProof:
		wireData = &genericWire{Kind: KindGeneric, OperationType: d.OperationType, DataHash: d.DataHash}
	default:
		return nil, fmt.Errorf("unsupported proof data type: %T", p.Data)
	}
	dataCbor, err := cbor.Encode(wireData)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&operationProofWire{
		OpID:      p.OpID,
		PrevState: p.PrevState,
		NewState:  p.NewState,
		Signature: p.Signature,
		Data:      dataCbor,
	})
}

func (p *OperationProof) UnmarshalCBOR(data []byte) error {
	var tmp operationProofWire
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if len(tmp.Data) == 0 {
		return errors.New("proof data missing")
	}
	decoded, err := cbor.DecodeById(
		tmp.Data,
		map[int]any{
			int(KindMemory):     &memoryWire{},
			int(KindFilesystem): &filesystemWire{},
			int(KindProcess):    &processWire{},
			int(KindBoot):       &bootWire{},
			int(KindTile):       &tileWire{},
			int(KindGeneric):    &genericWire{},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decode proof data: %w", err)
	}
	var proofData ProofData
	switch d := decoded.(type) {
	case *memoryWire:
		proofData = MemoryProof{Address: d.Address, Size: d.Size, FrameHash: d.FrameHash}
	case *filesystemWire:
		if d.Operation > FSOpDelete {
			return fmt.Errorf("unknown filesystem operation: %d", d.Operation)
		}
		proofData = FilesystemProof{
			Operation:   d.Operation,
			Path:        d.Path,
			ContentHash: d.ContentHash,
			PrevState:   d.PrevState,
			NewState:    d.NewState,
		}
	case *processWire:
		proofData = ProcessProof{Pid: d.Pid, StateHash: d.StateHash}
	case *bootWire:
		proofData = BootProof{StageHash: d.StageHash}
	case *tileWire:
		proofData = TileProof{
			TileID:   d.TileID,
			Position: TilePosition{X: d.X, Y: d.Y},
			TileHash: d.TileHash,
		}
	case *genericWire:
		proofData = GenericProof{OperationType: d.OperationType, DataHash: d.DataHash}
	}
	*p = OperationProof{
		OpID:      tmp.OpID,
		PrevState: tmp.PrevState,
		NewState:  tmp.NewState,
		Signature: tmp.Signature,
		Data:      proofData,
	}
	return nil
}
