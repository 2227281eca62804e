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

// Package proof defines operation proofs: signed, immutable attestations of
// a single state transition, and the hash-chain algebra that links them.
//
// An OperationProof carries exactly one ProofData variant. The set of
// variants is closed; ProofData cannot be implemented outside this package.
package proof

import (
	"fmt"

	"github.com/blinklabs-io/opproof/common"
)

// Kind is the discriminant of a ProofData variant. Its numeric value is part
// of the canonical encoding and must not change.
type Kind uint8

const (
	KindMemory     Kind = 0
	KindFilesystem Kind = 1
	KindProcess    Kind = 2
	KindBoot       Kind = 3
	KindTile       Kind = 4
	KindGeneric    Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindFilesystem:
		return "filesystem"
	case KindProcess:
		return "process"
	case KindBoot:
		return "boot"
	case KindTile:
		return "tile"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// FSOpType is the kind of filesystem change a FilesystemProof records
type FSOpType uint8

const (
	FSOpCreate FSOpType = iota
	FSOpModify
	FSOpDelete
)

func (o FSOpType) String() string {
	switch o {
	case FSOpCreate:
		return "create"
	case FSOpModify:
		return "modify"
	case FSOpDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// ParseFSOpType parses the names produced by FSOpType.String
func ParseFSOpType(s string) (FSOpType, error) {
	switch s {
	case "create":
		return FSOpCreate, nil
	case "modify":
		return FSOpModify, nil
	case "delete":
		return FSOpDelete, nil
	default:
		return 0, fmt.Errorf("unknown filesystem operation: %s", s)
	}
}

// ProofData is the operation-domain payload of an OperationProof
type ProofData interface {
	Kind() Kind
	// OperationHash derives the hash this operation folds into the chain.
	// current is the authority's chain head at derivation time; only
	// filesystem deletes depend on it.
	OperationHash(h common.Hasher, current common.Hash) common.Hash
	appendCanonical(enc *canonicalEncoder)
	canonicalSize() uint64
}

// MemoryProof records a change of physical frame content
type MemoryProof struct {
	Address   uint64
	Size      uint64
	FrameHash common.Hash
}

func (MemoryProof) Kind() Kind { return KindMemory }

// FilesystemProof records a change of file metadata or content. PrevState
// and NewState are the filesystem's own view of the transition and are used
// by self-consistency checks that ignore the authority.
type FilesystemProof struct {
	Operation   FSOpType
	Path        string
	ContentHash common.Hash
	PrevState   common.Hash
	NewState    common.Hash
}

func (FilesystemProof) Kind() Kind { return KindFilesystem }

// ProcessProof records a change of a process control block
type ProcessProof struct {
	Pid       uint64
	StateHash common.Hash
}

func (ProcessProof) Kind() Kind { return KindProcess }

// BootProof records completion of a boot stage
type BootProof struct {
	StageHash common.Hash
}

func (BootProof) Kind() Kind { return KindBoot }

// TilePosition is the grid coordinate of a tile
type TilePosition struct {
	X uint64
	Y uint64
}

// TileProof records a change of a paging/tiling unit
type TileProof struct {
	TileID   uint64
	Position TilePosition
	TileHash common.Hash
}

func (TileProof) Kind() Kind { return KindTile }

// GenericProof covers operations with no dedicated variant
type GenericProof struct {
	OperationType string
	DataHash      common.Hash
}

func (GenericProof) Kind() Kind { return KindGeneric }

// OperationProof is an immutable attestation of one state transition.
// Proofs are created once by the producer of the operation and are never
// mutated or reused across chain positions.
type OperationProof struct {
	OpID      uint64
	PrevState common.Hash
	NewState  common.Hash
	Signature []byte
	Data      ProofData
}

// Kind returns the variant of the proof payload
func (p *OperationProof) Kind() (Kind, error) {
	data := p.payload()
	if data == nil {
		return 0, common.MalformedProofError{Reason: "proof has no data"}
	}
	return data.Kind(), nil
}

// Filesystem returns the filesystem payload and whether the proof carries one
func (p *OperationProof) Filesystem() (FilesystemProof, bool) {
	fs, ok := p.payload().(FilesystemProof)
	return fs, ok
}

func (p *OperationProof) payload() ProofData {
	if p == nil {
		return nil
	}
	return derefData(p.Data)
}

// derefData maps pointer variants onto their values. A nil pointer maps to
// nil.
func derefData(d ProofData) ProofData {
	switch v := d.(type) {
	case *MemoryProof:
		if v != nil {
			return *v
		}
	case *FilesystemProof:
		if v != nil {
			return *v
		}
	case *ProcessProof:
		if v != nil {
			return *v
		}
	case *BootProof:
		if v != nil {
			return *v
		}
	case *TileProof:
		if v != nil {
			return *v
		}
	case *GenericProof:
		if v != nil {
			return *v
		}
	default:
		return d
	}
	return nil
}
