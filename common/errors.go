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

package common

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural failures. A failed verification is never
// reported through these; it is a false result with a nil error.
var (
	// ErrInvalidProof indicates a proof the entry point cannot handle
	ErrInvalidProof = errors.New("invalid proof")
	// ErrInvalidState indicates the authority lacks state the call needs
	ErrInvalidState = errors.New("invalid state")
)

// BlockNotFoundError indicates the requested block is absent from the cache
type BlockNotFoundError struct {
	BlockNum uint64
}

func (e BlockNotFoundError) Error() string {
	return fmt.Sprintf("block %d not found in cache", e.BlockNum)
}

func (BlockNotFoundError) Is(target error) bool {
	return target == ErrInvalidState
}

// UnsupportedVariantError indicates a proof variant the entry point does not verify
type UnsupportedVariantError struct {
	Kind      string
	Operation string
}

func (e UnsupportedVariantError) Error() string {
	return fmt.Sprintf(
		"%s does not support %s proofs",
		e.Operation,
		e.Kind,
	)
}

func (UnsupportedVariantError) Is(target error) bool {
	return target == ErrInvalidProof
}

// MalformedProofError indicates a proof that is missing required content
type MalformedProofError struct {
	Reason string
}

func (e MalformedProofError) Error() string {
	return "malformed proof: " + e.Reason
}

func (MalformedProofError) Is(target error) bool {
	return target == ErrInvalidProof
}
