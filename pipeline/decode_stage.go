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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/opproof/cbor"
	"github.com/blinklabs-io/opproof/proof"
)

// ErrNilStage is returned when a nil stage is provided to a worker pool.
var ErrNilStage = errors.New("pipeline: nil stage")

// DecodeStage turns raw CBOR into proofs. Items submitted already decoded
// pass through untouched.
type DecodeStage struct{}

func NewDecodeStage() *DecodeStage {
	return &DecodeStage{}
}

func (s *DecodeStage) Name() string {
	return "decode"
}

func (s *DecodeStage) Process(ctx context.Context, item *ProofItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if item.IsDecoded() {
		return nil
	}

	start := time.Now()
	var err error
	switch item.ItemType() {
	case ItemTypeOperation:
		var p proof.OperationProof
		if _, err = cbor.Decode(item.RawCbor(), &p); err == nil {
			item.SetOperationProof(&p, time.Since(start))
			return nil
		}
	case ItemTypeBlock:
		var p proof.BlockOperationProof
		if _, err = cbor.Decode(item.RawCbor(), &p); err == nil {
			item.SetBlockProof(&p, time.Since(start))
			return nil
		}
	default:
		err = fmt.Errorf("unknown item type: %d", item.ItemType())
	}
	err = fmt.Errorf(
		"decode %s proof (seq %d): %w",
		item.ItemType(),
		item.SequenceNumber(),
		err,
	)
	item.SetDecodeError(err, time.Since(start))
	return err
}
