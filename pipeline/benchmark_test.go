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

package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blinklabs-io/opproof/cbor"
	"github.com/blinklabs-io/opproof/internal/test"
	"github.com/blinklabs-io/opproof/pipeline"
	"github.com/blinklabs-io/opproof/proof"
	"github.com/blinklabs-io/opproof/signature"
	"github.com/blinklabs-io/opproof/superblock"
)

func benchAuthority(b *testing.B) (*superblock.Superblock, *signature.Ed25519Signer) {
	b.Helper()
	signer, err := signature.NewEd25519Signer(test.FixedSeed("bench"))
	if err != nil {
		b.Fatal(err)
	}
	verifier, err := signer.Verifier()
	if err != nil {
		b.Fatal(err)
	}
	sb, err := superblock.New(superblock.WithSignatureVerifier(verifier))
	if err != nil {
		b.Fatal(err)
	}
	return sb, signer
}

func benchProofs(b *testing.B, sb *superblock.Superblock, signer signature.Signer, n int) []*proof.OperationProof {
	b.Helper()
	head := sb.StateHash()
	ret := make([]*proof.OperationProof, 0, n)
	for i := range n {
		p, err := proof.NewOperationProof(
			uint64(i),
			head,
			head,
			proof.FilesystemProof{Operation: proof.FSOpModify, Path: fmt.Sprintf("/bench/%d", i)},
			sb.Hasher(),
			signer,
		)
		if err != nil {
			b.Fatal(err)
		}
		ret = append(ret, p)
	}
	return ret
}

// BenchmarkDecodeStage benchmarks CBOR decode throughput for operation proofs.
func BenchmarkDecodeStage(b *testing.B) {
	sb, signer := benchAuthority(b)
	raw, err := cbor.Encode(benchProofs(b, sb, signer, 1)[0])
	if err != nil {
		b.Fatal(err)
	}
	stage := pipeline.NewDecodeStage()
	ctx := context.Background()

	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for b.Loop() {
		item := pipeline.NewProofItem(pipeline.ItemTypeOperation, raw, 0)
		if err := stage.Process(ctx, item); err != nil {
			b.Fatalf("decode error: %v", err)
		}
	}
}

// BenchmarkVerifyBatch benchmarks batch verification with different worker counts.
func BenchmarkVerifyBatch(b *testing.B) {
	sb, signer := benchAuthority(b)
	proofs := benchProofs(b, sb, signer, 256)

	for _, numWorkers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("Workers%d", numWorkers), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				results, err := pipeline.VerifyBatch(
					context.Background(),
					sb,
					proofs,
					pipeline.WithWorkers(numWorkers),
				)
				if err != nil {
					b.Fatal(err)
				}
				if len(results) != len(proofs) {
					b.Fatalf("got %d results, expected %d", len(results), len(proofs))
				}
			}
		})
	}
}
