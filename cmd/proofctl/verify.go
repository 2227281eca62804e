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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/opproof/cmd/common"
	"github.com/blinklabs-io/opproof/pipeline"
	"github.com/blinklabs-io/opproof/proof"
	"github.com/blinklabs-io/opproof/superblock"
)

type verifyFlags struct {
	flagset *flag.FlagSet
	pubKey  string
	workers int
	dir     string
}

func newVerifyFlags(name string) *verifyFlags {
	f := &verifyFlags{
		flagset: flag.NewFlagSet(name, flag.ExitOnError),
	}
	f.flagset.IntVar(&f.workers, "workers", 0, "number of verification workers (defaults to the CPU count)")
	return f
}

// runVerify checks operation proof files against the -state chain head
func runVerify(f proofctlFlags) {
	verifyFlags := newVerifyFlags("verify")
	verifyFlags.flagset.StringVar(&verifyFlags.pubKey, "pubkey", "", "hex encoded Ed25519 public key (required)")
	if err := verifyFlags.flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	files := verifyFlags.flagset.Args()
	if verifyFlags.pubKey == "" || len(files) == 0 {
		fmt.Printf("ERROR: you must specify -pubkey and at least one proof file\n")
		os.Exit(1)
	}
	verifier, err := common.LoadVerifier(verifyFlags.pubKey)
	if err != nil {
		fmt.Printf("ERROR: invalid public key: %s\n", err)
		os.Exit(1)
	}
	sb, err := superblock.New(
		superblock.WithLogger(slog.Default()),
		superblock.WithHasher(f.HasherImpl()),
		superblock.WithInitialState(f.InitialState()),
		superblock.WithSignatureVerifier(verifier),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	proofs := make([]*proof.OperationProof, 0, len(files))
	for _, file := range files {
		var p proof.OperationProof
		if err := common.ReadCbor(file, &p); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		proofs = append(proofs, &p)
	}

	results, err := pipeline.VerifyBatch(
		context.Background(),
		sb,
		proofs,
		pipeline.WithLogger(slog.Default()),
		pipeline.WithWorkers(verifyFlags.workers),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if !printOutcomes(files, results) {
		os.Exit(1)
	}
}

// runVerifyBlocks replays the block proofs written by block-proof, committing
// each one in block order
func runVerifyBlocks(f proofctlFlags) {
	verifyFlags := newVerifyFlags("verify-blocks")
	verifyFlags.flagset.StringVar(&verifyFlags.dir, "dir", "", "directory of blocks and their proofs (required)")
	if err := verifyFlags.flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if verifyFlags.dir == "" {
		fmt.Printf("ERROR: you must specify -dir\n")
		os.Exit(1)
	}
	blocks, err := common.ReadBlockDir(verifyFlags.dir)
	if err != nil {
		fmt.Printf("ERROR: failed to read blocks: %s\n", err)
		os.Exit(1)
	}
	sb, err := superblock.New(
		superblock.WithLogger(slog.Default()),
		superblock.WithHasher(f.HasherImpl()),
		superblock.WithInitialState(f.InitialState()),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	// Chained block proofs must be checked against the head they extend, so
	// the committer verifies them one at a time in submission order
	p := pipeline.NewProofPipeline(
		pipeline.WithLogger(slog.Default()),
		pipeline.WithDecodeWorkers(verifyFlags.workers),
		pipeline.WithVerifyWorkers(0),
		pipeline.WithCommitter(sb),
	)
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	files := make([]string, 0, len(blocks))
	for _, block := range blocks {
		files = append(files, block.Path+common.ProofExt)
	}
	go func() {
		for _, block := range blocks {
			sb.WriteBlock(block.Num, block.Data)
			raw, err := os.ReadFile(block.Path + common.ProofExt)
			if err != nil {
				slog.Error("missing block proof", "block_num", block.Num, "error", err)
			}
			if err := p.Submit(ctx, pipeline.ItemTypeBlock, raw); err != nil {
				return
			}
		}
	}()
	go func() {
		for err := range p.Errors() {
			slog.Debug("pipeline error", "error", err)
		}
	}()
	results := make([]*pipeline.ProofItem, 0, len(blocks))
	for len(results) < len(blocks) {
		results = append(results, <-p.Results())
	}
	_ = p.Stop()

	ok := printOutcomes(files, results)
	fmt.Printf("final state: %s\n", common.FormatState(sb.StateHash()))
	if !ok {
		os.Exit(1)
	}
}

func printOutcomes(files []string, results []*pipeline.ProofItem) bool {
	allAccepted := true
	for i, item := range results {
		outcome := item.Outcome()
		if outcome != pipeline.OutcomeAccepted {
			allAccepted = false
		}
		if err := item.Err(); err != nil {
			fmt.Printf("%s: %s (%s)\n", files[i], outcome, err)
			continue
		}
		fmt.Printf("%s: %s\n", files[i], outcome)
	}
	return allAccepted
}
