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
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/opproof/cmd/common"
	"github.com/blinklabs-io/opproof/superblock"
)

type blockProofFlags struct {
	flagset   *flag.FlagSet
	dir       string
	cacheSize int
}

func newBlockProofFlags() *blockProofFlags {
	f := &blockProofFlags{
		flagset: flag.NewFlagSet("block-proof", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.dir, "dir", "", "directory of block files named <block number>.<ext> (required)")
	f.flagset.IntVar(&f.cacheSize, "cache-size", 0, "bound the block cache (0 means unbounded)")
	return f
}

// runBlockProof generates and commits a proof for every block in a
// directory, in block number order
func runBlockProof(f proofctlFlags) {
	blockFlags := newBlockProofFlags()
	if err := blockFlags.flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if blockFlags.dir == "" {
		fmt.Printf("ERROR: you must specify -dir\n")
		os.Exit(1)
	}
	blocks, err := common.ReadBlockDir(blockFlags.dir)
	if err != nil {
		fmt.Printf("ERROR: failed to read blocks: %s\n", err)
		os.Exit(1)
	}
	sb, err := superblock.New(
		superblock.WithLogger(slog.Default()),
		superblock.WithHasher(f.HasherImpl()),
		superblock.WithInitialState(f.InitialState()),
		superblock.WithBlockCacheSize(blockFlags.cacheSize),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("initial state: %s\n", common.FormatState(sb.StateHash()))
	for _, block := range blocks {
		sb.WriteBlock(block.Num, block.Data)
		p, err := sb.GenerateBlockProof(block.Num)
		if err != nil {
			fmt.Printf("ERROR: block %d: %s\n", block.Num, err)
			os.Exit(1)
		}
		ok, err := sb.CommitBlock(p)
		if err != nil || !ok {
			fmt.Printf("ERROR: block %d was not committed: %v\n", block.Num, err)
			os.Exit(1)
		}
		out := block.Path + common.ProofExt
		if err := common.WriteCbor(out, p); err != nil {
			fmt.Printf("ERROR: failed to write proof: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("block %d: hash %s -> %s\n", block.Num, p.BlockHash, p.NewState)
	}
	fmt.Printf("final state:   %s\n", common.FormatState(sb.StateHash()))
}
