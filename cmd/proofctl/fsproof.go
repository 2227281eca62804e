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
	"os"

	"github.com/blinklabs-io/opproof/cmd/common"
	"github.com/blinklabs-io/opproof/proof"
)

type fsProofFlags struct {
	flagset *flag.FlagSet
	key     string
	op      string
	path    string
	opID    uint64
	out     string
}

func newFsProofFlags() *fsProofFlags {
	f := &fsProofFlags{
		flagset: flag.NewFlagSet("fs-proof", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.key, "key", "", "seed file written by keygen (required)")
	f.flagset.StringVar(&f.op, "op", "create", "filesystem operation (create, modify or delete)")
	f.flagset.StringVar(&f.path, "path", "", "path the operation touches (required)")
	f.flagset.Uint64Var(&f.opID, "op-id", 0, "operation identifier")
	f.flagset.StringVar(&f.out, "out", "", "file to write the CBOR proof to")
	return f
}

// runFsProof signs a filesystem proof against the -state chain head
func runFsProof(f proofctlFlags) {
	fsFlags := newFsProofFlags()
	if err := fsFlags.flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if fsFlags.key == "" || fsFlags.path == "" {
		fmt.Printf("ERROR: you must specify -key and -path\n")
		os.Exit(1)
	}
	op, err := proof.ParseFSOpType(fsFlags.op)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	signer, err := common.LoadSigner(fsFlags.key)
	if err != nil {
		fmt.Printf("ERROR: failed to load key: %s\n", err)
		os.Exit(1)
	}
	head := f.InitialState()
	p, err := proof.NewOperationProof(
		fsFlags.opID,
		head,
		head,
		proof.FilesystemProof{Operation: op, Path: fsFlags.path},
		f.HasherImpl(),
		signer,
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	out := fsFlags.out
	if out == "" {
		out = fmt.Sprintf("op-%d%s", fsFlags.opID, common.ProofExt)
	}
	if err := common.WriteCbor(out, p); err != nil {
		fmt.Printf("ERROR: failed to write proof: %s\n", err)
		os.Exit(1)
	}
	fs, _ := p.Filesystem()
	fmt.Printf("op %d: %s %s\n", p.OpID, op, fs.Path)
	fmt.Printf("content hash: %s\n", fs.ContentHash)
	fmt.Printf("new state:    %s\n", common.FormatState(p.NewState))
	fmt.Printf("proof written to %s\n", out)
}
