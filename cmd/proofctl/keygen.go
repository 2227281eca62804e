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
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/opproof/signature"
)

type keygenFlags struct {
	flagset *flag.FlagSet
	out     string
}

func newKeygenFlags() *keygenFlags {
	f := &keygenFlags{
		flagset: flag.NewFlagSet("keygen", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.out, "out", "", "file to write the hex encoded seed to (required)")
	return f
}

func runKeygen(f proofctlFlags) {
	keygenFlags := newKeygenFlags()
	if err := keygenFlags.flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if keygenFlags.out == "" {
		fmt.Printf("ERROR: you must specify -out\n")
		os.Exit(1)
	}
	signer, err := signature.GenerateEd25519Signer(nil)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	seedHex := hex.EncodeToString(signer.Seed()) + "\n"
	if err := os.WriteFile(keygenFlags.out, []byte(seedHex), 0o600); err != nil {
		fmt.Printf("ERROR: failed to write seed: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("public key: %x\n", signer.PublicKey())
}
