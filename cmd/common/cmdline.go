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
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/opproof/common"
)

// StateHrp is the bech32 prefix used when printing chain heads
const StateHrp = "state"

type GlobalFlags struct {
	Flagset *flag.FlagSet
	Hasher  string
	State   string
	Debug   bool

	hasher common.Hasher
	state  common.Hash
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.Hasher,
		"hasher",
		common.HasherNameBlake2b,
		"hash primitive to use (blake2b or blake3)",
	)
	f.Flagset.StringVar(
		&f.State,
		"state",
		"",
		"current chain head as hex or bech32 (defaults to the zero hash)",
	)
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	return f
}

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	hasher, err := common.HasherByName(f.Hasher)
	if err != nil {
		fmt.Printf("Invalid hasher specified: %s\n", f.Hasher)
		os.Exit(1)
	}
	f.hasher = hasher
	if f.State != "" {
		state, err := ParseState(f.State)
		if err != nil {
			fmt.Printf("Invalid state specified: %s\n", err)
			os.Exit(1)
		}
		f.state = state
	}
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
		),
	)
}

// HasherImpl returns the hash primitive selected by -hasher
func (f *GlobalFlags) HasherImpl() common.Hasher {
	return f.hasher
}

// InitialState returns the chain head selected by -state
func (f *GlobalFlags) InitialState() common.Hash {
	return f.state
}

// ParseState accepts a chain head in hex or bech32 form
func ParseState(s string) (common.Hash, error) {
	if h, err := common.ParseHash(s); err == nil {
		return h, nil
	}
	_, h, err := common.ParseBech32Hash(s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither hex nor bech32", s)
	}
	return h, nil
}

// FormatState renders a chain head for display
func FormatState(h common.Hash) string {
	return fmt.Sprintf("%s (%s)", h.String(), h.Bech32(StateHrp))
}
