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
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

const (
	HasherNameBlake2b = "blake2b"
	HasherNameBlake3  = "blake3"
)

// Hasher is the hash primitive used to digest memory ranges. Implementations
// must be pure and deterministic: identical content always yields the same
// Hash, including for empty input.
type Hasher interface {
	Hash(data []byte) Hash
}

// HasherFunc is an adapter that allows using ordinary functions as a Hasher
type HasherFunc func(data []byte) Hash

func (f HasherFunc) Hash(data []byte) Hash {
	return f(data)
}

// Blake2bHasher digests with BLAKE2b-256 and keeps the leading HashSize bytes
type Blake2bHasher struct{}

func (Blake2bHasher) Hash(data []byte) Hash {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return NewHash(tmpHash.Sum(nil))
}

// Blake3Hasher digests with BLAKE3 and keeps the leading HashSize bytes
type Blake3Hasher struct{}

func (Blake3Hasher) Hash(data []byte) Hash {
	sum := blake3.Sum256(data)
	return NewHash(sum[:])
}

// DefaultHasher returns the hasher used when none is configured
func DefaultHasher() Hasher {
	return Blake2bHasher{}
}

// HasherByName looks up a hasher by its configuration name
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", HasherNameBlake2b:
		return Blake2bHasher{}, nil
	case HasherNameBlake3:
		return Blake3Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher: %s", name)
	}
}
