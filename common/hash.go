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
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// HashSize is the width of a Hash in bytes
const HashSize = 8

// Hash is a fixed-width chain digest.
//
// Hashes are folded into chain state with Combine, which is bitwise XOR. XOR is
// commutative and self-inverse, so a chain head only commits to the set parity
// of the operations folded into it, not to their order: applying A then B
// yields the same head as B then A, and applying the same operation twice
// cancels it out.
type Hash uint64

// NewHash builds a Hash from its little-endian byte form. Shorter input is
// zero-padded, longer input is truncated.
func NewHash(data []byte) Hash {
	var buf [HashSize]byte
	copy(buf[:], data)
	return Hash(binary.LittleEndian.Uint64(buf[:]))
}

// Combine folds other into h
func (h Hash) Combine(other Hash) Hash {
	return h ^ other
}

// Complement returns the bitwise complement of h
func (h Hash) Complement() Hash {
	return ^h
}

func (h Hash) IsZero() bool {
	return h == 0
}

// Bytes returns the little-endian byte form of the hash
func (h Hash) Bytes() []byte {
	ret := make([]byte, HashSize)
	binary.LittleEndian.PutUint64(ret, uint64(h))
	return ret
}

func (h Hash) String() string {
	return hex.EncodeToString(h.Bytes())
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	parsed, err := ParseHash(tmp)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses the hex form produced by String
func ParseHash(s string) (Hash, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return 0, fmt.Errorf(
			"invalid hash length: expected %d bytes, got %d",
			HashSize,
			len(decoded),
		)
	}
	return NewHash(decoded), nil
}

func (h Hash) Bech32(prefix string) string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(h.Bytes(), 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

// ParseBech32Hash decodes a hash produced by Bech32 and returns it along with
// its human-readable prefix
func ParseBech32Hash(s string) (string, Hash, error) {
	prefix, data, err := bech32.Decode(s)
	if err != nil {
		return "", 0, err
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", 0, err
	}
	if len(decoded) != HashSize {
		return "", 0, errors.New("bech32 payload is not a hash")
	}
	return prefix, NewHash(decoded), nil
}
