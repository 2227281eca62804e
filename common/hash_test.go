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
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCombineAlgebra(t *testing.T) {
	a := Hash(0x0123456789abcdef)
	b := Hash(0xfedcba9876543210)

	assert.Equal(t, Hash(0), a.Combine(a), "combine must be self-inverse")
	assert.Equal(t, a, a.Combine(0), "zero must be the identity")
	assert.Equal(t, a.Combine(b), b.Combine(a), "combine must be commutative")
	// order is not recorded: A then B equals B then A
	prev := Hash(42)
	assert.Equal(t, prev.Combine(a).Combine(b), prev.Combine(b).Combine(a))
	// an even number of applications cancels
	assert.Equal(t, prev, prev.Combine(a).Combine(a))
}

func TestHashComplement(t *testing.T) {
	h := Hash(0x00000000ffffffff)
	assert.Equal(t, Hash(0xffffffff00000000), h.Complement())
	assert.Equal(t, h, h.Complement().Complement())
	assert.Equal(t, ^Hash(0), Hash(0).Complement())
}

func TestHashBytesRoundTrip(t *testing.T) {
	h := Hash(0x1122334455667788)
	b := h.Bytes()
	require.Len(t, b, HashSize)
	assert.Equal(t, byte(0x88), b[0], "bytes must be little-endian")
	assert.Equal(t, h, NewHash(b))
}

func TestNewHashShortInput(t *testing.T) {
	assert.Equal(t, Hash(0x0201), NewHash([]byte{0x01, 0x02}))
	assert.Equal(t, Hash(0), NewHash(nil))
}

func TestHashStringAndParse(t *testing.T) {
	h := Hash(0xdeadbeef)
	assert.Equal(t, "efbeadde00000000", h.String())
	parsed, err := ParseHash(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = ParseHash("abcd")
	assert.Error(t, err)
	_, err = ParseHash("zz")
	assert.Error(t, err)
}

func TestHashJSON(t *testing.T) {
	h := Hash(0x0102030405060708)
	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"0807060504030201"`, string(data))

	var decoded Hash
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)
}

func TestHashBech32(t *testing.T) {
	h := Hash(0xcafebabe12345678)
	encoded := h.Bech32("state")
	prefix, decoded, err := ParseBech32Hash(encoded)
	require.NoError(t, err)
	assert.Equal(t, "state", prefix)
	assert.Equal(t, h, decoded)
}

func TestErrorsMatchSentinels(t *testing.T) {
	var err error = BlockNotFoundError{BlockNum: 7}
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, errors.Is(err, ErrInvalidProof))
	assert.Contains(t, err.Error(), "block 7")

	err = UnsupportedVariantError{Kind: "memory", Operation: "VerifyOperationProof"}
	assert.True(t, errors.Is(err, ErrInvalidProof))
	assert.Contains(t, err.Error(), "memory")

	err = MalformedProofError{Reason: "missing data"}
	assert.True(t, errors.Is(err, ErrInvalidProof))
}

func TestMonotonicClock(t *testing.T) {
	c := NewMonotonicClock()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for range 1000 {
				now := c.Now()
				if now < last {
					t.Errorf("clock went backwards: %d < %d", now, last)
					return
				}
				last = now
			}
		}()
	}
	wg.Wait()
}

func TestClockFunc(t *testing.T) {
	c := ClockFunc(func() uint64 { return 99 })
	assert.Equal(t, uint64(99), c.Now())
}
