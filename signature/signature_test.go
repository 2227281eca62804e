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

package signature_test

import (
	"bytes"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/opproof/internal/test"
	"github.com/blinklabs-io/opproof/signature"
)

func TestEd25519SignVerify(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("ed25519"))
	require.NoError(t, err)
	verifier, err := signer.Verifier()
	require.NoError(t, err)

	msg := []byte("canonical proof bytes")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, signature.SignatureSize)

	assert.True(t, verifier.Verify(msg, sig))
	assert.False(t, verifier.Verify([]byte("other bytes"), sig))

	tampered := bytes.Clone(sig)
	tampered[0] ^= 0x01
	assert.False(t, verifier.Verify(msg, tampered))
	assert.False(t, verifier.Verify(msg, sig[:signature.SignatureSize-1]))
	assert.False(t, verifier.Verify(msg, nil))
}

func TestEd25519WrongKey(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("alice"))
	require.NoError(t, err)
	other, err := signature.NewEd25519Signer(test.FixedSeed("bob"))
	require.NoError(t, err)
	otherVerifier, err := other.Verifier()
	require.NoError(t, err)

	msg := []byte("abcd")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)
	assert.False(t, otherVerifier.Verify(msg, sig))
}

func TestEd25519SeedRoundTrip(t *testing.T) {
	seed := test.FixedSeed("seed")
	signer, err := signature.NewEd25519Signer(seed)
	require.NoError(t, err)
	assert.Equal(t, seed, signer.Seed())

	_, err = signature.NewEd25519Signer(seed[:16])
	assert.Error(t, err)
}

func TestGenerateEd25519Signer(t *testing.T) {
	signer, err := signature.GenerateEd25519Signer(bytes.NewReader(test.FixedSeed("gen")))
	require.NoError(t, err)
	assert.Equal(t, test.FixedSeed("gen"), signer.Seed())

	_, err = signature.GenerateEd25519Signer(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)

	random, err := signature.GenerateEd25519Signer(nil)
	require.NoError(t, err)
	assert.Len(t, random.PublicKey(), signature.PublicKeySize)
}

func TestNewEd25519VerifierRejectsBadKeys(t *testing.T) {
	testDefs := []struct {
		name   string
		keyHex string
	}{
		{
			name:   "short",
			keyHex: "0102",
		},
		{
			// the identity point has order 1
			name:   "identity",
			keyHex: "0100000000000000000000000000000000000000000000000000000000000000",
		},
		{
			// a point of order 4
			name:   "small order",
			keyHex: "0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			// y = p reduces to y = 0, a point of order 4
			name:   "non-canonical small order",
			keyHex: "edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			key, err := hex.DecodeString(testDef.keyHex)
			require.NoError(t, err)
			_, err = signature.NewEd25519Verifier(key)
			assert.Error(t, err)
		})
	}
}

func TestEd25519VerifierCopiesKey(t *testing.T) {
	signer, err := signature.NewEd25519Signer(test.FixedSeed("copy"))
	require.NoError(t, err)
	pub := signer.PublicKey()
	verifier, err := signature.NewEd25519Verifier(pub)
	require.NoError(t, err)
	pub[0] ^= 0xff
	assert.NotEqual(t, pub, verifier.PublicKey())
	assert.Equal(t, signer.PublicKey(), verifier.PublicKey())
}

func TestDecodeHexKey(t *testing.T) {
	key, err := signature.DecodeHexKey("  0a0b\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x0b}, key)

	_, err = signature.DecodeHexKey("xyz")
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	svc := signature.NewService(nil)
	assert.False(t, svc.Verify([]byte("m"), []byte("s")), "no verifier rejects")

	svc.SetVerifier(signature.VerifierFunc(func(message, sig []byte) bool {
		return bytes.Equal(message, sig)
	}))
	assert.True(t, svc.Verify([]byte("m"), []byte("m")))
	assert.False(t, svc.Verify([]byte("m"), []byte("s")))

	svc.SetVerifier(signature.RejectAll)
	assert.False(t, svc.Verify([]byte("m"), []byte("m")))
}

func TestServiceConcurrentSwap(t *testing.T) {
	stub := &test.StubVerifier{Accept: true}
	svc := signature.NewService(stub)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					svc.SetVerifier(stub)
				}
				svc.Verify([]byte("m"), []byte("s"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(800), stub.Calls())
}
