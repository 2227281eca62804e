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

package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/edwards25519"
)

const (
	// PublicKeySize is the size of an Ed25519 public key
	PublicKeySize = ed25519.PublicKeySize
	// SeedSize is the size of an Ed25519 private key seed
	SeedSize = ed25519.SeedSize
	// SignatureSize is the size of an Ed25519 signature
	SignatureSize = ed25519.SignatureSize
)

// Ed25519Verifier verifies signatures against a single Ed25519 public key
type Ed25519Verifier struct {
	publicKey ed25519.PublicKey
}

// NewEd25519Verifier validates publicKey and returns a verifier for it. Keys
// that do not decode to a curve point, or that lie in the small-order
// subgroup, are rejected: signatures under them prove nothing.
func NewEd25519Verifier(publicKey []byte) (*Ed25519Verifier, error) {
	if len(publicKey) != PublicKeySize {
		return nil, fmt.Errorf("invalid public key size: %d", len(publicKey))
	}
	point, err := new(edwards25519.Point).SetBytes(publicKey)
	if err != nil {
		return nil, fmt.Errorf("public key is not a valid curve point: %w", err)
	}
	// [8]A is the identity iff A has small order
	if new(edwards25519.Point).MultByCofactor(point).Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, errors.New("public key has small order")
	}
	pk := make(ed25519.PublicKey, PublicKeySize)
	copy(pk, publicKey)
	return &Ed25519Verifier{publicKey: pk}, nil
}

func (v *Ed25519Verifier) Verify(message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(v.publicKey, message, sig)
}

// PublicKey returns a copy of the verification key
func (v *Ed25519Verifier) PublicKey() []byte {
	ret := make([]byte, PublicKeySize)
	copy(ret, v.publicKey)
	return ret
}

// Ed25519Signer signs with an Ed25519 private key
type Ed25519Signer struct {
	privateKey ed25519.PrivateKey
}

// NewEd25519Signer derives a signer from a 32-byte seed
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &Ed25519Signer{privateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateEd25519Signer creates a signer from fresh randomness. A nil reader
// uses crypto/rand.
func GenerateEd25519Signer(r io.Reader) (*Ed25519Signer, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return NewEd25519Signer(seed)
}

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.privateKey, message), nil
}

// Seed returns a copy of the private key seed
func (s *Ed25519Signer) Seed() []byte {
	return s.privateKey.Seed()
}

// PublicKey returns the matching verification key
func (s *Ed25519Signer) PublicKey() []byte {
	pub, _ := s.privateKey.Public().(ed25519.PublicKey)
	ret := make([]byte, PublicKeySize)
	copy(ret, pub)
	return ret
}

// Verifier returns a verifier for the signer's public key
func (s *Ed25519Signer) Verifier() (*Ed25519Verifier, error) {
	return NewEd25519Verifier(s.PublicKey())
}

// DecodeHexKey decodes a hex key, tolerating surrounding whitespace
func DecodeHexKey(hexData string) ([]byte, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(hexData))
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	return decoded, nil
}
