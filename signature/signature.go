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

// Package signature provides the signature capability operation proofs are
// checked against. Verification is a boolean decision the caller trusts
// unconditionally; key management lives with whoever constructs the
// Verifier.
package signature

// Verifier decides whether sig is a valid signature over message
type Verifier interface {
	Verify(message, sig []byte) bool
}

// VerifierFunc is an adapter that allows using ordinary functions as a Verifier
type VerifierFunc func(message, sig []byte) bool

func (f VerifierFunc) Verify(message, sig []byte) bool {
	return f(message, sig)
}

// Signer signs canonical proof encodings
type Signer interface {
	Sign(message []byte) ([]byte, error)
}

// RejectAll is a Verifier that accepts nothing. It stands in when no key has
// been configured.
var RejectAll Verifier = VerifierFunc(func([]byte, []byte) bool { return false })
