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

// Package cbor provides the deterministic CBOR encoding used to persist and
// transmit proofs.
//
// This package wraps github.com/fxamacker/cbor/v2. Encoding always uses core
// deterministic ordering so the same record produces the same bytes.
//
// Embeddable types for struct encoding:
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - DecodeStoreCbor: Embed to preserve the original CBOR bytes of a record
//
// A type embedding DecodeStoreCbor decodes itself through UnmarshalCborGeneric,
// which bypasses its own UnmarshalCBOR and then stores the input:
//
//	func (p *MyProof) UnmarshalCBOR(data []byte) error {
//	    return p.UnmarshalCborGeneric(data, p)
//	}
//
// Later, p.Cbor() returns the original bytes.
package cbor
