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

// Package common holds the primitives shared by the proof, signature and
// superblock packages: the chain Hash and its combine algebra, the pluggable
// hash primitive, the monotonic clock and the error taxonomy.
//
// Two failure channels are kept apart throughout the module. Structural
// errors (a missing block, an unsupported proof variant) are returned as
// errors wrapping ErrInvalidState or ErrInvalidProof. Verification failures
// (bad signature, hash or state mismatch) are returned as a false result
// with a nil error.
package common
