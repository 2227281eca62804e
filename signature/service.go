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
	"sync"
)

// Service is the single verifier instance shared by every proof check in a
// process. It is passed explicitly to the components that need it rather
// than living in a package variable. Calls are serialized so a verifier can
// be re-keyed while checks are in flight.
type Service struct {
	mu       sync.Mutex
	verifier Verifier
}

// NewService wraps verifier. A nil verifier rejects every signature until
// SetVerifier is called.
func NewService(verifier Verifier) *Service {
	return &Service{verifier: verifier}
}

// SetVerifier replaces the underlying verifier
func (s *Service) SetVerifier(verifier Verifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = verifier
}

// Verify delegates to the configured verifier
func (s *Service) Verify(message, sig []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verifier == nil {
		return false
	}
	return s.verifier.Verify(message, sig)
}
