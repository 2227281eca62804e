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

package test

import (
	"sync"
	"sync/atomic"

	"github.com/blinklabs-io/opproof/common"
)

// LockObservingCache is a block cache that exposes whether its lock is
// currently held, so tests can assert nothing expensive happens under it
type LockObservingCache struct {
	mu     sync.Mutex
	held   atomic.Bool
	gets   atomic.Uint64
	blocks map[uint64][]byte
}

func NewLockObservingCache() *LockObservingCache {
	return &LockObservingCache{blocks: make(map[uint64][]byte)}
}

func (c *LockObservingCache) lock() {
	c.mu.Lock()
	c.held.Store(true)
}

func (c *LockObservingCache) unlock() {
	c.held.Store(false)
	c.mu.Unlock()
}

// Held reports whether the cache lock is held right now
func (c *LockObservingCache) Held() bool {
	return c.held.Load()
}

// Gets returns the number of Get calls served
func (c *LockObservingCache) Gets() uint64 {
	return c.gets.Load()
}

func (c *LockObservingCache) Get(blockNum uint64) ([]byte, bool) {
	c.lock()
	defer c.unlock()
	c.gets.Add(1)
	data, ok := c.blocks[blockNum]
	if !ok {
		return nil, false
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, true
}

func (c *LockObservingCache) Put(blockNum uint64, data []byte) {
	c.lock()
	defer c.unlock()
	tmp := make([]byte, len(data))
	copy(tmp, data)
	c.blocks[blockNum] = tmp
}

func (c *LockObservingCache) Remove(blockNum uint64) bool {
	c.lock()
	defer c.unlock()
	_, ok := c.blocks[blockNum]
	delete(c.blocks, blockNum)
	return ok
}

func (c *LockObservingCache) Len() int {
	c.lock()
	defer c.unlock()
	return len(c.blocks)
}

// GuardedHasher panics if it is invoked while the cache lock is held
type GuardedHasher struct {
	Cache *LockObservingCache
	Inner common.Hasher
	calls atomic.Uint64
}

func (h *GuardedHasher) Hash(data []byte) common.Hash {
	if h.Cache.Held() {
		panic("hash computed while holding the block cache lock")
	}
	h.calls.Add(1)
	inner := h.Inner
	if inner == nil {
		inner = common.DefaultHasher()
	}
	return inner.Hash(data)
}

// Calls returns the number of digests computed
func (h *GuardedHasher) Calls() uint64 {
	return h.calls.Load()
}

// StubVerifier returns a fixed signature decision and counts calls
type StubVerifier struct {
	Accept bool
	calls  atomic.Uint64
}

func (v *StubVerifier) Verify(message, sig []byte) bool {
	v.calls.Add(1)
	return v.Accept
}

// Calls returns the number of signature checks performed
func (v *StubVerifier) Calls() uint64 {
	return v.calls.Load()
}

// StepClock returns 1, 2, 3, ... on successive calls
type StepClock struct {
	now atomic.Uint64
}

func (c *StepClock) Now() uint64 {
	return c.now.Add(1)
}
