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

package superblock

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// BlockCache holds block content keyed by block number. Implementations do
// their own locking: Get holds the lock only while copying the block out, so
// callers can hash the returned bytes without any lock held.
type BlockCache interface {
	// Get returns a private copy of the block content
	Get(blockNum uint64) ([]byte, bool)
	// Put stores a copy of data
	Put(blockNum uint64, data []byte)
	Remove(blockNum uint64) bool
	Len() int
}

// MapBlockCache is an unbounded BlockCache
type MapBlockCache struct {
	mu     sync.Mutex
	blocks map[uint64][]byte
}

func NewMapBlockCache() *MapBlockCache {
	return &MapBlockCache{
		blocks: make(map[uint64][]byte),
	}
}

func (c *MapBlockCache) Get(blockNum uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.blocks[blockNum]
	if !ok {
		return nil, false
	}
	return cloneBlock(data), true
}

func (c *MapBlockCache) Put(blockNum uint64, data []byte) {
	tmp := cloneBlock(data)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks[blockNum] = tmp
}

func (c *MapBlockCache) Remove(blockNum uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.blocks[blockNum]
	delete(c.blocks, blockNum)
	return ok
}

func (c *MapBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

// LRUBlockCache is a BlockCache bounded to a fixed number of blocks. The least
// recently used block is evicted when the cache is full.
type LRUBlockCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[uint64, []byte]
}

func NewLRUBlockCache(size int) (*LRUBlockCache, error) {
	lru, err := simplelru.NewLRU[uint64, []byte](size, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create block cache: %w", err)
	}
	return &LRUBlockCache{lru: lru}, nil
}

func (c *LRUBlockCache) Get(blockNum uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.lru.Get(blockNum)
	if !ok {
		return nil, false
	}
	return cloneBlock(data), true
}

func (c *LRUBlockCache) Put(blockNum uint64, data []byte) {
	tmp := cloneBlock(data)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(blockNum, tmp)
}

func (c *LRUBlockCache) Remove(blockNum uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Remove(blockNum)
}

func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// cloneBlock copies data, mapping an empty block to a non-nil empty slice
func cloneBlock(data []byte) []byte {
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret
}
