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
	"log/slog"

	"github.com/blinklabs-io/opproof/common"
	"github.com/blinklabs-io/opproof/signature"
)

// Config holds configuration for a Superblock
type Config struct {
	// Logger receives verification diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Hasher is the hash primitive. Defaults to common.DefaultHasher().
	Hasher common.Hasher
	// Clock stamps block proofs. Defaults to a monotonic clock.
	Clock common.Clock
	// SignatureVerifier checks proof signatures. When nil every signature
	// is rejected.
	SignatureVerifier signature.Verifier
	// BlockCache holds block content. When nil, a cache is created: an LRU
	// cache if BlockCacheSize > 0, otherwise an unbounded one.
	BlockCache BlockCache
	// BlockCacheSize bounds the created cache
	BlockCacheSize int
	// InitialState is the chain head the superblock starts from
	InitialState common.Hash
}

// DefaultConfig returns a Config with an unbounded cache and a zero chain head
func DefaultConfig() Config {
	return Config{
		Hasher: common.DefaultHasher(),
	}
}

// Option is a functional option for configuring a Superblock
type Option func(*Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithHasher(hasher common.Hasher) Option {
	return func(c *Config) {
		c.Hasher = hasher
	}
}

func WithClock(clock common.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

func WithSignatureVerifier(verifier signature.Verifier) Option {
	return func(c *Config) {
		c.SignatureVerifier = verifier
	}
}

func WithBlockCache(cache BlockCache) Option {
	return func(c *Config) {
		c.BlockCache = cache
	}
}

func WithBlockCacheSize(size int) Option {
	return func(c *Config) {
		c.BlockCacheSize = size
	}
}

func WithInitialState(state common.Hash) Option {
	return func(c *Config) {
		c.InitialState = state
	}
}
