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

package pipeline

import (
	"log/slog"
	"runtime"
)

// DefaultMaxPending limits out-of-order proofs buffered in the commit stage
const DefaultMaxPending = 4096

// PipelineConfig holds pipeline configuration
type PipelineConfig struct {
	// Logger receives pipeline lifecycle messages. Defaults to slog.Default().
	Logger *slog.Logger
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// VerifyWorkers is the number of parallel verify workers. Zero disables
	// the verify stage; committed items are then verified by the committer.
	VerifyWorkers int
	// BufferSize is the buffer size for inter-stage channels.
	BufferSize int
	// MaxPending limits out-of-order proofs buffered in the commit stage.
	MaxPending int
	// Verifier checks proofs in the verify stage.
	Verifier Verifier
	// CommitFunc is called for eligible items in submission order. When nil
	// nothing is committed.
	CommitFunc CommitFunc
	// Metrics receives pipeline counters. When nil a private instance is used.
	Metrics *PipelineMetrics
}

// DefaultPipelineConfig returns a PipelineConfig with sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	numCPU := runtime.NumCPU()

	// Decoding is cheap next to signature checks
	decodeWorkers := max(numCPU/4, 2)

	return PipelineConfig{
		DecodeWorkers: decodeWorkers,
		VerifyWorkers: numCPU,
		BufferSize:    256,
		MaxPending:    DefaultMaxPending,
	}
}

// PipelineOption is a function that modifies PipelineConfig
type PipelineOption func(*PipelineConfig)

// WithConfig replaces the entire configuration
func WithConfig(config PipelineConfig) PipelineOption {
	return func(c *PipelineConfig) {
		*c = config
	}
}

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(c *PipelineConfig) {
		c.Logger = logger
	}
}

// WithWorkers sets both the decode and verify worker counts
func WithWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.DecodeWorkers = n
			c.VerifyWorkers = n
		}
	}
}

func WithDecodeWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

// WithVerifyWorkers sets the verify worker count; 0 disables verification
func WithVerifyWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n >= 0 {
			c.VerifyWorkers = n
		}
	}
}

func WithBufferSize(size int) PipelineOption {
	return func(c *PipelineConfig) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

func WithMaxPending(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.MaxPending = n
		}
	}
}

func WithVerifier(verifier Verifier) PipelineOption {
	return func(c *PipelineConfig) {
		c.Verifier = verifier
	}
}

func WithCommitFunc(fn CommitFunc) PipelineOption {
	return func(c *PipelineConfig) {
		if fn != nil {
			c.CommitFunc = fn
		}
	}
}

// WithCommitter commits eligible items to c in submission order
func WithCommitter(c Committer) PipelineOption {
	if c == nil {
		return func(*PipelineConfig) {}
	}
	return WithCommitFunc(CommitTo(c))
}

// WithMetrics shares a metrics instance across pipelines
func WithMetrics(metrics *PipelineMetrics) PipelineOption {
	return func(c *PipelineConfig) {
		c.Metrics = metrics
	}
}
