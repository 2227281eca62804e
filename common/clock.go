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

package common

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic counter source. Values never decrease within a
// single process.
type Clock interface {
	Now() uint64
}

// ClockFunc is an adapter that allows using ordinary functions as a Clock
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 {
	return f()
}

// MonotonicClock counts nanoseconds since it was created
type MonotonicClock struct {
	start time.Time
	last  atomic.Uint64
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

func (c *MonotonicClock) Now() uint64 {
	// time.Since uses the monotonic reading; the CAS loop keeps values
	// non-decreasing across concurrent callers
	elapsed := uint64(time.Since(c.start).Nanoseconds()) // #nosec G115
	for {
		last := c.last.Load()
		if elapsed <= last {
			return last
		}
		if c.last.CompareAndSwap(last, elapsed) {
			return elapsed
		}
	}
}
