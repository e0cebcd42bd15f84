// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"sync"
	"time"
)

// EveryN rate limits spammy log entries. It tracks when an entry was last
// logged so that callers can skip entries in between.
//
// The zero value is usable and is equivalent to Every(0), meaning that all
// calls to ShouldLog return true.
type EveryN struct {
	// N is the minimum duration between entries.
	N time.Duration

	mu            sync.Mutex
	lastProcessed time.Time
}

// Every is a convenience constructor for an EveryN that allows an entry
// every n duration.
func Every(n time.Duration) *EveryN {
	return &EveryN{N: n}
}

// ShouldLog returns whether it's been more than N since the last entry, or
// true when the verbosity is at least 2.
func (e *EveryN) ShouldLog() bool {
	return V(2) || e.shouldProcess(time.Now())
}

func (e *EveryN) shouldProcess(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if now.Sub(e.lastProcessed) >= e.N {
		e.lastProcessed = now
		return true
	}
	return false
}
