// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEveryN(t *testing.T) {
	testCases := []struct {
		t        time.Duration // time since start
		expected bool
	}{
		{0, true}, // the first attempt to log should always succeed
		{0, false},
		{time.Second, false},
		{time.Minute - 1, false},
		{time.Minute, true},
		{time.Minute, false},
		{time.Minute + 30*time.Second, false},
		{10 * time.Minute, true},
		{10 * time.Minute, false},
		{10*time.Minute + 59*time.Second, false},
		{11 * time.Minute, true},
	}
	start := time.Now()
	en := Every(time.Minute)
	for _, tc := range testCases {
		require.Equal(t, tc.expected, en.shouldProcess(start.Add(tc.t)), "%s", tc.t)
	}

	var zero EveryN
	require.True(t, zero.ShouldLog())
	require.True(t, zero.ShouldLog())

	defer SetVerbosity(SetVerbosity(2))
	require.True(t, en.ShouldLog())
}
