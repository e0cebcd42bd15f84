// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestInfofWithTags(t *testing.T) {
	buf := captureOutput(t)
	ctx := logtags.AddTag(context.Background(), "scan", 3)
	ctx = logtags.AddTag(ctx, "i", "t_a_b")
	Infof(ctx, "eliminated %d keys", 2)

	out := buf.String()
	require.Contains(t, out, "[scan=3,it_a_b] eliminated 2 keys")
	require.Equal(t, byte('I'), out[0])
	require.Contains(t, out, "log_test.go:")
}

func TestVEventf(t *testing.T) {
	buf := captureOutput(t)
	defer SetVerbosity(SetVerbosity(0))

	VEventf(context.Background(), 2, "hidden")
	require.Empty(t, buf.String())
	require.False(t, V(2))

	SetVerbosity(2)
	require.True(t, V(2))
	VEventf(context.Background(), 2, "shown")
	require.Contains(t, buf.String(), "shown")
}

func TestRedactable(t *testing.T) {
	buf := captureOutput(t)
	defer SetRedactable(false)

	Warningf(context.Background(), "arg %s strategy %s", "secret", redact.Safe("<"))
	require.Contains(t, buf.String(), "arg secret strategy <")
	require.Equal(t, byte('W'), buf.Bytes()[0])

	buf.Reset()
	SetRedactable(true)
	Errorf(context.Background(), "arg %s", "secret")
	require.Contains(t, buf.String(), "arg ‹secret›")
	require.Equal(t, byte('E'), buf.Bytes()[0])
}

func TestSeverityByName(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		got, ok := SeverityByName(s.String())
		require.True(t, ok)
		require.Equal(t, s, got)
	}
	_, ok := SeverityByName("FATAL")
	require.False(t, ok)
}

func TestThreshold(t *testing.T) {
	buf := captureOutput(t)
	defer SetThreshold(SetThreshold(SeverityWarning))

	ctx := context.Background()
	Infof(ctx, "dropped")
	Warningf(ctx, "kept warning")
	Errorf(ctx, "kept error")
	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "kept warning")
	require.Contains(t, out, "kept error")
}
