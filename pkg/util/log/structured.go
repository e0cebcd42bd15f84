// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// makeMessage renders the context tags followed by the message.
func makeMessage(ctx context.Context, format string, args []interface{}) redact.RedactableString {
	var b redact.StringBuilder
	formatTags(ctx, &b)
	b.Printf(format, args...)
	return b.RedactableString()
}

// formatTags writes the logtags of ctx in brackets, e.g. "[scan=3,idx] ".
func formatTags(ctx context.Context, b *redact.StringBuilder) {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return
	}
	b.SafeRune('[')
	for i, t := range tags.Get() {
		if i > 0 {
			b.SafeRune(',')
		}
		b.SafeString(redact.SafeString(t.Key()))
		if v := t.Value(); v != nil {
			if len(t.Key()) > 1 {
				b.SafeRune('=')
			}
			b.Print(v)
		}
	}
	b.SafeString("] ")
}

// addStructured creates a structured log entry and writes it to the main
// logger.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	file, line := caller(depth + 1)
	mainLog.outputLogEntry(entry{
		sev:     sev,
		time:    time.Now(),
		file:    file,
		line:    line,
		message: makeMessage(ctx, format, args),
	})
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityInfo, 1, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityWarning, 1, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityError, 1, format, args)
}

// VEventf logs an INFO entry if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, SeverityInfo, 1, format, args)
	}
}
