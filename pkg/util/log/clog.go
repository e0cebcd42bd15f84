// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log is a small leveled logger in the style of the CockroachDB
// logging package. Entries carry the logtags of their context and are
// rendered through redact, so that values passed as arguments can be
// stripped from the output while safe values (strategies, flags, counts)
// remain readable.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/redact"
)

// Severity is the severity of a log entry.
type Severity int32

const (
	// SeverityInfo is for informational entries.
	SeverityInfo Severity = iota + 1
	// SeverityWarning is for unexpected but handled conditions.
	SeverityWarning
	// SeverityError is for errors.
	SeverityError
)

// String implements the fmt.Stringer interface.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int32(s))
}

// SafeValue implements the redact.SafeValue interface.
func (Severity) SafeValue() {}

func (s Severity) char() byte {
	if str := s.String(); len(str) > 0 && s >= SeverityInfo && s <= SeverityError {
		return str[0]
	}
	return '?'
}

// SeverityByName returns the severity with the given name.
func SeverityByName(name string) (Severity, bool) {
	for s := SeverityInfo; s <= SeverityError; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// loggerT is the process-wide logger.
type loggerT struct {
	verbosity  atomic.Int32
	threshold  atomic.Int32
	redactable atomic.Bool

	mu struct {
		sync.Mutex
		out io.Writer
	}
}

var mainLog = func() *loggerT {
	l := &loggerT{}
	l.mu.out = os.Stderr
	return l
}()

// SetOutput directs log entries to w. The returned function restores the
// previous output.
func SetOutput(w io.Writer) (restore func()) {
	mainLog.mu.Lock()
	defer mainLog.mu.Unlock()
	prev := mainLog.mu.out
	mainLog.mu.out = w
	return func() {
		mainLog.mu.Lock()
		defer mainLog.mu.Unlock()
		mainLog.mu.out = prev
	}
}

// SetVerbosity sets the level below which VEventf entries are emitted and
// returns the previous level.
func SetVerbosity(level int32) int32 {
	return mainLog.verbosity.Swap(level)
}

// SetThreshold drops entries less severe than s and returns the previous
// threshold.
func SetThreshold(s Severity) Severity {
	return Severity(mainLog.threshold.Swap(int32(s)))
}

// SetRedactable controls whether entries keep redaction markers around
// unsafe values. When off, the markers are stripped and values are printed
// as is.
func SetRedactable(on bool) {
	mainLog.redactable.Store(on)
}

// V returns true if the logging verbosity is at least level.
func V(level int32) bool {
	return mainLog.verbosity.Load() >= level
}

// entry is a formatted log entry.
type entry struct {
	sev     Severity
	time    time.Time
	file    string
	line    int
	message redact.RedactableString
}

func (l *loggerT) outputLogEntry(e entry) {
	if int32(e.sev) < l.threshold.Load() {
		return
	}
	msg := e.message
	if !l.redactable.Load() {
		msg = redact.RedactableString(msg.StripMarkers())
	}
	buf := fmt.Sprintf("%c%s %s:%d  %s\n",
		e.sev.char(), e.time.UTC().Format("060102 15:04:05.000000"), e.file, e.line, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.mu.out, buf)
}

// caller returns the file and line depth frames above its own caller.
func caller(depth int) (string, int) {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "???", 1
	}
	return filepath.Base(file), line
}
