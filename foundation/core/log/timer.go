// File: timer.go
// Title: Operation Timer
// Description: Measures an operation and logs its duration when stopped
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.2.0: Initial trimmed version

package log

import "time"

// Timer measures elapsed time for one operation
type Timer struct {
	logger    *Logger
	operation string
	level     Level
	start     time.Time
	fields    Fields
}

// StartTimer starts a timer that logs at debug level on Stop
func (l *Logger) StartTimer(operation string) *Timer {
	return &Timer{
		logger:    l,
		operation: operation,
		level:     LevelDebug,
		start:     time.Now(),
		fields:    Fields{},
	}
}

// WithLevel changes the level used by Stop
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to the completion entry
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop logs the completion entry and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	d := t.Elapsed()
	fields := t.fields.Merge(Fields{"operation": t.operation})
	t.logger.log(t.level, "operation completed", nil, d, []Fields{fields})
	return d
}
