// Copyright 2024 The rVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package klog implements a kernel logging system.
//
// There is no wall clock inside the kernel, so messages are stamped
// with timer ticks instead of a time.Time: the free-running machine
// timebase once the console is up, a process-relative monotonic clock
// when the package is used from host-side tools and tests. Everything
// else follows the usual shape: a leveled front end, an Emitter that
// formats, and an io.Writer that carries the bytes to the console.
//
// The default target drops everything. Boot installs a console emitter
// as soon as the UART answers; tests install their own.
package klog

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Level is the log level.
type Level int32

// The set of levels, from terse to chatty. A logger at level L passes
// every message at or below L.
const (
	// Warning indicates a problem that the kernel can survive.
	Warning Level = iota

	// Info is standard boot and state-change chatter.
	Info

	// Debug is high-volume diagnostics, off by default.
	Debug
)

// String implements fmt.Stringer.String.
func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("invalid(%d)", l)
	}
}

// Emitter is the final destination for messages. The ticks argument is
// the timebase reading captured when the message was logged.
type Emitter interface {
	Emit(level Level, ticks uint64, format string, v ...any)
}

// DiscardEmitter throws messages away. It is the target until boot or
// a test installs a real one.
type DiscardEmitter struct{}

// Emit implements Emitter.Emit.
func (DiscardEmitter) Emit(Level, uint64, string, ...any) {}

// Logger is a high-level logging interface.
type Logger interface {
	// Debugf logs a debug statement.
	Debugf(format string, v ...any)

	// Infof logs at an info level.
	Infof(format string, v ...any)

	// Warningf logs at a warning level.
	Warningf(format string, v ...any)

	// IsLogging returns true iff this level is being logged. This may be
	// used to short-circuit expensive operations for debugging calls.
	IsLogging(level Level) bool
}

// BasicLogger is the standard implementation of Logger.
type BasicLogger struct {
	Level
	Emitter
}

// Debugf implements Logger.Debugf.
func (l *BasicLogger) Debugf(format string, v ...any) {
	if l.IsLogging(Debug) {
		l.Emit(Debug, Ticks(), format, v...)
	}
}

// Infof implements Logger.Infof.
func (l *BasicLogger) Infof(format string, v ...any) {
	if l.IsLogging(Info) {
		l.Emit(Info, Ticks(), format, v...)
	}
}

// Warningf implements Logger.Warningf.
func (l *BasicLogger) Warningf(format string, v ...any) {
	if l.IsLogging(Warning) {
		l.Emit(Warning, Ticks(), format, v...)
	}
}

// IsLogging implements Logger.IsLogging.
func (l *BasicLogger) IsLogging(level Level) bool {
	return level <= l.Level
}

// log is the default logger.
var log atomic.Pointer[BasicLogger]

// Log retrieves the global logger.
func Log() *BasicLogger {
	return log.Load()
}

// SetTarget sets the log target.
//
// This is not thread safe and shouldn't be changed while in use.
func SetTarget(target Emitter) {
	log.Store(&BasicLogger{Level: Log().Level, Emitter: target})
}

// SetLevel sets the log level.
func SetLevel(newLevel Level) {
	log.Store(&BasicLogger{Level: newLevel, Emitter: Log().Emitter})
}

// Debugf logs to the global logger.
func Debugf(format string, v ...any) {
	Log().Debugf(format, v...)
}

// Infof logs to the global logger.
func Infof(format string, v ...any) {
	Log().Infof(format, v...)
}

// Warningf logs to the global logger.
func Warningf(format string, v ...any) {
	Log().Warningf(format, v...)
}

// IsLogging returns whether the global logger is logging.
func IsLogging(level Level) bool {
	return Log().IsLogging(level)
}

// Fatalf logs a final message and stops the hart: a panic on hosts, a
// console line followed by an interrupts-off halt loop on riscv64.
// Kernel code calls this only for states it cannot continue from.
func Fatalf(format string, v ...any) {
	Log().Emit(Warning, Ticks(), format, v...)
	die(fmt.Sprintf(format, v...))
}

// tickSource produces the current timebase reading. The boot path
// repoints it at the hardware timer before interrupts are enabled;
// until then (and on hosts) it counts from process start at the same
// nominal rate.
var tickSource atomic.Pointer[func() uint64]

var processStart = time.Now()

func init() {
	f := func() uint64 {
		// 100ns per tick, matching the qemu virt timebase.
		return uint64(time.Since(processStart) / 100)
	}
	tickSource.Store(&f)
	log.Store(&BasicLogger{Level: Info, Emitter: DiscardEmitter{}})
}

// Ticks returns the current timebase reading.
func Ticks() uint64 {
	return (*tickSource.Load())()
}

// SetTickSource installs the timebase used to stamp messages. Called
// once during boot, before secondary harts are released.
func SetTickSource(f func() uint64) {
	tickSource.Store(&f)
}
