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

package klog

import (
	"fmt"
	"io"
	"strconv"
)

// DefaultTimebaseHz is the tick rate assumed when an emitter is not
// told otherwise. It matches the 10MHz timebase of the qemu virt
// machine.
const DefaultTimebaseHz = 10000000

// buffer is a simple inline buffer to avoid churn. The data slice is
// generally kept to the local byte array, and we avoid having to
// allocate it for trivial cases.
type buffer struct {
	local [256]byte
	data  []byte
}

func (b *buffer) start() {
	b.data = b.local[:0]
}

func (b *buffer) write(c byte) {
	b.data = append(b.data, c)
}

// Note: this does not fail when it runs out of space.
func (b *buffer) writeOneDigit(d byte) {
	b.write('0' + d)
}

// Note: this does not fail when it runs out of space.
func (b *buffer) writeSixDigits(v int) {
	v = v % 1000000
	b.writeOneDigit(byte(v / 100000))
	b.writeOneDigit(byte((v % 100000) / 10000))
	b.writeOneDigit(byte((v % 10000) / 1000))
	b.writeOneDigit(byte((v % 1000) / 100))
	b.writeOneDigit(byte((v % 100) / 10))
	b.writeOneDigit(byte(v % 10))
}

// writeSeconds writes v right-aligned to five columns. Values that
// need more than five digits take what they need.
func (b *buffer) writeSeconds(v uint64) {
	for threshold := uint64(10000); threshold > 0 && v < threshold; threshold /= 10 {
		b.write(' ')
	}
	b.data = strconv.AppendUint(b.data, v, 10)
}

// ConsoleEmitter formats messages for the serial console.
//
// Log lines have this form:
//
//	[sssss.uuuuuu] L msg...
//
// where the timestamp is the timebase reading converted at Hz, in the
// manner of dmesg, and L is the level letter.
type ConsoleEmitter struct {
	// Next is where lines are written, typically a *Writer over the
	// UART.
	Next io.Writer

	// Hz is the timebase frequency. Zero means DefaultTimebaseHz.
	Hz uint64
}

// Emit implements Emitter.Emit.
func (e ConsoleEmitter) Emit(level Level, ticks uint64, format string, v ...any) {
	prefix := byte('?')
	switch level {
	case Debug:
		prefix = byte('D')
	case Info:
		prefix = byte('I')
	case Warning:
		prefix = byte('W')
	}

	hz := e.Hz
	if hz == 0 {
		hz = DefaultTimebaseHz
	}
	secs := ticks / hz
	micros := (ticks % hz) * 1000000 / hz

	var b buffer
	b.start()
	b.write('[')
	b.writeSeconds(secs)
	b.write('.')
	b.writeSixDigits(int(micros))
	b.write(']')
	b.write(' ')
	b.write(prefix)
	b.write(' ')
	b.data = fmt.Appendf(b.data, format, v...)
	b.write('\n')

	// Best effort.
	e.Next.Write(b.data)
}
