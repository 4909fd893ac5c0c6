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
	"sync"
)

// Writer writes the output to the given writer, serializing lines from
// concurrent harts and counting messages lost to a wedged console.
type Writer struct {
	// Next is where output is written.
	Next io.Writer

	// mu protects fields below.
	mu sync.Mutex

	// dropped is the count of dropped log messages.
	dropped int
}

// Write writes out the given bytes.
func (l *Writer) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dropped > 0 {
		// Attempt to write a note indicating the dropped messages.
		if _, err := fmt.Fprintf(l.Next, "\n*** Dropped %d log messages ***\n", l.dropped); err != nil {
			// Unable to write the note; drop this message too.
			l.dropped++
			return 0, err
		}
		l.dropped = 0
	}

	n, err := l.Next.Write(data)
	if err != nil {
		// Count this as a dropped message.
		l.dropped++
	}
	return n, err
}

// Emit implements Emitter.Emit. It writes the message raw, with no
// timestamp or level decoration.
func (l *Writer) Emit(_ Level, _ uint64, format string, v ...any) {
	fmt.Fprintf(l, format+"\n", v...)
}
