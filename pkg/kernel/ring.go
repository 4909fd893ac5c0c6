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

package kernel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"rvisor.dev/rvisor/pkg/klog"
	"rvisor.dev/rvisor/pkg/riscv"
)

// Event is one trap as recorded by the dispatch path. For an
// environment call Tval carries the syscall number; for everything
// else it carries stval.
type Event struct {
	Hart  uint64
	Cause riscv.Cause
	EPC   uint64
	Tval  uint64
}

// ringSize is the per-hart event capacity. Power of two.
const ringSize = 128

// eventRing hands events from one hart's trap path to the consumer
// goroutine. Single producer, single consumer: the producer owns
// head, the consumer owns tail, and each slot is written before head
// publishes it. When the ring is full the newest event is dropped and
// counted, never blocking the producer.
type eventRing struct {
	head    atomic.Uint64
	tail    atomic.Uint64
	dropped atomic.Uint64

	// reported is consumer-owned bookkeeping for drop accounting.
	reported uint64

	slots [ringSize]Event
}

// push records e, reporting whether there was room. Trap context; no
// allocation, no locks, scalar stores only.
//
//go:nosplit
func (r *eventRing) push(e Event) bool {
	head := r.head.Load()
	if head-r.tail.Load() >= ringSize {
		r.dropped.Add(1)
		return false
	}
	r.slots[head%ringSize] = e
	r.head.Store(head + 1)
	return true
}

// pop removes the oldest event. Consumer side only.
func (r *eventRing) pop() (Event, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return Event{}, false
	}
	e := r.slots[tail%ringSize]
	r.tail.Store(tail + 1)
	return e, true
}

// HandlerFunc consumes recorded trap events. Handlers run on the
// consumer goroutine, in ordinary context: locks and allocation are
// fine here.
type HandlerFunc func(Event)

var handlers struct {
	mu sync.Mutex
	m  map[riscv.Cause]HandlerFunc
}

// Handle registers fn as the consumer for cause, displacing the
// built-in logging. A nil fn restores the default.
func Handle(cause riscv.Cause, fn HandlerFunc) {
	handlers.mu.Lock()
	defer handlers.mu.Unlock()
	if handlers.m == nil {
		handlers.m = make(map[riscv.Cause]HandlerFunc)
	}
	if fn == nil {
		delete(handlers.m, cause)
		return
	}
	handlers.m[cause] = fn
}

// unhandledLog keeps a trap flood from drowning the console.
var unhandledLog = klog.BasicRateLimitedLogger(time.Second)

func dispatchEvent(e Event) {
	handlers.mu.Lock()
	fn := handlers.m[e.Cause]
	handlers.mu.Unlock()
	if fn != nil {
		fn(e)
		return
	}

	switch {
	case e.Cause == riscv.IntSupervisorSoftware:
		klog.Debugf("hart %d tick, epc %#x", e.Hart, e.EPC)
	case e.Cause == riscv.IntSupervisorExternal:
		klog.Debugf("hart %d external interrupt, irq %d", e.Hart, e.Tval)
	case e.Cause == riscv.ExcEnvCallFromU:
		klog.Infof("hart %d syscall %v, epc %#x", e.Hart, Syscall(e.Tval), e.EPC)
	default:
		unhandledLog.Warningf("hart %d unhandled %v, epc %#x, tval %#x", e.Hart, e.Cause, e.EPC, e.Tval)
	}
}

// drainOnce sweeps every hart ring, dispatching what it finds, and
// returns the number of events seen.
func drainOnce() int {
	n := 0
	for i := range harts {
		r := &harts[i].ring
		for {
			e, ok := r.pop()
			if !ok {
				break
			}
			dispatchEvent(e)
			n++
		}
		if d := r.dropped.Load(); d != r.reported {
			unhandledLog.Warningf("hart %d dropped %d trap events", harts[i].id, d-r.reported)
			r.reported = d
		}
	}
	return n
}

// serveEvents drains the rings forever. It runs as a goroutine on the
// boot hart once logging is up.
func serveEvents() {
	for {
		if drainOnce() == 0 {
			runtime.Gosched()
		}
	}
}
