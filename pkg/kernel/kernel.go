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

// Package kernel is the dispatch layer above ring0: it boots each
// hart into supervisor mode, owns the per-hart state, and turns raw
// traps into decisions.
//
// The split with ring0 is mechanical versus semantic. ring0 parks and
// restores register state; this package decides what a trap means. It
// installs itself as the ring0 hooks at boot and from then on every
// trap funnels through KernelTrap or UserTrap on this side.
//
// Trap context is austere: the goroutine register may hold a user
// value, so nothing on the dispatch path may allocate, lock, or write
// a Go pointer. The path therefore only bumps scalar counters and
// records events into per-hart rings; a consumer goroutine turns the
// rings into log lines afterwards.
package kernel

import (
	"sync/atomic"

	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/ring0"
	"rvisor.dev/rvisor/pkg/riscv"
)

// Hart is the kernel's per-hart block. One per possible hart, laid
// out in a fixed array so the trap path reaches its own block with
// arithmetic alone.
type Hart struct {
	// id is the mhartid value, recorded at boot.
	id uint64

	// tf and usatp name the user context the hart is running, nil
	// and zero when it has none. Written by Resume before the
	// switch; the trap path only reads them.
	tf    *ring0.TrapFrame
	usatp riscv.Satp

	// Counters, updated from trap context. Scalar atomics only.
	ticks    atomic.Uint64
	traps    atomic.Uint64
	syscalls atomic.Uint64

	// ring carries this hart's trap events to the consumer.
	ring eventRing
}

var harts [memlayout.MaxHarts]Hart

// HartByID returns the block for a hart id. The id must be below
// memlayout.MaxHarts.
func HartByID(id uint64) *Hart {
	return &harts[id]
}

// ID returns the hart's mhartid value.
func (h *Hart) ID() uint64 {
	return h.id
}

// Ticks returns the number of timer ticks the hart has taken.
func (h *Hart) Ticks() uint64 {
	return h.ticks.Load()
}

// Traps returns the number of traps the hart has dispatched.
func (h *Hart) Traps() uint64 {
	return h.traps.Load()
}

// Syscalls returns the number of environment calls the hart has
// decoded.
func (h *Hart) Syscalls() uint64 {
	return h.syscalls.Load()
}

// tick records one forwarded timer tick.
//
//go:nosplit
func (h *Hart) tick(epc uint64) {
	h.ticks.Add(1)
	h.ring.push(Event{Hart: h.id, Cause: riscv.IntSupervisorSoftware, EPC: epc})
}
