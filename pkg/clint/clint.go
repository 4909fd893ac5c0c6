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

// Package clint drives the core-local interruptor of the qemu virt
// machine.
//
// The CLINT delivers timer interrupts only to machine mode, one
// privilege level below the rest of the kernel. Each hart therefore
// keeps a small machine-mode trampoline armed in mtvec: on every timer
// interrupt it advances mtimecmp by one interval and converts the
// event into a supervisor software interrupt, which the ordinary trap
// path then handles. The trampoline runs with paging off and without a
// stack; everything it needs lives in a per-hart TimerScratch area
// pointed to by mscratch.
package clint

import (
	"fmt"
	"io"
	"reflect"

	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/mmio"
)

const (
	// TimebaseHz is the timebase frequency of the qemu virt machine.
	TimebaseHz = 10000000

	// Interval is the tick spacing in timebase cycles, a tenth of a
	// second.
	Interval = TimebaseHz / 10
)

// TimerScratch is the per-hart scratch area the timer trampoline works
// out of. While a hart runs below machine mode, its mscratch register
// points here.
//
// The trampoline addresses fields by offset; Emit keeps the assembly
// constants in step.
type TimerScratch struct {
	// Save holds the three registers the trampoline borrows.
	Save [3]uint64

	// MTimeCmpAddr is the physical address of this hart's mtimecmp
	// register.
	MTimeCmpAddr uint64

	// Interval is the tick spacing in timebase cycles.
	Interval uint64
}

// scratches holds every hart's TimerScratch. The array sits in kernel
// bss, giving each entry a stable physical address for mscratch.
var scratches [memlayout.MaxHarts]TimerScratch

// Scratch returns hart's TimerScratch.
//
//go:nosplit
func Scratch(hart int) *TimerScratch {
	return &scratches[hart]
}

// Rearm advances mtimecmp by one interval, through the address
// captured in the scratch area. It performs the same loads and stores
// as the trampoline.
//
//go:nosplit
func (ts *TimerScratch) Rearm() {
	addr := uintptr(ts.MTimeCmpAddr)
	mmio.Write64(addr, mmio.Read64(addr)+ts.Interval)
}

// Device provides register access to a CLINT. Tests point base at
// ordinary memory.
type Device struct {
	base uintptr
}

// NewDevice returns a Device for the CLINT at base.
func NewDevice(base uintptr) *Device {
	return &Device{base: base}
}

// Default returns the CLINT of the qemu virt machine.
func Default() *Device {
	return NewDevice(uintptr(memlayout.CLINTBase))
}

func mtimeOff() uintptr {
	return uintptr(memlayout.CLINTMTime() - memlayout.CLINTBase)
}

func mtimecmpOff(hart int) uintptr {
	return uintptr(memlayout.CLINTMTimeCmp(uint64(hart)) - memlayout.CLINTBase)
}

// MTime returns the free-running timebase counter.
//
//go:nosplit
func (d *Device) MTime() uint64 {
	return mmio.Read64(d.base + mtimeOff())
}

// MTimeCmp returns hart's timer compare register.
func (d *Device) MTimeCmp(hart int) uint64 {
	return mmio.Read64(d.base + mtimecmpOff(hart))
}

// SetMTimeCmp programs hart's timer compare register.
func (d *Device) SetMTimeCmp(hart int, v uint64) {
	mmio.Write64(d.base+mtimecmpOff(hart), v)
}

// Emit prints the scratch layout constants used by the trampoline.
func Emit(w io.Writer) {
	fmt.Fprintf(w, "// Automatically generated, do not edit.\n")

	ts := &TimerScratch{}
	fmt.Fprintf(w, "\n// TimerScratch offsets.\n")
	fmt.Fprintf(w, "#define TIMER_SCRATCH_SAVE     0x%02x\n", reflect.ValueOf(&ts.Save).Pointer()-reflect.ValueOf(ts).Pointer())
	fmt.Fprintf(w, "#define TIMER_SCRATCH_MTIMECMP 0x%02x\n", reflect.ValueOf(&ts.MTimeCmpAddr).Pointer()-reflect.ValueOf(ts).Pointer())
	fmt.Fprintf(w, "#define TIMER_SCRATCH_INTERVAL 0x%02x\n", reflect.ValueOf(&ts.Interval).Pointer()-reflect.ValueOf(ts).Pointer())
	fmt.Fprintf(w, "#define TIMER_SCRATCH_SIZE     0x%02x\n", reflect.TypeOf(*ts).Size())
}
