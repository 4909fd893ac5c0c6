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

package plic

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"rvisor.dev/rvisor/pkg/memlayout"
)

// fakePLIC lays a Controller over ordinary memory, so tests observe
// raw register traffic rather than interrupt behavior.
type fakePLIC struct {
	mem []byte
}

func newFakePLIC() *fakePLIC {
	return &fakePLIC{mem: make([]byte, memlayout.PLICSize)}
}

func (f *fakePLIC) controller() *Controller {
	return New(uintptr(unsafe.Pointer(&f.mem[0])))
}

func (f *fakePLIC) word(addr uint64) uint32 {
	return binary.LittleEndian.Uint32(f.mem[addr-memlayout.PLICBase:])
}

func (f *fakePLIC) setWord(addr uint64, v uint32) {
	binary.LittleEndian.PutUint32(f.mem[addr-memlayout.PLICBase:], v)
}

func TestInitPriorities(t *testing.T) {
	f := newFakePLIC()
	f.controller().Init()
	for _, irq := range []uint32{memlayout.UART0IRQ, memlayout.VirtIO0IRQ} {
		if got := f.word(memlayout.PLICPriority(irq)); got != 1 {
			t.Errorf("priority for irq %d = %d, wanted 1", irq, got)
		}
	}
	// No stray writes to neighboring sources.
	if got := f.word(memlayout.PLICPriority(2)); got != 0 {
		t.Errorf("priority for irq 2 = %d, wanted 0", got)
	}
}

func TestHartInit(t *testing.T) {
	f := newFakePLIC()
	c := f.controller()
	for hart := 0; hart < memlayout.MaxHarts; hart++ {
		// Plant a sentinel so a zero write is observable.
		f.setWord(memlayout.PLICSPriority(uint64(hart)), 0xffffffff)
		c.HartInit(hart)

		want := uint32(1<<memlayout.UART0IRQ | 1<<memlayout.VirtIO0IRQ)
		if got := f.word(memlayout.PLICSEnable(uint64(hart))); got != want {
			t.Errorf("hart %d enable mask = %#x, wanted %#x", hart, got, want)
		}
		if got := f.word(memlayout.PLICSPriority(uint64(hart))); got != 0 {
			t.Errorf("hart %d threshold = %d, wanted 0", hart, got)
		}
	}
}

func TestClaimComplete(t *testing.T) {
	f := newFakePLIC()
	c := f.controller()

	if got := c.Claim(0); got != 0 {
		t.Errorf("Claim on idle controller = %d, wanted 0", got)
	}

	f.setWord(memlayout.PLICSClaim(1), memlayout.UART0IRQ)
	if got := c.Claim(1); got != memlayout.UART0IRQ {
		t.Errorf("Claim = %d, wanted %d", got, memlayout.UART0IRQ)
	}

	f.setWord(memlayout.PLICSClaim(1), 0)
	c.Complete(1, memlayout.UART0IRQ)
	if got := f.word(memlayout.PLICSClaim(1)); got != memlayout.UART0IRQ {
		t.Errorf("Complete wrote %d, wanted %d", got, memlayout.UART0IRQ)
	}
}

func TestPending(t *testing.T) {
	f := newFakePLIC()
	c := f.controller()

	f.setWord(memlayout.PLICPending(memlayout.UART0IRQ), 1<<memlayout.UART0IRQ)
	if !c.Pending(memlayout.UART0IRQ) {
		t.Errorf("uart irq not pending after its bit was set")
	}
	if c.Pending(memlayout.VirtIO0IRQ) {
		t.Errorf("virtio irq pending without its bit")
	}
}
