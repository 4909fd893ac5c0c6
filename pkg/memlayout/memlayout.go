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

// Package memlayout fixes the machine's memory map.
//
// The physical side follows the qemu riscv64 virt board: a UART, a
// virtio disk slot, the core-local interruptor and the platform
// interrupt controller below physical RAM, which starts at KernelBase.
// The virtual side reserves the two highest pages of the Sv39 address
// space for the trampoline and the trapframe, at the same virtual
// address in every address space.
//
// Addresses are uint64 rather than uintptr so that layout arithmetic
// is testable on any host.
package memlayout

import (
	"fmt"
	"io"
)

// PageSize is the translation granule.
const PageSize = 4096

// MaxHarts bounds the number of cores the fixed per-hart regions are
// sized for.
const MaxHarts = 8

// Physical map.
const (
	// UART0Base is the 16550 serial port.
	UART0Base uint64 = 0x1000_0000
	UART0IRQ         = 10

	// VirtIO0Base is the first virtio-mmio slot.
	VirtIO0Base uint64 = 0x1000_1000
	VirtIO0IRQ         = 1

	// CLINTBase is the core-local interruptor, which owns the
	// machine timer.
	CLINTBase uint64 = 0x0200_0000
	CLINTSize uint64 = 0x10000

	// PLICBase is the platform-level interrupt controller.
	PLICBase uint64 = 0x0c00_0000
	PLICSize uint64 = 0x400000

	// KernelBase is where RAM begins and the kernel image is
	// loaded.
	KernelBase uint64 = 0x8000_0000

	// PhysTop is the first address past RAM.
	PhysTop uint64 = KernelBase + 128*1024*1024
)

// Virtual map. MaxVA is one bit short of the 39-bit Sv39 span so that
// kernel virtual addresses never carry the sign-extension bit.
const (
	MaxVA uint64 = 1 << 38

	// TrampolineVA maps the trap entry and exit code at the top of
	// every address space, kernel and user alike.
	TrampolineVA uint64 = MaxVA - PageSize

	// TrapFrameVA maps the running process's register save page
	// just below the trampoline, again at the same virtual address
	// in every address space.
	TrapFrameVA uint64 = TrampolineVA - PageSize
)

// Kernel-owned RAM carve-outs. The backing arrays live in the trap
// package, which hands them to the boot path.
const (
	KernelStackSize = 4 * PageSize

	// KernelHeapSize is the scratch heap the boot hart zeroes
	// before any other hart runs.
	KernelHeapSize = 1024 * 1024
)

// CLINTMTimeCmp returns the address of a hart's timer compare
// register.
func CLINTMTimeCmp(hart uint64) uint64 {
	return CLINTBase + 0x4000 + 8*hart
}

// CLINTMTime returns the address of the free-running timebase.
func CLINTMTime() uint64 {
	return CLINTBase + 0xbff8
}

// PLICPriority returns the address of a source's priority register.
func PLICPriority(irq uint32) uint64 {
	return PLICBase + 4*uint64(irq)
}

// PLICPending returns the address of the pending-bits word covering
// irq.
func PLICPending(irq uint32) uint64 {
	return PLICBase + 0x1000 + 4*uint64(irq/32)
}

// PLICSEnable returns the address of a hart's supervisor
// interrupt-enable word.
func PLICSEnable(hart uint64) uint64 {
	return PLICBase + 0x2080 + hart*0x100
}

// PLICSPriority returns the address of a hart's supervisor priority
// threshold.
func PLICSPriority(hart uint64) uint64 {
	return PLICBase + 0x201000 + hart*0x2000
}

// PLICSClaim returns the address of a hart's supervisor claim and
// completion register.
func PLICSClaim(hart uint64) uint64 {
	return PLICBase + 0x201004 + hart*0x2000
}

// RAMRegion returns the span of physical RAM.
func RAMRegion() Region {
	return Region{Base: KernelBase, Size: PhysTop - KernelBase}
}

// Validate checks the internal consistency of the map: device windows
// must not reach into RAM, the reserved top pages must be page-aligned
// and distinct, and the per-hart regions must fit their owners.
func Validate() error {
	for _, d := range []struct {
		name string
		r    Region
	}{
		{"uart0", Region{UART0Base, PageSize}},
		{"virtio0", Region{VirtIO0Base, PageSize}},
		{"clint", Region{CLINTBase, CLINTSize}},
		{"plic", Region{PLICBase, PLICSize}},
	} {
		if d.r.End() > KernelBase {
			return fmt.Errorf("%s window [%#x, %#x) overlaps RAM", d.name, d.r.Base, d.r.End())
		}
	}
	if TrampolineVA%PageSize != 0 || TrapFrameVA%PageSize != 0 {
		return fmt.Errorf("reserved pages misaligned: trampoline %#x, trapframe %#x", TrampolineVA, TrapFrameVA)
	}
	if TrampolineVA+PageSize != MaxVA {
		return fmt.Errorf("trampoline %#x is not the top page below %#x", TrampolineVA, MaxVA)
	}
	if TrapFrameVA+PageSize != TrampolineVA {
		return fmt.Errorf("trapframe %#x is not adjacent to trampoline %#x", TrapFrameVA, TrampolineVA)
	}
	for hart := uint64(0); hart < MaxHarts; hart++ {
		if a := CLINTMTimeCmp(hart); a < CLINTBase || a+8 > CLINTBase+CLINTSize {
			return fmt.Errorf("mtimecmp for hart %d at %#x outside clint", hart, a)
		}
		if a := PLICSClaim(hart); a < PLICBase || a+4 > PLICBase+PLICSize {
			return fmt.Errorf("sclaim for hart %d at %#x outside plic", hart, a)
		}
	}
	if reserved := uint64(MaxHarts*KernelStackSize + KernelHeapSize); reserved >= RAMRegion().Size {
		return fmt.Errorf("kernel carve-outs take %#x of %#x RAM", reserved, RAMRegion().Size)
	}
	return nil
}

// Emit prints the layout as preprocessor constants, in a form suitable
// for inclusion by assembly.
func Emit(w io.Writer) {
	fmt.Fprintf(w, "// Automatically generated, do not edit.\n")
	fmt.Fprintf(w, "\n// Memory map.\n")
	fmt.Fprintf(w, "#define PAGE_SIZE       0x%08x\n", PageSize)
	fmt.Fprintf(w, "#define MAX_HARTS       0x%08x\n", MaxHarts)
	fmt.Fprintf(w, "#define UART0_BASE      0x%08x\n", UART0Base)
	fmt.Fprintf(w, "#define VIRTIO0_BASE    0x%08x\n", VirtIO0Base)
	fmt.Fprintf(w, "#define CLINT_BASE      0x%08x\n", CLINTBase)
	fmt.Fprintf(w, "#define PLIC_BASE       0x%08x\n", PLICBase)
	fmt.Fprintf(w, "#define KERNEL_BASE     0x%08x\n", KernelBase)
	fmt.Fprintf(w, "#define PHYS_TOP        0x%08x\n", PhysTop)
	fmt.Fprintf(w, "#define MAX_VA          0x%010x\n", MaxVA)
	fmt.Fprintf(w, "#define TRAMPOLINE_VA   0x%010x\n", TrampolineVA)
	fmt.Fprintf(w, "#define TRAPFRAME_VA    0x%010x\n", TrapFrameVA)
	fmt.Fprintf(w, "#define KSTACK_SIZE     0x%08x\n", KernelStackSize)
	fmt.Fprintf(w, "#define KHEAP_SIZE      0x%08x\n", KernelHeapSize)
}
