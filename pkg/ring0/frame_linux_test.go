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

//go:build linux

package ring0

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/riscv"
)

// The trapframe is handed to the MMU as a whole page, so a frame must
// fit one and work at a page boundary. Back one with mmap the way the
// kernel backs it with a physical page.
func TestTrapFramePageBacked(t *testing.T) {
	if size := unsafe.Sizeof(TrapFrame{}); size > memlayout.PageSize {
		t.Fatalf("TrapFrame size %d exceeds page size %d", size, memlayout.PageSize)
	}

	mem, err := unix.Mmap(-1, 0, memlayout.PageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANONYMOUS|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	defer unix.Munmap(mem)

	addr := uint64(uintptr(unsafe.Pointer(&mem[0])))
	if memlayout.PageDown(addr) != addr {
		t.Fatalf("mmap returned non page-aligned memory: %#x", addr)
	}

	tf := (*TrapFrame)(unsafe.Pointer(&mem[0]))
	tf.Arm(1, riscv.Satp(0x8000000000080123), KernelStackTop(1), 0xf00)

	var regs [NumRegs]uint64
	regs[RegSP] = 0x7fffff00
	regs[RegTP] = 1
	tf.SaveUser(&regs, 0x10b0)

	if tf.KernelHartID != 1 {
		t.Errorf("KernelHartID: got %d, want 1", tf.KernelHartID)
	}
	if got := tf.RestoreUser(&regs); got != 0x10b0 {
		t.Errorf("epc: got %#x, want %#x", got, 0x10b0)
	}
}
