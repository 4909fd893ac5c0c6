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

// Package ring0 implements the privileged transition surface of the
// kernel: the machine-mode boot entry, the supervisor trap vector, and
// the user trampoline that carries execution across the user/kernel
// address space split.
//
// The layer is deliberately thin. It owns no policy; it saves and
// restores register state, switches page tables under the required
// fences, and funnels every event into the Hooks installed by the
// dispatch layer. Everything above it is ordinary Go; everything below
// it is hardware.
//
// The assembly paths run without a stack, or on a borrowed one, and
// address the structures in this package by fixed byte offsets. Those
// offsets are the contract: they are printed by Emit and pinned by
// layout tests, never synced by hand.
package ring0

import "rvisor.dev/rvisor/pkg/riscv"

// Indices into TrapFrame.Regs. Regs[i] holds x(i+1), so register x_n
// lives at byte offset (n-1)*8 and the assembly's slot arithmetic
// stays trivial.
const (
	RegRA = iota // x1, return address
	RegSP        // x2, stack pointer
	RegGP        // x3, global pointer
	RegTP        // x4, thread pointer; hart id under the kernel ABI
	RegT0        // x5
	RegT1        // x6
	RegT2        // x7
	RegS0        // x8, frame pointer
	RegS1        // x9
	RegA0        // x10, first argument and result
	RegA1        // x11
	RegA2        // x12
	RegA3        // x13
	RegA4        // x14
	RegA5        // x15
	RegA6        // x16
	RegA7        // x17, syscall number
	RegS2        // x18
	RegS3        // x19
	RegS4        // x20
	RegS5        // x21
	RegS6        // x22
	RegS7        // x23
	RegS8        // x24
	RegS9        // x25
	RegS10       // x26
	RegS11       // x27
	RegT3        // x28
	RegT4        // x29
	RegT5        // x30
	RegT6        // x31, the exchange register

	// NumRegs is the number of saved general registers; x0 is not
	// stored.
	NumRegs = 31
)

// TrapFrame is the register save area the user trampoline works out
// of. One frame lives in a page mapped at memlayout.TrapFrameVA in
// both the user and the kernel address space; sscratch points at it
// whenever the hart runs user code.
//
// The words after the register file parameterize the next
// user-to-kernel crossing. The trampoline reads them before it has a
// stack, by byte offset.
type TrapFrame struct {
	// Regs holds the general registers x1 through x31.
	Regs [NumRegs]uint64

	// KernelSATP is the kernel page table, in satp format, installed
	// on trap entry.
	KernelSATP uint64

	// KernelSP is the top of this hart's kernel stack, installed on
	// trap entry.
	KernelSP uint64

	// KernelHartID records the executing hart. The trampoline stores
	// tp here on entry; whoever resumes the process must refresh it,
	// and the tp register slot, to the hart about to run it. A stale
	// value corrupts the kernel's notion of "current hart" after a
	// migration.
	KernelHartID uint64

	// EPC is the user program counter captured at the trap.
	EPC uint64

	// Handler is the kernel entry the trampoline jumps to once the
	// kernel stack and page table are live.
	Handler uint64
}

// SwitchOpts are the arguments to SwitchToUser.
type SwitchOpts struct {
	// Frame describes the user register state to resume. It must be
	// the frame mapped at memlayout.TrapFrameVA in PageTable.
	Frame *TrapFrame

	// PageTable is the user address space. It must map the
	// trampoline and Frame at the fixed top pages.
	PageTable riscv.Satp
}

// Hooks connect the trap vectors to the dispatch layer. The assembly
// paths funnel into these once register state is parked; both run in
// trap context and must not grow the stack before handing off.
type Hooks interface {
	// KernelTrap handles a trap taken in supervisor mode. It
	// returns to resume the interrupted kernel code.
	KernelTrap()

	// UserTrap handles a trap taken in user mode. It never returns;
	// it hands off by resuming some process or parking the hart.
	UserTrap()
}

var hooks Hooks

// Init installs the dispatch hooks. It must happen before any trap
// vector is armed.
func Init(h Hooks) {
	hooks = h
}
