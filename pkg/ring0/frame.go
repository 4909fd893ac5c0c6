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

package ring0

import (
	"fmt"

	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/riscv"
)

// Arm points the frame at hart's kernel environment so that the next
// trap out of user mode lands correctly: kernel page table, kernel
// stack, handler entry, and the hart identity in both the
// KernelHartID word and the tp register slot.
//
// SwitchToUser performs this refresh on every resume; Arm is exported
// for the host-side scheduler and its tests.
//
//go:nosplit
func (tf *TrapFrame) Arm(hart uint64, kernelSATP riscv.Satp, kernelSP, handler uint64) {
	tf.KernelSATP = uint64(kernelSATP)
	tf.KernelSP = kernelSP
	tf.KernelHartID = hart
	tf.Handler = handler
	tf.Regs[RegTP] = hart
}

// SaveUser records a user register file and trap pc in the frame,
// performing the same moves as the entry trampoline: all 31 registers
// into their slots, tp additionally into KernelHartID, pc into EPC.
func (tf *TrapFrame) SaveUser(regs *[NumRegs]uint64, epc uint64) {
	tf.Regs = *regs
	tf.KernelHartID = tf.Regs[RegTP]
	tf.EPC = epc
}

// RestoreUser extracts the register file the return trampoline would
// materialize, and returns the pc it would hand to sret.
func (tf *TrapFrame) RestoreUser(regs *[NumRegs]uint64) (epc uint64) {
	*regs = tf.Regs
	return tf.EPC
}

// SyscallArgs returns the argument registers a0..a6 and the syscall
// number from a7. Trap context safe.
//
//go:nosplit
func (tf *TrapFrame) SyscallArgs() (args [7]uint64, num uint64) {
	copy(args[:], tf.Regs[RegA0:RegA7])
	return args, tf.Regs[RegA7]
}

// SetReturn places v in the user a0 slot. Trap context safe.
//
//go:nosplit
func (tf *TrapFrame) SetReturn(v uint64) {
	tf.Regs[RegA0] = v
}

// regNames follows the RISC-V ABI mnemonics, indexed like Regs.
var regNames = [NumRegs]string{
	"ra", "sp", "gp", "tp", "t0", "t1", "t2", "s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// String implements fmt.Stringer.String. The format is the register
// dump printed on fatal traps.
func (tf *TrapFrame) String() string {
	s := fmt.Sprintf("epc=%#x hart=%d ksp=%#x\n", tf.EPC, tf.KernelHartID, tf.KernelSP)
	for i, name := range regNames {
		s += fmt.Sprintf("%4s=%016x", name, tf.Regs[i])
		if (i+1)%4 == 0 {
			s += "\n"
		}
	}
	return s + "\n"
}

// trampolineTarget maps a symbol inside the trampoline block to its
// fixed virtual address. The block is mapped with uservec at the page
// start, so a symbol keeps its byte offset from uservec.
func trampolineTarget(uservecAddr, symAddr uintptr) uint64 {
	return memlayout.TrampolineVA + uint64(symAddr-uservecAddr)
}
