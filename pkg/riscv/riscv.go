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

// Package riscv describes the RISC-V privileged architecture as seen by
// the kernel: control and status register numbers, their bit fields,
// trap cause codes and the Sv39 address-translation token.
//
// The types in this package are plain values and compile on every
// architecture; the accessors that actually touch hardware state are
// declared in csr_riscv64.go and implemented in assembly.
package riscv

// CSR numbers from the privileged specification. These are baked into
// the instruction encodings in csr_impl_riscv64.s; they are kept here
// so that generated constants and decoders agree with the assembly.
const (
	CSR_SSTATUS  = 0x100
	CSR_SIE      = 0x104
	CSR_STVEC    = 0x105
	CSR_SSCRATCH = 0x140
	CSR_SEPC     = 0x141
	CSR_SCAUSE   = 0x142
	CSR_STVAL    = 0x143
	CSR_SIP      = 0x144
	CSR_SATP     = 0x180
	CSR_MSTATUS  = 0x300
	CSR_MEDELEG  = 0x302
	CSR_MIDELEG  = 0x303
	CSR_MIE      = 0x304
	CSR_MTVEC    = 0x305
	CSR_MSCRATCH = 0x340
	CSR_MEPC     = 0x341
	CSR_MCAUSE   = 0x342
	CSR_MIP      = 0x344
	CSR_MHARTID  = 0xf14
)

// mstatus fields.
const (
	MstatusMPPMask = uint64(3) << 11 // previous privilege mode for mret
	MstatusMPPM    = uint64(3) << 11
	MstatusMPPS    = uint64(1) << 11
	MstatusMPPU    = uint64(0) << 11
	MstatusMIE     = uint64(1) << 3 // machine-mode interrupt enable
)

// sstatus fields.
const (
	SstatusSPP  = uint64(1) << 8 // previous mode: 1=supervisor, 0=user
	SstatusSPIE = uint64(1) << 5 // interrupt state to restore on sret
	SstatusSIE  = uint64(1) << 1 // supervisor interrupt enable
)

// Interrupt enable and pending bits, shared by sie/sip and mie/mip.
const (
	BitSSIE = uint64(1) << 1 // software
	BitSTIE = uint64(1) << 5 // timer
	BitSEIE = uint64(1) << 9 // external

	BitMTIE = uint64(1) << 7 // machine timer
)

// AllSupervisorInterrupts enables software, timer and external
// interrupts when written to sie.
const AllSupervisorInterrupts = BitSSIE | BitSTIE | BitSEIE

// AllTrapsDelegated is the medeleg/mideleg value that hands every
// supervisor-handleable trap down from machine mode.
const AllTrapsDelegated = uint64(0xffff)

// causeInterrupt is the high bit of scause/mcause, set for interrupts
// and clear for exceptions.
const causeInterrupt = uint64(1) << 63

// Cause is a decoded scause or mcause value.
type Cause uint64

// Interrupt causes.
const (
	IntSupervisorSoftware Cause = Cause(causeInterrupt) | 1
	IntSupervisorTimer    Cause = Cause(causeInterrupt) | 5
	IntSupervisorExternal Cause = Cause(causeInterrupt) | 9
	IntMachineTimer       Cause = Cause(causeInterrupt) | 7
)

// Exception causes.
const (
	ExcInstructionMisaligned Cause = 0
	ExcInstructionFault      Cause = 1
	ExcIllegalInstruction    Cause = 2
	ExcBreakpoint            Cause = 3
	ExcLoadMisaligned        Cause = 4
	ExcLoadFault             Cause = 5
	ExcStoreMisaligned       Cause = 6
	ExcStoreFault            Cause = 7
	ExcEnvCallFromU          Cause = 8
	ExcEnvCallFromS          Cause = 9
	ExcInstructionPageFault  Cause = 12
	ExcLoadPageFault         Cause = 13
	ExcStorePageFault        Cause = 15
)

// IsInterrupt reports whether the cause describes an asynchronous
// interrupt rather than a synchronous exception.
func (c Cause) IsInterrupt() bool {
	return uint64(c)&causeInterrupt != 0
}

// Code returns the cause code with the interrupt bit stripped.
func (c Cause) Code() uint64 {
	return uint64(c) &^ causeInterrupt
}

// IsPageFault reports whether the cause is one of the three page-fault
// exceptions.
func (c Cause) IsPageFault() bool {
	if c.IsInterrupt() {
		return false
	}
	switch c {
	case ExcInstructionPageFault, ExcLoadPageFault, ExcStorePageFault:
		return true
	}
	return false
}

// String implements fmt.Stringer.String.
func (c Cause) String() string {
	if c.IsInterrupt() {
		switch c {
		case IntSupervisorSoftware:
			return "supervisor software interrupt"
		case IntSupervisorTimer:
			return "supervisor timer interrupt"
		case IntSupervisorExternal:
			return "supervisor external interrupt"
		case IntMachineTimer:
			return "machine timer interrupt"
		}
		return "unknown interrupt"
	}
	switch c {
	case ExcInstructionMisaligned:
		return "instruction address misaligned"
	case ExcInstructionFault:
		return "instruction access fault"
	case ExcIllegalInstruction:
		return "illegal instruction"
	case ExcBreakpoint:
		return "breakpoint"
	case ExcLoadMisaligned:
		return "load address misaligned"
	case ExcLoadFault:
		return "load access fault"
	case ExcStoreMisaligned:
		return "store address misaligned"
	case ExcStoreFault:
		return "store access fault"
	case ExcEnvCallFromU:
		return "environment call from U-mode"
	case ExcEnvCallFromS:
		return "environment call from S-mode"
	case ExcInstructionPageFault:
		return "instruction page fault"
	case ExcLoadPageFault:
		return "load page fault"
	case ExcStorePageFault:
		return "store page fault"
	}
	return "unknown exception"
}

// Satp is an address-translation token: translation mode, address
// space identifier and the physical page number of the root table.
type Satp uint64

const (
	satpModeShift = 60
	satpASIDShift = 44
	satpASIDMask  = uint64(0xffff)
	satpPPNMask   = uint64(1)<<44 - 1

	// SatpBare disables translation entirely.
	SatpBare Satp = 0

	// satpSv39 selects three-level page tables.
	satpSv39 = uint64(8)
)

// MakeSatp builds an Sv39 token for the page table rooted at the given
// physical address.
func MakeSatp(root uint64, asid uint16) Satp {
	ppn := (root >> 12) & satpPPNMask
	return Satp(satpSv39<<satpModeShift | uint64(asid)<<satpASIDShift | ppn)
}

// Root returns the physical address of the root page table.
func (s Satp) Root() uint64 {
	return (uint64(s) & satpPPNMask) << 12
}

// ASID returns the address space identifier.
func (s Satp) ASID() uint16 {
	return uint16(uint64(s) >> satpASIDShift & satpASIDMask)
}

// Bare reports whether translation is disabled.
func (s Satp) Bare() bool {
	return uint64(s)>>satpModeShift == 0
}
