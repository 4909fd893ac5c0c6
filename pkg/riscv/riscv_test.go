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

package riscv

import (
	"testing"
)

func TestCauseClassification(t *testing.T) {
	for _, tc := range []struct {
		cause     Cause
		interrupt bool
		pageFault bool
		code      uint64
		str       string
	}{
		{IntSupervisorSoftware, true, false, 1, "supervisor software interrupt"},
		{IntSupervisorTimer, true, false, 5, "supervisor timer interrupt"},
		{IntSupervisorExternal, true, false, 9, "supervisor external interrupt"},
		{IntMachineTimer, true, false, 7, "machine timer interrupt"},
		{ExcIllegalInstruction, false, false, 2, "illegal instruction"},
		{ExcBreakpoint, false, false, 3, "breakpoint"},
		{ExcEnvCallFromU, false, false, 8, "environment call from U-mode"},
		{ExcEnvCallFromS, false, false, 9, "environment call from S-mode"},
		{ExcInstructionPageFault, false, true, 12, "instruction page fault"},
		{ExcLoadPageFault, false, true, 13, "load page fault"},
		{ExcStorePageFault, false, true, 15, "store page fault"},
	} {
		if got := tc.cause.IsInterrupt(); got != tc.interrupt {
			t.Errorf("%#x: IsInterrupt = %v, want %v", uint64(tc.cause), got, tc.interrupt)
		}
		if got := tc.cause.IsPageFault(); got != tc.pageFault {
			t.Errorf("%#x: IsPageFault = %v, want %v", uint64(tc.cause), got, tc.pageFault)
		}
		if got := tc.cause.Code(); got != tc.code {
			t.Errorf("%#x: Code = %d, want %d", uint64(tc.cause), got, tc.code)
		}
		if got := tc.cause.String(); got != tc.str {
			t.Errorf("%#x: String = %q, want %q", uint64(tc.cause), got, tc.str)
		}
	}
}

func TestCauseUnknown(t *testing.T) {
	if got := Cause(63).String(); got != "unknown exception" {
		t.Errorf("String = %q, want unknown exception", got)
	}
	if got := (Cause(causeInterrupt) | 63).String(); got != "unknown interrupt" {
		t.Errorf("String = %q, want unknown interrupt", got)
	}
}

func TestSatpRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		root uint64
		asid uint16
	}{
		{0x80000000, 0},
		{0x80201000, 1},
		{0x87fff000, 0xffff},
	} {
		s := MakeSatp(tc.root, tc.asid)
		if s.Bare() {
			t.Errorf("MakeSatp(%#x, %d).Bare() = true", tc.root, tc.asid)
		}
		if got := s.Root(); got != tc.root {
			t.Errorf("Root = %#x, want %#x", got, tc.root)
		}
		if got := s.ASID(); got != tc.asid {
			t.Errorf("ASID = %d, want %d", got, tc.asid)
		}
	}
}

func TestSatpDropsPageOffset(t *testing.T) {
	s := MakeSatp(0x80000fff, 0)
	if got := s.Root(); got != 0x80000000 {
		t.Errorf("Root = %#x, want %#x", got, uint64(0x80000000))
	}
}

func TestSatpBare(t *testing.T) {
	if !SatpBare.Bare() {
		t.Error("SatpBare.Bare() = false")
	}
	if got := SatpBare.Root(); got != 0 {
		t.Errorf("SatpBare.Root() = %#x, want 0", got)
	}
}

// encodeCSRRead builds csrrs t0, csr, x0.
func encodeCSRRead(csr uint32) uint32 {
	return csr<<20 | 0<<15 | 2<<12 | 5<<7 | 0x73
}

// encodeCSRWrite builds csrrw x0, csr, t0.
func encodeCSRWrite(csr uint32) uint32 {
	return csr<<20 | 5<<15 | 1<<12 | 0<<7 | 0x73
}

// TestCSRInstructionWords pins the instruction words spelled out in
// csr_impl_riscv64.s to the CSR numbers above. A mismatch means either
// a constant or a hand-assembled WORD is wrong.
func TestCSRInstructionWords(t *testing.T) {
	reads := map[uint32]uint32{
		CSR_SSTATUS:  0x100022f3,
		CSR_SIE:      0x104022f3,
		CSR_STVEC:    0x105022f3,
		CSR_SSCRATCH: 0x140022f3,
		CSR_SEPC:     0x141022f3,
		CSR_SCAUSE:   0x142022f3,
		CSR_STVAL:    0x143022f3,
		CSR_SIP:      0x144022f3,
		CSR_SATP:     0x180022f3,
		CSR_MSTATUS:  0x300022f3,
		CSR_MIE:      0x304022f3,
		CSR_MHARTID:  0xf14022f3,
	}
	for csr, want := range reads {
		if got := encodeCSRRead(csr); got != want {
			t.Errorf("csrr t0, %#x: encoded %#08x, assembly uses %#08x", csr, got, want)
		}
	}
	writes := map[uint32]uint32{
		CSR_SSTATUS:  0x10029073,
		CSR_SIE:      0x10429073,
		CSR_STVEC:    0x10529073,
		CSR_SSCRATCH: 0x14029073,
		CSR_SEPC:     0x14129073,
		CSR_SIP:      0x14429073,
		CSR_SATP:     0x18029073,
		CSR_MSTATUS:  0x30029073,
		CSR_MEDELEG:  0x30229073,
		CSR_MIDELEG:  0x30329073,
		CSR_MIE:      0x30429073,
		CSR_MTVEC:    0x30529073,
		CSR_MSCRATCH: 0x34029073,
		CSR_MEPC:     0x34129073,
	}
	for csr, want := range writes {
		if got := encodeCSRWrite(csr); got != want {
			t.Errorf("csrw %#x, t0: encoded %#08x, assembly uses %#08x", csr, got, want)
		}
	}
}
