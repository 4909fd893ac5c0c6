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

//go:build riscv64

package clint

import (
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/mmio"
	"rvisor.dev/rvisor/pkg/riscv"
)

// mtimervec is the machine-mode timer trampoline.
//
// It is never called from Go; its address is installed in mtvec.
func mtimervec()

// addrOfMtimervec returns the address of mtimervec.
//
// In Go 1.17+, Go references to assembly functions resolve to an
// ABIInternal wrapper function rather than the function itself. We
// must reference from assembly to get the ABI0 (i.e., primary)
// address.
func addrOfMtimervec() uintptr

// AddrOfMtimervec returns the trampoline address, for diagnostics.
func AddrOfMtimervec() uintptr {
	return addrOfMtimervec()
}

// HartInit arms hart's machine timer. It must run in machine mode,
// before the boot handoff drops to supervisor, and it leaves the
// trampoline live: from here on the hart takes a timer interrupt every
// Interval cycles.
//
// The registers are addressed through mmio directly rather than a
// Device: this runs before the runtime is live, and a constructor may
// allocate.
//
//go:nosplit
func HartInit(hart int) {
	cmp := memlayout.CLINTMTimeCmp(uint64(hart))

	// First wake-up, one interval out.
	mmio.Write64(uintptr(cmp), mmio.Read64(uintptr(memlayout.CLINTMTime()))+Interval)

	ts := Scratch(hart)
	ts.MTimeCmpAddr = cmp
	ts.Interval = Interval

	riscv.WriteMscratch(scratchAddr(hart))
	riscv.WriteMtvec(addrOfMtimervec())

	// Machine interrupts on, timer source enabled.
	riscv.WriteMstatus(riscv.ReadMstatus() | riscv.MstatusMIE)
	riscv.WriteMie(riscv.ReadMie() | riscv.BitMTIE)
}
