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

package ring0

import (
	_ "unsafe" // for go:linkname

	"rvisor.dev/rvisor/pkg/clint"
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/riscv"
)

// kernelMain is the dispatch layer's entry. Linked by name to keep
// the boot handoff free of an upward import.
//
//go:linkname kernelMain rvisor.dev/rvisor/pkg/kernel.Main
func kernelMain()

// MachineStart finishes machine-mode boot for the executing hart. It
// is reached from kentry on the hart's private stack, with interrupts
// off and no runtime services: nothing here may allocate, block, or
// write a Go pointer.
//
// The hart leaves through mret with every subsequent trap already
// routed: exceptions and interrupts delegated to supervisor mode, the
// machine timer armed behind its trampoline, the hart id cached in tp.
//
//go:nosplit
func MachineStart() {
	hart := riscv.ReadMhartid()
	if hart == 0 {
		zeroHeap()
	}

	// Everything the supervisor can handle, the supervisor handles.
	riscv.WriteMedeleg(riscv.AllTrapsDelegated)
	riscv.WriteMideleg(riscv.AllTrapsDelegated)
	riscv.WriteSie(riscv.ReadSie() | riscv.AllSupervisorInterrupts)

	// mret drops to supervisor at supervisorStart, paging off.
	s := riscv.ReadMstatus()
	s &^= riscv.MstatusMPPMask
	s |= riscv.MstatusMPPS
	riscv.WriteMstatus(s)
	riscv.WriteMepc(addrOfSupervisorStart())
	riscv.InstallPageTable(riscv.SatpBare)

	// The hart's identity rides in tp from here on.
	riscv.SetHartID(hart)

	// Arm the machine timer last; this hart never runs in machine
	// mode again except inside the timer trampoline.
	clint.HartInit(int(hart))

	riscv.Mret()
}

// supervisorStart is the first supervisor-mode code on every hart.
//
//go:nosplit
func supervisorStart() {
	kernelMain()

	// kernelMain owns the hart and must not return. Park if it does.
	riscv.IntrOff()
	for {
		riscv.Halt()
	}
}

// kernelTrap is reached from kernelvec with the interrupted register
// state parked on the kernel stack.
//
//go:nosplit
func kernelTrap() {
	if hooks == nil {
		// A trap before Init has nowhere to go.
		riscv.IntrOff()
		for {
			riscv.Halt()
		}
	}
	hooks.KernelTrap()
}

// userTrapGo is reached from userTrapEntry on the kernel stack named
// by the trapframe.
//
//go:nosplit
func userTrapGo() {
	if hooks != nil {
		hooks.UserTrap()
	}
	// UserTrap hands off and never returns; ending up here is fatal.
	riscv.IntrOff()
	for {
		riscv.Halt()
	}
}

// SwitchToUser resumes the user execution described by opts on the
// executing hart. It never returns: the next kernel-side event is a
// fresh trap through uservec or kernelvec.
//
//go:nosplit
func SwitchToUser(opts SwitchOpts) {
	// No trap may land between retargeting stvec and sret.
	riscv.IntrOff()

	hart := riscv.HartID()
	tf := opts.Frame
	tf.Arm(hart, riscv.ReadSatp(), KernelStackTop(hart), uint64(addrOfUserTrapEntry()))

	// Traps from user mode land at the top of the trampoline page,
	// with sscratch carrying the trapframe address.
	riscv.WriteStvec(uintptr(memlayout.TrampolineVA))
	riscv.WriteSscratch(uintptr(memlayout.TrapFrameVA))

	// sret must drop privilege and re-enable interrupts.
	s := riscv.ReadSstatus()
	s &^= riscv.SstatusSPP
	s |= riscv.SstatusSPIE
	riscv.WriteSstatus(s)

	target := trampolineTarget(addrOfUservec(), addrOfUserret())
	doSwitchToUser(uintptr(target), uint64(opts.PageTable))
}
