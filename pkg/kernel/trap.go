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

package kernel

import (
	"rvisor.dev/rvisor/pkg/ring0"
	"rvisor.dev/rvisor/pkg/riscv"
)

// The dispatch policy lives here, on saved state alone, so the host
// tests can drive it without hardware. The riscv64 glue reads the
// CSRs, calls in, and acts on the verdict.

// FaultHandler triages a user page fault. It runs in trap context
// with the faulting registers in tf; returning true resumes the
// process, false condemns it. Implementations must follow the trap
// path rules: no allocation, no locks, no pointer writes.
type FaultHandler func(h *Hart, tf *ring0.TrapFrame, cause riscv.Cause, addr uint64) bool

// SyscallHandler services a decoded environment call and returns the
// value for a0. Trap context; same rules as FaultHandler.
type SyscallHandler func(h *Hart, tf *ring0.TrapFrame, num Syscall, args [7]uint64) uint64

var (
	faultHandler   FaultHandler
	syscallHandler SyscallHandler
)

// SetFaultHandler installs fn. Install at boot, before user code runs.
func SetFaultHandler(fn FaultHandler) {
	faultHandler = fn
}

// SetSyscallHandler installs fn. Install at boot, before user code
// runs.
func SetSyscallHandler(fn SyscallHandler) {
	syscallHandler = fn
}

// userAction is the verdict on a user trap.
type userAction int

const (
	// userResume re-enters the interrupted process.
	userResume userAction = iota

	// userExternal means a device is pending; the glue runs the
	// claim/complete cycle and then resumes.
	userExternal

	// userFatal halts the hart. Without a process manager there is
	// nowhere to deliver a kill.
	userFatal
)

// dispatchUser decides a trap taken in user mode. Trap context.
//
//go:nosplit
func dispatchUser(h *Hart, tf *ring0.TrapFrame, cause riscv.Cause, tval uint64) userAction {
	h.traps.Add(1)

	switch {
	case cause == riscv.IntSupervisorSoftware:
		// The machine trampoline forwarded a timer tick while user
		// code ran.
		h.tick(tf.EPC)
		return userResume

	case cause == riscv.IntSupervisorExternal:
		// The glue records one event per claimed interrupt, so none
		// is pushed here.
		return userExternal

	case cause == riscv.ExcEnvCallFromU:
		// sepc holds the ecall itself; resuming there would loop.
		tf.EPC += 4
		args, num := tf.SyscallArgs()
		h.syscalls.Add(1)
		h.ring.push(Event{Hart: h.id, Cause: cause, EPC: tf.EPC - 4, Tval: num})
		if syscallHandler != nil {
			tf.SetReturn(syscallHandler(h, tf, Syscall(num), args))
		} else {
			tf.SetReturn(^uint64(0))
		}
		return userResume

	case cause.IsPageFault():
		h.ring.push(Event{Hart: h.id, Cause: cause, EPC: tf.EPC, Tval: tval})
		if faultHandler != nil && faultHandler(h, tf, cause, tval) {
			return userResume
		}
		return userFatal

	default:
		h.ring.push(Event{Hart: h.id, Cause: cause, EPC: tf.EPC, Tval: tval})
		return userFatal
	}
}

// kernelAction is the verdict on a kernel trap.
type kernelAction int

const (
	// kernelResume returns to the interrupted kernel code.
	kernelResume kernelAction = iota

	// kernelExternal means a device is pending; the glue runs the
	// claim/complete cycle.
	kernelExternal

	// kernelFatal halts: a fault in supervisor mode is a kernel bug.
	kernelFatal
)

// dispatchKernel decides a trap taken in supervisor mode. Trap
// context.
//
//go:nosplit
func dispatchKernel(h *Hart, cause riscv.Cause, epc, tval uint64) kernelAction {
	h.traps.Add(1)

	switch cause {
	case riscv.IntSupervisorSoftware:
		h.tick(epc)
		return kernelResume

	case riscv.IntSupervisorExternal:
		return kernelExternal

	case riscv.IntSupervisorTimer:
		// The machine trampoline owns the timer and forwards it as
		// a software interrupt; a direct supervisor timer means the
		// delegation setup is broken.
		h.ring.push(Event{Hart: h.id, Cause: cause, EPC: epc, Tval: tval})
		return kernelFatal
	}

	h.ring.push(Event{Hart: h.id, Cause: cause, EPC: epc, Tval: tval})
	return kernelFatal
}
