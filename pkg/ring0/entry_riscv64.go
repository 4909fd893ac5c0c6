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
	"fmt"

	"rvisor.dev/rvisor/pkg/memlayout"
)

// The assembly entry points. None of these follow the Go calling
// convention and none may be called from Go; hardware or other
// assembly reaches them.

// kentry is the machine-mode entry, executed by every hart at
// power-on.
func kentry()

// kernelvec handles traps taken in supervisor mode. Installed in
// stvec whenever the hart runs kernel code.
func kernelvec()

// uservec handles traps taken in user mode. It runs at the top of the
// trampoline page; stvec points there whenever the hart runs user
// code.
func uservec()

// userret leaves the kernel for user mode. It also lives in the
// trampoline page, reached by its fixed virtual address.
func userret()

// trampolineEnd marks the first byte past userret, bounding the block
// that gets mapped at memlayout.TrampolineVA.
func trampolineEnd()

// userTrapEntry is the Handler target: uservec jumps here once the
// kernel stack and page table are live.
func userTrapEntry()

// doSwitchToUser jumps to the userret image at target with the user
// page-table token in a0.
func doSwitchToUser(target uintptr, token uint64)

// In Go 1.17+, Go references to assembly functions resolve to an
// ABIInternal wrapper function rather than the function itself. We
// must reference from assembly to get the ABI0 (i.e., primary)
// address.
func addrOfKentry() uintptr
func addrOfKernelvec() uintptr
func addrOfUservec() uintptr
func addrOfUserret() uintptr
func addrOfTrampolineEnd() uintptr
func addrOfUserTrapEntry() uintptr
func addrOfSupervisorStart() uintptr

// AddrOfKentry returns the machine entry address. The boot loader
// contract points every hart here.
func AddrOfKentry() uintptr {
	return addrOfKentry()
}

// AddrOfKernelvec returns the supervisor vector address for stvec.
// The user trap path rearms stvec with it, so it must not grow the
// stack.
//
//go:nosplit
func AddrOfKernelvec() uintptr {
	return addrOfKernelvec()
}

// Trampoline returns the physical byte span that the address-space
// layer maps (or copies) to memlayout.TrampolineVA: uservec at the
// page start, userret behind it.
func Trampoline() memlayout.Region {
	return memlayout.Region{
		Base: uint64(addrOfUservec()),
		Size: uint64(addrOfTrampolineEnd() - addrOfUservec()),
	}
}

// VerifyTrampoline checks the trampoline block: entry first, return
// inside, the whole of it within one page's worth of bytes. A failure
// means the link laid the symbols out in an unexpected order, and no
// user process can safely run.
func VerifyTrampoline() error {
	uv, ur, end := addrOfUservec(), addrOfUserret(), addrOfTrampolineEnd()
	if uv == 0 || ur <= uv || end <= ur {
		return fmt.Errorf("trampoline symbols out of order: uservec %#x userret %#x end %#x", uv, ur, end)
	}
	if size := uint64(end - uv); size > memlayout.PageSize {
		return fmt.Errorf("trampoline block is %#x bytes, more than a page", size)
	}
	return nil
}
