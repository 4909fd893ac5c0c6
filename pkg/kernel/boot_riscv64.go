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

package kernel

import (
	"sync/atomic"

	"rvisor.dev/rvisor/pkg/clint"
	"rvisor.dev/rvisor/pkg/klog"
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/ring0"
	"rvisor.dev/rvisor/pkg/riscv"
)

// started gates the secondary harts on hart 0's shared-state
// initialization.
var started atomic.Bool

// clint0 reads the free-running timebase for log stamps.
var clint0 = clint.Default()

// Main is the supervisor-mode entry for every hart; ring0 transfers
// here after mret. Hart 0 brings up the console, the verifier checks
// and the interrupt plumbing, then releases the rest. Every hart ends
// in the idle loop with traps live; a scheduler layer would leave it
// through Resume instead.
func Main() {
	hart := riscv.HartID()
	h := &harts[hart]
	h.id = hart

	if hart == 0 {
		console.Init()
		klog.SetTarget(klog.ConsoleEmitter{
			Next: &klog.Writer{Next: console},
			Hz:   clint.TimebaseHz,
		})
		klog.SetTickSource(clintTicks)
		klog.Infof("booting on hart %d", hart)

		if err := memlayout.Validate(); err != nil {
			klog.Fatalf("memory layout: %v", err)
		}
		if err := ring0.VerifyTrampoline(); err != nil {
			klog.Fatalf("trampoline: %v", err)
		}

		ring0.Init(dispatcher{})
		plic0.Init()
		klog.Infof("PLIC initialised")

		go serveEvents()
		started.Store(true)
	} else {
		for !started.Load() {
		}
		klog.Infof("hart %d booting", hart)
	}

	// Per-hart bring-up: kernel trap vector, device interrupts.
	riscv.WriteStvec(ring0.AddrOfKernelvec())
	plic0.HartInit(int(hart))
	riscv.IntrOn()

	for {
		riscv.Halt()
	}
}

func clintTicks() uint64 {
	return clint0.MTime()
}
