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
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/plic"
	"rvisor.dev/rvisor/pkg/ring0"
	"rvisor.dev/rvisor/pkg/riscv"
	"rvisor.dev/rvisor/pkg/uart"
)

// dispatcher is the ring0.Hooks implementation. Installed once at
// boot; stateless, all state lives in the hart blocks.
type dispatcher struct{}

var _ ring0.Hooks = dispatcher{}

// Device singletons, allocated at package init. The trap path must
// not call a constructor: constructors may allocate.
var (
	console = uart.Console()
	plic0   = plic.Default()
)

// KernelTrap implements ring0.Hooks.KernelTrap.
//
//go:nosplit
func (dispatcher) KernelTrap() {
	h := &harts[riscv.HartID()]
	cause := riscv.ReadScause()
	epc := uint64(riscv.ReadSepc())
	tval := riscv.ReadStval()

	if cause == riscv.IntSupervisorSoftware {
		// Acknowledge the forwarded tick or it refires on sret.
		riscv.ClearPendingSoftware()
	}

	switch dispatchKernel(h, cause, epc, tval) {
	case kernelResume:
	case kernelExternal:
		externalIntr(h)
	case kernelFatal:
		fatalTrap(h, "kernel trap", cause, epc, tval)
	}
}

// UserTrap implements ring0.Hooks.UserTrap. Reached from the
// trampoline with the user registers parked in the hart's trapframe
// and this hart's kernel stack installed.
//
//go:nosplit
func (dispatcher) UserTrap() {
	// Back on the kernel page table; traps from here on are kernel
	// traps.
	riscv.WriteStvec(ring0.AddrOfKernelvec())

	h := &harts[riscv.HartID()]
	tf := h.tf
	if tf == nil {
		fatalTrap(h, "user trap without context", riscv.ReadScause(),
			uint64(riscv.ReadSepc()), riscv.ReadStval())
	}

	cause := riscv.ReadScause()
	tval := riscv.ReadStval()
	if cause == riscv.IntSupervisorSoftware {
		riscv.ClearPendingSoftware()
	}

	switch dispatchUser(h, tf, cause, tval) {
	case userResume:
	case userExternal:
		externalIntr(h)
	case userFatal:
		fatalTrap(h, "user trap", cause, tf.EPC, tval)
	}
	resume(h)
}

// Resume installs (tf, pt) as the executing hart's user context and
// enters it. The frame must be mapped at memlayout.TrapFrameVA in pt.
// Ordinary goroutine context; does not return.
func Resume(tf *ring0.TrapFrame, pt riscv.Satp) {
	h := &harts[riscv.HartID()]
	h.tf = tf
	h.usatp = pt
	resume(h)
}

// resume re-enters h's current user context. Trap context safe: no
// pointer writes, h's fields are already set.
//
//go:nosplit
func resume(h *Hart) {
	ring0.SwitchToUser(ring0.SwitchOpts{Frame: h.tf, PageTable: h.usatp})
}

// externalIntr runs the PLIC claim/complete cycle until the
// controller runs dry.
//
//go:nosplit
func externalIntr(h *Hart) {
	for {
		irq := plic0.Claim(int(h.id))
		if irq == 0 {
			return
		}
		if irq == memlayout.UART0IRQ {
			uartIntr()
		}
		h.ring.push(Event{Hart: h.id, Cause: riscv.IntSupervisorExternal, Tval: uint64(irq)})
		plic0.Complete(int(h.id), irq)
	}
}

// uartIntr drains the receive FIFO, echoing. Real line discipline
// belongs to a console layer; none exists yet.
//
//go:nosplit
func uartIntr() {
	for {
		c, ok := console.ReadByte()
		if !ok {
			return
		}
		console.WriteByte(c)
	}
}

// fatalTrap reports an unrecoverable trap and halts the hart. The
// ordinary log path allocates and cannot run in trap context, so this
// writes the console directly, byte at a time.
//
//go:nosplit
func fatalTrap(h *Hart, what string, cause riscv.Cause, epc, tval uint64) {
	riscv.IntrOff()
	p := console
	rawPuts(p, "\nfatal ")
	rawPuts(p, what)
	rawPuts(p, ": hart ")
	rawPutHex(p, h.id)
	rawPuts(p, " cause ")
	rawPutHex(p, uint64(cause))
	rawPuts(p, " epc ")
	rawPutHex(p, epc)
	rawPuts(p, " tval ")
	rawPutHex(p, tval)
	rawPuts(p, "\n")
	for {
		riscv.Halt()
	}
}

//go:nosplit
func rawPuts(p *uart.Port, s string) {
	for i := 0; i < len(s); i++ {
		p.WriteByte(s[i])
	}
}

//go:nosplit
func rawPutHex(p *uart.Port, v uint64) {
	const digits = "0123456789abcdef"
	p.WriteByte('0')
	p.WriteByte('x')
	for shift := 60; shift >= 0; shift -= 4 {
		p.WriteByte(digits[(v>>uint(shift))&0xf])
	}
}
