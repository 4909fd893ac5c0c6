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

// Package plic routes device interrupts through the platform-level
// interrupt controller of the qemu virt machine.
//
// A source fires only when its global priority is above zero and above
// the claiming hart's threshold. Init sets the former once on the boot
// hart; HartInit opens each hart's supervisor context. Handlers then
// run the claim/complete cycle: Claim returns the pending source and
// masks it from other harts until Complete.
package plic

import (
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/mmio"
)

// Controller provides register access to a PLIC. Tests point base at
// ordinary memory.
type Controller struct {
	base uintptr
}

// New returns a Controller for the PLIC at base.
func New(base uintptr) *Controller {
	return &Controller{base: base}
}

// Default returns the PLIC of the qemu virt machine.
func Default() *Controller {
	return New(uintptr(memlayout.PLICBase))
}

//go:nosplit
func (c *Controller) reg(addr uint64) uintptr {
	return c.base + uintptr(addr-memlayout.PLICBase)
}

// SetPriority assigns irq's global source priority. A zero priority
// keeps the source masked no matter what harts enable.
func (c *Controller) SetPriority(irq uint32, prio uint32) {
	mmio.Write32(c.reg(memlayout.PLICPriority(irq)), prio)
}

// Init gives the wired devices a claimable priority. Run once, by the
// boot hart.
func (c *Controller) Init() {
	c.SetPriority(memlayout.UART0IRQ, 1)
	c.SetPriority(memlayout.VirtIO0IRQ, 1)
}

// HartInit opens hart's supervisor context: enable the wired sources
// and accept any source priority above zero.
func (c *Controller) HartInit(hart int) {
	mmio.Write32(c.reg(memlayout.PLICSEnable(uint64(hart))), 1<<memlayout.UART0IRQ|1<<memlayout.VirtIO0IRQ)
	mmio.Write32(c.reg(memlayout.PLICSPriority(uint64(hart))), 0)
}

// Claim returns the highest-priority pending source for hart, claiming
// it, or zero when nothing is pending. Safe in trap context.
//
//go:nosplit
func (c *Controller) Claim(hart int) uint32 {
	return mmio.Read32(c.reg(memlayout.PLICSClaim(uint64(hart))))
}

// Complete tells the controller that hart finished servicing irq,
// making the source eligible to fire again. Safe in trap context.
//
//go:nosplit
func (c *Controller) Complete(hart int, irq uint32) {
	mmio.Write32(c.reg(memlayout.PLICSClaim(uint64(hart))), irq)
}

// Pending reports whether irq is raised at the controller, claimed or
// not.
func (c *Controller) Pending(irq uint32) bool {
	w := mmio.Read32(c.reg(memlayout.PLICPending(irq)))
	return w&(1<<(irq%32)) != 0
}
