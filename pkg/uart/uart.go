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

// Package uart drives the 16550 serial port of the qemu virt machine.
//
// Transmit is polled so that it works from any context, including the
// trap path before interrupts are enabled. Receive raises a PLIC
// interrupt; the handler drains the FIFO with ReadByte.
package uart

import (
	"io"

	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/mmio"
)

// 16550 register offsets from the port base. The divisor latch
// registers overlay RHR/THR and IER while lcrDLAB is set.
const (
	regRHR = 0 // receive holding (read)
	regTHR = 0 // transmit holding (write)
	regIER = 1 // interrupt enable
	regFCR = 2 // FIFO control (write)
	regLCR = 3 // line control
	regLSR = 5 // line status

	regDLL = 0 // divisor latch low
	regDLM = 1 // divisor latch high
)

const (
	ierRxEnable   = 1 << 0
	fcrFIFOEnable = 1 << 0
	lcrEightBits  = 3
	lcrDLAB       = 1 << 7
	lsrRxReady    = 1 << 0
	lsrTxIdle     = 1 << 5
)

// divisor produces 38.4K baud from the 1.8432MHz UART clock.
const divisor = 592

// Port is a single 16550 instance.
type Port struct {
	base uintptr
}

// New returns a Port for the device at base. It does not touch the
// hardware.
func New(base uintptr) *Port {
	return &Port{base: base}
}

// Console returns the boot console port.
func Console() *Port {
	return New(uintptr(memlayout.UART0Base))
}

//go:nosplit
func (p *Port) read(reg uintptr) uint8 {
	return mmio.Read8(p.base + reg)
}

//go:nosplit
func (p *Port) write(reg uintptr, v uint8) {
	mmio.Write8(p.base+reg, v)
}

// Init programs word length, FIFOs, receive interrupts and the line
// speed. The receive interrupt still has to be routed by the PLIC
// before it reaches a hart.
func (p *Port) Init() {
	// 8 data bits, no parity, one stop bit.
	p.write(regLCR, lcrEightBits)

	// Reset and enable the FIFOs.
	p.write(regFCR, fcrFIFOEnable)

	// Interrupt when receive data is ready.
	p.write(regIER, ierRxEnable)

	// Latch the divisor, then restore normal register mapping.
	lcr := p.read(regLCR)
	p.write(regLCR, lcr|lcrDLAB)
	p.write(regDLL, uint8(divisor&0xff))
	p.write(regDLM, uint8(divisor>>8))
	p.write(regLCR, lcr)
}

// WriteByte spins until the transmit holding register is free, then
// writes c. Safe in trap context.
//
//go:nosplit
func (p *Port) WriteByte(c byte) {
	for p.read(regLSR)&lsrTxIdle == 0 {
	}
	p.write(regTHR, c)
}

// ReadByte returns the next received byte, if one is waiting. Safe in
// trap context.
//
//go:nosplit
func (p *Port) ReadByte() (byte, bool) {
	if p.read(regLSR)&lsrRxReady == 0 {
		return 0, false
	}
	return p.read(regRHR), true
}

// Write implements io.Writer.Write.
func (p *Port) Write(data []byte) (int, error) {
	for _, c := range data {
		p.WriteByte(c)
	}
	return len(data), nil
}

var _ io.Writer = (*Port)(nil)
