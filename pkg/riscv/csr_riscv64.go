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
// +build riscv64

package riscv

// The functions below are implemented in csr_impl_riscv64.s. Each one
// is a single CSR instruction plus the move to or from the Go frame;
// none of them may be called before the register file is sane, which
// in practice means after the boot entry has established a stack.

func readSstatus() uintptr
func writeSstatus(v uintptr)
func readSie() uintptr
func writeSie(v uintptr)
func readSip() uintptr
func writeSip(v uintptr)
func writeStvec(v uintptr)
func readStvec() uintptr
func readSscratch() uintptr
func writeSscratch(v uintptr)
func readSepc() uintptr
func writeSepc(v uintptr)
func readScause() uintptr
func readStval() uintptr
func readSatp() uintptr
func writeSatp(v uintptr)
func readMstatus() uintptr
func writeMstatus(v uintptr)
func writeMedeleg(v uintptr)
func writeMideleg(v uintptr)
func readMie() uintptr
func writeMie(v uintptr)
func writeMtvec(v uintptr)
func writeMscratch(v uintptr)
func writeMepc(v uintptr)
func readMhartid() uintptr
func readTp() uintptr
func writeTp(v uintptr)
func sfenceVMA()
func wfi()
func mret()

// ReadSstatus returns the supervisor status register.
//
//go:nosplit
func ReadSstatus() uint64 {
	return uint64(readSstatus())
}

// WriteSstatus replaces the supervisor status register.
//
//go:nosplit
func WriteSstatus(v uint64) {
	writeSstatus(uintptr(v))
}

// ReadSie returns the supervisor interrupt-enable register.
//
//go:nosplit
func ReadSie() uint64 {
	return uint64(readSie())
}

// WriteSie replaces the supervisor interrupt-enable register.
//
//go:nosplit
func WriteSie(v uint64) {
	writeSie(uintptr(v))
}

// ReadSip returns the supervisor interrupt-pending register.
//
//go:nosplit
func ReadSip() uint64 {
	return uint64(readSip())
}

// ClearPendingSoftware acknowledges a supervisor software interrupt.
//
//go:nosplit
func ClearPendingSoftware() {
	writeSip(uintptr(uint64(readSip()) &^ BitSSIE))
}

// WriteStvec installs the supervisor trap vector. The address must be
// four-byte aligned; the low bits select direct mode.
//
//go:nosplit
func WriteStvec(addr uintptr) {
	writeStvec(addr)
}

// ReadStvec returns the supervisor trap vector.
//
//go:nosplit
func ReadStvec() uintptr {
	return readStvec()
}

// ReadSscratch returns the supervisor scratch register.
//
//go:nosplit
func ReadSscratch() uintptr {
	return readSscratch()
}

// WriteSscratch replaces the supervisor scratch register.
//
//go:nosplit
func WriteSscratch(v uintptr) {
	writeSscratch(v)
}

// ReadSepc returns the faulting or interrupted program counter.
//
//go:nosplit
func ReadSepc() uintptr {
	return readSepc()
}

// WriteSepc sets the program counter that sret will return to.
//
//go:nosplit
func WriteSepc(v uintptr) {
	writeSepc(v)
}

// ReadScause returns the decoded supervisor trap cause.
//
//go:nosplit
func ReadScause() Cause {
	return Cause(readScause())
}

// ReadStval returns the trap value register, typically the faulting
// address for page faults.
//
//go:nosplit
func ReadStval() uint64 {
	return uint64(readStval())
}

// ReadSatp returns the current address-translation token.
//
//go:nosplit
func ReadSatp() Satp {
	return Satp(readSatp())
}

// InstallPageTable switches satp to the given token. The write is
// bracketed by address-translation fences so that stale translations
// from the outgoing address space are never used under the incoming
// one.
//
//go:nosplit
func InstallPageTable(s Satp) {
	sfenceVMA()
	writeSatp(uintptr(s))
	sfenceVMA()
}

// ReadMstatus returns the machine status register.
//
//go:nosplit
func ReadMstatus() uint64 {
	return uint64(readMstatus())
}

// WriteMstatus replaces the machine status register.
//
//go:nosplit
func WriteMstatus(v uint64) {
	writeMstatus(uintptr(v))
}

// WriteMedeleg delegates exceptions to supervisor mode.
//
//go:nosplit
func WriteMedeleg(v uint64) {
	writeMedeleg(uintptr(v))
}

// WriteMideleg delegates interrupts to supervisor mode.
//
//go:nosplit
func WriteMideleg(v uint64) {
	writeMideleg(uintptr(v))
}

// ReadMie returns the machine interrupt-enable register.
//
//go:nosplit
func ReadMie() uint64 {
	return uint64(readMie())
}

// WriteMie replaces the machine interrupt-enable register.
//
//go:nosplit
func WriteMie(v uint64) {
	writeMie(uintptr(v))
}

// WriteMtvec installs the machine trap vector.
//
//go:nosplit
func WriteMtvec(addr uintptr) {
	writeMtvec(addr)
}

// WriteMscratch stashes a per-hart pointer readable from the machine
// trap vector.
//
//go:nosplit
func WriteMscratch(v uintptr) {
	writeMscratch(v)
}

// WriteMepc sets the program counter that mret will land on.
//
//go:nosplit
func WriteMepc(v uintptr) {
	writeMepc(v)
}

// ReadMhartid returns the hardware hart identifier. Readable from
// machine mode only.
//
//go:nosplit
func ReadMhartid() uint64 {
	return uint64(readMhartid())
}

// HartID returns the identifier of the executing hart, as cached in
// the thread-pointer register during boot.
//
//go:nosplit
func HartID() uint64 {
	return uint64(readTp())
}

// SetHartID caches the hart identifier in the thread-pointer register.
// Called once per hart while still in machine mode, where mhartid is
// readable.
//
//go:nosplit
func SetHartID(id uint64) {
	writeTp(uintptr(id))
}

// IntrOn enables supervisor interrupts on the executing hart.
//
//go:nosplit
func IntrOn() {
	writeSstatus(uintptr(uint64(readSstatus()) | SstatusSIE))
}

// IntrOff disables supervisor interrupts on the executing hart.
//
//go:nosplit
func IntrOff() {
	writeSstatus(uintptr(uint64(readSstatus()) &^ SstatusSIE))
}

// IntrGet reports whether supervisor interrupts are enabled.
//
//go:nosplit
func IntrGet() bool {
	return uint64(readSstatus())&SstatusSIE != 0
}

// Halt waits for an interrupt. It returns once one is pending, whether
// or not it was taken.
//
//go:nosplit
func Halt() {
	wfi()
}

// Mret drops from machine mode into the mode selected by mstatus.MPP,
// resuming at mepc. It does not return to the caller.
//
//go:nosplit
func Mret() {
	mret()
}
