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

//go:build !riscv64
// +build !riscv64

package riscv

// The register accessors exist on other architectures so that packages
// built around them still compile and test there. Reaching one at
// runtime is a bug.

func unsupported() {
	panic("riscv: register access on non-riscv64 build")
}

// ReadSstatus is not supported on this architecture.
func ReadSstatus() uint64 { unsupported(); return 0 }

// WriteSstatus is not supported on this architecture.
func WriteSstatus(v uint64) { unsupported() }

// ReadSie is not supported on this architecture.
func ReadSie() uint64 { unsupported(); return 0 }

// WriteSie is not supported on this architecture.
func WriteSie(v uint64) { unsupported() }

// ReadSip is not supported on this architecture.
func ReadSip() uint64 { unsupported(); return 0 }

// ClearPendingSoftware is not supported on this architecture.
func ClearPendingSoftware() { unsupported() }

// WriteStvec is not supported on this architecture.
func WriteStvec(addr uintptr) { unsupported() }

// ReadStvec is not supported on this architecture.
func ReadStvec() uintptr { unsupported(); return 0 }

// ReadSscratch is not supported on this architecture.
func ReadSscratch() uintptr { unsupported(); return 0 }

// WriteSscratch is not supported on this architecture.
func WriteSscratch(v uintptr) { unsupported() }

// ReadSepc is not supported on this architecture.
func ReadSepc() uintptr { unsupported(); return 0 }

// WriteSepc is not supported on this architecture.
func WriteSepc(v uintptr) { unsupported() }

// ReadScause is not supported on this architecture.
func ReadScause() Cause { unsupported(); return 0 }

// ReadStval is not supported on this architecture.
func ReadStval() uint64 { unsupported(); return 0 }

// ReadSatp is not supported on this architecture.
func ReadSatp() Satp { unsupported(); return 0 }

// InstallPageTable is not supported on this architecture.
func InstallPageTable(s Satp) { unsupported() }

// ReadMstatus is not supported on this architecture.
func ReadMstatus() uint64 { unsupported(); return 0 }

// WriteMstatus is not supported on this architecture.
func WriteMstatus(v uint64) { unsupported() }

// WriteMedeleg is not supported on this architecture.
func WriteMedeleg(v uint64) { unsupported() }

// WriteMideleg is not supported on this architecture.
func WriteMideleg(v uint64) { unsupported() }

// ReadMie is not supported on this architecture.
func ReadMie() uint64 { unsupported(); return 0 }

// WriteMie is not supported on this architecture.
func WriteMie(v uint64) { unsupported() }

// WriteMtvec is not supported on this architecture.
func WriteMtvec(addr uintptr) { unsupported() }

// WriteMscratch is not supported on this architecture.
func WriteMscratch(v uintptr) { unsupported() }

// WriteMepc is not supported on this architecture.
func WriteMepc(v uintptr) { unsupported() }

// ReadMhartid is not supported on this architecture.
func ReadMhartid() uint64 { unsupported(); return 0 }

// HartID is not supported on this architecture.
func HartID() uint64 { unsupported(); return 0 }

// SetHartID is not supported on this architecture.
func SetHartID(id uint64) { unsupported() }

// IntrOn is not supported on this architecture.
func IntrOn() { unsupported() }

// IntrOff is not supported on this architecture.
func IntrOff() { unsupported() }

// IntrGet is not supported on this architecture.
func IntrGet() bool { unsupported(); return false }

// Halt is not supported on this architecture.
func Halt() { unsupported() }

// Mret is not supported on this architecture.
func Mret() { unsupported() }
