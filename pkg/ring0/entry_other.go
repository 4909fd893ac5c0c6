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

package ring0

import (
	"errors"

	"rvisor.dev/rvisor/pkg/memlayout"
)

// The entry points exist only on riscv64. These stubs keep the
// package loadable on development hosts, where only the frame and
// layout logic is exercised.

var errNoTrampoline = errors.New("ring0: trampoline requires riscv64")

// AddrOfKentry returns 0 on non-riscv64 hosts.
func AddrOfKentry() uintptr { return 0 }

// AddrOfKernelvec returns 0 on non-riscv64 hosts.
func AddrOfKernelvec() uintptr { return 0 }

// Trampoline returns the zero region on non-riscv64 hosts.
func Trampoline() memlayout.Region { return memlayout.Region{} }

// VerifyTrampoline always fails on non-riscv64 hosts.
func VerifyTrampoline() error { return errNoTrampoline }

// MachineStart panics; machine mode exists only on riscv64.
func MachineStart() { panic("ring0: MachineStart requires riscv64") }

// SwitchToUser panics; user mode exists only on riscv64.
func SwitchToUser(opts SwitchOpts) { panic("ring0: SwitchToUser requires riscv64") }
