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

package mmio

// Implemented in mmio_impl_riscv64.s.

// Read8 loads one byte from a device register.
func Read8(addr uintptr) uint8

// Write8 stores one byte to a device register.
func Write8(addr uintptr, v uint8)

// Read32 loads a 32-bit device register.
func Read32(addr uintptr) uint32

// Write32 stores a 32-bit device register.
func Write32(addr uintptr, v uint32)

// Read64 loads a 64-bit device register.
func Read64(addr uintptr) uint64

// Write64 stores a 64-bit device register.
func Write64(addr uintptr, v uint64)
