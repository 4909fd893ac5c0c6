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

package kernel

import (
	"rvisor.dev/rvisor/pkg/ring0"
	"rvisor.dev/rvisor/pkg/riscv"
)

// Main panics; the kernel boots only on riscv64. The portable
// dispatch logic is still exercised on other platforms through the
// package tests.
func Main() {
	panic("kernel: Main requires riscv64")
}

// Resume panics; user contexts exist only on riscv64.
func Resume(tf *ring0.TrapFrame, pt riscv.Satp) {
	panic("kernel: Resume requires riscv64")
}
