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

package mmio

import (
	"testing"
	"unsafe"
)

func TestWidths(t *testing.T) {
	var regs [4]uint64
	base := uintptr(unsafe.Pointer(&regs[0]))

	Write8(base, 0xa5)
	if got := Read8(base); got != 0xa5 {
		t.Errorf("Read8 = %#x, want 0xa5", got)
	}
	if regs[0] != 0xa5 {
		t.Errorf("Write8 stored %#x, want exactly one byte", regs[0])
	}

	Write32(base+8, 0xdeadbeef)
	if got := Read32(base + 8); got != 0xdeadbeef {
		t.Errorf("Read32 = %#x, want 0xdeadbeef", got)
	}
	if regs[1] != 0xdeadbeef {
		t.Errorf("Write32 touched high half: %#x", regs[1])
	}

	Write64(base+16, 0x0123456789abcdef)
	if got := Read64(base + 16); got != 0x0123456789abcdef {
		t.Errorf("Read64 = %#x", got)
	}
}
