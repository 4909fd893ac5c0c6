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

package ring0

import (
	"bytes"
	"strings"
	"testing"
	"unsafe"
)

// The trampolines address the frame by fixed byte offsets. These
// goldens pin the layout; if one moves, the assembly reads garbage.
func TestTrapFrameOffsets(t *testing.T) {
	var tf TrapFrame
	for _, tc := range []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Regs", unsafe.Offsetof(tf.Regs), 0},
		{"KernelSATP", unsafe.Offsetof(tf.KernelSATP), 248},
		{"KernelSP", unsafe.Offsetof(tf.KernelSP), 256},
		{"KernelHartID", unsafe.Offsetof(tf.KernelHartID), 264},
		{"EPC", unsafe.Offsetof(tf.EPC), 272},
		{"Handler", unsafe.Offsetof(tf.Handler), 280},
		{"sizeof", unsafe.Sizeof(tf), 288},
	} {
		if tc.got != tc.want {
			t.Errorf("TrapFrame %s: got %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

// Register x_n lives at slot (n-1)*8 so the save sequence can be read
// against the ISA register table.
func TestRegisterSlots(t *testing.T) {
	for _, tc := range []struct {
		name string
		reg  int
		want uintptr
	}{
		{"ra", RegRA, 0},
		{"sp", RegSP, 8},
		{"gp", RegGP, 16},
		{"tp", RegTP, 24},
		{"t0", RegT0, 32},
		{"a0", RegA0, 72},
		{"a7", RegA7, 128},
		{"t6", RegT6, 240},
	} {
		var tf TrapFrame
		off := unsafe.Offsetof(tf.Regs) + uintptr(tc.reg)*8
		if off != tc.want {
			t.Errorf("slot %s: got offset %d, want %d", tc.name, off, tc.want)
		}
	}
	if got, want := uintptr(NumRegs*8), unsafe.Offsetof(TrapFrame{}.KernelSATP); got != want {
		t.Errorf("register file size: got %d, want %d", got, want)
	}
}

func TestEmitOffsets(t *testing.T) {
	var buf bytes.Buffer
	Emit(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "// Automatically generated, do not edit.\n") {
		t.Errorf("Emit output missing generated banner:\n%s", out)
	}
	for _, want := range []string{
		"#define TF_REGS    0x00",
		"#define TF_RA      0x00",
		"#define TF_SP      0x08",
		"#define TF_TP      0x18",
		"#define TF_A0      0x48",
		"#define TF_T6      0xf0",
		"#define TF_KSATP   0xf8",
		"#define TF_KSP     0x100",
		"#define TF_KHART   0x108",
		"#define TF_EPC     0x110",
		"#define TF_HANDLER 0x118",
		"#define TF_SIZE    0x120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit output missing %q:\n%s", want, out)
		}
	}
}
