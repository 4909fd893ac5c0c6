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
	"fmt"
	"io"
	"reflect"
)

// Emit prints the frame layout constants the assembly uses. Register
// x_n sits at TF_REGS + (n-1)*8; the named lines below are the
// landmarks the trampolines and the vector address directly.
func Emit(w io.Writer) {
	fmt.Fprintf(w, "// Automatically generated, do not edit.\n")

	tf := &TrapFrame{}
	base := reflect.ValueOf(tf).Pointer()
	fmt.Fprintf(w, "\n// TrapFrame offsets.\n")
	fmt.Fprintf(w, "#define TF_REGS    0x%02x\n", reflect.ValueOf(&tf.Regs).Pointer()-base)
	fmt.Fprintf(w, "#define TF_RA      0x%02x\n", reflect.ValueOf(&tf.Regs[RegRA]).Pointer()-base)
	fmt.Fprintf(w, "#define TF_SP      0x%02x\n", reflect.ValueOf(&tf.Regs[RegSP]).Pointer()-base)
	fmt.Fprintf(w, "#define TF_TP      0x%02x\n", reflect.ValueOf(&tf.Regs[RegTP]).Pointer()-base)
	fmt.Fprintf(w, "#define TF_A0      0x%02x\n", reflect.ValueOf(&tf.Regs[RegA0]).Pointer()-base)
	fmt.Fprintf(w, "#define TF_T6      0x%02x\n", reflect.ValueOf(&tf.Regs[RegT6]).Pointer()-base)
	fmt.Fprintf(w, "#define TF_KSATP   0x%02x\n", reflect.ValueOf(&tf.KernelSATP).Pointer()-base)
	fmt.Fprintf(w, "#define TF_KSP     0x%02x\n", reflect.ValueOf(&tf.KernelSP).Pointer()-base)
	fmt.Fprintf(w, "#define TF_KHART   0x%02x\n", reflect.ValueOf(&tf.KernelHartID).Pointer()-base)
	fmt.Fprintf(w, "#define TF_EPC     0x%02x\n", reflect.ValueOf(&tf.EPC).Pointer()-base)
	fmt.Fprintf(w, "#define TF_HANDLER 0x%02x\n", reflect.ValueOf(&tf.Handler).Pointer()-base)
	fmt.Fprintf(w, "#define TF_SIZE    0x%02x\n", reflect.TypeOf(*tf).Size())
}
