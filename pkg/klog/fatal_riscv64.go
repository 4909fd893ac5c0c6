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

package klog

import "rvisor.dev/rvisor/pkg/riscv"

// die parks the hart. The message has already been emitted and there
// is nothing to unwind to.
func die(string) {
	riscv.IntrOff()
	for {
		riscv.Halt()
	}
}
