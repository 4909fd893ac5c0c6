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

package clint

import "unsafe"

// scratchAddr returns the address of hart's scratch area for mscratch.
// The kernel runs on an identity mapping, so a Go pointer doubles as
// the physical address the machine-mode trampoline will use.
//
//go:nosplit
func scratchAddr(hart int) uintptr {
	return uintptr(unsafe.Pointer(&scratches[hart]))
}
