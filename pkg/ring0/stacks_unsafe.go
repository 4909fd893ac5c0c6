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
	"unsafe"

	"rvisor.dev/rvisor/pkg/memlayout"
)

//go:nosplit
func stacksBase() uint64 {
	return uint64(uintptr(unsafe.Pointer(&kernelStacks[0])))
}

//go:nosplit
func heapBase() uint64 {
	return uint64(uintptr(unsafe.Pointer(&kernelHeap[0])))
}

// zeroHeap scrubs the early heap. Runs on the boot hart only, before
// the heap has any consumer.
//
//go:nosplit
func zeroHeap() {
	start := uintptr(unsafe.Pointer(&kernelHeap[0]))
	memlayout.ZeroRange(start, start+uintptr(memlayout.KernelHeapSize))
}
