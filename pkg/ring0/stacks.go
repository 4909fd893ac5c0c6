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

import "rvisor.dev/rvisor/pkg/memlayout"

// kernelStacks backs every hart's kernel stack, one fixed-size slice
// per hart, contiguous. The boot entry derives its stack pointer from
// this array and mhartid alone, which keeps hart stacks disjoint with
// no cross-hart coordination. Declared as uint64 words for alignment.
var kernelStacks [memlayout.MaxHarts * memlayout.KernelStackSize / 8]uint64

// kernelHeap is the early scratch heap. Hart 0 zeroes it during
// machine-mode boot, before any other hart leaves its gate.
var kernelHeap [memlayout.KernelHeapSize / 8]uint64

// KernelStackTop returns the initial stack pointer for hart: the top
// of its slice of the stacks array, rounded down to the 16-byte
// alignment the ABI requires. The boot entry computes the same value
// in assembly; trap arming reuses this one.
//
//go:nosplit
func KernelStackTop(hart uint64) uint64 {
	return (stacksBase() + (hart+1)*memlayout.KernelStackSize) &^ 15
}

// StackRegion returns the span of hart's kernel stack.
func StackRegion(hart uint64) memlayout.Region {
	return memlayout.Region{
		Base: stacksBase() + hart*memlayout.KernelStackSize,
		Size: memlayout.KernelStackSize,
	}
}

// HeapRegion returns the span of the early heap.
func HeapRegion() memlayout.Region {
	return memlayout.Region{
		Base: heapBase(),
		Size: memlayout.KernelHeapSize,
	}
}
