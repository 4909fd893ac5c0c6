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
	"testing"

	"rvisor.dev/rvisor/pkg/memlayout"
)

// Two harts trapping at the same instant must never share stack bytes.
func TestStackRegionsDisjoint(t *testing.T) {
	for i := uint64(0); i < memlayout.MaxHarts; i++ {
		for j := i + 1; j < memlayout.MaxHarts; j++ {
			if StackRegion(i).Overlaps(StackRegion(j)) {
				t.Errorf("stacks for harts %d and %d overlap: %v, %v", i, j, StackRegion(i), StackRegion(j))
			}
		}
	}
}

func TestKernelStackTop(t *testing.T) {
	for hart := uint64(0); hart < memlayout.MaxHarts; hart++ {
		top := KernelStackTop(hart)
		if top%16 != 0 {
			t.Errorf("hart %d: stack top %#x not 16-byte aligned", hart, top)
		}
		r := StackRegion(hart)
		if top <= r.Base || top > r.End() {
			t.Errorf("hart %d: stack top %#x outside stack region %v", hart, top, r)
		}
		// The first push must still land inside the region.
		if !r.Contains(top - 8) {
			t.Errorf("hart %d: first push at %#x misses stack region %v", hart, top-8, r)
		}
	}
}

// Hart 0's stack occupies the base of the array; its top is the end of
// the first stack-size slice, modulo alignment. The boot assembly
// computes the same value from mhartid.
func TestHartZeroStackTop(t *testing.T) {
	r := StackRegion(0)
	if want := r.End() &^ 15; KernelStackTop(0) != want {
		t.Errorf("hart 0 stack top: got %#x, want %#x", KernelStackTop(0), want)
	}
	if r.Base != stacksBase() {
		t.Errorf("hart 0 stack base: got %#x, want %#x", r.Base, stacksBase())
	}
}

func TestHeapDisjointFromStacks(t *testing.T) {
	h := HeapRegion()
	if h.Size != memlayout.KernelHeapSize {
		t.Errorf("heap size: got %#x, want %#x", h.Size, memlayout.KernelHeapSize)
	}
	for hart := uint64(0); hart < memlayout.MaxHarts; hart++ {
		if h.Overlaps(StackRegion(hart)) {
			t.Errorf("heap %v overlaps hart %d stack %v", h, hart, StackRegion(hart))
		}
	}
}

func TestZeroHeap(t *testing.T) {
	kernelHeap[0] = 0xffffffffffffffff
	kernelHeap[len(kernelHeap)/2] = 0xabcd
	kernelHeap[len(kernelHeap)-1] = 1

	zeroHeap()

	for _, i := range []int{0, len(kernelHeap) / 2, len(kernelHeap) - 1} {
		if kernelHeap[i] != 0 {
			t.Errorf("kernelHeap[%d] = %#x after zeroHeap, want 0", i, kernelHeap[i])
		}
	}
}
