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

package memlayout

import (
	"unsafe"
)

// ZeroRange clears [start, end). An empty or inverted range is a
// no-op. This is the same loop the boot entry runs over the heap
// arena, kept callable from Go for scrubbing recycled pages and
// register save areas.
//
//go:nosplit
func ZeroRange(start, end uintptr) {
	for ; start+8 <= end; start += 8 {
		*(*uint64)(unsafe.Pointer(start)) = 0
	}
	for ; start < end; start++ {
		*(*uint8)(unsafe.Pointer(start)) = 0
	}
}
