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
	"fmt"
)

// Region is a half-open address range [Base, Base+Size).
type Region struct {
	Base uint64
	Size uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Base + r.Size
}

// Contains reports whether addr falls inside the region.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.Base && addr < r.End()
}

// Overlaps reports whether the two regions share any address.
func (r Region) Overlaps(o Region) bool {
	return r.Base < o.End() && o.Base < r.End()
}

// String implements fmt.Stringer.String.
func (r Region) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Base, r.End())
}

// PageAligned reports whether both ends of the region sit on page
// boundaries.
func (r Region) PageAligned() bool {
	return r.Base%PageSize == 0 && r.Size%PageSize == 0
}

// PageDown rounds an address down to its page base.
func PageDown(addr uint64) uint64 {
	return addr &^ (PageSize - 1)
}

// PageUp rounds an address up to the next page boundary.
func PageUp(addr uint64) uint64 {
	return (addr + PageSize - 1) &^ (PageSize - 1)
}

// PageOffset returns the address's offset within its page.
func PageOffset(addr uint64) uint64 {
	return addr & (PageSize - 1)
}
