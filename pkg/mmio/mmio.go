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

// Package mmio accesses memory-mapped device registers.
//
// Each access compiles to a single load or store of the stated width,
// so a register is never read or written piecemeal and never elided.
// On architectures other than riscv64 the accessors go straight
// through memory, which lets device models in tests be backed by
// ordinary byte slices.
package mmio
