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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"rvisor.dev/rvisor/pkg/memlayout"
)

// Layout implements subcommands.Command for the "layout" command.
type Layout struct{}

// Name implements subcommands.Command.Name.
func (*Layout) Name() string {
	return "layout"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Layout) Synopsis() string {
	return "print the fixed memory map of the qemu virt machine"
}

// Usage implements subcommands.Command.Usage.
func (*Layout) Usage() string {
	return `layout - print the physical regions, the fixed virtual pages and the per-hart carve-outs, then validate them against each other.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Layout) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Layout) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	writeLayout(os.Stdout)
	if err := memlayout.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "layout invalid: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("layout valid")
	return subcommands.ExitSuccess
}

// writeLayout prints the link-time map. Only constants appear here;
// run-time addresses (the stack and heap arrays) depend on the image
// link and have no meaning on the build host.
func writeLayout(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "REGION\tBASE\tEND\tSIZE\n")
	for _, row := range []struct {
		name string
		r    memlayout.Region
	}{
		{"clint", memlayout.Region{Base: memlayout.CLINTBase, Size: memlayout.CLINTSize}},
		{"plic", memlayout.Region{Base: memlayout.PLICBase, Size: memlayout.PLICSize}},
		{"uart0", memlayout.Region{Base: memlayout.UART0Base, Size: memlayout.PageSize}},
		{"virtio0", memlayout.Region{Base: memlayout.VirtIO0Base, Size: memlayout.PageSize}},
		{"ram", memlayout.RAMRegion()},
		{"trapframe (va)", memlayout.Region{Base: memlayout.TrapFrameVA, Size: memlayout.PageSize}},
		{"trampoline (va)", memlayout.Region{Base: memlayout.TrampolineVA, Size: memlayout.PageSize}},
	} {
		fmt.Fprintf(tw, "%s\t%#x\t%#x\t%#x\n", row.name, row.r.Base, row.r.End(), row.r.Size)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nharts %d, kernel stack %#x per hart, kernel heap %#x\n",
		memlayout.MaxHarts, memlayout.KernelStackSize, memlayout.KernelHeapSize)
}
