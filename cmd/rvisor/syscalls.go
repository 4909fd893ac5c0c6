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
	"rvisor.dev/rvisor/pkg/kernel"
)

// Syscalls implements subcommands.Command for the "syscalls" command.
type Syscalls struct{}

// Name implements subcommands.Command.Name.
func (*Syscalls) Name() string {
	return "syscalls"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Syscalls) Synopsis() string {
	return "print the syscall ABI"
}

// Usage implements subcommands.Command.Usage.
func (*Syscalls) Usage() string {
	return `syscalls - print the numbers user code passes in a7 and the names the dispatcher logs them under.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Syscalls) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Syscalls) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	writeSyscalls(os.Stdout)
	return subcommands.ExitSuccess
}

func writeSyscalls(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "NUM\tNAME\n")
	for _, s := range kernel.Syscalls() {
		fmt.Fprintf(tw, "%d\t%v\n", uint64(s), s)
	}
	tw.Flush()
}
