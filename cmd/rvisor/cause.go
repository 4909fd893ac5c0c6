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
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/google/subcommands"
	"rvisor.dev/rvisor/pkg/riscv"
)

// Cause implements subcommands.Command for the "cause" command.
type Cause struct{}

// Name implements subcommands.Command.Name.
func (*Cause) Name() string {
	return "cause"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Cause) Synopsis() string {
	return "decode scause values"
}

// Usage implements subcommands.Command.Usage.
func (*Cause) Usage() string {
	return `cause <value>... - decode raw scause values (decimal or 0x hex) as read from a trap or a register dump.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Cause) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Cause) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "VALUE\tKIND\tCODE\tNAME\n")
	for _, arg := range f.Args() {
		c, err := parseCause(arg)
		if err != nil {
			Fatalf("bad cause %q: %v", arg, err)
		}
		fmt.Fprintln(tw, describeCause(c))
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

func parseCause(s string) (riscv.Cause, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return riscv.Cause(v), nil
}

func describeCause(c riscv.Cause) string {
	kind := "exception"
	if c.IsInterrupt() {
		kind = "interrupt"
	}
	return fmt.Sprintf("%#x\t%s\t%d\t%v", uint64(c), kind, c.Code(), c)
}
