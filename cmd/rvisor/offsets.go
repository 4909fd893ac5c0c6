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

	"github.com/google/subcommands"
	"rvisor.dev/rvisor/pkg/clint"
	"rvisor.dev/rvisor/pkg/memlayout"
	"rvisor.dev/rvisor/pkg/ring0"
)

// Offsets implements subcommands.Command for the "offsets" command.
type Offsets struct {
	out string
}

// Name implements subcommands.Command.Name.
func (*Offsets) Name() string {
	return "offsets"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Offsets) Synopsis() string {
	return "print the generated constants the assembly is written against"
}

// Usage implements subcommands.Command.Usage.
func (*Offsets) Usage() string {
	return `offsets [-out <file>] - print the layout constants, trapframe offsets and timer scratch offsets as #defines.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (o *Offsets) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.out, "out", "", "Output file. Defaults to stdout.")
}

// Execute implements subcommands.Command.Execute.
func (o *Offsets) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	w := io.Writer(os.Stdout)
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			Fatalf("creating %q: %v", o.out, err)
		}
		defer f.Close()
		w = f
	}
	writeOffsets(w)
	return subcommands.ExitSuccess
}

// writeOffsets prints every generated table the assembly consumes,
// in dependency order.
func writeOffsets(w io.Writer) {
	memlayout.Emit(w)
	fmt.Fprintln(w)
	ring0.Emit(w)
	fmt.Fprintln(w)
	clint.Emit(w)
}
