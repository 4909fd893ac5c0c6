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

// The rvisor command is the development companion to the kernel: it
// generates the offset header the assembly is written against and
// inspects the fixed memory map, trap causes and the syscall ABI from
// the build host, without a cross toolchain.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(Offsets), "")
	subcommands.Register(new(Layout), "")
	subcommands.Register(new(Cause), "")
	subcommands.Register(new(Syscalls), "")

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	os.Exit(int(subcommands.Execute(context.Background())))
}

// Fatalf prints an error and exits. For errors below the command
// layer; flag misuse is handled by subcommands itself.
func Fatalf(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "rvisor: "+format+"\n", v...)
	os.Exit(128)
}
