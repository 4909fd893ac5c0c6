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

package kernel

import "fmt"

// Syscall identifies an environment call by the number user code
// passes in a7.
type Syscall uint64

// The user ABI's syscall numbers.
const (
	SysFork Syscall = iota
	SysExit
	SysWait
	SysPipe
	SysRead
	SysWrite
	SysClose
	SysKill
	SysExec
	SysOpen
	SysMknod
	SysUnlink
	SysFstat
	SysLink
	SysMkdir
	SysChdir
	SysDup
	SysGetpid
	SysSbrk
	SysSleep
	SysUptime

	numSyscalls = iota
)

var syscallNames = [numSyscalls]string{
	SysFork:   "SysFork",
	SysExit:   "SysExit",
	SysWait:   "SysWait",
	SysPipe:   "SysPipe",
	SysRead:   "SysRead",
	SysWrite:  "SysWrite",
	SysClose:  "SysClose",
	SysKill:   "SysKill",
	SysExec:   "SysExec",
	SysOpen:   "SysOpen",
	SysMknod:  "SysMknod",
	SysUnlink: "SysUnlink",
	SysFstat:  "SysFstat",
	SysLink:   "SysLink",
	SysMkdir:  "SysMkdir",
	SysChdir:  "SysChdir",
	SysDup:    "SysDup",
	SysGetpid: "SysGetpid",
	SysSbrk:   "SysSbrk",
	SysSleep:  "SysSleep",
	SysUptime: "SysUptime",
}

// Valid reports whether s is a number the ABI defines.
func (s Syscall) Valid() bool {
	return s < numSyscalls
}

// String implements fmt.Stringer.String.
func (s Syscall) String() string {
	if s.Valid() {
		return syscallNames[s]
	}
	return fmt.Sprintf("syscall(%d)", uint64(s))
}

// Syscalls returns the defined syscall numbers in ABI order.
func Syscalls() []Syscall {
	all := make([]Syscall, numSyscalls)
	for i := range all {
		all[i] = Syscall(i)
	}
	return all
}
