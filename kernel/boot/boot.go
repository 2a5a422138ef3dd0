// Package boot wires the VM core's packages together the way a real boot
// sequence would: install the RAM collaborator, bootstrap the coremap, and
// point the fault handler at the current-process lookup. None of the
// individual packages know about each other's existence beyond the
// interfaces and function-variable seams they expose; this is the one
// place that plugs them together.
package boot

import (
	"vmcore/kernel"
	"vmcore/kernel/proc"
	"vmcore/kernel/ram"
	"vmcore/vm/pmm"
	"vmcore/vm/vmm"
)

// Init brings the VM core up: bootstraps the coremap against r and wires
// package vmm's fault handler to ask package proc for the current address
// space. Callers run this once, before any user address space is created.
func Init(r ram.RAM) *kernel.Error {
	pmm.SetRAM(r)
	if err := pmm.Bootstrap(r); err != nil {
		return err
	}

	vmm.SetCurrentAddrSpaceProvider(proc.CurrentAddrSpace)
	return nil
}
