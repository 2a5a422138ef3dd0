// Package proc models just enough of "the current process" for package vmm
// to ask whose address space a TLB fault belongs to. A real scheduler would
// own far more (pid, thread state, file table); none of that is in scope
// here, so Proc carries only the one field the VM core actually consumes.
package proc

import "vmcore/vm/vmm"

// Proc is a unit of address-space ownership. The VM core never constructs
// one itself; it only ever reads AddrSpace off of whichever Proc is current.
type Proc struct {
	Name      string
	AddrSpace *vmm.AddrSpace
}

var current *Proc

// Current returns the process running on this (simulated) CPU, or nil if
// none has been installed yet — the state early in boot, before the first
// process exists.
func Current() *Proc {
	return current
}

// SetCurrent installs p as the current process. Callers are expected to
// serialize this themselves; on real hardware it only ever happens inside a
// context switch with interrupts already disabled.
func SetCurrent(p *Proc) {
	current = p
}

// CurrentAddrSpace reports the address space of the current process. The ok
// result is false when there is no current process, or the current process
// has no address space yet (true for the kernel's own startup thread) —
// both cases package vmm treats as "no address space to fault against".
func CurrentAddrSpace() (ok bool, as *vmm.AddrSpace) {
	if current == nil || current.AddrSpace == nil {
		return false, nil
	}
	return true, current.AddrSpace
}
