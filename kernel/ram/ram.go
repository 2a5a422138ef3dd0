// Package ram stands in for the bootloader-handoff RAM primitive that the VM
// core consumes but does not own: ram_getsize/ram_stealmem in the reference
// design. It is deliberately the simplest possible implementation — a
// monotonic bump allocator over a fixed arena, never freed — since richer
// behavior belongs to the real platform, not to this subsystem.
package ram

import (
	"unsafe"

	"vmcore/kernel/mem"
	"vmcore/kernel/mips"
)

// RAM is the interface package pmm bootstraps against. GetSize reports the
// half-open physical range available after the kernel image; StealMem
// monotonically carves npages page-aligned frames out of it and returns the
// physical address of the first, or 0 if the request can't be satisfied.
type RAM interface {
	GetSize() (first, last mips.PhysAddr)
	StealMem(npages int) mips.PhysAddr
}

// Sim is a host-memory stand-in for physical RAM: an arena allocated from
// the Go heap whose address range is reported as the "physical" range. Since
// package mips treats PaddrToKvaddr as the identity function, any byte
// written through a PhysAddr returned by Sim is visible at the same address
// without any further translation — which is exactly the property a direct-
// mapped kernel window provides on real hardware.
type Sim struct {
	arena  []byte
	base   mips.PhysAddr
	stolen uintptr
}

// NewSim allocates a simulated RAM arena of the given size, rounded up to a
// whole number of pages.
func NewSim(size uintptr) *Sim {
	size = (size + uintptr(mem.PageSize) - 1) &^ (uintptr(mem.PageSize) - 1)
	arena := make([]byte, size)
	return &Sim{
		arena: arena,
		base:  mips.PhysAddr(uintptr(unsafe.Pointer(&arena[0]))),
	}
}

// GetSize implements RAM.
func (s *Sim) GetSize() (first, last mips.PhysAddr) {
	return s.base, s.base + mips.PhysAddr(len(s.arena))
}

// StealMem implements RAM.
func (s *Sim) StealMem(npages int) mips.PhysAddr {
	if npages <= 0 {
		return 0
	}

	need := uintptr(npages) * uintptr(mem.PageSize)
	if s.stolen+need > uintptr(len(s.arena)) {
		return 0
	}

	addr := s.base + mips.PhysAddr(s.stolen)
	s.stolen += need
	return addr
}
