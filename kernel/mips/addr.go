// Package mips models the MIPS-specific hardware collaborators the VM core
// depends on but does not own: physical/virtual address types, the
// direct-mapped kernel window, and the software TLB's register shape. None
// of this talks to real COP0 registers — it's a software model of them,
// which is faithful to the hardware it stands in for: on this ISA the TLB
// genuinely is "a cache of mappings managed entirely by kernel software",
// not a hardware page-table walker.
package mips

import "vmcore/kernel/mem"

// PhysAddr is a physical byte address. Always page-aligned when it names a
// frame.
type PhysAddr uintptr

// VirtAddr is a virtual byte address, either a user address or a kernel
// virtual address obtained via PaddrToKvaddr.
type VirtAddr uintptr

const (
	// PageShift is log2(PageSize); see mem.PageShift.
	PageShift = mem.PageShift

	// PageSize mirrors mem.PageSize in the address-type domain so callers
	// don't have to convert back and forth between mem.Size and uintptr.
	PageSize = uintptr(mem.PageSize)

	// PageFrame masks an address down to its containing page.
	PageFrame = ^(PageSize - 1)

	// UserStackTop is the fixed top-of-stack address handed out by
	// DefineStack. The stack grows down from here; it never grows
	// beyond StackPages (see package vmm).
	UserStackTop = VirtAddr(0x80000000)
)

// PaddrToKvaddr maps a physical address into the permanent kernel window.
// On real MIPS this is a fixed bitwise offset into kseg0; here, since the
// "physical memory" backing a PhysAddr is itself ordinary host memory
// obtained via package ram, the kernel window coincides with the physical
// address itself and the mapping is the identity function.
func PaddrToKvaddr(p PhysAddr) VirtAddr {
	return VirtAddr(p)
}

// PageFrameOf masks a virtual address down to the page containing it.
func PageFrameOf(v VirtAddr) VirtAddr {
	return v &^ VirtAddr(PageSize-1)
}
