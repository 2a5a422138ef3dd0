// Package vmm implements the per-process address space and the TLB-miss
// fault handler that resolves it. A process has at most two memory regions
// (conventionally text and data) plus a fixed-size stack; all three are
// represented as flat vectors of physical frame addresses indexed by
// virtual page number within the region.
package vmm

import (
	"vmcore/kernel"
	"vmcore/kernel/mem"
	"vmcore/kernel/mips"
	"vmcore/vm/pmm"
)

// StackPages is the fixed number of frames backing every process's stack.
// The spec does not support growing stacks, so this is never exceeded.
const StackPages = 12

// AddrSpace is one process's virtual memory: two code/data regions and a
// stack, each an owned vector of physical frame addresses. A zero entry in
// any page table means "not yet allocated"; non-zero entries are page-
// aligned and exclusively owned by this address space.
type AddrSpace struct {
	VBase1     mips.VirtAddr
	NPages1    uintptr
	PageTable1 []mips.PhysAddr

	VBase2     mips.VirtAddr
	NPages2    uintptr
	PageTable2 []mips.PhysAddr

	PageTable3 []mips.PhysAddr

	// LoadELFCompleted gates read-only enforcement of region 1 in the
	// fault handler. False from creation until CompleteLoad runs.
	LoadELFCompleted bool

	regionsDefined int
}

// NewAddrSpace returns a zero-initialized address space: no regions, no
// frames, LoadELFCompleted false.
func NewAddrSpace() *AddrSpace {
	return &AddrSpace{}
}

// DefineRegion records a memory region, rounding vaddr down and vaddr+size
// up to page boundaries. The first call fills region 1, the second fills
// region 2; a third returns ErrUnimplemented. Protection bits are accepted
// and ignored: every page is mapped read-write at install time, except
// that region 1 becomes read-only once the owning address space's
// LoadELFCompleted flag is set (see Fault).
func (as *AddrSpace) DefineRegion(vaddr mips.VirtAddr, size uintptr, r, w, x bool) *kernel.Error {
	base := mips.PageFrameOf(vaddr)
	end := (uintptr(vaddr) + size + mips.PageSize - 1) &^ (mips.PageSize - 1)
	npages := (end - uintptr(base)) / mips.PageSize

	switch as.regionsDefined {
	case 0:
		as.VBase1 = base
		as.NPages1 = npages
		as.PageTable1 = make([]mips.PhysAddr, npages)
	case 1:
		as.VBase2 = base
		as.NPages2 = npages
		as.PageTable2 = make([]mips.PhysAddr, npages)
	default:
		return ErrUnimplemented
	}
	as.regionsDefined++
	return nil
}

// PrepareLoad allocates and zero-fills one physical frame for every page of
// both regions, then allocates and zero-fills the stack's StackPages
// frames. On any allocation failure it returns ErrNoMem; the caller is
// responsible for destroying the partially populated address space.
func (as *AddrSpace) PrepareLoad() *kernel.Error {
	if err := fillPageTable(as.PageTable1); err != nil {
		return err
	}
	if err := fillPageTable(as.PageTable2); err != nil {
		return err
	}

	as.PageTable3 = make([]mips.PhysAddr, StackPages)
	return fillPageTable(as.PageTable3)
}

// fillPageTable allocates and zeroes one frame for every entry still at 0.
func fillPageTable(table []mips.PhysAddr) *kernel.Error {
	for i := range table {
		if table[i] != 0 {
			continue
		}
		kva := pmm.AllocKPages(1)
		if kva == 0 {
			return ErrNoMem
		}
		mem.Memset(uintptr(kva), 0, mips.PageSize)
		table[i] = mips.PhysAddr(kva)
	}
	return nil
}

// CompleteLoad marks ELF loading finished. The fault handler consults this
// flag to enforce read-only text: before this call, region 1 must remain
// writable so the loader can populate it.
func (as *AddrSpace) CompleteLoad() *kernel.Error {
	as.LoadELFCompleted = true
	return nil
}

// DefineStack asserts the stack frames are already allocated and returns
// the fixed architectural top-of-stack address.
func (as *AddrSpace) DefineStack() (mips.VirtAddr, *kernel.Error) {
	kernel.Assert(as.PageTable3 != nil, "vmm", "DefineStack called before PrepareLoad")
	return mips.UserStackTop, nil
}

// Copy deep-copies old into a fresh address space: new page-table vectors
// backed by freshly allocated, independently owned frames, with the byte
// contents of every old frame copied across via their kernel virtual
// addresses. On allocation failure the partially built copy is destroyed
// and ErrNoMem is returned.
func (as *AddrSpace) Copy() (*AddrSpace, *kernel.Error) {
	newAS := NewAddrSpace()
	newAS.VBase1, newAS.NPages1 = as.VBase1, as.NPages1
	newAS.VBase2, newAS.NPages2 = as.VBase2, as.NPages2
	newAS.regionsDefined = as.regionsDefined
	newAS.PageTable1 = make([]mips.PhysAddr, len(as.PageTable1))
	newAS.PageTable2 = make([]mips.PhysAddr, len(as.PageTable2))

	if err := newAS.PrepareLoad(); err != nil {
		newAS.Destroy()
		return nil, err
	}

	copyPageTable(newAS.PageTable1, as.PageTable1)
	copyPageTable(newAS.PageTable2, as.PageTable2)
	copyPageTable(newAS.PageTable3, as.PageTable3)

	// newAS.LoadELFCompleted stays false regardless of as's own value: a
	// forked child always starts as if freshly created, with region 1
	// writable, and only goes read-only once it calls CompleteLoad itself.
	return newAS, nil
}

// copyPageTable copies one page of bytes from each src frame's KVA to the
// corresponding dst frame's KVA. Both tables must already be fully
// allocated and of equal length.
func copyPageTable(dst, src []mips.PhysAddr) {
	for i := range src {
		dstKVA := uintptr(mips.PaddrToKvaddr(dst[i]))
		srcKVA := uintptr(mips.PaddrToKvaddr(src[i]))
		mem.Memcopy(dstKVA, srcKVA, mips.PageSize)
	}
}

// Destroy frees every owned frame across all three page tables. It does
// not free the AddrSpace struct itself; the caller drops the last
// reference and the Go garbage collector reclaims it.
func (as *AddrSpace) Destroy() {
	freePageTable(as.PageTable1)
	freePageTable(as.PageTable2)
	freePageTable(as.PageTable3)
	as.PageTable1, as.PageTable2, as.PageTable3 = nil, nil, nil
}

func freePageTable(table []mips.PhysAddr) {
	for _, frame := range table {
		if frame != 0 {
			pmm.FreeKPages(mips.PaddrToKvaddr(frame))
		}
	}
}
