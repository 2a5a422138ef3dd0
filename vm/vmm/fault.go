package vmm

import (
	"vmcore/kernel"
	"vmcore/kernel/kfmt"
	"vmcore/kernel/mips"
)

// FaultType classifies a TLB miss the way the trap vector reports it.
type FaultType int

const (
	FaultReadOnly FaultType = iota
	FaultRead
	FaultWrite
)

// currentAddrSpaceFn supplies "the current process's address space", or
// false if there isn't one. Package boot installs the real implementation,
// proc.CurrentAddrSpace, via SetCurrentAddrSpaceProvider; vmm cannot import
// proc directly without
// creating an import cycle (proc needs *AddrSpace itself), so the
// dependency runs through this function variable instead, the same
// injection idiom the teacher uses for its frame allocator.
var currentAddrSpaceFn = func() (bool, *AddrSpace) { return false, nil }

// SetCurrentAddrSpaceProvider installs the function Fault calls to find
// the active address space. Called once during kernel wiring.
func SetCurrentAddrSpaceProvider(fn func() (bool, *AddrSpace)) {
	currentAddrSpaceFn = fn
}

// Fault resolves a TLB miss: it classifies faultType, locates which region
// of the current address space contains faultAddress, and installs a TLB
// entry mapping the containing page. It never allocates memory or blocks —
// every frame it could possibly need was already allocated at PrepareLoad.
func Fault(faultType FaultType, faultAddress mips.VirtAddr) *kernel.Error {
	faultAddress = mips.PageFrameOf(faultAddress)
	kfmt.Debugf("vmm: fault: %#x\n", faultAddress)

	switch faultType {
	case FaultReadOnly:
		// Pages are installed writable except for post-load text, and
		// hardware should not raise this fault type; treat as benign.
		return nil
	case FaultRead, FaultWrite:
	default:
		return ErrInvalid
	}

	ok, as := currentAddrSpaceFn()
	if !ok {
		return ErrFault
	}

	kernel.Assert(as.PageTable1 != nil, "vmm", "region 1 not allocated")
	kernel.Assert(as.PageTable2 != nil, "vmm", "region 2 not allocated")
	kernel.Assert(as.PageTable3 != nil, "vmm", "stack not allocated")
	kernel.Assert(as.VBase1 == mips.PageFrameOf(as.VBase1), "vmm", "region 1 base not page-aligned")
	kernel.Assert(as.VBase2 == mips.PageFrameOf(as.VBase2), "vmm", "region 2 base not page-aligned")

	textBase := as.VBase1
	textTop := textBase + mips.VirtAddr(as.NPages1*mips.PageSize)
	dataBase := as.VBase2
	dataTop := dataBase + mips.VirtAddr(as.NPages2*mips.PageSize)
	stackTop := mips.UserStackTop
	stackBase := stackTop - mips.VirtAddr(StackPages*mips.PageSize)

	var (
		table []mips.PhysAddr
		base  mips.VirtAddr
		text  bool
	)
	switch {
	case faultAddress >= textBase && faultAddress < textTop:
		table, base, text = as.PageTable1, textBase, true
	case faultAddress >= dataBase && faultAddress < dataTop:
		table, base, text = as.PageTable2, dataBase, false
	case faultAddress >= stackBase && faultAddress < stackTop:
		table, base, text = as.PageTable3, stackBase, false
	default:
		return ErrFault
	}

	page := uintptr(faultAddress-base) / mips.PageSize
	paddr := table[page]

	level := mips.SplHigh()
	defer mips.SplX(level)

	elo := paddr | mips.TLBLoValid | mips.TLBLoDirty
	if text && as.LoadELFCompleted {
		elo &^= mips.TLBLoDirty
	}

	for i := 0; i < mips.NumTLBEntries; i++ {
		_, lo := mips.ReadEntry(i)
		if lo&mips.TLBLoValid == 0 {
			kfmt.Debugf("vmm: %#x -> %#x\n", faultAddress, paddr)
			mips.WriteEntry(faultAddress, elo, i)
			return nil
		}
	}

	kfmt.Debugf("vmm: %#x -> %#x (random slot)\n", faultAddress, paddr)
	mips.WriteRandom(faultAddress, elo)
	return nil
}
