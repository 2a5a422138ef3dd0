package vmm

import (
	"vmcore/kernel"
	"vmcore/kernel/mips"
)

// Activate flushes every TLB entry so that stale mappings left behind by
// whichever address space was previously active can never be used. Called
// by the scheduler immediately after selecting as as the new current
// address space. A nil receiver (the kernel's own startup thread has no
// address space) is a deliberate no-op rather than a panic.
func (as *AddrSpace) Activate() {
	if as == nil {
		return
	}

	level := mips.SplHigh()
	defer mips.SplX(level)

	for i := 0; i < mips.NumTLBEntries; i++ {
		mips.WriteEntry(mips.TLBHiInvalid(i), mips.TLBLoInvalid(), i)
	}
}

// Deactivate is a no-op; the next Activate call flushes the TLB regardless
// of what Deactivate did or didn't do in between.
func (as *AddrSpace) Deactivate() {}

// TLBShootdownRequest describes a cross-CPU TLB invalidation request. The
// system modeled here is uniprocessor for VM purposes, so no code path should
// ever construct one; TLBShootdownRequest exists only so
// TLBShootdown(*TLBShootdownRequest) has a concrete argument type to refuse.
type TLBShootdownRequest struct {
	Address mips.VirtAddr
}

// TLBShootdownAll unconditionally panics: cross-CPU invalidation has no
// implementation in a uniprocessor VM core.
func TLBShootdownAll() {
	kernel.Panic(kernel.NewError("vmm", "TLBShootdownAll: no SMP support"))
}

// TLBShootdown unconditionally panics, for the same reason as
// TLBShootdownAll.
func TLBShootdown(ts *TLBShootdownRequest) {
	kernel.Panic(kernel.NewError("vmm", "TLBShootdown: no SMP support"))
}
