package mips

import "sync/atomic"

// NumTLBEntries is the number of entries in the software-managed TLB.
const NumTLBEntries = 64

// TLB entry-lo bit layout. Only the bits the VM core inspects are modeled.
const (
	// TLBLoDirty marks an entry writable. MIPS calls this bit "dirty";
	// the VM core uses it purely as the writable bit, clearing it to
	// enforce read-only text.
	TLBLoDirty = PhysAddr(1 << 10)

	// TLBLoValid marks an entry as containing a usable translation.
	TLBLoValid = PhysAddr(1 << 9)
)

type tlbEntry struct {
	hi VirtAddr
	lo PhysAddr
}

var (
	tlb [NumTLBEntries]tlbEntry

	// randomVictim selects the slot used by WriteRandom. Modeled as a
	// round-robin counter rather than an actual PRNG so that tests can
	// predict which slot gets evicted; the spec only requires that some
	// valid slot is chosen when every entry is already in use.
	randomVictim uint32
)

// ReadEntry returns the raw (entryhi, entrylo) pair in TLB slot i.
func ReadEntry(i int) (hi VirtAddr, lo PhysAddr) {
	e := &tlb[i]
	return e.hi, e.lo
}

// WriteEntry installs (hi, lo) into TLB slot i.
func WriteEntry(hi VirtAddr, lo PhysAddr, i int) {
	tlb[i] = tlbEntry{hi: hi, lo: lo}
}

// WriteRandom installs (hi, lo) into a hardware-chosen slot, used when every
// TLB entry already holds a valid translation.
func WriteRandom(hi VirtAddr, lo PhysAddr) {
	slot := atomic.AddUint32(&randomVictim, 1) % NumTLBEntries
	WriteEntry(hi, lo, int(slot))
}

// TLBHiInvalid returns the entryhi value used to invalidate slot i. Folding
// the slot index into entryhi (rather than writing the same value to every
// slot) avoids collisions between invalidated entries of different ASIDs on
// real hardware; this model carries the convention forward even though it
// tracks no ASIDs of its own.
func TLBHiInvalid(i int) VirtAddr {
	return VirtAddr(i) << PageShift
}

// TLBLoInvalid returns the entrylo value that clears the valid bit.
func TLBLoInvalid() PhysAddr {
	return 0
}

// resetTLB clears every slot. Used only by tests that need a known-empty
// TLB to start from.
func resetTLB() {
	tlb = [NumTLBEntries]tlbEntry{}
	atomic.StoreUint32(&randomVictim, 0)
}

// ResetTLBForTest clears every TLB slot. Exported so tests in other
// packages (notably vmm's fault handler tests) can start from a
// known-empty TLB without reaching into this package's internals.
func ResetTLBForTest() {
	resetTLB()
}
