package mips

import "sync/atomic"

// splHigh is the interrupt priority level that masks every maskable
// interrupt source, matching the reference kernel's splhigh().
const splHigh = int32(^uint32(0) >> 1)

var currentSPL int32

// SplHigh raises the interrupt priority level to splHigh and returns the
// previous level, for later restoration via SplX. Every TLB read/write
// sequence in package vmm is bracketed by a SplHigh/SplX pair so that an
// interrupt handler on the same CPU can never observe a half-written entry.
func SplHigh() int32 {
	return atomic.SwapInt32(&currentSPL, splHigh)
}

// SplX restores the interrupt priority level returned by a prior SplHigh.
func SplX(level int32) {
	atomic.StoreInt32(&currentSPL, level)
}

// CurrentSPL reports the active interrupt priority level. Exposed for tests
// that assert SplHigh/SplX pairs are balanced after a call into the VM core.
func CurrentSPL() int32 {
	return atomic.LoadInt32(&currentSPL)
}
