// Package pmm owns every physical frame once the boot-time RAM handoff is
// complete. Before that handoff it is a thin pass-through to the RAM
// component's steal primitive; after it, frame allocation is served by a
// coremap living inside the very memory it describes.
package pmm

import (
	"unsafe"

	"vmcore/kernel"
	"vmcore/kernel/mips"
	"vmcore/kernel/ram"
	"vmcore/kernel/sync"
)

var (
	// stealmemLock serializes every mutation of count/location and the
	// pre-bootstrap steal path. Held for the full duration of a scan.
	stealmemLock sync.Spinlock

	ramDevice ram.RAM

	bootstrapped bool
	firstPaddr   mips.PhysAddr
	lastPaddr    mips.PhysAddr
	numPages     int
	startPage    int

	// count and location are the coremap's two parallel arrays. Once
	// Bootstrap runs they are not ordinary Go slices backed by the heap:
	// they are windows, via unsafe.Slice, onto the first pages of the
	// RAM arena itself, so the coremap's bookkeeping is self-hosting —
	// exactly as the reference allocator overlays its bitmap state onto
	// bootmem-allocated pages (see the teacher's BitmapAllocator).
	count    []int32
	location []mips.PhysAddr
)

// SetRAM installs the RAM component used for pre-bootstrap stealing and by
// a later Bootstrap call. Kernel startup code calls this before any
// allocation is attempted, mirroring the teacher's early-allocator wiring.
func SetRAM(r ram.RAM) {
	ramDevice = r
}

// Bootstrap converts the steal-only allocator into a coremap-backed one.
// It must be called exactly once; a second call is a structural invariant
// violation and panics, matching the reference's assertion failure.
func Bootstrap(r ram.RAM) *kernel.Error {
	stealmemLock.Acquire()
	defer stealmemLock.Release()

	kernel.Assert(!bootstrapped, "pmm", "Bootstrap called twice")

	ramDevice = r
	firstPaddr, lastPaddr = r.GetSize()
	numPages = int((lastPaddr - firstPaddr) / mips.PhysAddr(mips.PageSize))

	startPage = coremapPages(numPages)

	base := uintptr(mips.PaddrToKvaddr(firstPaddr))
	countPtr := (*int32)(unsafe.Pointer(base))
	count = unsafe.Slice(countPtr, numPages)

	locBase := base + uintptr(numPages)*unsafe.Sizeof(int32(0))
	locBase = (locBase + unsafe.Alignof(mips.PhysAddr(0)) - 1) &^ (unsafe.Alignof(mips.PhysAddr(0)) - 1)
	locPtr := (*mips.PhysAddr)(unsafe.Pointer(locBase))
	location = unsafe.Slice(locPtr, numPages)

	for i := 0; i < numPages; i++ {
		location[i] = firstPaddr + mips.PhysAddr(i)*mips.PhysAddr(mips.PageSize)
	}

	count[0] = int32(startPage)
	for i := 1; i < startPage; i++ {
		count[i] = -1
	}
	for i := startPage; i < numPages; i++ {
		count[i] = 0
	}

	bootstrapped = true
	return nil
}

// coremapPages computes how many whole pages are needed to hold the count
// and location arrays for a RAM of the given page count, rounded up.
func coremapPages(pages int) int {
	bytes := uintptr(pages)*unsafe.Sizeof(int32(0)) + uintptr(pages)*unsafe.Sizeof(mips.PhysAddr(0))
	return int((bytes + mips.PageSize - 1) / mips.PageSize)
}

// AllocKPages allocates n contiguous frames and returns the kernel virtual
// address of the first, or 0 on failure. Before Bootstrap has run this
// delegates to the RAM component's monotonic steal primitive.
func AllocKPages(n int) mips.VirtAddr {
	if n <= 0 {
		return 0
	}

	if !bootstrapped {
		stealmemLock.Acquire()
		defer stealmemLock.Release()
		paddr := ramDevice.StealMem(n)
		if paddr == 0 {
			return 0
		}
		return mips.PaddrToKvaddr(paddr)
	}

	stealmemLock.Acquire()
	defer stealmemLock.Release()

	for i := startPage; i+n <= numPages; i++ {
		if count[i] != 0 {
			continue
		}

		fits := true
		for j := 1; j < n; j++ {
			if count[i+j] != 0 {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}

		count[i] = int32(n)
		for j := 1; j < n; j++ {
			count[i+j] = -1
		}
		return mips.PaddrToKvaddr(location[i])
	}

	return 0
}

// FreeKPages frees the allocation whose head frame has kernel virtual
// address kva. kva must be exactly the value a prior AllocKPages call
// returned; freeing an interior address is undefined and is ignored here
// rather than corrupting unrelated frames.
func FreeKPages(kva mips.VirtAddr) {
	if kva == 0 {
		return
	}

	stealmemLock.Acquire()
	defer stealmemLock.Release()

	paddr := mips.PhysAddr(kva)
	if paddr < firstPaddr || (paddr-firstPaddr)%mips.PhysAddr(mips.PageSize) != 0 {
		return
	}

	i := int((paddr - firstPaddr) / mips.PhysAddr(mips.PageSize))
	if i < startPage || i >= numPages || count[i] <= 0 {
		return
	}

	k := int(count[i])
	for j := 0; j < k; j++ {
		count[i+j] = 0
	}
}

// ResetForTest restores package state to its pre-bootstrap zero value so a
// test can Bootstrap a fresh, independent RAM arena. Exported because
// package-level coremap state otherwise persists for the lifetime of a
// single test binary, including across the test binaries of packages that
// import pmm (notably vmm's).
func ResetForTest() {
	reset()
}

// reset is the unexported implementation shared by ResetForTest and this
// package's own tests.
func reset() {
	stealmemLock = sync.Spinlock{}
	ramDevice = nil
	bootstrapped = false
	firstPaddr, lastPaddr = 0, 0
	numPages, startPage = 0, 0
	count, location = nil, nil
}
