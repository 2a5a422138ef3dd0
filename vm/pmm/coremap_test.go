package pmm

import (
	"sync"
	"testing"

	"vmcore/kernel/mips"
	"vmcore/kernel/ram"
)

func freshRAM(t *testing.T, pages int) *ram.Sim {
	t.Helper()
	reset()
	return ram.NewSim(uintptr(pages) * mips.PageSize)
}

func TestAllocBeforeBootstrapDelegatesToSteal(t *testing.T) {
	r := freshRAM(t, 4)
	SetRAM(r)

	kva := AllocKPages(2)
	if kva == 0 {
		t.Fatal("expected a non-zero KVA from the steal path")
	}
}

func TestBootstrapLaysOutCoremap(t *testing.T) {
	r := freshRAM(t, 2048)

	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bootstrapped {
		t.Fatal("expected bootstrapped to be true")
	}
	if numPages != 2048 {
		t.Fatalf("expected 2048 pages; got %d", numPages)
	}
	if count[0] != int32(startPage) {
		t.Fatalf("expected count[0] == startPage (%d); got %d", startPage, count[0])
	}
	for i := 1; i < startPage; i++ {
		if count[i] != -1 {
			t.Fatalf("expected count[%d] == -1; got %d", i, count[i])
		}
	}
	for i := startPage; i < numPages; i++ {
		if count[i] != 0 {
			t.Fatalf("expected count[%d] == 0; got %d", i, count[i])
		}
	}
}

func TestBootstrapTwiceAsserts(t *testing.T) {
	r := freshRAM(t, 64)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected a second Bootstrap call to panic")
		}
	}()
	Bootstrap(r)
}

func TestAllocFreeReallocateReclaimsFirstFitRun(t *testing.T) {
	r := freshRAM(t, 256)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := AllocKPages(4)
	b := AllocKPages(1)
	if a == 0 || b == 0 {
		t.Fatal("expected both allocations to succeed")
	}

	FreeKPages(a)

	c := AllocKPages(4)
	if c != a {
		t.Fatalf("expected first-fit to reclaim the freed run at %#x; got %#x", a, c)
	}
}

func TestStrictFirstFitSkipsPartiallyFreedRun(t *testing.T) {
	r := freshRAM(t, 256)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := AllocKPages(4)
	_ = AllocKPages(1)
	if a == 0 {
		t.Fatal("expected allocation to succeed")
	}

	// Free only the first frame of the 4-frame run: a lenient scanner that
	// checks only the head would hand this run out again for a 4-page
	// request, corrupting the 3 still-owned interior frames.
	i := int((mips.PhysAddr(a) - firstPaddr) / mips.PhysAddr(mips.PageSize))
	count[i] = 0

	d := AllocKPages(4)
	if d == a {
		t.Fatal("expected strict first-fit to reject a run with stale -1 interior entries")
	}
}

func TestAllocKPagesZeroIsSafeNoOp(t *testing.T) {
	r := freshRAM(t, 16)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := AllocKPages(0); got != 0 {
		t.Fatalf("expected AllocKPages(0) to return 0; got %#x", got)
	}
}

func TestAllocExhaustsRAMAndReturnsZero(t *testing.T) {
	r := freshRAM(t, 32)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	free := numPages - startPage
	if got := AllocKPages(free); got == 0 {
		t.Fatal("expected the full remaining run to succeed")
	}
	if got := AllocKPages(1); got != 0 {
		t.Fatalf("expected allocation against exhausted RAM to return 0; got %#x", got)
	}
}

func TestConcurrentAllocFreeDoesNotRace(t *testing.T) {
	r := freshRAM(t, 4096)
	if err := Bootstrap(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				kva := AllocKPages(1)
				if kva != 0 {
					FreeKPages(kva)
				}
			}
		}()
	}
	wg.Wait()
}
