package boot

import (
	"testing"

	"vmcore/kernel/mips"
	"vmcore/kernel/proc"
	"vmcore/kernel/ram"
	"vmcore/vm/pmm"
	"vmcore/vm/vmm"
)

func TestInitWiresFaultHandlerToCurrentProcess(t *testing.T) {
	pmm.ResetForTest()
	mips.ResetTLBForTest()
	defer proc.SetCurrent(nil)

	r := ram.NewSim(256 * mips.PageSize)
	if err := Init(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	as := vmm.NewAddrSpace()
	if err := as.DefineRegion(0x00400000, 0x3000, true, false, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := as.DefineRegion(0x10000000, 0x2000, true, true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := as.PrepareLoad(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proc.SetCurrent(&proc.Proc{Name: "init", AddrSpace: as})

	if err := vmm.Fault(vmm.FaultRead, 0x00400abc); err != nil {
		t.Fatalf("unexpected fault error: %v", err)
	}

	hi, lo := mips.ReadEntry(0)
	if hi != 0x00400000 {
		t.Fatalf("expected entryhi 0x00400000; got %#x", hi)
	}
	if lo&mips.TLBLoValid == 0 {
		t.Fatal("expected the installed entry to be valid")
	}
}

func TestInitWithNoCurrentProcessFaultsEveryAddress(t *testing.T) {
	pmm.ResetForTest()
	mips.ResetTLBForTest()
	defer proc.SetCurrent(nil)

	r := ram.NewSim(64 * mips.PageSize)
	if err := Init(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := vmm.Fault(vmm.FaultRead, 0x00400abc); err != vmm.ErrFault {
		t.Fatalf("expected ErrFault with no current process; got %v", err)
	}
}
