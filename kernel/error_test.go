package kernel

import (
	"strings"
	"testing"
)

func TestError(t *testing.T) {
	err := &Error{Module: "pmm", Message: "out of memory"}

	if got := err.Error(); !strings.Contains(got, "pmm") || !strings.Contains(got, "out of memory") {
		t.Fatalf("expected Error() to mention module and message; got %q", got)
	}
}

func TestNewError(t *testing.T) {
	err := NewError("vmm", "bad address")
	if err.Module != "vmm" || err.Message != "bad address" {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestAssertPanicsOnFalse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Assert(false, ...) to panic")
		}
	}()
	haltFn := cpuHaltFn
	defer func() { cpuHaltFn = haltFn }()
	cpuHaltFn = func() { panic("halted") }

	Assert(false, "test", "should never happen")
}

func TestAssertDoesNotPanicOnTrue(t *testing.T) {
	Assert(true, "test", "fine")
}
