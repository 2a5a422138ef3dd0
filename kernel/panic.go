package kernel

import "vmcore/kernel/kfmt"

var (
	// cpuHaltFn is invoked after the panic banner has been printed. It is
	// swapped out by tests so a panicking code path can be observed with
	// recover() instead of actually tearing down the process.
	cpuHaltFn = func() { panic("kernel halted") }

	errRuntimePanic = &Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints the supplied error (if not nil) and halts. Calls to Panic
// never return to the caller. The TLB-shootdown entry points and every
// structural-invariant Assert in this module funnel into Panic rather than
// returning an error code, matching the reference kernel's KASSERT/panic
// split between recoverable and fatal failures.
func Panic(e interface{}) {
	var err *Error

	switch t := e.(type) {
	case *Error:
		err = t
	case string:
		err = &Error{Module: errRuntimePanic.Module, Message: t}
	case error:
		err = &Error{Module: errRuntimePanic.Module, Message: t.Error()}
	default:
		err = errRuntimePanic
	}

	kfmt.Printf("\n-----------------------------------\n")
	kfmt.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	kfmt.Printf("*** kernel panic: system halted ***\n")
	kfmt.Printf("-----------------------------------\n")

	cpuHaltFn()
}
