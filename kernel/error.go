// Package kernel contains the handful of types shared by every layer of the
// virtual-memory core: the allocation-free error type and the fatal-panic
// path that every "this should never happen" assertion funnels into.
package kernel

// Error describes a failure raised by the VM core. Errors are allocated once
// as package-level sentinels (see the ErrNoMem-style vars in package vmm) so
// that reporting a failure never itself requires a working allocator.
type Error struct {
	// Module names the subsystem that raised the error (e.g. "pmm", "vmm").
	Module string

	// Message is a short, human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "[" + e.Module + "] " + e.Message
}

// NewError builds an Error for the given module. Prefer pre-allocated
// package-level sentinels for errors returned from hot paths; NewError exists
// for the rarer cases where the message carries per-call detail.
func NewError(module, message string) *Error {
	return &Error{Module: module, Message: message}
}

// Assert panics via Panic if cond is false. It is the Go-side equivalent of
// the reference kernel's KASSERT: a violation means a caller broke a
// structural invariant, not a recoverable runtime condition.
func Assert(cond bool, module, message string) {
	if !cond {
		Panic(&Error{Module: module, Message: "assertion failed: " + message})
	}
}
