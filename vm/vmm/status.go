package vmm

import "vmcore/kernel"

// Status sentinels returned by the address-space and fault-handler
// operations below. All are *kernel.Error values tagged with this
// package's name; nil means success.
var (
	ErrNoMem         = kernel.NewError("vmm", "out of memory")
	ErrFault         = kernel.NewError("vmm", "bad address")
	ErrInvalid       = kernel.NewError("vmm", "invalid argument")
	ErrUnimplemented = kernel.NewError("vmm", "unimplemented")
)
