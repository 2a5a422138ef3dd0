package mem

import "unsafe"

// Memset sets size bytes starting at addr to value. addr is treated as a raw
// memory address (typically a kernel virtual address returned by a frame
// allocator) rather than a Go-managed slice, which is why this needs unsafe:
// the callers are zeroing physical frames they've just taken ownership of,
// not a []byte they allocated themselves.
func Memset(addr uintptr, value byte, size uintptr) {
	if size == 0 {
		return
	}

	target := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	// Set the first byte and double the already-set prefix each round;
	// this is O(log size) copy calls instead of a byte-at-a-time loop.
	target[0] = value
	for filled := uintptr(1); filled < size; filled *= 2 {
		copy(target[filled:], target[:filled])
	}
}

// Memcopy copies size bytes from src to dst. Like Memset, both addresses are
// raw memory addresses rather than Go slices.
func Memcopy(dst, src uintptr, size uintptr) {
	if size == 0 {
		return
	}

	dstSlice := unsafe.Slice((*byte)(unsafe.Pointer(dst)), size)
	srcSlice := unsafe.Slice((*byte)(unsafe.Pointer(src)), size)
	copy(dstSlice, srcSlice)
}
