// Package kfmt provides the kernel's diagnostic logging sink. It exists
// mainly so that Panic and the VM fault handler have somewhere to write
// without reaching for a general-purpose logging library: there isn't one
// anywhere in this codebase's lineage, since every layer below it has to
// work before a conventional runtime or heap exists.
package kfmt

import (
	"fmt"
	"io"
)

// Writer is where Printf sends its output. It defaults to an in-memory ring
// buffer (so early boot diagnostics are never lost to a missing console) and
// can be redirected, e.g. by tests or once a real console driver attaches.
var Writer io.Writer = &ringBuffer{}

// Debug gates DEBUG(DB_VM, ...)-style tracing in the VM fault handler. Off by
// default; set to true to trace every TLB fill.
var Debug bool

// Printf formats according to a format specifier and writes to Writer.
func Printf(format string, args ...interface{}) {
	fmt.Fprintf(Writer, format, args...)
}

// Debugf is like Printf but only emits output when Debug is true. Used for
// the fault handler's per-fill tracing, which is too noisy to leave on by
// default.
func Debugf(format string, args ...interface{}) {
	if !Debug {
		return
	}
	Printf(format, args...)
}
