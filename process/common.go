// Package process finds running processes and attaches to their
// loaded modules, so that their memory can be read and written.
package process

import (
	"errors"
	"log"

	"gitlab.com/stephen-fox/tskit/memory"
)

var (
	// ErrNotFound is returned when no process or module matches.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned by Attach on platforms where
	// attaching to another process is not implemented.
	ErrUnsupported = errors.New("attaching to processes is not supported on this platform")
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)

// Module describes a module (executable image or library) loaded
// in a process.
type Module struct {
	Name string
	Base uintptr
	Size int
}

// Snapshot is a copy of a module's image.
type Snapshot struct {
	Module Module

	// Data is the module's bytes. Pages that could not be read
	// are left zeroed.
	Data []byte

	// UnreadablePages is the number of pages that could not be read.
	UnreadablePages int
}

// Region returns the snapshot as a memory.Region.
func (o Snapshot) Region() memory.Region {
	return memory.Region{
		Base: o.Module.Base,
		Data: o.Data,
	}
}
