package memory

import (
	"errors"
	"log"
)

// ReadWriter abstracts access to the memory of a running software process.
type ReadWriter interface {
	// ReadMemory fills p with the bytes found at addr.
	ReadMemory(addr uintptr, p []byte) error

	// WriteMemory writes p to the memory found at addr.
	WriteMemory(addr uintptr, p []byte) error
}

var (
	// ErrPatternNotFound is returned when a signature is absent from
	// a scanned Region.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrResolutionTimeout is returned when a pointer slot never becomes
	// non-zero within the configured number of polls.
	ErrResolutionTimeout = errors.New("pointer resolution timed out")

	// ErrUnresolved is returned when writing to a Cell that does not
	// currently point anywhere.
	ErrUnresolved = errors.New("cell is unresolved")
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)
