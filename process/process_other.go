//go:build !windows

package process

import (
	"fmt"
)

// AttachOrExit calls Attach and calls DefaultExitFn if an error occurs.
func AttachOrExit(pid uint32, moduleName string) *Process {
	p, err := Attach(pid, moduleName)
	if err != nil {
		DefaultExitFn(err)
	}
	return p
}

// Attach always fails with ErrUnsupported on this platform.
func Attach(pid uint32, moduleName string) (*Process, error) {
	return nil, fmt.Errorf("failed to attach to process %d - %w", pid, ErrUnsupported)
}

// Process is a process opened for reading and writing memory.
// It cannot be created on this platform.
type Process struct {
	pid    uint32
	module Module
}

// PID returns the process' ID.
func (o *Process) PID() uint32 {
	return o.pid
}

// Module returns the module the process was attached to.
func (o *Process) Module() Module {
	return o.module
}

// ReadMemory always returns ErrUnsupported.
func (o *Process) ReadMemory(addr uintptr, p []byte) error {
	return ErrUnsupported
}

// WriteMemory always returns ErrUnsupported.
func (o *Process) WriteMemory(addr uintptr, p []byte) error {
	return ErrUnsupported
}

// Snapshot always returns ErrUnsupported.
func (o *Process) Snapshot() (Snapshot, error) {
	return Snapshot{}, ErrUnsupported
}

// Close does nothing.
func (o *Process) Close() error {
	return nil
}
