package process

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	pageSize = 0x1000

	accessRights = windows.PROCESS_QUERY_INFORMATION |
		windows.PROCESS_VM_READ |
		windows.PROCESS_VM_WRITE |
		windows.PROCESS_VM_OPERATION
)

// AttachOrExit calls Attach and calls DefaultExitFn if an error occurs.
func AttachOrExit(pid uint32, moduleName string) *Process {
	p, err := Attach(pid, moduleName)
	if err != nil {
		DefaultExitFn(err)
	}
	return p
}

// Attach opens the process with the specified PID for reading and
// writing, and looks up the named module in it. The process' main
// module is used if moduleName is empty.
func Attach(pid uint32, moduleName string) (*Process, error) {
	module, err := findModule(pid, moduleName)
	if err != nil {
		return nil, err
	}

	handle, err := windows.OpenProcess(accessRights, false, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d - %w", pid, err)
	}

	return &Process{
		pid:    pid,
		handle: handle,
		module: module,
	}, nil
}

func findModule(pid uint32, moduleName string) (Module, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(
		windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return Module{}, fmt.Errorf("failed to snapshot modules of process %d - %w", pid, err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Module32First(snapshot, &entry)
	for err == nil {
		name := windows.UTF16ToString(entry.Module[:])

		if moduleName == "" || strings.EqualFold(name, moduleName) {
			return Module{
				Name: name,
				Base: entry.ModBaseAddr,
				Size: int(entry.ModBaseSize),
			}, nil
		}

		err = windows.Module32Next(snapshot, &entry)
	}

	return Module{}, fmt.Errorf("failed to find module %q in process %d - %w",
		moduleName, pid, ErrNotFound)
}

// Process is a process opened for reading and writing memory.
type Process struct {
	pid    uint32
	handle windows.Handle
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

// ReadMemory fills p with the bytes found at addr.
func (o *Process) ReadMemory(addr uintptr, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	var n uintptr
	err := windows.ReadProcessMemory(o.handle, addr, &p[0], uintptr(len(p)), &n)
	if err != nil {
		return fmt.Errorf("failed to read %d bytes at 0x%x - %w", len(p), addr, err)
	}

	if int(n) != len(p) {
		return fmt.Errorf("short read at 0x%x - read %d of %d bytes", addr, n, len(p))
	}

	return nil
}

// WriteMemory writes p to the memory found at addr.
func (o *Process) WriteMemory(addr uintptr, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	var n uintptr
	err := windows.WriteProcessMemory(o.handle, addr, &p[0], uintptr(len(p)), &n)
	if err != nil {
		return fmt.Errorf("failed to write %d bytes at 0x%x - %w", len(p), addr, err)
	}

	if int(n) != len(p) {
		return fmt.Errorf("short write at 0x%x - wrote %d of %d bytes", addr, n, len(p))
	}

	return nil
}

// Snapshot copies the module's image. If the image cannot be read in
// one go, it is read one page at a time, and unreadable pages are
// left zeroed.
func (o *Process) Snapshot() (Snapshot, error) {
	if o.module.Size <= 0 {
		return Snapshot{}, fmt.Errorf("module %q has no size", o.module.Name)
	}

	data := make([]byte, o.module.Size)

	err := o.ReadMemory(o.module.Base, data)
	if err == nil {
		return Snapshot{
			Module: o.module,
			Data:   data,
		}, nil
	}

	unreadable := 0
	total := 0

	for offset := 0; offset < len(data); offset += pageSize {
		end := offset + pageSize
		if end > len(data) {
			end = len(data)
		}

		total++

		err := o.ReadMemory(o.module.Base+uintptr(offset), data[offset:end])
		if err != nil {
			unreadable++
			for i := offset; i < end; i++ {
				data[i] = 0
			}
		}
	}

	if unreadable == total {
		return Snapshot{}, fmt.Errorf("failed to read any page of module %q - %w",
			o.module.Name, err)
	}

	return Snapshot{
		Module:          o.module,
		Data:            data,
		UnreadablePages: unreadable,
	}, nil
}

// Close releases the process handle.
func (o *Process) Close() error {
	return windows.CloseHandle(o.handle)
}
