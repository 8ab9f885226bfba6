package memory

import (
	"fmt"
	"sync"
)

func newFakeMemory(base uintptr, size int) *fakeMemory {
	return &fakeMemory{
		base: base,
		data: make([]byte, size),
	}
}

// fakeMemory is a flat, bounds-checked ReadWriter.
type fakeMemory struct {
	mu     sync.Mutex
	base   uintptr
	data   []byte
	reads  int
	writes int
	onRead func(addr uintptr, reads int)
}

func (o *fakeMemory) ReadMemory(addr uintptr, p []byte) error {
	o.mu.Lock()
	o.reads++
	reads := o.reads
	fn := o.onRead
	o.mu.Unlock()

	if fn != nil {
		fn(addr, reads)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	start, err := o.index(addr, len(p))
	if err != nil {
		return err
	}

	copy(p, o.data[start:])
	return nil
}

func (o *fakeMemory) WriteMemory(addr uintptr, p []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	start, err := o.index(addr, len(p))
	if err != nil {
		return err
	}

	o.writes++
	copy(o.data[start:], p)
	return nil
}

func (o *fakeMemory) put(addr uintptr, p []byte) {
	err := o.WriteMemory(addr, p)
	if err != nil {
		panic(err)
	}
}

func (o *fakeMemory) get(addr uintptr, n int) []byte {
	o.mu.Lock()
	defer o.mu.Unlock()

	start, err := o.index(addr, n)
	if err != nil {
		panic(err)
	}

	cp := make([]byte, n)
	copy(cp, o.data[start:])
	return cp
}

func (o *fakeMemory) writeCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

func (o *fakeMemory) index(addr uintptr, n int) (int, error) {
	if addr < o.base || addr+uintptr(n) > o.base+uintptr(len(o.data)) {
		return 0, fmt.Errorf("access violation at 0x%x (%d bytes)", addr, n)
	}

	return int(addr - o.base), nil
}
