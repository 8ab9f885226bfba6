package memory

import (
	"fmt"

	"gitlab.com/stephen-fox/tskit/pattern"
)

// Region is a snapshot of a contiguous range of a process' memory,
// typically a loaded module, starting at Base.
type Region struct {
	Base uintptr
	Data []byte
}

// ReadRegion reads size bytes starting at base into a new Region.
func ReadRegion(rw ReadWriter, base uintptr, size int) (Region, error) {
	if size <= 0 {
		return Region{}, fmt.Errorf("region size must be greater than zero - got %d", size)
	}

	data := make([]byte, size)

	err := rw.ReadMemory(base, data)
	if err != nil {
		return Region{}, fmt.Errorf("failed to read %d bytes at 0x%x - %w", size, base, err)
	}

	return Region{
		Base: base,
		Data: data,
	}, nil
}

// End returns the address immediately following the region.
func (o Region) End() uintptr {
	return o.Base + uintptr(len(o.Data))
}

// Contains returns true if addr falls within the region.
func (o Region) Contains(addr uintptr) bool {
	return addr >= o.Base && addr < o.End()
}

// LocateOrExit calls Locate and calls DefaultExitFn if an error occurs.
func (o Region) LocateOrExit(sig pattern.Signature) uintptr {
	addr, err := o.Locate(sig)
	if err != nil {
		DefaultExitFn(err)
	}
	return addr
}

// Locate returns the absolute address of the first match of sig
// in the region. ErrPatternNotFound is returned if there is no match.
func (o Region) Locate(sig pattern.Signature) (uintptr, error) {
	offset, found := pattern.Find(sig, o.Data)
	if !found {
		return 0, fmt.Errorf("failed to find %q in region 0x%x-0x%x - %w",
			sig.String(), o.Base, o.End(), ErrPatternNotFound)
	}

	return o.Base + uintptr(offset), nil
}

// RelativeTarget computes the offset, relative to the start of data,
// that a RIP-relative instruction at instOffset refers to. The signed
// little endian 32-bit displacement is read at instOffset+dispOffset,
// and is relative to the end of the instruction (instOffset+instLen).
func RelativeTarget(data []byte, instOffset int, dispOffset int, instLen int) (int64, error) {
	if dispOffset < 0 || dispOffset+4 > instLen {
		return 0, fmt.Errorf("displacement offset %d does not fit in a %d byte instruction",
			dispOffset, instLen)
	}

	start := instOffset + dispOffset
	if instOffset < 0 || start+4 > len(data) {
		return 0, fmt.Errorf("displacement at offset %d is outside of the %d byte buffer",
			start, len(data))
	}

	disp := int32(uint32(data[start]) |
		uint32(data[start+1])<<8 |
		uint32(data[start+2])<<16 |
		uint32(data[start+3])<<24)

	return int64(instOffset) + int64(instLen) + int64(disp), nil
}
