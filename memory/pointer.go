package memory

import (
	"encoding/binary"
	"fmt"
)

// PointerMakerForX86_32 returns a PointerMaker for 32-bit x86.
func PointerMakerForX86_32() PointerMaker {
	return PointerMaker{
		byteOrder: binary.LittleEndian,
		ptrSize:   4,
	}
}

// PointerMakerForX86_64 returns a PointerMaker for 64-bit x86.
func PointerMakerForX86_64() PointerMaker {
	return PointerMaker{
		byteOrder: binary.LittleEndian,
		ptrSize:   8,
	}
}

// PointerMakerForOrExit calls PointerMakerFor and calls DefaultExitFn
// if an error occurs.
func PointerMakerForOrExit(endianness binary.ByteOrder, pointerSize int) PointerMaker {
	pm, err := PointerMakerFor(endianness, pointerSize)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create pointer maker - %w", err))
	}
	return pm
}

// PointerMakerFor returns a PointerMaker for the specified byte order
// and pointer size. Only 4 and 8 byte pointers are supported.
func PointerMakerFor(endianness binary.ByteOrder, pointerSize int) (PointerMaker, error) {
	if endianness == nil {
		return PointerMaker{}, fmt.Errorf("endianness cannot be nil")
	}

	switch pointerSize {
	case 4, 8:
	default:
		return PointerMaker{}, fmt.Errorf("unsupported pointer size: %d", pointerSize)
	}

	return PointerMaker{
		byteOrder: endianness,
		ptrSize:   pointerSize,
	}, nil
}

// PointerMaker encodes and decodes pointers for a target platform.
type PointerMaker struct {
	byteOrder binary.ByteOrder
	ptrSize   int
}

// ByteOrder returns the target platform's byte order.
func (o PointerMaker) ByteOrder() binary.ByteOrder {
	return o.byteOrder
}

// Size returns the size of a pointer in bytes.
func (o PointerMaker) Size() int {
	return o.ptrSize
}

// FromUint encodes address as a Pointer.
func (o PointerMaker) FromUint(address uint64) Pointer {
	out := make([]byte, o.ptrSize)
	switch o.ptrSize {
	case 4:
		o.byteOrder.PutUint32(out, uint32(address))
	case 8:
		o.byteOrder.PutUint64(out, address)
	default:
		panic(fmt.Sprintf("unsupported pointer size: %d", o.ptrSize))
	}

	return Pointer{
		raw:       out,
		byteOrder: o.byteOrder,
	}
}

// FromRawBytes wraps a pointer-sized []byte in the target's byte order.
func (o PointerMaker) FromRawBytes(raw []byte) (Pointer, error) {
	if len(raw) != o.ptrSize {
		return Pointer{}, fmt.Errorf("pointer must be %d bytes - got %d bytes",
			o.ptrSize, len(raw))
	}

	cp := make([]byte, len(raw))
	copy(cp, raw)

	return Pointer{
		raw:       cp,
		byteOrder: o.byteOrder,
	}, nil
}

// ReadPointer reads a pointer-sized value from rw at addr.
func (o PointerMaker) ReadPointer(rw ReadWriter, addr uintptr) (Pointer, error) {
	raw := make([]byte, o.ptrSize)

	err := rw.ReadMemory(addr, raw)
	if err != nil {
		return Pointer{}, fmt.Errorf("failed to read pointer at 0x%x - %w", addr, err)
	}

	return Pointer{
		raw:       raw,
		byteOrder: o.byteOrder,
	}, nil
}

// ReadInt32 reads a signed 32-bit value from rw at addr.
func (o PointerMaker) ReadInt32(rw ReadWriter, addr uintptr) (int32, error) {
	raw := make([]byte, 4)

	err := rw.ReadMemory(addr, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to read int32 at 0x%x - %w", addr, err)
	}

	return int32(o.byteOrder.Uint32(raw)), nil
}

// Pointer is a pointer in the target's native encoding.
type Pointer struct {
	raw       []byte
	byteOrder binary.ByteOrder
}

// Bytes returns the encoded pointer.
func (o Pointer) Bytes() []byte {
	return o.raw
}

// Uint decodes the pointer.
func (o Pointer) Uint() uint64 {
	switch len(o.raw) {
	case 4:
		return uint64(o.byteOrder.Uint32(o.raw))
	case 8:
		return o.byteOrder.Uint64(o.raw)
	default:
		return 0
	}
}

// IsNull returns true if the pointer is zero.
func (o Pointer) IsNull() bool {
	return o.Uint() == 0
}

// HexString returns the decoded pointer as a hex string.
func (o Pointer) HexString() string {
	return fmt.Sprintf("0x%x", o.Uint())
}
