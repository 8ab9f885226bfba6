package memory

import (
	"fmt"
	"math"
)

// CellWriterConfig configures a CellWriter.
type CellWriterConfig struct {
	// Memory is the target process' memory.
	Memory ReadWriter

	// Pointers describes the target's pointer and value encoding.
	Pointers PointerMaker

	// Cell is the destination of writes.
	Cell Cell

	// OptRecheckSlot re-reads the cell's pointer slot before each
	// write. A zero slot suppresses the write, and a changed slot
	// moves the cell.
	OptRecheckSlot bool
}

func (o CellWriterConfig) validate() error {
	if o.Memory == nil {
		return fmt.Errorf("memory cannot be nil")
	}

	if o.Pointers.Size() == 0 {
		return fmt.Errorf("pointer maker is not initialized")
	}

	return nil
}

// NewCellWriterOrExit calls NewCellWriter and calls DefaultExitFn
// if an error occurs.
func NewCellWriterOrExit(config CellWriterConfig) *CellWriter {
	w, err := NewCellWriter(config)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create cell writer - %w", err))
	}
	return w
}

// NewCellWriter creates a new *CellWriter.
func NewCellWriter(config CellWriterConfig) (*CellWriter, error) {
	err := config.validate()
	if err != nil {
		return nil, err
	}

	return &CellWriter{
		config: config,
		cell:   config.Cell,
	}, nil
}

// CellWriter writes 32-bit floating point values to a Cell.
//
// No bounds or type checking is done. Correctness depends entirely
// on the layout that was used to resolve the Cell.
type CellWriter struct {
	config CellWriterConfig
	cell   Cell
}

// Cell returns the cell currently being written to.
func (o *CellWriter) Cell() Cell {
	return o.cell
}

// WriteValueOrExit calls WriteValue and calls DefaultExitFn
// if an error occurs.
func (o *CellWriter) WriteValueOrExit(value float32) {
	err := o.WriteValue(value)
	if err != nil {
		DefaultExitFn(err)
	}
}

// WriteValue stores value at the cell's address. ErrUnresolved is
// returned, and nothing is written, if the cell is unresolved.
func (o *CellWriter) WriteValue(value float32) error {
	if o.config.OptRecheckSlot && o.cell.valid {
		err := o.recheck()
		if err != nil {
			return err
		}
	}

	addr, ok := o.cell.Address()
	if !ok {
		return fmt.Errorf("failed to write %v - %w", value, ErrUnresolved)
	}

	raw := make([]byte, 4)
	o.config.Pointers.ByteOrder().PutUint32(raw, math.Float32bits(value))

	err := o.config.Memory.WriteMemory(addr, raw)
	if err != nil {
		return fmt.Errorf("failed to write %v to 0x%x - %w", value, addr, err)
	}

	return nil
}

// ReadValue reads the value currently stored in the cell.
func (o *CellWriter) ReadValue() (float32, error) {
	addr, ok := o.cell.Address()
	if !ok {
		return 0, fmt.Errorf("failed to read value - %w", ErrUnresolved)
	}

	raw := make([]byte, 4)

	err := o.config.Memory.ReadMemory(addr, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to read value at 0x%x - %w", addr, err)
	}

	return math.Float32frombits(o.config.Pointers.ByteOrder().Uint32(raw)), nil
}

func (o *CellWriter) recheck() error {
	ptr, err := o.config.Pointers.ReadPointer(o.config.Memory, o.cell.slot)
	if err != nil {
		return err
	}

	if ptr.IsNull() {
		return fmt.Errorf("slot 0x%x is zero - %w", o.cell.slot, ErrUnresolved)
	}

	moved := newCell(o.cell.slot, o.cell.fieldOffset, uintptr(ptr.Uint()))
	if moved.addr != o.cell.addr {
		o.cell = moved
	}

	return nil
}
