package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPollInterval is the time Resolver waits between reads
	// of a pointer slot that is still zero.
	DefaultPollInterval = 100 * time.Millisecond
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Memory is the target process' memory.
	Memory ReadWriter

	// Pointers describes the target's pointer encoding.
	Pointers PointerMaker

	// DisplacementOffset is the offset of the 32-bit displacement
	// from the start of the matched instruction.
	DisplacementOffset int

	// InstructionLength is the length of the matched instruction.
	// The displacement is relative to the end of the instruction.
	InstructionLength int

	// FieldOffset is added to the pointer stored at the resolved
	// slot to produce the final Cell address.
	FieldOffset uintptr

	// PollInterval is the time to wait between reads of a zero slot.
	// DefaultPollInterval is used if this is zero.
	PollInterval time.Duration

	// OptMaxPolls, when greater than zero, limits the number of
	// slot reads before ErrResolutionTimeout is returned. When it
	// is zero, Resolve waits until the slot is populated or the
	// context is done.
	OptMaxPolls int

	// OptLogger, when non-nil, receives progress messages.
	OptLogger logrus.FieldLogger
}

func (o ResolverConfig) validate() error {
	if o.Memory == nil {
		return fmt.Errorf("memory cannot be nil")
	}

	if o.Pointers.Size() == 0 {
		return fmt.Errorf("pointer maker is not initialized")
	}

	if o.DisplacementOffset < 0 {
		return fmt.Errorf("displacement offset cannot be negative")
	}

	if o.InstructionLength < o.DisplacementOffset+4 {
		return fmt.Errorf("instruction length %d is too short for a displacement at offset %d",
			o.InstructionLength, o.DisplacementOffset)
	}

	if o.PollInterval < 0 {
		return fmt.Errorf("poll interval cannot be negative")
	}

	if o.OptMaxPolls < 0 {
		return fmt.Errorf("maximum number of polls cannot be negative")
	}

	return nil
}

// NewResolverOrExit calls NewResolver and calls DefaultExitFn
// if an error occurs.
func NewResolverOrExit(config ResolverConfig) *Resolver {
	r, err := NewResolver(config)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create resolver - %w", err))
	}
	return r
}

// NewResolver creates a new *Resolver.
func NewResolver(config ResolverConfig) (*Resolver, error) {
	err := config.validate()
	if err != nil {
		return nil, err
	}

	if config.PollInterval == 0 {
		config.PollInterval = DefaultPollInterval
	}

	return &Resolver{
		config: config,
	}, nil
}

// Resolver follows a RIP-relative instruction to a pointer slot,
// and the pointer stored in the slot to a Cell.
type Resolver struct {
	config ResolverConfig
}

// SlotAddress returns the absolute address the instruction at
// matchAddr refers to.
func (o *Resolver) SlotAddress(matchAddr uintptr) (uintptr, error) {
	disp, err := o.config.Pointers.ReadInt32(o.config.Memory,
		matchAddr+uintptr(o.config.DisplacementOffset))
	if err != nil {
		return 0, fmt.Errorf("failed to read instruction displacement - %w", err)
	}

	return uintptr(int64(matchAddr) + int64(o.config.InstructionLength) + int64(disp)), nil
}

// Resolve blocks until the pointer slot referred to by the instruction
// at matchAddr is non-zero, and returns the resolved Cell.
func (o *Resolver) Resolve(ctx context.Context, matchAddr uintptr) (Cell, error) {
	slot, err := o.SlotAddress(matchAddr)
	if err != nil {
		return Cell{}, err
	}

	if o.config.OptLogger != nil {
		o.config.OptLogger.Debugf("instruction at 0x%x refers to slot 0x%x", matchAddr, slot)
	}

	var timer *time.Timer

	for polls := 1; ; polls++ {
		ptr, err := o.config.Pointers.ReadPointer(o.config.Memory, slot)
		if err != nil {
			return Cell{}, err
		}

		if !ptr.IsNull() {
			cell := newCell(slot, o.config.FieldOffset, uintptr(ptr.Uint()))

			if o.config.OptLogger != nil {
				o.config.OptLogger.Debugf("slot 0x%x populated with %s after %d poll(s)",
					slot, ptr.HexString(), polls)
			}

			return cell, nil
		}

		if o.config.OptMaxPolls > 0 && polls >= o.config.OptMaxPolls {
			return Cell{}, fmt.Errorf("slot 0x%x was still zero after %d polls - %w",
				slot, polls, ErrResolutionTimeout)
		}

		if polls == 1 && o.config.OptLogger != nil {
			o.config.OptLogger.Infof("slot 0x%x is not populated yet, waiting...", slot)
		}

		if timer == nil {
			timer = time.NewTimer(o.config.PollInterval)
			defer timer.Stop()
		} else {
			timer.Reset(o.config.PollInterval)
		}

		select {
		case <-ctx.Done():
			return Cell{}, ctx.Err()
		case <-timer.C:
		}
	}
}

func newCell(slot uintptr, fieldOffset uintptr, pointer uintptr) Cell {
	return Cell{
		slot:        slot,
		fieldOffset: fieldOffset,
		addr:        pointer + fieldOffset,
		valid:       true,
	}
}

// Cell is the absolute address of a value in another process' memory.
// The zero value is unresolved.
type Cell struct {
	slot        uintptr
	fieldOffset uintptr
	addr        uintptr
	valid       bool
}

// Address returns the cell's address, and false if the cell
// is unresolved.
func (o Cell) Address() (uintptr, bool) {
	return o.addr, o.valid
}

// Slot returns the address of the pointer the cell was resolved from.
func (o Cell) Slot() uintptr {
	return o.slot
}

// String returns a human-readable description of the cell.
func (o Cell) String() string {
	if !o.valid {
		return "<unresolved>"
	}

	return fmt.Sprintf("0x%x ([0x%x] + 0x%x)", o.addr, o.slot, o.fieldOffset)
}
