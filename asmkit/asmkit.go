// Package asmkit decodes x86 instructions found by a signature scan,
// so the layout constants paired with a signature can be sanity-checked
// against what is actually in memory.
package asmkit

import (
	"errors"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

const (
	SkipSyntax  DisassemblySyntax = ""
	ATTSyntax   DisassemblySyntax = "att"
	GoSyntax    DisassemblySyntax = "go"
	IntelSyntax DisassemblySyntax = "intel"
)

// DisassemblySyntax is the assembly syntax used for Inst.Dis.
type DisassemblySyntax string

// DisassemblerConfig configures a Disassembler.
type DisassemblerConfig struct {
	// Syntax is the assembly syntax. SkipSyntax leaves Inst.Dis empty.
	Syntax DisassemblySyntax

	// Bits is the processor mode: 16, 32, or 64.
	Bits int
}

// NewDisassembler creates a new *Disassembler.
func NewDisassembler(config DisassemblerConfig) (*Disassembler, error) {
	switch config.Bits {
	case 16, 32, 64:
	default:
		return nil, fmt.Errorf("unsupported x86 mode: %d bits", config.Bits)
	}

	var disassemblyFn func(inst x86asm.Inst) string
	switch config.Syntax {
	case SkipSyntax:
		// Do nothing.
	case ATTSyntax:
		disassemblyFn = func(inst x86asm.Inst) string {
			return x86asm.GNUSyntax(inst, 0, nil)
		}
	case GoSyntax:
		disassemblyFn = func(inst x86asm.Inst) string {
			return x86asm.GoSyntax(inst, 0, nil)
		}
	case IntelSyntax:
		disassemblyFn = func(inst x86asm.Inst) string {
			return x86asm.IntelSyntax(inst, 0, nil)
		}
	default:
		return nil, fmt.Errorf("unsupported syntax type for x86: %q", config.Syntax)
	}

	return &Disassembler{
		bits:          config.Bits,
		disassemblyFn: disassemblyFn,
	}, nil
}

// Disassembler decodes x86 instructions.
type Disassembler struct {
	bits          int
	disassemblyFn func(inst x86asm.Inst) string
}

// Next decodes the first instruction in rawInstructions.
func (o *Disassembler) Next(rawInstructions []byte) (Inst, error) {
	x86Inst, err := x86asm.Decode(rawInstructions, o.bits)
	if err != nil {
		return Inst{}, err
	}

	var disassembly string
	if o.disassemblyFn != nil {
		disassembly = o.disassemblyFn(x86Inst)
	}

	return Inst{
		Bin:  copySlice(rawInstructions, x86Inst.Len),
		Len:  x86Inst.Len,
		Dis:  disassembly,
		Inst: x86Inst,
	}, nil
}

func copySlice(src []byte, numBytes int) []byte {
	cp := make([]byte, numBytes)

	copy(cp, src[0:numBytes])

	return cp
}

// Inst is a decoded instruction.
type Inst struct {
	Bin  []byte
	Len  int
	Dis  string
	Inst x86asm.Inst
}

// RIPRelative returns the displacement of the instruction's RIP-relative
// memory operand. The second return value is false if the instruction
// has no such operand.
func (o Inst) RIPRelative() (int64, bool) {
	for _, arg := range o.Inst.Args {
		if arg == nil {
			break
		}

		mem, isMem := arg.(x86asm.Mem)
		if isMem && mem.Base == x86asm.RIP {
			return mem.Disp, true
		}
	}

	return 0, false
}

// CheckRIPRelative decodes the instruction at the start of raw and
// verifies that it is instLen bytes long, and that it has a RIP-relative
// operand whose displacement is stored at dispOffset.
func (o *Disassembler) CheckRIPRelative(raw []byte, dispOffset int, instLen int) (Inst, error) {
	inst, err := o.Next(raw)
	if err != nil {
		return Inst{}, fmt.Errorf("failed to decode instruction - %w", err)
	}

	if inst.Len != instLen {
		return inst, fmt.Errorf("instruction is %d bytes long, expected %d (%q)",
			inst.Len, instLen, inst.Dis)
	}

	disp, hasIt := inst.RIPRelative()
	if !hasIt {
		return inst, fmt.Errorf("instruction has no rip-relative operand (%q)", inst.Dis)
	}

	if dispOffset < 0 || dispOffset+4 > len(inst.Bin) {
		return inst, errors.New("displacement offset is outside of the instruction")
	}

	raw32 := int32(uint32(inst.Bin[dispOffset]) |
		uint32(inst.Bin[dispOffset+1])<<8 |
		uint32(inst.Bin[dispOffset+2])<<16 |
		uint32(inst.Bin[dispOffset+3])<<24)

	if int64(raw32) != disp {
		return inst, fmt.Errorf("displacement at offset %d is 0x%x, but the decoded operand uses 0x%x (%q)",
			dispOffset, raw32, disp, inst.Dis)
	}

	return inst, nil
}
