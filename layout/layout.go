// Package layout describes where a value lives inside a specific build
// of a target program.
//
// A Target pairs an instruction signature with the constants needed to
// follow that instruction to the value. These constants are tied to one
// build of the target and are never discovered at runtime. When a new
// build moves things around, add a new context to the Table rather than
// editing the existing one.
package layout

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"gitlab.com/stephen-fox/tskit/pattern"
)

const (
	// DefaultContext is the name of the context selected by NewTable
	// and populated by DefaultTable.
	DefaultContext = "default"

	// TimescaleName is the name of the timescale Target in
	// DefaultTable.
	TimescaleName = "timescale"

	// TimescaleSignature matches the instruction that loads the
	// timescale manager's address into rax, followed by the load
	// of the timescale float from it:
	//
	//	48 8b 05 xx xx xx xx    mov rax, [rip+disp32]
	//	f3 0f 10 88 cc 02 00 00 movss xmm1, [rax+0x2cc]
	TimescaleSignature = "48 8b 05 ?? ?? ?? ?? f3 0f 10 88 cc 02 00 00"
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)

// Target is the location of a value in one build of a program.
type Target struct {
	// Signature finds the instruction that references the value's
	// owning structure.
	Signature string

	// DisplacementOffset is the offset of the instruction's 32-bit
	// RIP-relative displacement from the start of the match.
	DisplacementOffset int

	// InstructionLength is the length of the matched instruction.
	InstructionLength int

	// FieldOffset is the offset of the value within its owning
	// structure.
	FieldOffset uintptr
}

// Validate returns a non-nil error if the target cannot be used
// to resolve a value.
func (o Target) Validate() error {
	sig, err := pattern.ParseSignature(o.Signature)
	if err != nil {
		return fmt.Errorf("failed to parse signature - %w", err)
	}

	if o.DisplacementOffset < 0 {
		return errors.New("displacement offset cannot be negative")
	}

	if o.InstructionLength < o.DisplacementOffset+4 {
		return fmt.Errorf("instruction length %d cannot hold a displacement at offset %d",
			o.InstructionLength, o.DisplacementOffset)
	}

	if o.InstructionLength > sig.Len() {
		return fmt.Errorf("instruction length %d is longer than the %d byte signature",
			o.InstructionLength, sig.Len())
	}

	return nil
}

// ParsedSignature parses the target's signature.
func (o Target) ParsedSignature() (pattern.Signature, error) {
	return pattern.ParseSignature(o.Signature)
}

// TimescaleTarget returns the layout of the timescale value.
func TimescaleTarget() Target {
	return Target{
		Signature:          TimescaleSignature,
		DisplacementOffset: 3,
		InstructionLength:  7,
		FieldOffset:        0x2cc,
	}
}

// DefaultTable returns a *Table containing the known layouts, with
// DefaultContext selected.
func DefaultTable() *Table {
	return NewTable(DefaultContext).
		AddTargetInContext(TimescaleName, TimescaleTarget(), DefaultContext)
}

// NewTable creates a new instance of a *Table with the specified
// initial context. Refer to Table's documentation for more information.
func NewTable(initialContext string) *Table {
	return &Table{
		currentContext:        initialContext,
		contextToNameToTarget: make(map[string]map[string]Target),
	}
}

// Table organizes Targets for different contexts. A context is
// usually the version of the target program.
//
// Switching builds is then a matter of selecting a different context,
// rather than editing offsets that are correct for some other build.
type Table struct {
	currentContext        string
	contextToNameToTarget map[string]map[string]Target
}

// SetContext sets the current context to the specified value.
func (o *Table) SetContext(context string) *Table {
	o.currentContext = context
	return o
}

// CurrentContext returns the current context.
func (o *Table) CurrentContext() string {
	return o.currentContext
}

// Contexts returns the names of all contexts in sorted order.
func (o *Table) Contexts() []string {
	var names []string
	for name := range o.contextToNameToTarget {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AddTargetInContext adds or sets a named Target for the specified context.
func (o *Table) AddTargetInContext(name string, target Target, context string) *Table {
	nameToTarget := o.contextToNameToTarget[context]
	if nameToTarget == nil {
		nameToTarget = make(map[string]Target)
	}

	nameToTarget[name] = target
	o.contextToNameToTarget[context] = nameToTarget

	return o
}

// TargetOrExit calls Target and calls DefaultExitFn if an error occurs.
func (o *Table) TargetOrExit(name string) Target {
	target, err := o.Target(name)
	if err != nil {
		DefaultExitFn(err)
	}

	return target
}

// Target returns the named Target for the currently selected context.
func (o *Table) Target(name string) (Target, error) {
	nameToTarget, hasIt := o.contextToNameToTarget[o.currentContext]
	if !hasIt {
		return Target{}, fmt.Errorf("the current context ('%s') is not in the layout table",
			o.currentContext)
	}

	target, hasIt := nameToTarget[name]
	if !hasIt {
		return Target{}, fmt.Errorf("failed to find the target '%s' in the table for '%s'",
			name, o.currentContext)
	}

	return target, nil
}
