package override

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/stephen-fox/tskit/asmkit"
	"gitlab.com/stephen-fox/tskit/input"
	"gitlab.com/stephen-fox/tskit/layout"
	"gitlab.com/stephen-fox/tskit/memory"
	"gitlab.com/stephen-fox/tskit/pattern"
)

const (
	// DefaultTickInterval is the time between input polls.
	DefaultTickInterval = 10 * time.Millisecond
)

// WorkerConfig configures Run.
type WorkerConfig struct {
	// Memory is the target process' memory.
	Memory memory.ReadWriter

	// Region is a snapshot of the module to scan.
	Region memory.Region

	// Target describes where the value lives.
	Target layout.Target

	// Pointers describes the target's pointer encoding.
	Pointers memory.PointerMaker

	// Session decides which value to write on each tick.
	Session *Session

	// Devices are polled on each tick.
	Devices input.Devices

	// TickInterval is the time between ticks. DefaultTickInterval
	// is used if this is zero.
	TickInterval time.Duration

	// ResolveInterval is the time between pointer slot polls.
	// memory.DefaultPollInterval is used if this is zero.
	ResolveInterval time.Duration

	// ResolveMaxPolls limits the number of pointer slot polls.
	// Zero means wait until the context is done.
	ResolveMaxPolls int

	// OptRecheckSlot re-reads the pointer slot before every write.
	OptRecheckSlot bool

	// OptLogger, when non-nil, receives progress messages.
	OptLogger logrus.FieldLogger
}

func (o WorkerConfig) validate() error {
	if o.Memory == nil {
		return errors.New("memory cannot be nil")
	}

	if len(o.Region.Data) == 0 {
		return errors.New("region cannot be empty")
	}

	if o.Session == nil {
		return errors.New("session cannot be nil")
	}

	if o.TickInterval < 0 {
		return errors.New("tick interval cannot be negative")
	}

	err := o.Target.Validate()
	if err != nil {
		return fmt.Errorf("invalid target - %w", err)
	}

	return nil
}

// Run locates the target's signature in the region, resolves the cell
// it refers to, and then applies the session's decisions to the cell on
// every tick until ctx is done.
//
// memory.ErrPatternNotFound and memory.ErrResolutionTimeout are returned
// (wrapped) if setup fails. Nil is returned once ctx is done after setup.
func Run(ctx context.Context, config WorkerConfig) error {
	err := config.validate()
	if err != nil {
		return err
	}

	logger := config.OptLogger
	if logger == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		logger = discard
	}

	if config.TickInterval == 0 {
		config.TickInterval = DefaultTickInterval
	}

	sig, err := pattern.ParseSignature(config.Target.Signature)
	if err != nil {
		return fmt.Errorf("failed to parse signature - %w", err)
	}

	matchAddr, err := config.Region.Locate(sig)
	if err != nil {
		return err
	}

	logger.Infof("found signature at 0x%x (module offset 0x%x)",
		matchAddr, matchAddr-config.Region.Base)

	checkInstruction(config, matchAddr, logger)

	resolver, err := memory.NewResolver(memory.ResolverConfig{
		Memory:             config.Memory,
		Pointers:           config.Pointers,
		DisplacementOffset: config.Target.DisplacementOffset,
		InstructionLength:  config.Target.InstructionLength,
		FieldOffset:        config.Target.FieldOffset,
		PollInterval:       config.ResolveInterval,
		OptMaxPolls:        config.ResolveMaxPolls,
		OptLogger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create resolver - %w", err)
	}

	cell, err := resolver.Resolve(ctx, matchAddr)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("failed to resolve cell - %w", err)
	}

	writer, err := memory.NewCellWriter(memory.CellWriterConfig{
		Memory:         config.Memory,
		Pointers:       config.Pointers,
		Cell:           cell,
		OptRecheckSlot: config.OptRecheckSlot,
	})
	if err != nil {
		return fmt.Errorf("failed to create cell writer - %w", err)
	}

	current, err := writer.ReadValue()
	if err != nil {
		logger.Warnf("failed to read initial value - %s", err)
	} else {
		logger.Infof("resolved cell %s, current value: %v", cell, current)
	}

	logger.Infof("applying %s bindings every %s", config.Session.Mode(), config.TickInterval)

	w := &changeLogger{
		writer: writer,
		logger: logger,
	}

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := config.Session.Tick(config.Devices, w)
			if err != nil {
				logger.Debugf("tick failed - %s", err)
			}
		}
	}
}

// checkInstruction decodes the matched instruction and warns if it
// does not agree with the target's constants. A disagreement usually
// means the signature matched an unrelated instruction, or the target
// belongs to a different build.
func checkInstruction(config WorkerConfig, matchAddr uintptr, logger logrus.FieldLogger) {
	bits := 64
	if config.Pointers.Size() == 4 {
		bits = 32
	}

	d, err := asmkit.NewDisassembler(asmkit.DisassemblerConfig{
		Syntax: asmkit.IntelSyntax,
		Bits:   bits,
	})
	if err != nil {
		logger.Warnf("failed to create disassembler - %s", err)
		return
	}

	offset := int(matchAddr - config.Region.Base)

	inst, err := d.CheckRIPRelative(config.Region.Data[offset:],
		config.Target.DisplacementOffset, config.Target.InstructionLength)
	if err != nil {
		logger.Warnf("matched instruction does not agree with the layout - %s", err)
		return
	}

	logger.Debugf("matched instruction: %s", inst.Dis)
}

// changeLogger logs values as they change, so that Hold mode's
// per-tick writes do not flood the log.
type changeLogger struct {
	writer  ValueWriter
	logger  logrus.FieldLogger
	last    float32
	written bool
}

func (o *changeLogger) WriteValue(value float32) error {
	err := o.writer.WriteValue(value)
	if err != nil {
		return err
	}

	if !o.written || o.last != value {
		o.logger.Infof("value set to %v", value)
	}

	o.last = value
	o.written = true

	return nil
}
