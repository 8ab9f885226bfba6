// Package override maps input combos to values, and writes those
// values into a resolved memory cell.
package override

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/stephen-fox/tskit/input"
)

// Mode determines how a Binding's value is applied.
type Mode int

const (
	// Toggle applies a binding's value when its combo is pressed,
	// and leaves it in place until another binding fires.
	Toggle Mode = iota

	// Hold applies a binding's value only while its combo is held,
	// reverting to the reset value when it is released.
	Hold
)

func (o Mode) String() string {
	switch o {
	case Toggle:
		return "toggle"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("unknown mode (%d)", int(o))
	}
}

// ParseMode parses "toggle" or "hold", ignoring case and surrounding
// whitespace. Toggle and false are returned for anything else.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toggle":
		return Toggle, true
	case "hold":
		return Hold, true
	default:
		return Toggle, false
	}
}

// Binding maps alternative combos to a value. Any one of the
// combos satisfies the binding.
type Binding struct {
	Name   string
	Value  float32
	Combos []input.Combo
}

// ValueWriter receives the values selected by a Session.
type ValueWriter interface {
	WriteValue(value float32) error
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Mode Mode

	// Bindings are evaluated, and their values written, in order.
	Bindings []Binding

	// Reset is the binding for the normal value. It is evaluated
	// after Bindings, and its value is what Hold mode reverts to.
	Reset Binding
}

func (o SessionConfig) validate() error {
	switch o.Mode {
	case Toggle, Hold:
	default:
		return fmt.Errorf("unsupported mode: %s", o.Mode)
	}

	names := make(map[string]struct{})
	for _, b := range append([]Binding{o.Reset}, o.Bindings...) {
		if b.Name == "" {
			return errors.New("binding name cannot be empty")
		}

		if _, hasIt := names[b.Name]; hasIt {
			return fmt.Errorf("binding %q is defined more than once", b.Name)
		}

		names[b.Name] = struct{}{}
	}

	return nil
}

// NewSession creates a new *Session. All HeldFlags start out false.
func NewSession(config SessionConfig) (*Session, error) {
	err := config.validate()
	if err != nil {
		return nil, err
	}

	all := append(append([]Binding{}, config.Bindings...), config.Reset)

	wasHeld := make([][]bool, len(all))
	for i, b := range all {
		wasHeld[i] = make([]bool, len(b.Combos))
	}

	return &Session{
		config:  config,
		all:     all,
		held:    make([]bool, len(config.Bindings)),
		wasHeld: wasHeld,
	}, nil
}

// Session is the input state machine. It is not safe for concurrent use.
type Session struct {
	config SessionConfig

	// all is Bindings followed by Reset.
	all []Binding

	// held is the HeldFlag of each non-reset binding.
	held []bool

	// wasHeld is the previous tick's state of each combo,
	// indexed like all.
	wasHeld [][]bool
}

// Mode returns the session's mode.
func (o *Session) Mode() Mode {
	return o.config.Mode
}

// Held returns the HeldFlag of the named binding. It is always false
// in Toggle mode, and for the reset binding.
func (o *Session) Held(name string) bool {
	for i, b := range o.config.Bindings {
		if b.Name == name {
			return o.held[i]
		}
	}

	return false
}

// Tick evaluates every binding against devices and writes the selected
// values to w. It should be called at a fixed interval.
//
// In Toggle mode keyboard combos fire once per press, while controller
// combos fire on every tick they are held. When several bindings fire
// in one tick, the last write wins, and the reset binding is written last.
//
// In Hold mode every combo is level triggered.
func (o *Session) Tick(devices input.Devices, w ValueWriter) error {
	asserted := make([]bool, len(o.all))
	for i := range o.all {
		asserted[i] = o.evaluate(i, devices)
	}

	resetAsserted := asserted[len(o.all)-1]
	normal := o.config.Reset.Value

	var errs []error
	write := func(v float32) {
		err := w.WriteValue(v)
		if err != nil {
			errs = append(errs, err)
		}
	}

	switch o.config.Mode {
	case Toggle:
		for i, b := range o.config.Bindings {
			if asserted[i] {
				write(b.Value)
			}
		}
	case Hold:
		for i, b := range o.config.Bindings {
			if asserted[i] {
				write(b.Value)
				o.held[i] = true
			} else if o.held[i] {
				write(normal)
				o.held[i] = false
			}
		}
	}

	if resetAsserted {
		write(normal)
	}

	return errors.Join(errs...)
}

// evaluate reports whether the binding at index i is asserted this
// tick. Every combo is evaluated so that edge state stays current.
func (o *Session) evaluate(i int, devices input.Devices) bool {
	asserted := false

	for j, combo := range o.all[i].Combos {
		isHeld := combo.Held(devices)

		fired := isHeld
		if o.config.Mode == Toggle && combo.Source == input.Keyboard {
			fired = isHeld && !o.wasHeld[i][j]
		}

		o.wasHeld[i][j] = isHeld

		if fired {
			asserted = true
		}
	}

	return asserted
}
