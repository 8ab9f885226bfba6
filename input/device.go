package input

const (
	// TriggerThreshold is the right trigger value that must be exceeded
	// for a Controller combo to be held.
	TriggerThreshold = 30
)

// KeyboardDevice reports the state of keyboard keys.
type KeyboardDevice interface {
	// IsKeyDown returns true if the key with the specified
	// virtual-key code is currently held.
	IsKeyDown(code uint16) bool
}

// ControllerDevice reports the state of game controllers.
type ControllerDevice interface {
	// State returns the state of the controller in the specified
	// slot. The second return value is false if no controller is
	// connected, or if the state could not be queried.
	State(slot int) (GamepadState, bool)
}

// GamepadState is a snapshot of a controller.
type GamepadState struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
}

// Devices groups the devices combos are evaluated against.
// Either field may be nil, in which case combos of that
// source are never held.
type Devices struct {
	Keyboard   KeyboardDevice
	Controller ControllerDevice
}

// Held returns true if every code in the combo is currently held.
// Controller combos are evaluated against slot 0, and also require
// the right trigger to exceed TriggerThreshold.
func (o Combo) Held(devices Devices) bool {
	if len(o.Codes) == 0 {
		return false
	}

	switch o.Source {
	case Keyboard:
		if devices.Keyboard == nil {
			return false
		}

		for _, code := range o.Codes {
			if !devices.Keyboard.IsKeyDown(code) {
				return false
			}
		}

		return true
	case Controller:
		if devices.Controller == nil {
			return false
		}

		state, connected := devices.Controller.State(0)
		if !connected {
			return false
		}

		for _, bit := range o.Codes {
			if state.Buttons&bit == 0 {
				return false
			}
		}

		return state.RightTrigger > TriggerThreshold
	default:
		return false
	}
}
