package input

type fakeKeyboard map[uint16]bool

func (o fakeKeyboard) IsKeyDown(code uint16) bool {
	return o[code]
}

type fakeController struct {
	state     GamepadState
	connected bool
}

func (o fakeController) State(slot int) (GamepadState, bool) {
	if slot != 0 {
		return GamepadState{}, false
	}

	return o.state, o.connected
}
