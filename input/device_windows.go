package input

import (
	"fmt"
	"unsafe"

	"github.com/JamesHovious/w32"
	"golang.org/x/sys/windows"
)

var (
	xinput             = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = xinput.NewProc("XInputGetState")
)

// SystemDevices returns the keyboard and XInput controller devices
// of the current Windows session.
func SystemDevices() (Devices, error) {
	err := xinput.Load()
	if err != nil {
		return Devices{}, fmt.Errorf("failed to load xinput - %w", err)
	}

	return Devices{
		Keyboard:   asyncKeyboard{},
		Controller: xinputController{},
	}, nil
}

// asyncKeyboard reports key state using GetAsyncKeyState, which
// works regardless of which window has focus.
type asyncKeyboard struct{}

func (o asyncKeyboard) IsKeyDown(code uint16) bool {
	return w32.GetAsyncKeyState(int(code))&0x8000 != 0
}

// xinputState mirrors XINPUT_STATE.
type xinputState struct {
	PacketNumber uint32
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputController struct{}

func (o xinputController) State(slot int) (GamepadState, bool) {
	var state xinputState

	ret, _, _ := procXInputGetState.Call(uintptr(slot), uintptr(unsafe.Pointer(&state)))
	if ret != uintptr(windows.ERROR_SUCCESS) {
		return GamepadState{}, false
	}

	return GamepadState{
		Buttons:      state.Buttons,
		LeftTrigger:  state.LeftTrigger,
		RightTrigger: state.RightTrigger,
	}, true
}
