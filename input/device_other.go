//go:build !windows

package input

import (
	"fmt"
	"runtime"
)

// SystemDevices is only supported on Windows.
func SystemDevices() (Devices, error) {
	return Devices{}, fmt.Errorf("input devices are not supported on %s", runtime.GOOS)
}
