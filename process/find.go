package process

import (
	"context"
	"fmt"
	"strings"

	gopsprocess "github.com/shirou/gopsutil/v3/process"
)

// FindByNameOrExit calls FindByName and calls DefaultExitFn if an error occurs.
func FindByNameOrExit(ctx context.Context, name string) uint32 {
	pid, err := FindByName(ctx, name)
	if err != nil {
		DefaultExitFn(err)
	}
	return pid
}

// FindByName returns the PID of the first process whose executable
// name matches name, ignoring case. A trailing ".exe" is optional on
// both sides of the comparison. ErrNotFound is returned if no process
// matches.
func FindByName(ctx context.Context, name string) (uint32, error) {
	want := trimExe(name)
	if want == "" {
		return 0, fmt.Errorf("process name cannot be empty")
	}

	procs, err := gopsprocess.ProcessesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list processes - %w", err)
	}

	for _, proc := range procs {
		procName, err := proc.NameWithContext(ctx)
		if err != nil {
			// Processes can exit while being listed, and some
			// belong to other users.
			continue
		}

		if strings.EqualFold(trimExe(procName), want) {
			return uint32(proc.Pid), nil
		}
	}

	return 0, fmt.Errorf("failed to find process named %q - %w", name, ErrNotFound)
}

// Exists returns true if a process with the specified PID is running.
func Exists(ctx context.Context, pid uint32) (bool, error) {
	return gopsprocess.PidExistsWithContext(ctx, int32(pid))
}

func trimExe(name string) string {
	name = strings.TrimSpace(name)

	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}

	return name
}
