//go:build windows

package rusage

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// now only covers the current process; Windows keeps no running total for
// exited children.
func now() (Usage, error) {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user); err != nil {
		return Usage{}, fmt.Errorf("GetProcessTimes: %w", err)
	}

	return Usage{
		User:   filetimeDuration(user),
		System: filetimeDuration(kernel),
	}, nil
}

// filetimeDuration converts a FILETIME interval, counted in 100ns ticks.
func filetimeDuration(ft windows.Filetime) time.Duration {
	ticks := uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)
	return time.Duration(ticks * 100)
}
