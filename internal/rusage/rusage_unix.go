//go:build unix

package rusage

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func now() (Usage, error) {
	var self, children unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &self); err != nil {
		return Usage{}, fmt.Errorf("getrusage self: %w", err)
	}
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &children); err != nil {
		return Usage{}, fmt.Errorf("getrusage children: %w", err)
	}

	return Usage{
		User:   time.Duration(self.Utime.Nano() + children.Utime.Nano()),
		System: time.Duration(self.Stime.Nano() + children.Stime.Nano()),
	}, nil
}
