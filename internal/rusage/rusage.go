// Package rusage reads the CPU time consumed by the current process and
// the child processes it has reaped.
package rusage

import "time"

// Usage is a snapshot of accumulated CPU time.
type Usage struct {
	User   time.Duration
	System time.Duration
}

// Total returns user plus system time.
func (u Usage) Total() time.Duration {
	return u.User + u.System
}

// Sub returns the CPU time spent between an earlier snapshot and u.
func (u Usage) Sub(earlier Usage) Usage {
	return Usage{
		User:   u.User - earlier.User,
		System: u.System - earlier.System,
	}
}

// Now returns the CPU time of this process plus all reaped children.
func Now() (Usage, error) {
	return now()
}
