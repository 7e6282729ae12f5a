package bench

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a strategy name or value is not recognized.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy selects which kind of pool runs the tasks.
// The zero value is not a valid strategy.
type Strategy int

const (
	// Thread runs tasks on goroutines in this process.
	Thread Strategy = iota + 1
	// Process runs tasks in separate worker processes.
	Process
)

// Strategies returns every valid strategy in display order.
func Strategies() []Strategy {
	return []Strategy{Thread, Process}
}

func (s Strategy) String() string {
	switch s {
	case Thread:
		return "multithread"
	case Process:
		return "multiprocessor"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	return s == Thread || s == Process
}

// ParseStrategy maps a strategy name to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "multithread":
		return Thread, nil
	case "multiprocessor":
		return Process, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
