package workload

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a workload name or value is not recognized.
var ErrUnknownKind = errors.New("unknown workload")

// Kind identifies one of the synthetic workload shapes.
// The zero value is not a valid kind.
type Kind int

const (
	// IOHeavy waits on a timer, standing in for blocking I/O.
	IOHeavy Kind = iota + 1
	// CPUHeavy sums random draws, standing in for computation.
	CPUHeavy
)

// Kinds returns every valid kind in display order.
func Kinds() []Kind {
	return []Kind{IOHeavy, CPUHeavy}
}

func (k Kind) String() string {
	switch k {
	case IOHeavy:
		return "io_heavy"
	case CPUHeavy:
		return "cpu_heavy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k == IOHeavy || k == CPUHeavy
}

// ParseKind maps a workload name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "io_heavy":
		return IOHeavy, nil
	case "cpu_heavy":
		return CPUHeavy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
