package channels

import "fmt"

// Role identifies one of the four channel arrays on a Bus.
type Role int

const (
	NumericIn Role = iota
	BooleanIn
	NumericOut
	BooleanOut
)

// Roles lists every role in a stable order.
var Roles = []Role{NumericIn, BooleanIn, NumericOut, BooleanOut}

func (r Role) String() string {
	switch r {
	case NumericIn:
		return "numeric-in"
	case BooleanIn:
		return "boolean-in"
	case NumericOut:
		return "numeric-out"
	case BooleanOut:
		return "boolean-out"
	default:
		return "unknown"
	}
}

// Numeric reports whether the role carries float64 values.
func (r Role) Numeric() bool {
	return r == NumericIn || r == NumericOut
}

// Input reports whether the role is written by the remote side.
func (r Role) Input() bool {
	return r == NumericIn || r == BooleanIn
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown channel role: %q", s)
}
