package domainerrors

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a computed value that escaped its documented range
// (confidence or score outside [0,100], risk adjustment outside [-10,10]).
// These are never silently clamped: the request aborts and the violation is
// logged for audit visibility.
var ErrInvariant = errors.New("invariant violation")

// Invariantf builds a CodeInternal error wrapping ErrInvariant.
func Invariantf(format string, args ...any) error {
	return Wrap(fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...)), CodeInternal, "internal invariant violated")
}
