package contracts

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable signals that a collaborator could not supply a whole
// class of market data. Missing individual fields never raise this; scorers
// skip the affected signal and continue.
var ErrDataUnavailable = errors.New("market data unavailable")

// InvalidProfileError reports a structurally invalid financial profile,
// such as a negative income. Textual risk/horizon values that merely fail to
// parse fall back to defaults instead and never produce this error.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

// IsInvalidProfile reports whether err is an InvalidProfileError
func IsInvalidProfile(err error) bool {
	var ipe *InvalidProfileError
	return errors.As(err, &ipe)
}
