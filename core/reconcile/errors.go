package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is reported when a condition names a field outside the allow-list.
	ErrUnknownField = errors.New("unknown condition field")
	// ErrUnsupportedOperator is reported when a condition uses an operator outside ==, !=, <=, >=.
	ErrUnsupportedOperator = errors.New("unsupported condition operator")
	// ErrDuplicateField is reported when a condition list names the same field twice.
	ErrDuplicateField = errors.New("duplicate condition field")
	// ErrIncomparable is reported when an ordering operator meets operands of different kinds.
	ErrIncomparable = errors.New("incomparable condition operands")

	// ErrMissingTimestamp is reported when a stored record has no last-edited timestamp.
	ErrMissingTimestamp = errors.New("missing last edited time")
	// ErrMalformedTimestamp is reported when the timestamp does not match TimestampLayout.
	ErrMalformedTimestamp = errors.New("malformed last edited time")
)

// ConfigurationError describes a condition set that cannot be evaluated.
// It is returned as a value so callers can tell it apart from a false match.
type ConfigurationError struct {
	Field    string
	Operator string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("condition %s %q: %v", e.Field, e.Operator, e.Err)
	}
	return fmt.Sprintf("condition %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ParseError describes a stored record whose timestamp could not be read.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("record %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("record %s: %v: %q", e.Key, e.Err, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
