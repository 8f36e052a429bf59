package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")

	// ErrIndex is matched by every *IndexError.
	ErrIndex = errors.New("index out of range")
)

// ConfigError reports a malformed option at a call boundary. It is always
// returned before any data is touched.
type ConfigError struct {
	Option  string
	Value   interface{}
	Allowed []string
	Reason  string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Option)
	if e.Value != nil {
		fmt.Fprintf(&b, ": %v", e.Value)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " (%s)", e.Reason)
	}
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, ", allowed: %s", strings.Join(e.Allowed, ", "))
	}
	return b.String()
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError returns a ConfigError for option with a free-form reason.
func NewConfigError(option, reason string) *ConfigError {
	return &ConfigError{Option: option, Reason: reason}
}

// IndexError reports positional access outside [0, Size).
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Size)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}
