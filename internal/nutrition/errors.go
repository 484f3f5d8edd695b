package nutrition

import (
	"errors"
	"fmt"
)

// ErrInternal marks an unexpected arithmetic failure on otherwise valid input.
var ErrInternal = errors.New("internal computation error")

// ValidationError reports a missing or out-of-domain input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InvalidRatioError reports custom macro ratios that do not sum to ~1.0.
type InvalidRatioError struct {
	Sum float64
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("macro ratios must sum to 1.0 (±%.2f), got %.3f", RatioTolerance, e.Sum)
}

// UnknownEnumError reports an activity level, goal or sex outside the defined set.
type UnknownEnumError struct {
	Field string
	Value string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}
