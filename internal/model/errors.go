package model

import "errors"

// Validation errors shared across the evaluation pipeline. All of them are
// deterministic input failures detected before or at the start of a
// computation; call sites wrap them with the offending value so errors.Is
// still matches at the caller.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrUnknownMetric    = errors.New("unknown metric")
)
