package processor

import "errors"

var (
	// ErrEmptyInput is returned when no usable reference lap distance exists.
	ErrEmptyInput = errors.New("no telemetry samples with positive distance")
	// ErrInvalidCompound signals a compound outside the INTERMEDIATE/SLICK domain.
	ErrInvalidCompound = errors.New("invalid compound label")
	// ErrInvalidSegmentCount is returned for a mini-sector count below 1.
	ErrInvalidSegmentCount = errors.New("number of mini-sectors must be at least 1")
)
