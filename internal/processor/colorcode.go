package processor

import (
	"fmt"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

// ColorCode is the integer a compound is drawn with.
type ColorCode int

const (
	CodeNone         ColorCode = 0
	CodeIntermediate ColorCode = 1
	CodeSlick        ColorCode = 2
)

func CodeFor(c telemetry.Compound) (ColorCode, error) {
	switch c {
	case telemetry.Intermediate:
		return CodeIntermediate, nil
	case telemetry.Slick:
		return CodeSlick, nil
	case telemetry.CompoundUnknown:
	}
	return CodeNone, fmt.Errorf("color mapper: %w: %s", ErrInvalidCompound, c)
}

// EncodeCompounds sets the color code of the fastest compound on every sample.
func EncodeCompounds(samples []MergedSample) error {
	for i := range samples {
		code, err := CodeFor(samples[i].Fastest)
		if err != nil {
			return fmt.Errorf("%w (lap %d, mini-sector %d)", err, samples[i].Lap, samples[i].Segment)
		}
		samples[i].Code = code
	}
	return nil
}
