package telemetry

import "fmt"

// Point is a single raw telemetry record as delivered by a Provider.
// Distance is the along-track distance since the start of the lap (m).
type Point struct {
	Distance float64
	Speed    float64
	X        float64
	Y        float64
}

// Sample is a Point tagged with driver, lap and the (normalized) compound in
// effect for that lap.
type Sample struct {
	Driver   string
	Lap      int
	Distance float64
	Speed    float64
	X        float64
	Y        float64
	Compound Compound
}

// LapRef identifies one lap of one driver to collect. Lap is the lap number
// used for fetching, RaceLap the number recorded on the samples.
type LapRef struct {
	Driver   string
	Lap      int
	RaceLap  int
	Compound string // raw label as delivered by the lap source
}

func (r LapRef) String() string {
	return fmt.Sprintf("%s/%d", r.Driver, r.Lap)
}

// LapInfo describes a lap as listed by a LapSource.
type LapInfo struct {
	Driver    string
	LapNumber int
	Compound  string
	Stint     int
}
