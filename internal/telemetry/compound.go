package telemetry

import "strings"

// Compound is the tire compound as far as this analysis cares: wet or dry.
type Compound uint8

const (
	CompoundUnknown Compound = iota
	Intermediate
	Slick
)

const (
	labelIntermediate = "INTERMEDIATE"
	labelSlick        = "SLICK"
)

func (c Compound) String() string {
	switch c {
	case Intermediate:
		return labelIntermediate
	case Slick:
		return labelSlick
	case CompoundUnknown:
		return "UNKNOWN"
	}
	return "UNKNOWN"
}

func (c Compound) Valid() bool {
	return c == Intermediate || c == Slick
}

// NormalizeCompound maps a raw compound label of the data provider onto the
// two-valued domain. The mapping is total: every label that is not an
// intermediate is treated as a slick (SOFT, MEDIUM, HARD, WET, empty, ...).
func NormalizeCompound(raw string) Compound {
	if strings.ToUpper(strings.TrimSpace(raw)) == labelIntermediate {
		return Intermediate
	}
	return Slick
}
