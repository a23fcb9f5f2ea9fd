package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/pkg/util"
)

// CurrentSchemaVersion is written by Write.
const CurrentSchemaVersion = "1.0.0"

var ErrLapNotFound = errors.New("lap not found in dataset")

type (
	// File is the on-disk representation of a session's telemetry.
	// JSON files are read as well since JSON is a subset of YAML.
	File struct {
		SchemaVersion string `yaml:"schemaVersion"`
		Event         string `yaml:"event,omitempty"`
		Laps          []Lap  `yaml:"laps"`
	}
	Lap struct {
		Driver    string  `yaml:"driver"`
		LapNumber int     `yaml:"lapNumber"`
		Compound  string  `yaml:"compound"`
		Stint     int     `yaml:"stint"`
		Telemetry []Point `yaml:"telemetry,omitempty"`
	}
	Point struct {
		Distance float64 `yaml:"distance"`
		Speed    float64 `yaml:"speed"`
		X        float64 `yaml:"x"`
		Y        float64 `yaml:"y"`
	}
	lapKey struct {
		driver string
		lap    int
	}
)

// Dataset serves telemetry from a loaded File.
type Dataset struct {
	file   *File
	lookup map[lapKey]*Lap
}

var (
	_ telemetry.Provider  = (*Dataset)(nil)
	_ telemetry.LapSource = (*Dataset)(nil)
)

func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Dataset, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return New(&file)
}

func New(file *File) (*Dataset, error) {
	if err := util.CheckSchemaVersion(file.SchemaVersion); err != nil {
		return nil, err
	}
	ret := &Dataset{file: file, lookup: make(map[lapKey]*Lap, len(file.Laps))}
	for i := range file.Laps {
		l := &file.Laps[i]
		k := lapKey{driver: l.Driver, lap: l.LapNumber}
		if _, ok := ret.lookup[k]; ok {
			return nil, fmt.Errorf("duplicate lap %d for driver %s", l.LapNumber, l.Driver)
		}
		ret.lookup[k] = l
	}
	return ret, nil
}

func (d *Dataset) Event() string {
	return d.file.Event
}

func (d *Dataset) File() *File {
	return d.file
}

func (d *Dataset) Laps(_ context.Context) ([]telemetry.LapInfo, error) {
	return lo.Map(d.file.Laps, func(l Lap, _ int) telemetry.LapInfo {
		return telemetry.LapInfo{
			Driver:    l.Driver,
			LapNumber: l.LapNumber,
			Compound:  l.Compound,
			Stint:     l.Stint,
		}
	}), nil
}

func (d *Dataset) FetchLap(_ context.Context, driver string, lap int) ([]telemetry.Point, error) {
	l, ok := d.lookup[lapKey{driver: driver, lap: lap}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrLapNotFound, driver, lap)
	}
	return lo.Map(l.Telemetry, func(p Point, _ int) telemetry.Point {
		return telemetry.Point(p)
	}), nil
}

// Write stores the file as YAML.
func Write(w io.Writer, file *File) error {
	if file.SchemaVersion == "" {
		file.SchemaVersion = CurrentSchemaVersion
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}
