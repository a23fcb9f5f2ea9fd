package telemetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSelection_Apply(t *testing.T) {
	laps := []LapInfo{
		{Driver: "HAM", LapNumber: 1, Compound: "MEDIUM", Stint: 1},
		{Driver: "HAM", LapNumber: 45, Compound: "MEDIUM", Stint: 1},
		{Driver: "HAM", LapNumber: 46, Compound: "MEDIUM", Stint: 1},
		{Driver: "HAM", LapNumber: 50, Compound: "INTERMEDIATE", Stint: 2},
		{Driver: "NOR", LapNumber: 47, Compound: "HARD", Stint: 2},
	}
	tests := []struct {
		name string
		sel  Selection
		want []LapRef
	}{
		{
			name: "from race lap 45 onwards",
			sel:  Selection{LapOffset: 1, MinLap: 45},
			want: []LapRef{
				{Driver: "HAM", Lap: 46, RaceLap: 45, Compound: "MEDIUM"},
				{Driver: "HAM", Lap: 50, RaceLap: 49, Compound: "INTERMEDIATE"},
				{Driver: "NOR", Lap: 47, RaceLap: 46, Compound: "HARD"},
			},
		},
		{
			name: "formation lap dropped",
			sel:  Selection{LapOffset: 1, MaxLap: 1, Drivers: []string{"HAM"}},
			want: []LapRef{},
		},
		{
			name: "stint and driver filter",
			sel:  Selection{Drivers: []string{"HAM"}, Stints: []int{2}},
			want: []LapRef{{Driver: "HAM", Lap: 50, RaceLap: 50, Compound: "INTERMEDIATE"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sel.Apply(laps)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Selection.Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
