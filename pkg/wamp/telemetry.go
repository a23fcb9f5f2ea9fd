package wamp

import (
	"context"
	"fmt"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

const (
	ProcGetVersion      = "telemetry.get_version"
	ProcGetLaps         = "telemetry.get_laps"
	ProcGetLapTelemetry = "telemetry.get_lap_telemetry"
)

// ProviderInfo is returned by the provider's version endpoint.
type ProviderInfo struct {
	Version string
	Event   string
}

// TelemetryClient fetches session telemetry from a remote provider.
type TelemetryClient struct {
	client *client.Client
}

var (
	_ telemetry.Provider  = (*TelemetryClient)(nil)
	_ telemetry.LapSource = (*TelemetryClient)(nil)
)

func NewTelemetryClient(c *client.Client) *TelemetryClient {
	return &TelemetryClient{client: c}
}

func (tc *TelemetryClient) Close() error {
	return tc.client.Close()
}

func (tc *TelemetryClient) Client() *client.Client {
	return tc.client
}

func (tc *TelemetryClient) call(ctx context.Context, proc string, args ...any) (any, error) {
	result, err := tc.client.Call(ctx, proc, nil, wamp.List(args), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", proc, err)
	}
	if len(result.Arguments) == 0 {
		return nil, fmt.Errorf("%s: %w", proc, ErrNoResults)
	}
	return result.Arguments[0], nil
}

func (tc *TelemetryClient) GetInfo(ctx context.Context) (*ProviderInfo, error) {
	res, err := tc.call(ctx, ProcGetVersion)
	if err != nil {
		return nil, err
	}
	d, ok := wamp.AsDict(res)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected payload %T", ProcGetVersion, res)
	}
	ret := &ProviderInfo{}
	ret.Version, _ = wamp.AsString(d["version"])
	ret.Event, _ = wamp.AsString(d["event"])
	return ret, nil
}

func (tc *TelemetryClient) GetVersion(ctx context.Context) (string, error) {
	info, err := tc.GetInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.Version, nil
}

func (tc *TelemetryClient) Laps(ctx context.Context) ([]telemetry.LapInfo, error) {
	res, err := tc.call(ctx, ProcGetLaps)
	if err != nil {
		return nil, err
	}
	items, ok := wamp.AsList(res)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected payload %T", ProcGetLaps, res)
	}
	ret := make([]telemetry.LapInfo, 0, len(items))
	for i, item := range items {
		d, ok := wamp.AsDict(item)
		if !ok {
			return nil, fmt.Errorf("%s: entry %d: unexpected payload %T", ProcGetLaps, i, item)
		}
		ret = append(ret, decodeLapInfo(d))
	}
	return ret, nil
}

func (tc *TelemetryClient) FetchLap(ctx context.Context, driver string, lap int) (
	[]telemetry.Point, error,
) {
	res, err := tc.call(ctx, ProcGetLapTelemetry, driver, lap)
	if err != nil {
		return nil, err
	}
	items, ok := wamp.AsList(res)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected payload %T", ProcGetLapTelemetry, res)
	}
	ret := make([]telemetry.Point, 0, len(items))
	for i, item := range items {
		p, err := decodePoint(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %s/%d entry %d: %w",
				ProcGetLapTelemetry, driver, lap, i, err)
		}
		ret = append(ret, p)
	}
	return ret, nil
}

func decodeLapInfo(d wamp.Dict) telemetry.LapInfo {
	ret := telemetry.LapInfo{}
	ret.Driver, _ = wamp.AsString(d["driver"])
	ret.Compound, _ = wamp.AsString(d["compound"])
	if v, ok := wamp.AsInt64(d["lapNumber"]); ok {
		ret.LapNumber = int(v)
	}
	if v, ok := wamp.AsInt64(d["stint"]); ok {
		ret.Stint = int(v)
	}
	return ret
}

// decodePoint accepts either a dict with distance, speed, x and y or the
// compact form [distance, speed, x, y].
func decodePoint(item any) (telemetry.Point, error) {
	if d, ok := wamp.AsDict(item); ok {
		return pointFromValues(d["distance"], d["speed"], d["x"], d["y"])
	}
	if l, ok := wamp.AsList(item); ok {
		if len(l) != 4 {
			return telemetry.Point{}, fmt.Errorf("need 4 values, got %d", len(l))
		}
		return pointFromValues(l[0], l[1], l[2], l[3])
	}
	return telemetry.Point{}, fmt.Errorf("unexpected payload %T", item)
}

func pointFromValues(vals ...any) (telemetry.Point, error) {
	f := make([]float64, len(vals))
	for i, v := range vals {
		var ok bool
		if f[i], ok = wamp.AsFloat64(v); !ok {
			return telemetry.Point{}, fmt.Errorf("value %d: not a number: %v", i, v)
		}
	}
	return telemetry.Point{Distance: f[0], Speed: f[1], X: f[2], Y: f[3]}, nil
}
