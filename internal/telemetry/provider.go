package telemetry

import "context"

type (
	// Provider delivers the ordered, distance augmented telemetry of one lap.
	Provider interface {
		FetchLap(ctx context.Context, driver string, lap int) ([]Point, error)
	}
	// LapSource lists the laps of a session.
	LapSource interface {
		Laps(ctx context.Context) ([]LapInfo, error)
	}
	// ProviderFunc adapts a function to the Provider interface.
	ProviderFunc func(ctx context.Context, driver string, lap int) ([]Point, error)
)

func (f ProviderFunc) FetchLap(ctx context.Context, driver string, lap int) ([]Point, error) {
	return f(ctx, driver, lap)
}
