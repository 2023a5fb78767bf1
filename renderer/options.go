package renderer

import (
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/tracer/integrator"
)

type Options struct {
	// Number of indirect bounces.
	NumBounces uint32

	// Min bounces before applying russian roulette for path elimination.
	// Setting it above NumBounces disables roulette.
	MinBouncesForRR uint32

	// Roulette only applies while the path throughput is below this value.
	RRThreshold float32

	// Jitter primary rays inside each pixel.
	Jitter bool

	// The run seed. A zero seed selects a time-derived value.
	Seed uint64

	// Number of host worker goroutines; <= 0 uses runtime.NumCPU().
	Workers int

	// Number of rows traced by each device kernel launch.
	RowsPerLaunch uint32

	// Device selection: type (cpu, gpu or all), name substring and
	// case-insensitive name blacklist.
	DeviceType         string
	DeviceName         string
	BlackListedDevices []string

	// Render on the host when no parallel device can be used.
	FallbackToHost bool
}

// Get the default render options.
func DefaultOptions() Options {
	intOpts := integrator.DefaultOptions()
	return Options{
		NumBounces:      intOpts.NumBounces,
		MinBouncesForRR: intOpts.MinBouncesForRR,
		RRThreshold:     intOpts.RRThreshold,
		Jitter:          intOpts.Jitter,
		RowsPerLaunch:   16,
		DeviceType:      "all",
	}
}

// Get the tracing options shared by all backends.
func (o Options) IntegratorOptions() integrator.Options {
	return integrator.Options{
		NumBounces:      o.NumBounces,
		MinBouncesForRR: o.MinBouncesForRR,
		RRThreshold:     o.RRThreshold,
		Jitter:          o.Jitter,
	}
}

// Get the seed for a render call.
func (o Options) RunSeed() uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return uint64(time.Now().UnixNano())
}
