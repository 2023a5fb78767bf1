package integrator

// Path tracing parameters shared by all backends.
type Options struct {
	// Maximum number of path segments traced per sample.
	NumBounces uint32

	// Min bounces before applying russian roulette for path elimination.
	// Setting it above NumBounces disables roulette.
	MinBouncesForRR uint32

	// Roulette only applies to paths whose max throughput component is
	// below this value.
	RRThreshold float32

	// Jitter primary rays inside each pixel.
	Jitter bool
}

// Get the default tracing options.
func DefaultOptions() Options {
	return Options{
		NumBounces:      16,
		MinBouncesForRR: 3,
		RRThreshold:     1,
		Jitter:          true,
	}
}

// Returns true if roulette may terminate a path after the given bounce.
func (o Options) rouletteEnabled(bounce uint32) bool {
	return o.MinBouncesForRR <= o.NumBounces && bounce+1 >= o.MinBouncesForRR
}
