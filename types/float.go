package types

// Threshold below which a vector length is treated as zero.
const floatCmpEpsilon float32 = 1e-12
