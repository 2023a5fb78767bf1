package scene

import "github.com/NogikuchiKBYS/CUDAPathTracer/types"

// Optical surface properties: a diffuse albedo and an emitted radiance.
// Both may be non-zero at the same time.
type Optical struct {
	// Diffuse reflectance per channel, in [0, 1] by convention.
	Reflection types.Vec3

	// Emitted radiance per channel.
	Emission types.Vec3
}

// Create a purely emissive material.
func Emission(r, g, b float32) Optical {
	return Optical{Emission: types.XYZ(r, g, b)}
}

// Create a purely diffuse material.
func Reflection(r, g, b float32) Optical {
	return Optical{Reflection: types.XYZ(r, g, b)}
}

// Returns true if the material emits light.
func (o Optical) IsEmissive() bool {
	return o.Emission.MaxComponent() > 0
}
