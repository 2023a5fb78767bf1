package integrator

import (
	"github.com/NogikuchiKBYS/CUDAPathTracer/types"
	"github.com/chewxy/math32"
)

// Map two uniform samples in [0, 1) to a cosine-weighted direction in the
// hemisphere around the unit normal n.
func CosineSampleHemisphere(n types.Vec3, u1, u2 float32) types.Vec3 {
	// Point on the unit disk lifted onto the hemisphere
	phi := 2 * math32.Pi * u1
	r := math32.Sqrt(u2)
	x := r * math32.Cos(phi)
	y := r * math32.Sin(phi)
	z := math32.Sqrt(math32.Max(0, 1-u2))

	tangent, bitangent := orthonormalBasis(n)
	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(n.Mul(z)).Normalize()
}

// Build two unit vectors that together with n form an orthonormal basis.
func orthonormalBasis(n types.Vec3) (types.Vec3, types.Vec3) {
	var helper types.Vec3
	if math32.Abs(n[0]) > 0.1 {
		helper = types.XYZ(0, 1, 0)
	} else {
		helper = types.XYZ(1, 0, 0)
	}

	tangent := helper.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}
