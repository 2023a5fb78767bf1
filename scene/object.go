package scene

// A scene object pairs a shape with its material.
type Object struct {
	Shape   Shape
	Optical Optical
}

// Create a new object.
func NewObject(shape Shape, optical Optical) Object {
	return Object{Shape: shape, Optical: optical}
}
