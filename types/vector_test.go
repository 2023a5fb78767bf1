package types

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Arithmetic(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, -5, 6)

	type spec struct {
		name string
		got  Vec3
		exp  Vec3
	}
	specs := []spec{
		{"add", a.Add(b), XYZ(5, -3, 9)},
		{"sub", a.Sub(b), XYZ(-3, 7, -3)},
		{"mul", a.Mul(2), XYZ(2, 4, 6)},
		{"div", a.Div(2), XYZ(0.5, 1, 1.5)},
		{"mulvec", a.MulVec(b), XYZ(4, -10, 18)},
		{"cross", a.Cross(b), XYZ(27, 6, -13)},
		{"min", MinVec3(a, b), XYZ(1, -5, 3)},
		{"max", MaxVec3(a, b), XYZ(4, 2, 6)},
	}

	for _, s := range specs {
		if !ApproxEqual(s.got, s.exp, 1e-6) {
			t.Fatalf("[%s] expected %v; got %v", s.name, s.exp, s.got)
		}
	}

	if dot := a.Dot(b); dot != 12 {
		t.Fatalf("expected dot product to be 12; got %f", dot)
	}
}

func TestVec3Cross(t *testing.T) {
	x := XYZ(1, 0, 0)
	y := XYZ(0, 1, 0)
	if z := x.Cross(y); z != XYZ(0, 0, 1) {
		t.Fatalf("expected x cross y to be +z; got %v", z)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if math32.Abs(v.Len()-1) > 1e-6 {
		t.Fatalf("expected unit length; got %f", v.Len())
	}
	if !ApproxEqual(v, XYZ(0.6, 0, 0.8), 1e-6) {
		t.Fatalf("expected (0.6, 0, 0.8); got %v", v)
	}

	if zero := (Vec3{}).Normalize(); !zero.IsZero() {
		t.Fatalf("expected zero vector to normalize to zero; got %v", zero)
	}
}

func TestVec3MaxComponent(t *testing.T) {
	if m := XYZ(0.2, 0.9, 0.5).MaxComponent(); m != 0.9 {
		t.Fatalf("expected max component 0.9; got %f", m)
	}
	if m := XYZ(-3, -1, -2).MaxComponent(); m != -1 {
		t.Fatalf("expected max component -1; got %f", m)
	}
}

func TestVec4Conversion(t *testing.T) {
	v := XYZ(1, 2, 3).Vec4(7)
	if v != XYZW(1, 2, 3, 7) {
		t.Fatalf("expected (1, 2, 3, 7); got %v", v)
	}
	if v.Vec3() != XYZ(1, 2, 3) {
		t.Fatalf("expected (1, 2, 3); got %v", v.Vec3())
	}
}
