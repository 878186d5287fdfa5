// Package spatial holds the rigid transform math shared by skeletons, poses
// and pose data channels. Vectors and rotations are gonum r3 values so they
// can be handed to the rest of the gonum ecosystem without conversion.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D vector.
type Vec = r3.Vec

// Rotation is a unit quaternion rotation.
type Rotation = r3.Rotation

var (
	Zero = Vec{}
	One  = Vec{X: 1, Y: 1, Z: 1}
)

// IdentityRotation is the rotation that leaves every vector unchanged.
func IdentityRotation() Rotation {
	return Rotation{Real: 1}
}

// AxisAngle returns the rotation of angle radians around axis.
func AxisAngle(axis Vec, angle float64) Rotation {
	if r3.Norm(axis) == 0 || angle == 0 {
		return IdentityRotation()
	}
	return r3.NewRotation(angle, r3.Unit(axis))
}

// Transform is a position, rotation and per-axis scale. Points are scaled,
// then rotated, then translated.
type Transform struct {
	Position Vec
	Rotation Rotation
	Scale    Vec
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{Rotation: IdentityRotation(), Scale: One}
}

// FromPosition returns a pure translation.
func FromPosition(p Vec) Transform {
	t := Identity()
	t.Position = p
	return t
}

func FromPositionRotation(p Vec, r Rotation) Transform {
	return Transform{Position: p, Rotation: r, Scale: One}
}

// TransformPoint maps a point through the full transform.
func (t Transform) TransformPoint(p Vec) Vec {
	return r3.Add(t.TransformVector(p), t.Position)
}

// TransformVector maps a direction: scale and rotation only.
func (t Transform) TransformVector(v Vec) Vec {
	return t.Rotation.Rotate(mulElem(v, t.Scale))
}

// Mul composes t with child so that the result applied to p equals
// t.TransformPoint(child.TransformPoint(p)) for uniform scales.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Position: t.TransformPoint(child.Position),
		Rotation: Rotation(quat.Mul(quat.Number(t.Rotation), quat.Number(child.Rotation))),
		Scale:    mulElem(t.Scale, child.Scale),
	}
}

// Inverse returns the transform undoing t. Exact for uniform scale.
func (t Transform) Inverse() Transform {
	inv := Transform{
		Rotation: Rotation(quat.Conj(quat.Number(t.Rotation))),
		Scale:    invElem(t.Scale),
	}
	inv.Position = r3.Scale(-1, inv.TransformVector(t.Position))
	return inv
}

// Blend interpolates towards other by weight: positions and scales linearly,
// rotations spherically.
func (t Transform) Blend(other Transform, weight float64) Transform {
	return Transform{
		Position: Lerp(t.Position, other.Position, weight),
		Rotation: Slerp(t.Rotation, other.Rotation, weight),
		Scale:    Lerp(t.Scale, other.Scale, weight),
	}
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b Vec, t float64) Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Slerp interpolates along the shortest arc between two unit rotations.
func Slerp(a, b Rotation, t float64) Rotation {
	qa, qb := quat.Number(a), quat.Number(b)
	d := qa.Real*qb.Real + qa.Imag*qb.Imag + qa.Jmag*qb.Jmag + qa.Kmag*qb.Kmag
	if d < 0 {
		qb = quat.Scale(-1, qb)
		d = -d
	}
	if d > 0.9995 {
		q := quat.Add(qa, quat.Scale(t, quat.Sub(qb, qa)))
		return Rotation(quat.Scale(1/quat.Abs(q), q))
	}
	theta := math.Acos(d)
	s := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / s
	wb := math.Sin(t*theta) / s
	return Rotation(quat.Add(quat.Scale(wa, qa), quat.Scale(wb, qb)))
}

// ApproxEqual reports whether every component of a and b differs by at most tol.
func ApproxEqual(a, b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func mulElem(a, b Vec) Vec {
	return Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func invElem(v Vec) Vec {
	return Vec{X: 1 / v.X, Y: 1 / v.Y, Z: 1 / v.Z}
}
