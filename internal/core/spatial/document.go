package spatial

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidVector is returned for vector documents that are not three numbers long.
var ErrInvalidVector = errors.New("vector must have exactly three components")

// VecDoc is the YAML shape of a vector: a three element sequence.
type VecDoc []float64

func (d VecDoc) Vec() (Vec, error) {
	if len(d) != 3 {
		return Vec{}, fmt.Errorf("%w: got %d", ErrInvalidVector, len(d))
	}
	return Vec{X: d[0], Y: d[1], Z: d[2]}, nil
}

// VecOr returns def when the document is empty.
func (d VecDoc) VecOr(def Vec) (Vec, error) {
	if len(d) == 0 {
		return def, nil
	}
	return d.Vec()
}

func NewVecDoc(v Vec) VecDoc {
	return VecDoc{v.X, v.Y, v.Z}
}

// RotationDoc is the YAML shape of a rotation given as axis and angle.
type RotationDoc struct {
	Axis    VecDoc  `yaml:"axis"`
	Angle   float64 `yaml:"angle"`
	Degrees bool    `yaml:"degrees,omitempty"`
}

// Rotation converts the document. A nil document or empty axis is the identity.
func (d *RotationDoc) Rotation() (Rotation, error) {
	if d == nil || len(d.Axis) == 0 {
		return IdentityRotation(), nil
	}
	axis, err := d.Axis.Vec()
	if err != nil {
		return Rotation{}, fmt.Errorf("rotation axis: %w", err)
	}
	angle := d.Angle
	if d.Degrees {
		angle = angle * math.Pi / 180
	}
	return AxisAngle(axis, angle), nil
}
