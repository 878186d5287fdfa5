package posedata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/motionmatching/internal/core/motion"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

type fakeInstance struct {
	joints     int
	extraction int
}

func (f fakeInstance) NumJoints() int                  { return f.joints }
func (f fakeInstance) MotionExtractionJointIndex() int { return f.extraction }

// moverAndAnchor has two roots, "mover" with a rotated bind and "anchor" at
// the origin, plus "hand" one unit along the mover X axis.
func moverAndAnchor(t *testing.T, moverRotation spatial.Rotation) *skeleton.Skeleton {
	t.Helper()
	s, err := skeleton.New("pair", []skeleton.Joint{
		{Name: "mover", Parent: skeleton.InvalidIndex, Bind: spatial.FromPositionRotation(spatial.Vec{}, moverRotation)},
		{Name: "anchor", Parent: skeleton.InvalidIndex, Bind: spatial.Identity()},
		{Name: "hand", Parent: 0, Bind: spatial.FromPosition(spatial.Vec{X: 1})},
	}, 0)
	require.NoError(t, err)
	return s
}

// translating moves joint 0 from origin along velocity, other joints stay in bind pose.
func translating(velocity spatial.Vec, duration float64) *motion.Func {
	return &motion.Func{
		Label:  "translate",
		Length: duration,
		Fn: func(tm float64, joint int, bind spatial.Transform) spatial.Transform {
			if joint == 0 {
				bind.Position = spatial.Vec{X: velocity.X * tm, Y: velocity.Y * tm, Z: velocity.Z * tm}
			}
			return bind
		},
	}
}

func still(duration float64) *motion.Func {
	return &motion.Func{
		Label:  "still",
		Length: duration,
		Fn: func(_ float64, _ int, bind spatial.Transform) spatial.Transform {
			return bind
		},
	}
}

type recordingSource struct {
	*motion.Instance
	evaluated []float64
}

func (r *recordingSource) Evaluate(out *skeleton.Pose) {
	r.evaluated = append(r.evaluated, r.CurrentTime())
	r.Instance.Evaluate(out)
}

type panickingSource struct {
	*motion.Instance
	after int
	calls int
}

func (p *panickingSource) Evaluate(out *skeleton.Pose) {
	p.calls++
	if p.calls > p.after {
		panic("evaluate failed")
	}
	p.Instance.Evaluate(out)
}

func usedVelocities(values ...spatial.Vec) *JointVelocities {
	v := NewJointVelocities()
	v.LinkToSkeletonInstance(fakeInstance{joints: len(values), extraction: skeleton.InvalidIndex})
	copy(v.velocities, values)
	for i := range values {
		v.angularVelocities[i] = spatial.Vec{Z: values[i].X}
	}
	v.SetUsed(true)
	return v
}

func snapshotWith(v *JointVelocities) *Snapshot {
	return &Snapshot{channels: ChannelJointVelocities, velocities: v}
}
