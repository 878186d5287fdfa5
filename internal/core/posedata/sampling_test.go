package posedata

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motionmatching/internal/core/motion"
	"github.com/zeusync/motionmatching/internal/core/posepool"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

const tolerance = 1e-9

var approx = cmpopts.EquateApprox(0, 1e-9)

func compute(t *testing.T, m motion.Motion, s *skeleton.Skeleton, at float64, relativeTo int, opts ...skeleton.InstanceOption) (*JointVelocities, *motion.Instance, *posepool.Pool) {
	t.Helper()
	actor := skeleton.NewInstance(s, opts...)
	inst := motion.NewInstance(m, actor)
	inst.SetCurrentTime(at)

	pool := posepool.New()
	v := NewJointVelocities()
	v.LinkToSkeletonInstance(actor)
	v.ComputeVelocities(inst, pool, relativeTo)
	return v, inst, pool
}

func TestSampleTimes(t *testing.T) {
	s := DefaultSampling
	assert.InDelta(t, 0.05/3, s.Step(), tolerance)

	times := s.SampleTimes(0.5, 1)
	require.Len(t, times, 4)
	assert.InDelta(t, 0.475, times[0], tolerance)
	assert.InDelta(t, 0.525, times[3], tolerance)

	times = s.SampleTimes(0, 1)
	assert.Equal(t, 0.0, times[0])
	assert.Equal(t, 0.0, times[1])
	assert.InDelta(t, 0.05/6, times[2], tolerance)

	times = s.SampleTimes(1, 1)
	assert.Equal(t, 1.0, times[3])
	assert.Equal(t, 1.0, times[2])
}

func TestStillMotionHasNoVelocity(t *testing.T) {
	s := moverAndAnchor(t, spatial.AxisAngle(spatial.Vec{Z: 1}, 0.4))
	for ref := 0; ref < s.NumJoints(); ref++ {
		v, _, _ := compute(t, still(1), s, 0.5, ref)
		for j, vel := range v.Velocities() {
			assert.True(t, spatial.ApproxEqual(spatial.Zero, vel, tolerance), "ref %d joint %d: %v", ref, j, vel)
		}
	}
}

func TestConstantVelocityInReferenceFrame(t *testing.T) {
	rotation := spatial.AxisAngle(spatial.Vec{Z: 1}, math.Pi/2)
	s := moverAndAnchor(t, rotation)
	velocity := spatial.Vec{X: 2, Z: -1}

	v, _, _ := compute(t, translating(velocity, 1), s, 0.5, 0)

	// X maps onto -Y when undoing a quarter turn around Z.
	want := []spatial.Vec{
		{X: 0, Y: -2, Z: -1},
		{},
		{X: 0, Y: -2, Z: -1},
	}
	assert.Empty(t, cmp.Diff(want, v.Velocities(), approx))
	assert.Equal(t, 0, v.RelativeToJointIndex())

	// Measured against the static anchor the world velocity comes through unchanged.
	v, _, _ = compute(t, translating(velocity, 1), s, 0.5, 1)
	want = []spatial.Vec{velocity, {}, velocity}
	assert.Empty(t, cmp.Diff(want, v.Velocities(), approx))
}

func TestVelocityIndependentOfInstanceWorldTransform(t *testing.T) {
	rotation := spatial.AxisAngle(spatial.Vec{Z: 1}, math.Pi/2)
	s := moverAndAnchor(t, rotation)
	velocity := spatial.Vec{X: 2}

	world := spatial.FromPositionRotation(spatial.Vec{X: 5, Y: 3}, spatial.AxisAngle(spatial.Vec{Y: 1}, 1.1))
	placed, _, _ := compute(t, translating(velocity, 1), s, 0.5, 0, skeleton.WithWorldTransform(world))
	origin, _, _ := compute(t, translating(velocity, 1), s, 0.5, 0)

	assert.Empty(t, cmp.Diff(origin.Velocities(), placed.Velocities(), approx))
}

func TestAveragingIsCentralDifference(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	quadratic := &motion.Func{
		Label:  "accelerate",
		Length: 2,
		Fn: func(tm float64, joint int, bind spatial.Transform) spatial.Transform {
			if joint == 0 {
				bind.Position = spatial.Vec{X: tm * tm}
			}
			return bind
		},
	}

	v, _, _ := compute(t, quadratic, s, 0.5, 1)
	assert.InDelta(t, 1.0, v.Velocities()[0].X, 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	s := moverAndAnchor(t, spatial.AxisAngle(spatial.Vec{X: 1}, 0.3))
	m := translating(spatial.Vec{X: 1, Y: 0.5}, 1)

	actor := skeleton.NewInstance(s)
	inst := motion.NewInstance(m, actor)
	inst.SetCurrentTime(0.4)
	pool := posepool.New()

	a := NewJointVelocities()
	a.LinkToSkeletonInstance(actor)
	a.ComputeVelocities(inst, pool, 0)

	b := NewJointVelocities()
	b.LinkToSkeletonInstance(actor)
	b.ComputeVelocities(inst, pool, 0)

	assert.Equal(t, a.Velocities(), b.Velocities())
	assert.Equal(t, a.AngularVelocities(), b.AngularVelocities())
}

func TestComputeRestoresPlaybackTime(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	for _, at := range []float64{0, 0.01, 0.5, 0.99, 1} {
		_, inst, pool := compute(t, translating(spatial.Vec{X: 1}, 1), s, at, 0)
		assert.Equal(t, at, inst.CurrentTime())
		assert.Equal(t, 0, pool.Outstanding())
		assert.Equal(t, 2, pool.Free())
	}
}

func TestComputeClampsSampleTimes(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	actor := skeleton.NewInstance(s)

	for _, at := range []float64{0, 0.01, 0.99, 1} {
		src := &recordingSource{Instance: motion.NewInstance(translating(spatial.Vec{X: 1}, 1), actor)}
		src.SetCurrentTime(at)

		v := NewJointVelocities()
		v.LinkToSkeletonInstance(actor)
		v.ComputeVelocities(src, posepool.New(), 1)

		require.Len(t, src.evaluated, DefaultSampling.Intervals+1)
		for _, ts := range src.evaluated {
			assert.GreaterOrEqual(t, ts, 0.0)
			assert.LessOrEqual(t, ts, 1.0)
		}
	}
}

func TestComputeReleasesPosesWhenEvaluationPanics(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	actor := skeleton.NewInstance(s)
	src := &panickingSource{Instance: motion.NewInstance(still(1), actor), after: 2}
	src.SetCurrentTime(0.3)
	pool := posepool.New()

	v := NewJointVelocities()
	v.LinkToSkeletonInstance(actor)
	assert.Panics(t, func() { v.ComputeVelocities(src, pool, 0) })

	assert.Equal(t, 0, pool.Outstanding())
	assert.Equal(t, 0.3, src.CurrentTime())
}

func TestAngularVelocitiesStayZero(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	spin := &motion.Func{
		Label:  "spin",
		Length: 1,
		Fn: func(tm float64, joint int, bind spatial.Transform) spatial.Transform {
			if joint == 0 {
				bind.Rotation = spatial.AxisAngle(spatial.Vec{Y: 1}, tm*3)
			}
			return bind
		},
	}
	v, _, _ := compute(t, spin, s, 0.5, 1)
	for _, ang := range v.AngularVelocities() {
		assert.Equal(t, spatial.Zero, ang)
	}
	assert.False(t, spatial.ApproxEqual(spatial.Zero, v.Velocities()[2], tolerance), "hand orbits the spinning mover")
}

func TestComputeInvalidReferenceFallsBackToFirstJoint(t *testing.T) {
	s := moverAndAnchor(t, spatial.AxisAngle(spatial.Vec{Z: 1}, math.Pi/2))
	v, _, _ := compute(t, translating(spatial.Vec{X: 2}, 1), s, 0.5, skeleton.InvalidIndex)
	assert.Equal(t, 0, v.RelativeToJointIndex())
	assert.InDelta(t, -2, v.Velocities()[0].Y, tolerance)
}

func TestInvalidSamplingPanics(t *testing.T) {
	s := moverAndAnchor(t, spatial.IdentityRotation())
	actor := skeleton.NewInstance(s)
	inst := motion.NewInstance(still(1), actor)
	v := NewJointVelocities()
	v.LinkToSkeletonInstance(actor)

	assert.Panics(t, func() { v.ComputeVelocitiesWith(Sampling{Window: 0.05}, inst, posepool.New(), 0) })
	assert.Panics(t, func() { v.ComputeVelocitiesWith(Sampling{Intervals: 2}, inst, posepool.New(), 0) })
}
