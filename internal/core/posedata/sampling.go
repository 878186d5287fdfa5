package posedata

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
)

// MotionSource is a motion being played on a skeleton instance.
type MotionSource interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	Duration() float64
	// Evaluate samples the motion at the current time into out.
	Evaluate(out *skeleton.Pose)
	SkeletonInstance() *skeleton.Instance
}

// PosePool hands out scratch poses. Implementations are owned by the
// calling worker.
type PosePool interface {
	Acquire(inst *skeleton.Instance) *skeleton.Pose
	Release(pose *skeleton.Pose)
}

// Sampling describes the finite difference window: Intervals+1 samples spread
// evenly over Window seconds centred on the sample time.
type Sampling struct {
	Window    float64
	Intervals int
}

// DefaultSampling spreads four samples over 50ms.
var DefaultSampling = Sampling{
	Window:    0.05,
	Intervals: 3,
}

// Step is the time between two consecutive samples.
func (s Sampling) Step() float64 {
	return s.Window / float64(s.Intervals)
}

// SampleTimes returns the clamped sample times around t for a motion of the
// given duration.
func (s Sampling) SampleTimes(t, duration float64) []float64 {
	step := s.Step()
	start := t - s.Window*0.5
	times := make([]float64, s.Intervals+1)
	for i := range times {
		times[i] = clamp(start+float64(i)*step, 0, duration)
	}
	return times
}

// ComputeVelocities estimates joint velocities at the source's current time
// using DefaultSampling.
func (v *JointVelocities) ComputeVelocities(src MotionSource, pool PosePool, relativeToJointIndex int) {
	v.ComputeVelocitiesWith(DefaultSampling, src, pool, relativeToJointIndex)
}

// ComputeVelocitiesWith samples src around its current time, differences the
// world space joint positions of consecutive samples and averages the
// resulting velocities in the frame of the relative-to joint. The playback
// time of src is restored and both scratch poses are released before
// returning.
func (v *JointVelocities) ComputeVelocitiesWith(s Sampling, src MotionSource, pool PosePool, relativeToJointIndex int) {
	if s.Intervals < 1 || s.Window <= 0 {
		panic(fmt.Sprintf("posedata: invalid sampling window %v with %d intervals", s.Window, s.Intervals))
	}

	v.SetRelativeToJointIndex(relativeToJointIndex)
	inst := src.SkeletonInstance()
	numJoints := len(v.velocities)

	originalTime := src.CurrentTime()
	defer src.SetCurrentTime(originalTime)

	prevPose := pool.Acquire(inst)
	defer pool.Release(prevPose)
	currentPose := pool.Acquire(inst)
	defer pool.Release(currentPose)

	v.Reset()

	frameDelta := s.Step()
	for i, sampleTime := range s.SampleTimes(originalTime, src.Duration()) {
		src.SetCurrentTime(sampleTime)

		if i == 0 {
			src.Evaluate(prevPose)
			continue
		}
		src.Evaluate(currentPose)

		inverseRelativeTo := currentPose.WorldSpaceTransform(v.relativeToJointIndex).Inverse()
		for j := 0; j < numJoints; j++ {
			prevPosition := prevPose.WorldSpaceTransform(j).Position
			currentPosition := currentPose.WorldSpaceTransform(j).Position
			velocity := linearVelocity(prevPosition, currentPosition, frameDelta)
			v.velocities[j] = r3.Add(v.velocities[j], inverseRelativeTo.TransformVector(velocity))
		}

		prevPose.CopyFrom(currentPose)
	}

	inv := 1 / float64(s.Intervals)
	for j := 0; j < numJoints; j++ {
		v.velocities[j] = r3.Scale(inv, v.velocities[j])
		v.angularVelocities[j] = r3.Scale(inv, v.angularVelocities[j])
	}
}

func linearVelocity(from, to r3.Vec, dt float64) r3.Vec {
	return r3.Scale(1/dt, r3.Sub(to, from))
}

func clamp(t, lo, hi float64) float64 {
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}
