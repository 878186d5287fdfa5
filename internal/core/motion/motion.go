// Package motion samples animation sources into skeleton poses and tracks
// per-character playback time.
package motion

import (
	"github.com/google/uuid"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// Motion is anything that can produce a pose for a point in time.
type Motion interface {
	Name() string
	// Duration is the clip length in seconds.
	Duration() float64
	// Sample writes the pose at time t into out. Joints the motion does not
	// animate take their transform from bind.
	Sample(t float64, bind *skeleton.Pose, out *skeleton.Pose)
}

// Identified is implemented by motions that carry a persistent identity.
type Identified interface {
	ClipID() uuid.UUID
}

// ClipID returns the identity of m, or uuid.Nil for anonymous motions.
func ClipID(m Motion) uuid.UUID {
	if id, ok := m.(Identified); ok {
		return id.ClipID()
	}
	return uuid.Nil
}

// Instance plays a Motion on one skeleton instance.
type Instance struct {
	motion      Motion
	actor       *skeleton.Instance
	currentTime float64
}

// NewInstance plays m on actor starting at time 0.
func NewInstance(m Motion, actor *skeleton.Instance) *Instance {
	return &Instance{motion: m, actor: actor}
}

func (i *Instance) Motion() Motion                       { return i.motion }
func (i *Instance) SkeletonInstance() *skeleton.Instance { return i.actor }
func (i *Instance) CurrentTime() float64                 { return i.currentTime }
func (i *Instance) SetCurrentTime(t float64)             { i.currentTime = t }
func (i *Instance) Duration() float64                    { return i.motion.Duration() }

// Evaluate samples the motion at the current playback time into out.
func (i *Instance) Evaluate(out *skeleton.Pose) {
	i.motion.Sample(i.currentTime, i.actor.BindPose(), out)
}

// Func is a procedural motion. Fn receives the bind transform of each joint
// and returns its local transform at time t.
type Func struct {
	Label  string
	Length float64
	Fn     func(t float64, joint int, bind spatial.Transform) spatial.Transform
}

func (f *Func) Name() string      { return f.Label }
func (f *Func) Duration() float64 { return f.Length }

// Sample sets each joint of out to Fn applied to its bind transform.
func (f *Func) Sample(t float64, bind *skeleton.Pose, out *skeleton.Pose) {
	for j := 0; j < out.NumJoints(); j++ {
		out.SetLocalTransform(j, f.Fn(t, j, bind.LocalTransform(j)))
	}
}
