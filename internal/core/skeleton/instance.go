package skeleton

import "github.com/zeusync/motionmatching/internal/core/spatial"

// Instance is one character driven by a Skeleton. The thread index selects
// which worker-local pose pool serves it.
type Instance struct {
	skeleton    *Skeleton
	world       spatial.Transform
	threadIndex int
	bindPose    *Pose
}

// InstanceOption configures an Instance.
type InstanceOption func(*Instance)

// WithWorldTransform places the instance in the world.
func WithWorldTransform(t spatial.Transform) InstanceOption {
	return func(i *Instance) { i.world = t }
}

// WithThreadIndex sets the worker thread the instance is evaluated on.
func WithThreadIndex(index int) InstanceOption {
	return func(i *Instance) { i.threadIndex = index }
}

// NewInstance creates an instance of s with an identity world transform on
// thread 0 unless options say otherwise.
func NewInstance(s *Skeleton, opts ...InstanceOption) *Instance {
	inst := &Instance{
		skeleton: s,
		world:    spatial.Identity(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	inst.bindPose = NewPose(inst)
	return inst
}

func (i *Instance) Skeleton() *Skeleton { return i.skeleton }
func (i *Instance) NumJoints() int      { return i.skeleton.NumJoints() }
func (i *Instance) ThreadIndex() int    { return i.threadIndex }
func (i *Instance) BindPose() *Pose     { return i.bindPose }

// MotionExtractionJointIndex returns InvalidIndex when the skeleton has none.
func (i *Instance) MotionExtractionJointIndex() int {
	return i.skeleton.MotionExtractionJointIndex()
}

func (i *Instance) WorldTransform() spatial.Transform {
	return i.world
}

func (i *Instance) SetWorldTransform(t spatial.Transform) {
	i.world = t
}
