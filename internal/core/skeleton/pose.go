package skeleton

import (
	"fmt"

	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// Pose holds local joint transforms for one instant and derives model and
// world space transforms on demand. A Pose is not safe for concurrent use.
type Pose struct {
	instance   *Instance
	local      []spatial.Transform
	model      []spatial.Transform
	modelDirty bool
}

// NewPose returns a pose linked to inst and initialized to the bind pose.
func NewPose(inst *Instance) *Pose {
	p := &Pose{}
	p.LinkToInstance(inst)
	return p
}

// LinkToInstance resizes the pose for inst and resets it to the bind pose.
func (p *Pose) LinkToInstance(inst *Instance) {
	p.instance = inst
	n := inst.NumJoints()
	if cap(p.local) < n {
		p.local = make([]spatial.Transform, n)
		p.model = make([]spatial.Transform, n)
	}
	p.local = p.local[:n]
	p.model = p.model[:n]
	p.InitFromBindPose()
}

func (p *Pose) Instance() *Instance { return p.instance }
func (p *Pose) NumJoints() int      { return len(p.local) }

// InitFromBindPose resets every local transform to the bind pose.
func (p *Pose) InitFromBindPose() {
	s := p.instance.Skeleton()
	for i := range p.local {
		p.local[i] = s.Joint(i).Bind
	}
	p.modelDirty = true
}

func (p *Pose) LocalTransform(joint int) spatial.Transform {
	p.checkJoint(joint)
	return p.local[joint]
}

// SetLocalTransform replaces the local transform of joint and invalidates the
// model space cache.
func (p *Pose) SetLocalTransform(joint int, t spatial.Transform) {
	p.checkJoint(joint)
	p.local[joint] = t
	p.modelDirty = true
}

// ModelSpaceTransform returns the joint transform relative to the instance.
func (p *Pose) ModelSpaceTransform(joint int) spatial.Transform {
	p.checkJoint(joint)
	p.updateModelSpace()
	return p.model[joint]
}

// WorldSpaceTransform returns the joint transform in world space.
func (p *Pose) WorldSpaceTransform(joint int) spatial.Transform {
	return p.instance.WorldTransform().Mul(p.ModelSpaceTransform(joint))
}

// CopyFrom makes p an exact copy of other, including its instance link.
func (p *Pose) CopyFrom(other *Pose) {
	p.instance = other.instance
	p.local = append(p.local[:0], other.local...)
	p.model = append(p.model[:0], other.model...)
	p.modelDirty = other.modelDirty
}

// Blend moves every local transform towards dest by weight.
func (p *Pose) Blend(dest *Pose, weight float64) {
	if len(p.local) != len(dest.local) {
		panic(fmt.Sprintf("skeleton: blending poses with %d and %d joints", len(p.local), len(dest.local)))
	}
	for i := range p.local {
		p.local[i] = p.local[i].Blend(dest.local[i], weight)
	}
	p.modelDirty = true
}

func (p *Pose) updateModelSpace() {
	if !p.modelDirty {
		return
	}
	s := p.instance.Skeleton()
	for i := range p.local {
		parent := s.Joint(i).Parent
		if parent == InvalidIndex {
			p.model[i] = p.local[i]
			continue
		}
		p.model[i] = p.model[parent].Mul(p.local[i])
	}
	p.modelDirty = false
}

func (p *Pose) checkJoint(joint int) {
	if joint < 0 || joint >= len(p.local) {
		panic(fmt.Sprintf("skeleton: joint index %d out of range [0,%d)", joint, len(p.local)))
	}
}
