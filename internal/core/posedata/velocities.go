package posedata

import (
	"fmt"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// SkeletonInstance is the part of a skeleton instance the channel links against.
type SkeletonInstance interface {
	NumJoints() int
	MotionExtractionJointIndex() int
}

// JointVelocities stores a linear and an angular velocity per joint,
// expressed in the frame of the relative-to joint at the sampled time.
// Both slices always have the same length.
type JointVelocities struct {
	used                 bool
	velocities           []spatial.Vec
	angularVelocities    []spatial.Vec
	relativeToJointIndex int
}

// NewJointVelocities creates an unlinked, unused channel with no joints.
func NewJointVelocities() *JointVelocities {
	return &JointVelocities{}
}

// Kind identifies the channel.
func (v *JointVelocities) Kind() Kind { return KindJointVelocities }

// IsUsed reports whether the channel holds computed data rather than a placeholder.
func (v *JointVelocities) IsUsed() bool { return v.used }

// SetUsed marks the channel as holding computed data. Blend only takes values
// from used channels.
func (v *JointVelocities) SetUsed(used bool) { v.used = used }

// Velocities returns the linear velocities. The slice is owned by v.
func (v *JointVelocities) Velocities() []spatial.Vec { return v.velocities }

// AngularVelocities returns the angular velocities. The slice is owned by v.
func (v *JointVelocities) AngularVelocities() []spatial.Vec { return v.angularVelocities }

// RelativeToJointIndex returns the joint whose frame the velocities are in.
func (v *JointVelocities) RelativeToJointIndex() int { return v.relativeToJointIndex }

// Clear empties both velocity slices.
func (v *JointVelocities) Clear() {
	v.velocities = v.velocities[:0]
	v.angularVelocities = v.angularVelocities[:0]
}

// LinkToSkeletonInstance sizes the channel for inst and makes the motion
// extraction joint the relative-to joint.
func (v *JointVelocities) LinkToSkeletonInstance(inst SkeletonInstance) {
	n := inst.NumJoints()
	v.velocities = resize(v.velocities, n)
	v.angularVelocities = resize(v.angularVelocities, n)
	v.SetRelativeToJointIndex(inst.MotionExtractionJointIndex())
}

// LinkToSkeleton drops all data: velocities only make sense per instance.
func (v *JointVelocities) LinkToSkeleton(*skeleton.Skeleton) {
	v.Clear()
}

// SetRelativeToJointIndex stores index, mapping skeleton.InvalidIndex to 0.
func (v *JointVelocities) SetRelativeToJointIndex(index int) {
	if index == skeleton.InvalidIndex {
		v.relativeToJointIndex = 0
		return
	}
	v.relativeToJointIndex = index
}

// Reset zeroes every velocity without changing the joint count.
func (v *JointVelocities) Reset() {
	for i := range v.velocities {
		v.velocities[i] = spatial.Zero
		v.angularVelocities[i] = spatial.Zero
	}
}

// CopyFrom makes v a deep copy of from, including the used flag and the
// relative-to joint.
func (v *JointVelocities) CopyFrom(from *JointVelocities) {
	v.used = from.used
	v.velocities = append(v.velocities[:0], from.velocities...)
	v.angularVelocities = append(v.angularVelocities[:0], from.angularVelocities...)
	v.relativeToJointIndex = from.relativeToJointIndex
}

// Blend moves v towards the velocity channel of dest. When dest has no used
// velocity channel v is left as is. When v itself is unused the destination
// values are taken over directly instead of blending up from zero.
func (v *JointVelocities) Blend(dest *Snapshot, weight float64) {
	destData := dest.Velocities()
	if destData == nil || !destData.IsUsed() {
		return
	}

	if len(v.velocities) != len(destData.velocities) {
		panic(fmt.Sprintf("posedata: blending joint velocities of %d and %d joints", len(v.velocities), len(destData.velocities)))
	}

	if !v.used {
		v.velocities = append(v.velocities[:0], destData.velocities...)
		v.angularVelocities = append(v.angularVelocities[:0], destData.angularVelocities...)
		return
	}

	for i := range v.velocities {
		v.velocities[i] = spatial.Lerp(v.velocities[i], destData.velocities[i], weight)
		v.angularVelocities[i] = spatial.Lerp(v.angularVelocities[i], destData.angularVelocities[i], weight)
	}
}

func resize(s []spatial.Vec, n int) []spatial.Vec {
	if cap(s) < n {
		grown := make([]spatial.Vec, n)
		copy(grown, s)
		return grown
	}
	old := len(s)
	s = s[:n]
	for i := old; i < n; i++ {
		s[i] = spatial.Zero
	}
	return s
}
