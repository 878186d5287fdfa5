package posedata

import (
	"fmt"

	"github.com/zeusync/motionmatching/internal/core/debugdraw"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
)

// Snapshot is a pose plus the data channels selected when it was created.
type Snapshot struct {
	pose       *skeleton.Pose
	channels   Channels
	velocities *JointVelocities
}

// NewSnapshot creates a snapshot linked to inst carrying channels.
func NewSnapshot(inst *skeleton.Instance, channels Channels) *Snapshot {
	s := &Snapshot{
		pose:     skeleton.NewPose(inst),
		channels: channels,
	}
	if channels.Has(KindJointVelocities) {
		s.velocities = NewJointVelocities()
		s.velocities.LinkToSkeletonInstance(inst)
	}
	return s
}

func (s *Snapshot) Pose() *skeleton.Pose { return s.pose }
func (s *Snapshot) Channels() Channels   { return s.channels }

// Velocities returns the joint velocity channel, or nil when the snapshot
// was created without it.
func (s *Snapshot) Velocities() *JointVelocities {
	if s == nil {
		return nil
	}
	return s.velocities
}

// LinkToInstance relinks the pose and resizes every channel for inst.
func (s *Snapshot) LinkToInstance(inst *skeleton.Instance) {
	s.pose.LinkToInstance(inst)
	if s.velocities != nil {
		s.velocities.LinkToSkeletonInstance(inst)
	}
}

// LinkToSkeleton drops instance specific channel data.
func (s *Snapshot) LinkToSkeleton(def *skeleton.Skeleton) {
	if s.velocities != nil {
		s.velocities.LinkToSkeleton(def)
	}
}

// ResetChannels zeroes all channel data and marks it unused.
func (s *Snapshot) ResetChannels() {
	if s.velocities != nil {
		s.velocities.Reset()
		s.velocities.SetUsed(false)
	}
}

// CopyFrom copies the pose and every channel. Both snapshots must carry the
// same channels.
func (s *Snapshot) CopyFrom(other *Snapshot) {
	if s.channels != other.channels {
		panic(fmt.Sprintf("posedata: copying snapshot with channels %b into %b", other.channels, s.channels))
	}
	s.pose.CopyFrom(other.pose)
	if s.velocities != nil {
		s.velocities.CopyFrom(other.velocities)
	}
}

// Blend moves the pose and channels of s towards dest by weight.
func (s *Snapshot) Blend(dest *Snapshot, weight float64) {
	s.pose.Blend(dest.pose, weight)
	if s.velocities != nil {
		s.velocities.Blend(dest, weight)
	}
}

// DebugDraw draws the velocity channel, if present, at DebugVelocityScale.
func (s *Snapshot) DebugDraw(display debugdraw.Display, color debugdraw.Color) {
	s.DebugDrawScaled(display, color, DebugVelocityScale)
}

// DebugDrawScaled draws the velocity channel, if present, with line lengths
// multiplied by scale.
func (s *Snapshot) DebugDrawScaled(display debugdraw.Display, color debugdraw.Color, scale float64) {
	if s.velocities != nil {
		s.velocities.DebugDrawScaled(s.pose, display, color, scale)
	}
}
