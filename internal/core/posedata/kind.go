// Package posedata holds the optional data channels a pose snapshot can carry
// next to its joint transforms, and the joint velocity estimator that fills
// the velocity channel for motion matching.
package posedata

import "github.com/zeusync/motionmatching/internal/core/schema/registry"

// Kind identifies a pose data channel. The set is closed.
type Kind uint8

const (
	KindJointVelocities Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindJointVelocities:
		return "PoseDataJointVelocities"
	default:
		return "PoseDataUnknown"
	}
}

// TypeID is the stable persisted identifier of the kind.
func (k Kind) TypeID() uint64 {
	return registry.TypeID(k.String())
}

// Channels selects which data channels a snapshot carries.
type Channels uint8

const (
	ChannelJointVelocities Channels = 1 << iota

	ChannelsNone Channels = 0
	ChannelsAll           = ChannelJointVelocities
)

// Has reports whether the channel of kind k is selected.
func (c Channels) Has(k Kind) bool {
	switch k {
	case KindJointVelocities:
		return c&ChannelJointVelocities != 0
	default:
		return false
	}
}
