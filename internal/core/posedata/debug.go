package posedata

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/motionmatching/internal/core/debugdraw"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
)

// DebugVelocityScale shortens velocity lines so they stay readable.
const DebugVelocityScale = 0.15

// DebugDraw draws one velocity line per joint of pose using DebugVelocityScale.
func (v *JointVelocities) DebugDraw(pose *skeleton.Pose, display debugdraw.Display, color debugdraw.Color) {
	v.DebugDrawScaled(pose, display, color, DebugVelocityScale)
}

// DebugDrawScaled draws each velocity from its joint's world position, with the
// line length multiplied by scale.
func (v *JointVelocities) DebugDrawScaled(pose *skeleton.Pose, display debugdraw.Display, color debugdraw.Color, scale float64) {
	if pose.NumJoints() != len(v.velocities) {
		panic(fmt.Sprintf("posedata: pose has %d joints but %d velocities", pose.NumJoints(), len(v.velocities)))
	}

	relativeToWorld := pose.WorldSpaceTransform(v.relativeToJointIndex)
	for i, velocity := range v.velocities {
		jointPosition := relativeToWorld.TransformPoint(pose.ModelSpaceTransform(i).Position)
		worldVelocity := relativeToWorld.TransformVector(r3.Scale(scale, velocity))
		debugdraw.DrawVelocity(display, jointPosition, worldVelocity, color)
	}
}
