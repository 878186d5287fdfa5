package posedata

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/core/schema/registry"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// JointVelocitiesVersion is the persisted record version.
const JointVelocitiesVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported joint velocities version")
	ErrLengthMismatch     = errors.New("velocity and angular velocity counts differ")
	ErrInvalidJointIndex  = errors.New("invalid relative-to joint index")
)

// JointVelocitiesSchema describes the persisted joint velocity record.
func JointVelocitiesSchema() registry.TypeSchema {
	return registry.TypeSchema{
		Name:    KindJointVelocities.String(),
		Version: JointVelocitiesVersion,
		Fields: []registry.FieldSchema{
			{Name: "is_used", Type: registry.FieldBool},
			{Name: "relative_to_joint_index", Type: registry.FieldInt, Required: true},
			{Name: "velocities", Type: registry.FieldVec3Array, Required: true},
			{Name: "angular_velocities", Type: registry.FieldVec3Array, Required: true},
		},
		Documentation: "Per joint linear and angular velocities relative to a joint frame.",
	}
}

// RegisterSchemas registers every pose data kind with r.
func RegisterSchemas(r *registry.Registry) error {
	return r.RegisterType(JointVelocitiesSchema())
}

type jointVelocitiesRecord struct {
	Version              int              `yaml:"version"`
	IsUsed               bool             `yaml:"is_used"`
	RelativeToJointIndex int              `yaml:"relative_to_joint_index"`
	Velocities           []spatial.VecDoc `yaml:"velocities,flow"`
	AngularVelocities    []spatial.VecDoc `yaml:"angular_velocities,flow"`
}

// MarshalYAML writes the versioned record.
func (v *JointVelocities) MarshalYAML() (any, error) {
	rec := jointVelocitiesRecord{
		Version:              JointVelocitiesVersion,
		IsUsed:               v.used,
		RelativeToJointIndex: v.relativeToJointIndex,
		Velocities:           make([]spatial.VecDoc, len(v.velocities)),
		AngularVelocities:    make([]spatial.VecDoc, len(v.angularVelocities)),
	}
	for i, vel := range v.velocities {
		rec.Velocities[i] = spatial.NewVecDoc(vel)
	}
	for i, vel := range v.angularVelocities {
		rec.AngularVelocities[i] = spatial.NewVecDoc(vel)
	}
	return rec, nil
}

// UnmarshalYAML reads a version 1 record, rejecting mismatched slice lengths
// and out of range joint indices.
func (v *JointVelocities) UnmarshalYAML(node *yaml.Node) error {
	var rec jointVelocitiesRecord
	if err := node.Decode(&rec); err != nil {
		return err
	}
	if rec.Version != JointVelocitiesVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	if len(rec.Velocities) != len(rec.AngularVelocities) {
		return fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(rec.Velocities), len(rec.AngularVelocities))
	}
	if rec.RelativeToJointIndex < 0 || (len(rec.Velocities) > 0 && rec.RelativeToJointIndex >= len(rec.Velocities)) {
		return fmt.Errorf("%w: %d", ErrInvalidJointIndex, rec.RelativeToJointIndex)
	}

	velocities := make([]spatial.Vec, len(rec.Velocities))
	angular := make([]spatial.Vec, len(rec.AngularVelocities))
	for i := range rec.Velocities {
		vel, err := rec.Velocities[i].Vec()
		if err != nil {
			return fmt.Errorf("velocity %d: %w", i, err)
		}
		ang, err := rec.AngularVelocities[i].Vec()
		if err != nil {
			return fmt.Errorf("angular velocity %d: %w", i, err)
		}
		velocities[i], angular[i] = vel, ang
	}

	v.used = rec.IsUsed
	v.relativeToJointIndex = rec.RelativeToJointIndex
	v.velocities = velocities
	v.angularVelocities = angular
	return nil
}
