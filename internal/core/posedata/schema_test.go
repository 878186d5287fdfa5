package posedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/core/schema/registry"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

func TestRegisterSchemas(t *testing.T) {
	r := registry.New()
	require.NoError(t, RegisterSchemas(r))

	version, schema, err := r.GetLatestVersion("PoseDataJointVelocities")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Len(t, schema.Fields, 4)

	name, ok := r.LookupID(KindJointVelocities.TypeID())
	assert.True(t, ok)
	assert.Equal(t, KindJointVelocities.String(), name)

	assert.ErrorIs(t, RegisterSchemas(r), registry.ErrAlreadyRegistered)
}

func TestJointVelocitiesYAML(t *testing.T) {
	v := usedVelocities(spatial.Vec{X: 1, Y: 2, Z: 3}, spatial.Vec{Y: -0.5})
	v.SetRelativeToJointIndex(1)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "version: 1")

	decoded := NewJointVelocities()
	require.NoError(t, yaml.Unmarshal(out, decoded))
	assert.True(t, decoded.IsUsed())
	assert.Equal(t, 1, decoded.RelativeToJointIndex())
	assert.Equal(t, v.Velocities(), decoded.Velocities())
	assert.Equal(t, v.AngularVelocities(), decoded.AngularVelocities())
}

func TestJointVelocitiesYAMLRejectsBadRecords(t *testing.T) {
	var v JointVelocities

	err := yaml.Unmarshal([]byte("version: 2\nvelocities: []\nangular_velocities: []\n"), &v)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	err = yaml.Unmarshal([]byte("version: 1\nvelocities: [[0, 0, 0]]\nangular_velocities: []\n"), &v)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = yaml.Unmarshal([]byte("version: 1\nrelative_to_joint_index: 3\nvelocities: [[0, 0, 0]]\nangular_velocities: [[0, 0, 0]]\n"), &v)
	assert.ErrorIs(t, err, ErrInvalidJointIndex)

	err = yaml.Unmarshal([]byte("version: 1\nvelocities: [[0, 0]]\nangular_velocities: [[0, 0, 0]]\n"), &v)
	assert.ErrorIs(t, err, spatial.ErrInvalidVector)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "PoseDataJointVelocities", KindJointVelocities.String())
	assert.Equal(t, KindJointVelocities, NewJointVelocities().Kind())
	assert.Equal(t, registry.TypeID("PoseDataJointVelocities"), KindJointVelocities.TypeID())
	assert.False(t, ChannelsNone.Has(KindJointVelocities))
	assert.False(t, ChannelsAll.Has(Kind(0)))
}
