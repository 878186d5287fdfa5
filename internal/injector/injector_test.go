package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motionmatching/internal/config"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app.Extractor)
	require.NotNil(t, app.Pools)
	assert.Equal(t, []string{"PoseDataJointVelocities"}, app.Registry.ListTypes())
	assert.Equal(t, cfg, app.Config)
}
