package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/config"
	"github.com/zeusync/motionmatching/internal/core/debugdraw"
	"github.com/zeusync/motionmatching/internal/core/posedata"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestComputeCommand(t *testing.T) {
	out, err := execute(t, "compute",
		"--skeleton", "testdata/skeleton.yaml",
		"--clip", "testdata/walk.yaml",
		"--at", "1,1.5",
	)
	require.NoError(t, err)

	var frames []struct {
		Clip       string                    `yaml:"clip"`
		ClipID     string                    `yaml:"clip_id"`
		Time       float64                   `yaml:"time"`
		RelativeTo string                    `yaml:"relative_to"`
		Joints     map[string][]float64      `yaml:"joints"`
		Data       *posedata.JointVelocities `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &frames))
	require.Len(t, frames, 2)

	for _, f := range frames {
		assert.Equal(t, "walk", f.Clip)
		assert.Equal(t, "7b0f6d52-3a51-4c38-9c64-0f1d4b7c2e11", f.ClipID)
		assert.Equal(t, "root", f.RelativeTo)
		require.NotNil(t, f.Data)
		assert.True(t, f.Data.IsUsed())
		assert.Len(t, f.Data.Velocities(), 3)

		for _, name := range []string{"root", "hips", "hand"} {
			v := f.Joints[name]
			require.Len(t, v, 3, name)
			assert.InDelta(t, 1.0, v[0], 1e-9, name)
			assert.InDelta(t, 0.0, v[1], 1e-9, name)
			assert.InDelta(t, 0.0, v[2], 1e-9, name)
		}
	}
	assert.InDelta(t, 1.0, frames[0].Time, 1e-12)
	assert.InDelta(t, 1.5, frames[1].Time, 1e-12)
}

func TestComputeCommandRelativeTo(t *testing.T) {
	out, err := execute(t, "compute",
		"--skeleton", "testdata/skeleton.yaml",
		"--clip", "testdata/walk.yaml",
		"--at", "1",
		"--relative-to", "hand",
	)
	require.NoError(t, err)

	var frames []struct {
		RelativeTo string                    `yaml:"relative_to"`
		Data       *posedata.JointVelocities `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &frames))
	require.Len(t, frames, 1)
	assert.Equal(t, "hand", frames[0].RelativeTo)
	assert.Equal(t, 2, frames[0].Data.RelativeToJointIndex())
}

func TestComputeCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "missing skeleton flag",
			args: []string{"compute", "--clip", "testdata/walk.yaml", "--at", "1"},
		},
		{
			name: "unknown reference joint",
			args: []string{"compute", "--skeleton", "testdata/skeleton.yaml", "--clip", "testdata/walk.yaml", "--at", "1", "--relative-to", "tail"},
		},
		{
			name: "no sample times",
			args: []string{"compute", "--skeleton", "testdata/skeleton.yaml", "--clip", "testdata/walk.yaml"},
		},
		{
			name: "both times and step",
			args: []string{"compute", "--skeleton", "testdata/skeleton.yaml", "--clip", "testdata/walk.yaml", "--at", "1", "--step", "0.5"},
		},
		{
			name: "missing clip file",
			args: []string{"compute", "--skeleton", "testdata/skeleton.yaml", "--clip", "testdata/nope.yaml", "--at", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, posedata.KindJointVelocities.String()+" v1")
	assert.Contains(t, out, "velocities")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func drawnLengths(t *testing.T, configPath string) []float64 {
	t.Helper()
	app, err := newApp(configPath)
	require.NoError(t, err)

	_, frames, err := computeFrames(context.Background(), app, computeOptions{
		skeletonPath: "testdata/skeleton.yaml",
		clipPath:     "testdata/walk.yaml",
		times:        []float64{1},
	})
	require.NoError(t, err)

	var rec debugdraw.Recorder
	drawFrames(&rec, frames, app.Config)

	lines := rec.Lines()
	lengths := make([]float64, len(lines))
	for i, l := range lines {
		lengths[i] = r3.Norm(r3.Sub(l.End, l.Start))
	}
	return lengths
}

func TestDrawFramesUsesConfiguredScale(t *testing.T) {
	defaults := drawnLengths(t, "")
	require.Len(t, defaults, 3)
	for _, l := range defaults {
		assert.InDelta(t, posedata.DebugVelocityScale, l, 1e-9)
	}

	scaled := drawnLengths(t, writeConfig(t, "debug:\n  velocity_scale: 1\n"))
	require.Len(t, scaled, 3)
	for _, l := range scaled {
		assert.InDelta(t, 1.0, l, 1e-9)
	}
}

func TestListenAddress(t *testing.T) {
	path := writeConfig(t, "debug:\n  listen: 127.0.0.1:9090\n")
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", listenAddress("", cfg))
	assert.Equal(t, ":7000", listenAddress(":7000", cfg))
	assert.Empty(t, listenAddress("", config.Default()))
}
