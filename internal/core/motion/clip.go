package motion

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// VecKey is a vector keyframe.
type VecKey struct {
	Time  float64
	Value spatial.Vec
}

// RotationKey is a rotation keyframe.
type RotationKey struct {
	Time  float64
	Value spatial.Rotation
}

// Track animates the local transform of one joint. Empty channels keep the
// bind pose value.
type Track struct {
	Joint     int
	Positions []VecKey
	Rotations []RotationKey
	Scales    []VecKey
}

// Clip is a keyframed motion. Positions and scales interpolate linearly,
// rotations spherically; times outside the keys hold the end values.
type Clip struct {
	ID       uuid.UUID
	name     string
	duration float64
	tracks   []Track
}

var (
	_ Motion     = (*Clip)(nil)
	_ Identified = (*Clip)(nil)
)

// NewClip validates the tracks and assigns the clip a fresh ID. Keys must be
// sorted by time and lie within [0, duration].
func NewClip(name string, duration float64, tracks []Track) (*Clip, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}

	seen := make(map[int]bool, len(tracks))
	for _, tr := range tracks {
		if tr.Joint < 0 {
			return nil, fmt.Errorf("%w: joint %d", ErrInvalidTrack, tr.Joint)
		}
		if seen[tr.Joint] {
			return nil, fmt.Errorf("%w: joint %d animated twice", ErrInvalidTrack, tr.Joint)
		}
		seen[tr.Joint] = true

		if err := checkTimes(duration, len(tr.Positions), func(i int) float64 { return tr.Positions[i].Time }); err != nil {
			return nil, fmt.Errorf("joint %d positions: %w", tr.Joint, err)
		}
		if err := checkTimes(duration, len(tr.Rotations), func(i int) float64 { return tr.Rotations[i].Time }); err != nil {
			return nil, fmt.Errorf("joint %d rotations: %w", tr.Joint, err)
		}
		if err := checkTimes(duration, len(tr.Scales), func(i int) float64 { return tr.Scales[i].Time }); err != nil {
			return nil, fmt.Errorf("joint %d scales: %w", tr.Joint, err)
		}
	}

	return &Clip{
		ID:       uuid.New(),
		name:     name,
		duration: duration,
		tracks:   tracks,
	}, nil
}

func (c *Clip) Name() string      { return c.name }
func (c *Clip) Duration() float64 { return c.duration }
func (c *Clip) Tracks() []Track   { return c.tracks }
func (c *Clip) ClipID() uuid.UUID { return c.ID }

// Sample writes the bind pose into out, then overrides every tracked channel
// with the interpolated key value at t. Values hold before the first key and
// after the last.
func (c *Clip) Sample(t float64, bind *skeleton.Pose, out *skeleton.Pose) {
	for j := 0; j < out.NumJoints(); j++ {
		out.SetLocalTransform(j, bind.LocalTransform(j))
	}

	for i := range c.tracks {
		tr := &c.tracks[i]
		if tr.Joint >= out.NumJoints() {
			continue
		}
		local := out.LocalTransform(tr.Joint)
		if len(tr.Positions) > 0 {
			local.Position = sampleVec(tr.Positions, t)
		}
		if len(tr.Rotations) > 0 {
			local.Rotation = sampleRotation(tr.Rotations, t)
		}
		if len(tr.Scales) > 0 {
			local.Scale = sampleVec(tr.Scales, t)
		}
		out.SetLocalTransform(tr.Joint, local)
	}
}

// segment returns the key pair surrounding t and the blend weight between them.
func segment(n int, t float64, timeAt func(int) float64) (int, int, float64) {
	if t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, n - 1, 0
	}
	hi := sort.Search(n, func(i int) bool { return timeAt(i) > t })
	lo := hi - 1
	span := timeAt(hi) - timeAt(lo)
	if span <= 0 {
		return hi, hi, 0
	}
	return lo, hi, (t - timeAt(lo)) / span
}

func sampleVec(keys []VecKey, t float64) spatial.Vec {
	lo, hi, w := segment(len(keys), t, func(i int) float64 { return keys[i].Time })
	return spatial.Lerp(keys[lo].Value, keys[hi].Value, w)
}

func sampleRotation(keys []RotationKey, t float64) spatial.Rotation {
	lo, hi, w := segment(len(keys), t, func(i int) float64 { return keys[i].Time })
	return spatial.Slerp(keys[lo].Value, keys[hi].Value, w)
}

func checkTimes(duration float64, n int, timeAt func(int) float64) error {
	prev := 0.0
	for i := 0; i < n; i++ {
		ts := timeAt(i)
		if ts < prev || ts > duration {
			return fmt.Errorf("%w: key %d at %v", ErrKeyOrder, i, ts)
		}
		prev = ts
	}
	return nil
}
