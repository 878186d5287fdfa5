package motion

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// ClipDocument is the YAML description of a keyframed clip. Tracks name
// joints of the skeleton the clip is loaded against.
type ClipDocument struct {
	ID       string          `yaml:"id,omitempty"`
	Name     string          `yaml:"name"`
	Duration float64         `yaml:"duration"`
	Tracks   []TrackDocument `yaml:"tracks"`
}

// TrackDocument holds the keys of one joint.
type TrackDocument struct {
	Joint     string           `yaml:"joint"`
	Positions []VecKeyDoc      `yaml:"positions,omitempty"`
	Rotations []RotationKeyDoc `yaml:"rotations,omitempty"`
	Scales    []VecKeyDoc      `yaml:"scales,omitempty"`
}

type VecKeyDoc struct {
	Time  float64        `yaml:"time"`
	Value spatial.VecDoc `yaml:"value"`
}

type RotationKeyDoc struct {
	Time    float64        `yaml:"time"`
	Axis    spatial.VecDoc `yaml:"axis"`
	Angle   float64        `yaml:"angle"`
	Degrees bool           `yaml:"degrees,omitempty"`
}

func (k RotationKeyDoc) rotation() (spatial.Rotation, error) {
	doc := spatial.RotationDoc{Axis: k.Axis, Angle: k.Angle, Degrees: k.Degrees}
	return doc.Rotation()
}

// LoadClipYAML decodes a clip document and resolves it against s.
func LoadClipYAML(r io.Reader, s *skeleton.Skeleton) (*Clip, error) {
	var doc ClipDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode clip: %w", err)
	}
	return doc.Build(s)
}

func LoadClipFile(path string, s *skeleton.Skeleton) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadClipYAML(f, s)
}

// Build resolves joint names against s and validates the clip. A missing id
// gets a fresh one.
func (d *ClipDocument) Build(s *skeleton.Skeleton) (*Clip, error) {
	tracks := make([]Track, 0, len(d.Tracks))
	for _, td := range d.Tracks {
		joint, ok := s.JointIndex(td.Joint)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJoint, td.Joint)
		}
		tr := Track{Joint: joint}

		for _, k := range td.Positions {
			v, err := k.Value.Vec()
			if err != nil {
				return nil, fmt.Errorf("joint %q position at %v: %w", td.Joint, k.Time, err)
			}
			tr.Positions = append(tr.Positions, VecKey{Time: k.Time, Value: v})
		}
		for _, k := range td.Rotations {
			r, err := k.rotation()
			if err != nil {
				return nil, fmt.Errorf("joint %q rotation at %v: %w", td.Joint, k.Time, err)
			}
			tr.Rotations = append(tr.Rotations, RotationKey{Time: k.Time, Value: r})
		}
		for _, k := range td.Scales {
			v, err := k.Value.Vec()
			if err != nil {
				return nil, fmt.Errorf("joint %q scale at %v: %w", td.Joint, k.Time, err)
			}
			tr.Scales = append(tr.Scales, VecKey{Time: k.Time, Value: v})
		}
		tracks = append(tracks, tr)
	}

	clip, err := NewClip(d.Name, d.Duration, tracks)
	if err != nil {
		return nil, err
	}
	if d.ID != "" {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("clip id: %w", err)
		}
		clip.ID = id
	}
	return clip, nil
}
