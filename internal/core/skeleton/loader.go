package skeleton

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// Document is the YAML description of a skeleton.
type Document struct {
	Name                  string          `yaml:"name"`
	MotionExtractionJoint string          `yaml:"motion_extraction_joint,omitempty"`
	Joints                []JointDocument `yaml:"joints"`
}

// JointDocument describes one joint. Parent names an earlier joint; an empty
// transform field falls back to identity.
type JointDocument struct {
	Name     string               `yaml:"name"`
	Parent   string               `yaml:"parent,omitempty"`
	Position spatial.VecDoc       `yaml:"position,omitempty"`
	Rotation *spatial.RotationDoc `yaml:"rotation,omitempty"`
	Scale    spatial.VecDoc       `yaml:"scale,omitempty"`
}

// LoadYAML decodes a skeleton document from r.
func LoadYAML(r io.Reader) (*Skeleton, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode skeleton: %w", err)
	}
	return doc.Build()
}

// LoadFile loads a skeleton document from path.
func LoadFile(path string) (*Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// Build resolves joint names into indices and validates the hierarchy.
func (d *Document) Build() (*Skeleton, error) {
	indices := make(map[string]int, len(d.Joints))
	joints := make([]Joint, 0, len(d.Joints))

	for i, jd := range d.Joints {
		parent := InvalidIndex
		if jd.Parent != "" {
			p, ok := indices[jd.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: joint %q parent %q", ErrInvalidParent, jd.Name, jd.Parent)
			}
			parent = p
		}

		bind, err := jd.transform()
		if err != nil {
			return nil, fmt.Errorf("joint %q: %w", jd.Name, err)
		}

		indices[jd.Name] = i
		joints = append(joints, Joint{Name: jd.Name, Parent: parent, Bind: bind})
	}

	extraction := InvalidIndex
	if d.MotionExtractionJoint != "" {
		i, ok := indices[d.MotionExtractionJoint]
		if !ok {
			return nil, fmt.Errorf("%w: motion extraction joint %q", ErrUnknownJoint, d.MotionExtractionJoint)
		}
		extraction = i
	}

	return New(d.Name, joints, extraction)
}

func (jd JointDocument) transform() (spatial.Transform, error) {
	pos, err := jd.Position.VecOr(spatial.Zero)
	if err != nil {
		return spatial.Transform{}, fmt.Errorf("position: %w", err)
	}
	rot, err := jd.Rotation.Rotation()
	if err != nil {
		return spatial.Transform{}, err
	}
	scale, err := jd.Scale.VecOr(spatial.One)
	if err != nil {
		return spatial.Transform{}, fmt.Errorf("scale: %w", err)
	}
	return spatial.Transform{Position: pos, Rotation: rot, Scale: scale}, nil
}
