// Package skeleton provides the joint hierarchy, per-character instances and
// the pose buffers the motion-matching pose data is computed from.
package skeleton

import (
	"fmt"

	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// InvalidIndex marks an undefined joint index.
const InvalidIndex = -1

// Joint is one node of the hierarchy. Parent is InvalidIndex for roots.
type Joint struct {
	Name   string
	Parent int
	Bind   spatial.Transform
}

// Skeleton is the shared definition of a joint hierarchy. Joints are stored
// so that every parent precedes its children.
type Skeleton struct {
	name       string
	joints     []Joint
	byName     map[string]int
	extraction int
}

// New validates joints and builds a skeleton. Parents must precede their
// children and extractionJoint may be InvalidIndex.
func New(name string, joints []Joint, extractionJoint int) (*Skeleton, error) {
	if name == "" {
		return nil, ErrMissingSkeletonName
	}
	if len(joints) == 0 {
		return nil, ErrNoJoints
	}

	s := &Skeleton{
		name:       name,
		joints:     make([]Joint, len(joints)),
		byName:     make(map[string]int, len(joints)),
		extraction: extractionJoint,
	}
	copy(s.joints, joints)

	for i, j := range s.joints {
		if _, ok := s.byName[j.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateJoint, j.Name)
		}
		s.byName[j.Name] = i
		if j.Parent != InvalidIndex && (j.Parent < 0 || j.Parent >= i) {
			return nil, fmt.Errorf("%w: joint %q parent %d", ErrInvalidParent, j.Name, j.Parent)
		}
	}

	if extractionJoint != InvalidIndex && (extractionJoint < 0 || extractionJoint >= len(joints)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidExtractionJoint, extractionJoint)
	}

	return s, nil
}

func (s *Skeleton) Name() string   { return s.name }
func (s *Skeleton) NumJoints() int { return len(s.joints) }

func (s *Skeleton) Joint(index int) Joint {
	return s.joints[index]
}

// JointIndex looks a joint up by name.
func (s *Skeleton) JointIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// MotionExtractionJointIndex returns InvalidIndex when the skeleton defines none.
func (s *Skeleton) MotionExtractionJointIndex() int {
	return s.extraction
}
