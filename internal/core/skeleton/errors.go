package skeleton

import "errors"

var (
	ErrNoJoints               = errors.New("skeleton has no joints")
	ErrDuplicateJoint         = errors.New("duplicate joint name")
	ErrInvalidParent          = errors.New("joint parent must precede the joint")
	ErrUnknownJoint           = errors.New("unknown joint")
	ErrInvalidExtractionJoint = errors.New("motion extraction joint out of range")
	ErrMissingSkeletonName    = errors.New("skeleton name is required")
)
