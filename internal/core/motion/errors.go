package motion

import "errors"

var (
	ErrInvalidDuration = errors.New("clip duration must be positive")
	ErrInvalidTrack    = errors.New("invalid clip track")
	ErrKeyOrder        = errors.New("keyframes must be sorted by time inside the clip")
	ErrUnknownJoint    = errors.New("track references an unknown joint")
)
