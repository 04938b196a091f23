package pitchdelay

import "errors"

var (
	// ErrNotBound is returned by Bind when no store is given.
	ErrNotBound = errors.New("pitchdelay: no store bound")
	// ErrNoScratch is returned by Bind when the scratch buffer is empty.
	ErrNoScratch = errors.New("pitchdelay: scratch buffer is empty")
	// ErrInvalidRange is returned for an empty or non-finite resampling range.
	ErrInvalidRange = errors.New("pitchdelay: invalid resampling range")
	// ErrInvalidLength is returned for a non-positive crossfade length.
	ErrInvalidLength = errors.New("pitchdelay: crossfade length must be > 0")
	// ErrInvalidMode is returned for an unknown crossfade mode.
	ErrInvalidMode = errors.New("pitchdelay: unknown crossfade mode")
)
