package engine

import "errors"

// Sentinel errors for the fetch pipeline. Tool handlers match these with
// errors.Is to keep client-facing messages stable.
var (
	// ErrInvalidVideoRef means the input could not be parsed as a video URL or ID.
	ErrInvalidVideoRef = errors.New("not a valid YouTube URL or video ID")

	// ErrNoCaptions means the video exists but has no usable subtitle track.
	ErrNoCaptions = errors.New("no transcript/subtitles available for this video")
)
