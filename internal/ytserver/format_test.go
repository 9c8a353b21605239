package ytserver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{58, "58s"},
		{60, "1m0s"},
		{253, "4m13s"},
		{3605, "1h0m5s"},
		{3725, "1h2m5s"},
		{7200, "2h0m0s"},
		{-5, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.secs), "FormatDuration(%d)", tt.secs)
	}
}

func TestMetadataBlockFull(t *testing.T) {
	views := int64(1698234105)
	meta := engine.VideoMetadata{
		ID:         "dQw4w9WgXcQ",
		Title:      "Never Gonna Give You Up",
		Uploader:   "Rick Astley",
		UploadDate: "2009-10-25",
		Duration:   213,
		ViewCount:  &views,
	}

	got := MetadataBlock(meta)
	want := "- Title: Never Gonna Give You Up\n" +
		"- Uploader: Rick Astley\n" +
		"- Upload Date: 2009-10-25\n" +
		"- Duration: 3m33s\n" +
		"- View Count: 1698234105"
	assert.Equal(t, want, got)
}

func TestMetadataBlockOmitsAbsentFields(t *testing.T) {
	meta := engine.VideoMetadata{
		ID:         "dQw4w9WgXcQ",
		Title:      "Never Gonna Give You Up",
		Uploader:   "Rick Astley",
		UploadDate: "2009-10-25",
		Duration:   213,
	}

	lines := strings.Split(MetadataBlock(meta), "\n")
	// Missing view count drops the line entirely, leaving exactly four.
	require.Len(t, lines, 4)
	assert.NotContains(t, MetadataBlock(meta), "View Count")

	// Unknown duration drops its line too.
	meta.Duration = 0
	assert.NotContains(t, MetadataBlock(meta), "Duration")

	assert.Equal(t, "", MetadataBlock(engine.VideoMetadata{ID: "dQw4w9WgXcQ"}))
}

func TestBuildPayload(t *testing.T) {
	meta := engine.VideoMetadata{ID: "dQw4w9WgXcQ", Title: "Song", Duration: 58}
	transcript := "line one\nline two"

	got := BuildPayload(meta, transcript)
	want := "**Video Information:**\n" +
		"- Title: Song\n" +
		"- Duration: 58s\n" +
		"\n**Transcript:**\n" +
		"line one\nline two"
	assert.Equal(t, want, got)
}

func TestBuildPayloadTranscriptVerbatim(t *testing.T) {
	// Raw mode hands the original subtitle document through untouched, so
	// the payload must end with it byte for byte, however large.
	rawVTT := "WEBVTT\nKind: captions\n\n00:00:00.000 --> 00:00:01.000\n" +
		strings.Repeat("the same line over and over\n", 5000)

	got := BuildPayload(engine.VideoMetadata{ID: "x"}, rawVTT)
	require.True(t, strings.HasSuffix(got, rawVTT), "payload must contain the transcript unmodified")
}

func TestUserFacingError(t *testing.T) {
	err := userFacingError(fmt.Errorf("player: %w", engine.ErrNoCaptions))
	assert.EqualError(t, err, "No transcript/subtitles available for this video")

	err = userFacingError(fmt.Errorf("%w: %q", engine.ErrInvalidVideoRef, "nope"))
	assert.ErrorIs(t, err, engine.ErrInvalidVideoRef)

	err = userFacingError(errors.New("connection reset"))
	assert.EqualError(t, err, "Failed to fetch YouTube transcript: connection reset")
}
