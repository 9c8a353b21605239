// Package ytserver registers the YouTube transcript tools and prompts on an
// MCP server and assembles their text responses.
package ytserver

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// FormatDuration renders seconds compactly: "58s", "4m13s", "1h2m5s".
// Zero components inside a larger unit are kept ("1h0m5s").
func FormatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// MetadataBlock renders video metadata as "- Label: value" lines in fixed
// order: title, uploader, upload date, duration, view count. Absent fields
// produce no line at all, so the block shrinks with missing data.
func MetadataBlock(meta engine.VideoMetadata) string {
	var lines []string
	if meta.Title != "" {
		lines = append(lines, "- Title: "+meta.Title)
	}
	if meta.Uploader != "" {
		lines = append(lines, "- Uploader: "+meta.Uploader)
	}
	if meta.UploadDate != "" {
		lines = append(lines, "- Upload Date: "+meta.UploadDate)
	}
	if meta.Duration > 0 {
		lines = append(lines, "- Duration: "+FormatDuration(meta.Duration))
	}
	if meta.ViewCount != nil {
		lines = append(lines, fmt.Sprintf("- View Count: %d", *meta.ViewCount))
	}
	return strings.Join(lines, "\n")
}

// BuildPayload concatenates the metadata block and the transcript into the
// single text value returned to the client: metadata first, transcript after
// a blank-line separator. The transcript is never truncated.
func BuildPayload(meta engine.VideoMetadata, transcript string) string {
	var sb strings.Builder
	sb.WriteString("**Video Information:**\n")
	if block := MetadataBlock(meta); block != "" {
		sb.WriteString(block)
		sb.WriteByte('\n')
	}
	sb.WriteString("\n**Transcript:**\n")
	sb.WriteString(transcript)
	return sb.String()
}
