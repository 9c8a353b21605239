package ytserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/subtitles"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSummary(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "youtube_summary",
		Description: "Fetches a YouTube video transcript and returns an LLM-generated summary with key points " +
			"instead of the full text. Useful for long videos where the complete transcript would waste tokens. " +
			"Optionally focuses the summary on a given topic. Requires LLM_API_KEY to be configured.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.SummaryInput) (*mcp.CallToolResult, engine.SummaryOutput, error) {
		if input.URL == "" {
			return nil, engine.SummaryOutput{}, fmt.Errorf("url is required")
		}
		engine.IncrSummaryRequests()

		videoID := sources.ParseVideoID(input.URL)
		if videoID == "" {
			return nil, engine.SummaryOutput{}, fmt.Errorf("%w: %q", engine.ErrInvalidVideoRef, input.URL)
		}

		cacheKey := engine.CacheKey("youtube_summary", videoID, input.Focus)
		if out, ok := engine.CacheLoadJSON[engine.SummaryOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		capture, err := sources.FetchVideo(ctx, videoID)
		if err != nil {
			return nil, engine.SummaryOutput{}, userFacingError(err)
		}

		// The LLM always gets the cleaned transcript, never raw VTT.
		cleaned := subtitles.Clean(capture.Document)
		if cleaned == "" {
			return nil, engine.SummaryOutput{}, errors.New("No transcript/subtitles available for this video")
		}

		summary, err := engine.SummarizeTranscript(ctx, capture.Meta, cleaned, input.Focus)
		if err != nil {
			if errors.Is(err, engine.ErrLLMDisabled) {
				return nil, engine.SummaryOutput{}, err
			}
			return nil, engine.SummaryOutput{}, fmt.Errorf("summarization failed: %w", err)
		}

		out := engine.SummaryOutput{
			URL:       input.URL,
			VideoID:   videoID,
			Title:     capture.Meta.Title,
			Summary:   summary.Summary,
			KeyPoints: summary.KeyPoints,
		}
		engine.CacheStoreJSON(ctx, cacheKey, videoID, out)
		return nil, out, nil
	})
}
