package ytserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/subtitles"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all transcript tools on the given MCP server:
// get_youtube, youtube_summary, transcript_history.
func RegisterTools(server *mcp.Server) {
	registerGetYouTube(server)
	registerSummary(server)
	registerHistory(server)
}

func registerGetYouTube(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "get_youtube",
		Description: "Fetches a YouTube video transcript and metadata. " +
			"Retrieves full transcripts (subtitles) from YouTube videos along with metadata " +
			"like title, uploader, and upload date. Automatically cleans up VTT formatting to reduce " +
			"token usage unless raw format is requested. Returns the complete transcript without truncation.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, any, error) {
		payload, _, err := fetchTranscriptPayload(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		// One opaque text value, not a JSON envelope: the payload already
		// carries the metadata block and the transcript.
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: payload}},
		}, nil, nil
	})
}

// fetchTranscriptPayload runs the full get_youtube flow and returns the
// response text plus the video title. Shared by the tool handler and the
// prompt handler.
func fetchTranscriptPayload(ctx context.Context, input engine.TranscriptInput) (string, string, error) {
	if input.URL == "" {
		return "", "", fmt.Errorf("url is required")
	}
	engine.IncrTranscriptRequests()

	videoID := sources.ParseVideoID(input.URL)
	if videoID == "" {
		engine.IncrTranscriptErrors()
		return "", "", fmt.Errorf("%w: %q", engine.ErrInvalidVideoRef, input.URL)
	}

	raw := engine.Cfg.RawDefault
	if input.Raw != nil {
		raw = *input.Raw
	}
	if raw {
		engine.IncrRawRequests()
	}

	cacheKey := engine.CacheKey("get_youtube", videoID, strconv.FormatBool(raw))
	if cached, ok := engine.CacheGet(ctx, cacheKey); ok {
		return cached.Payload, cached.Title, nil
	}

	var capture *engine.Capture
	err := engine.TrackOperation(ctx, "fetch_video", func(ctx context.Context) error {
		var err error
		capture, err = sources.FetchVideo(ctx, videoID)
		return err
	})
	if err != nil {
		engine.IncrTranscriptErrors()
		return "", "", userFacingError(err)
	}

	transcript := transcriptText(capture.Document, raw)
	payload := BuildPayload(capture.Meta, transcript)

	if err := engine.RecordFetch(ctx, engine.FetchRecord{
		VideoID:         videoID,
		URL:             input.URL,
		Title:           capture.Meta.Title,
		Uploader:        capture.Meta.Uploader,
		DurationSec:     capture.Meta.Duration,
		TranscriptChars: len(transcript),
		Raw:             raw,
		Source:          capture.Source,
		Language:        capture.Language,
	}); err != nil {
		slog.Warn("get_youtube: history write failed", slog.Any("error", err))
	}

	engine.CacheSet(ctx, cacheKey, engine.TranscriptOutput{
		URL:     input.URL,
		VideoID: videoID,
		Title:   capture.Meta.Title,
		Raw:     raw,
		Payload: payload,
	})
	return payload, capture.Meta.Title, nil
}

// transcriptText resolves the transcript block for a fetched document: the
// document untouched in raw mode, the cleaned form otherwise.
func transcriptText(doc string, raw bool) string {
	if raw {
		return doc
	}
	return subtitles.Clean(doc)
}

// userFacingError maps pipeline failures onto the three stable client-visible
// messages: invalid reference, no subtitles, and fetch failure.
func userFacingError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidVideoRef):
		return err
	case errors.Is(err, engine.ErrNoCaptions):
		return errors.New("No transcript/subtitles available for this video")
	default:
		return fmt.Errorf("Failed to fetch YouTube transcript: %w", err)
	}
}

// RegisterPrompts registers the get_youtube prompt, which fetches a
// transcript and hands it back as a ready-to-use user message.
func RegisterPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "get_youtube",
		Description: "Fetch a YouTube video transcript and metadata",
		Arguments: []*mcp.PromptArgument{
			{Name: "url", Description: "YouTube video URL to fetch", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		url := ""
		if req.Params != nil {
			url = req.Params.Arguments["url"]
		}
		if url == "" {
			return nil, fmt.Errorf("url is required")
		}

		payload, title, err := fetchTranscriptPayload(ctx, engine.TranscriptInput{URL: url})
		if err != nil {
			return &mcp.GetPromptResult{
				Description: "Failed to fetch YouTube transcript",
				Messages: []*mcp.PromptMessage{
					{Role: "user", Content: &mcp.TextContent{Text: err.Error()}},
				},
			}, nil
		}

		if title == "" {
			title = url
		}
		return &mcp.GetPromptResult{
			Description: "YouTube transcript for: " + title,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: payload}},
			},
		}, nil
	})
}
