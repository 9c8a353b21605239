package ytserver

import (
	"context"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "transcript_history",
		Description: "Lists recently fetched transcripts from the local history database, newest first. " +
			"Each record carries video ID, title, uploader, duration, transcript size, and fetch time. " +
			"Optionally filtered by video ID. The transcript text itself is not stored.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.HistoryInput) (*mcp.CallToolResult, engine.HistoryOutput, error) {
		out, err := engine.ListFetches(ctx, input)
		if err != nil {
			return nil, engine.HistoryOutput{}, err
		}
		return nil, *out, nil
	})
}
