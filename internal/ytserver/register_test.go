package ytserver

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

func TestRegisterToolsAndPrompts(t *testing.T) {
	// Registration derives JSON schemas from the input types; this fails
	// loudly if any tool or prompt definition is malformed.
	server := mcp.NewServer(&mcp.Implementation{Name: "go_youtube", Version: "test"}, nil)
	RegisterTools(server)
	RegisterPrompts(server)
}

func TestFetchTranscriptPayloadValidation(t *testing.T) {
	_, _, err := fetchTranscriptPayload(context.Background(), engine.TranscriptInput{})
	assert.EqualError(t, err, "url is required")

	_, _, err = fetchTranscriptPayload(context.Background(), engine.TranscriptInput{URL: "https://example.com/watch?v=dQw4w9WgXcQ"})
	assert.ErrorIs(t, err, engine.ErrInvalidVideoRef)

	_, _, err = fetchTranscriptPayload(context.Background(), engine.TranscriptInput{URL: "not a video"})
	assert.ErrorIs(t, err, engine.ErrInvalidVideoRef)
}

func TestFetchTranscriptPayloadCacheHit(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Hour)

	payload := "**Video Information:**\n- Title: Cached\n\n**Transcript:**\ncached line"
	key := engine.CacheKey("get_youtube", "dQw4w9WgXcQ", strconv.FormatBool(false))
	engine.CacheSet(context.Background(), key, engine.TranscriptOutput{
		URL:     "https://youtu.be/dQw4w9WgXcQ",
		VideoID: "dQw4w9WgXcQ",
		Title:   "Cached",
		Payload: payload,
	})

	// Served from cache, no network involved.
	got, title, err := fetchTranscriptPayload(context.Background(), engine.TranscriptInput{URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "Cached", title)
}

func TestFetchTranscriptPayloadRawCacheKey(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Hour)

	cleanPayload := "**Transcript:**\ncleaned line"
	rawPayload := "**Transcript:**\nWEBVTT\n\n00:00:01.000 --> 00:00:02.000\nraw line"
	ctx := context.Background()
	engine.CacheSet(ctx, engine.CacheKey("get_youtube", "dQw4w9WgXcQ", "false"), engine.TranscriptOutput{
		VideoID: "dQw4w9WgXcQ",
		Payload: cleanPayload,
	})
	engine.CacheSet(ctx, engine.CacheKey("get_youtube", "dQw4w9WgXcQ", "true"), engine.TranscriptOutput{
		VideoID: "dQw4w9WgXcQ",
		Raw:     true,
		Payload: rawPayload,
	})

	// The raw flag on the request overrides the server default and selects
	// a cache entry distinct from the cleaned one.
	raw := true
	got, _, err := fetchTranscriptPayload(ctx, engine.TranscriptInput{URL: "https://youtu.be/dQw4w9WgXcQ", Raw: &raw})
	require.NoError(t, err)
	assert.Equal(t, rawPayload, got)

	got, _, err = fetchTranscriptPayload(ctx, engine.TranscriptInput{URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, cleanPayload, got)
}

func TestTranscriptTextRawPassthrough(t *testing.T) {
	doc := "WEBVTT\nKind: captions\n\n00:00:01.000 --> 00:00:02.500\nHello <c>there</c>\nHello <c>there</c>\n"

	// Raw mode returns the subtitle document byte-for-byte.
	assert.Equal(t, doc, transcriptText(doc, true))

	cleaned := transcriptText(doc, false)
	assert.Equal(t, "Hello there", cleaned)
}
