// go_youtube — YouTube Transcript MCP server.
//
// Exposes three MCP tools: get_youtube, youtube_summary, transcript_history,
// plus a get_youtube prompt. Runs as HTTP MCP server or stdio transport.
//
// Transcripts come straight from YouTube (watch page, Innertube player,
// engagement panel) with no external extraction binary involved.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/ytserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_youtube",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_youtube",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server)
	ytserver.RegisterPrompts(server)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:    "go_youtube",
		Version: version,
		Port:    mcpPort,
		// Long transcripts on slow links: keep writes generous.
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		SubtitleLangs:        env.List("SUBTITLE_LANGS", "en,en-US,en-GB"),
		RawDefault:           env.Str("RAW_DEFAULT", "false") == "true",
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 20*time.Second),
		RateLimit:            env.Float("YT_RATE_LIMIT", 1.0),
		RateBurst:            env.Int("YT_RATE_BURST", 3),
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 8192),
		MaxSummaryChars:      env.Int("MAX_SUMMARY_CHARS", 120000),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 500),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}
	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	// Browser-fingerprint client for the watch page; YouTube serves consent
	// walls to plain Go clients from some regions.
	if env.Str("BROWSER_FETCH", "true") == "true" {
		bc, err := engine.NewBrowserClient()
		if err != nil {
			slog.Warn("browser client init failed, falling back to plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("browser client initialized")
		}
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	}

	engine.Init(c)
	engine.InitRateLimit(c.RateLimit, c.RateBurst)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
