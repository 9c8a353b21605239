package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	SubtitleLangs        []string // preferred caption languages, in order
	RawDefault           bool     // serve unprocessed subtitle documents unless the request says otherwise
	FetchTimeout         time.Duration
	RateLimit            float64 // YouTube requests per second (0 = unlimited)
	RateBurst            int
	LLMAPIKey            string
	LLMAPIKeyFallbacks   []string
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	MaxSummaryChars      int // transcript cap fed to the LLM
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = watch-page fetches go through the plain client
	LLMClient            *llm.Client    // nil = youtube_summary disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, ytserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
