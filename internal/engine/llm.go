package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrLLMDisabled is returned when a summary is requested without a configured client.
var ErrLLMDisabled = errors.New("LLM not configured (set LLM_API_KEY)")

// LLMSummary is the JSON structure expected from the LLM for transcript summaries.
type LLMSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrLLMDisabled
	}
	incrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		incrLLMErrors()
		return "", err
	}
	return stripFences(resp), nil
}

// SummarizeTranscript asks the LLM to summarize one cleaned transcript.
// The transcript is capped at MaxSummaryChars (word boundary) before
// prompting. A response that fails to parse as JSON is returned as a
// plain-text summary rather than an error.
func SummarizeTranscript(ctx context.Context, meta VideoMetadata, transcript, focus string) (*LLMSummary, error) {
	header := meta.Title
	if header == "" {
		header = meta.ID
	}
	if meta.Uploader != "" {
		header += " by " + meta.Uploader
	}

	focusSection := ""
	if focus != "" {
		focusSection = "Focus on: " + focus + "\n\n"
	}

	capped := transcript
	if cfg.MaxSummaryChars > 0 {
		capped = TruncateAtWord(transcript, cfg.MaxSummaryChars)
	}

	prompt := fmt.Sprintf(summarizeTranscriptPrompt, header, focusSection, capped)
	raw, err := CallLLM(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out LLMSummary
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.Summary == "" {
		return &LLMSummary{Summary: raw}, nil
	}
	return &out, nil
}
