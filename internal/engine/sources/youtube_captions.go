package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// Caption document download. The preferred form is WebVTT (baseUrl + &fmt=vtt)
// so raw mode hands back a real subtitle document; timedtext XML and
// engagement-panel segments are fallbacks that yield plain text lines.

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken since those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchCaptionDocument downloads the subtitle document for a caption track.
// Asks for WebVTT first; if the response is not VTT-shaped (some tracks ignore
// the fmt parameter), falls back to the timedtext XML form of the same track.
func fetchCaptionDocument(ctx context.Context, track captionTrack) (string, error) {
	body, err := fetchCaptionURL(ctx, track.BaseURL+"&fmt=vtt")
	if err == nil && strings.HasPrefix(strings.TrimSpace(body), "WEBVTT") {
		return body, nil
	}
	return fetchTimedText(ctx, track.BaseURL)
}

// fetchCaptionURL GETs a caption URL with retry and returns the raw body.
func fetchCaptionURL(ctx context.Context, captionURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
// Cues become one line each, so the result still reads like a subtitle document.
func fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	engine.IncrTimedtextRequests()

	body, err := fetchCaptionURL(ctx, baseURL)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}

	var tt ytTimedText
	if err := xml.Unmarshal([]byte(body), &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

// parseTranscriptSegments extracts cue text from a /get_transcript JSON
// response, one line per segment.
func parseTranscriptSegments(resp ytGetTranscriptResp) string {
	var sb strings.Builder
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			if seg.TranscriptSegmentRenderer == nil {
				continue
			}
			var line strings.Builder
			for _, run := range seg.TranscriptSegmentRenderer.Snippet.Runs {
				if run.Text != "" {
					if line.Len() > 0 {
						line.WriteByte(' ')
					}
					line.WriteString(run.Text)
				}
			}
			if line.Len() > 0 {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(line.String())
			}
		}
	}
	return sb.String()
}

// fetchPanelTranscript fetches a transcript document via:
//  1. POST /next to get engagementPanels containing the transcript continuation token
//  2. POST /get_transcript with the token to get JSON segments
//
// This approach works from datacenter IPs where /player returns LOGIN_REQUIRED.
// A video without a transcript panel has no captions at all, so a missing
// token maps to ErrNoCaptions.
func fetchPanelTranscript(ctx context.Context, videoID string) (string, error) {
	visitorData := generateVisitorData()

	nextData, err := postInnerTubeWEB(ctx, ytNextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return "", fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return "", fmt.Errorf("%w: %s", engine.ErrNoCaptions, err)
	}

	transcriptData, err := postInnerTubeWEB(ctx, ytGetTranscriptURL, map[string]any{
		"params": token,
		"context": map[string]any{
			"client": ytWebClientCtx{
				ClientName:    "WEB",
				ClientVersion: ytWebVersion,
				VisitorData:   visitorData,
				Hl:            "en",
				Gl:            "US",
			},
		},
	}, visitorData)
	if err != nil {
		return "", fmt.Errorf("/get_transcript: %w", err)
	}

	var transcriptResp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &transcriptResp); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	text := parseTranscriptSegments(transcriptResp)
	if text == "" {
		return "", errors.New("empty transcript segments")
	}
	return text, nil
}
