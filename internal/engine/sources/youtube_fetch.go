package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

var (
	videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareIDRE  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ParseVideoID pulls the 11-char video ID out of a video reference: watch
// URLs, short links, shorts/embed/live paths, or a bare ID. Returns "" when
// the reference does not contain one.
func ParseVideoID(ref string) string {
	ref = strings.TrimSpace(ref)
	if m := videoIDRE.FindStringSubmatch(ref); len(m) >= 2 {
		return m[1]
	}
	if bareIDRE.MatchString(ref) {
		return ref
	}
	return ""
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// FetchVideo retrieves metadata and the subtitle document for one video.
// Strategies, in order:
//  1. watch-page scrape: full metadata + caption VTT, works from most IPs
//  2. ANDROID Innertube /player: same data, works where the scrape is blocked
//  3. engagement panel /next + /get_transcript: plain segments, works from
//     datacenter IPs where /player returns LOGIN_REQUIRED
//
// Returns ErrNoCaptions once any strategy has determined the video plays fine
// but exposes no usable subtitle track.
func FetchVideo(ctx context.Context, videoID string) (*engine.Capture, error) {
	if !bareIDRE.MatchString(videoID) {
		return nil, fmt.Errorf("%w: %q", engine.ErrInvalidVideoRef, videoID)
	}
	langs := engine.Cfg.SubtitleLangs

	capture, err := fetchViaWatchPage(ctx, videoID, langs)
	if err == nil {
		return capture, nil
	}
	slog.Warn("youtube: watch page failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))
	noCaptions := errors.Is(err, engine.ErrNoCaptions)

	capture, err = fetchViaPlayer(ctx, videoID, langs)
	if err == nil {
		return capture, nil
	}
	slog.Warn("youtube: player failed, trying engagement panel",
		slog.String("id", videoID), slog.Any("err", err))
	noCaptions = noCaptions || errors.Is(err, engine.ErrNoCaptions)

	capture, panelErr := fetchViaPanel(ctx, videoID)
	if panelErr == nil {
		return capture, nil
	}
	if noCaptions || errors.Is(panelErr, engine.ErrNoCaptions) {
		return nil, engine.ErrNoCaptions
	}
	return nil, fmt.Errorf("all fetch strategies failed: %w", panelErr)
}

// fetchViaWatchPage scrapes the watch page, decodes ytInitialPlayerResponse,
// and downloads the selected caption track. Metadata gaps are filled from the
// page's itemprop microdata since the body is already in hand.
func fetchViaWatchPage(ctx context.Context, videoID string, langs []string) (*engine.Capture, error) {
	engine.IncrWatchScrapes()
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	body, err := fetchWatchPage(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}

	meta := metadataFromPlayer(videoID, &playerResp)
	fillFromWatchMeta(body, &meta)

	doc, track, err := captionsFromPlayer(ctx, &playerResp, langs)
	if err != nil {
		return nil, err
	}
	return &engine.Capture{
		Meta:     meta,
		Document: doc,
		Source:   "watch",
		Language: track.LanguageCode,
		AutoGen:  track.Kind == "asr",
	}, nil
}

// fetchWatchPage downloads the watch page HTML. The browser-fingerprint
// client goes first when configured; the plain client with retry covers the
// rest.
func fetchWatchPage(ctx context.Context, watchURL string) ([]byte, error) {
	if bc := engine.Cfg.BrowserClient; bc != nil {
		if err := engine.WaitYouTube(ctx); err != nil {
			return nil, err
		}
		headers := engine.ChromeHeaders()
		headers["referer"] = "https://www.youtube.com/"
		data, status, err := bc.Do(http.MethodGet, watchURL, headers, nil)
		if err == nil && status == http.StatusOK && len(data) > 0 {
			return data, nil
		}
		slog.Debug("youtube: browser fetch failed, using plain client",
			slog.Int("status", status), slog.Any("err", err))
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
}

// fetchViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchViaPlayer(ctx context.Context, videoID string, langs []string) (*engine.Capture, error) {
	engine.IncrPlayerRequests()

	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytInnertubeURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}

	doc, track, err := captionsFromPlayer(ctx, &playerResp, langs)
	if err != nil {
		return nil, err
	}
	return &engine.Capture{
		Meta:     metadataFromPlayer(videoID, &playerResp),
		Document: doc,
		Source:   "player",
		Language: track.LanguageCode,
		AutoGen:  track.Kind == "asr",
	}, nil
}

// captionsFromPlayer selects a track from a player response and downloads its
// document. A playable video with no tracks is the definitive no-captions
// case; an unplayable response is a strategy failure that the next strategy
// may get past.
func captionsFromPlayer(ctx context.Context, resp *innertubePlayerResp, langs []string) (string, captionTrack, error) {
	var tracks []captionTrack
	if resp.Captions != nil {
		tracks = resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	}
	if len(tracks) == 0 {
		if ps := resp.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			return "", captionTrack{}, fmt.Errorf("player status %s: %s", ps.Status, ps.Reason)
		}
		return "", captionTrack{}, engine.ErrNoCaptions
	}

	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return "", captionTrack{}, fmt.Errorf("%w: all caption tracks require a proof token", engine.ErrNoCaptions)
	}

	doc, err := fetchCaptionDocument(ctx, track)
	if err != nil {
		return "", captionTrack{}, err
	}
	return doc, track, nil
}

// fetchViaPanel pulls transcript segments through the engagement panel and
// fills in what metadata oEmbed can offer.
func fetchViaPanel(ctx context.Context, videoID string) (*engine.Capture, error) {
	engine.IncrPanelRequests()

	text, err := fetchPanelTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	meta, err := fetchOEmbedMeta(ctx, videoID)
	if err != nil {
		slog.Debug("youtube: oembed metadata unavailable",
			slog.String("id", videoID), slog.Any("err", err))
		meta = engine.VideoMetadata{ID: videoID}
	}

	return &engine.Capture{
		Meta:     meta,
		Document: text,
		Source:   "panel",
	}, nil
}
