package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// Video metadata assembly. The player response carries everything for most
// videos; watch-page <meta itemprop> tags fill gaps, and oEmbed is the
// last resort when only the engagement panel worked.

// metadataFromPlayer builds VideoMetadata from a decoded player response.
// Absent fields stay zero so formatters can omit them.
func metadataFromPlayer(videoID string, resp *innertubePlayerResp) engine.VideoMetadata {
	meta := engine.VideoMetadata{ID: videoID}
	if resp == nil {
		return meta
	}
	if vd := resp.VideoDetails; vd != nil {
		meta.Title = vd.Title
		meta.Uploader = vd.Author
		if secs, err := strconv.ParseInt(vd.LengthSeconds, 10, 64); err == nil {
			meta.Duration = secs
		}
		if views, err := strconv.ParseInt(vd.ViewCount, 10, 64); err == nil {
			meta.ViewCount = &views
		}
	}
	if mf := resp.Microformat; mf != nil {
		r := mf.PlayerMicroformatRenderer
		date := r.UploadDate
		if date == "" {
			date = r.PublishDate
		}
		meta.UploadDate = normalizeUploadDate(date)
		if meta.Uploader == "" {
			meta.Uploader = r.OwnerChannelName
		}
	}
	return meta
}

// normalizeUploadDate reduces full ISO timestamps to the date part.
// Microformat dates arrive either as "2009-10-25" or with time and offset.
func normalizeUploadDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

var isoDurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts schema.org durations ("PT4M13S") to seconds.
func parseISODuration(s string) int64 {
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	var total int64
	for i, factor := range []int64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0
		}
		total += n * factor
	}
	return total
}

// fillFromWatchMeta completes missing metadata fields from the watch page's
// itemprop microdata. Only fields still absent in meta are touched.
func fillFromWatchMeta(body []byte, meta *engine.VideoMetadata) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return
	}

	props := map[string]string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "meta" || n.Data == "link") {
			prop := getAttr(n, "itemprop")
			content := getAttr(n, "content")
			if content == "" {
				content = getAttr(n, "href")
			}
			if prop != "" && content != "" {
				if _, seen := props[prop]; !seen {
					props[prop] = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = props["name"]
	}
	if meta.UploadDate == "" {
		date := props["uploadDate"]
		if date == "" {
			date = props["datePublished"]
		}
		meta.UploadDate = normalizeUploadDate(date)
	}
	if meta.Duration == 0 {
		meta.Duration = parseISODuration(props["duration"])
	}
	if meta.ViewCount == nil {
		if views, err := strconv.ParseInt(props["interactionCount"], 10, 64); err == nil {
			meta.ViewCount = &views
		}
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// --- oEmbed fallback ---

type oembedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// fetchOEmbedMeta asks the oEmbed endpoint for title and uploader. It has no
// duration, date, or view data, but it answers from IPs the watch page blocks.
func fetchOEmbedMeta(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	engine.IncrOEmbedRequests()
	meta := engine.VideoMetadata{ID: videoID}

	oembedURL := "https://www.youtube.com/oembed?format=json&url=" +
		url.QueryEscape("https://www.youtube.com/watch?v="+videoID)
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return meta, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return meta, fmt.Errorf("oembed HTTP %d", resp.StatusCode)
	}

	var out oembedResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&out); err != nil {
		return meta, fmt.Errorf("decode oembed: %w", err)
	}
	meta.Title = out.Title
	meta.Uploader = out.AuthorName
	return meta, nil
}
