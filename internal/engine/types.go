package engine

// --- Video types ---

// VideoMetadata describes a single video. String fields are "" and ViewCount
// is nil when YouTube did not report the value; formatters omit absent fields.
type VideoMetadata struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Uploader   string `json:"uploader,omitempty"`
	UploadDate string `json:"upload_date,omitempty"` // ISO 8601 date as reported
	Duration   int64  `json:"duration,omitempty"`    // seconds; 0 = unknown
	ViewCount  *int64 `json:"view_count,omitempty"`
}

// Capture is what the extraction layer returns for one video: metadata plus
// the subtitle document exactly as obtained.
type Capture struct {
	Meta     VideoMetadata
	Document string // VTT body, timedtext-derived lines, or panel segments
	Source   string // strategy that produced it: watch, player, panel
	Language string // caption track language code, "" when unknown
	AutoGen  bool   // true when the track is auto-generated (ASR)
}

// --- Tool IO types ---

type TranscriptInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
	Raw *bool  `json:"raw,omitempty" jsonschema:"Return the subtitle document unprocessed, with timing lines and markup intact (default: server setting, normally false)"`
}

// TranscriptOutput is the cacheable result of one transcript fetch. Payload
// is the full text returned to the client.
type TranscriptOutput struct {
	URL     string `json:"url"`
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Raw     bool   `json:"raw"`
	Payload string `json:"payload"`
}

type SummaryInput struct {
	URL   string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
	Focus string `json:"focus,omitempty" jsonschema:"Optional topic to focus the summary on"`
}

type SummaryOutput struct {
	URL       string   `json:"url"`
	VideoID   string   `json:"video_id"`
	Title     string   `json:"title,omitempty"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points,omitempty"`
}

type HistoryInput struct {
	VideoID string `json:"video_id,omitempty" jsonschema:"Filter by 11-character video ID"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max records (default: 20, max: 100)"`
}

type HistoryOutput struct {
	Count   int           `json:"count"`
	Fetches []FetchRecord `json:"fetches"`
}
