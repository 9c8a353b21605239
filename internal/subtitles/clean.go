// Package subtitles turns cue-based subtitle documents (WebVTT, SRT, or
// already-plain text) into compact transcripts. Timing machinery and inline
// markup are removed, and duplicate lines re-emitted by rolling auto-captions
// collapse to a single occurrence.
package subtitles

import (
	"regexp"
	"strings"
)

var (
	// cueStartRE matches a bare timestamp at the head of a line, the leftover
	// of a timing line split across physical lines.
	cueStartRE = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}`)

	// inlineTagRE matches inline markup in cue text: word-level timestamps
	// like <00:00:01.280> and styling tags like <c> and </c>.
	inlineTagRE = regexp.MustCompile(`<[^>]*>`)
)

var headerPrefixes = []string{"WEBVTT", "Kind:", "Language:", "NOTE", "STYLE", "REGION"}

// headerish reports whether a line belongs to the document preamble: the
// format signature, its metadata lines, or comment/style block openers.
func headerish(line string) bool {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Clean converts a raw subtitle document to transcript text, one caption line
// per output line.
//
// Dropped: the header block before the first timing line, every timing line,
// numeric cue indexes, and lines reduced to nothing by markup stripping.
// Immediately repeated lines collapse to the first occurrence, compared after
// whitespace normalization; a line that reappears later, after different text,
// is kept. Input that contains no timing lines at all is treated as plain
// content and still gets the strip and dedup steps.
//
// Pure function: no I/O, identical input yields identical output.
func Clean(raw string) string {
	var out []string
	prevNorm := ""
	seenTiming := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "-->") {
			seenTiming = true
			continue
		}
		if !seenTiming && headerish(line) {
			continue
		}
		// SRT-style cue index or an orphaned timestamp fragment.
		if digitsOnly(line) || cueStartRE.MatchString(line) {
			continue
		}

		line = strings.TrimSpace(inlineTagRE.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		norm := strings.Join(strings.Fields(line), " ")
		if norm == prevNorm {
			continue
		}
		out = append(out, line)
		prevNorm = norm
	}

	return strings.Join(out, "\n")
}
