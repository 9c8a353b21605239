package engine

import (
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"tags stripped", "<b>bold</b> text", "bold text"},
		{"numeric apostrophe entity", "it&#39;s here", "it's here"},
		{"entity", "fish &amp; chips", "fish & chips"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateAtWordShortInput(t *testing.T) {
	if got := TruncateAtWord("short text", 100); got != "short text" {
		t.Errorf("TruncateAtWord = %q, want input unchanged", got)
	}
}

func TestRandomUserAgent(t *testing.T) {
	ua := RandomUserAgent()
	if !strings.Contains(ua, "Chrome/131") {
		t.Errorf("RandomUserAgent() = %q, want a Chrome 131 UA", ua)
	}
}
