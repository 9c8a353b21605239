package engine

// LLM prompt templates. Data only, no logic.

// summarizeTranscriptPrompt condenses one video transcript.
// Args: video header (title, uploader), optional focus section, transcript text.
const summarizeTranscriptPrompt = `You are a research assistant. Summarize the video transcript below.

Video: %s

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "summary": "3-5 sentence plain-text summary of what the video covers. No markdown.",
  "key_points": [
    "Specific point as a complete sentence.",
    "Another specific point with a number or name when the transcript gives one."
  ]
}

Rules:
- summary: plain text, NO markdown (no **, ##, -, *)
- key_points: 3-8 items, each a complete informative sentence
- Answer in the SAME LANGUAGE as the transcript
- Do NOT invent information not present in the transcript
- Auto-generated captions contain recognition mistakes: silently read through them

%sTranscript:
%s`
