package service

import (
	"encoding/json"
	"strings"

	"arquivo/internal/envelope"
)

// Fixed human-readable sentences keyed by MIME family. They exist purely to
// give the linear search engine extra recall without structured indexing: a
// query for "report" finds every PDF even when its form fields never say so.
func mimeSentence(mimeType string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "pdf"):
		return "PDF document. Content: report, form, official text."
	case strings.Contains(mt, "msword") || strings.Contains(mt, "wordprocessingml"):
		return "Word document. Content: letter, memorandum, draft text."
	case strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "ms-excel") || mt == "text/csv":
		return "Spreadsheet. Content: table, budget, financial data."
	case strings.Contains(mt, "presentation") || strings.Contains(mt, "ms-powerpoint"):
		return "Presentation. Content: slides, briefing."
	case strings.HasPrefix(mt, "image/"):
		return "Image file. Content: photo, picture, scanned page."
	case strings.HasPrefix(mt, "video/"):
		return "Video file. Content: recording, footage."
	case strings.HasPrefix(mt, "audio/"):
		return "Audio file. Content: recording, sound."
	default:
		return ""
	}
}

// injectExtractedText synthesizes the derived extractedText field and returns
// the re-serialized envelope. The text concatenates title, description, the
// MIME-family sentence, every non-empty string value in the envelope, and the
// tags. Non-object envelopes are returned re-serialized but untouched.
func injectExtractedText(env envelope.Value, title, description string, tags []string) string {
	if env.Kind() != envelope.KindObject && env.Kind() != envelope.KindNull {
		b, err := json.Marshal(env)
		if err != nil {
			return ""
		}
		return string(b)
	}
	if env.Kind() == envelope.KindNull {
		env = envelope.Object(map[string]envelope.Value{})
	}

	// Blank out any previous synthesis so re-saving a document does not fold
	// the old extractedText back into the new one.
	env.SetField("extractedText", envelope.String(""))

	parts := []string{title}
	if description != "" {
		parts = append(parts, description)
	}
	if sentence := mimeSentence(envelope.DeclaredMime(env)); sentence != "" {
		parts = append(parts, sentence)
	}
	env.WalkStrings(func(s string) bool {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
		return false
	})
	for _, tag := range tags {
		if strings.TrimSpace(tag) != "" {
			parts = append(parts, tag)
		}
	}

	env.SetField("extractedText", envelope.String(strings.Join(parts, " ")))

	b, err := json.Marshal(env)
	if err != nil {
		return ""
	}
	return string(b)
}
