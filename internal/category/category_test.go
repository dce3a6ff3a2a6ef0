package category

import (
	"testing"

	"arquivo/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		want     model.Category
	}{
		{"xlsx extension without mime", "plan.xlsx", "", model.CategoryDocuments},
		{"heic uppercase extension", "photo.HEIC", "image/heic", model.CategoryImages},
		{"pdf by mime", "unknown.bin", "application/pdf", model.CategoryDocuments},
		{"png by extension", "scan.png", "", model.CategoryImages},
		{"video by extension", "clip.mkv", "", model.CategoryVideos},
		{"video by mime only", "stream", "video/mp4", model.CategoryVideos},
		{"audio by extension", "voice.m4a", "", model.CategoryAudio},
		{"audio by mime", "note", "audio/ogg", model.CategoryAudio},
		{"word docx", "memo.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", model.CategoryDocuments},
		{"plain text by mime", "notes", "text/plain", model.CategoryDocuments},
		{"go source is other", "main.go", "", model.CategoryOther},
		{"zip archive is other", "backup.zip", "application/zip", model.CategoryOther},
		{"no extension no mime", "README", "", model.CategoryOther},
		{"empty everything", "", "", model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.fileName, tt.mimeType))
		})
	}
}

// Every input maps to exactly one known category, and repeated calls agree.
func TestClassifyTotalAndDeterministic(t *testing.T) {
	names := []string{"a.pdf", "b.xlsx", "c.png", "d.mp4", "e.mp3", "f.go", "", "no-ext", "weird.∆∆"}
	mimes := []string{"", "application/pdf", "image/png", "video/mp4", "audio/mpeg", "application/octet-stream", "garbage"}

	for _, n := range names {
		for _, m := range mimes {
			first := Classify(n, m)
			assert.True(t, first.Valid(), "Classify(%q, %q) returned unknown category %q", n, m, first)
			assert.Equal(t, first, Classify(n, m))
		}
	}
}
