// Package category assigns a semantic category to a file from its name and
// declared MIME type. Classification is a pure, total function: it always
// returns a value and never fails, falling back to Other for anything it does
// not recognize.
package category

import (
	"path/filepath"
	"strings"

	"arquivo/internal/model"
)

var imageExts = set("jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "tiff", "tif", "heic", "heif", "ico", "raw")

var videoExts = set("mp4", "avi", "mov", "wmv", "mkv", "webm", "flv", "mpeg", "mpg", "m4v", "3gp")

var audioExts = set("mp3", "wav", "ogg", "flac", "aac", "m4a", "wma", "opus")

var documentExts = set(
	"pdf", "doc", "docx", "txt", "rtf", "odt", "md",
	"xls", "xlsx", "csv", "ods",
	"ppt", "pptx", "odp",
)

var documentMimeMarkers = []string{
	"pdf", "msword", "wordprocessingml", "ms-excel", "spreadsheet",
	"ms-powerpoint", "presentation", "opendocument", "rtf",
}

// Classify maps a file name plus declared MIME type to a category.
// The guards are mutually exclusive by construction, so evaluation order does
// not affect the result.
func Classify(fileName, mimeType string) model.Category {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case imageExts[ext] || strings.HasPrefix(mt, "image/"):
		return model.CategoryImages
	case videoExts[ext] || strings.HasPrefix(mt, "video/"):
		return model.CategoryVideos
	case audioExts[ext] || strings.HasPrefix(mt, "audio/"):
		return model.CategoryAudio
	case documentExts[ext] || strings.HasPrefix(mt, "text/") || hasAnyMarker(mt):
		return model.CategoryDocuments
	default:
		// Code, markup, archives and everything unmatched.
		return model.CategoryOther
	}
}

func hasAnyMarker(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	for _, m := range documentMimeMarkers {
		if strings.Contains(mimeType, m) {
			return true
		}
	}
	return false
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
