package service

import (
	"bytes"
	"strings"
)

// magicPrefixes maps MIME types that assert a specific binary format to the
// accepted leading-byte signatures. A declared type absent from this table is
// not signature-checked.
var magicPrefixes = map[string][][]byte{
	"application/pdf": {[]byte("%PDF-")},
	"image/png":       {{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	"image/jpeg":      {{0xFF, 0xD8, 0xFF}},
	"image/gif":       {[]byte("GIF87a"), []byte("GIF89a")},
	"application/zip": zipSignatures,
	// OOXML containers are ZIP archives.
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   zipSignatures,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         zipSignatures,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": zipSignatures,
}

// PK\x05\x06 and PK\x07\x08 cover empty and spanned archives.
var zipSignatures = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
	{0x50, 0x4B, 0x05, 0x06},
	{0x50, 0x4B, 0x07, 0x08},
}

// validateSignature checks the payload's leading bytes against the declared
// MIME type. It returns true when the type is either not signature-bound or
// the prefix matches.
func validateSignature(declaredMIME string, payload []byte) bool {
	sigs, ok := magicPrefixes[normalizeMime(declaredMIME)]
	if !ok {
		return true
	}
	for _, sig := range sigs {
		if bytes.HasPrefix(payload, sig) {
			return true
		}
	}
	return false
}

// normalizeMime strips parameters (e.g. "; charset=utf-8") and lowercases.
func normalizeMime(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
