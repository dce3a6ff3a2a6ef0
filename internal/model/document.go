package model

import "time"

// Document is the canonical metadata record for a digitized file.
// This is a pure domain model with no database-specific dependencies or tags;
// it can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// Content holds the raw JSON metadata envelope as text. The envelope is
// schema-less: new fields may appear without migration, and consumers must
// treat unparsable content as "no structured metadata" rather than an error.
type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty"`
	OwnerRef    string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
