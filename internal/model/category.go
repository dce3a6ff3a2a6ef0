package model

// Category is the semantic class assigned to a document's file content.
type Category string

const (
	CategoryImages    Category = "Images"
	CategoryVideos    Category = "Videos"
	CategoryAudio     Category = "Audio"
	CategoryDocuments Category = "Documents"
	CategoryOther     Category = "Other"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{CategoryImages, CategoryVideos, CategoryAudio, CategoryDocuments, CategoryOther}
}

// Valid reports whether c is one of the known category values.
func (c Category) Valid() bool {
	switch c {
	case CategoryImages, CategoryVideos, CategoryAudio, CategoryDocuments, CategoryOther:
		return true
	}
	return false
}
