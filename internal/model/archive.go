package model

import "time"

// DefaultArchiveColor is assigned to archives created without one.
const DefaultArchiveColor = "#3B82F6"

// AnnotationTypes lists the recognized annotation categories.
var AnnotationTypes = []string{"Place", "Period", "Entity", "Objects", "Events", "Terms"}

// ValidAnnotationType reports whether t is a recognized annotation category.
func ValidAnnotationType(t string) bool {
	for _, at := range AnnotationTypes {
		if t == at {
			return true
		}
	}
	return false
}

// Archive is a named collection of items, addressed by slug.
type Archive struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	ItemCount   int       `json:"item_count"`
}

// ArchiveItem is one document of an archive.
type ArchiveItem struct {
	ID              int       `json:"id"`
	ArchiveID       int       `json:"archive_id"`
	Title           string    `json:"title"`
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"image_url"`
	AudioURL        string    `json:"audio_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	AnnotationCount int       `json:"annotation_count"`
}

// Annotation marks a span of an item's content with a typed reading.
// StartPos and EndPos are rune offsets into the item content.
type Annotation struct {
	ID             int       `json:"id"`
	ItemID         int       `json:"item_id"`
	Text           string    `json:"text"`
	StartPos       int       `json:"start_pos"`
	EndPos         int       `json:"end_pos"`
	AnnotationType string    `json:"annotation_type"`
	EntityURI      string    `json:"entity_uri"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
}

// ItemConnection is a stored directed relation between two items. The
// target is not constrained by the schema and may point at an item that no
// longer exists; graph builds filter such rows out.
type ItemConnection struct {
	ID             int        `json:"id"`
	SourceID       int        `json:"source_id"`
	TargetID       int        `json:"target_id"`
	ConnectionType string     `json:"connection_type"`
	Strength       float64    `json:"strength"`
	Properties     Properties `json:"properties"`
	CreatedAt      time.Time  `json:"created_at"`
}

// VoiceRecording is an audio note attached to a span of an item.
type VoiceRecording struct {
	ID         int       `json:"id"`
	ItemID     int       `json:"item_id"`
	AudioURL   string    `json:"audio_url"`
	Transcript string    `json:"transcript"`
	Duration   float64   `json:"duration"`
	TextStart  int       `json:"text_start"`
	TextEnd    int       `json:"text_end"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}
