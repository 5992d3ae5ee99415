// Package event defines the payloads published to the message exchange when
// content changes.
package event

import "time"

// Routing keys on the atlas.events exchange.
const (
	RoutingKeyProjectCreated   = "portfolio.project.created"
	RoutingKeyProjectDeleted   = "portfolio.project.deleted"
	RoutingKeyArchiveCreated   = "archive.created"
	RoutingKeyArchiveDeleted   = "archive.deleted"
	RoutingKeyItemCreated      = "archive.item.created"
	RoutingKeyItemUpdated      = "archive.item.updated"
	RoutingKeyAnnotationAdded  = "archive.annotation.created"
	RoutingKeyAnnotationRemove = "archive.annotation.deleted"
	RoutingKeyConnectionAdded  = "archive.connection.created"
)

type ProjectEvent struct {
	ProjectID int       `json:"project_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

type ArchiveEvent struct {
	ArchiveID int       `json:"archive_id"`
	Slug      string    `json:"slug"`
	Timestamp time.Time `json:"timestamp"`
}

type ItemEvent struct {
	ItemID    int       `json:"item_id"`
	ArchiveID int       `json:"archive_id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type AnnotationEvent struct {
	AnnotationID   int       `json:"annotation_id"`
	ItemID         int       `json:"item_id"`
	AnnotationType string    `json:"annotation_type"`
	Timestamp      time.Time `json:"timestamp"`
}

type ConnectionEvent struct {
	ConnectionID int       `json:"connection_id"`
	SourceID     int       `json:"source_id"`
	TargetID     int       `json:"target_id"`
	Timestamp    time.Time `json:"timestamp"`
}
