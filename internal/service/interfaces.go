package service

import (
	"context"
	"time"

	"github.com/archivalatlas/atlas/internal/model"
	"github.com/archivalatlas/atlas/internal/repository"
)

// Repository interfaces consumed by the services. The concrete pgx-backed
// repositories satisfy them; tests substitute fakes.

type ProjectRepo interface {
	List(ctx context.Context, f repository.ProjectFilter) ([]model.Project, error)
	GetByID(ctx context.Context, id int) (*model.Project, error)
	Insert(ctx context.Context, p *model.Project) (int, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	DistinctLocationCount(ctx context.Context) (int, error)
	StartDateRange(ctx context.Context) (*time.Time, *time.Time, error)
	Timeline(ctx context.Context) ([]model.TimelineEntry, error)
}

type ProjectPersonRepo interface {
	ListByProject(ctx context.Context, projectID int) ([]model.ProjectPerson, error)
	ListAll(ctx context.Context) ([]model.ProjectPerson, error)
	DistinctNameCount(ctx context.Context) (int, error)
}

type ProjectOutputRepo interface {
	ListByProject(ctx context.Context, projectID int) ([]model.ProjectOutput, error)
}

type ProjectConnectionRepo interface {
	ListAll(ctx context.Context) ([]model.ProjectConnection, error)
}

type ArchiveRepo interface {
	List(ctx context.Context) ([]model.Archive, error)
	GetBySlug(ctx context.Context, slug string) (*model.Archive, error)
	Insert(ctx context.Context, a *model.Archive) (int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type ItemRepo interface {
	ListByArchive(ctx context.Context, archiveID, limit, offset int) ([]model.ArchiveItem, error)
	ListAllByArchive(ctx context.Context, archiveID int) ([]model.ArchiveItem, error)
	CountByArchive(ctx context.Context, archiveID int) (int, error)
	GetByID(ctx context.Context, id int) (*model.ArchiveItem, error)
	Insert(ctx context.Context, it *model.ArchiveItem) (int, error)
	Update(ctx context.Context, id int, u repository.ItemUpdate) (*model.ArchiveItem, error)
	Search(ctx context.Context, q string, archiveID, limit int) ([]model.ArchiveItem, error)
	ListFirst(ctx context.Context, limit int) ([]model.ArchiveItem, error)
}

type AnnotationRepo interface {
	ListByItem(ctx context.Context, itemID int) ([]model.Annotation, error)
	ListByArchive(ctx context.Context, archiveID int) ([]model.Annotation, error)
	GetByID(ctx context.Context, id int) (*model.Annotation, error)
	Insert(ctx context.Context, a *model.Annotation) (int, error)
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, q, annotationType string, limit int) ([]model.Annotation, error)
}

type ItemConnectionRepo interface {
	ListBySourceItem(ctx context.Context, itemID int) ([]model.ItemConnection, error)
	ListByArchive(ctx context.Context, archiveID int) ([]model.ItemConnection, error)
	Insert(ctx context.Context, c *model.ItemConnection) (int, error)
}

type VoiceRecordingRepo interface {
	ListByItem(ctx context.Context, itemID int) ([]model.VoiceRecording, error)
	Insert(ctx context.Context, v *model.VoiceRecording) (int, error)
}

// Cache is the JSON cache used for graph projections. Services tolerate a
// nil Cache: every lookup is then a miss and writes are no-ops.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Publisher emits domain events. Nil disables publishing; failures are
// logged, never surfaced.
type Publisher interface {
	Publish(routingKey string, payload any) error
}
