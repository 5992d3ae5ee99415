package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/event"
	"github.com/archivalatlas/atlas/internal/graph"
	"github.com/archivalatlas/atlas/internal/model"
	"github.com/archivalatlas/atlas/internal/repository"
	"github.com/archivalatlas/atlas/pkg/metrics"
)

const (
	searchLimit      = 50
	sparqlItemLimit  = 100
	defaultPerPage   = 20
	itemURIPrefix    = "http://archival-consciousness.org/item/"
	annURIPrefix     = "http://archival-consciousness.org/annotation/"
	ontologyPrefix   = "http://archival-consciousness.org/ontology/"
	dctermsTitle     = "http://purl.org/dc/terms/title"
	dctermsDesc      = "http://purl.org/dc/terms/description"
	rdfType          = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

type ArchiveService struct {
	archives    ArchiveRepo
	items       ItemRepo
	annotations AnnotationRepo
	connections ItemConnectionRepo
	recordings  VoiceRecordingRepo
	cache       Cache
	publisher   Publisher
	graphTTL    time.Duration
	logger      *zap.Logger
}

func NewArchiveService(
	archives ArchiveRepo,
	items ItemRepo,
	annotations AnnotationRepo,
	connections ItemConnectionRepo,
	recordings VoiceRecordingRepo,
	cache Cache,
	publisher Publisher,
	graphTTL time.Duration,
	logger *zap.Logger,
) *ArchiveService {
	return &ArchiveService{
		archives:    archives,
		items:       items,
		annotations: annotations,
		connections: connections,
		recordings:  recordings,
		cache:       cache,
		publisher:   publisher,
		graphTTL:    graphTTL,
		logger:      logger,
	}
}

func graphCacheKey(archiveID int) string {
	return fmt.Sprintf("archive:graph:%d", archiveID)
}

func (s *ArchiveService) ListArchives(ctx context.Context) ([]model.Archive, error) {
	return s.archives.List(ctx)
}

func (s *ArchiveService) GetArchive(ctx context.Context, slug string) (*model.Archive, error) {
	return s.archives.GetBySlug(ctx, slug)
}

// CreateArchiveInput is the POST /api/archives body.
type CreateArchiveInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (s *ArchiveService) CreateArchive(ctx context.Context, in CreateArchiveInput) (*model.Archive, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if in.Slug == "" {
		return nil, apperr.Validation("slug", "is required")
	}
	color := in.Color
	if color == "" {
		color = model.DefaultArchiveColor
	}

	a := &model.Archive{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.archives.Insert(ctx, a)
	if err != nil {
		return nil, err
	}

	s.publish(event.RoutingKeyArchiveCreated, event.ArchiveEvent{
		ArchiveID: id,
		Slug:      a.Slug,
		Timestamp: a.CreatedAt,
	})
	return s.archives.GetBySlug(ctx, a.Slug)
}

func (s *ArchiveService) DeleteArchive(ctx context.Context, slug string) error {
	a, err := s.archives.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.archives.DeleteBySlug(ctx, slug); err != nil {
		return err
	}

	s.invalidateGraph(ctx, a.ID)
	s.publish(event.RoutingKeyArchiveDeleted, event.ArchiveEvent{
		ArchiveID: a.ID,
		Slug:      slug,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// ItemPage is one page of an archive's items.
type ItemPage struct {
	Items       []model.ArchiveItem `json:"items"`
	Total       int                 `json:"total"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
}

func (s *ArchiveService) ListItems(ctx context.Context, slug string, page, perPage int) (*ItemPage, error) {
	a, err := s.archives.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	total, err := s.items.CountByArchive(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByArchive(ctx, a.ID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &ItemPage{
		Items:       items,
		Total:       total,
		Pages:       (total + perPage - 1) / perPage,
		CurrentPage: page,
	}, nil
}

// CreateItemInput is the POST /api/archives/:slug/items body.
type CreateItemInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
	AudioURL    string `json:"audio_url"`
}

func (s *ArchiveService) CreateItem(ctx context.Context, slug string, in CreateItemInput) (*model.ArchiveItem, error) {
	a, err := s.archives.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, apperr.Validation("title", "is required")
	}

	now := time.Now().UTC()
	it := &model.ArchiveItem{
		ArchiveID:   a.ID,
		Title:       in.Title,
		Code:        in.Code,
		Description: in.Description,
		Location:    in.Location,
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		AudioURL:    in.AudioURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.items.Insert(ctx, it)
	if err != nil {
		return nil, err
	}

	s.invalidateGraph(ctx, a.ID)
	s.publish(event.RoutingKeyItemCreated, event.ItemEvent{
		ItemID:    id,
		ArchiveID: a.ID,
		Title:     it.Title,
		Timestamp: now,
	})
	return s.items.GetByID(ctx, id)
}

// ItemDetail is an item with its annotations, outgoing connections and voice
// recordings embedded.
type ItemDetail struct {
	model.ArchiveItem
	Annotations     []model.Annotation     `json:"annotations"`
	Connections     []model.ItemConnection `json:"connections"`
	VoiceRecordings []model.VoiceRecording `json:"voice_recordings"`
}

func (s *ArchiveService) GetItem(ctx context.Context, id int) (*ItemDetail, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotations.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	connections, err := s.connections.ListBySourceItem(ctx, id)
	if err != nil {
		return nil, err
	}
	recordings, err := s.recordings.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemDetail{
		ArchiveItem:     *it,
		Annotations:     annotations,
		Connections:     connections,
		VoiceRecordings: recordings,
	}, nil
}

func (s *ArchiveService) UpdateItem(ctx context.Context, id int, u repository.ItemUpdate) (*model.ArchiveItem, error) {
	it, err := s.items.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}

	s.invalidateGraph(ctx, it.ArchiveID)
	s.publish(event.RoutingKeyItemUpdated, event.ItemEvent{
		ItemID:    it.ID,
		ArchiveID: it.ArchiveID,
		Title:     it.Title,
		Timestamp: it.UpdatedAt,
	})
	return it, nil
}

// CreateAnnotationInput is the POST /api/items/:id/annotations body.
// Confidence is a pointer so an explicit zero survives the 1.0 default.
type CreateAnnotationInput struct {
	Text           string   `json:"text"`
	StartPos       int      `json:"start_pos"`
	EndPos         int      `json:"end_pos"`
	AnnotationType string   `json:"annotation_type"`
	EntityURI      string   `json:"entity_uri"`
	Confidence     *float64 `json:"confidence"`
	CreatedBy      string   `json:"created_by"`
}

func (s *ArchiveService) CreateAnnotation(ctx context.Context, itemID int, in CreateAnnotationInput) (*model.Annotation, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, apperr.Validation("text", "is required")
	}
	if in.AnnotationType == "" {
		return nil, apperr.Validation("annotation_type", "is required")
	}
	if !model.ValidAnnotationType(in.AnnotationType) {
		return nil, apperr.Validation("annotation_type", "must be one of "+strings.Join(model.AnnotationTypes, ", "))
	}

	confidence := 1.0
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}

	a := &model.Annotation{
		ItemID:         itemID,
		Text:           in.Text,
		StartPos:       in.StartPos,
		EndPos:         in.EndPos,
		AnnotationType: in.AnnotationType,
		EntityURI:      in.EntityURI,
		Confidence:     confidence,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      createdBy,
	}
	id, err := s.annotations.Insert(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id

	s.invalidateGraph(ctx, it.ArchiveID)
	s.publish(event.RoutingKeyAnnotationAdded, event.AnnotationEvent{
		AnnotationID:   id,
		ItemID:         itemID,
		AnnotationType: a.AnnotationType,
		Timestamp:      a.CreatedAt,
	})
	return a, nil
}

func (s *ArchiveService) DeleteAnnotation(ctx context.Context, id int) error {
	a, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.annotations.Delete(ctx, id); err != nil {
		return err
	}

	if it, err := s.items.GetByID(ctx, a.ItemID); err == nil {
		s.invalidateGraph(ctx, it.ArchiveID)
	}
	s.publish(event.RoutingKeyAnnotationRemove, event.AnnotationEvent{
		AnnotationID:   id,
		ItemID:         a.ItemID,
		AnnotationType: a.AnnotationType,
		Timestamp:      time.Now().UTC(),
	})
	return nil
}

// CreateConnectionInput is the POST /api/items/:id/connections body.
type CreateConnectionInput struct {
	TargetID       int              `json:"target_id"`
	ConnectionType string           `json:"connection_type"`
	Strength       *float64         `json:"strength"`
	Properties     model.Properties `json:"properties"`
}

func (s *ArchiveService) CreateConnection(ctx context.Context, sourceID int, in CreateConnectionInput) (*model.ItemConnection, error) {
	if in.TargetID == 0 {
		return nil, apperr.Validation("target_id", "is required")
	}
	if in.ConnectionType == "" {
		return nil, apperr.Validation("connection_type", "is required")
	}

	source, err := s.items.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, in.TargetID); err != nil {
		return nil, err
	}

	strength := 1.0
	if in.Strength != nil {
		strength = *in.Strength
	}
	props := in.Properties
	if props == nil {
		props = model.Properties{}
	}

	c := &model.ItemConnection{
		SourceID:       sourceID,
		TargetID:       in.TargetID,
		ConnectionType: in.ConnectionType,
		Strength:       strength,
		Properties:     props,
		CreatedAt:      time.Now().UTC(),
	}
	id, err := s.connections.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.invalidateGraph(ctx, source.ArchiveID)
	s.publish(event.RoutingKeyConnectionAdded, event.ConnectionEvent{
		ConnectionID: id,
		SourceID:     sourceID,
		TargetID:     in.TargetID,
		Timestamp:    c.CreatedAt,
	})
	return c, nil
}

// CreateVoiceRecordingInput is the POST /api/items/:id/voice-recordings body.
type CreateVoiceRecordingInput struct {
	AudioURL   string  `json:"audio_url"`
	Transcript string  `json:"transcript"`
	Duration   float64 `json:"duration"`
	TextStart  int     `json:"text_start"`
	TextEnd    int     `json:"text_end"`
	CreatedBy  string  `json:"created_by"`
}

func (s *ArchiveService) CreateVoiceRecording(ctx context.Context, itemID int, in CreateVoiceRecordingInput) (*model.VoiceRecording, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if in.AudioURL == "" {
		return nil, apperr.Validation("audio_url", "is required")
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "user"
	}

	v := &model.VoiceRecording{
		ItemID:     itemID,
		AudioURL:   in.AudioURL,
		Transcript: in.Transcript,
		Duration:   in.Duration,
		TextStart:  in.TextStart,
		TextEnd:    in.TextEnd,
		CreatedAt:  time.Now().UTC(),
		CreatedBy:  createdBy,
	}
	id, err := s.recordings.Insert(ctx, v)
	if err != nil {
		return nil, err
	}
	v.ID = id
	return v, nil
}

// Graph returns the archive graph projection, served from cache when fresh.
func (s *ArchiveService) Graph(ctx context.Context, slug string) (*graph.ArchiveGraph, error) {
	a, err := s.archives.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	key := graphCacheKey(a.ID)
	if s.cache != nil {
		var cached graph.ArchiveGraph
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Graph cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		if hit {
			metrics.IncrementCacheHit(key)
			return &cached, nil
		}
		metrics.IncrementCacheMiss(key)
	}

	items, err := s.items.ListAllByArchive(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotations.ListByArchive(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	connections, err := s.connections.ListByArchive(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	byItem := make(map[int][]model.Annotation)
	for _, ann := range annotations {
		byItem[ann.ItemID] = append(byItem[ann.ItemID], ann)
	}

	start := time.Now()
	g := graph.BuildArchiveGraph(a, items, byItem, connections)
	metrics.RecordGraphBuildDuration("archive", time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, g, s.graphTTL); err != nil {
			s.logger.Warn("Graph cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return g, nil
}

// SearchResults is the GET /api/search payload.
type SearchResults struct {
	Items       []model.ArchiveItem `json:"items"`
	Annotations []model.Annotation  `json:"annotations"`
	Total       int                 `json:"total"`
}

// Search matches q as a case-sensitive substring of item title, description
// and content, and of annotation text. An unknown archive slug widens the
// item search to all archives rather than failing.
func (s *ArchiveService) Search(ctx context.Context, q, archiveSlug, annotationType string) (*SearchResults, error) {
	archiveID := 0
	if archiveSlug != "" {
		a, err := s.archives.GetBySlug(ctx, archiveSlug)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		if a != nil {
			archiveID = a.ID
		}
	}

	items, err := s.items.Search(ctx, q, archiveID, searchLimit)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotations.Search(ctx, q, annotationType, searchLimit)
	if err != nil {
		return nil, err
	}
	return &SearchResults{
		Items:       items,
		Annotations: annotations,
		Total:       len(items) + len(annotations),
	}, nil
}

// Triple is one RDF-like statement of the /api/sparql emitter.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Sparql answers fixed-pattern linked-data queries. Anything containing
// SELECT emits the item/annotation triples of the first items; everything
// else yields no results.
func (s *ArchiveService) Sparql(ctx context.Context, query string) ([]Triple, error) {
	triples := []Triple{}
	if !strings.Contains(strings.ToUpper(query), "SELECT") {
		return triples, nil
	}

	items, err := s.items.ListFirst(ctx, sparqlItemLimit)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		itemURI := fmt.Sprintf("%s%d", itemURIPrefix, it.ID)
		triples = append(triples, Triple{
			Subject:   itemURI,
			Predicate: dctermsTitle,
			Object:    it.Title,
		})
		if it.Description != "" {
			triples = append(triples, Triple{
				Subject:   itemURI,
				Predicate: dctermsDesc,
				Object:    it.Description,
			})
		}

		annotations, err := s.annotations.ListByItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		for _, ann := range annotations {
			annURI := fmt.Sprintf("%s%d", annURIPrefix, ann.ID)
			triples = append(triples,
				Triple{
					Subject:   annURI,
					Predicate: rdfType,
					Object:    ontologyPrefix + ann.AnnotationType,
				},
				Triple{
					Subject:   annURI,
					Predicate: ontologyPrefix + "annotates",
					Object:    itemURI,
				},
			)
		}
	}
	return triples, nil
}

func (s *ArchiveService) invalidateGraph(ctx context.Context, archiveID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, graphCacheKey(archiveID)); err != nil {
		s.logger.Warn("Graph cache invalidation failed", zap.Int("archive_id", archiveID), zap.Error(err))
	}
}

func (s *ArchiveService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Event publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
