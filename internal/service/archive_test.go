package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
	"github.com/archivalatlas/atlas/internal/repository"
)

type fakeArchiveRepo struct {
	archives []model.Archive
	nextID   int
}

func (f *fakeArchiveRepo) List(ctx context.Context) ([]model.Archive, error) {
	return f.archives, nil
}

func (f *fakeArchiveRepo) GetBySlug(ctx context.Context, slug string) (*model.Archive, error) {
	for i := range f.archives {
		if f.archives[i].Slug == slug {
			return &f.archives[i], nil
		}
	}
	return nil, apperr.NotFound("archive")
}

func (f *fakeArchiveRepo) Insert(ctx context.Context, a *model.Archive) (int, error) {
	for _, existing := range f.archives {
		if existing.Slug == a.Slug {
			return 0, apperr.Conflict("archive slug already exists")
		}
	}
	f.nextID++
	a.ID = f.nextID
	f.archives = append(f.archives, *a)
	return a.ID, nil
}

func (f *fakeArchiveRepo) DeleteBySlug(ctx context.Context, slug string) error {
	for i := range f.archives {
		if f.archives[i].Slug == slug {
			f.archives = append(f.archives[:i], f.archives[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("archive")
}

type fakeItemRepo struct {
	items  []model.ArchiveItem
	nextID int
}

func (f *fakeItemRepo) byArchive(archiveID int) []model.ArchiveItem {
	out := []model.ArchiveItem{}
	for _, it := range f.items {
		if it.ArchiveID == archiveID {
			out = append(out, it)
		}
	}
	return out
}

func (f *fakeItemRepo) ListByArchive(ctx context.Context, archiveID, limit, offset int) ([]model.ArchiveItem, error) {
	all := f.byArchive(archiveID)
	if offset >= len(all) {
		return []model.ArchiveItem{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeItemRepo) ListAllByArchive(ctx context.Context, archiveID int) ([]model.ArchiveItem, error) {
	return f.byArchive(archiveID), nil
}

func (f *fakeItemRepo) CountByArchive(ctx context.Context, archiveID int) (int, error) {
	return len(f.byArchive(archiveID)), nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id int) (*model.ArchiveItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, apperr.NotFound("item")
}

func (f *fakeItemRepo) Insert(ctx context.Context, it *model.ArchiveItem) (int, error) {
	f.nextID++
	it.ID = f.nextID
	f.items = append(f.items, *it)
	return it.ID, nil
}

func (f *fakeItemRepo) Update(ctx context.Context, id int, u repository.ItemUpdate) (*model.ArchiveItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			if u.Title != nil {
				f.items[i].Title = *u.Title
			}
			f.items[i].UpdatedAt = time.Now().UTC()
			return &f.items[i], nil
		}
	}
	return nil, apperr.NotFound("item")
}

func (f *fakeItemRepo) Search(ctx context.Context, q string, archiveID, limit int) ([]model.ArchiveItem, error) {
	out := []model.ArchiveItem{}
	for _, it := range f.items {
		if archiveID != 0 && it.ArchiveID != archiveID {
			continue
		}
		if contains(it.Title, q) || contains(it.Description, q) || contains(it.Content, q) {
			out = append(out, it)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeItemRepo) ListFirst(ctx context.Context, limit int) ([]model.ArchiveItem, error) {
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func contains(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}

type fakeAnnotationRepo struct {
	annotations []model.Annotation
	nextID      int
}

func (f *fakeAnnotationRepo) ListByItem(ctx context.Context, itemID int) ([]model.Annotation, error) {
	out := []model.Annotation{}
	for _, a := range f.annotations {
		if a.ItemID == itemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnnotationRepo) ListByArchive(ctx context.Context, archiveID int) ([]model.Annotation, error) {
	return f.annotations, nil
}

func (f *fakeAnnotationRepo) GetByID(ctx context.Context, id int) (*model.Annotation, error) {
	for i := range f.annotations {
		if f.annotations[i].ID == id {
			return &f.annotations[i], nil
		}
	}
	return nil, apperr.NotFound("annotation")
}

func (f *fakeAnnotationRepo) Insert(ctx context.Context, a *model.Annotation) (int, error) {
	f.nextID++
	a.ID = f.nextID
	f.annotations = append(f.annotations, *a)
	return a.ID, nil
}

func (f *fakeAnnotationRepo) Delete(ctx context.Context, id int) error {
	for i := range f.annotations {
		if f.annotations[i].ID == id {
			f.annotations = append(f.annotations[:i], f.annotations[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("annotation")
}

func (f *fakeAnnotationRepo) Search(ctx context.Context, q, annotationType string, limit int) ([]model.Annotation, error) {
	out := []model.Annotation{}
	for _, a := range f.annotations {
		if annotationType != "" && a.AnnotationType != annotationType {
			continue
		}
		if contains(a.Text, q) {
			out = append(out, a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeItemConnRepo struct {
	connections []model.ItemConnection
	nextID      int
}

func (f *fakeItemConnRepo) ListBySourceItem(ctx context.Context, itemID int) ([]model.ItemConnection, error) {
	out := []model.ItemConnection{}
	for _, c := range f.connections {
		if c.SourceID == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeItemConnRepo) ListByArchive(ctx context.Context, archiveID int) ([]model.ItemConnection, error) {
	return f.connections, nil
}

func (f *fakeItemConnRepo) Insert(ctx context.Context, c *model.ItemConnection) (int, error) {
	f.nextID++
	c.ID = f.nextID
	f.connections = append(f.connections, *c)
	return c.ID, nil
}

type fakeRecordingRepo struct {
	recordings []model.VoiceRecording
	nextID     int
}

func (f *fakeRecordingRepo) ListByItem(ctx context.Context, itemID int) ([]model.VoiceRecording, error) {
	out := []model.VoiceRecording{}
	for _, v := range f.recordings {
		if v.ItemID == itemID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRecordingRepo) Insert(ctx context.Context, v *model.VoiceRecording) (int, error) {
	f.nextID++
	v.ID = f.nextID
	f.recordings = append(f.recordings, *v)
	return v.ID, nil
}

type archiveFixture struct {
	archives    *fakeArchiveRepo
	items       *fakeItemRepo
	annotations *fakeAnnotationRepo
	connections *fakeItemConnRepo
	recordings  *fakeRecordingRepo
	cache       *fakeCache
	publisher   *fakePublisher
	svc         *ArchiveService
}

func newArchiveFixture() *archiveFixture {
	f := &archiveFixture{
		archives:    &fakeArchiveRepo{},
		items:       &fakeItemRepo{},
		annotations: &fakeAnnotationRepo{},
		connections: &fakeItemConnRepo{},
		recordings:  &fakeRecordingRepo{},
		cache:       newFakeCache(),
		publisher:   &fakePublisher{},
	}
	f.svc = NewArchiveService(
		f.archives, f.items, f.annotations, f.connections, f.recordings,
		f.cache, f.publisher, time.Minute, zap.NewNop(),
	)
	return f
}

func (f *archiveFixture) addArchive(slug string) *model.Archive {
	a := &model.Archive{Name: slug, Slug: slug, Color: model.DefaultArchiveColor}
	f.archives.Insert(context.Background(), a)
	return a
}

func (f *archiveFixture) addItem(archiveID int, title string) *model.ArchiveItem {
	it := &model.ArchiveItem{ArchiveID: archiveID, Title: title}
	f.items.Insert(context.Background(), it)
	return it
}

func TestCreateArchiveDefaultsColor(t *testing.T) {
	f := newArchiveFixture()

	a, err := f.svc.CreateArchive(context.Background(), CreateArchiveInput{Name: "de Appel", Slug: "de-appel"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultArchiveColor, a.Color)
}

func TestCreateArchiveValidation(t *testing.T) {
	f := newArchiveFixture()

	_, err := f.svc.CreateArchive(context.Background(), CreateArchiveInput{Slug: "x"})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.CreateArchive(context.Background(), CreateArchiveInput{Name: "x"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateArchiveDuplicateSlug(t *testing.T) {
	f := newArchiveFixture()
	f.addArchive("de-appel")

	_, err := f.svc.CreateArchive(context.Background(), CreateArchiveInput{Name: "again", Slug: "de-appel"})
	assert.True(t, apperr.IsConflict(err))
}

func TestListItemsPagination(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	for i := 0; i < 45; i++ {
		f.addItem(a.ID, "item")
	}

	page, err := f.svc.ListItems(context.Background(), "de-appel", 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Items, 20)
}

func TestListItemsDefaultsPageParams(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	f.addItem(a.ID, "only")

	page, err := f.svc.ListItems(context.Background(), "de-appel", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.Pages)
	assert.Len(t, page.Items, 1)
}

func TestCreateItemRequiresArchiveAndTitle(t *testing.T) {
	f := newArchiveFixture()

	_, err := f.svc.CreateItem(context.Background(), "nope", CreateItemInput{Title: "x"})
	assert.True(t, apperr.IsNotFound(err))

	f.addArchive("de-appel")
	_, err = f.svc.CreateItem(context.Background(), "de-appel", CreateItemInput{})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateAnnotationDefaults(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "Don van Vliet")

	ann, err := f.svc.CreateAnnotation(context.Background(), it.ID, CreateAnnotationInput{
		Text:           "Captain Beefheart",
		AnnotationType: "Entity",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, ann.Confidence)
	assert.Equal(t, "system", ann.CreatedBy)
	assert.Equal(t, []string{"archive.annotation.created"}, f.publisher.published)
}

func TestCreateAnnotationRejectsUnknownType(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "x")

	_, err := f.svc.CreateAnnotation(context.Background(), it.ID, CreateAnnotationInput{
		Text:           "y",
		AnnotationType: "Mood",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateAnnotationKeepsExplicitZeroConfidence(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "x")

	zero := 0.0
	ann, err := f.svc.CreateAnnotation(context.Background(), it.ID, CreateAnnotationInput{
		Text:           "y",
		AnnotationType: "Terms",
		Confidence:     &zero,
	})
	require.NoError(t, err)
	assert.Zero(t, ann.Confidence)
}

func TestDeleteAnnotationInvalidatesGraph(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "x")
	ann, err := f.svc.CreateAnnotation(context.Background(), it.ID, CreateAnnotationInput{
		Text: "y", AnnotationType: "Place",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAnnotation(context.Background(), ann.ID))
	assert.Contains(t, f.cache.deleted, graphCacheKey(a.ID))

	err = f.svc.DeleteAnnotation(context.Background(), ann.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateConnectionRequiresBothItems(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "source")

	_, err := f.svc.CreateConnection(context.Background(), it.ID, CreateConnectionInput{
		TargetID:       999,
		ConnectionType: "semantic",
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateConnectionDefaults(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	src := f.addItem(a.ID, "source")
	dst := f.addItem(a.ID, "target")

	c, err := f.svc.CreateConnection(context.Background(), src.ID, CreateConnectionInput{
		TargetID:       dst.ID,
		ConnectionType: "semantic",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Strength)
	assert.NotNil(t, c.Properties)
}

func TestCreateVoiceRecordingDefaultsCreatedBy(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "x")

	v, err := f.svc.CreateVoiceRecording(context.Background(), it.ID, CreateVoiceRecordingInput{
		AudioURL: "/audio/1.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", v.CreatedBy)

	_, err = f.svc.CreateVoiceRecording(context.Background(), it.ID, CreateVoiceRecordingInput{})
	assert.True(t, apperr.IsValidation(err))
}

func TestGraphCachesPerArchive(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	f.addItem(a.ID, "x")

	g, err := f.svc.Graph(context.Background(), "de-appel")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.Contains(t, f.cache.entries, graphCacheKey(a.ID))

	// Served from cache on the second call.
	f.items.items = nil
	g2, err := f.svc.Graph(context.Background(), "de-appel")
	require.NoError(t, err)
	assert.Len(t, g2.Nodes, 1)
}

func TestSearchUnknownArchiveWidensScope(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "Teresa Murak")
	f.annotations.Insert(context.Background(), &model.Annotation{
		ItemID: it.ID, Text: "Teresa Murak", AnnotationType: "Entity",
	})

	res, err := f.svc.Search(context.Background(), "Teresa", "no-such-archive", "")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Len(t, res.Annotations, 1)
	assert.Equal(t, 2, res.Total)
}

func TestSearchAnnotationTypeFilter(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := f.addItem(a.ID, "x")
	f.annotations.Insert(context.Background(), &model.Annotation{ItemID: it.ID, Text: "Amsterdam", AnnotationType: "Place"})
	f.annotations.Insert(context.Background(), &model.Annotation{ItemID: it.ID, Text: "Amsterdam school", AnnotationType: "Terms"})

	res, err := f.svc.Search(context.Background(), "Amsterdam", "", "Place")
	require.NoError(t, err)
	assert.Len(t, res.Annotations, 1)
	assert.Equal(t, "Place", res.Annotations[0].AnnotationType)
}

func TestSparqlEmitsTriples(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	it := &model.ArchiveItem{ArchiveID: a.ID, Title: "MIT Project", Description: "notes"}
	f.items.Insert(context.Background(), it)
	f.annotations.Insert(context.Background(), &model.Annotation{ItemID: it.ID, Text: "MIT", AnnotationType: "Entity"})

	triples, err := f.svc.Sparql(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	// title + description + annotation type + annotates
	require.Len(t, triples, 4)
	assert.Equal(t, "http://purl.org/dc/terms/title", triples[0].Predicate)
	assert.Equal(t, "MIT Project", triples[0].Object)
	assert.Equal(t, "http://archival-consciousness.org/ontology/Entity", triples[2].Object)
	assert.Equal(t, triples[0].Subject, triples[3].Object)
}

func TestSparqlWithoutSelect(t *testing.T) {
	f := newArchiveFixture()
	triples, err := f.svc.Sparql(context.Background(), "DESCRIBE ?s")
	require.NoError(t, err)
	assert.Empty(t, triples)
}

func TestSparqlSkipsEmptyDescription(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")
	f.addItem(a.ID, "no description")

	triples, err := f.svc.Sparql(context.Background(), "select ?s")
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "http://purl.org/dc/terms/title", triples[0].Predicate)
}

func TestDeleteArchive(t *testing.T) {
	f := newArchiveFixture()
	a := f.addArchive("de-appel")

	require.NoError(t, f.svc.DeleteArchive(context.Background(), "de-appel"))
	assert.Contains(t, f.cache.deleted, graphCacheKey(a.ID))
	assert.Contains(t, f.publisher.published, "archive.deleted")

	err := f.svc.DeleteArchive(context.Background(), "de-appel")
	assert.True(t, apperr.IsNotFound(err))
}
