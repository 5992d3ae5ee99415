package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ArchiveResult reports what ArchiveData inserted.
type ArchiveResult struct {
	Archives    int `json:"archives_created"`
	Items       int `json:"items_created"`
	Annotations int `json:"annotations_created"`
	Connections int `json:"connections_created"`
}

type seedArchive struct {
	name        string
	slug        string
	description string
	color       string
}

type seedItem struct {
	archiveSlug string
	title       string
	code        string
	description string
	location    string
	content     string
	imageURL    string
}

type seedAnnotation struct {
	itemIdx        int
	text           string
	annotationType string
	startPos       int
	endPos         int
}

type seedItemConnection struct {
	sourceIdx      int
	targetIdx      int
	connectionType string
	strength       float64
}

var seedArchives = []seedArchive{
	{
		name:        "de Appel Archive",
		slug:        "de-appel",
		description: "Since its inauguration in 1975, de Appel presented 1131 events and exhibitions, made in collaborations with 29.682 people, 945 collectives, and 4.134 institutes from 436 cities and 68 countries.",
		color:       "#F59E0B",
	},
	{
		name:        "Jan van Eyck Academy Archive",
		slug:        "jan-van-eyck",
		description: "The Jan van Eyck Academy archive contains documentation of artistic research and experimental practices.",
		color:       "#8B5CF6",
	},
	{
		name:        "Framer Framed Archive",
		slug:        "framer-framed",
		description: "Framer Framed archive focuses on contemporary art and cultural practices from diverse perspectives.",
		color:       "#10B981",
	},
	{
		name:        "Kunstinstituut Melly",
		slug:        "kunstinstituut-melly",
		description: "Archive of contemporary art and cultural activities from Kunstinstituut Melly.",
		color:       "#EF4444",
	},
}

var seedItems = []seedItem{
	{
		archiveSlug: "de-appel",
		title:       "Don van Vliet – TGV tentoonstelling",
		code:        "VLI-D-1",
		description: "Exhibition documentation of Don van Vliet (Captain Beefheart) TGV exhibition",
		location:    "object on table 2",
		content:     "Don van Vliet, also known as Captain Beefheart, was an American musician, singer, songwriter, and artist. His musical work was conducted with his backing band the Magic Band and was marked by his powerful singing voice with its wide range, and his surrealism and eccentricity.",
		imageURL:    "/api/images/don-van-vliet.jpg",
	},
	{
		archiveSlug: "de-appel",
		title:       "Teresa Murak – 1974-1978",
		code:        "MUR-1",
		description: "Documentation of Teresa Murak's work from 1974-1978 period",
		location:    "object on table 2",
		content:     "Teresa Murak is a Polish artist known for her pioneering work in performance art and land art. Her work from 1974-1978 represents a crucial period in the development of conceptual art in Eastern Europe.",
		imageURL:    "/api/images/teresa-murak.jpg",
	},
	{
		archiveSlug: "de-appel",
		title:       "Rosa te Velde – Drafting futures, Remembering a building",
		code:        "APPEL-LIB-202001",
		description: "Schetsen voor de toekomst, herinneringen aan een gebouw",
		location:    "object on table 2",
		content:     "Rosa te Velde explores the relationship between architecture, memory, and future possibilities through her artistic practice.",
		imageURL:    "/api/images/rosa-te-velde.jpg",
	},
	{
		archiveSlug: "de-appel",
		title:       "WEST SIDE TORI'S – Editie 2 – april 2024",
		code:        "APPEL-LIB-202427",
		description: "Contemporary publication documenting urban culture and artistic practices",
		location:    "object on table 2",
		content:     "WEST SIDE TORI'S is a publication that documents contemporary urban culture and artistic practices in Amsterdam.",
		imageURL:    "/api/images/west-side-toris.jpg",
	},
	{
		archiveSlug: "de-appel",
		title:       "Matt Mullican – The MIT Project",
		code:        "MULL-M-1",
		description: "Documentation of Matt Mullican's MIT Project",
		location:    "object on table 2",
		content:     "Matt Mullican's MIT Project explores the relationship between consciousness, representation, and reality through systematic investigation.",
		imageURL:    "/api/images/matt-mullican-mit.jpg",
	},
	{
		archiveSlug: "de-appel",
		title:       "Matt Mullican – 12 by 2",
		code:        "MULL-M-13",
		description: "Matt Mullican's 12 by 2 project documentation",
		location:    "object on table 2",
		content:     "The 12 by 2 project represents Mullican's systematic approach to understanding and representing reality through symbolic systems.",
		imageURL:    "/api/images/matt-mullican-12by2.jpg",
	},
	{
		archiveSlug: "jan-van-eyck",
		title:       "Decolonial Futures Educational Programme",
		code:        "JVE-DF-2021",
		description: "Educational programme organised between Sandberg Instituut, Gerrit Rietveld Academie and Framer Framed",
		location:    "archive section A",
		content:     "Decolonial Futures is an educational programme organised between the Sandberg Instituut, the Gerrit Rietveld Academie and Framer Framed in Amsterdam as well as Funda Community College in Soweto, South Africa.",
		imageURL:    "/api/images/decolonial-futures.jpg",
	},
	{
		archiveSlug: "framer-framed",
		title:       "Catching Up in the Archive",
		code:        "FF-CUTA-2022",
		description: "Installation views from Catching Up in the Archive exhibition, 2022",
		location:    "exhibition space",
		content:     "Catching Up in the Archive, 2022, installation views. Photography: Johannes Schwartz. An exploration of archival practices and contemporary art.",
		imageURL:    "/api/images/catching-up-archive.jpg",
	},
}

var seedAnnotations = []seedAnnotation{
	{0, "Don van Vliet", "Entity", 0, 13},
	{0, "Captain Beefheart", "Entity", 29, 46},
	{0, "American", "Place", 55, 63},
	{0, "TGV exhibition", "Events", 0, 14},

	{1, "Teresa Murak", "Entity", 0, 12},
	{1, "1974-1978", "Period", 0, 9},
	{1, "Polish", "Place", 15, 21},
	{1, "performance art", "Terms", 60, 75},
	{1, "Eastern Europe", "Place", 180, 194},

	{2, "Rosa te Velde", "Entity", 0, 13},
	{2, "architecture", "Terms", 50, 62},
	{2, "memory", "Terms", 64, 70},

	{3, "WEST SIDE TORI'S", "Objects", 0, 16},
	{3, "april 2024", "Period", 27, 37},
	{3, "Amsterdam", "Place", 120, 129},

	{4, "Matt Mullican", "Entity", 0, 13},
	{4, "MIT Project", "Objects", 17, 28},
	{4, "consciousness", "Terms", 80, 93},

	{6, "Decolonial Futures", "Events", 0, 18},
	{6, "Sandberg Instituut", "Entity", 80, 98},
	{6, "Amsterdam", "Place", 140, 149},
	{6, "Soweto, South Africa", "Place", 190, 210},
}

var seedItemConnections = []seedItemConnection{
	{4, 5, "semantic", 0.9},
	{0, 1, "temporal", 0.7},
	{6, 7, "institutional", 0.8},
	{2, 3, "thematic", 0.6},
}

// ArchiveData replaces the archive tables with the sample dataset. Item
// creation times are scattered over the past year and annotation confidences
// drawn from [0.8, 1.0), matching the historic dataset's shape.
func ArchiveData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*ArchiveResult, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"item_connections", "voice_recordings", "annotations", "archive_items", "archives"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	now := time.Now().UTC()
	archiveIDs := make(map[string]int, len(seedArchives))
	for _, a := range seedArchives {
		var id int
		err := tx.QueryRow(ctx, `
            INSERT INTO archives (name, slug, description, color, created_at)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id`,
			a.name, a.slug, a.description, a.color, now,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed archive %q: %w", a.slug, err)
		}
		archiveIDs[a.slug] = id
	}

	itemIDs := make([]int, len(seedItems))
	for i, it := range seedItems {
		createdAt := now.AddDate(0, 0, -(1 + rand.Intn(365)))
		err := tx.QueryRow(ctx, `
            INSERT INTO archive_items (archive_id, title, code, description, location,
                content, image_url, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id`,
			archiveIDs[it.archiveSlug], it.title, it.code, it.description, it.location,
			it.content, it.imageURL, createdAt, createdAt,
		).Scan(&itemIDs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to seed item %q: %w", it.title, err)
		}
	}

	for _, ann := range seedAnnotations {
		confidence := 0.8 + rand.Float64()*0.2
		_, err := tx.Exec(ctx, `
            INSERT INTO annotations (item_id, text, start_pos, end_pos, annotation_type,
                confidence, created_at, created_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			itemIDs[ann.itemIdx], ann.text, ann.startPos, ann.endPos, ann.annotationType,
			confidence, now, "system",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed annotation %q: %w", ann.text, err)
		}
	}

	for _, c := range seedItemConnections {
		_, err := tx.Exec(ctx, `
            INSERT INTO item_connections (source_id, target_id, connection_type, strength, properties, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			itemIDs[c.sourceIdx], itemIDs[c.targetIdx], c.connectionType, c.strength,
			`{"auto_generated": true}`, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed item connection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result := &ArchiveResult{
		Archives:    len(seedArchives),
		Items:       len(seedItems),
		Annotations: len(seedAnnotations),
		Connections: len(seedItemConnections),
	}
	logger.Info("Archive data seeded",
		zap.Int("archives", result.Archives),
		zap.Int("items", result.Items),
		zap.Int("annotations", result.Annotations),
		zap.Int("connections", result.Connections),
	)
	return result, nil
}
