package graph

import (
	"fmt"

	"github.com/archivalatlas/atlas/internal/model"
)

// ArchiveGraph is the /api/archives/:slug/graph payload.
type ArchiveGraph struct {
	Nodes   []Node         `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Archive *model.Archive `json:"archive"`
}

// BuildArchiveGraph projects one archive's items, their annotations and
// item-to-item connections into a node/edge graph.
//
// Per item: one "item" node plus one node per annotation, typed by the
// annotation's category, grouped next to their item. Per connection whose
// endpoints both resolve within the archive: one edge. Per annotation: one
// derived structural edge item→annotation weighted by the annotation's
// confidence. Connections with an endpoint that cannot be resolved (the
// dangling-target rows the schema permits) are skipped.
func BuildArchiveGraph(archive *model.Archive, items []model.ArchiveItem, annotations map[int][]model.Annotation, connections []model.ItemConnection) *ArchiveGraph {
	g := &ArchiveGraph{
		Nodes:   []Node{},
		Edges:   []Edge{},
		Archive: archive,
	}

	known := make(map[int]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	for i := range items {
		item := &items[i]
		g.Nodes = append(g.Nodes, Node{
			ID:              itemNodeID(item.ID),
			Label:           truncateLabel(item.Title),
			Type:            NodeTypeItem,
			Data:            item,
			AnnotationTypes: distinctTypes(annotations[item.ID]),
		})
		for j := range annotations[item.ID] {
			ann := &annotations[item.ID][j]
			g.Nodes = append(g.Nodes, Node{
				ID:    annotationNodeID(ann.ID),
				Label: truncateLabel(ann.Text),
				Type:  ann.AnnotationType,
				Data:  ann,
			})
		}
	}

	for i := range connections {
		conn := &connections[i]
		if !known[conn.SourceID] || !known[conn.TargetID] {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			ID:       fmt.Sprintf("conn_%d", conn.ID),
			Source:   itemNodeID(conn.SourceID),
			Target:   itemNodeID(conn.TargetID),
			Type:     conn.ConnectionType,
			Strength: conn.Strength,
			Data:     conn,
		})
	}

	// Each annotation belongs to exactly one item, so the derived edge
	// exists exactly once per annotation.
	for _, it := range items {
		for _, ann := range annotations[it.ID] {
			g.Edges = append(g.Edges, Edge{
				ID:       fmt.Sprintf("item_ann_%d_%d", it.ID, ann.ID),
				Source:   itemNodeID(it.ID),
				Target:   annotationNodeID(ann.ID),
				Type:     EdgeTypeAnnotation,
				Strength: ann.Confidence,
			})
		}
	}

	return g
}

func itemNodeID(id int) string       { return fmt.Sprintf("item_%d", id) }
func annotationNodeID(id int) string { return fmt.Sprintf("annotation_%d", id) }

// distinctTypes returns the annotation categories present, duplicates
// removed, in first-seen order.
func distinctTypes(anns []model.Annotation) []string {
	seen := make(map[string]bool, len(anns))
	types := []string{}
	for _, a := range anns {
		if !seen[a.AnnotationType] {
			seen[a.AnnotationType] = true
			types = append(types, a.AnnotationType)
		}
	}
	return types
}
