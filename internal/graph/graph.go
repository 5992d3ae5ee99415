// Package graph turns entity collections into node/edge structures for
// force-directed visualization. Builders are pure: they read the rows they
// are handed and never touch the store, which also makes them safe against
// rows whose counterpart was deleted mid-read — unresolvable edges are
// skipped, never an error.
package graph

// Node kinds shared by both projections. Annotation nodes use the
// annotation's own category as their type instead.
const (
	NodeTypeItem    = "item"
	NodeTypeProject = "project"
	NodeTypePerson  = "person"
)

// EdgeTypeAnnotation marks the derived item→annotation structural edge.
const EdgeTypeAnnotation = "annotation"

// EdgeTypeCollaboration marks the synthetic project→person edge.
const EdgeTypeCollaboration = "collaboration"

// CollaborationStrength is the fixed weight of synthetic collaboration
// edges. There is no stored value to derive it from; clients style against
// this number.
const CollaborationStrength = 0.8

// labelLimit is the UI contract for node labels: longer labels are cut to
// this many characters and suffixed with an ellipsis.
const labelLimit = 50

// Node is a labeled entity in a projection. IDs are namespaced with a kind
// prefix so item, annotation, project and person ids share one id-space
// without collisions.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`

	// Denormalized attributes for client-side filtering; populated per
	// node kind.
	Category     string `json:"category,omitempty"`
	Role         string `json:"role,omitempty"`
	Location     string `json:"location,omitempty"`
	Organization string `json:"organization,omitempty"`
	Status       string `json:"status,omitempty"`
	Year         *int   `json:"year,omitempty"`

	// Data carries the serialized entity the node was projected from.
	Data any `json:"data"`

	// AnnotationTypes lists the distinct annotation categories present on
	// an item node.
	AnnotationTypes []string `json:"annotation_types,omitempty"`
}

// Edge is a labeled directed relation between two nodes.
type Edge struct {
	ID       string  `json:"id,omitempty"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
	Data     any     `json:"data,omitempty"`
}

// truncateLabel cuts s to labelLimit runes, appending "..." when it was
// longer. The exact threshold and suffix are part of the UI contract.
func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= labelLimit {
		return s
	}
	return string(r[:labelLimit]) + "..."
}
