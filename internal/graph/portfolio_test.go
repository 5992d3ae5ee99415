package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivalatlas/atlas/internal/model"
)

func dateOf(year int) *model.Date {
	d := model.NewDate(time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC))
	return &d
}

func TestBuildPortfolioNetworkNodesAndEdges(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Title: "Digital Transformation Strategy", Category: model.CategoryPMPolicy, Role: "Senior Project Manager", Location: "Naples, Italy", Status: model.StatusCompleted, StartDate: dateOf(2023)},
		{ID: 2, Title: "Healthcare Service Design", Category: model.CategoryUXDesign, Role: "Lead UX Designer", Location: "Milan, Italy", Status: model.StatusCompleted, StartDate: dateOf(2023)},
	}
	people := map[int][]model.ProjectPerson{
		1: {{ID: 10, ProjectID: 1, Name: "Anna Bianchi", Role: "Technical Lead"}},
		2: {{ID: 11, ProjectID: 2, Name: "Anna Bianchi", Role: "UX Researcher"}},
	}
	connections := []model.ProjectConnection{
		{ID: 20, SourceID: 1, TargetID: 2, ConnectionType: "skills", Strength: 0.7},
	}

	n := BuildPortfolioNetwork(projects, people, connections)

	// One project node per project, one person node per participation.
	require.Len(t, n.Nodes, 4)
	assert.Equal(t, "project-1", n.Nodes[0].ID)
	assert.Equal(t, model.CategoryPMPolicy, n.Nodes[0].Category)
	assert.Equal(t, "Naples, Italy", n.Nodes[0].Location)
	assert.Equal(t, model.StatusCompleted, n.Nodes[0].Status)
	require.NotNil(t, n.Nodes[0].Year)
	assert.Equal(t, 2023, *n.Nodes[0].Year)

	assert.Equal(t, "person-10", n.Nodes[1].ID)
	assert.Equal(t, "person-11", n.Nodes[3].ID)

	// One stored edge plus one collaboration edge per participation.
	require.Len(t, n.Edges, 3)
	assert.Equal(t, "project-1", n.Edges[0].Source)
	assert.Equal(t, "project-2", n.Edges[0].Target)
	assert.Equal(t, "skills", n.Edges[0].Type)

	collab := n.Edges[1]
	assert.Equal(t, EdgeTypeCollaboration, collab.Type)
	assert.Equal(t, CollaborationStrength, collab.Strength)
	assert.Equal(t, "project-1", collab.Source)
	assert.Equal(t, "person-10", collab.Target)
}

func TestBuildPortfolioNetworkDistinctPeopleStat(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Title: "A", Category: model.CategoryPMPolicy},
		{ID: 2, Title: "B", Category: model.CategoryUXDesign},
	}
	// Anna Bianchi participates twice: two nodes, one in the stat.
	people := map[int][]model.ProjectPerson{
		1: {{ID: 10, Name: "Anna Bianchi"}},
		2: {{ID: 11, Name: "Anna Bianchi"}, {ID: 12, Name: "Marco Rossi"}},
	}

	n := BuildPortfolioNetwork(projects, people, nil)

	var personNodes int
	for _, node := range n.Nodes {
		if node.Type == NodeTypePerson {
			personNodes++
		}
	}
	assert.Equal(t, 3, personNodes)
	assert.Equal(t, 2, n.Stats.TotalPeople)
}

func TestBuildPortfolioNetworkStats(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Category: model.CategoryPMPolicy},
		{ID: 2, Category: model.CategoryPMPolicy},
		{ID: 3, Category: model.CategoryUXDesign},
	}
	connections := []model.ProjectConnection{
		{ID: 1, SourceID: 1, TargetID: 3},
		// Dangling target: skipped as an edge, still counted as stored.
		{ID: 2, SourceID: 1, TargetID: 99},
	}

	n := BuildPortfolioNetwork(projects, nil, connections)

	assert.Equal(t, 3, n.Stats.TotalProjects)
	assert.Equal(t, 2, n.Stats.PMPolicyProjects)
	assert.Equal(t, 1, n.Stats.UXDesignProjects)
	assert.Equal(t, 0, n.Stats.TotalPeople)
	assert.Equal(t, 2, n.Stats.TotalConnections)
	assert.Len(t, n.Edges, 1)
}

func TestBuildPortfolioNetworkEmpty(t *testing.T) {
	n := BuildPortfolioNetwork(nil, nil, nil)

	assert.NotNil(t, n.Nodes)
	assert.NotNil(t, n.Edges)
	assert.Zero(t, n.Stats.TotalProjects)
	assert.Zero(t, n.Stats.TotalPeople)
}

func TestBuildPortfolioNetworkNilYear(t *testing.T) {
	projects := []model.Project{{ID: 1, Title: "Undated", Category: model.CategoryPMPolicy}}

	n := BuildPortfolioNetwork(projects, nil, nil)

	require.Len(t, n.Nodes, 1)
	assert.Nil(t, n.Nodes[0].Year)
}
