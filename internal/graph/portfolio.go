package graph

import (
	"fmt"

	"github.com/archivalatlas/atlas/internal/model"
)

// PortfolioNetwork is the /api/network payload.
type PortfolioNetwork struct {
	Nodes []Node       `json:"nodes"`
	Edges []Edge       `json:"edges"`
	Stats NetworkStats `json:"stats"`
}

// NetworkStats summarizes the whole portfolio alongside the graph. Unlike
// the node list, TotalPeople counts distinct person names: the same human on
// two projects contributes two person nodes but one to the stat.
type NetworkStats struct {
	TotalProjects     int `json:"total_projects"`
	PMPolicyProjects  int `json:"pm_policy_projects"`
	UXDesignProjects  int `json:"ux_design_projects"`
	TotalPeople       int `json:"total_people"`
	TotalConnections  int `json:"total_connections"`
}

type collaborationData struct {
	Role string `json:"role"`
}

// BuildPortfolioNetwork projects the whole project set, their people and the
// stored project connections into a node/edge graph.
//
// People are emitted per participation: a person on several projects gets a
// node for each, keyed by the person row's own id. Stored connections become
// edges when both projects resolve; each (project, person) pair additionally
// gets a synthetic collaboration edge with the fixed CollaborationStrength.
func BuildPortfolioNetwork(projects []model.Project, people map[int][]model.ProjectPerson, connections []model.ProjectConnection) *PortfolioNetwork {
	n := &PortfolioNetwork{
		Nodes: []Node{},
		Edges: []Edge{},
	}

	known := make(map[int]bool, len(projects))
	names := make(map[string]bool)

	for i := range projects {
		p := &projects[i]
		known[p.ID] = true

		var year *int
		if p.StartDate != nil {
			y := p.StartDate.Year()
			year = &y
		}
		n.Nodes = append(n.Nodes, Node{
			ID:       projectNodeID(p.ID),
			Label:    p.Title,
			Type:     NodeTypeProject,
			Category: p.Category,
			Role:     p.Role,
			Location: p.Location,
			Year:     year,
			Status:   p.Status,
			Data:     p,
		})

		switch p.Category {
		case model.CategoryPMPolicy:
			n.Stats.PMPolicyProjects++
		case model.CategoryUXDesign:
			n.Stats.UXDesignProjects++
		}

		for j := range people[p.ID] {
			person := &people[p.ID][j]
			names[person.Name] = true
			n.Nodes = append(n.Nodes, Node{
				ID:           personNodeID(person.ID),
				Label:        person.Name,
				Type:         NodeTypePerson,
				Role:         person.Role,
				Organization: person.Organization,
				Data:         person,
			})
		}
	}

	for i := range connections {
		conn := &connections[i]
		if !known[conn.SourceID] || !known[conn.TargetID] {
			continue
		}
		n.Edges = append(n.Edges, Edge{
			Source:   projectNodeID(conn.SourceID),
			Target:   projectNodeID(conn.TargetID),
			Type:     conn.ConnectionType,
			Strength: conn.Strength,
			Data:     conn,
		})
	}

	for _, p := range projects {
		for _, person := range people[p.ID] {
			n.Edges = append(n.Edges, Edge{
				Source:   projectNodeID(p.ID),
				Target:   personNodeID(person.ID),
				Type:     EdgeTypeCollaboration,
				Strength: CollaborationStrength,
				Data:     collaborationData{Role: person.Role},
			})
		}
	}

	n.Stats.TotalProjects = len(projects)
	n.Stats.TotalPeople = len(names)
	// The stat reports stored rows, including any skipped as unresolvable.
	n.Stats.TotalConnections = len(connections)

	return n
}

func projectNodeID(id int) string { return fmt.Sprintf("project-%d", id) }
func personNodeID(id int) string  { return fmt.Sprintf("person-%d", id) }
