package model

import "time"

// Project categories. The stored strings are part of the API contract.
const (
	CategoryPMPolicy = "PM_Policy"
	CategoryUXDesign = "UX_Design"
)

// Project statuses.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// ValidCategory reports whether c is one of the two project categories.
func ValidCategory(c string) bool {
	return c == CategoryPMPolicy || c == CategoryUXDesign
}

// Project is one portfolio project. StartDate and EndDate are nullable:
// ongoing projects have no end date, and undated projects sort last.
type Project struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Role         string     `json:"role"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	StartDate    *Date      `json:"start_date"`
	EndDate      *Date      `json:"end_date"`
	Status       string     `json:"status"`
	PhotosLink   string     `json:"photos_link"`
	ProjectLink  string     `json:"project_link"`
	ResearchLink string     `json:"research_link"`
	TextLink     string     `json:"text_link"`
	Tags         StringList `json:"tags"`
	Skills       StringList `json:"skills"`
	Tools        StringList `json:"tools"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PeopleCount  int        `json:"people_count"`
	OutputsCount int        `json:"outputs_count"`
}

// ProjectPerson is one participation of a person in a project. The same
// human collaborating on two projects appears as two rows.
type ProjectPerson struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Organization string    `json:"organization"`
	Email        string    `json:"email"`
	LinkedIn     string    `json:"linkedin"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProjectOutput is a deliverable attached to a project.
type ProjectOutput struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"-"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	FilePath    string    `json:"file_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectConnection is a stored directed relation between two projects.
type ProjectConnection struct {
	ID             int       `json:"id"`
	SourceID       int       `json:"source_id"`
	TargetID       int       `json:"target_id"`
	ConnectionType string    `json:"connection_type"`
	Strength       float64   `json:"strength"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// CategoryCount is one bucket of the /api/categories payload.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TimelineEntry is the minimal projection of a dated project for
// /api/timeline.
type TimelineEntry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Role      string `json:"role"`
	StartDate Date   `json:"start_date"`
	EndDate   *Date  `json:"end_date"`
	Location  string `json:"location"`
	Status    string `json:"status"`
}

// PortfolioStats is the /api/stats payload. Dates are nil and YearsActive 0
// when no project carries a start date.
type PortfolioStats struct {
	TotalProjects       int   `json:"total_projects"`
	CompletedProjects   int   `json:"completed_projects"`
	OngoingProjects     int   `json:"ongoing_projects"`
	UniqueLocations     int   `json:"unique_locations"`
	UniqueCollaborators int   `json:"unique_collaborators"`
	FirstProjectDate    *Date `json:"first_project_date"`
	LastProjectDate     *Date `json:"last_project_date"`
	YearsActive         int   `json:"years_active"`
}
