// Package seed loads the fixed sample dataset, replacing whatever the
// tables currently hold. Each family is seeded in a single transaction.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

// PortfolioResult reports what PortfolioData inserted.
type PortfolioResult struct {
	Projects    int `json:"projects_created"`
	People      int `json:"people_created"`
	Outputs     int `json:"outputs_created"`
	Connections int `json:"connections_created"`
}

type seedProject struct {
	title        string
	description  string
	role         string
	category     string
	location     string
	startDate    time.Time
	endDate      *time.Time
	status       string
	tags         []string
	skills       []string
	tools        []string
	linkSlug     string
}

type seedPerson struct {
	projectIdx   int
	name         string
	role         string
	organization string
	email        string
}

type seedOutput struct {
	projectIdx  int
	title       string
	outputType  string
	description string
}

type seedProjectConnection struct {
	sourceIdx      int
	targetIdx      int
	connectionType string
	strength       float64
	description    string
}

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dp(year int, month time.Month, day int) *time.Time {
	t := d(year, month, day)
	return &t
}

var seedProjects = []seedProject{
	{
		title:       "Digital Transformation Strategy for Public Administration",
		description: "Led the development of a comprehensive digital transformation roadmap for a regional government, focusing on citizen services digitization and internal process optimization.",
		role:        "Senior Project Manager",
		category:    model.CategoryPMPolicy,
		location:    "Naples, Italy",
		startDate:   d(2023, 3, 1),
		endDate:     dp(2023, 12, 15),
		status:      model.StatusCompleted,
		tags:        []string{"Digital Transformation", "Public Administration", "Strategy", "Change Management"},
		skills:      []string{"Project Management", "Stakeholder Engagement", "Strategic Planning", "Digital Strategy"},
		tools:       []string{"Microsoft Project", "Miro", "Slack", "PowerBI"},
		linkSlug:    "digital-transformation",
	},
	{
		title:       "Healthcare Service Design for Patient Experience",
		description: "Redesigned the patient journey for a major hospital system, improving satisfaction scores by 40% and reducing wait times by 25%.",
		role:        "Lead UX Designer",
		category:    model.CategoryUXDesign,
		location:    "Milan, Italy",
		startDate:   d(2023, 6, 1),
		endDate:     dp(2024, 2, 28),
		status:      model.StatusCompleted,
		tags:        []string{"Healthcare", "Service Design", "Patient Experience", "Digital Health"},
		skills:      []string{"User Research", "Service Design", "Prototyping", "Design Thinking"},
		tools:       []string{"Figma", "Miro", "UserVoice", "Hotjar"},
		linkSlug:    "healthcare-ux",
	},
	{
		title:       "EU Policy Analysis on Digital Rights",
		description: "Conducted comprehensive analysis of emerging EU digital rights legislation and its impact on tech companies and citizens.",
		role:        "Policy Analyst",
		category:    model.CategoryPMPolicy,
		location:    "Brussels, Belgium",
		startDate:   d(2022, 9, 1),
		endDate:     dp(2023, 3, 30),
		status:      model.StatusCompleted,
		tags:        []string{"EU Policy", "Digital Rights", "Legislation", "Tech Regulation"},
		skills:      []string{"Policy Analysis", "Legal Research", "Stakeholder Mapping", "Report Writing"},
		tools:       []string{"Notion", "Zotero", "Excel", "PowerPoint"},
		linkSlug:    "eu-policy",
	},
	{
		title:       "Mobile Banking App Redesign",
		description: "Complete redesign of a mobile banking application, focusing on accessibility and user-friendly financial management tools.",
		role:        "Senior UX Designer",
		category:    model.CategoryUXDesign,
		location:    "Remote",
		startDate:   d(2022, 1, 15),
		endDate:     dp(2022, 8, 30),
		status:      model.StatusCompleted,
		tags:        []string{"Mobile App", "Banking", "Accessibility", "FinTech"},
		skills:      []string{"Mobile UX", "Accessibility Design", "User Testing", "Design Systems"},
		tools:       []string{"Figma", "Principle", "Maze", "Accessibility Insights"},
		linkSlug:    "banking-app",
	},
	{
		title:       "Smart City Initiative Program Management",
		description: "Managed a multi-stakeholder smart city program involving IoT deployment, data analytics, and citizen engagement platforms.",
		role:        "Program Manager",
		category:    model.CategoryPMPolicy,
		location:    "Turin, Italy",
		startDate:   d(2021, 5, 1),
		endDate:     dp(2022, 12, 31),
		status:      model.StatusCompleted,
		tags:        []string{"Smart City", "IoT", "Data Analytics", "Urban Planning"},
		skills:      []string{"Program Management", "IoT Strategy", "Data Governance", "Public-Private Partnerships"},
		tools:       []string{"Asana", "Tableau", "ArcGIS", "Teams"},
		linkSlug:    "smart-city",
	},
	{
		title:       "E-commerce Platform UX Optimization",
		description: "Optimized the user experience of a major e-commerce platform, resulting in 30% increase in conversion rates.",
		role:        "UX Consultant",
		category:    model.CategoryUXDesign,
		location:    "Rome, Italy",
		startDate:   d(2024, 1, 1),
		endDate:     nil,
		status:      model.StatusOngoing,
		tags:        []string{"E-commerce", "Conversion Optimization", "A/B Testing", "Analytics"},
		skills:      []string{"Conversion Rate Optimization", "A/B Testing", "Analytics", "User Journey Mapping"},
		tools:       []string{"Google Analytics", "Optimizely", "Hotjar", "Figma"},
		linkSlug:    "ecommerce-ux",
	},
}

var seedPeople = []seedPerson{
	{0, "Marco Rossi", "Client", "Regional Government of Campania", "marco.rossi@regione.campania.it"},
	{0, "Anna Bianchi", "Technical Lead", "TechConsult SRL", "anna.bianchi@techconsult.it"},
	{1, "Dr. Giuseppe Verde", "Medical Director", "Ospedale San Paolo", "g.verde@sanpaolo.it"},
	{1, "Laura Neri", "UX Researcher", "Freelance", "laura.neri@gmail.com"},
	{2, "Jean-Pierre Dubois", "Policy Advisor", "European Commission", "jean-pierre.dubois@ec.europa.eu"},
	{3, "Alessandro Conti", "Product Manager", "BancaDigitale", "a.conti@bancadigitale.it"},
	{4, "Francesca Lombardi", "Mayor", "City of Turin", "sindaco@comune.torino.it"},
	{5, "Roberto Ferrari", "CEO", "ShopItalia", "r.ferrari@shopitalia.com"},
}

var seedOutputs = []seedOutput{
	{0, "Digital Transformation Roadmap", "Strategy Document", "Comprehensive 5-year roadmap for digital transformation"},
	{0, "Stakeholder Engagement Plan", "Process Document", "Detailed plan for engaging all stakeholders"},
	{1, "Patient Journey Map", "Design Artifact", "Visual representation of the improved patient experience"},
	{1, "Service Design Prototype", "Prototype", "Interactive prototype of the new service touchpoints"},
	{2, "EU Digital Rights Analysis Report", "Research Report", "In-depth analysis of current and proposed legislation"},
	{3, "Mobile Banking Design System", "Design System", "Comprehensive design system for the mobile app"},
	{4, "Smart City Implementation Plan", "Implementation Guide", "Step-by-step implementation plan for smart city initiatives"},
	{5, "UX Audit Report", "Audit Report", "Comprehensive UX audit with recommendations"},
}

var seedProjectConnections = []seedProjectConnection{
	{0, 4, "domain", 0.8, "Both projects involve public sector digital transformation"},
	{1, 3, "skills", 0.7, "Both projects required extensive user research and design"},
	{2, 0, "domain", 0.6, "Both projects involve policy and regulatory considerations"},
	{3, 5, "skills", 0.9, "Both projects focused on UX optimization and conversion"},
	{1, 5, "skills", 0.8, "Both projects involved service design and user experience"},
}

// PortfolioData replaces the portfolio tables with the sample dataset.
func PortfolioData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*PortfolioResult, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"project_connections", "project_outputs", "project_people", "projects"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	now := time.Now().UTC()
	projectIDs := make([]int, len(seedProjects))
	for i, p := range seedProjects {
		err := tx.QueryRow(ctx, `
            INSERT INTO projects (title, description, role, category, location,
                start_date, end_date, status,
                photos_link, project_link, research_link, text_link,
                tags, skills, tools, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
            RETURNING id`,
			p.title, p.description, p.role, p.category, p.location,
			p.startDate, p.endDate, p.status,
			"https://example.com/photos/"+p.linkSlug,
			"https://example.com/projects/"+p.linkSlug,
			"https://example.com/research/"+p.linkSlug,
			"https://example.com/articles/"+p.linkSlug,
			model.StringList(p.tags), model.StringList(p.skills), model.StringList(p.tools),
			now, now,
		).Scan(&projectIDs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to seed project %q: %w", p.title, err)
		}
	}

	for _, person := range seedPeople {
		_, err := tx.Exec(ctx, `
            INSERT INTO project_people (project_id, name, role, organization, email, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			projectIDs[person.projectIdx], person.name, person.role, person.organization, person.email, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed person %q: %w", person.name, err)
		}
	}

	for _, o := range seedOutputs {
		url := "https://example.com/outputs/" + strings.ReplaceAll(strings.ToLower(o.title), " ", "-")
		_, err := tx.Exec(ctx, `
            INSERT INTO project_outputs (project_id, title, type, description, url, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			projectIDs[o.projectIdx], o.title, o.outputType, o.description, url, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed output %q: %w", o.title, err)
		}
	}

	for _, c := range seedProjectConnections {
		_, err := tx.Exec(ctx, `
            INSERT INTO project_connections (source_id, target_id, connection_type, strength, description, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			projectIDs[c.sourceIdx], projectIDs[c.targetIdx], c.connectionType, c.strength, c.description, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed project connection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result := &PortfolioResult{
		Projects:    len(seedProjects),
		People:      len(seedPeople),
		Outputs:     len(seedOutputs),
		Connections: len(seedProjectConnections),
	}
	logger.Info("Portfolio data seeded",
		zap.Int("projects", result.Projects),
		zap.Int("people", result.People),
		zap.Int("outputs", result.Outputs),
		zap.Int("connections", result.Connections),
	)
	return result, nil
}
