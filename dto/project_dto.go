package dto

import (
	"time"

	"github.com/mangrove-registry/models"
	"github.com/shopspring/decimal"
)

// ProjectFilter represents filter criteria for the paginated project listing
type ProjectFilter struct {
	OwnerID   string
	Status    models.ProjectStatus
	Species   models.Species
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ProjectListResponse represents paginated project list response
type ProjectListResponse struct {
	Projects   []models.Project `json:"projects"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// ProjectRequest is the payload for creating or editing a project.
// Field rules are enforced by the service layer, not by binding tags.
type ProjectRequest struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	OrganizationName *string             `json:"organizationName"`
	Location         string              `json:"location"`
	Latitude         decimal.NullDecimal `json:"latitude"`
	Longitude        decimal.NullDecimal `json:"longitude"`
	Species          models.Species      `json:"species"`
	SeedlingCount    int                 `json:"seedlingCount"`
	Notes            string              `json:"notes"`
}

// ActionRequest carries optional notes for a workflow action
type ActionRequest struct {
	Notes string `json:"notes"`
}

// RejectRequest carries the verifier's rejection reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ProjectResponse represents the standard response format for a project
type ProjectResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	OrganizationName *string              `json:"organizationName"`
	Location         string               `json:"location"`
	Latitude         decimal.NullDecimal  `json:"latitude"`
	Longitude        decimal.NullDecimal  `json:"longitude"`
	Species          models.Species       `json:"species"`
	SeedlingCount    int                  `json:"seedlingCount"`
	Notes            string               `json:"notes"`
	Status           models.ProjectStatus `json:"status"`
	StatusLabel      string               `json:"statusLabel"`
	CreatedBy        *string              `json:"createdBy"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// NewProjectResponse maps a project model to its response shape
func NewProjectResponse(p models.Project) ProjectResponse {
	return ProjectResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		OrganizationName: p.OrganizationName,
		Location:         p.Location,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Species:          p.Species,
		SeedlingCount:    p.SeedlingCount,
		Notes:            p.Notes,
		Status:           p.Status,
		StatusLabel:      p.Status.Label(),
		CreatedBy:        p.CreatedByID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ProjectDetailResponse is the project page: the project, its documents and
// its audit trail.
type ProjectDetailResponse struct {
	Project       ProjectResponse     `json:"project"`
	CarbonFactor  float64             `json:"carbonFactor"`
	DocumentCount int64               `json:"documentCount"`
	Documents     []DocumentResponse  `json:"documents"`
	History       []ActionLogResponse `json:"history"`
}
