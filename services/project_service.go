package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"github.com/mangrove-registry/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	coordinatePlaces = 6
	maxTextLength    = 255
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// ProjectFields are the user-editable attributes of a project
type ProjectFields struct {
	Title            string
	Description      string
	OrganizationName *string
	Location         string
	Latitude         decimal.NullDecimal
	Longitude        decimal.NullDecimal
	Species          models.Species
	SeedlingCount    int
	Notes            string
}

// FieldsFromRequest maps the HTTP payload to service fields
func FieldsFromRequest(req dto.ProjectRequest) ProjectFields {
	return ProjectFields{
		Title:            req.Title,
		Description:      req.Description,
		OrganizationName: req.OrganizationName,
		Location:         req.Location,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Species:          req.Species,
		SeedlingCount:    req.SeedlingCount,
		Notes:            req.Notes,
	}
}

func (f ProjectFields) normalized() ProjectFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	if f.OrganizationName != nil {
		name := strings.TrimSpace(*f.OrganizationName)
		if name == "" {
			f.OrganizationName = nil
		} else {
			f.OrganizationName = &name
		}
	}
	if f.Latitude.Valid {
		f.Latitude.Decimal = f.Latitude.Decimal.Round(coordinatePlaces)
	}
	if f.Longitude.Valid {
		f.Longitude.Decimal = f.Longitude.Decimal.Round(coordinatePlaces)
	}
	return f
}

// Validate checks the rules every stored project must satisfy
func (f ProjectFields) Validate() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if f.Location == "" {
		return &ValidationError{Field: "location", Message: "must not be empty"}
	}
	lengths := []struct {
		field string
		value string
	}{
		{"title", f.Title},
		{"location", f.Location},
		{"organizationName", utils.StringValue(f.OrganizationName, "")},
	}
	for _, l := range lengths {
		if utf8.RuneCountInString(l.value) > maxTextLength {
			return &ValidationError{Field: l.field, Message: "must be at most 255 characters"}
		}
	}
	if !f.Species.Valid() {
		return &ValidationError{Field: "species", Message: "must be one of Avicennia, Rhizophora, Sonneratia"}
	}
	if f.SeedlingCount < 0 {
		return &ValidationError{Field: "seedlingCount", Message: "must not be negative"}
	}
	if f.Latitude.Valid != f.Longitude.Valid {
		return &ValidationError{Field: "coordinates", Message: "latitude and longitude must be given together"}
	}
	if f.Latitude.Valid && f.Latitude.Decimal.Abs().GreaterThan(maxLatitude) {
		return &ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if f.Longitude.Valid && f.Longitude.Decimal.Abs().GreaterThan(maxLongitude) {
		return &ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	return nil
}

func (f ProjectFields) updates() map[string]interface{} {
	return map[string]interface{}{
		"title":             f.Title,
		"description":       f.Description,
		"organization_name": f.OrganizationName,
		"location":          f.Location,
		"latitude":          f.Latitude,
		"longitude":         f.Longitude,
		"species":           f.Species,
		"seedling_count":    f.SeedlingCount,
		"notes":             f.Notes,
	}
}

// ProjectService handles project creation, lookup, listing and deletion
type ProjectService struct {
	db        *gorm.DB
	projects  *repositories.ProjectRepository
	documents *DocumentService
	audit     *AuditService
	now       Clock
}

// NewProjectService creates a new project service instance
func NewProjectService(db *gorm.DB, documents *DocumentService, audit *AuditService, now Clock) *ProjectService {
	return &ProjectService{
		db:        db,
		projects:  repositories.NewProjectRepository(db),
		documents: documents,
		audit:     audit,
		now:       now,
	}
}

// CreateProject stores a new draft project owned by the actor
func (s *ProjectService) CreateProject(ctx context.Context, actor Actor, fields ProjectFields) (models.Project, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return models.Project{}, err
	}

	now := s.now()
	project := models.Project{
		Title:            fields.Title,
		Description:      fields.Description,
		OrganizationName: fields.OrganizationName,
		Location:         fields.Location,
		Latitude:         fields.Latitude,
		Longitude:        fields.Longitude,
		Species:          fields.Species,
		SeedlingCount:    fields.SeedlingCount,
		Notes:            fields.Notes,
		Status:           models.ProjectStatusDraft,
		CreatedByID:      actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.projects.Create(ctx, &project); err != nil {
		return models.Project{}, &StorageError{Op: "create project", Err: err}
	}
	return project, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (models.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return models.Project{}, translate("get project", "project", projectID, err)
	}
	return project, nil
}

// GetProjectDetail retrieves a project with its documents and history
func (s *ProjectService) GetProjectDetail(ctx context.Context, projectID string) (dto.ProjectDetailResponse, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return dto.ProjectDetailResponse{}, err
	}

	detail := dto.ProjectDetailResponse{
		Project:      dto.NewProjectResponse(project),
		CarbonFactor: CarbonFactor(project.Species),
		Documents:    make([]dto.DocumentResponse, 0),
		History:      make([]dto.ActionLogResponse, 0),
	}

	for doc, err := range s.documents.List(ctx, projectID) {
		if err != nil {
			return dto.ProjectDetailResponse{}, err
		}
		detail.Documents = append(detail.Documents, dto.NewDocumentResponse(doc))
	}
	detail.DocumentCount = int64(len(detail.Documents))

	for entry, err := range s.audit.History(ctx, projectID) {
		if err != nil {
			return dto.ProjectDetailResponse{}, err
		}
		detail.History = append(detail.History, dto.NewActionLogResponse(entry))
	}

	return detail, nil
}

// DeleteProject removes a project with its documents and history. It
// returns the blob handles of the removed documents so the caller can
// release the stored files.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) ([]string, error) {
	var handles []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		handles, err = repositories.NewDocumentRepository(tx).FileHandlesByProjectID(ctx, projectID)
		if err != nil {
			return err
		}
		deleted, err := s.projects.WithTx(tx).Delete(ctx, projectID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate("delete project", "project", projectID, err)
	}
	return handles, nil
}

// ListProjects retrieves projects with pagination, filtering and sorting
func (s *ProjectService) ListProjects(ctx context.Context, filter dto.ProjectFilter) (dto.ProjectListResponse, error) {
	var response dto.ProjectListResponse

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	if filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		filter.SortOrder = "desc"
	}

	// Valid sort columns (whitelist approach for security)
	validSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !validSortColumns[filter.SortBy] {
		filter.SortBy = "created_at"
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return response, &ValidationError{Field: "status", Message: "is not a known status"}
	}
	if filter.Species != "" && !filter.Species.Valid() {
		return response, &ValidationError{Field: "species", Message: "is not a known species"}
	}

	projects, totalCount, err := s.projects.FindWithPagination(ctx, filter)
	if err != nil {
		return response, &StorageError{Op: "list projects", Err: err}
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	response = dto.ProjectListResponse{
		Projects:   projects,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}
	return response, nil
}
