package repositories

import (
	"context"
	"iter"
	"time"

	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/models"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

// DB returns the database instance
func (r *ProjectRepository) DB() *gorm.DB {
	return r.db
}

// FindByID retrieves a project by its ID
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	return project, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// CompareAndSwapStatus moves a project from one status to another.
// It affects no rows when the stored status is no longer `from`.
func (r *ProjectRepository) CompareAndSwapStatus(ctx context.Context, id string, from, to models.ProjectStatus, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// UpdateFieldsInStatus applies field updates only while the project is in
// one of the given statuses.
func (r *ProjectRepository) UpdateFieldsInStatus(ctx context.Context, id string, updates map[string]interface{}, statuses []models.ProjectStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes a project together with its documents and action logs
func (r *ProjectRepository) Delete(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ActionLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDocument{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Project{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

// Exists checks if a project exists
func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetStatus returns only the current status of a project
func (r *ProjectRepository) GetStatus(ctx context.Context, id string) (models.ProjectStatus, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Select("status").First(&project, "id = ?", id).Error
	return project.Status, err
}

// CountByUserID counts projects created by a user
func (r *ProjectRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Project{}).Where("created_by = ?", userID).Count(&count)
	return count, result.Error
}

// IterateByStatus streams projects in the given status, newest first
func (r *ProjectRepository) IterateByStatus(ctx context.Context, status models.ProjectStatus) iter.Seq2[models.Project, error] {
	return scanEach[models.Project](func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Project{}).
			Where("status = ?", status).
			Order("created_at DESC").Order("id")
	})
}

// IterateByOwner streams projects created by a user, newest first
func (r *ProjectRepository) IterateByOwner(ctx context.Context, userID string) iter.Seq2[models.Project, error] {
	return scanEach[models.Project](func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Project{}).
			Where("created_by = ?", userID).
			Order("created_at DESC").Order("id")
	})
}

// FindWithPagination retrieves projects with pagination, filtering and sorting.
// SortBy and SortOrder must already be whitelisted by the caller.
func (r *ProjectRepository) FindWithPagination(ctx context.Context, filter dto.ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.Project{})

	if filter.OwnerID != "" {
		db = db.Where("created_by = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Species != "" {
		db = db.Where("species = ?", filter.Species)
	}

	// LOWER/LIKE instead of ILIKE so the query runs on sqlite too
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		db = db.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(organization_name) LIKE LOWER(?))", searchPattern, searchPattern)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	orderString := filter.SortBy + " " + filter.SortOrder
	if err := db.Order(orderString).Order("id").Limit(filter.PageSize).Offset(offset).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, totalCount, nil
}

// FindAll retrieves every project, used by the data copy tool
func (r *ProjectRepository) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	result := r.db.WithContext(ctx).Order("created_at").Find(&projects)
	return projects, result.Error
}
