package repositories

import (
	"context"
	"iter"

	"github.com/mangrove-registry/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActionLogRepository appends and reads audit entries. It has no update or
// delete methods; entries only disappear with their project.
type ActionLogRepository struct {
	db *gorm.DB
}

// NewActionLogRepository creates a new action log repository instance
func NewActionLogRepository(db *gorm.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ActionLogRepository) WithTx(tx *gorm.DB) *ActionLogRepository {
	return &ActionLogRepository{db: tx}
}

// Create appends an entry
func (r *ActionLogRepository) Create(ctx context.Context, entry *models.ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountByProjectID counts the entries recorded for a project
func (r *ActionLogRepository) CountByProjectID(ctx context.Context, projectID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ActionLog{}).Where("project_id = ?", projectID).Count(&count)
	return count, result.Error
}

// IterateByProjectID streams a project's entries newest first. Entries with
// equal timestamps fall back to insertion order, newest first.
func (r *ActionLogRepository) IterateByProjectID(ctx context.Context, projectID string) iter.Seq2[models.ActionLog, error] {
	return scanEach[models.ActionLog](func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.ActionLog{}).
			Where("project_id = ?", projectID).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
			Order("id DESC")
	})
}

// FindAll retrieves every entry, used by the data copy tool
func (r *ActionLogRepository) FindAll(ctx context.Context) ([]models.ActionLog, error) {
	var entries []models.ActionLog
	result := r.db.WithContext(ctx).Order("id").Find(&entries)
	return entries, result.Error
}
