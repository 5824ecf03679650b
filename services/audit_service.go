package services

import (
	"context"
	"iter"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"gorm.io/gorm"
)

// AuditService appends to and reads a project's action log
type AuditService struct {
	db       *gorm.DB
	projects *repositories.ProjectRepository
	logs     *repositories.ActionLogRepository
	now      Clock
}

// NewAuditService creates a new audit service instance
func NewAuditService(db *gorm.DB, now Clock) *AuditService {
	return &AuditService{
		db:       db,
		projects: repositories.NewProjectRepository(db),
		logs:     repositories.NewActionLogRepository(db),
		now:      now,
	}
}

// Record appends an entry for a project and returns its id
func (s *AuditService) Record(ctx context.Context, projectID string, actor Actor, kind models.ActionKind, notes string) (uint, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.projects.WithTx(tx).Exists(ctx, projectID)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "project", ID: projectID}
		}
		entry, err := s.recordTx(ctx, tx, projectID, actor, kind, notes)
		if err != nil {
			return err
		}
		id = entry.ID
		return nil
	})
	return id, translate("record action", "project", projectID, err)
}

// recordTx appends an entry inside the caller's transaction
func (s *AuditService) recordTx(ctx context.Context, tx *gorm.DB, projectID string, actor Actor, kind models.ActionKind, notes string) (models.ActionLog, error) {
	if !kind.Valid() {
		return models.ActionLog{}, &ValidationError{Field: "action", Message: "is not a known action kind"}
	}
	entry := models.ActionLog{
		ProjectID:  projectID,
		UserID:     actor.UserID,
		ActionType: kind,
		Notes:      notes,
		Timestamp:  s.now(),
	}
	if err := s.logs.WithTx(tx).Create(ctx, &entry); err != nil {
		return models.ActionLog{}, err
	}
	return entry, nil
}

// History streams a project's entries newest first. An unknown project
// yields a single NotFoundError.
func (s *AuditService) History(ctx context.Context, projectID string) iter.Seq2[models.ActionLog, error] {
	return func(yield func(models.ActionLog, error) bool) {
		if err := requireProject(ctx, s.projects, "read history", projectID); err != nil {
			yield(models.ActionLog{}, err)
			return
		}
		for entry, err := range s.logs.IterateByProjectID(ctx, projectID) {
			if err != nil {
				yield(entry, translate("read history", "project", projectID, err))
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Count returns how many entries a project has
func (s *AuditService) Count(ctx context.Context, projectID string) (int64, error) {
	if err := requireProject(ctx, s.projects, "count history", projectID); err != nil {
		return 0, err
	}
	count, err := s.logs.CountByProjectID(ctx, projectID)
	return count, translate("count history", "project", projectID, err)
}

// requireProject returns a NotFoundError when the project does not exist
func requireProject(ctx context.Context, projects *repositories.ProjectRepository, op, projectID string) error {
	exists, err := projects.Exists(ctx, projectID)
	if err == nil && !exists {
		err = gorm.ErrRecordNotFound
	}
	return translate(op, "project", projectID, err)
}
