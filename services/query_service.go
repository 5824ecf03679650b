package services

import (
	"context"
	"iter"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"gorm.io/gorm"
)

// QueryService exposes read-only project views. Each view re-runs its query
// every time it is ranged over.
type QueryService struct {
	projects *repositories.ProjectRepository
}

// NewQueryService creates a new query service instance
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{projects: repositories.NewProjectRepository(db)}
}

// Approved lists publicly visible projects
func (s *QueryService) Approved(ctx context.Context) iter.Seq2[models.Project, error] {
	return wrapProjects("list approved projects", s.projects.IterateByStatus(ctx, models.ProjectStatusApproved))
}

// OwnedBy lists the projects a user created
func (s *QueryService) OwnedBy(ctx context.Context, userID string) iter.Seq2[models.Project, error] {
	return wrapProjects("list owned projects", s.projects.IterateByOwner(ctx, userID))
}

// PendingVerification lists projects awaiting a verifier decision
func (s *QueryService) PendingVerification(ctx context.Context) iter.Seq2[models.Project, error] {
	return wrapProjects("list verification queue", s.projects.IterateByStatus(ctx, models.ProjectStatusProvisional))
}

func wrapProjects(op string, seq iter.Seq2[models.Project, error]) iter.Seq2[models.Project, error] {
	return func(yield func(models.Project, error) bool) {
		for project, err := range seq {
			if err != nil {
				yield(project, &StorageError{Op: op, Err: err})
				return
			}
			if !yield(project, nil) {
				return
			}
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
