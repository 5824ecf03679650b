package services

import (
	"context"
	"strings"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"gorm.io/gorm"
)

// Operation is a workflow operation on a project
type Operation string

const (
	OpSubmit             Operation = "submit"
	OpResubmit           Operation = "resubmit"
	OpApprove            Operation = "approve"
	OpReject             Operation = "reject"
	OpRequestFieldReview Operation = "request_field_review"
)

type transition struct {
	from   models.ProjectStatus
	to     models.ProjectStatus
	action models.ActionKind
}

// Approved and rejected projects have no outgoing transitions except
// rejected -> provisional through resubmission.
var transitions = map[Operation]transition{
	OpSubmit:             {from: models.ProjectStatusDraft, to: models.ProjectStatusProvisional, action: models.ActionSubmit},
	OpResubmit:           {from: models.ProjectStatusRejected, to: models.ProjectStatusProvisional, action: models.ActionResubmit},
	OpApprove:            {from: models.ProjectStatusProvisional, to: models.ProjectStatusApproved, action: models.ActionApprove},
	OpReject:             {from: models.ProjectStatusProvisional, to: models.ProjectStatusRejected, action: models.ActionReject},
	OpRequestFieldReview: {from: models.ProjectStatusDraft, to: models.ProjectStatusDraft, action: models.ActionFieldReviewRequested},
}

var editableStatuses = []models.ProjectStatus{models.ProjectStatusDraft, models.ProjectStatusRejected}

// CarbonFactor returns the fixed carbon multiplier for a species
func CarbonFactor(species models.Species) float64 {
	return species.CarbonFactor()
}

// LifecycleService owns the project status field. Every transition updates
// the status and appends one action log entry in a single transaction.
type LifecycleService struct {
	db       *gorm.DB
	projects *repositories.ProjectRepository
	audit    *AuditService
	now      Clock
}

// NewLifecycleService creates a new lifecycle service instance
func NewLifecycleService(db *gorm.DB, audit *AuditService, now Clock) *LifecycleService {
	return &LifecycleService{
		db:       db,
		projects: repositories.NewProjectRepository(db),
		audit:    audit,
		now:      now,
	}
}

// Submit sends a draft project for verification
func (s *LifecycleService) Submit(ctx context.Context, actor Actor, projectID string) (models.Project, error) {
	return s.apply(ctx, actor, projectID, OpSubmit, "")
}

// Resubmit sends a rejected project back for verification
func (s *LifecycleService) Resubmit(ctx context.Context, actor Actor, projectID string) (models.Project, error) {
	return s.apply(ctx, actor, projectID, OpResubmit, "")
}

// Approve marks a provisional project as approved
func (s *LifecycleService) Approve(ctx context.Context, actor Actor, projectID, notes string) (models.Project, error) {
	return s.apply(ctx, actor, projectID, OpApprove, notes)
}

// Reject marks a provisional project as rejected. A reason is required and
// is stored as the entry's notes.
func (s *LifecycleService) Reject(ctx context.Context, actor Actor, projectID, reason string) (models.Project, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Project{}, &ValidationError{Field: "reason", Message: "is required to reject a project"}
	}
	return s.apply(ctx, actor, projectID, OpReject, reason)
}

// RequestFieldReview records a field review request on a draft project.
// The status does not change.
func (s *LifecycleService) RequestFieldReview(ctx context.Context, actor Actor, projectID, notes string) (models.Project, error) {
	return s.apply(ctx, actor, projectID, OpRequestFieldReview, notes)
}

func (s *LifecycleService) apply(ctx context.Context, actor Actor, projectID string, op Operation, notes string) (models.Project, error) {
	rule := transitions[op]
	var project models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)

		current, err := projects.FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if current.Status != rule.from {
			return &IllegalTransitionError{ProjectID: projectID, From: current.Status, Operation: op}
		}
		if op == OpSubmit || op == OpResubmit {
			if err := validateForSubmission(current); err != nil {
				return err
			}
		}

		// The status check above may be stale under concurrent requests;
		// the conditional update is what decides the winner.
		at := s.now()
		swapped, err := projects.CompareAndSwapStatus(ctx, projectID, rule.from, rule.to, at)
		if err != nil {
			return err
		}
		if swapped == 0 {
			status, err := projects.GetStatus(ctx, projectID)
			if err != nil {
				return err
			}
			return &IllegalTransitionError{ProjectID: projectID, From: status, Operation: op}
		}

		if _, err := s.audit.recordTx(ctx, tx, projectID, actor, rule.action, notes); err != nil {
			return err
		}

		current.Status = rule.to
		current.UpdatedAt = at
		project = current
		return nil
	})
	if err != nil {
		return models.Project{}, translate(string(op), "project", projectID, err)
	}
	return project, nil
}

// Edit replaces a project's editable fields. Only draft and rejected
// projects may be edited; the status is never changed here. Edits are not
// written to the action log, so the actor is not stored.
func (s *LifecycleService) Edit(ctx context.Context, actor Actor, projectID string, fields ProjectFields) (models.Project, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return models.Project{}, err
	}

	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)

		updates := fields.updates()
		updates["updated_at"] = s.now()
		changed, err := projects.UpdateFieldsInStatus(ctx, projectID, updates, editableStatuses)
		if err != nil {
			return err
		}
		if changed == 0 {
			status, err := projects.GetStatus(ctx, projectID)
			if err != nil {
				return err
			}
			return &InvalidStateError{ProjectID: projectID, Status: status}
		}

		project, err = projects.FindByID(ctx, projectID)
		return err
	})
	if err != nil {
		return models.Project{}, translate("edit", "project", projectID, err)
	}
	return project, nil
}

func validateForSubmission(p models.Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if strings.TrimSpace(p.Location) == "" {
		return &ValidationError{Field: "location", Message: "must not be empty"}
	}
	if p.SeedlingCount < 0 {
		return &ValidationError{Field: "seedlingCount", Message: "must not be negative"}
	}
	return nil
}
