package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
)

// WorkflowController exposes the review workflow: submission by owners and
// decisions by verifiers.
type WorkflowController struct {
	projects  *ProjectController
	lifecycle *services.LifecycleService
	queries   *services.QueryService
	audit     *services.AuditService
	logger    *zap.Logger
}

// NewWorkflowController creates a new workflow controller
func NewWorkflowController(projects *ProjectController, lifecycle *services.LifecycleService, queries *services.QueryService, audit *services.AuditService, logger *zap.Logger) *WorkflowController {
	return &WorkflowController{
		projects:  projects,
		lifecycle: lifecycle,
		queries:   queries,
		audit:     audit,
		logger:    logger,
	}
}

type ownerAction func(ctx context.Context, actor services.Actor, projectID, notes string) (models.Project, error)

// Submit moves a draft into the verification queue
func (w *WorkflowController) Submit(c *gin.Context) {
	w.ownerTransition(c, func(ctx context.Context, actor services.Actor, id, _ string) (models.Project, error) {
		return w.lifecycle.Submit(ctx, actor, id)
	})
}

// Resubmit sends a rejected project back for verification
func (w *WorkflowController) Resubmit(c *gin.Context) {
	w.ownerTransition(c, func(ctx context.Context, actor services.Actor, id, _ string) (models.Project, error) {
		return w.lifecycle.Resubmit(ctx, actor, id)
	})
}

// RequestFieldReview records a request for an on-site review of a draft
func (w *WorkflowController) RequestFieldReview(c *gin.Context) {
	w.ownerTransition(c, w.lifecycle.RequestFieldReview)
}

func (w *WorkflowController) ownerTransition(c *gin.Context, action ownerAction) {
	var req dto.ActionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if _, ok := w.projects.loadProject(c, canManage); !ok {
		return
	}
	project, err := action(c.Request.Context(), currentActor(c), c.Param("id"), req.Notes)
	w.respondTransition(c, project, err)
}

// Queue lists projects awaiting a verification decision
func (w *WorkflowController) Queue(c *gin.Context) {
	projects, err := services.Collect(w.queries.PendingVerification(c.Request.Context()))
	if err != nil {
		respondError(c, w.logger, err)
		return
	}
	w.projects.respondProjects(c, projects)
}

// Approve accepts a provisional project
func (w *WorkflowController) Approve(c *gin.Context) {
	var req dto.ActionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	project, err := w.lifecycle.Approve(c.Request.Context(), currentActor(c), c.Param("id"), req.Notes)
	w.respondTransition(c, project, err)
}

// Reject returns a provisional project to its owner with a reason
func (w *WorkflowController) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	project, err := w.lifecycle.Reject(c.Request.Context(), currentActor(c), c.Param("id"), req.Reason)
	w.respondTransition(c, project, err)
}

// History returns the project's audit trail, newest first
func (w *WorkflowController) History(c *gin.Context) {
	if _, ok := w.projects.loadProject(c, canView); !ok {
		return
	}

	history := make([]dto.ActionLogResponse, 0)
	for entry, err := range w.audit.History(c.Request.Context(), c.Param("id")) {
		if err != nil {
			respondError(c, w.logger, err)
			return
		}
		history = append(history, dto.NewActionLogResponse(entry))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"history": history,
		"count":   len(history),
	})
}

func (w *WorkflowController) respondTransition(c *gin.Context, project models.Project, err error) {
	if err != nil {
		respondError(c, w.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"project": dto.NewProjectResponse(project),
	})
}

// bindOptionalJSON accepts an empty body for actions whose payload is optional
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return false
	}
	return true
}
