package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/lib/blobstore"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
)

// ProjectController handles project-related requests
type ProjectController struct {
	projectService   *services.ProjectService
	lifecycleService *services.LifecycleService
	queryService     *services.QueryService
	blobs            blobstore.Store
	logger           *zap.Logger
}

// NewProjectController creates a new project controller
func NewProjectController(projects *services.ProjectService, lifecycle *services.LifecycleService, queries *services.QueryService, blobs blobstore.Store, logger *zap.Logger) *ProjectController {
	return &ProjectController{
		projectService:   projects,
		lifecycleService: lifecycle,
		queryService:     queries,
		blobs:            blobs,
		logger:           logger,
	}
}

// ListApproved returns the public registry of approved projects
func (pc *ProjectController) ListApproved(c *gin.Context) {
	projects, err := services.Collect(pc.queryService.Approved(c.Request.Context()))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	pc.respondProjects(c, projects)
}

// ListMine returns the projects created by the current user
func (pc *ProjectController) ListMine(c *gin.Context) {
	actor := currentActor(c)
	projects, err := services.Collect(pc.queryService.OwnedBy(c.Request.Context(), actor.ID()))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	pc.respondProjects(c, projects)
}

func (pc *ProjectController) respondProjects(c *gin.Context, projects []models.Project) {
	response := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		response = append(response, dto.NewProjectResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"projects": response,
		"count":    len(response),
	})
}

// CreateProject creates a new draft project owned by the current user
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	project, err := pc.projectService.CreateProject(c.Request.Context(), currentActor(c), services.FieldsFromRequest(req))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"project": dto.NewProjectResponse(project),
	})
}

// GetProject returns a project with its documents and history
func (pc *ProjectController) GetProject(c *gin.Context) {
	if _, ok := pc.loadProject(c, canView); !ok {
		return
	}

	detail, err := pc.projectService.GetProjectDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   detail,
	})
}

// UpdateProject edits a draft or rejected project
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if _, ok := pc.loadProject(c, canManage); !ok {
		return
	}

	project, err := pc.lifecycleService.Edit(c.Request.Context(), currentActor(c), c.Param("id"), services.FieldsFromRequest(req))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"project": dto.NewProjectResponse(project),
	})
}

// DeleteProject removes a project, its documents and its history. Stored
// files are released afterwards; failures there are logged only.
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	if _, ok := pc.loadProject(c, canManage); !ok {
		return
	}

	handles, err := pc.projectService.DeleteProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	for _, handle := range handles {
		if err := pc.blobs.Delete(c.Request.Context(), handle); err != nil {
			pc.logger.Warn("failed to release document file",
				zap.String("projectId", c.Param("id")),
				zap.String("file", handle),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted successfully",
	})
}

// ListAll is the administrator listing with filters, search and pagination
func (pc *ProjectController) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	filter := dto.ProjectFilter{
		OwnerID:   c.Query("owner"),
		Status:    models.ProjectStatus(c.Query("status")),
		Species:   models.Species(c.Query("species")),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "created_at"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := pc.projectService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}

// loadProject fetches the project named by the :id parameter and checks the
// current user's access. It writes the error response itself.
func (pc *ProjectController) loadProject(c *gin.Context, allowed func(services.Actor, models.Project) bool) (models.Project, bool) {
	project, err := pc.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return models.Project{}, false
	}
	if !allowed(currentActor(c), project) {
		respondError(c, pc.logger, errForbidden)
		return models.Project{}, false
	}
	return project, true
}
