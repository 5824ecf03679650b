package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/lib/blobstore"
	"github.com/mangrove-registry/middleware"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the v1 handlers need
type Dependencies struct {
	DB             *gorm.DB
	Auth           *services.AuthService
	Projects       *services.ProjectService
	Lifecycle      *services.LifecycleService
	Documents      *services.DocumentService
	Audit          *services.AuditService
	Queries        *services.QueryService
	Blobs          blobstore.Store
	MaxUploadBytes int64
	SecureCookie   bool
	Logger         *zap.Logger
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies) {
	authController := NewAuthController(deps.Auth, deps.Logger, deps.SecureCookie)
	projectController := NewProjectController(deps.Projects, deps.Lifecycle, deps.Queries, deps.Blobs, deps.Logger)
	workflowController := NewWorkflowController(projectController, deps.Lifecycle, deps.Queries, deps.Audit, deps.Logger)
	documentController := NewDocumentController(projectController, deps.Documents, deps.Blobs, deps.MaxUploadBytes, deps.Logger)

	requireAuth := middleware.AuthMiddleware(deps.Auth)

	// Health check endpoint
	router.GET("/health", HealthCheck(deps.DB))

	// Auth endpoints
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", authController.Logout)
		authGroup.GET("/me", requireAuth, authController.GetCurrentUser)
	}

	// The approved registry is public
	router.GET("/projects", projectController.ListApproved)

	projectGroup := router.Group("/projects")
	projectGroup.Use(requireAuth)
	{
		projectGroup.GET("/mine", projectController.ListMine)
		projectGroup.POST("", projectController.CreateProject)
		projectGroup.GET("/:id", projectController.GetProject)
		projectGroup.PUT("/:id", projectController.UpdateProject)
		projectGroup.DELETE("/:id", projectController.DeleteProject)

		projectGroup.POST("/:id/submit", workflowController.Submit)
		projectGroup.POST("/:id/resubmit", workflowController.Resubmit)
		projectGroup.POST("/:id/request-field-review", workflowController.RequestFieldReview)
		projectGroup.GET("/:id/history", workflowController.History)

		projectGroup.GET("/:id/documents", documentController.ListDocuments)
		projectGroup.POST("/:id/documents", documentController.UploadDocument)
		projectGroup.GET("/:id/documents/:docId/download", documentController.DownloadDocument)
	}

	// Verification endpoints - verifiers and admins only
	verifyGroup := router.Group("/verify")
	verifyGroup.Use(requireAuth, middleware.VerifierMiddleware())
	{
		verifyGroup.GET("/queue", workflowController.Queue)
		verifyGroup.POST("/:id/approve", workflowController.Approve)
		verifyGroup.POST("/:id/reject", workflowController.Reject)
	}

	// Admin endpoints - protected by AdminMiddleware
	adminGroup := router.Group("/admin")
	adminGroup.Use(requireAuth, middleware.AdminMiddleware())
	{
		adminGroup.GET("/projects", projectController.ListAll)
		adminGroup.POST("/users", authController.CreateUser)
		adminGroup.DELETE("/users/:id", authController.DeleteUser)
	}
}
