package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/middleware"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/services"
)

// currentActor reads the identity set by AuthMiddleware
func currentActor(c *gin.Context) services.Actor {
	userID := c.GetString(middleware.ContextUserID)
	role := models.Role(c.GetString(middleware.ContextRole))
	if userID == "" {
		return services.Actor{Role: role}
	}
	return services.UserActor(userID, role)
}

// canManage reports whether the actor may edit, submit or delete a project
func canManage(actor services.Actor, project models.Project) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.UserID != nil && project.CreatedByID != nil && *project.CreatedByID == *actor.UserID
}

// canView reports whether the actor may read a project and its documents
func canView(actor services.Actor, project models.Project) bool {
	if project.Status == models.ProjectStatusApproved {
		return true
	}
	if actor.Role == models.RoleVerifier {
		return true
	}
	return canManage(actor, project)
}
