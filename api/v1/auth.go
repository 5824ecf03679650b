package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/middleware"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
)

// AuthController handles account endpoints
type AuthController struct {
	authService  *services.AuthService
	logger       *zap.Logger
	secureCookie bool
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService, logger *zap.Logger, secureCookie bool) *AuthController {
	return &AuthController{authService: authService, logger: logger, secureCookie: secureCookie}
}

// Register handles user registration
func (a *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	user, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user authentication
func (a *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	authResponse, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}

	// Set token as HttpOnly cookie; the body also carries it for Bearer clients
	maxAge := int(time.Until(authResponse.ExpiresAt).Seconds())
	c.SetCookie(middleware.AccessTokenCookie, authResponse.Token, maxAge, "/", "", a.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   authResponse,
	})
}

// Logout clears the access token cookie
func (a *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", a.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the currently authenticated user's profile
func (a *AuthController) GetCurrentUser(c *gin.Context) {
	user, err := a.authService.GetUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   user,
	})
}

// CreateUser lets an administrator provision an account with any role
func (a *AuthController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	user, err := a.authService.CreateUser(c.Request.Context(), req.RegisterRequest, req.Role)
	if err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"user":   user,
	})
}

// DeleteUser removes an account; its projects and audit entries remain
func (a *AuthController) DeleteUser(c *gin.Context) {
	if err := a.authService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User deleted successfully",
	})
}
