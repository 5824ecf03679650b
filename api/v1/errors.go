package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/services"
	"go.uber.org/zap"
)

var errForbidden = errors.New("you don't have permission to access this project")

// respondError maps service errors to HTTP responses. Storage failures are
// logged here because the service layer does not log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validation *services.ValidationError
		illegal    *services.IllegalTransitionError
		state      *services.InvalidStateError
		notFound   *services.NotFoundError
	)

	status := http.StatusInternalServerError
	body := gin.H{"status": "error", "message": err.Error()}

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		body["field"] = validation.Field
	case errors.As(err, &illegal):
		status = http.StatusConflict
		body["currentStatus"] = illegal.From
		body["operation"] = illegal.Operation
	case errors.As(err, &state):
		status = http.StatusConflict
		body["currentStatus"] = state.Status
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, errForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		body["message"] = "Internal server error"
	}

	c.JSON(status, body)
}
