package dto

import (
	"time"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/utils"
)

// UnknownUser is shown for entries whose actor was removed or never set
const UnknownUser = "unknown"

// ActionLogResponse represents one audit entry
type ActionLogResponse struct {
	ID          uint              `json:"id"`
	ProjectID   string            `json:"projectId"`
	User        string            `json:"user"`
	ActionType  models.ActionKind `json:"actionType"`
	ActionLabel string            `json:"actionLabel"`
	Notes       string            `json:"notes"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewActionLogResponse maps an audit entry to its response shape
func NewActionLogResponse(l models.ActionLog) ActionLogResponse {
	return ActionLogResponse{
		ID:          l.ID,
		ProjectID:   l.ProjectID,
		User:        utils.StringValue(l.UserID, UnknownUser),
		ActionType:  l.ActionType,
		ActionLabel: l.ActionType.Label(),
		Notes:       l.Notes,
		Timestamp:   l.Timestamp,
	}
}
