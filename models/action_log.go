package models

import "time"

// ActionKind names an entry in a project's audit trail
type ActionKind string

const (
	ActionSubmit               ActionKind = "submit"
	ActionResubmit             ActionKind = "resubmit"
	ActionApprove              ActionKind = "approve"
	ActionReject               ActionKind = "reject"
	ActionUploadDocument       ActionKind = "upload_doc"
	ActionFieldReviewRequested ActionKind = "field_review_requested"
)

// Valid reports whether k is a known action kind
func (k ActionKind) Valid() bool {
	switch k {
	case ActionSubmit, ActionResubmit, ActionApprove, ActionReject,
		ActionUploadDocument, ActionFieldReviewRequested:
		return true
	}
	return false
}

// Label returns the display name of the action
func (k ActionKind) Label() string {
	switch k {
	case ActionSubmit:
		return "Submitted for Verification"
	case ActionResubmit:
		return "Resubmitted after Rejection"
	case ActionApprove:
		return "Approved by Verifier"
	case ActionReject:
		return "Rejected by Verifier"
	case ActionUploadDocument:
		return "Document Uploaded"
	case ActionFieldReviewRequested:
		return "Field Review Requested"
	}
	return string(k)
}

// ActionLog is an append-only audit entry for a project.
// UserID is nil for system actions and after the acting user is removed.
type ActionLog struct {
	ID         uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID  string     `json:"projectId" gorm:"type:varchar(36);not null;index:idx_action_logs_project_time,priority:1"`
	UserID     *string    `json:"userId" gorm:"type:varchar(36);index"`
	ActionType ActionKind `json:"actionType" gorm:"type:varchar(30);not null"`
	Notes      string     `json:"notes" gorm:"type:text;not null;default:''"`
	Timestamp  time.Time  `json:"timestamp" gorm:"not null;index:idx_action_logs_project_time,priority:2"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// TableName sets the table name for ActionLog model
func (ActionLog) TableName() string {
	return "action_logs"
}
