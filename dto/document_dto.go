package dto

import (
	"time"

	"github.com/mangrove-registry/models"
)

// DocumentResponse represents an uploaded document
type DocumentResponse struct {
	ID           uint           `json:"id"`
	ProjectID    string         `json:"projectId"`
	DocType      models.DocType `json:"docType"`
	DocTypeLabel string         `json:"docTypeLabel"`
	File         string         `json:"file"`
	UploadedAt   time.Time      `json:"uploadedAt"`
}

// NewDocumentResponse maps a document model to its response shape
func NewDocumentResponse(d models.ProjectDocument) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		ProjectID:    d.ProjectID,
		DocType:      d.DocType,
		DocTypeLabel: d.DocType.Label(),
		File:         d.File,
		UploadedAt:   d.UploadedAt,
	}
}

// DocumentListResponse lists a project's documents
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int64              `json:"count"`
}
