package models

import "time"

// DocType classifies an uploaded supporting document
type DocType string

const (
	DocTypeLandPaper        DocType = "land_paper"
	DocTypeNgoCertification DocType = "ngo_paper"
	DocTypeNgoExperience    DocType = "ngo_experience"
	DocTypeOther            DocType = "other"
)

// Valid reports whether t is a known document type
func (t DocType) Valid() bool {
	switch t {
	case DocTypeLandPaper, DocTypeNgoCertification, DocTypeNgoExperience, DocTypeOther:
		return true
	}
	return false
}

// Label returns the display name of the document type
func (t DocType) Label() string {
	switch t {
	case DocTypeLandPaper:
		return "Land Papers"
	case DocTypeNgoCertification:
		return "NGO Certification"
	case DocTypeNgoExperience:
		return "NGO Past Experience"
	case DocTypeOther:
		return "Other"
	}
	return string(t)
}

// ProjectDocument points at a file held by the blob store
type ProjectDocument struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID  string    `json:"projectId" gorm:"type:varchar(36);not null;index"`
	DocType    DocType   `json:"docType" gorm:"size:50;not null"`
	File       string    `json:"file" gorm:"size:512;not null"` // opaque blob handle
	UploadedAt time.Time `json:"uploadedAt" gorm:"not null"`
}

// TableName sets the table name for ProjectDocument model
func (ProjectDocument) TableName() string {
	return "project_documents"
}
