package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus represents where a project sits in the verification workflow
type ProjectStatus string

const (
	ProjectStatusDraft       ProjectStatus = "draft"
	ProjectStatusProvisional ProjectStatus = "provisional"
	ProjectStatusApproved    ProjectStatus = "approved"
	ProjectStatusRejected    ProjectStatus = "rejected"
)

// Valid reports whether s is one of the four workflow states
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusProvisional, ProjectStatusApproved, ProjectStatusRejected:
		return true
	}
	return false
}

// Editable reports whether project fields may change while in this state
func (s ProjectStatus) Editable() bool {
	return s == ProjectStatusDraft || s == ProjectStatusRejected
}

// Label returns the display name used by listings
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectStatusDraft:
		return "Draft"
	case ProjectStatusProvisional:
		return "Provisional (Submitted)"
	case ProjectStatusApproved:
		return "Approved"
	case ProjectStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Species is the mangrove genus planted by a project
type Species string

const (
	SpeciesAvicennia  Species = "Avicennia"
	SpeciesRhizophora Species = "Rhizophora"
	SpeciesSonneratia Species = "Sonneratia"
)

var carbonFactors = map[Species]float64{
	SpeciesAvicennia:  2.5,
	SpeciesRhizophora: 3.0,
	SpeciesSonneratia: 2.0,
}

// AllSpecies lists the supported species in display order
func AllSpecies() []Species {
	return []Species{SpeciesAvicennia, SpeciesRhizophora, SpeciesSonneratia}
}

// Valid reports whether s is a supported species
func (s Species) Valid() bool {
	_, ok := carbonFactors[s]
	return ok
}

// CarbonFactor returns the per-seedling carbon multiplier for the species.
// Species values are validated when a project is created, so every stored
// project resolves to a factor.
func (s Species) CarbonFactor() float64 {
	return carbonFactors[s]
}

// Project represents a mangrove restoration proposal
type Project struct {
	ID               string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title            string              `json:"title" gorm:"size:255;not null"`
	Description      string              `json:"description" gorm:"type:text;not null;default:''"`
	OrganizationName *string             `json:"organizationName" gorm:"size:255;default:null"`
	Location         string              `json:"location" gorm:"size:255;not null"`
	Latitude         decimal.NullDecimal `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude        decimal.NullDecimal `json:"longitude" gorm:"type:decimal(9,6)"`
	Species          Species             `json:"species" gorm:"size:50;not null"`
	SeedlingCount    int                 `json:"seedlingCount" gorm:"not null;default:0"`
	Notes            string              `json:"notes" gorm:"type:text;not null;default:''"`
	Status           ProjectStatus       `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedByID      *string             `json:"createdBy" gorm:"column:created_by;type:varchar(36);index"`
	CreatedAt        time.Time           `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time           `json:"updatedAt"`

	// Relations
	CreatedBy *User             `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	Documents []ProjectDocument `json:"documents,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Actions   []ActionLog       `json:"actions,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID and the initial workflow state
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = ProjectStatusDraft
	}
	return nil
}

// TableName sets the table name for Project model
func (Project) TableName() string {
	return "projects"
}
