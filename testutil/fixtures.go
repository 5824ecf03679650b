package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mangrove-registry/models"
	"gorm.io/gorm"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// CreateUser creates a user with the given email and role. The stored
// password is not a usable bcrypt hash.
func (f *Fixtures) CreateUser(ctx context.Context, email string, role models.Role) models.User {
	f.t.Helper()

	user := models.User{
		Email:    email,
		Password: "not-a-hash",
		Role:     role,
	}
	if err := f.db.WithContext(ctx).Create(&user).Error; err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateProject creates a project owned by ownerID in the given status.
// An empty ownerID leaves the project without an owner.
func (f *Fixtures) CreateProject(ctx context.Context, ownerID, title string, status models.ProjectStatus) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		Title:         title,
		Location:      "Test Estuary",
		Species:       models.SpeciesRhizophora,
		SeedlingCount: 100,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ownerID != "" {
		project.CreatedByID = &ownerID
	}
	if err := f.db.WithContext(ctx).Create(&project).Error; err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateProjectAt is CreateProject with an explicit creation time
func (f *Fixtures) CreateProjectAt(ctx context.Context, ownerID, title string, status models.ProjectStatus, createdAt time.Time) models.Project {
	f.t.Helper()

	project := f.CreateProject(ctx, ownerID, title, status)
	createdAt = createdAt.UTC()
	if err := f.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		UpdateColumns(map[string]interface{}{"created_at": createdAt, "updated_at": createdAt}).Error; err != nil {
		f.t.Fatalf("failed to set project timestamps: %v", err)
	}
	project.CreatedAt = createdAt
	project.UpdatedAt = createdAt
	return project
}
