package services

import (
	"context"
	"testing"
	"time"

	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	fx        *testutil.Fixtures
	audit     *AuditService
	documents *DocumentService
	lifecycle *LifecycleService
	projects  *ProjectService
	queries   *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := MonotonicClock(testutil.StepClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), time.Second))

	audit := NewAuditService(db, clock)
	documents := NewDocumentService(db, audit, clock)
	return &testEnv{
		db:        db,
		fx:        testutil.NewFixtures(t, db),
		audit:     audit,
		documents: documents,
		lifecycle: NewLifecycleService(db, audit, clock),
		projects:  NewProjectService(db, documents, audit, clock),
		queries:   NewQueryService(db),
	}
}

func (e *testEnv) status(t *testing.T, projectID string) models.ProjectStatus {
	t.Helper()
	var project models.Project
	if err := e.db.First(&project, "id = ?", projectID).Error; err != nil {
		t.Fatalf("load project: %v", err)
	}
	return project.Status
}

func (e *testEnv) history(t *testing.T, projectID string) []models.ActionLog {
	t.Helper()
	entries, err := Collect(e.audit.History(context.Background(), projectID))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	return entries
}

func validFields() ProjectFields {
	return ProjectFields{
		Title:         "Mangrove Bay",
		Location:      "Sundarbans",
		Species:       models.SpeciesRhizophora,
		SeedlingCount: 100,
	}
}
