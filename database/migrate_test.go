package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mangrove-registry/database"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/testutil"
)

func TestDialectorSelection(t *testing.T) {
	dir := t.TempDir()

	db, err := database.Open(database.Options{DatabaseURL: "sqlite:" + filepath.Join(dir, "a.db")})
	if err != nil {
		t.Fatalf("Open sqlite URL: %v", err)
	}
	if name := db.Dialector.Name(); name != "sqlite" {
		t.Errorf("dialect = %s, want sqlite", name)
	}

	db, err = database.Open(database.Options{SQLitePath: filepath.Join(dir, "b.db")})
	if err != nil {
		t.Fatalf("Open sqlite path: %v", err)
	}
	if name := db.Dialector.Name(); name != "sqlite" {
		t.Errorf("dialect = %s, want sqlite", name)
	}

	if _, err := database.Open(database.Options{}); err == nil {
		t.Error("Open without a URL or path should fail")
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := database.SQLiteDSN("x.db"); got != "x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" {
		t.Errorf("SQLiteDSN = %s", got)
	}
	if got := database.SQLiteDSN("x.db?mode=rwc"); got != "x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" {
		t.Errorf("SQLiteDSN with query = %s", got)
	}
}

func TestForeignKeysCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, db)

	owner := fx.CreateUser(ctx, "o@test.com", models.RoleOwner)
	project := fx.CreateProject(ctx, owner.ID, "FK", models.ProjectStatusDraft)
	if err := db.Create(&models.ActionLog{ProjectID: project.ID, UserID: &owner.ID, ActionType: models.ActionSubmit, Timestamp: time.Now()}).Error; err != nil {
		t.Fatalf("create log: %v", err)
	}

	// A raw delete relies on the schema's ON DELETE rules
	if err := db.Exec("DELETE FROM users WHERE id = ?", owner.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var reloaded models.Project
	db.First(&reloaded, "id = ?", project.ID)
	if reloaded.CreatedByID != nil {
		t.Error("created_by was not set to null")
	}

	if err := db.Exec("DELETE FROM projects WHERE id = ?", project.ID).Error; err != nil {
		t.Fatalf("delete project: %v", err)
	}
	var logs int64
	db.Model(&models.ActionLog{}).Count(&logs)
	if logs != 0 {
		t.Errorf("action logs left after cascade: %d", logs)
	}

	orphan := models.ProjectDocument{ProjectID: "missing", DocType: models.DocTypeOther, File: "x", UploadedAt: time.Now()}
	if err := db.Create(&orphan).Error; err == nil {
		t.Error("document for unknown project should violate the foreign key")
	}
}

func TestMigrateDataBetweenDatabases(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	source, err := database.NewDBConnection("source", "sqlite:"+filepath.Join(dir, "source.db"), nil)
	if err != nil {
		t.Fatalf("NewDBConnection: %v", err)
	}
	if err := source.Migrate(); err != nil {
		t.Fatalf("Migrate source: %v", err)
	}

	fx := testutil.NewFixtures(t, source.DB)
	owner := fx.CreateUser(ctx, "o@test.com", models.RoleOwner)
	project := fx.CreateProject(ctx, owner.ID, "Copied", models.ProjectStatusProvisional)
	now := time.Now().UTC()
	source.DB.Create(&models.ProjectDocument{ProjectID: project.ID, DocType: models.DocTypeLandPaper, File: "a.pdf", UploadedAt: now})
	source.DB.Create(&models.ActionLog{ProjectID: project.ID, UserID: &owner.ID, ActionType: models.ActionUploadDocument, Timestamp: now})
	source.DB.Create(&models.ActionLog{ProjectID: project.ID, ActionType: models.ActionSubmit, Timestamp: now.Add(time.Second)})

	target, err := database.NewDBConnection("target", "sqlite:"+filepath.Join(dir, "target.db"), nil)
	if err != nil {
		t.Fatalf("NewDBConnection: %v", err)
	}
	if err := target.Migrate(); err != nil {
		t.Fatalf("Migrate target: %v", err)
	}

	stats, err := database.MigrateDataBetweenDatabases(ctx, source, target)
	if err != nil {
		t.Fatalf("MigrateDataBetweenDatabases: %v", err)
	}
	want := database.CopyStats{Users: 1, Projects: 1, Documents: 1, Actions: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	var copied models.Project
	if err := target.DB.First(&copied, "id = ?", project.ID).Error; err != nil {
		t.Fatalf("project not copied: %v", err)
	}
	if copied.Status != models.ProjectStatusProvisional || copied.CreatedByID == nil || *copied.CreatedByID != owner.ID {
		t.Errorf("copied project = %+v", copied)
	}

	// New rows in the target continue after the copied ids
	next := models.ActionLog{ProjectID: project.ID, ActionType: models.ActionApprove, Timestamp: now.Add(2 * time.Second)}
	if err := target.DB.Create(&next).Error; err != nil {
		t.Fatalf("insert after copy: %v", err)
	}
	if next.ID <= 2 {
		t.Errorf("new id = %d, want > 2", next.ID)
	}

	// Copying again collides with existing rows and changes nothing
	if _, err := database.MigrateDataBetweenDatabases(ctx, source, target); err == nil {
		t.Error("second copy should fail on duplicate keys")
	}
	var count int64
	target.DB.Model(&models.ActionLog{}).Count(&count)
	if count != 3 {
		t.Errorf("target action logs = %d, want 3", count)
	}
}
