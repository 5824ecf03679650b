package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mangrove-registry/models"
)

func TestUploadRecordsDocumentAndAction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.fx.CreateUser(ctx, "owner@test.com", models.RoleOwner)
	project := env.fx.CreateProject(ctx, owner.ID, "Docs", models.ProjectStatusDraft)

	doc, err := env.documents.Upload(ctx, UserActor(owner.ID, owner.Role), project.ID, models.DocTypeLandPaper, "project_docs/a.pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == 0 || doc.UploadedAt.IsZero() {
		t.Errorf("document not populated: %+v", doc)
	}

	count, err := env.documents.Count(ctx, project.ID)
	if err != nil || count != 1 {
		t.Fatalf("Count = %d, %v; want 1", count, err)
	}

	history := env.history(t, project.ID)
	if len(history) != 1 || history[0].ActionType != models.ActionUploadDocument {
		t.Fatalf("history = %+v, want one upload entry", history)
	}
	if history[0].UserID == nil || *history[0].UserID != owner.ID {
		t.Errorf("upload entry should record the uploader")
	}
	if history[0].Notes != models.DocTypeLandPaper.Label() {
		t.Errorf("notes = %q, want doc type label", history[0].Notes)
	}
}

func TestUploadIsAllowedInAnyStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []models.ProjectStatus{models.ProjectStatusProvisional, models.ProjectStatusApproved} {
		project := env.fx.CreateProject(ctx, "", string(status), status)
		if _, err := env.documents.Upload(ctx, SystemActor(), project.ID, models.DocTypeOther, "x.pdf"); err != nil {
			t.Errorf("Upload on %s project: %v", status, err)
		}
		if got := env.status(t, project.ID); got != status {
			t.Errorf("upload changed status to %s", got)
		}
	}
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Docs", models.ProjectStatusDraft)

	tests := []struct {
		name      string
		projectID string
		docType   models.DocType
		handle    string
		wantErr   any
	}{
		{"bad doc type", project.ID, models.DocType("passport"), "a.pdf", &ValidationError{}},
		{"empty handle", project.ID, models.DocTypeNgoCertification, " ", &ValidationError{}},
		{"unknown project", "missing", models.DocTypeNgoCertification, "a.pdf", &NotFoundError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.documents.Upload(ctx, SystemActor(), tt.projectID, tt.docType, tt.handle)
			switch tt.wantErr.(type) {
			case *ValidationError:
				var target *ValidationError
				if !errors.As(err, &target) {
					t.Fatalf("error = %v, want ValidationError", err)
				}
			case *NotFoundError:
				var target *NotFoundError
				if !errors.As(err, &target) {
					t.Fatalf("error = %v, want NotFoundError", err)
				}
			}
		})
	}

	if count, _ := env.documents.Count(ctx, project.ID); count != 0 {
		t.Errorf("document count = %d, want 0", count)
	}
	if count, _ := env.audit.Count(ctx, project.ID); count != 0 {
		t.Errorf("history count = %d, want 0", count)
	}
}

func TestListDocumentsInUploadOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Docs", models.ProjectStatusDraft)

	handles := []string{"first.pdf", "second.pdf", "third.pdf"}
	for _, h := range handles {
		if _, err := env.documents.Upload(ctx, SystemActor(), project.ID, models.DocTypeOther, h); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	docs, err := Collect(env.documents.List(ctx, project.ID))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != len(handles) {
		t.Fatalf("List returned %d documents, want %d", len(docs), len(handles))
	}
	for i, h := range handles {
		if docs[i].File != h {
			t.Errorf("docs[%d] = %s, want %s", i, docs[i].File, h)
		}
	}

	got, err := env.documents.Get(ctx, project.ID, docs[1].ID)
	if err != nil || got.File != "second.pdf" {
		t.Errorf("Get = %+v, %v", got, err)
	}

	other := env.fx.CreateProject(ctx, "", "Other", models.ProjectStatusDraft)
	_, err = env.documents.Get(ctx, other.ID, docs[1].ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get through another project error = %v, want NotFoundError", err)
	}
}

func TestDocumentReadsOnUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var notFound *NotFoundError
	if _, err := Collect(env.documents.List(ctx, "missing")); !errors.As(err, &notFound) {
		t.Errorf("List error = %v, want NotFoundError", err)
	}
	if count, err := env.documents.Count(ctx, "missing"); !errors.As(err, &notFound) || count != 0 {
		t.Errorf("Count = %d, %v; want 0, NotFoundError", count, err)
	}

	// An existing project with no documents is not an error
	project := env.fx.CreateProject(ctx, "", "Empty", models.ProjectStatusDraft)
	docs, err := Collect(env.documents.List(ctx, project.ID))
	if err != nil || len(docs) != 0 {
		t.Errorf("List = %d docs, %v; want 0, nil", len(docs), err)
	}
	if count, err := env.documents.Count(ctx, project.ID); err != nil || count != 0 {
		t.Errorf("Count = %d, %v; want 0, nil", count, err)
	}
}
