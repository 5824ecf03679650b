package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mangrove-registry/models"
)

func TestRecordAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Audit", models.ProjectStatusDraft)

	first, err := env.audit.Record(ctx, project.ID, SystemActor(), models.ActionFieldReviewRequested, "one")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := env.audit.Record(ctx, project.ID, SystemActor(), models.ActionUploadDocument, "two")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first == second || first == 0 {
		t.Fatalf("ids should be distinct and non-zero: %d, %d", first, second)
	}

	history := env.history(t, project.ID)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != second || history[1].ID != first {
		t.Errorf("history order = [%d %d], want newest first [%d %d]", history[0].ID, history[1].ID, second, first)
	}
}

func TestRecordRejectsUnknownInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Audit", models.ProjectStatusDraft)

	_, err := env.audit.Record(ctx, "missing", SystemActor(), models.ActionSubmit, "")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("unknown project error = %v, want NotFoundError", err)
	}

	_, err = env.audit.Record(ctx, project.ID, SystemActor(), models.ActionKind("delete"), "")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("unknown kind error = %v, want ValidationError", err)
	}

	if count, _ := env.audit.Count(ctx, project.ID); count != 0 {
		t.Errorf("history count = %d, want 0", count)
	}
}

func TestHistoryIsRestartable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Restart", models.ProjectStatusDraft)

	for _, notes := range []string{"a", "b", "c"} {
		if _, err := env.audit.Record(ctx, project.ID, SystemActor(), models.ActionFieldReviewRequested, notes); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	seq := env.audit.History(ctx, project.ID)

	// Stop early on the first pass
	var firstPass []string
	for entry, err := range seq {
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		firstPass = append(firstPass, entry.Notes)
		if len(firstPass) == 2 {
			break
		}
	}

	all, err := Collect(seq)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("second pass length = %d, want 3", len(all))
	}
	if all[0].Notes != "c" || all[2].Notes != "a" {
		t.Errorf("second pass order = %s..%s, want c..a", all[0].Notes, all[2].Notes)
	}
	if firstPass[0] != all[0].Notes || firstPass[1] != all[1].Notes {
		t.Errorf("passes disagree: %v vs %v", firstPass, []string{all[0].Notes, all[1].Notes})
	}

	// New entries show up on the next pass
	if _, err := env.audit.Record(ctx, project.ID, SystemActor(), models.ActionUploadDocument, "d"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	again, err := Collect(seq)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(again) != 4 || again[0].Notes != "d" {
		t.Errorf("third pass = %d entries starting %q, want 4 starting d", len(again), again[0].Notes)
	}
}

var fixedAuditTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestHistoryTieBreaksOnID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project := env.fx.CreateProject(ctx, "", "Ties", models.ProjectStatusDraft)

	frozen := NewAuditService(env.db, func() time.Time { return fixedAuditTime })
	var ids []uint
	for i := 0; i < 3; i++ {
		id, err := frozen.Record(ctx, project.ID, SystemActor(), models.ActionFieldReviewRequested, "")
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		ids = append(ids, id)
	}

	history := env.history(t, project.ID)
	for i, entry := range history {
		if want := ids[len(ids)-1-i]; entry.ID != want {
			t.Errorf("history[%d].ID = %d, want %d", i, entry.ID, want)
		}
	}
}

func TestHistoryUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := Collect(env.audit.History(context.Background(), "missing"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestDeletedUserShowsAsUnknownActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.fx.CreateUser(ctx, "gone@test.com", models.RoleOwner)
	project, err := env.projects.CreateProject(ctx, UserActor(owner.ID, owner.Role), validFields())
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := env.lifecycle.Submit(ctx, UserActor(owner.ID, owner.Role), project.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	auth := NewAuthService(env.db, "secret", 0)
	if err := auth.DeleteUser(ctx, owner.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	history := env.history(t, project.ID)
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].UserID != nil {
		t.Errorf("entry still references deleted user %s", *history[0].UserID)
	}

	reloaded, err := env.projects.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if reloaded.CreatedByID != nil {
		t.Errorf("project still references deleted user")
	}
	if reloaded.Status != models.ProjectStatusProvisional {
		t.Errorf("status = %s, want provisional", reloaded.Status)
	}
}

func TestCountUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	count, err := env.audit.Count(ctx, "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || count != 0 {
		t.Fatalf("Count = %d, %v; want 0, NotFoundError", count, err)
	}

	project := env.fx.CreateProject(ctx, "", "Counted", models.ProjectStatusDraft)
	if count, err := env.audit.Count(ctx, project.ID); err != nil || count != 0 {
		t.Errorf("Count = %d, %v; want 0, nil", count, err)
	}
}
