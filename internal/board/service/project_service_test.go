package service

import (
	"context"
	"testing"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/testutil"
	"gorm.io/gorm"
)

func setupProjectTest(t *testing.T) (*gorm.DB, *ProjectService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	access := NewAccessService(repos.User, repos.Assignment)
	svc := NewProjectService(repos.Project, repos.Scope, repos.Activity, repos.Assignment, repos.User, access)
	testutil.SeedTestUser(t, db, "boss", "调度长", entity.RoleControlCenter)
	return db, svc
}

func TestCreateProjectParsesDates(t *testing.T) {
	_, svc := setupProjectTest(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "boss", &CreateProjectRequest{
		Name:       "隧道一标",
		Code:       "PRJ-T1",
		StartDate:  "2026-04-01",
		PlannedEnd: "2026-12-31",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.StartDate == nil || !project.StartDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start date 2026-04-01, got %v", project.StartDate)
	}
	if project.PlannedEnd == nil || !project.PlannedEnd.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected planned end 2026-12-31, got %v", project.PlannedEnd)
	}

	// 日期留空则不落值
	project2, err := svc.CreateProject(ctx, "boss", &CreateProjectRequest{Name: "二标", Code: "PRJ-T2"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project2.StartDate != nil || project2.PlannedEnd != nil {
		t.Errorf("Expected nil dates when omitted, got %v / %v", project2.StartDate, project2.PlannedEnd)
	}
}

func TestCreateProjectRejectsBadDate(t *testing.T) {
	_, svc := setupProjectTest(t)

	_, err := svc.CreateProject(context.Background(), "boss", &CreateProjectRequest{
		Name:      "隧道一标",
		Code:      "PRJ-T1",
		StartDate: "01/04/2026",
	})
	if err == nil {
		t.Fatal("Expected error for malformed start_date")
	}
}

func TestUpdateProjectDates(t *testing.T) {
	_, svc := setupProjectTest(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "boss", &CreateProjectRequest{Name: "一标", Code: "PRJ-T1"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	newStart := "2026-05-01"
	updated, err := svc.UpdateProject(ctx, "boss", project.ID, &UpdateProjectRequest{StartDate: &newStart})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.StartDate == nil || updated.StartDate.Format("2006-01-02") != "2026-05-01" {
		t.Errorf("Expected start date 2026-05-01, got %v", updated.StartDate)
	}
}

func TestActivityDescription(t *testing.T) {
	db, svc := setupProjectTest(t)
	ctx := context.Background()
	testutil.SeedTestProject(t, db, "p1", "隧道一标")

	activity, err := svc.CreateActivity(ctx, "boss", &CreateActivityRequest{
		ScopeID:     "p1-scope",
		Name:        "二衬浇筑",
		Description: "二次衬砌混凝土浇筑",
		Unit:        "m3",
	})
	if err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}
	if activity.Description != "二次衬砌混凝土浇筑" {
		t.Errorf("Expected description stored, got %q", activity.Description)
	}
	if activity.ProjectID != "p1" {
		t.Errorf("Expected denormalized project id p1, got %s", activity.ProjectID)
	}

	newDesc := "调整后的说明"
	updated, err := svc.UpdateActivity(ctx, "boss", activity.ID, &UpdateActivityRequest{Description: &newDesc})
	if err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}
	if updated.Description != newDesc {
		t.Errorf("Expected updated description, got %q", updated.Description)
	}
}

func TestAssignUserRecordsOperator(t *testing.T) {
	db, svc := setupProjectTest(t)
	ctx := context.Background()
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	testutil.SeedTestProject(t, db, "p1", "隧道一标")

	assignment, err := svc.AssignUser(ctx, "boss", "p1", "cm-1")
	if err != nil {
		t.Fatalf("AssignUser failed: %v", err)
	}
	if assignment.AssignedBy != "boss" {
		t.Errorf("Expected assigned_by boss, got %s", assignment.AssignedBy)
	}

	// 重复分配报错
	if _, err := svc.AssignUser(ctx, "boss", "p1", "cm-1"); err == nil {
		t.Fatal("Expected error on duplicate assignment")
	}
}

func TestSetScopeForemanLinksProject(t *testing.T) {
	db, svc := setupProjectTest(t)
	ctx := context.Background()
	testutil.SeedTestUser(t, db, "foreman-1", "老王", entity.RoleConstructionManager)
	testutil.SeedTestProject(t, db, "p1", "隧道一标")

	assignment, err := svc.SetScopeForeman(ctx, "boss", "p1-scope", "foreman-1")
	if err != nil {
		t.Fatalf("SetScopeForeman failed: %v", err)
	}
	if assignment.ProjectID != "p1" {
		t.Errorf("Expected project id p1 on scope assignment, got %q", assignment.ProjectID)
	}
	if assignment.AssignedBy != "boss" {
		t.Errorf("Expected assigned_by boss, got %s", assignment.AssignedBy)
	}

	var stored entity.ScopeAssignment
	if err := db.First(&stored, "scope_id = ?", "p1-scope").Error; err != nil {
		t.Fatalf("Scope assignment not stored: %v", err)
	}
	if stored.ProjectID != "p1" {
		t.Errorf("Expected stored project id p1, got %q", stored.ProjectID)
	}
}
