package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/testutil"
)

func setupAccessTest(t *testing.T) *AccessService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	testutil.SeedTestUser(t, db, "boss", "总控", entity.RoleControlCenter)
	testutil.SeedTestUser(t, db, "cm-in", "在场", entity.RoleConstructionManager)
	testutil.SeedTestUser(t, db, "cm-out", "场外", entity.RoleConstructionManager)
	testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-in", "p1")

	return NewAccessService(repos.User, repos.Assignment)
}

func TestCanAccess(t *testing.T) {
	access := setupAccessTest(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		want   bool
	}{
		{"匿名拒绝", "", false},
		{"控制中心放行", "boss", true},
		{"已分配放行", "cm-in", true},
		{"未分配拒绝", "cm-out", false},
		{"无档案放行", "ghost-uid", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := access.CanAccess(ctx, tc.userID, "p1")
			if err != nil {
				t.Fatalf("CanAccess failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("CanAccess(%q) = %v, want %v", tc.userID, got, tc.want)
			}
		})
	}
}

func TestRequireAccess(t *testing.T) {
	access := setupAccessTest(t)
	ctx := context.Background()

	if err := access.RequireAccess(ctx, "", "p1"); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Expected ErrAuthRequired for anonymous, got %v", err)
	}
	if err := access.RequireAccess(ctx, "cm-out", "p1"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied for unassigned, got %v", err)
	}
	if err := access.RequireAccess(ctx, "cm-in", "p1"); err != nil {
		t.Errorf("Expected assigned user allowed, got %v", err)
	}
}

func TestRequireControlCenter(t *testing.T) {
	access := setupAccessTest(t)
	ctx := context.Background()

	if err := access.RequireControlCenter(ctx, "boss"); err != nil {
		t.Errorf("Expected control_center allowed, got %v", err)
	}
	if err := access.RequireControlCenter(ctx, "cm-in"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied for construction_manager, got %v", err)
	}
	if err := access.RequireControlCenter(ctx, ""); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Expected ErrAuthRequired for anonymous, got %v", err)
	}
}
