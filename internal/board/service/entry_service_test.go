package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/testutil"
	"gorm.io/gorm"
)

func setupEntryTest(t *testing.T) (*gorm.DB, *repository.Repositories, *EntryService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	access := NewAccessService(repos.User, repos.Assignment)
	svc := NewEntryService(repos.Entry, repos.Activity, repos.Assignment, repos.User, access)
	return db, repos, svc
}

func TestSubmitForecastDerivesHours(t *testing.T) {
	db, _, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	_, _, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	entry, err := svc.SubmitForecast(context.Background(), "cm-1", &SubmitForecastRequest{
		ActivityID:     activity.ID,
		Date:           "2026-03-01",
		Quantity:       f(100),
		CrewSize:       f(5),
		HoursPerWorker: f(8),
	})
	if err != nil {
		t.Fatalf("SubmitForecast failed: %v", err)
	}

	if fv(entry.ForecastQuantity) != 100 {
		t.Errorf("Expected forecast quantity 100, got %v", fv(entry.ForecastQuantity))
	}
	if fv(entry.ForecastHours) != 40 {
		t.Errorf("Expected derived forecast hours 40, got %v", fv(entry.ForecastHours))
	}
	if entry.ActualQuantity != nil {
		t.Errorf("Expected no actual quantity yet, got %v", fv(entry.ActualQuantity))
	}
	if entry.CreatedBy != "cm-1" {
		t.Errorf("Expected created_by cm-1, got %s", entry.CreatedBy)
	}
}

func TestSubmitActualsPatchesSameEntry(t *testing.T) {
	db, repos, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	_, _, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	ctx := context.Background()
	first, err := svc.SubmitForecast(ctx, "cm-1", &SubmitForecastRequest{
		ActivityID:     activity.ID,
		Date:           "2026-03-01",
		Quantity:       f(100),
		CrewSize:       f(5),
		HoursPerWorker: f(8),
	})
	if err != nil {
		t.Fatalf("SubmitForecast failed: %v", err)
	}

	second, err := svc.SubmitActuals(ctx, "cm-1", &SubmitActualsRequest{
		ActivityID:     activity.ID,
		Date:           "2026-03-01",
		Quantity:       f(90),
		CrewSize:       f(5),
		HoursPerWorker: f(8),
	})
	if err != nil {
		t.Fatalf("SubmitActuals failed: %v", err)
	}

	// 同一 (活动, 日期) 只有一条记录
	if second.ID != first.ID {
		t.Errorf("Expected same entry, got %s and %s", first.ID, second.ID)
	}
	if fv(second.ForecastQuantity) != 100 {
		t.Errorf("Expected forecast preserved at 100, got %v", fv(second.ForecastQuantity))
	}
	if fv(second.ActualQuantity) != 90 {
		t.Errorf("Expected actual quantity 90, got %v", fv(second.ActualQuantity))
	}
	if fv(second.ActualHours) != 40 {
		t.Errorf("Expected derived actual hours 40, got %v", fv(second.ActualHours))
	}

	entries, err := repos.Entry.ListByActivity(ctx, activity.ID, "", "")
	if err != nil {
		t.Fatalf("ListByActivity failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected single entry after upsert, got %d", len(entries))
	}

	totals := reduceTotals(entries)
	if totals.QuantityVariance != -10 {
		t.Errorf("Expected variance -10, got %v", totals.QuantityVariance)
	}
	// 90 / 40 = 2.25
	if totals.ProductionRate != 2.25 {
		t.Errorf("Expected production rate 2.25, got %v", totals.ProductionRate)
	}
}

func TestSubmitPartialPatchKeepsExistingFields(t *testing.T) {
	db, _, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	_, _, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	ctx := context.Background()
	notes := "夜班浇筑"
	if _, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:             activity.ID,
		Date:                   "2026-03-01",
		ForecastQuantity:       f(100),
		ForecastCrewSize:       f(5),
		ForecastHoursPerWorker: f(8),
		Notes:                  &notes,
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// 只补数量，备注和已推导的工时不动
	patched, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:       activity.ID,
		Date:             "2026-03-01",
		ForecastQuantity: f(120),
	})
	if err != nil {
		t.Fatalf("Submit patch failed: %v", err)
	}

	if fv(patched.ForecastQuantity) != 120 {
		t.Errorf("Expected patched quantity 120, got %v", fv(patched.ForecastQuantity))
	}
	if patched.Notes != notes {
		t.Errorf("Expected notes preserved, got %q", patched.Notes)
	}
	if fv(patched.ForecastHours) != 40 {
		t.Errorf("Expected forecast hours preserved at 40, got %v", fv(patched.ForecastHours))
	}

	// 只给班组人数不给人均工时，不推导
	patched2, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:       activity.ID,
		Date:             "2026-03-01",
		ForecastCrewSize: f(6),
	})
	if err != nil {
		t.Fatalf("Submit patch failed: %v", err)
	}
	if fv(patched2.ForecastCrewSize) != 6 {
		t.Errorf("Expected crew size 6, got %v", fv(patched2.ForecastCrewSize))
	}
	if fv(patched2.ForecastHours) != 40 {
		t.Errorf("Expected hours unchanged at 40, got %v", fv(patched2.ForecastHours))
	}
}

func TestSubmitAccessControl(t *testing.T) {
	db, _, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "outsider", "路人", entity.RoleConstructionManager)
	_, _, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")

	ctx := context.Background()

	// 未登录
	_, err := svc.Submit(ctx, "", &SubmitEntryRequest{ActivityID: activity.ID, Date: "2026-03-01"})
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Expected ErrAuthRequired, got %v", err)
	}

	// 有档案但未分配到项目
	_, err = svc.Submit(ctx, "outsider", &SubmitEntryRequest{ActivityID: activity.ID, Date: "2026-03-01"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied, got %v", err)
	}

	// 无档案的调用方放行
	if _, err = svc.Submit(ctx, "no-profile-uid", &SubmitEntryRequest{
		ActivityID:       activity.ID,
		Date:             "2026-03-01",
		ForecastQuantity: f(10),
	}); err != nil {
		t.Errorf("Expected no-profile caller allowed, got %v", err)
	}
}

func TestSubmitForemanResolution(t *testing.T) {
	db, repos, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	testutil.SeedTestUser(t, db, "foreman-1", "老王", entity.RoleConstructionManager)
	_, scope, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	ctx := context.Background()

	// 没有分项负责人时落到提交人档案
	entry, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:       activity.ID,
		Date:             "2026-03-01",
		ForecastQuantity: f(10),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if entry.ForemanID != "cm-1" || entry.ForemanName != "陈工" {
		t.Errorf("Expected submitter as foreman, got %s/%s", entry.ForemanID, entry.ForemanName)
	}

	// 指定分项负责人后优先生效
	if err := repos.Assignment.SetScopeAssignment(ctx, &entity.ScopeAssignment{
		ID:        "sa-1",
		ScopeID:   scope.ID,
		UserID:    "foreman-1",
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("SetScopeAssignment failed: %v", err)
	}

	entry2, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:     activity.ID,
		Date:           "2026-03-02",
		ActualQuantity: f(8),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if entry2.ForemanID != "foreman-1" || entry2.ForemanName != "老王" {
		t.Errorf("Expected scope foreman, got %s/%s", entry2.ForemanID, entry2.ForemanName)
	}
}

func TestRemoveEntry(t *testing.T) {
	db, repos, svc := setupEntryTest(t)
	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	_, _, activity := testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	ctx := context.Background()
	entry, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
		ActivityID:       activity.ID,
		Date:             "2026-03-01",
		ForecastQuantity: f(10),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Remove(ctx, "cm-1", entry.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := repos.Entry.FindByID(ctx, entry.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
