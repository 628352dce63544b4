package service

import (
	"context"
	"testing"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/testutil"
)

func setupKPITest(t *testing.T) (*KPIService, *EntryService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	access := NewAccessService(repos.User, repos.Assignment)
	kpi := NewKPIService(repos.Entry, repos.Activity, repos.Scope, repos.Project, repos.Assignment, access)
	entries := NewEntryService(repos.Entry, repos.Activity, repos.Assignment, repos.User, access)

	testutil.SeedTestUser(t, db, "cm-1", "陈工", entity.RoleConstructionManager)
	testutil.SeedTestUser(t, db, "cm-out", "场外", entity.RoleConstructionManager)
	testutil.SeedTestProject(t, db, "p1", "隧道一标")
	testutil.SeedAssignment(t, db, "a1", "cm-1", "p1")

	return kpi, entries
}

func seedEntries(t *testing.T, svc *EntryService) {
	t.Helper()
	ctx := context.Background()
	days := []struct {
		date     string
		forecast float64
		actual   float64
	}{
		{"2026-03-01", 100, 95},
		{"2026-03-02", 100, 105},
		{"2026-03-03", 100, 90},
	}
	for _, d := range days {
		if _, err := svc.Submit(ctx, "cm-1", &SubmitEntryRequest{
			ActivityID:             "p1-activity",
			Date:                   d.date,
			ForecastQuantity:       f(d.forecast),
			ForecastCrewSize:       f(5),
			ForecastHoursPerWorker: f(8),
			ActualQuantity:         f(d.actual),
			ActualCrewSize:         f(5),
			ActualHoursPerWorker:   f(8),
		}); err != nil {
			t.Fatalf("Seed entry %s failed: %v", d.date, err)
		}
	}
}

func TestGetProjectKPIs(t *testing.T) {
	kpi, entrySvc := setupKPITest(t)
	seedEntries(t, entrySvc)
	ctx := context.Background()

	totals, err := kpi.GetProjectKPIs(ctx, "cm-1", "p1", "", "")
	if err != nil {
		t.Fatalf("GetProjectKPIs failed: %v", err)
	}
	if totals == nil {
		t.Fatal("Expected totals for assigned user, got nil")
	}
	if totals.TotalForecastQuantity != 300 {
		t.Errorf("Expected forecast quantity 300, got %v", totals.TotalForecastQuantity)
	}
	if totals.TotalActualQuantity != 290 {
		t.Errorf("Expected actual quantity 290, got %v", totals.TotalActualQuantity)
	}
	if totals.EntryCount != 3 {
		t.Errorf("Expected 3 entries, got %d", totals.EntryCount)
	}
}

func TestGetProjectKPIsDateRange(t *testing.T) {
	kpi, entrySvc := setupKPITest(t)
	seedEntries(t, entrySvc)
	ctx := context.Background()

	totals, err := kpi.GetProjectKPIs(ctx, "cm-1", "p1", "2026-03-02", "2026-03-03")
	if err != nil {
		t.Fatalf("GetProjectKPIs failed: %v", err)
	}
	if totals.EntryCount != 2 {
		t.Errorf("Expected 2 entries in range, got %d", totals.EntryCount)
	}
	if totals.TotalActualQuantity != 195 {
		t.Errorf("Expected actual quantity 195, got %v", totals.TotalActualQuantity)
	}
}

func TestGetProjectKPIsDeniedReturnsNil(t *testing.T) {
	kpi, entrySvc := setupKPITest(t)
	seedEntries(t, entrySvc)
	ctx := context.Background()

	totals, err := kpi.GetProjectKPIs(ctx, "cm-out", "p1", "", "")
	if err != nil {
		t.Fatalf("GetProjectKPIs failed: %v", err)
	}
	if totals != nil {
		t.Errorf("Expected nil totals for unassigned user, got %+v", totals)
	}

	points, err := kpi.GetProjectTrend(ctx, "cm-out", "p1", "", "")
	if err != nil {
		t.Fatalf("GetProjectTrend failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("Expected empty trend for unassigned user, got %d points", len(points))
	}
}

func TestGetProjectTrend(t *testing.T) {
	kpi, entrySvc := setupKPITest(t)
	seedEntries(t, entrySvc)
	ctx := context.Background()

	points, err := kpi.GetProjectTrend(ctx, "cm-1", "p1", "", "")
	if err != nil {
		t.Fatalf("GetProjectTrend failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	if points[0].Date != "2026-03-01" || points[2].Date != "2026-03-03" {
		t.Errorf("Expected dates sorted ascending, got %s … %s", points[0].Date, points[2].Date)
	}
	// 2026-03-02: 105/100 = 1.05
	if points[1].ProductionFactor != 1.05 {
		t.Errorf("Expected factor 1.05 on day 2, got %v", points[1].ProductionFactor)
	}
}

func TestGetPortfolioKPIsFiltersByAssignment(t *testing.T) {
	kpi, entrySvc := setupKPITest(t)
	seedEntries(t, entrySvc)
	ctx := context.Background()

	// cm-1 只分配了 p1
	totals, err := kpi.GetPortfolioKPIs(ctx, "cm-1", "", "")
	if err != nil {
		t.Fatalf("GetPortfolioKPIs failed: %v", err)
	}
	if totals == nil || totals.EntryCount != 3 {
		t.Errorf("Expected portfolio totals over p1, got %+v", totals)
	}

	// cm-out 无分配，空组合
	totals2, err := kpi.GetPortfolioKPIs(ctx, "cm-out", "", "")
	if err != nil {
		t.Fatalf("GetPortfolioKPIs failed: %v", err)
	}
	if totals2 != nil {
		t.Errorf("Expected nil portfolio totals for unassigned user, got %+v", totals2)
	}
}
