package handler

import (
	"net/http"
	"testing"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/atgonza18/buildboard/internal/board/testutil"
)

func setupEntryHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	access := service.NewAccessService(repos.User, repos.Assignment)
	entrySvc := service.NewEntryService(repos.Entry, repos.Activity, repos.Assignment, repos.User, access)
	kpiSvc := service.NewKPIService(repos.Entry, repos.Activity, repos.Scope, repos.Project, repos.Assignment, access)

	entryHandler := NewEntryHandler(entrySvc)
	kpiHandler := NewKPIHandler(kpiSvc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/entries", entryHandler.Submit)
	api.POST("/entries/forecast", entryHandler.SubmitForecast)
	api.POST("/entries/actuals", entryHandler.SubmitActuals)
	api.DELETE("/entries/:id", entryHandler.Delete)

	readable := testutil.OptionalAuthGroup(router, "/api/v1")
	readable.GET("/activities/:id/entries", entryHandler.ListByActivity)
	readable.GET("/projects/:id/kpis", kpiHandler.ProjectKPIs)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestSubmitEntryRequiresToken(t *testing.T) {
	env := setupEntryHandlerTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/entries", map[string]interface{}{
		"activity_id":       "act-1",
		"date":              "2026-03-15",
		"forecast_quantity": 100,
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40100 {
		t.Errorf("Expected code 40100, got %v", resp["code"])
	}
}

func TestSubmitEntryViaHTTP(t *testing.T) {
	env := setupEntryHandlerTest(t)
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", entity.RoleControlCenter)
	testutil.SeedTestProject(t, env.DB, "p1", "隧道一标")
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/entries", map[string]interface{}{
		"activity_id":               "p1-activity",
		"date":                      "2026-03-15",
		"forecast_quantity":         100,
		"forecast_crew_size":        5,
		"forecast_hours_per_worker": 8,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["date"] != "2026-03-15" {
		t.Errorf("Expected date 2026-03-15, got %v", data["date"])
	}
	if data["forecast_hours"].(float64) != 40 {
		t.Errorf("Expected derived forecast hours 40, got %v", data["forecast_hours"])
	}

	// 同一活动同一天再次提交实际数据，应补丁到同一条记录
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/entries/actuals", map[string]interface{}{
		"activity_id":      "p1-activity",
		"date":             "2026-03-15",
		"quantity":         90,
		"crew_size":        5,
		"hours_per_worker": 8,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on actuals, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	patched := resp["data"].(map[string]interface{})
	if patched["id"] != data["id"] {
		t.Errorf("Expected same entry to be patched, got %v vs %v", patched["id"], data["id"])
	}
	if patched["actual_quantity"].(float64) != 90 {
		t.Errorf("Expected actual quantity 90, got %v", patched["actual_quantity"])
	}
	if patched["forecast_quantity"].(float64) != 100 {
		t.Errorf("Expected forecast preserved, got %v", patched["forecast_quantity"])
	}
}

func TestSubmitEntryDeniedForUnassigned(t *testing.T) {
	env := setupEntryHandlerTest(t)
	testutil.SeedTestUser(t, env.DB, "cm-out", "场外经理", entity.RoleConstructionManager)
	testutil.SeedTestProject(t, env.DB, "p1", "隧道一标")
	token := testutil.GenerateTestToken("cm-out", "场外经理", "cmout", entity.RoleConstructionManager)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/entries", map[string]interface{}{
		"activity_id":       "p1-activity",
		"date":              "2026-03-15",
		"forecast_quantity": 100,
	}, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for unassigned user, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40300 {
		t.Errorf("Expected code 40300, got %v", resp["code"])
	}
}

func TestListEntriesAnonymousReturnsEmpty(t *testing.T) {
	env := setupEntryHandlerTest(t)
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", entity.RoleControlCenter)
	testutil.SeedTestProject(t, env.DB, "p1", "隧道一标")

	// Seed one entry as admin
	token := testutil.DefaultTestToken()
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/entries/forecast", map[string]interface{}{
		"activity_id": "p1-activity",
		"date":        "2026-03-15",
		"quantity":    100,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Seed entry failed: %d: %s", w.Code, w.Body.String())
	}

	// 匿名读取降级为空列表，不报错
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/activities/p1-activity/entries", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for anonymous read, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 0 {
		t.Errorf("Expected empty items for anonymous reader, got %d", len(items))
	}

	// 有权限的读取能看到数据
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/activities/p1-activity/entries", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 item for authorized reader, got %d", len(items))
	}
}

func TestProjectKPIsAnonymousOmitsData(t *testing.T) {
	env := setupEntryHandlerTest(t)
	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", entity.RoleControlCenter)
	testutil.SeedTestProject(t, env.DB, "p1", "隧道一标")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/p1/kpis", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for anonymous KPI read, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Errorf("Expected code 0, got %v", resp["code"])
	}
	if _, ok := resp["data"]; ok {
		t.Errorf("Expected data omitted for anonymous reader, got %v", resp["data"])
	}
}
