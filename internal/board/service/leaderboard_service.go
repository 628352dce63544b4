package service

import (
	"context"
	"errors"
	"sort"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
)

// LeaderboardService 工长排行与产量分解服务
type LeaderboardService struct {
	entryRepo    *repository.EntryRepository
	scopeRepo    *repository.ScopeRepository
	activityRepo *repository.ActivityRepository
	projectRepo  *repository.ProjectRepository
	userRepo     *repository.UserRepository
	access       *AccessService
}

// NewLeaderboardService 创建排行服务
func NewLeaderboardService(
	entryRepo *repository.EntryRepository,
	scopeRepo *repository.ScopeRepository,
	activityRepo *repository.ActivityRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	access *AccessService,
) *LeaderboardService {
	return &LeaderboardService{
		entryRepo:    entryRepo,
		scopeRepo:    scopeRepo,
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

// LeaderboardRow 排行榜单行
type LeaderboardRow struct {
	Rank             int     `json:"rank"`
	ForemanID        string  `json:"foreman_id"`
	ForemanName      string  `json:"foreman_name"`
	ForecastQuantity float64 `json:"forecast_quantity"`
	ActualQuantity   float64 `json:"actual_quantity"`
	ForecastHours    float64 `json:"forecast_hours"`
	ActualHours      float64 `json:"actual_hours"`
	ProductionFactor float64 `json:"production_factor"`
	ProductionRate   float64 `json:"production_rate"`
	VariancePercent  float64 `json:"variance_percent"`
	EntryCount       int     `json:"entry_count"`
	ActivityCount    int     `json:"activity_count"`
	ScopeCount       int     `json:"scope_count"`
}

// BreakdownRow 按分项或活动汇总的一行
type BreakdownRow struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Totals           Totals  `json:"totals"`
	ProductionFactor float64 `json:"production_factor"`
	ForemanCount     int     `json:"foreman_count"`
	ActivityCount    int     `json:"activity_count"`
}

// ParticipationStats 参与度统计
type ParticipationStats struct {
	ForemanCount  int `json:"foreman_count"`
	ActivityCount int `json:"activity_count"`
	EntryCount    int `json:"entry_count"`
}

// rankForemen 按工长分组聚合并排序。分组键优先用工长ID，缺失时退回
// 提交人ID；名称优先用快照，其次 resolveName，再不行记为 Unknown。
// competitive 为假时不竞排，所有行名次为0
func rankForemen(entries []entity.DailyEntry, resolveName func(string) string, competitive bool) []LeaderboardRow {
	type acc struct {
		row        LeaderboardRow
		activities map[string]struct{}
		scopes     map[string]struct{}
	}

	byForeman := make(map[string]*acc)
	for i := range entries {
		e := &entries[i]
		key := e.ForemanID
		if key == "" {
			key = e.CreatedBy
		}
		if key == "" {
			key = "unknown"
		}

		a, exists := byForeman[key]
		if !exists {
			name := e.ForemanName
			if name == "" && resolveName != nil {
				name = resolveName(key)
			}
			if name == "" {
				name = "Unknown"
			}
			a = &acc{
				row:        LeaderboardRow{ForemanID: key, ForemanName: name},
				activities: make(map[string]struct{}),
				scopes:     make(map[string]struct{}),
			}
			byForeman[key] = a
		}

		a.row.ForecastQuantity += fv(e.ForecastQuantity)
		a.row.ActualQuantity += fv(e.ActualQuantity)
		a.row.ForecastHours += fv(e.ForecastHours)
		a.row.ActualHours += fv(e.ActualHours)
		a.row.EntryCount++
		a.activities[e.ActivityID] = struct{}{}
		a.scopes[e.ScopeID] = struct{}{}
	}

	rows := make([]LeaderboardRow, 0, len(byForeman))
	for _, a := range byForeman {
		// 比率先按原始累加值算，只对展示用的合计数做舍入
		a.row.ProductionFactor = productionFactor(a.row.ActualQuantity, a.row.ForecastQuantity)
		a.row.ProductionRate = productionRate(a.row.ActualQuantity, a.row.ActualHours)
		a.row.VariancePercent = variancePercent(a.row.ActualQuantity, a.row.ForecastQuantity)
		a.row.ForecastQuantity = round2(a.row.ForecastQuantity)
		a.row.ActualQuantity = round2(a.row.ActualQuantity)
		a.row.ForecastHours = round2(a.row.ForecastHours)
		a.row.ActualHours = round2(a.row.ActualHours)
		a.row.ActivityCount = len(a.activities)
		a.row.ScopeCount = len(a.scopes)
		rows = append(rows, a.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductionFactor != rows[j].ProductionFactor {
			return rows[i].ProductionFactor > rows[j].ProductionFactor
		}
		return rows[i].ForemanName < rows[j].ForemanName
	})

	if !competitive {
		return rows
	}

	// 名次即排序位置，并列也各占一名，1..N 无重复
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}

// GetProjectLeaderboard 项目工长排行榜。无权限返回空榜
func (s *LeaderboardService) GetProjectLeaderboard(ctx context.Context, userID, projectID, startDate, endDate string) ([]LeaderboardRow, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []LeaderboardRow{}, nil
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []LeaderboardRow{}, nil
		}
		return nil, err
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	resolve := func(id string) string {
		if u, uerr := s.userRepo.FindByID(ctx, id); uerr == nil {
			return u.Name
		}
		return ""
	}

	return rankForemen(entries, resolve, project.LeaderboardMode), nil
}

// GetScopeLeaderboard 分项工长排行榜，权限跟随所属项目
func (s *LeaderboardService) GetScopeLeaderboard(ctx context.Context, userID, scopeID, startDate, endDate string) ([]LeaderboardRow, error) {
	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []LeaderboardRow{}, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, scope.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []LeaderboardRow{}, nil
	}

	project, err := s.projectRepo.FindByID(ctx, scope.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []LeaderboardRow{}, nil
		}
		return nil, err
	}

	entries, err := s.entryRepo.ListByScope(ctx, scopeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	resolve := func(id string) string {
		if u, uerr := s.userRepo.FindByID(ctx, id); uerr == nil {
			return u.Name
		}
		return ""
	}

	return rankForemen(entries, resolve, project.LeaderboardMode), nil
}

// breakdownRows 把分组后的日报聚成分解行并按生产系数降序排列
func breakdownRows(names map[string]string, grouped map[string][]entity.DailyEntry) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(names))
	for id, name := range names {
		group := grouped[id]
		totals := reduceTotals(group)

		foremen := make(map[string]struct{})
		activities := make(map[string]struct{})
		for _, e := range group {
			key := e.ForemanID
			if key == "" {
				key = e.CreatedBy
			}
			if key != "" {
				foremen[key] = struct{}{}
			}
			activities[e.ActivityID] = struct{}{}
		}

		rows = append(rows, BreakdownRow{
			ID:               id,
			Name:             name,
			Totals:           totals,
			ProductionFactor: productionFactor(totals.TotalActualQuantity, totals.TotalForecastQuantity),
			ForemanCount:     len(foremen),
			ActivityCount:    len(activities),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductionFactor != rows[j].ProductionFactor {
			return rows[i].ProductionFactor > rows[j].ProductionFactor
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// GetScopeBreakdown 项目内各分项的产量汇总
func (s *LeaderboardService) GetScopeBreakdown(ctx context.Context, userID, projectID, startDate, endDate string) ([]BreakdownRow, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []BreakdownRow{}, nil
	}

	scopes, err := s.scopeRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(scopes))
	for _, sc := range scopes {
		names[sc.ID] = sc.Name
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.DailyEntry)
	for _, e := range entries {
		grouped[e.ScopeID] = append(grouped[e.ScopeID], e)
	}

	return breakdownRows(names, grouped), nil
}

// GetProjectActivityBreakdown 项目内各活动的产量汇总，跨分项拉平
func (s *LeaderboardService) GetProjectActivityBreakdown(ctx context.Context, userID, projectID, startDate, endDate string) ([]BreakdownRow, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []BreakdownRow{}, nil
	}

	activities, err := s.activityRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.DailyEntry)
	for _, e := range entries {
		grouped[e.ActivityID] = append(grouped[e.ActivityID], e)
	}

	return breakdownRows(names, grouped), nil
}

// GetActivityBreakdown 分项内各活动的产量汇总
func (s *LeaderboardService) GetActivityBreakdown(ctx context.Context, userID, scopeID, startDate, endDate string) ([]BreakdownRow, error) {
	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []BreakdownRow{}, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, scope.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []BreakdownRow{}, nil
	}

	activities, err := s.activityRepo.ListByScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}

	entries, err := s.entryRepo.ListByScope(ctx, scopeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.DailyEntry)
	for _, e := range entries {
		grouped[e.ActivityID] = append(grouped[e.ActivityID], e)
	}

	return breakdownRows(names, grouped), nil
}

// GetParticipation 项目参与度：去重工长数、去重活动数、日报总数
func (s *LeaderboardService) GetParticipation(ctx context.Context, userID, projectID, startDate, endDate string) (*ParticipationStats, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ParticipationStats{}, nil
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	foremen := make(map[string]struct{})
	activities := make(map[string]struct{})
	for _, e := range entries {
		key := e.ForemanID
		if key == "" {
			key = e.CreatedBy
		}
		if key != "" {
			foremen[key] = struct{}{}
		}
		activities[e.ActivityID] = struct{}{}
	}

	return &ParticipationStats{
		ForemanCount:  len(foremen),
		ActivityCount: len(activities),
		EntryCount:    len(entries),
	}, nil
}
