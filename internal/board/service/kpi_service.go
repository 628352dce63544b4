package service

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
)

// KPIService 关键指标服务：在项目/分项/活动三个层级上聚合日报数据。
// 读取接口对无权限或未登录的调用方降级为空结果，不报错
type KPIService struct {
	entryRepo    *repository.EntryRepository
	activityRepo *repository.ActivityRepository
	scopeRepo    *repository.ScopeRepository
	projectRepo  *repository.ProjectRepository
	assignRepo   *repository.AssignmentRepository
	access       *AccessService
}

// NewKPIService 创建指标服务
func NewKPIService(
	entryRepo *repository.EntryRepository,
	activityRepo *repository.ActivityRepository,
	scopeRepo *repository.ScopeRepository,
	projectRepo *repository.ProjectRepository,
	assignRepo *repository.AssignmentRepository,
	access *AccessService,
) *KPIService {
	return &KPIService{
		entryRepo:    entryRepo,
		activityRepo: activityRepo,
		scopeRepo:    scopeRepo,
		projectRepo:  projectRepo,
		assignRepo:   assignRepo,
		access:       access,
	}
}

// GetProjectKPIs 项目级指标汇总
func (s *KPIService) GetProjectKPIs(ctx context.Context, userID, projectID, startDate, endDate string) (*Totals, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := reduceTotals(entries)
	return &totals, nil
}

// GetScopeKPIs 分项级指标汇总
func (s *KPIService) GetScopeKPIs(ctx context.Context, userID, scopeID, startDate, endDate string) (*Totals, error) {
	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, scope.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	entries, err := s.entryRepo.ListByScope(ctx, scopeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := reduceTotals(entries)
	return &totals, nil
}

// GetActivityKPIs 活动级指标汇总
func (s *KPIService) GetActivityKPIs(ctx context.Context, userID, activityID, startDate, endDate string) (*Totals, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, activity.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	entries, err := s.entryRepo.ListByActivity(ctx, activityID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := reduceTotals(entries)
	return &totals, nil
}

// GetProjectTrend 项目按日趋势序列，生产系数按计划工时加权
func (s *KPIService) GetProjectTrend(ctx context.Context, userID, projectID, startDate, endDate string) ([]TrendPoint, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []TrendPoint{}, nil
	}

	entries, err := s.entryRepo.ListByProject(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return reduceTrend(entries), nil
}

// GetScopeTrend 分项按日趋势序列
func (s *KPIService) GetScopeTrend(ctx context.Context, userID, scopeID, startDate, endDate string) ([]TrendPoint, error) {
	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []TrendPoint{}, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, scope.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []TrendPoint{}, nil
	}

	entries, err := s.entryRepo.ListByScope(ctx, scopeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return reduceTrend(entries), nil
}

// accessibleProjectIDs 调用方可见的项目ID集合。
// 无档案或控制中心用户可见全部项目，其余按分配关系过滤
func (s *KPIService) accessibleProjectIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, nil
	}

	profile, err := s.access.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.Role == entity.RoleControlCenter {
		return s.projectRepo.ListIDs(ctx)
	}

	return s.assignRepo.ListProjectIDsByUser(ctx, userID)
}

// GetPortfolioTrend 跨项目汇总趋势，只统计调用方可见的项目
func (s *KPIService) GetPortfolioTrend(ctx context.Context, userID, startDate, endDate string) ([]TrendPoint, error) {
	projectIDs, err := s.accessibleProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return []TrendPoint{}, nil
	}

	entries, err := s.entryRepo.ListByProjects(ctx, projectIDs, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return reduceTrend(entries), nil
}

// GetPortfolioKPIs 跨项目指标汇总
func (s *KPIService) GetPortfolioKPIs(ctx context.Context, userID, startDate, endDate string) (*Totals, error) {
	projectIDs, err := s.accessibleProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}

	entries, err := s.entryRepo.ListByProjects(ctx, projectIDs, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := reduceTotals(entries)
	return &totals, nil
}
