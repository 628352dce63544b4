package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
)

// ProjectService 项目服务：项目、分项、活动与人员分配的维护
type ProjectService struct {
	projectRepo  *repository.ProjectRepository
	scopeRepo    *repository.ScopeRepository
	activityRepo *repository.ActivityRepository
	assignRepo   *repository.AssignmentRepository
	userRepo     *repository.UserRepository
	access       *AccessService
}

// NewProjectService 创建项目服务
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	scopeRepo *repository.ScopeRepository,
	activityRepo *repository.ActivityRepository,
	assignRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
	access *AccessService,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		scopeRepo:    scopeRepo,
		activityRepo: activityRepo,
		assignRepo:   assignRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name            string `json:"name" binding:"required"`
	Code            string `json:"code" binding:"required"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	StartDate       string `json:"start_date"`
	PlannedEnd      string `json:"planned_end"`
	LeaderboardMode *bool  `json:"leaderboard_mode"`
}

// UpdateProjectRequest 更新项目请求，均为可选字段
type UpdateProjectRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	Status          *string `json:"status"`
	StartDate       *string `json:"start_date"`
	PlannedEnd      *string `json:"planned_end"`
	LeaderboardMode *bool   `json:"leaderboard_mode"`
}

// CreateScopeRequest 创建分项请求
type CreateScopeRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
}

// UpdateScopeRequest 更新分项请求
type UpdateScopeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Sequence    *int    `json:"sequence"`
}

// CreateActivityRequest 创建活动请求
type CreateActivityRequest struct {
	ScopeID     string `json:"scope_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// UpdateActivityRequest 更新活动请求
type UpdateActivityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Unit        *string `json:"unit"`
}

// parseDate 解析 YYYY-MM-DD 日期字段，空串视为未填
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, expect YYYY-MM-DD: %w", field, err)
	}
	return &t, nil
}

// CreateProject 创建项目，仅控制中心角色
func (s *ProjectService) CreateProject(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	plannedEnd, err := parseDate("planned_end", req.PlannedEnd)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &entity.Project{
		ID:              generateID(),
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		Location:        req.Location,
		Status:          entity.ProjectStatusActive,
		StartDate:       startDate,
		PlannedEnd:      plannedEnd,
		LeaderboardMode: true,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.LeaderboardMode != nil {
		project.LeaderboardMode = *req.LeaderboardMode
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

// UpdateProject 更新项目，仅控制中心角色
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID string, req *UpdateProjectRequest) (*entity.Project, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		startDate, perr := parseDate("start_date", *req.StartDate)
		if perr != nil {
			return nil, perr
		}
		project.StartDate = startDate
	}
	if req.PlannedEnd != nil {
		plannedEnd, perr := parseDate("planned_end", *req.PlannedEnd)
		if perr != nil {
			return nil, perr
		}
		project.PlannedEnd = plannedEnd
	}
	if req.LeaderboardMode != nil {
		project.LeaderboardMode = *req.LeaderboardMode
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return project, nil
}

// GetProject 获取项目详情。无权限返回空
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return project, nil
}

// ListProjects 项目列表，只返回调用方可见的项目
func (s *ProjectService) ListProjects(ctx context.Context, userID string, filters map[string]interface{}) ([]entity.Project, error) {
	if userID == "" {
		return []entity.Project{}, nil
	}

	profile, err := s.access.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile == nil || profile.Role == entity.RoleControlCenter {
		return s.projectRepo.List(ctx, filters)
	}

	ids, err := s.assignRepo.ListProjectIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.Project{}, nil
	}

	return s.projectRepo.ListByIDs(ctx, ids)
}

// CreateScope 创建分项，仅控制中心角色
func (s *ProjectService) CreateScope(ctx context.Context, userID string, req *CreateScopeRequest) (*entity.Scope, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	now := time.Now()
	scope := &entity.Scope{
		ID:          generateID(),
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Sequence:    req.Sequence,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.scopeRepo.Create(ctx, scope); err != nil {
		return nil, fmt.Errorf("create scope: %w", err)
	}

	return scope, nil
}

// UpdateScope 更新分项，仅控制中心角色
func (s *ProjectService) UpdateScope(ctx context.Context, userID, scopeID string, req *UpdateScopeRequest) (*entity.Scope, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("scope not found: %w", err)
	}

	if req.Name != nil {
		scope.Name = *req.Name
	}
	if req.Description != nil {
		scope.Description = *req.Description
	}
	if req.Sequence != nil {
		scope.Sequence = *req.Sequence
	}
	scope.UpdatedAt = time.Now()

	if err := s.scopeRepo.Update(ctx, scope); err != nil {
		return nil, fmt.Errorf("update scope: %w", err)
	}

	return scope, nil
}

// DeleteScope 删除分项及其下属活动和日报，仅控制中心角色
func (s *ProjectService) DeleteScope(ctx context.Context, userID, scopeID string) error {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return err
	}

	if _, err := s.scopeRepo.FindByID(ctx, scopeID); err != nil {
		return fmt.Errorf("scope not found: %w", err)
	}

	return s.scopeRepo.DeleteCascade(ctx, scopeID)
}

// ListScopes 项目分项列表。无权限返回空列表
func (s *ProjectService) ListScopes(ctx context.Context, userID, projectID string) ([]entity.Scope, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.Scope{}, nil
	}

	return s.scopeRepo.ListByProject(ctx, projectID)
}

// CreateActivity 创建活动，仅控制中心角色
func (s *ProjectService) CreateActivity(ctx context.Context, userID string, req *CreateActivityRequest) (*entity.Activity, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	scope, err := s.scopeRepo.FindByID(ctx, req.ScopeID)
	if err != nil {
		return nil, fmt.Errorf("scope not found: %w", err)
	}

	now := time.Now()
	activity := &entity.Activity{
		ID:          generateID(),
		ScopeID:     scope.ID,
		ProjectID:   scope.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	return activity, nil
}

// UpdateActivity 更新活动，仅控制中心角色
func (s *ProjectService) UpdateActivity(ctx context.Context, userID, activityID string, req *UpdateActivityRequest) (*entity.Activity, error) {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("activity not found: %w", err)
	}

	if req.Name != nil {
		activity.Name = *req.Name
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Unit != nil {
		activity.Unit = *req.Unit
	}
	activity.UpdatedAt = time.Now()

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}

	return activity, nil
}

// DeleteActivity 删除活动及其日报，仅控制中心角色
func (s *ProjectService) DeleteActivity(ctx context.Context, userID, activityID string) error {
	if err := s.access.RequireControlCenter(ctx, userID); err != nil {
		return err
	}

	if _, err := s.activityRepo.FindByID(ctx, activityID); err != nil {
		return fmt.Errorf("activity not found: %w", err)
	}

	return s.activityRepo.DeleteCascade(ctx, activityID)
}

// ListActivities 分项活动列表。无权限返回空列表
func (s *ProjectService) ListActivities(ctx context.Context, userID, scopeID string) ([]entity.Activity, error) {
	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []entity.Activity{}, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, scope.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.Activity{}, nil
	}

	return s.activityRepo.ListByScope(ctx, scopeID)
}

// AssignUser 把用户分配到项目，仅控制中心角色
func (s *ProjectService) AssignUser(ctx context.Context, operatorID, projectID, targetUserID string) (*entity.ProjectAssignment, error) {
	if err := s.access.RequireControlCenter(ctx, operatorID); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, targetUserID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	exists, err := s.assignRepo.ProjectAssignmentExists(ctx, targetUserID, projectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user already assigned to project")
	}

	assignment := &entity.ProjectAssignment{
		ID:         generateID(),
		UserID:     targetUserID,
		ProjectID:  projectID,
		AssignedBy: operatorID,
		CreatedAt:  time.Now(),
	}

	if err := s.assignRepo.CreateProjectAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	return assignment, nil
}

// UnassignUser 移除用户的项目分配，仅控制中心角色
func (s *ProjectService) UnassignUser(ctx context.Context, operatorID, projectID, targetUserID string) error {
	if err := s.access.RequireControlCenter(ctx, operatorID); err != nil {
		return err
	}

	return s.assignRepo.DeleteProjectAssignment(ctx, targetUserID, projectID)
}

// ListAssignments 项目的人员分配列表
func (s *ProjectService) ListAssignments(ctx context.Context, userID, projectID string) ([]entity.ProjectAssignment, error) {
	ok, err := s.access.CanAccess(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.ProjectAssignment{}, nil
	}

	return s.assignRepo.ListProjectAssignments(ctx, projectID)
}

// SetScopeForeman 指定分项负责工长，仅控制中心角色。
// 一个分项同一时间只有一个负责人，重复设置会覆盖
func (s *ProjectService) SetScopeForeman(ctx context.Context, operatorID, scopeID, targetUserID string) (*entity.ScopeAssignment, error) {
	if err := s.access.RequireControlCenter(ctx, operatorID); err != nil {
		return nil, err
	}

	scope, err := s.scopeRepo.FindByID(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("scope not found: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, targetUserID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	assignment := &entity.ScopeAssignment{
		ID:         generateID(),
		ScopeID:    scopeID,
		ProjectID:  scope.ProjectID,
		UserID:     targetUserID,
		AssignedBy: operatorID,
		CreatedAt:  time.Now(),
	}

	if err := s.assignRepo.SetScopeAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("set scope foreman: %w", err)
	}

	return assignment, nil
}

// ClearScopeForeman 取消分项负责工长，仅控制中心角色
func (s *ProjectService) ClearScopeForeman(ctx context.Context, operatorID, scopeID string) error {
	if err := s.access.RequireControlCenter(ctx, operatorID); err != nil {
		return err
	}

	return s.assignRepo.DeleteScopeAssignment(ctx, scopeID)
}
