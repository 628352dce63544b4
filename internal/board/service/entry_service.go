package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
)

// EntryService 日报录入服务：按 (活动, 日期) 做一次 upsert，
// 每个键最多保留一条记录
type EntryService struct {
	entryRepo    *repository.EntryRepository
	activityRepo *repository.ActivityRepository
	assignRepo   *repository.AssignmentRepository
	userRepo     *repository.UserRepository
	access       *AccessService
}

// NewEntryService 创建日报录入服务
func NewEntryService(
	entryRepo *repository.EntryRepository,
	activityRepo *repository.ActivityRepository,
	assignRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
	access *AccessService,
) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		activityRepo: activityRepo,
		assignRepo:   assignRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

// SubmitForecastRequest 提交计划数据请求
type SubmitForecastRequest struct {
	ActivityID     string   `json:"activity_id" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	Quantity       *float64 `json:"quantity"`
	CrewSize       *float64 `json:"crew_size"`
	HoursPerWorker *float64 `json:"hours_per_worker"`
	Notes          *string  `json:"notes"`
}

// SubmitActualsRequest 提交实际数据请求
type SubmitActualsRequest struct {
	ActivityID     string   `json:"activity_id" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	Quantity       *float64 `json:"quantity"`
	CrewSize       *float64 `json:"crew_size"`
	HoursPerWorker *float64 `json:"hours_per_worker"`
	Notes          *string  `json:"notes"`
}

// SubmitEntryRequest 组合提交请求，计划/实际两侧字段均可任意子集提交
type SubmitEntryRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
	Date       string `json:"date" binding:"required"`

	ForecastQuantity       *float64 `json:"forecast_quantity"`
	ForecastCrewSize       *float64 `json:"forecast_crew_size"`
	ForecastHoursPerWorker *float64 `json:"forecast_hours_per_worker"`

	ActualQuantity       *float64 `json:"actual_quantity"`
	ActualCrewSize       *float64 `json:"actual_crew_size"`
	ActualHoursPerWorker *float64 `json:"actual_hours_per_worker"`

	Notes *string `json:"notes"`
}

// SubmitForecast 提交某活动某天的计划数据
func (s *EntryService) SubmitForecast(ctx context.Context, userID string, req *SubmitForecastRequest) (*entity.DailyEntry, error) {
	return s.Submit(ctx, userID, &SubmitEntryRequest{
		ActivityID:             req.ActivityID,
		Date:                   req.Date,
		ForecastQuantity:       req.Quantity,
		ForecastCrewSize:       req.CrewSize,
		ForecastHoursPerWorker: req.HoursPerWorker,
		Notes:                  req.Notes,
	})
}

// SubmitActuals 提交某活动某天的实际数据
func (s *EntryService) SubmitActuals(ctx context.Context, userID string, req *SubmitActualsRequest) (*entity.DailyEntry, error) {
	return s.Submit(ctx, userID, &SubmitEntryRequest{
		ActivityID:           req.ActivityID,
		Date:                 req.Date,
		ActualQuantity:       req.Quantity,
		ActualCrewSize:       req.CrewSize,
		ActualHoursPerWorker: req.HoursPerWorker,
		Notes:                req.Notes,
	})
}

// derivedHours 班组人数×人均工时。只有两个输入在本次调用中同时给出
// 且均为正数时才推导，否则不动既有值
func derivedHours(crewSize, hoursPerWorker *float64) *float64 {
	if crewSize == nil || hoursPerWorker == nil {
		return nil
	}
	if *crewSize <= 0 || *hoursPerWorker <= 0 {
		return nil
	}
	h := *crewSize * *hoursPerWorker
	return &h
}

// resolveForeman 解析责任工长：优先分项负责人，其次提交人自己的档案
func (s *EntryService) resolveForeman(ctx context.Context, userID, scopeID string) (foremanID, foremanName string) {
	assignment, err := s.assignRepo.FindScopeAssignment(ctx, scopeID)
	if err == nil {
		name := ""
		if assignment.User != nil {
			name = assignment.User.Name
		} else if u, uerr := s.userRepo.FindByID(ctx, assignment.UserID); uerr == nil {
			name = u.Name
		}
		return assignment.UserID, name
	}

	if user, uerr := s.userRepo.FindByID(ctx, userID); uerr == nil {
		return user.ID, user.Name
	}
	return "", ""
}

// Submit 录入日报：存在则按提交字段打补丁，不存在则新建
func (s *EntryService) Submit(ctx context.Context, userID string, req *SubmitEntryRequest) (*entity.DailyEntry, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
	}

	activity, err := s.activityRepo.FindByID(ctx, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("activity not found: %w", err)
	}

	if err := s.access.RequireAccess(ctx, userID, activity.ProjectID); err != nil {
		return nil, err
	}

	foremanID, foremanName := s.resolveForeman(ctx, userID, activity.ScopeID)
	forecastHours := derivedHours(req.ForecastCrewSize, req.ForecastHoursPerWorker)
	actualHours := derivedHours(req.ActualCrewSize, req.ActualHoursPerWorker)

	existing, err := s.entryRepo.FindByActivityAndDate(ctx, req.ActivityID, req.Date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find entry: %w", err)
	}

	if existing != nil {
		return s.patch(ctx, userID, existing, req, forecastHours, actualHours, foremanID, foremanName)
	}

	entry := &entity.DailyEntry{
		ID:                     generateID(),
		ActivityID:             activity.ID,
		ScopeID:                activity.ScopeID,
		ProjectID:              activity.ProjectID,
		EntryDate:              req.Date,
		ForecastQuantity:       req.ForecastQuantity,
		ForecastCrewSize:       req.ForecastCrewSize,
		ForecastHoursPerWorker: req.ForecastHoursPerWorker,
		ForecastHours:          forecastHours,
		ActualQuantity:         req.ActualQuantity,
		ActualCrewSize:         req.ActualCrewSize,
		ActualHoursPerWorker:   req.ActualHoursPerWorker,
		ActualHours:            actualHours,
		ForemanID:              foremanID,
		ForemanName:            foremanName,
		CreatedBy:              userID,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		// (activity_id, entry_date) 唯一索引兜底：并发提交撞键时改走补丁
		raced, ferr := s.entryRepo.FindByActivityAndDate(ctx, req.ActivityID, req.Date)
		if ferr != nil {
			return nil, fmt.Errorf("create entry: %w", err)
		}
		return s.patch(ctx, userID, raced, req, forecastHours, actualHours, foremanID, foremanName)
	}

	return entry, nil
}

// patch 只覆盖本次提交的字段，备注与工长快照缺省沿用旧值
func (s *EntryService) patch(
	ctx context.Context,
	userID string,
	entry *entity.DailyEntry,
	req *SubmitEntryRequest,
	forecastHours, actualHours *float64,
	foremanID, foremanName string,
) (*entity.DailyEntry, error) {
	if req.ForecastQuantity != nil {
		entry.ForecastQuantity = req.ForecastQuantity
	}
	if req.ForecastCrewSize != nil {
		entry.ForecastCrewSize = req.ForecastCrewSize
	}
	if req.ForecastHoursPerWorker != nil {
		entry.ForecastHoursPerWorker = req.ForecastHoursPerWorker
	}
	if forecastHours != nil {
		entry.ForecastHours = forecastHours
	}
	if req.ActualQuantity != nil {
		entry.ActualQuantity = req.ActualQuantity
	}
	if req.ActualCrewSize != nil {
		entry.ActualCrewSize = req.ActualCrewSize
	}
	if req.ActualHoursPerWorker != nil {
		entry.ActualHoursPerWorker = req.ActualHoursPerWorker
	}
	if actualHours != nil {
		entry.ActualHours = actualHours
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if foremanID != "" {
		entry.ForemanID = foremanID
	}
	if foremanName != "" {
		entry.ForemanName = foremanName
	}

	entry.UpdatedBy = userID
	entry.UpdatedAt = time.Now()

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// Remove 删除日报
func (s *EntryService) Remove(ctx context.Context, userID, entryID string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}

	if err := s.access.RequireAccess(ctx, userID, entry.ProjectID); err != nil {
		return err
	}

	return s.entryRepo.Delete(ctx, entryID)
}

// ListByActivity 获取活动的日报列表。无权限或未登录返回空列表
func (s *EntryService) ListByActivity(ctx context.Context, userID, activityID, startDate, endDate string) ([]entity.DailyEntry, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []entity.DailyEntry{}, nil
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(ctx, userID, activity.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.DailyEntry{}, nil
	}

	return s.entryRepo.ListByActivity(ctx, activityID, startDate, endDate)
}
