package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// EntryRepository 日报仓库
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository 创建日报仓库
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// FindByID 根据ID查找日报
func (r *EntryRepository) FindByID(ctx context.Context, id string) (*entity.DailyEntry, error) {
	var entry entity.DailyEntry
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByActivityAndDate 查找 (活动, 日期) 对应的日报
func (r *EntryRepository) FindByActivityAndDate(ctx context.Context, activityID, date string) (*entity.DailyEntry, error) {
	var entry entity.DailyEntry
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND entry_date = ?", activityID, date).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// Create 创建日报
func (r *EntryRepository) Create(ctx context.Context, entry *entity.DailyEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Update 更新日报
func (r *EntryRepository) Update(ctx context.Context, entry *entity.DailyEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete 删除日报
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.DailyEntry{}).Error
}

// dateRange 附加闭区间日期过滤，日期串字典序比较
func dateRange(query *gorm.DB, startDate, endDate string) *gorm.DB {
	if startDate != "" {
		query = query.Where("entry_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("entry_date <= ?", endDate)
	}
	return query
}

// ListByActivity 获取活动的日报列表
func (r *EntryRepository) ListByActivity(ctx context.Context, activityID, startDate, endDate string) ([]entity.DailyEntry, error) {
	var entries []entity.DailyEntry
	query := r.db.WithContext(ctx).Where("activity_id = ?", activityID)
	err := dateRange(query, startDate, endDate).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

// ListByScope 获取分项的日报列表
func (r *EntryRepository) ListByScope(ctx context.Context, scopeID, startDate, endDate string) ([]entity.DailyEntry, error) {
	var entries []entity.DailyEntry
	query := r.db.WithContext(ctx).Where("scope_id = ?", scopeID)
	err := dateRange(query, startDate, endDate).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

// ListByProject 获取项目的日报列表
func (r *EntryRepository) ListByProject(ctx context.Context, projectID, startDate, endDate string) ([]entity.DailyEntry, error) {
	var entries []entity.DailyEntry
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	err := dateRange(query, startDate, endDate).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}

// ListByProjects 获取多个项目的日报列表（跨项目趋势用）
func (r *EntryRepository) ListByProjects(ctx context.Context, projectIDs []string, startDate, endDate string) ([]entity.DailyEntry, error) {
	if len(projectIDs) == 0 {
		return []entity.DailyEntry{}, nil
	}
	var entries []entity.DailyEntry
	query := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs)
	err := dateRange(query, startDate, endDate).
		Order("entry_date ASC").
		Find(&entries).Error
	return entries, err
}
