package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// ActivityRepository 活动仓库
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建活动仓库
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByID 根据ID查找活动
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*entity.Activity, error) {
	var activity entity.Activity
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// Create 创建活动
func (r *ActivityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// Update 更新活动
func (r *ActivityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// ListByScope 获取分项活动列表
func (r *ActivityRepository) ListByScope(ctx context.Context, scopeID string) ([]entity.Activity, error) {
	var activities []entity.Activity
	err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Order("sequence ASC, created_at ASC").
		Find(&activities).Error
	return activities, err
}

// ListByProject 获取项目活动列表
func (r *ActivityRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Activity, error) {
	var activities []entity.Activity
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sequence ASC, created_at ASC").
		Find(&activities).Error
	return activities, err
}

// DeleteCascade 删除活动并级联删除其日报
func (r *ActivityRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&entity.DailyEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Activity{}).Error
	})
}
