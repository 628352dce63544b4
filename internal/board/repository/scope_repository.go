package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// ScopeRepository 分项仓库
type ScopeRepository struct {
	db *gorm.DB
}

// NewScopeRepository 创建分项仓库
func NewScopeRepository(db *gorm.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

// FindByID 根据ID查找分项
func (r *ScopeRepository) FindByID(ctx context.Context, id string) (*entity.Scope, error) {
	var scope entity.Scope
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&scope).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &scope, nil
}

// Create 创建分项
func (r *ScopeRepository) Create(ctx context.Context, scope *entity.Scope) error {
	return r.db.WithContext(ctx).Create(scope).Error
}

// Update 更新分项
func (r *ScopeRepository) Update(ctx context.Context, scope *entity.Scope) error {
	return r.db.WithContext(ctx).Save(scope).Error
}

// ListByProject 获取项目分项列表
func (r *ScopeRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Scope, error) {
	var scopes []entity.Scope
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sequence ASC, created_at ASC").
		Find(&scopes).Error
	return scopes, err
}

// DeleteCascade 删除分项并级联删除其活动与日报
func (r *ScopeRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scope_id = ?", id).Delete(&entity.DailyEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scope_id = ?", id).Delete(&entity.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scope_id = ?", id).Delete(&entity.ScopeAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Scope{}).Error
	})
}
