package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// AssignmentRepository 分配仓库：项目分配与分项负责人分配
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建分配仓库
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ProjectAssignmentExists 判断用户是否被分配到项目
func (r *AssignmentRepository) ProjectAssignmentExists(ctx context.Context, userID, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectAssignment{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

// CreateProjectAssignment 创建项目分配
func (r *AssignmentRepository) CreateProjectAssignment(ctx context.Context, a *entity.ProjectAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// DeleteProjectAssignment 删除项目分配
func (r *AssignmentRepository) DeleteProjectAssignment(ctx context.Context, userID, projectID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&entity.ProjectAssignment{}).Error
}

// ListProjectAssignments 获取项目的分配列表
func (r *AssignmentRepository) ListProjectAssignments(ctx context.Context, projectID string) ([]entity.ProjectAssignment, error) {
	var assignments []entity.ProjectAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

// ListProjectIDsByUser 获取用户被分配的项目ID列表
func (r *AssignmentRepository) ListProjectIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectAssignment{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error
	return ids, err
}

// FindScopeAssignment 获取分项的负责人分配
func (r *AssignmentRepository) FindScopeAssignment(ctx context.Context, scopeID string) (*entity.ScopeAssignment, error) {
	var assignment entity.ScopeAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("scope_id = ?", scopeID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// SetScopeAssignment 设置分项负责人（每个分项唯一，重复设置覆盖）
func (r *AssignmentRepository) SetScopeAssignment(ctx context.Context, a *entity.ScopeAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scope_id = ?", a.ScopeID).Delete(&entity.ScopeAssignment{}).Error; err != nil {
			return err
		}
		return tx.Create(a).Error
	})
}

// DeleteScopeAssignment 取消分项负责人
func (r *AssignmentRepository) DeleteScopeAssignment(ctx context.Context, scopeID string) error {
	return r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Delete(&entity.ScopeAssignment{}).Error
}
