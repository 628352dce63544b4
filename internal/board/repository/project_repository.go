package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓库
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID 根据ID查找项目
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// List 获取项目列表
func (r *ProjectRepository) List(ctx context.Context, filters map[string]interface{}) ([]entity.Project, error) {
	var projects []entity.Project

	query := r.db.WithContext(ctx).Where("deleted_at IS NULL")

	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// ListByIDs 按ID集合获取项目
func (r *ProjectRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Project, error) {
	if len(ids) == 0 {
		return []entity.Project{}, nil
	}
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListIDs 获取全部项目ID
func (r *ProjectRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Where("deleted_at IS NULL").
		Pluck("id", &ids).Error
	return ids, err
}

// Reset 清空全部项目数据（管理端重置，用户保留）
func (r *ProjectRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			"entry_attachments",
			"daily_entries",
			"scope_assignments",
			"project_assignments",
			"activities",
			"scopes",
			"projects",
		} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
