package repository

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"gorm.io/gorm"
)

// AttachmentRepository 附件仓库
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件仓库
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByID 根据ID查找附件
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.EntryAttachment, error) {
	var attachment entity.EntryAttachment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// Create 创建附件记录
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.EntryAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// Delete 删除附件记录
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.EntryAttachment{}).Error
}

// ListByEntry 获取日报的附件列表
func (r *AttachmentRepository) ListByEntry(ctx context.Context, entryID string) ([]entity.EntryAttachment, error) {
	var attachments []entity.EntryAttachment
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}
