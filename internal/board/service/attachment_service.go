package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/minio/minio-go/v7"
)

// AttachmentService 日报附件服务，文件内容存MinIO，元数据入库
type AttachmentService struct {
	attachRepo  *repository.AttachmentRepository
	entryRepo   *repository.EntryRepository
	minioClient *minio.Client
	bucketName  string
	access      *AccessService
}

// NewAttachmentService 创建附件服务
func NewAttachmentService(
	attachRepo *repository.AttachmentRepository,
	entryRepo *repository.EntryRepository,
	minioClient *minio.Client,
	bucketName string,
	access *AccessService,
) *AttachmentService {
	return &AttachmentService{
		attachRepo:  attachRepo,
		entryRepo:   entryRepo,
		minioClient: minioClient,
		bucketName:  bucketName,
		access:      access,
	}
}

// Upload 上传附件并挂到指定日报
func (s *AttachmentService) Upload(ctx context.Context, userID, entryID, fileName, contentType string, fileSize int64, reader io.Reader) (*entity.EntryAttachment, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("entry not found: %w", err)
	}

	if err := s.access.RequireAccess(ctx, userID, entry.ProjectID); err != nil {
		return nil, err
	}

	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	id := generateID()
	objectName := fmt.Sprintf("entries/%s/%s%s", entryID, id[:8], filepath.Ext(fileName))

	_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	attachment := &entity.EntryAttachment{
		ID:          id,
		EntryID:     entryID,
		FileName:    fileName,
		FilePath:    objectName,
		FileSize:    fileSize,
		ContentType: contentType,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}

	if err := s.attachRepo.Create(ctx, attachment); err != nil {
		// 元数据入库失败则回收已上传的对象
		s.minioClient.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	return attachment, nil
}

// List 获取日报的附件清单。无权限返回空列表
func (s *AttachmentService) List(ctx context.Context, userID, entryID string) ([]entity.EntryAttachment, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return []entity.EntryAttachment{}, nil
	}

	ok, err := s.access.CanAccess(ctx, userID, entry.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.EntryAttachment{}, nil
	}

	return s.attachRepo.ListByEntry(ctx, entryID)
}

// Download 下载附件内容
func (s *AttachmentService) Download(ctx context.Context, userID, attachmentID string) (io.ReadCloser, *entity.EntryAttachment, error) {
	attachment, err := s.attachRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("attachment not found: %w", err)
	}

	entry, err := s.entryRepo.FindByID(ctx, attachment.EntryID)
	if err != nil {
		return nil, nil, fmt.Errorf("entry not found: %w", err)
	}

	if err := s.access.RequireAccess(ctx, userID, entry.ProjectID); err != nil {
		return nil, nil, err
	}

	if s.minioClient == nil {
		return nil, nil, fmt.Errorf("storage not configured")
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, attachment.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}

	return object, attachment, nil
}

// Remove 删除附件及其存储对象
func (s *AttachmentService) Remove(ctx context.Context, userID, attachmentID string) error {
	attachment, err := s.attachRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return fmt.Errorf("attachment not found: %w", err)
	}

	entry, err := s.entryRepo.FindByID(ctx, attachment.EntryID)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}

	if err := s.access.RequireAccess(ctx, userID, entry.ProjectID); err != nil {
		return err
	}

	if err := s.attachRepo.Delete(ctx, attachmentID); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if s.minioClient != nil {
		s.minioClient.RemoveObject(ctx, s.bucketName, attachment.FilePath, minio.RemoveObjectOptions{})
	}

	return nil
}
