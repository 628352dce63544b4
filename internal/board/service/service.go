package service

import (
	"context"
	"errors"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// 错误定义
var (
	// ErrAuthRequired 未登录
	ErrAuthRequired = errors.New("authentication required")
	// ErrAccessDenied 无项目访问权限
	ErrAccessDenied = errors.New("access denied")
)

// Services 服务集合
type Services struct {
	Auth        *AuthService
	User        *UserService
	Access      *AccessService
	Project     *ProjectService
	Entry       *EntryService
	KPI         *KPIService
	Leaderboard *LeaderboardService
	Report      *ReportService
	Attachment  *AttachmentService
	Admin       *AdminService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			// 没有对象存储时附件功能降级，服务继续启动
			minioClient = nil
		}
	}

	access := NewAccessService(repos.User, repos.Assignment)
	kpi := NewKPIService(repos.Entry, repos.Activity, repos.Scope, repos.Project, repos.Assignment, access)
	leaderboard := NewLeaderboardService(repos.Entry, repos.Scope, repos.Activity, repos.Project, repos.User, access)

	return &Services{
		Auth:        NewAuthService(repos.User, rdb, cfg),
		User:        NewUserService(repos.User),
		Access:      access,
		Project:     NewProjectService(repos.Project, repos.Scope, repos.Activity, repos.Assignment, repos.User, access),
		Entry:       NewEntryService(repos.Entry, repos.Activity, repos.Assignment, repos.User, access),
		KPI:         kpi,
		Leaderboard: leaderboard,
		Report:      NewReportService(repos.Project, kpi, leaderboard),
		Attachment:  NewAttachmentService(repos.Attachment, repos.Entry, minioClient, cfg.MinIO.Bucket, access),
		Admin:       NewAdminService(repos.Project),
	}
}

// UserService 用户服务
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ListAll 获取所有活跃用户
func (s *UserService) ListAll(ctx context.Context) ([]entity.User, error) {
	return s.repo.ListActive(ctx)
}

// Search 搜索用户（按名字/用户名模糊匹配）
func (s *UserService) Search(ctx context.Context, query string) ([]entity.User, error) {
	return s.repo.Search(ctx, query)
}

// AdminService 管理服务
type AdminService struct {
	projectRepo *repository.ProjectRepository
}

// NewAdminService 创建管理服务
func NewAdminService(projectRepo *repository.ProjectRepository) *AdminService {
	return &AdminService{projectRepo: projectRepo}
}

// Reset 清空全部项目数据（保留用户账号）
func (s *AdminService) Reset(ctx context.Context) error {
	return s.projectRepo.Reset(ctx)
}
