package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/repository"
)

// AccessService 项目访问控制。规则：
//   - 无用户档案：放行（新用户可浏览，写操作由各自服务单独校验角色）
//   - control_center：无条件放行
//   - 其他角色：必须存在项目分配记录
//
// 每次调用都重新计算，不做缓存
type AccessService struct {
	userRepo   *repository.UserRepository
	assignRepo *repository.AssignmentRepository
}

// NewAccessService 创建访问控制服务
func NewAccessService(userRepo *repository.UserRepository, assignRepo *repository.AssignmentRepository) *AccessService {
	return &AccessService{userRepo: userRepo, assignRepo: assignRepo}
}

// CanAccess 判断用户是否可以访问项目
func (s *AccessService) CanAccess(ctx context.Context, userID, projectID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 尚未建档的用户按可浏览处理
			return true, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	if user.Role == entity.RoleControlCenter {
		return true, nil
	}

	return s.assignRepo.ProjectAssignmentExists(ctx, userID, projectID)
}

// RequireAccess 写路径的访问校验：未登录返回 ErrAuthRequired，无权限返回 ErrAccessDenied
func (s *AccessService) RequireAccess(ctx context.Context, userID, projectID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	ok, err := s.CanAccess(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// Profile 获取调用者档案，未建档返回 nil
func (s *AccessService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// RequireControlCenter 校验调用者具有调度中心角色
func (s *AccessService) RequireControlCenter(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.Role != entity.RoleControlCenter {
		return ErrAccessDenied
	}
	return nil
}
