package entity

import (
	"time"
)

// User 用户实体
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Name         string     `json:"name" gorm:"size:64;not null"`
	Role         string     `json:"role" gorm:"size:32;not null;default:construction_manager"`
	JobTitle     string     `json:"job_title" gorm:"size:32"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// ProjectAssignment 项目分配：授予非调度中心角色对单个项目的读写权限
type ProjectAssignment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	UserID     string    `json:"user_id" gorm:"size:32;not null;uniqueIndex:idx_project_assign_user,priority:1"`
	ProjectID  string    `json:"project_id" gorm:"size:32;not null;uniqueIndex:idx_project_assign_user,priority:2;index"`
	AssignedBy string    `json:"assigned_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (ProjectAssignment) TableName() string {
	return "project_assignments"
}

// ScopeAssignment 分项负责人分配：标记某个用户是该分项的责任工长，
// 新建日报时用它填充 foreman 字段
type ScopeAssignment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	UserID     string    `json:"user_id" gorm:"size:32;not null;index"`
	ScopeID    string    `json:"scope_id" gorm:"size:32;not null;uniqueIndex"`
	ProjectID  string    `json:"project_id" gorm:"size:32;not null;index"`
	AssignedBy string    `json:"assigned_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Scope *Scope `json:"scope,omitempty" gorm:"foreignKey:ScopeID"`
}

func (ScopeAssignment) TableName() string {
	return "scope_assignments"
}

// UserRole 用户角色
const (
	RoleControlCenter       = "control_center"
	RoleConstructionManager = "construction_manager"
)

// JobTitle 职位
const (
	JobTitleForeman        = "foreman"
	JobTitleSiteEngineer   = "site_engineer"
	JobTitleSuperintendent = "superintendent"
	JobTitleProjectManager = "project_manager"
)

// UserStatus 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
