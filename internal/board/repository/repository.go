package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	User       *UserRepository
	Project    *ProjectRepository
	Scope      *ScopeRepository
	Activity   *ActivityRepository
	Assignment *AssignmentRepository
	Entry      *EntryRepository
	Attachment *AttachmentRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Project:    NewProjectRepository(db),
		Scope:      NewScopeRepository(db),
		Activity:   NewActivityRepository(db),
		Assignment: NewAssignmentRepository(db),
		Entry:      NewEntryRepository(db),
		Attachment: NewAttachmentRepository(db),
	}
}
