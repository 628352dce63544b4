package entity

import (
	"time"
)

// Project 项目实体
type Project struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	Code            string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name            string     `json:"name" gorm:"size:128;not null"`
	Status          string     `json:"status" gorm:"size:16;not null;default:active"`
	Description     string     `json:"description" gorm:"type:text"`
	Location        string     `json:"location" gorm:"size:256"`
	LeaderboardMode bool       `json:"leaderboard_mode" gorm:"not null;default:true"`
	StartDate       *time.Time `json:"start_date" gorm:"type:date"`
	PlannedEnd      *time.Time `json:"planned_end" gorm:"type:date"`
	CreatedBy       string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Creator *User   `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Scopes  []Scope `json:"scopes,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// Scope 分项工程：项目下的一个工种口径（如"电气"、"土建"）
type Scope struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string    `json:"project_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Sequence    int       `json:"sequence" gorm:"not null;default:0"`
	CreatedBy   string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Project    *Project   `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:ScopeID"`
}

func (Scope) TableName() string {
	return "scopes"
}

// Activity 施工活动，冗余 project_id 便于按项目直查
type Activity struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	ScopeID     string    `json:"scope_id" gorm:"size:32;not null;index"`
	ProjectID   string    `json:"project_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Unit        string    `json:"unit" gorm:"size:32;not null"`
	Sequence    int       `json:"sequence" gorm:"not null;default:0"`
	CreatedBy   string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Scope   *Scope   `json:"scope,omitempty" gorm:"foreignKey:ScopeID"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Activity) TableName() string {
	return "activities"
}

// ProjectStatus 项目状态
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
)
