package entity

import (
	"time"
)

// DailyEntry 日报记录：每个活动每天最多一条，计划与实际两侧字段均可独立缺省。
// 工时字段由 班组人数 × 人均工时 推导，两者同时提交时才重算
type DailyEntry struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	ActivityID string `json:"activity_id" gorm:"size:32;not null;uniqueIndex:idx_entries_activity_date,priority:1"`
	ScopeID    string `json:"scope_id" gorm:"size:32;not null;index"`
	ProjectID  string `json:"project_id" gorm:"size:32;not null;index"`
	// ISO日期串 YYYY-MM-DD，字典序即时间序，区间查询直接用字符串比较
	EntryDate string `json:"date" gorm:"column:entry_date;size:10;not null;uniqueIndex:idx_entries_activity_date,priority:2;index"`

	ForecastQuantity       *float64 `json:"forecast_quantity" gorm:"type:decimal(15,4)"`
	ForecastCrewSize       *float64 `json:"forecast_crew_size" gorm:"type:decimal(10,2)"`
	ForecastHoursPerWorker *float64 `json:"forecast_hours_per_worker" gorm:"type:decimal(10,2)"`
	ForecastHours          *float64 `json:"forecast_hours" gorm:"type:decimal(12,2)"`

	ActualQuantity       *float64 `json:"actual_quantity" gorm:"type:decimal(15,4)"`
	ActualCrewSize       *float64 `json:"actual_crew_size" gorm:"type:decimal(10,2)"`
	ActualHoursPerWorker *float64 `json:"actual_hours_per_worker" gorm:"type:decimal(10,2)"`
	ActualHours          *float64 `json:"actual_hours" gorm:"type:decimal(12,2)"`

	Notes string `json:"notes" gorm:"type:text"`

	// 责任工长：foreman_id 为解析后的用户ID（排行榜分组键），
	// foreman_name 为提交时的姓名快照
	ForemanID   string `json:"foreman_id" gorm:"size:32;index"`
	ForemanName string `json:"foreman_name" gorm:"size:64"`

	CreatedBy string    `json:"created_by" gorm:"size:32;not null"`
	UpdatedBy string    `json:"updated_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Activity *Activity `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
}

func (DailyEntry) TableName() string {
	return "daily_entries"
}

// EntryAttachment 日报附件（现场照片、签证单等），文件本体存MinIO
type EntryAttachment struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	EntryID     string    `json:"entry_id" gorm:"size:32;not null;index"`
	FileName    string    `json:"file_name" gorm:"size:256;not null"`
	FilePath    string    `json:"-" gorm:"size:512;not null"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type" gorm:"size:128"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (EntryAttachment) TableName() string {
	return "entry_attachments"
}
