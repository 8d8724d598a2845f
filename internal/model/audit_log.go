package model

import "time"

// TaskAuditLog 任务变更审计表 — 对应 task_audit_logs（纯审计日志）
// 每次任务写操作记录变更前后的完整任务快照（JSON 文本）。
type TaskAuditLog struct {
	AuditLogID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	TaskID      string    `gorm:"type:uuid;not null;index"                       json:"task_id"`
	EditionID   string    `gorm:"type:uuid;not null;index"                       json:"edition_id"`
	Action      string    `gorm:"type:varchar(20);not null"                      json:"action"` // create | update | delete
	BeforeState string    `gorm:"type:text"                                      json:"before_state,omitempty"`
	AfterState  string    `gorm:"type:text"                                      json:"after_state,omitempty"`
	OperatorID  *string   `gorm:"type:uuid"                                      json:"operator_id,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (TaskAuditLog) TableName() string { return "task_audit_logs" }
